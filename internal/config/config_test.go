package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestFromViper_Defaults(t *testing.T) {
	viper.Reset()
	SetDefaults()

	cfg := FromViper()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, time.Duration(0), cfg.OTPTTL)
	assert.Equal(t, 1000.0, cfg.SyncIncrement)
	assert.False(t, cfg.SimulateVotes)
	assert.Equal(t, 10, cfg.NotifyLimit)
	assert.Equal(t, uint32(32), cfg.Argon2.KeyLength)
	assert.Equal(t, 16, cfg.Argon2.SaltLength)
	assert.Equal(t, []string{"https://*", "http://*"}, cfg.AllowedOrigins)
}

func TestFromViper_Overrides(t *testing.T) {
	viper.Reset()
	SetDefaults()
	viper.Set("treasury.sync_increment", 2500.0)
	viper.Set("voting.simulate_live_tally", true)
	viper.Set("otp.ttl", "5m")
	viper.Set("jwt.expiry_hours", 2)

	cfg := FromViper()

	assert.Equal(t, 2500.0, cfg.SyncIncrement)
	assert.True(t, cfg.SimulateVotes)
	assert.Equal(t, 5*time.Minute, cfg.OTPTTL)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
}

func TestFromViper_AllowedOrigins(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want []string
	}{
		{"comma separated env value", "https://app.harambee.co.ke,https://admin.harambee.co.ke", []string{"https://app.harambee.co.ke", "https://admin.harambee.co.ke"}},
		{"spaces around entries", " https://a.example , https://b.example ,", []string{"https://a.example", "https://b.example"}},
		{"single origin", "http://localhost:3000", []string{"http://localhost:3000"}},
		{"list from config file", []any{"https://a.example", "https://b.example"}, []string{"https://a.example", "https://b.example"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			SetDefaults()
			viper.Set("server.allowed_origins", tt.raw)

			assert.Equal(t, tt.want, FromViper().AllowedOrigins)
		})
	}
}
