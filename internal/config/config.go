package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port            string
	AllowedOrigins  []string
	JWTSecret       string
	SessionTTL      time.Duration
	SecureCookies   bool
	OTPTTL          time.Duration
	SyncIncrement   float64
	SimulateVotes   bool
	NotifyLimit     int
	UploadMaxBytes  int64
	AuditToDatabase bool
	Argon2          Argon2Config
}

type Argon2Config struct {
	Time       uint32
	Memory     uint32
	Threads    uint8
	KeyLength  uint32
	SaltLength int
}

var envBindings = map[string]string{
	"server.port":                "PORT",
	"server.allowed_origins":     "ALLOWED_ORIGINS",
	"server.secure_cookies":      "SECURE_COOKIES",
	"jwt.secret_key":             "JWT_SECRET_KEY",
	"jwt.expiry_hours":           "JWT_EXPIRY_HOURS",
	"otp.ttl":                    "OTP_TTL",
	"treasury.sync_increment":    "TREASURY_SYNC_INCREMENT",
	"voting.simulate_live_tally": "VOTING_SIMULATE_LIVE_TALLY",
	"notifications.limit":        "NOTIFICATIONS_LIMIT",
	"uploads.max_bytes":          "UPLOAD_MAX_BYTES",
	"audit.database":             "AUDIT_DATABASE",
	"argon2.time":                "ARGON2_TIME",
	"argon2.memory":              "ARGON2_MEMORY",
	"argon2.threads":             "ARGON2_THREADS",
	"argon2.key_length":          "ARGON2_KEY_LENGTH",
	"argon2.salt_length":         "ARGON2_SALT_LENGTH",
	"database.host":              "DATABASE_HOST",
	"database.port":              "DATABASE_PORT",
	"database.user":              "DATABASE_USER",
	"database.password":          "DATABASE_PASSWORD",
	"database.name":              "DATABASE_NAME",
	"database.ssl_mode":          "DATABASE_SSL_MODE",
	"redis.enabled":              "REDIS_ENABLED",
	"redis.host":                 "REDIS_HOST",
	"redis.port":                 "REDIS_PORT",
	"redis.password":             "REDIS_PASSWORD",
	"redis.db":                   "REDIS_DB",
}

// SetDefaults registers default values for every key.
func SetDefaults() {
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.allowed_origins", []string{"https://*", "http://*"})
	viper.SetDefault("server.secure_cookies", false)
	viper.SetDefault("jwt.secret_key", "change-me")
	viper.SetDefault("jwt.expiry_hours", 24)
	viper.SetDefault("otp.ttl", time.Duration(0))
	viper.SetDefault("treasury.sync_increment", 1000.0)
	viper.SetDefault("voting.simulate_live_tally", false)
	viper.SetDefault("notifications.limit", 10)
	viper.SetDefault("uploads.max_bytes", 10*1024*1024)
	viper.SetDefault("audit.database", false)
	viper.SetDefault("argon2.time", 1)
	viper.SetDefault("argon2.memory", 64*1024)
	viper.SetDefault("argon2.threads", 4)
	viper.SetDefault("argon2.key_length", 32)
	viper.SetDefault("argon2.salt_length", 16)
	viper.SetDefault("redis.enabled", false)
}

// Load reads .env (if present) and the environment into a Config.
func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()
	for key, env := range envBindings {
		viper.BindEnv(key, env)
	}
	SetDefaults()

	if err := viper.ReadInConfig(); err != nil {
		slog.Info("Config file not found, using defaults", "error", err)
	}

	return FromViper()
}

// FromViper builds a Config from the values currently held by viper.
func FromViper() *Config {
	return &Config{
		Port:            viper.GetString("server.port"),
		AllowedOrigins:  originList(viper.Get("server.allowed_origins")),
		JWTSecret:       viper.GetString("jwt.secret_key"),
		SessionTTL:      time.Duration(viper.GetInt("jwt.expiry_hours")) * time.Hour,
		SecureCookies:   viper.GetBool("server.secure_cookies"),
		OTPTTL:          viper.GetDuration("otp.ttl"),
		SyncIncrement:   viper.GetFloat64("treasury.sync_increment"),
		SimulateVotes:   viper.GetBool("voting.simulate_live_tally"),
		NotifyLimit:     viper.GetInt("notifications.limit"),
		UploadMaxBytes:  viper.GetInt64("uploads.max_bytes"),
		AuditToDatabase: viper.GetBool("audit.database"),
		Argon2: Argon2Config{
			Time:       uint32(viper.GetInt("argon2.time")),
			Memory:     uint32(viper.GetInt("argon2.memory")),
			Threads:    uint8(viper.GetInt("argon2.threads")),
			KeyLength:  uint32(viper.GetInt("argon2.key_length")),
			SaltLength: viper.GetInt("argon2.salt_length"),
		},
	}
}

// originList accepts either a list or a comma-separated string such as the
// ALLOWED_ORIGINS environment variable.
func originList(raw any) []string {
	var parts []string
	switch v := raw.(type) {
	case string:
		parts = strings.Split(v, ",")
	case []string:
		parts = v
	case []any:
		for _, item := range v {
			if str, ok := item.(string); ok {
				parts = append(parts, str)
			}
		}
	}

	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		if origin := strings.TrimSpace(part); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
