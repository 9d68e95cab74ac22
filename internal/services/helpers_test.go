package services

import (
	"time"

	"github.com/harambee/backend/internal/config"
	"github.com/harambee/backend/internal/store"
)

var testArgon2 = config.Argon2Config{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLength: 32, SaltLength: 16}

func newTestAuthService(st *store.Store) *AuthService {
	return NewAuthService(
		st,
		store.NewMemoryOTPStore(0),
		store.NewMemorySessionStore(time.Hour),
		NewTokenManager("test-secret", time.Hour),
		nil,
		nil,
		testArgon2,
	)
}
