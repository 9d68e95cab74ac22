package services

import (
	cryptorand "crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/harambee/backend/internal/config"
	"golang.org/x/crypto/argon2"
)

// hashPassword returns "<salt>$<hash>" using argon2id.
func hashPassword(password string, params config.Argon2Config) (string, error) {
	salt := make([]byte, params.SaltLength)
	if _, err := cryptorand.Read(salt); err != nil {
		return "", err
	}

	hash := argon2.IDKey([]byte(password), salt, params.Time, params.Memory, params.Threads, params.KeyLength)
	return fmt.Sprintf("%s$%s", base64.StdEncoding.EncodeToString(salt), base64.StdEncoding.EncodeToString(hash)), nil
}
