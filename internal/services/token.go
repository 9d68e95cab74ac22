package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/harambee/backend/internal/store"
)

// TokenManager issues and parses the HS256 tokens handed to clients. A token
// only carries the session id; the session table decides whether it is live.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

type sessionClaims struct {
	Phone string `json:"phone"`
	jwt.RegisteredClaims
}

func (tm *TokenManager) Issue(sess store.Session) (string, error) {
	claims := sessionClaims{
		Phone: sess.Phone,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sess.ID,
			Subject:   sess.Phone,
			IssuedAt:  jwt.NewNumericDate(sess.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(sess.CreatedAt.Add(tm.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tm.secret)
}

// Parse validates the signature and expiry and returns the session id.
func (tm *TokenManager) Parse(tokenString string) (string, error) {
	var claims sessionClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		return tm.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", fmt.Errorf("%w: invalid token", store.ErrAuth)
	}
	if claims.ID == "" {
		return "", fmt.Errorf("%w: token has no session id", store.ErrAuth)
	}
	return claims.ID, nil
}
