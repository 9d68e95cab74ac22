package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/harambee/backend/internal/services"
	"github.com/harambee/backend/internal/store"
)

// AuthCookie carries the session token set on OTP verification.
const AuthCookie = "auth_token"

type contextKey string

const sessionKey contextKey = "session"

// SessionResolver maps a client token to a live session.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (store.Session, error)
}

// Auth rejects requests without a valid session token. The token is read
// from the auth_token cookie, falling back to a Bearer Authorization header.
func Auth(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := tokenFromRequest(r)
			if !ok {
				services.SendErrorResponse(w, "Authentication required", http.StatusUnauthorized, nil)
				return
			}

			sess, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				slog.Debug("[AUTH] Session rejected", "path", r.URL.Path, "error", err)
				services.SendErrorResponse(w, "Invalid or expired session", http.StatusUnauthorized, nil)
				return
			}

			ctx := context.WithValue(r.Context(), sessionKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext returns the session stored by Auth.
func SessionFromContext(ctx context.Context) (store.Session, bool) {
	sess, ok := ctx.Value(sessionKey).(store.Session)
	return sess, ok
}

func tokenFromRequest(r *http.Request) (string, bool) {
	if c, err := r.Cookie(AuthCookie); err == nil && c.Value != "" {
		return c.Value, true
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
