package services

import (
	"context"
	cryptorand "crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/harambee/backend/internal/audit"
	"github.com/harambee/backend/internal/config"
	"github.com/harambee/backend/internal/metrics"
	"github.com/harambee/backend/internal/models"
	"github.com/harambee/backend/internal/store"
)

// RegisterRequest represents the registration request payload
// @Description Registration request structure
type RegisterRequest struct {
	Name     string `json:"name" validate:"required" example:"Wanjiku Kamau"`      // Full name
	Email    string `json:"email" validate:"required" example:"user@example.com"` // Email address
	Phone    string `json:"phone" validate:"required" example:"+254700000001"`    // Phone number
	Password string `json:"password" validate:"required" example:"password123"`   // Password
}

// LoginResult is returned after a successful OTP verification.
type LoginResult struct {
	Token     string
	Session   store.Session
	KYCStatus string
}

type AuthService struct {
	store     *store.Store
	otps      store.OTPStore
	sessions  store.SessionStore
	tokens    *TokenManager
	audit     *audit.AuditLogger
	metrics   *metrics.Metrics
	validator *ValidationHelper
	argon2    config.Argon2Config
}

func NewAuthService(st *store.Store, otps store.OTPStore, sessions store.SessionStore, tokens *TokenManager,
	auditLogger *audit.AuditLogger, m *metrics.Metrics, argon2Params config.Argon2Config) *AuthService {
	return &AuthService{
		store:     st,
		otps:      otps,
		sessions:  sessions,
		tokens:    tokens,
		audit:     auditLogger,
		metrics:   m,
		validator: NewValidationHelper(),
		argon2:    argon2Params,
	}
}

// Register creates a pending member. Registering an existing phone replaces
// that member.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (models.User, error) {
	if err := s.validator.check(&req); err != nil {
		return models.User{}, err
	}

	hashed, err := hashPassword(req.Password, s.argon2)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.store.CreateUser(models.User{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hashed,
	})
	if err != nil {
		return models.User{}, err
	}

	slog.InfoContext(ctx, "Member registered", "user_id", user.ID, "phone", user.Phone)
	s.audit.LogOperation(audit.EventRegistration, user.Phone, user.ID, "")
	return user, nil
}

// RequestOTP issues a fresh 6-digit code for phone, replacing any earlier one.
// The code is returned to the caller; there is no SMS delivery.
func (s *AuthService) RequestOTP(ctx context.Context, phone string) (string, error) {
	if phone == "" {
		return "", fmt.Errorf("%w: phone required", store.ErrValidation)
	}

	code, err := generateOTP()
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	if err := s.otps.Save(ctx, phone, code); err != nil {
		return "", err
	}

	s.metrics.OTPRequested()
	s.audit.LogOperation(audit.EventOTPRequested, phone, "", "")
	return code, nil
}

// VerifyOTP opens a session for phone when code equals the last code issued to it.
func (s *AuthService) VerifyOTP(ctx context.Context, phone, code string) (LoginResult, error) {
	if phone == "" || code == "" {
		return LoginResult{}, fmt.Errorf("%w: phone and otp required", store.ErrValidation)
	}

	expected, err := s.otps.Get(ctx, phone)
	if errors.Is(err, store.ErrNotFound) || (err == nil && expected != code) {
		s.metrics.OTPVerified(false)
		s.audit.LogError(audit.EventLogin, phone, errors.New("invalid otp"))
		return LoginResult{}, fmt.Errorf("%w: Invalid OTP", store.ErrAuth)
	}
	if err != nil {
		return LoginResult{}, err
	}

	sess, err := s.sessions.Create(ctx, phone)
	if err != nil {
		return LoginResult{}, err
	}
	token, err := s.tokens.Issue(sess)
	if err != nil {
		return LoginResult{}, fmt.Errorf("failed to sign token: %w", err)
	}

	kycStatus := models.KYCStatusPending
	if user, err := s.store.UserByPhone(phone); err == nil {
		kycStatus = user.KYCStatus
	}

	s.metrics.OTPVerified(true)
	s.audit.LogOperation(audit.EventLogin, phone, sess.ID, "")
	return LoginResult{Token: token, Session: sess, KYCStatus: kycStatus}, nil
}

// Resolve maps a client token to its live session.
func (s *AuthService) Resolve(ctx context.Context, token string) (store.Session, error) {
	sessionID, err := s.tokens.Parse(token)
	if err != nil {
		return store.Session{}, err
	}
	return s.sessions.Get(ctx, sessionID)
}

func (s *AuthService) Logout(ctx context.Context, sess store.Session) error {
	if err := s.sessions.Delete(ctx, sess.ID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	s.audit.LogOperation(audit.EventLogout, sess.Phone, sess.ID, "")
	return nil
}

// CurrentUser returns the member bound to the session phone.
func (s *AuthService) CurrentUser(phone string) (models.User, error) {
	if phone == "" {
		return models.User{}, fmt.Errorf("%w: not authenticated", store.ErrAuth)
	}
	user, err := s.store.UserByPhone(phone)
	if err != nil {
		return models.User{}, sessionUserError(err)
	}
	return user, nil
}

// generateOTP returns a uniformly random code in [100000, 999999].
func generateOTP() (string, error) {
	n, err := cryptorand.Int(cryptorand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
