package services

import (
	"errors"
	"fmt"

	"github.com/harambee/backend/internal/audit"
	"github.com/harambee/backend/internal/models"
	"github.com/harambee/backend/internal/store"
)

type KYCService struct {
	store *store.Store
	audit *audit.AuditLogger
}

func NewKYCService(st *store.Store, auditLogger *audit.AuditLogger) *KYCService {
	return &KYCService{store: st, audit: auditLogger}
}

// SubmitDocument records the upload of an identity document by the member
// signed in as phone.
func (s *KYCService) SubmitDocument(phone string, doc models.KYCDocument) error {
	if doc.FileName == "" || doc.Size == 0 {
		return fmt.Errorf("%w: document required", store.ErrValidation)
	}
	if _, err := s.store.SetKYCDocument(phone, doc); err != nil {
		return sessionUserError(err)
	}
	s.audit.LogOperation(audit.EventKYCUpload, phone, doc.FileName, doc.ContentType)
	return nil
}

// Status reports pending until a document is uploaded.
func (s *KYCService) Status(phone string) (string, error) {
	status, err := s.store.KYCStatus(phone)
	if err != nil {
		return "", sessionUserError(err)
	}
	return status, nil
}

// Review marks the signed-in member verified. There is no reviewer workflow.
func (s *KYCService) Review(phone string) (models.User, error) {
	user, err := s.store.MarkKYCVerified(phone)
	if err != nil {
		return models.User{}, sessionUserError(err)
	}
	s.audit.LogOperation(audit.EventKYCReview, phone, user.ID, models.KYCStatusVerified)
	return user, nil
}

// sessionUserError reports a session whose phone has no member as unauthenticated.
func sessionUserError(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: not authenticated", store.ErrAuth)
	}
	return err
}
