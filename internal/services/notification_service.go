package services

import (
	"github.com/harambee/backend/internal/models"
	"github.com/harambee/backend/internal/store"
)

const defaultNotificationLimit = 10

type NotificationService struct {
	store *store.Store
	limit int
}

func NewNotificationService(st *store.Store, limit int) *NotificationService {
	if limit <= 0 || limit > defaultNotificationLimit {
		limit = defaultNotificationLimit
	}
	return &NotificationService{store: st, limit: limit}
}

// Recent returns the newest notifications first. The configured limit can
// lower the cap of 10 but never raise it.
func (s *NotificationService) Recent() []models.Notification {
	return s.store.Notifications(s.limit)
}
