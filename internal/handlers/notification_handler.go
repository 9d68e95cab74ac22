package handlers

import (
	"net/http"

	"github.com/harambee/backend/internal/services"
)

type NotificationHandler struct {
	service *services.NotificationService
}

func NewNotificationHandler(service *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// List returns recent notifications
// @Summary Recent notifications
// @Description At most 10 notifications, newest first
// @Tags Stats
// @Produce json
// @Success 200 {array} models.Notification
// @Router /stats/notifications [get]
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Recent())
}
