package models

import "time"

// Notification types
const (
	NotificationTypeVoting = "Voting"
)

type Notification struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}
