package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"
)

// Event types
const (
	EventRegistration   = "REGISTRATION"
	EventOTPRequested   = "OTP_REQUESTED"
	EventLogin          = "LOGIN"
	EventLogout         = "LOGOUT"
	EventKYCUpload      = "KYC_UPLOAD"
	EventKYCReview      = "KYC_REVIEW"
	EventTreasuryCredit = "TREASURY_CREDIT"
	EventProposal       = "PROPOSAL_CREATED"
	EventVote           = "VOTE_CAST"
	EventSMSVoting      = "SMS_VOTING_STARTED"
	EventError          = "ERROR"
)

type AuditEvent struct {
	Timestamp time.Time `json:"timestamp"`
	EventType string    `json:"event_type"`
	Subject   string    `json:"subject"`
	Reference string    `json:"reference,omitempty"`
	Amount    float64   `json:"amount,omitempty"`
	Status    string    `json:"status"`
	Details   any       `json:"details,omitempty"`
}

// AuditLogger writes every event to the log and, when a database is
// attached, to the audit_events table.
type AuditLogger struct {
	db *sql.DB
}

func NewAuditLogger(db *sql.DB) *AuditLogger {
	return &AuditLogger{db: db}
}

func (a *AuditLogger) LogOperation(eventType, subject, reference, details string) {
	event := AuditEvent{
		Timestamp: time.Now(),
		EventType: eventType,
		Subject:   subject,
		Reference: reference,
		Status:    "SUCCESS",
	}
	if details != "" {
		event.Details = map[string]string{"details": details}
	}
	a.log(event)
}

func (a *AuditLogger) LogTreasuryCredit(transactionID, source string, amount, balance float64) {
	event := AuditEvent{
		Timestamp: time.Now(),
		EventType: EventTreasuryCredit,
		Subject:   source,
		Reference: transactionID,
		Amount:    amount,
		Status:    "SUCCESS",
		Details:   map[string]float64{"balance": balance},
	}
	a.log(event)
}

func (a *AuditLogger) LogError(eventType, subject string, err error) {
	event := AuditEvent{
		Timestamp: time.Now(),
		EventType: EventError,
		Subject:   subject,
		Status:    "FAILED",
		Details:   map[string]string{"operation": eventType, "error": err.Error()},
	}
	a.log(event)
}

func (a *AuditLogger) log(event AuditEvent) {
	data, _ := json.Marshal(event)
	slog.Info("AUDIT", "event", string(data))

	if a == nil || a.db == nil {
		return
	}
	if err := a.persist(context.Background(), event); err != nil {
		slog.Warn("Failed to persist audit event", "event_type", event.EventType, "error", err)
	}
}

func (a *AuditLogger) persist(ctx context.Context, event AuditEvent) error {
	var details []byte
	if event.Details != nil {
		var err error
		if details, err = json.Marshal(event.Details); err != nil {
			return err
		}
	}

	_, err := a.db.ExecContext(ctx, `
		INSERT INTO audit_events (event_type, subject, reference, amount, status, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		event.EventType, event.Subject, event.Reference, event.Amount, event.Status, details, event.Timestamp)
	return err
}

// EnsureSchema creates the audit_events table if it does not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS audit_events (
			id BIGSERIAL PRIMARY KEY,
			event_type TEXT NOT NULL,
			subject TEXT NOT NULL,
			reference TEXT,
			amount NUMERIC,
			status TEXT NOT NULL,
			details JSONB,
			created_at TIMESTAMPTZ NOT NULL
		)`)
	return err
}
