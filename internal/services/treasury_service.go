package services

import (
	"log/slog"

	"github.com/harambee/backend/internal/audit"
	"github.com/harambee/backend/internal/metrics"
	"github.com/harambee/backend/internal/models"
	"github.com/harambee/backend/internal/store"
)

// syncSource is the counterparty recorded on balance-sync ledger entries.
const syncSource = "treasury-sync"

// ISO20022Export is a ledger entry rendered as an ISO 20022 message.
type ISO20022Export struct {
	MessageType string `json:"messageType"`
	XML         string `json:"xml"`
}

type TreasuryService struct {
	store         *store.Store
	iso           *ISO20022Service
	audit         *audit.AuditLogger
	metrics       *metrics.Metrics
	syncIncrement float64
}

func NewTreasuryService(st *store.Store, auditLogger *audit.AuditLogger, m *metrics.Metrics, syncIncrement float64) *TreasuryService {
	m.SetTreasuryBalance(st.TreasuryBalance())
	return &TreasuryService{
		store:         st,
		iso:           NewISO20022Service(),
		audit:         auditLogger,
		metrics:       m,
		syncIncrement: syncIncrement,
	}
}

func (s *TreasuryService) Group(id string) (models.Group, error) {
	return s.store.Group(id)
}

func (s *TreasuryService) Members(id string) ([]models.User, error) {
	return s.store.Members(id)
}

// Sync credits the treasury by the configured fixed increment and records
// the credit in the ledger.
func (s *TreasuryService) Sync() (float64, models.Transaction, error) {
	balance, tx, err := s.store.CreditTreasury(s.syncIncrement, syncSource)
	if err != nil {
		return 0, models.Transaction{}, err
	}

	slog.Info("Treasury synced", "transaction_id", tx.ID, "amount", tx.Amount, "balance", balance)
	s.metrics.SetTreasuryBalance(balance)
	s.audit.LogTreasuryCredit(tx.ID, syncSource, tx.Amount, balance)
	return balance, tx, nil
}

// ExportTransaction renders ledger entry txID as a pacs.008 message.
func (s *TreasuryService) ExportTransaction(txID string) (ISO20022Export, error) {
	tx, err := s.store.Transaction(txID)
	if err != nil {
		return ISO20022Export{}, err
	}
	group, err := s.store.Group(models.DemoGroupID)
	if err != nil {
		return ISO20022Export{}, err
	}

	xmlData, err := s.iso.ConvertToXML(s.iso.CreatePacs008(tx, group.Name))
	if err != nil {
		return ISO20022Export{}, err
	}
	return ISO20022Export{MessageType: pacs008Type, XML: xmlData}, nil
}
