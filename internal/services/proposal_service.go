package services

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/harambee/backend/internal/audit"
	"github.com/harambee/backend/internal/metrics"
	"github.com/harambee/backend/internal/models"
	"github.com/harambee/backend/internal/store"
)

// CreateProposalRequest represents a funding proposal submission
// @Description Proposal submission structure
type CreateProposalRequest struct {
	Title         string  `json:"title" validate:"required,max=200" example:"Borehole for Kiambu farm"`
	Amount        float64 `json:"amount" validate:"required,gt=0" example:"150000"`
	WalletAddress string  `json:"walletAddress" validate:"required" example:"0xRecipient1"`
	Description   string  `json:"description" validate:"max=5000"`
}

// WalletQR is a proposal's payout wallet encoded as a QR code.
type WalletQR struct {
	WalletAddress string `json:"walletAddress"`
	QRImage       string `json:"qrImage"`
}

type ProposalService struct {
	store     *store.Store
	qr        *QRService
	audit     *audit.AuditLogger
	metrics   *metrics.Metrics
	validator *ValidationHelper

	simulate bool
	randMu   sync.Mutex
	rand     *rand.Rand
}

type ProposalOption func(*ProposalService)

// WithSimulatedTally makes every tally read add anonymous votes: yes with
// probability 0.5 and no with probability 0.2.
func WithSimulatedTally(enabled bool) ProposalOption {
	return func(s *ProposalService) {
		s.simulate = enabled
	}
}

// WithRandSource fixes the source used for the simulated tally.
func WithRandSource(src rand.Source) ProposalOption {
	return func(s *ProposalService) {
		s.rand = rand.New(src)
	}
}

func NewProposalService(st *store.Store, auditLogger *audit.AuditLogger, m *metrics.Metrics, opts ...ProposalOption) *ProposalService {
	s := &ProposalService{
		store:     st,
		qr:        NewQRService(),
		audit:     auditLogger,
		metrics:   m,
		validator: NewValidationHelper(),
		rand:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create stores the proposal at the head of the group's list with an empty tally.
func (s *ProposalService) Create(ctx context.Context, req CreateProposalRequest, img *models.ProposalImage) (models.Proposal, error) {
	if err := s.validator.check(&req); err != nil {
		return models.Proposal{}, err
	}

	p, err := s.store.CreateProposal(models.Proposal{
		Title:         req.Title,
		Description:   req.Description,
		Amount:        req.Amount,
		WalletAddress: req.WalletAddress,
	}, img)
	if err != nil {
		return models.Proposal{}, err
	}

	slog.InfoContext(ctx, "Proposal created", "proposal_id", p.ID, "amount", p.Amount)
	s.metrics.ProposalCreated()
	s.audit.LogOperation(audit.EventProposal, p.WalletAddress, p.ID, p.Title)
	return p, nil
}

func (s *ProposalService) Get(id string) (models.Proposal, error) {
	return s.store.Proposal(id)
}

func (s *ProposalService) Image(id string) (*models.ProposalImage, error) {
	return s.store.ProposalImage(id)
}

// Votes returns the tally. Unless the simulated live tally is enabled this
// is a pure read.
func (s *ProposalService) Votes(id string) (models.VoteTally, error) {
	if !s.simulate {
		return s.store.Votes(id)
	}

	s.randMu.Lock()
	yes := s.rand.Float64() > 0.5
	no := s.rand.Float64() > 0.8
	s.randMu.Unlock()

	return s.store.AddSimulatedVotes(id, yes, no)
}

// CastVote records the signed-in member's ballot. One ballot per member per proposal.
func (s *ProposalService) CastVote(id, voterPhone, choice string) (models.VoteTally, error) {
	if voterPhone == "" {
		return models.VoteTally{}, fmt.Errorf("%w: not authenticated", store.ErrAuth)
	}
	before, err := s.store.Votes(id)
	if err != nil {
		return models.VoteTally{}, err
	}

	tally, err := s.store.CastVote(id, voterPhone, choice)
	if err != nil {
		return tally, err
	}
	if tally.Yes+tally.No > before.Yes+before.No {
		s.metrics.VoteCast(choice)
		s.audit.LogOperation(audit.EventVote, voterPhone, id, choice)
	}
	return tally, nil
}

// StartSMSVoting announces that voting opened on a proposal. No SMS is sent.
func (s *ProposalService) StartSMSVoting(id string) (models.Notification, error) {
	p, err := s.store.Proposal(id)
	if err != nil {
		return models.Notification{}, err
	}

	n := s.store.AddNotification(models.NotificationTypeVoting, fmt.Sprintf("Voting started for %s", p.Title))
	s.audit.LogOperation(audit.EventSMSVoting, p.WalletAddress, p.ID, n.Message)
	return n, nil
}

// VerifyAI runs the rule-based stand-in for the AI proposal check: the
// request must fit in the treasury and name a payout wallet.
func (s *ProposalService) VerifyAI(id string) (models.Proposal, error) {
	p, err := s.store.Proposal(id)
	if err != nil {
		return models.Proposal{}, err
	}

	balance := s.store.TreasuryBalance()
	result := models.AIVerification{
		Status:  models.AIVerificationVerified,
		Details: "Amount within treasury balance and payout wallet present",
	}
	switch {
	case p.WalletAddress == "":
		result = models.AIVerification{Status: models.AIVerificationFlagged, Details: "Missing payout wallet address"}
	case p.Amount > balance:
		result = models.AIVerification{
			Status:  models.AIVerificationFlagged,
			Details: fmt.Sprintf("Requested amount %.2f exceeds treasury balance %.2f", p.Amount, balance),
		}
	}

	return s.store.SetAIVerification(id, result)
}

// WalletQR encodes the payout wallet of a proposal as a QR code.
func (s *ProposalService) WalletQR(id string) (WalletQR, error) {
	p, err := s.store.Proposal(id)
	if err != nil {
		return WalletQR{}, err
	}

	img, err := s.qr.EncodePNG(p.WalletAddress)
	if err != nil {
		return WalletQR{}, err
	}
	return WalletQR{WalletAddress: p.WalletAddress, QRImage: img}, nil
}
