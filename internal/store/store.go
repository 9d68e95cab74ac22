// Package store holds the process-wide treasury state: users, the demo
// group, proposals and notifications. All access goes through a single
// RWMutex and every read returns a copy.
package store

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/harambee/backend/internal/models"
)

const (
	demoUserID    = "u1"
	demoUserName  = "Demo User"
	demoUserEmail = "demo@example.com"
	// DemoUserPhone is the phone number of the seeded demo member.
	DemoUserPhone = "+254700000000"

	demoGroupName    = "Harambee Demo Group"
	demoGroupBalance = 1250000
)

type group struct {
	id           string
	name         string
	balance      float64
	memberPhones []string
	proposalIDs  []string // most recent first
	transactions []models.Transaction
}

type Store struct {
	mu            sync.RWMutex
	users         map[string]*models.User // keyed by phone
	group         *group
	proposals     map[string]*models.Proposal
	images        map[string]models.ProposalImage
	ballots       map[string]map[string]string // proposal id -> voter phone -> choice
	notifications []models.Notification         // newest first
	now           func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New creates a store seeded with the demo group and its first member.
func New(opts ...Option) *Store {
	s := &Store{
		users:     make(map[string]*models.User),
		proposals: make(map[string]*models.Proposal),
		images:    make(map[string]models.ProposalImage),
		ballots:   make(map[string]map[string]string),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.seed()
	return s
}

func (s *Store) seed() {
	if s.group != nil {
		return
	}

	now := s.now()
	s.users[DemoUserPhone] = &models.User{
		ID:        demoUserID,
		Name:      demoUserName,
		Email:     demoUserEmail,
		Phone:     DemoUserPhone,
		KYCStatus: models.KYCStatusPending,
		CreatedAt: now,
	}
	s.group = &group{
		id:           models.DemoGroupID,
		name:         demoGroupName,
		balance:      demoGroupBalance,
		memberPhones: []string{DemoUserPhone},
		transactions: []models.Transaction{
			{ID: "t1", Amount: 50000, To: "0xRecipient1", CreatedAt: now, Status: models.TransactionStatusExecuted},
		},
	}
}

// NewID returns a short random identifier with the given prefix, e.g. "p_3f9a1c2e".
func NewID(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// CreateUser stores a new member under its phone number with status
// pending. A user already registered under the same phone is replaced.
func (s *Store) CreateUser(u models.User) (models.User, error) {
	if u.Name == "" || u.Email == "" || u.Phone == "" || u.PasswordHash == "" {
		return models.User{}, fmt.Errorf("%w: name, email, phone and password are required", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u.ID = NewID("u")
	u.KYCStatus = models.KYCStatusPending
	u.KYCDocument = nil
	u.CreatedAt = s.now()
	s.users[u.Phone] = &u

	if !containsString(s.group.memberPhones, u.Phone) {
		s.group.memberPhones = append(s.group.memberPhones, u.Phone)
	}

	return u, nil
}

// UserByPhone returns the user registered under phone.
func (s *Store) UserByPhone(phone string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[phone]
	if !ok {
		return models.User{}, fmt.Errorf("%w: user %s", ErrNotFound, phone)
	}
	return copyUser(u), nil
}

// SetKYCDocument records that the user under phone uploaded an identity document.
func (s *Store) SetKYCDocument(phone string, doc models.KYCDocument) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[phone]
	if !ok {
		return models.User{}, fmt.Errorf("%w: user %s", ErrNotFound, phone)
	}
	if doc.UploadedAt.IsZero() {
		doc.UploadedAt = s.now()
	}
	u.KYCDocument = &doc
	return copyUser(u), nil
}

// KYCStatus reports pending until a document has been uploaded, and the
// user's verification status afterwards.
func (s *Store) KYCStatus(phone string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[phone]
	if !ok {
		return "", fmt.Errorf("%w: user %s", ErrNotFound, phone)
	}
	if u.KYCDocument == nil {
		return models.KYCStatusPending, nil
	}
	return u.KYCStatus, nil
}

// MarkKYCVerified sets the user's verification status to verified.
func (s *Store) MarkKYCVerified(phone string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[phone]
	if !ok {
		return models.User{}, fmt.Errorf("%w: user %s", ErrNotFound, phone)
	}
	u.KYCStatus = models.KYCStatusVerified
	return copyUser(u), nil
}

// Group returns a snapshot of the demo group. Only the demo group id is known.
func (s *Store) Group(id string) (models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if id != s.group.id {
		return models.Group{}, fmt.Errorf("%w: group %s", ErrNotFound, id)
	}
	return s.groupSnapshot(), nil
}

// Members returns the demo group's members in join order.
func (s *Store) Members(id string) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if id != s.group.id {
		return nil, fmt.Errorf("%w: group %s", ErrNotFound, id)
	}
	return s.members(), nil
}

// TreasuryBalance returns the current group balance.
func (s *Store) TreasuryBalance() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.group.balance
}

// CreditTreasury adds amount to the group balance and appends a matching
// executed ledger entry sourced from "to".
func (s *Store) CreditTreasury(amount float64, to string) (float64, models.Transaction, error) {
	if amount <= 0 {
		return 0, models.Transaction{}, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := models.Transaction{
		ID:        NewID("t"),
		Amount:    amount,
		To:        to,
		CreatedAt: s.now(),
		Status:    models.TransactionStatusExecuted,
	}
	s.group.balance += amount
	s.group.transactions = append(s.group.transactions, tx)
	return s.group.balance, tx, nil
}

// Transaction returns the ledger entry with the given id.
func (s *Store) Transaction(id string) (models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, tx := range s.group.transactions {
		if tx.ID == id {
			return tx, nil
		}
	}
	return models.Transaction{}, fmt.Errorf("%w: transaction %s", ErrNotFound, id)
}

// CreateProposal stores p with a zero tally and puts it at the head of the
// group's proposal list. The image is optional.
func (s *Store) CreateProposal(p models.Proposal, img *models.ProposalImage) (models.Proposal, error) {
	if p.Title == "" || p.WalletAddress == "" {
		return models.Proposal{}, fmt.Errorf("%w: title and walletAddress are required", ErrValidation)
	}
	if p.Amount <= 0 {
		return models.Proposal{}, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = NewID("p")
	p.Votes = models.VoteTally{}
	p.AIVerification = nil
	p.CreatedAt = s.now()
	if img != nil {
		s.images[p.ID] = *img
		p.ImageURL = "/api/users/proposals/" + p.ID + "/image"
	} else {
		p.ImageURL = ""
	}

	s.proposals[p.ID] = &p
	s.group.proposalIDs = append([]string{p.ID}, s.group.proposalIDs...)
	return copyProposal(&p), nil
}

// Proposal returns the proposal with the given id.
func (s *Store) Proposal(id string) (models.Proposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.proposals[id]
	if !ok {
		return models.Proposal{}, fmt.Errorf("%w: proposal %s", ErrNotFound, id)
	}
	return copyProposal(p), nil
}

// ProposalImage returns the image attached to a proposal, or nil when none was uploaded.
func (s *Store) ProposalImage(id string) (*models.ProposalImage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.proposals[id]; !ok {
		return nil, fmt.Errorf("%w: proposal %s", ErrNotFound, id)
	}
	img, ok := s.images[id]
	if !ok {
		return nil, nil
	}
	img.Data = append([]byte(nil), img.Data...)
	return &img, nil
}

// Votes returns the current tally of a proposal.
func (s *Store) Votes(id string) (models.VoteTally, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.proposals[id]
	if !ok {
		return models.VoteTally{}, fmt.Errorf("%w: proposal %s", ErrNotFound, id)
	}
	return p.Votes, nil
}

// CastVote records voter's choice on a proposal. Each voter has one ballot
// per proposal: repeating the same choice changes nothing, a different
// choice is rejected with ErrConflict.
func (s *Store) CastVote(id, voter, choice string) (models.VoteTally, error) {
	if choice != models.VoteYes && choice != models.VoteNo {
		return models.VoteTally{}, fmt.Errorf("%w: choice must be %q or %q", ErrValidation, models.VoteYes, models.VoteNo)
	}
	if voter == "" {
		return models.VoteTally{}, fmt.Errorf("%w: voter required", ErrAuth)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.proposals[id]
	if !ok {
		return models.VoteTally{}, fmt.Errorf("%w: proposal %s", ErrNotFound, id)
	}

	ballots := s.ballots[id]
	if ballots == nil {
		ballots = make(map[string]string)
		s.ballots[id] = ballots
	}
	if prev, voted := ballots[voter]; voted {
		if prev != choice {
			return p.Votes, fmt.Errorf("%w: already voted %q on proposal %s", ErrConflict, prev, id)
		}
		return p.Votes, nil
	}

	ballots[voter] = choice
	if choice == models.VoteYes {
		p.Votes.Yes++
	} else {
		p.Votes.No++
	}
	return p.Votes, nil
}

// AddSimulatedVotes bumps the anonymous tally of a proposal. It backs the
// simulated live tally and never decreases a count.
func (s *Store) AddSimulatedVotes(id string, yes, no bool) (models.VoteTally, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.proposals[id]
	if !ok {
		return models.VoteTally{}, fmt.Errorf("%w: proposal %s", ErrNotFound, id)
	}
	if yes {
		p.Votes.Yes++
	}
	if no {
		p.Votes.No++
	}
	return p.Votes, nil
}

// SetAIVerification stores the verification outcome of a proposal.
func (s *Store) SetAIVerification(id string, v models.AIVerification) (models.Proposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.proposals[id]
	if !ok {
		return models.Proposal{}, fmt.Errorf("%w: proposal %s", ErrNotFound, id)
	}
	p.AIVerification = &v
	return copyProposal(p), nil
}

// AddNotification prepends a notification.
func (s *Store) AddNotification(kind, message string) models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	n := models.Notification{
		ID:        NewID("n"),
		Type:      kind,
		Message:   message,
		CreatedAt: now,
	}
	s.notifications = append([]models.Notification{n}, s.notifications...)
	return n
}

// Notifications returns at most limit notifications, newest first.
func (s *Store) Notifications(limit int) []models.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.notifications)
	if limit >= 0 && n > limit {
		n = limit
	}
	out := make([]models.Notification, n)
	copy(out, s.notifications[:n])
	return out
}

func (s *Store) groupSnapshot() models.Group {
	proposals := make([]models.Proposal, 0, len(s.group.proposalIDs))
	for _, id := range s.group.proposalIDs {
		if p, ok := s.proposals[id]; ok {
			proposals = append(proposals, copyProposal(p))
		}
	}

	transactions := make([]models.Transaction, len(s.group.transactions))
	copy(transactions, s.group.transactions)

	return models.Group{
		ID:              s.group.id,
		Name:            s.group.name,
		TreasuryBalance: s.group.balance,
		Members:         s.members(),
		LatestProposals: proposals,
		Transactions:    transactions,
	}
}

func (s *Store) members() []models.User {
	members := make([]models.User, 0, len(s.group.memberPhones))
	for _, phone := range s.group.memberPhones {
		if u, ok := s.users[phone]; ok {
			members = append(members, copyUser(u))
		}
	}
	return members
}

func copyUser(u *models.User) models.User {
	c := *u
	if u.KYCDocument != nil {
		doc := *u.KYCDocument
		c.KYCDocument = &doc
	}
	return c
}

func copyProposal(p *models.Proposal) models.Proposal {
	c := *p
	if p.AIVerification != nil {
		v := *p.AIVerification
		c.AIVerification = &v
	}
	return c
}

func containsString(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
