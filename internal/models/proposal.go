package models

import "time"

// Vote choices
const (
	VoteYes = "yes"
	VoteNo  = "no"
)

// AI verification outcomes
const (
	AIVerificationVerified = "verified"
	AIVerificationFlagged  = "flagged"
)

type Proposal struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Amount         float64         `json:"amount"`
	WalletAddress  string          `json:"walletAddress"`
	ImageURL       string          `json:"imageUrl,omitempty"`
	AIVerification *AIVerification `json:"aiVerification,omitempty"`
	Votes          VoteTally       `json:"votes"`
	CreatedAt      time.Time       `json:"createdAt"`
}

type AIVerification struct {
	Status  string `json:"status"`
	Details string `json:"details,omitempty"`
}

// VoteTally counts are never decremented.
type VoteTally struct {
	Yes int `json:"yes"`
	No  int `json:"no"`
}

// ProposalImage is an image attached to a proposal at submission.
type ProposalImage struct {
	ContentType string
	Data        []byte
}
