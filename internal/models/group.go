package models

import "time"

// DemoGroupID is the id of the singleton treasury group.
const DemoGroupID = "me"

// Transaction status values
const (
	TransactionStatusExecuted = "executed"
	TransactionStatusPending  = "pending"
)

type Group struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	TreasuryBalance float64       `json:"treasuryBalance"`
	Members         []User        `json:"members"`
	LatestProposals []Proposal    `json:"latestProposals"`
	Transactions    []Transaction `json:"transactions"`
}

// Transaction is an entry of the group treasury ledger.
type Transaction struct {
	ID        string    `json:"id"`
	Amount    float64   `json:"amount"`
	To        string    `json:"to"`
	CreatedAt time.Time `json:"createdAt"`
	Status    string    `json:"status"`
}
