package models

import "time"

// KYC verification states
const (
	KYCStatusPending  = "pending"
	KYCStatusVerified = "verified"
	KYCStatusRejected = "rejected"
)

type User struct {
	ID           string       `json:"id" example:"u_1a2b3c4d"`          // User ID
	Name         string       `json:"name" example:"Wanjiku Kamau"`     // Full name
	Email        string       `json:"email" example:"user@example.com"` // User email
	Phone        string       `json:"phone" example:"+254700000001"`    // Phone number, unique lookup key
	KYCStatus    string       `json:"kycStatus" example:"pending"`      // pending, verified or rejected
	PasswordHash string       `json:"-"`
	KYCDocument  *KYCDocument `json:"-"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// KYCDocument holds metadata of an uploaded identity document. The file
// content itself is not retained.
type KYCDocument struct {
	FileName    string    `json:"fileName"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	UploadedAt  time.Time `json:"uploadedAt"`
}
