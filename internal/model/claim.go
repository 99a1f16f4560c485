package model

import "time"

// Claim represents an ownership (or finding) assertion against an item,
// backed by free-text proof. Claims start pending and are moved to a
// terminal state by a moderator; they are never deleted.
type Claim struct {
	ID       string `json:"id"`
	ItemID   string `json:"item_id"`
	ItemType string `json:"item_type"`

	// UserID is nil for anonymous claims. Anonymous claims can be
	// verified but never grant API-level disclosure (no identity to
	// match against).
	UserID *int64 `json:"user_id,omitempty"`

	ClaimantName  string `json:"claimant_name"`
	ClaimantPhone string `json:"claimant_phone"`
	ClaimantEmail string `json:"claimant_email,omitempty"`

	// Description is the free-text proof of ownership.
	Description string `json:"description"`

	Status     string     `json:"status"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`
	VerifiedBy *int64     `json:"verified_by,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Claim statuses. ClaimStatusResolved is reserved: it exists in the enum
// but no transition produces it yet.
const (
	ClaimStatusPending  = "pending"
	ClaimStatusVerified = "verified"
	ClaimStatusRejected = "rejected"
	ClaimStatusResolved = "resolved"
)

// ClaimMinDescription is the minimum proof text length.
const ClaimMinDescription = 50
