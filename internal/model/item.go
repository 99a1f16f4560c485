package model

import "time"

// Item represents a reported lost or found object. The two report kinds
// share one struct with a Type discriminant; the reward/payment fields are
// only populated for lost reports.
type Item struct {
	ID          string   `json:"id"`
	Type        string   `json:"type"`
	Category    string   `json:"category"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Location    string   `json:"location,omitempty"`
	EventDate   string   `json:"event_date,omitempty"`
	ImageURLs   []string `json:"image_urls,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Status      string   `json:"status"`

	ContactName  string `json:"contact_name,omitempty"`
	ContactPhone string `json:"contact_phone,omitempty"`
	ContactEmail string `json:"contact_email,omitempty"`
	Identifier   string `json:"identifier,omitempty"`

	// ReporterID is the finder (found items) or seeker (lost items).
	// Nil for anonymous reports.
	ReporterID *int64 `json:"reporter_id,omitempty"`

	// Lost items only.
	Reward        string     `json:"reward,omitempty"`
	PriceTier     string     `json:"price_tier,omitempty"`
	PaymentStatus string     `json:"payment_status,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Item types.
const (
	ItemTypeFound = "found"
	ItemTypeLost  = "lost"
)

// OppositeType returns the counterpart report type for matching.
func OppositeType(itemType string) string {
	if itemType == ItemTypeFound {
		return ItemTypeLost
	}
	return ItemTypeFound
}

// Item statuses.
const (
	ItemStatusPending  = "pending"
	ItemStatusActive   = "active"
	ItemStatusClaimed  = "claimed"
	ItemStatusArchived = "archived"
	ItemStatusExpired  = "expired"
	ItemStatusRejected = "rejected"
)

// Item categories.
const (
	CategoryIDDocument  = "id_document"
	CategoryElectronics = "electronics"
	CategoryWallet      = "wallet"
	CategoryKeys        = "keys"
	CategoryClothing    = "clothing"
	CategoryOther       = "other"
)

// ValidItemType reports whether t is a known item type.
func ValidItemType(t string) bool {
	return t == ItemTypeFound || t == ItemTypeLost
}

// ValidCategory reports whether c is a known category.
func ValidCategory(c string) bool {
	switch c {
	case CategoryIDDocument, CategoryElectronics, CategoryWallet,
		CategoryKeys, CategoryClothing, CategoryOther:
		return true
	}
	return false
}

// ValidItemStatus reports whether s is a known item status.
func ValidItemStatus(s string) bool {
	switch s {
	case ItemStatusPending, ItemStatusActive, ItemStatusClaimed,
		ItemStatusArchived, ItemStatusExpired, ItemStatusRejected:
		return true
	}
	return false
}

// OwnedBy reports whether the item was reported by the given user.
func (i *Item) OwnedBy(userID int64) bool {
	return i.ReporterID != nil && *i.ReporterID == userID
}
