// Package privacy implements the progressive-disclosure policy: which
// contact fields of an item a given viewer may see. Admins, the item's
// reporter and verified claimants see everything; everyone else gets
// masked contact details and no email at all.
package privacy

import (
	"strings"

	"github.com/Joshuahobby/SafiLocate-sub000/internal/model"
)

// MaskedIdentifier replaces sensitive free-text identifiers (serials,
// IMEIs) for viewers without full access.
const MaskedIdentifier = "[hidden until claim verified]"

// Viewer identifies who is looking at an item. A nil viewer is anonymous.
type Viewer struct {
	UserID int64
	Role   string
}

// HasFullAccess reports whether the viewer may see the item unmasked.
// hasVerifiedClaim must be the result of a claim lookup for this
// (item, viewer) pair; on lookup failure callers pass false (fail closed).
func HasFullAccess(item *model.Item, viewer *Viewer, hasVerifiedClaim bool) bool {
	if viewer == nil {
		return false
	}
	if viewer.Role == model.RoleAdmin {
		return true
	}
	if item.OwnedBy(viewer.UserID) {
		return true
	}
	return hasVerifiedClaim
}

// Sanitize returns a copy of the item with sensitive fields masked unless
// the viewer has full access. Every item-returning endpoint must funnel
// through this.
func Sanitize(item *model.Item, viewer *Viewer, hasVerifiedClaim bool) *model.Item {
	if HasFullAccess(item, viewer, hasVerifiedClaim) {
		return item
	}

	masked := *item
	masked.ContactPhone = MaskPhone(item.ContactPhone)
	masked.ContactName = MaskName(item.ContactName)
	// Emails are never partially masked: full redaction.
	masked.ContactEmail = ""
	if item.Identifier != "" {
		masked.Identifier = MaskedIdentifier
	}
	return &masked
}

// MaskPhone keeps the first 3 and last 2 digits, replacing the middle with
// asterisks: "0781234567" becomes "078*****67". Numbers too short to
// retain anything are fully masked.
func MaskPhone(phone string) string {
	if phone == "" {
		return ""
	}

	digits := make([]rune, 0, len(phone))
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}

	if len(digits) <= 5 {
		return strings.Repeat("*", len(digits))
	}

	return string(digits[:3]) + strings.Repeat("*", len(digits)-5) + string(digits[len(digits)-2:])
}

// MaskName reduces each retained name part to its first letter plus "***".
// Single-word names keep one part; multi-word names keep the first and
// last parts: "John Doe" becomes "J*** D***".
func MaskName(name string) string {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return ""
	}

	initial := func(part string) string {
		return string([]rune(part)[:1]) + "***"
	}

	if len(parts) == 1 {
		return initial(parts[0])
	}
	return initial(parts[0]) + " " + initial(parts[len(parts)-1])
}
