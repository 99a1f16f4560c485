package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Joshuahobby/SafiLocate-sub000/internal/model"
)

// ErrClaimDecided is returned when a status update targets a claim that
// already reached a terminal state. A new claim must be filed instead.
var ErrClaimDecided = errors.New("claim already decided")

const claimColumns = `id, item_id, item_type, user_id, claimant_name, claimant_phone,
	claimant_email, description, status, verified_at, verified_by, created_at, updated_at`

// CreateClaim persists a new claim in pending state. Proof-text validation
// happens at the API layer.
func CreateClaim(ctx context.Context, db *sql.DB, claim *model.Claim) (*model.Claim, error) {
	id := uuid.NewString()

	_, err := db.ExecContext(ctx,
		`INSERT INTO claims (id, item_id, item_type, user_id, claimant_name,
		                     claimant_phone, claimant_email, description)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, claim.ItemID, claim.ItemType, claim.UserID, claim.ClaimantName,
		claim.ClaimantPhone, nullStr(claim.ClaimantEmail), claim.Description,
	)
	if err != nil {
		return nil, fmt.Errorf("creating claim: %w", err)
	}

	return GetClaim(ctx, db, id)
}

// GetClaim returns a claim by ID, or (nil, nil) if it doesn't exist.
func GetClaim(ctx context.Context, db *sql.DB, id string) (*model.Claim, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+claimColumns+` FROM claims WHERE id = ?`, id,
	)
	claim, err := scanClaim(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting claim: %w", err)
	}
	return claim, nil
}

// ClaimFilter narrows a claim listing. Access control (who may use which
// filter) is the API layer's responsibility.
type ClaimFilter struct {
	ItemID string
	UserID *int64
	Status string
}

// ListClaims returns claims matching the filter, newest first.
func ListClaims(ctx context.Context, db *sql.DB, f ClaimFilter) ([]model.Claim, error) {
	query := `SELECT ` + claimColumns + ` FROM claims WHERE 1=1`
	var args []any

	if f.ItemID != "" {
		query += ` AND item_id = ?`
		args = append(args, f.ItemID)
	}
	if f.UserID != nil {
		query += ` AND user_id = ?`
		args = append(args, *f.UserID)
	}
	if f.Status != "" {
		query += ` AND status = ?`
		args = append(args, f.Status)
	}

	query += ` ORDER BY created_at DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing claims: %w", err)
	}
	defer rows.Close()

	var claims []model.Claim
	for rows.Next() {
		claim, err := scanClaim(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning claim: %w", err)
		}
		claims = append(claims, *claim)
	}
	return claims, rows.Err()
}

// UpdateClaimStatus moves a claim from pending to verified or rejected.
// Verification cascades the referenced item to claimed status inside the
// same transaction, so "verified claim but unclaimed item" can never be
// observed. Returns (nil, nil) when the claim doesn't exist.
//
// Other pending claims on the same item are deliberately left untouched;
// the moderator decides each on its own proof.
func UpdateClaimStatus(ctx context.Context, db *sql.DB, claimID, status string, verifiedBy int64) (*model.Claim, error) {
	if status != model.ClaimStatusVerified && status != model.ClaimStatusRejected {
		return nil, fmt.Errorf("invalid claim status %q", status)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var itemID, current string
	err = tx.QueryRowContext(ctx,
		`SELECT item_id, status FROM claims WHERE id = ?`, claimID,
	).Scan(&itemID, &current)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting claim: %w", err)
	}

	// Terminal states don't regress; a superseding claim must be filed.
	if current != model.ClaimStatusPending {
		return nil, ErrClaimDecided
	}

	if status == model.ClaimStatusVerified {
		_, err = tx.ExecContext(ctx,
			`UPDATE claims SET status = ?, verified_at = CURRENT_TIMESTAMP,
			        verified_by = ?, updated_at = CURRENT_TIMESTAMP
			 WHERE id = ?`,
			status, verifiedBy, claimID,
		)
	} else {
		_, err = tx.ExecContext(ctx,
			`UPDATE claims SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
			status, claimID,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("updating claim status: %w", err)
	}

	// Cascade: a verified claim means the item is claimed. A cascade
	// failure aborts the whole update.
	if status == model.ClaimStatusVerified {
		if _, err := tx.ExecContext(ctx,
			`UPDATE items SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
			model.ItemStatusClaimed, itemID,
		); err != nil {
			return nil, fmt.Errorf("cascading item status: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing claim update: %w", err)
	}

	return GetClaim(ctx, db, claimID)
}

// HasVerifiedClaim reports whether the user holds a verified claim on the
// item. Feeds the disclosure policy.
func HasVerifiedClaim(ctx context.Context, db *sql.DB, itemID string, userID int64) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM claims WHERE item_id = ? AND user_id = ? AND status = ?`,
		itemID, userID, model.ClaimStatusVerified,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking verified claim: %w", err)
	}
	return count > 0, nil
}

func scanClaim(row rowScanner) (*model.Claim, error) {
	claim := &model.Claim{}
	var email sql.NullString

	err := row.Scan(&claim.ID, &claim.ItemID, &claim.ItemType, &claim.UserID,
		&claim.ClaimantName, &claim.ClaimantPhone, &email, &claim.Description,
		&claim.Status, &claim.VerifiedAt, &claim.VerifiedBy,
		&claim.CreatedAt, &claim.UpdatedAt)
	if err != nil {
		return nil, err
	}

	claim.ClaimantEmail = email.String
	return claim, nil
}
