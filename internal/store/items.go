package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Joshuahobby/SafiLocate-sub000/internal/model"
)

// itemColumns is the canonical select list for item queries.
const itemColumns = `id, type, category, title, description, location, event_date,
	image_urls, tags, status, contact_name, contact_phone, contact_email,
	identifier, reporter_id, reward, price_tier, payment_status, expires_at,
	created_at, updated_at`

// CreateItem persists a new item and returns the stored row. The caller is
// responsible for having derived Tags already; Status defaults to pending
// unless set.
func CreateItem(ctx context.Context, db *sql.DB, item *model.Item) (*model.Item, error) {
	id := uuid.NewString()

	if item.Status == "" {
		item.Status = model.ItemStatusPending
	}

	tags, err := json.Marshal(nonNil(item.Tags))
	if err != nil {
		return nil, fmt.Errorf("encoding tags: %w", err)
	}
	urls, err := json.Marshal(nonNil(item.ImageURLs))
	if err != nil {
		return nil, fmt.Errorf("encoding image urls: %w", err)
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO items (id, type, category, title, description, location, event_date,
		                    image_urls, tags, status, contact_name, contact_phone, contact_email,
		                    identifier, reporter_id, reward, price_tier, payment_status, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, item.Type, item.Category, item.Title, nullStr(item.Description),
		nullStr(item.Location), nullStr(item.EventDate), string(urls), string(tags),
		item.Status, item.ContactName, item.ContactPhone, nullStr(item.ContactEmail),
		nullStr(item.Identifier), item.ReporterID, nullStr(item.Reward),
		nullStr(item.PriceTier), nullStr(item.PaymentStatus), item.ExpiresAt,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	return GetItem(ctx, db, id)
}

// GetItem returns an item by ID, or (nil, nil) if it doesn't exist.
func GetItem(ctx context.Context, db *sql.DB, id string) (*model.Item, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ?`, id,
	)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// SearchFilter describes an item search. Zero values mean "no filter";
// Type "all" is equivalent to empty.
type SearchFilter struct {
	Query    string
	Type     string
	Category string
	Location string
	Status   string
	Page     int
	Limit    int
}

// SearchItems returns one page of items plus the total match count. With a
// query, title matches rank above description/tag matches, then recency;
// without one, results are plain filters ordered by recency.
func SearchItems(ctx context.Context, db *sql.DB, f SearchFilter) ([]model.Item, int, error) {
	where := `WHERE 1=1`
	var args []any

	if f.Type != "" && f.Type != "all" {
		where += ` AND type = ?`
		args = append(args, f.Type)
	}
	if f.Category != "" {
		where += ` AND category = ?`
		args = append(args, f.Category)
	}
	if f.Location != "" {
		where += ` AND lower(location) LIKE ?`
		args = append(args, "%"+strings.ToLower(f.Location)+"%")
	}
	if f.Status != "" {
		if statuses := strings.Split(f.Status, ","); len(statuses) > 1 {
			where += ` AND status IN (?` + strings.Repeat(",?", len(statuses)-1) + `)`
			for _, s := range statuses {
				args = append(args, s)
			}
		} else {
			where += ` AND status = ?`
			args = append(args, f.Status)
		}
	}

	order := ` ORDER BY created_at DESC`
	if f.Query != "" {
		q := "%" + strings.ToLower(f.Query) + "%"
		where += ` AND (lower(title) LIKE ? OR lower(description) LIKE ? OR lower(tags) LIKE ?)`
		args = append(args, q, q, q)
		// Title matches are the stronger signal and rank first.
		order = ` ORDER BY CASE WHEN lower(title) LIKE ? THEN 0 ELSE 1 END, created_at DESC`
	}

	var total int
	if err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM items `+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting items: %w", err)
	}

	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Page < 1 {
		f.Page = 1
	}

	queryArgs := args
	if f.Query != "" {
		queryArgs = append(queryArgs, "%"+strings.ToLower(f.Query)+"%")
	}
	queryArgs = append(queryArgs, f.Limit, (f.Page-1)*f.Limit)

	rows, err := db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items `+where+order+` LIMIT ? OFFSET ?`,
		queryArgs...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("searching items: %w", err)
	}
	defer rows.Close()

	items, err := scanItems(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ListMatchPool returns all active items of the given type and category,
// the candidate pool for match scoring.
func ListMatchPool(ctx context.Context, db *sql.DB, itemType, category string) ([]model.Item, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items
		 WHERE type = ? AND category = ? AND status = ?
		 ORDER BY created_at DESC`,
		itemType, category, model.ItemStatusActive,
	)
	if err != nil {
		return nil, fmt.Errorf("listing match pool: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// UpdateItemStatus sets an item's status.
func UpdateItemStatus(ctx context.Context, db *sql.DB, id, status string) error {
	res, err := db.ExecContext(ctx,
		`UPDATE items SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("updating item status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*model.Item, error) {
	item := &model.Item{}
	var description, location, eventDate, contactEmail, identifier sql.NullString
	var reward, priceTier, paymentStatus sql.NullString
	var urls, tags string

	err := row.Scan(&item.ID, &item.Type, &item.Category, &item.Title,
		&description, &location, &eventDate, &urls, &tags, &item.Status,
		&item.ContactName, &item.ContactPhone, &contactEmail, &identifier,
		&item.ReporterID, &reward, &priceTier, &paymentStatus, &item.ExpiresAt,
		&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}

	item.Description = description.String
	item.Location = location.String
	item.EventDate = eventDate.String
	item.ContactEmail = contactEmail.String
	item.Identifier = identifier.String
	item.Reward = reward.String
	item.PriceTier = priceTier.String
	item.PaymentStatus = paymentStatus.String

	if err := json.Unmarshal([]byte(urls), &item.ImageURLs); err != nil {
		return nil, fmt.Errorf("decoding image urls: %w", err)
	}
	if err := json.Unmarshal([]byte(tags), &item.Tags); err != nil {
		return nil, fmt.Errorf("decoding tags: %w", err)
	}

	return item, nil
}

func scanItems(rows *sql.Rows) ([]model.Item, error) {
	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
