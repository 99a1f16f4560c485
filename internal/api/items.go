package api

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Joshuahobby/SafiLocate-sub000/internal/auth"
	"github.com/Joshuahobby/SafiLocate-sub000/internal/match"
	"github.com/Joshuahobby/SafiLocate-sub000/internal/model"
	"github.com/Joshuahobby/SafiLocate-sub000/internal/notify"
	"github.com/Joshuahobby/SafiLocate-sub000/internal/privacy"
	"github.com/Joshuahobby/SafiLocate-sub000/internal/store"
	"github.com/Joshuahobby/SafiLocate-sub000/internal/tags"
	"github.com/Joshuahobby/SafiLocate-sub000/internal/tasks"
)

// lostItemTTL is how long an unclaimed lost report stays listed before it
// is eligible for expiry.
const lostItemTTL = 30 * 24 * time.Hour

// ItemsHandler handles item reporting, listing, search and matching.
type ItemsHandler struct {
	DB        *sql.DB
	Extractor *tags.Extractor
	Notifier  notify.Notifier
	Tasks     *tasks.Runner

	// OpenListing skips moderation: new items go straight to active.
	OpenListing bool
}

type createItemRequest struct {
	Type         string   `json:"type"`
	Category     string   `json:"category"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Location     string   `json:"location"`
	EventDate    string   `json:"event_date"`
	ImageURLs    []string `json:"image_urls"`
	ContactName  string   `json:"contact_name"`
	ContactPhone string   `json:"contact_phone"`
	ContactEmail string   `json:"contact_email"`
	Identifier   string   `json:"identifier"`
	Reward       string   `json:"reward"`
	PriceTier    string   `json:"price_tier"`
}

type itemPage struct {
	Items []model.Item `json:"items"`
	Total int          `json:"total"`
	Page  int          `json:"page"`
	Limit int          `json:"limit"`
}

// Create handles POST /api/items. Anonymous reporting is allowed; an
// authenticated caller becomes the item's reporter. Tag derivation is
// synchronous (bounded by the extractor timeout); the match scan is
// detached after persistence.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !model.ValidItemType(req.Type) {
		jsonError(w, http.StatusBadRequest, "type must be 'found' or 'lost'")
		return
	}
	if !model.ValidCategory(req.Category) {
		jsonError(w, http.StatusBadRequest, "invalid category")
		return
	}
	if req.Title == "" {
		jsonError(w, http.StatusBadRequest, "title required")
		return
	}
	if req.ContactName == "" || req.ContactPhone == "" {
		jsonError(w, http.StatusBadRequest, "contact name and phone required")
		return
	}

	item := &model.Item{
		Type:         req.Type,
		Category:     req.Category,
		Title:        req.Title,
		Description:  req.Description,
		Location:     req.Location,
		EventDate:    req.EventDate,
		ImageURLs:    req.ImageURLs,
		Tags:         h.Extractor.Extract(r.Context(), req.Title, req.Description),
		ContactName:  req.ContactName,
		ContactPhone: req.ContactPhone,
		ContactEmail: req.ContactEmail,
		Identifier:   req.Identifier,
	}

	if h.OpenListing {
		item.Status = model.ItemStatusActive
	}

	if claims := GetClaims(r.Context()); claims != nil {
		item.ReporterID = &claims.UserID
	}

	if req.Type == model.ItemTypeLost {
		item.Reward = req.Reward
		item.PriceTier = req.PriceTier
		item.PaymentStatus = "unpaid"
		expires := time.Now().Add(lostItemTTL)
		item.ExpiresAt = &expires
	}

	created, err := store.CreateItem(r.Context(), h.DB, item)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to create item")
		return
	}

	// Persist-then-detach: the scan must never delay or fail the
	// creator's response.
	h.Tasks.Go("match scan", func() error {
		return h.scanForMatches(created)
	})

	jsonResponse(w, http.StatusCreated, created)
}

// scanForMatches runs the background candidate scan for a new item and
// notifies the reporter when candidates exist.
func (h *ItemsHandler) scanForMatches(item *model.Item) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	candidates, err := match.FindPotentialMatches(ctx, h.DB, item)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		return nil
	}
	return h.Notifier.MatchesFound(ctx, item, candidates)
}

// Get handles GET /api/items/{id}. Items still in moderation (or rejected)
// are only visible to their reporter and admins.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := store.GetItem(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}

	claims := GetClaims(r.Context())
	if item == nil || !itemVisible(item, claims) {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	jsonResponse(w, http.StatusOK, h.sanitizeFor(r.Context(), item, claims))
}

// List handles GET /api/items: unified search over both pools with
// keyword relevance, filters and recency, paginated.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	claims := GetClaims(r.Context())

	filter := store.SearchFilter{
		Query:    q.Get("query"),
		Type:     q.Get("type"),
		Category: q.Get("category"),
		Location: q.Get("location"),
		Status:   q.Get("status"),
	}
	filter.Page, _ = strconv.Atoi(q.Get("page"))
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))

	if filter.Type != "" && filter.Type != "all" && !model.ValidItemType(filter.Type) {
		jsonError(w, http.StatusBadRequest, "type must be 'found', 'lost' or 'all'")
		return
	}
	if filter.Category != "" && !model.ValidCategory(filter.Category) {
		jsonError(w, http.StatusBadRequest, "invalid category")
		return
	}

	// Only admins may browse unmoderated or retired inventory.
	if claims == nil || claims.Role != model.RoleAdmin {
		filter.Status = model.ItemStatusActive + "," + model.ItemStatusClaimed
	}

	items, total, err := store.SearchItems(r.Context(), h.DB, filter)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to search items")
		return
	}

	sanitized := make([]model.Item, 0, len(items))
	for i := range items {
		sanitized = append(sanitized, *h.sanitizeFor(r.Context(), &items[i], claims))
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	jsonResponse(w, http.StatusOK, itemPage{
		Items: sanitized,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	})
}

// Matches handles GET /api/items/{id}/matches: on-demand recomputation of
// candidate matches, restricted to the item's reporter and admins.
func (h *ItemsHandler) Matches(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	item, err := store.GetItem(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	if claims.Role != model.RoleAdmin && !item.OwnedBy(claims.UserID) {
		jsonError(w, http.StatusForbidden, "only the reporter may view matches")
		return
	}

	candidates, err := match.FindPotentialMatches(r.Context(), h.DB, item)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to find matches")
		return
	}

	// Candidate items belong to other reporters: the disclosure policy
	// applies to them like anywhere else.
	for i := range candidates {
		candidates[i].Item = h.sanitizeFor(r.Context(), candidates[i].Item, claims)
	}
	if candidates == nil {
		candidates = []model.Candidate{}
	}

	jsonResponse(w, http.StatusOK, candidates)
}

type updateItemStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles PUT /api/items/{id}/status (admin): moderation and
// housekeeping transitions. The claimed status is reserved for the claim
// verification cascade and can't be set directly.
func (h *ItemsHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateItemStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !model.ValidItemStatus(req.Status) || req.Status == model.ItemStatusClaimed {
		jsonError(w, http.StatusBadRequest, "invalid status")
		return
	}

	id := r.PathValue("id")
	if err := store.UpdateItemStatus(r.Context(), h.DB, id, req.Status); err != nil {
		if err == sql.ErrNoRows {
			jsonError(w, http.StatusNotFound, "item not found")
			return
		}
		jsonError(w, http.StatusInternalServerError, "failed to update item status")
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil || item == nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}

	slog.Info("item status updated", "item", id, "status", req.Status)
	jsonResponse(w, http.StatusOK, item)
}

// AdminList handles GET /api/admin/items: any status, never masked.
func (h *ItemsHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := store.SearchFilter{
		Query:    q.Get("query"),
		Type:     q.Get("type"),
		Category: q.Get("category"),
		Location: q.Get("location"),
		Status:   q.Get("status"),
	}
	filter.Page, _ = strconv.Atoi(q.Get("page"))
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))

	items, total, err := store.SearchItems(r.Context(), h.DB, filter)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	jsonResponse(w, http.StatusOK, itemPage{Items: items, Total: total, Page: filter.Page, Limit: filter.Limit})
}

// sanitizeFor applies the disclosure policy for the given viewer. The
// verified-claim lookup only runs when it could change the outcome; a
// lookup failure masks rather than leaks.
func (h *ItemsHandler) sanitizeFor(ctx context.Context, item *model.Item, claims *auth.Claims) *model.Item {
	var viewer *privacy.Viewer
	if claims != nil {
		viewer = &privacy.Viewer{UserID: claims.UserID, Role: claims.Role}
	}

	hasVerified := false
	if viewer != nil && viewer.Role != model.RoleAdmin && !item.OwnedBy(viewer.UserID) {
		ok, err := store.HasVerifiedClaim(ctx, h.DB, item.ID, viewer.UserID)
		if err != nil {
			slog.Warn("verified-claim lookup failed, masking", "item", item.ID, "error", err)
		} else {
			hasVerified = ok
		}
	}

	return privacy.Sanitize(item, viewer, hasVerified)
}

// itemVisible reports whether a viewer may see the item exist at all.
// Pending/rejected reports are private to their reporter and admins.
func itemVisible(item *model.Item, claims *auth.Claims) bool {
	switch item.Status {
	case model.ItemStatusActive, model.ItemStatusClaimed, model.ItemStatusArchived, model.ItemStatusExpired:
		return true
	}
	if claims == nil {
		return false
	}
	return claims.Role == model.RoleAdmin || item.OwnedBy(claims.UserID)
}
