package api

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/Joshuahobby/SafiLocate-sub000/internal/model"
	"github.com/Joshuahobby/SafiLocate-sub000/internal/notify"
	"github.com/Joshuahobby/SafiLocate-sub000/internal/store"
	"github.com/Joshuahobby/SafiLocate-sub000/internal/tasks"
)

// ClaimsHandler handles the claim lifecycle: submission, listing and
// moderator decisions.
type ClaimsHandler struct {
	DB       *sql.DB
	Notifier notify.Notifier
	Tasks    *tasks.Runner
}

type createClaimRequest struct {
	ItemID        string `json:"item_id"`
	ItemType      string `json:"item_type"`
	ClaimantName  string `json:"claimant_name"`
	ClaimantPhone string `json:"claimant_phone"`
	ClaimantEmail string `json:"claimant_email"`
	Description   string `json:"description"`
}

// Create handles POST /api/claims. Anyone may claim; the proof text must
// carry at least ClaimMinDescription characters. The owner notification is
// detached after persistence.
func (h *ClaimsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createClaimRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.ClaimantName == "" || req.ClaimantPhone == "" {
		jsonError(w, http.StatusBadRequest, "claimant name and phone required")
		return
	}
	if utf8.RuneCountInString(req.Description) < model.ClaimMinDescription {
		jsonError(w, http.StatusBadRequest,
			"description must be at least 50 characters: explain how you can prove ownership")
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, req.ItemID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	if req.ItemType != item.Type {
		jsonError(w, http.StatusBadRequest, "item_type does not match the referenced item")
		return
	}

	claim := &model.Claim{
		ItemID:        item.ID,
		ItemType:      item.Type,
		ClaimantName:  req.ClaimantName,
		ClaimantPhone: req.ClaimantPhone,
		ClaimantEmail: req.ClaimantEmail,
		Description:   req.Description,
	}
	if claims := GetClaims(r.Context()); claims != nil {
		claim.UserID = &claims.UserID
	}

	created, err := store.CreateClaim(r.Context(), h.DB, claim)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to create claim")
		return
	}

	h.Tasks.Go("owner notification", func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return h.Notifier.ItemClaimed(ctx, item, created)
	})

	jsonResponse(w, http.StatusCreated, created)
}

// List handles GET /api/claims. Admins see everything. A non-admin asking
// for a specific item's claims must own that item; without an item filter
// the listing is forced to the caller's own claims no matter what the
// query says.
func (h *ClaimsHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	q := r.URL.Query()

	filter := store.ClaimFilter{
		ItemID: q.Get("item_id"),
		Status: q.Get("status"),
	}
	if raw := q.Get("user_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid user_id")
			return
		}
		filter.UserID = &id
	}

	if claims.Role != model.RoleAdmin {
		if filter.ItemID != "" {
			item, err := store.GetItem(r.Context(), h.DB, filter.ItemID)
			if err != nil {
				jsonError(w, http.StatusInternalServerError, "failed to get item")
				return
			}
			if item == nil {
				jsonError(w, http.StatusNotFound, "item not found")
				return
			}
			if !item.OwnedBy(claims.UserID) {
				jsonError(w, http.StatusForbidden, "not your item")
				return
			}
		} else {
			// Hard security invariant, not a convenience default.
			filter.UserID = &claims.UserID
		}
	}

	list, err := store.ListClaims(r.Context(), h.DB, filter)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list claims")
		return
	}
	if list == nil {
		list = []model.Claim{}
	}
	jsonResponse(w, http.StatusOK, list)
}

type updateClaimStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles PUT /api/claims/{id}/status (moderator+). Only
// verified and rejected are accepted; verification cascades the item to
// claimed before the response is sent, then the claimant notification is
// detached.
func (h *ClaimsHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	caller := GetClaims(r.Context())

	var req updateClaimStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Status != model.ClaimStatusVerified && req.Status != model.ClaimStatusRejected {
		jsonError(w, http.StatusBadRequest, "status must be 'verified' or 'rejected'")
		return
	}

	updated, err := store.UpdateClaimStatus(r.Context(), h.DB, r.PathValue("id"), req.Status, caller.UserID)
	if err != nil {
		if errors.Is(err, store.ErrClaimDecided) {
			jsonError(w, http.StatusConflict, "claim already decided")
			return
		}
		jsonError(w, http.StatusInternalServerError, "failed to update claim status")
		return
	}
	if updated == nil {
		jsonError(w, http.StatusNotFound, "claim not found")
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, updated.ItemID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}

	slog.Info("claim decided",
		"claim", updated.ID, "item", updated.ItemID,
		"status", req.Status, "moderator", caller.Username)

	h.Tasks.Go("claimant notification", func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return h.Notifier.ClaimStatusChanged(ctx, updated, item, req.Status)
	})

	jsonResponse(w, http.StatusOK, updated)
}
