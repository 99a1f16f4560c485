// Package notify defines the outbound notification contract. Deliveries
// are best-effort: callers dispatch them as background tasks and drop
// failures after logging.
package notify

import (
	"context"
	"log/slog"

	"github.com/Joshuahobby/SafiLocate-sub000/internal/model"
)

// Notifier delivers user-facing notifications. Implementations must be
// safe for concurrent use.
type Notifier interface {
	// ItemClaimed tells an item's reporter that a new claim was filed.
	ItemClaimed(ctx context.Context, item *model.Item, claim *model.Claim) error

	// ClaimStatusChanged tells a claimant their claim was verified or
	// rejected.
	ClaimStatusChanged(ctx context.Context, claim *model.Claim, item *model.Item, newStatus string) error

	// MatchesFound tells an item's reporter that the background scan
	// produced candidate matches.
	MatchesFound(ctx context.Context, item *model.Item, candidates []model.Candidate) error
}

// LogNotifier writes notifications to the structured log. It stands in for
// the external delivery collaborator (mail, SMS) in development and tests.
type LogNotifier struct{}

func (LogNotifier) ItemClaimed(_ context.Context, item *model.Item, claim *model.Claim) error {
	slog.Info("notification: new claim on item",
		"item", item.ID, "item_title", item.Title, "claim", claim.ID,
		"claimant", claim.ClaimantName)
	return nil
}

func (LogNotifier) ClaimStatusChanged(_ context.Context, claim *model.Claim, item *model.Item, newStatus string) error {
	slog.Info("notification: claim status changed",
		"claim", claim.ID, "item", item.ID, "status", newStatus)
	return nil
}

func (LogNotifier) MatchesFound(_ context.Context, item *model.Item, candidates []model.Candidate) error {
	top := 0.0
	if len(candidates) > 0 {
		top = candidates[0].Score
	}
	slog.Info("notification: candidate matches found",
		"item", item.ID, "count", len(candidates), "top_score", top)
	return nil
}
