package match

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/Joshuahobby/SafiLocate-sub000/internal/model"
	"github.com/Joshuahobby/SafiLocate-sub000/internal/store"
)

// MaxCandidates caps the ranked result list.
const MaxCandidates = 5

// FindPotentialMatches scores the new item against every active item of
// the opposite type in the same category and returns the top candidates,
// highest score first. Zero scores are dropped.
//
// The scan runs once, at creation time, for the new item only; items
// reported before a plausible counterpart existed are not retroactively
// rescanned (the on-demand matches endpoint covers that case).
func FindPotentialMatches(ctx context.Context, db *sql.DB, item *model.Item) ([]model.Candidate, error) {
	pool, err := store.ListMatchPool(ctx, db, model.OppositeType(item.Type), item.Category)
	if err != nil {
		return nil, fmt.Errorf("loading candidate pool: %w", err)
	}

	var candidates []model.Candidate
	for i := range pool {
		if pool[i].ID == item.ID {
			continue
		}
		if score := Score(item, &pool[i]); score > 0 {
			candidates = append(candidates, model.Candidate{Item: &pool[i], Score: score})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if len(candidates) > MaxCandidates {
		candidates = candidates[:MaxCandidates]
	}
	return candidates, nil
}
