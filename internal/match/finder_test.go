package match

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/Joshuahobby/SafiLocate-sub000/internal/db"
	"github.com/Joshuahobby/SafiLocate-sub000/internal/model"
	"github.com/Joshuahobby/SafiLocate-sub000/internal/store"
)

func createItem(t *testing.T, database *sql.DB, item *model.Item) *model.Item {
	t.Helper()
	created, err := store.CreateItem(context.Background(), database, item)
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	return created
}

func foundItem(category, title, status string, tags ...string) *model.Item {
	return &model.Item{
		Type:         model.ItemTypeFound,
		Category:     category,
		Title:        title,
		Status:       status,
		ContactName:  "Finder",
		ContactPhone: "0780000000",
		Tags:         tags,
	}
}

func TestFindPotentialMatchesPrefilter(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	// Same category, active: eligible.
	createItem(t, database, foundItem(model.CategoryWallet, "Black wallet", model.ItemStatusActive, "wallet", "black"))
	// Different category: must never appear even with identical tags.
	createItem(t, database, foundItem(model.CategoryElectronics, "Black wallet phone case", model.ItemStatusActive, "wallet", "black"))
	// Same category but not active: must never appear.
	createItem(t, database, foundItem(model.CategoryWallet, "Black wallet pending", model.ItemStatusPending, "wallet", "black"))
	createItem(t, database, foundItem(model.CategoryWallet, "Black wallet claimed", model.ItemStatusClaimed, "wallet", "black"))

	lost := &model.Item{
		Type:     model.ItemTypeLost,
		Category: model.CategoryWallet,
		Title:    "Lost black wallet",
		Tags:     []string{"wallet", "black"},
	}

	candidates, err := FindPotentialMatches(ctx, database, lost)
	if err != nil {
		t.Fatalf("FindPotentialMatches: %v", err)
	}

	if len(candidates) != 1 {
		t.Fatalf("expected exactly 1 candidate, got %d", len(candidates))
	}
	if candidates[0].Item.Title != "Black wallet" {
		t.Errorf("unexpected candidate %q", candidates[0].Item.Title)
	}
	for _, c := range candidates {
		if c.Item.Category != lost.Category {
			t.Errorf("candidate category %q differs from query %q", c.Item.Category, lost.Category)
		}
		if c.Item.Status != model.ItemStatusActive {
			t.Errorf("candidate status %q is not active", c.Item.Status)
		}
	}
}

func TestFindPotentialMatchesOppositeTypeOnly(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	// A lost item must never match other lost items.
	other := foundItem(model.CategoryKeys, "Lost keys too", model.ItemStatusActive, "keys", "toyota")
	other.Type = model.ItemTypeLost
	createItem(t, database, other)

	lost := &model.Item{
		Type:     model.ItemTypeLost,
		Category: model.CategoryKeys,
		Title:    "Lost Toyota keys",
		Tags:     []string{"keys", "toyota"},
	}

	candidates, err := FindPotentialMatches(ctx, database, lost)
	if err != nil {
		t.Fatalf("FindPotentialMatches: %v", err)
	}
	if len(candidates) != 0 {
		t.Errorf("expected no candidates from same-type pool, got %d", len(candidates))
	}
}

func TestFindPotentialMatchesCapAndOrdering(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	// Seven candidates with decreasing tag overlap against the query's
	// four tags.
	tagSets := [][]string{
		{"phone", "samsung", "black", "cracked"},
		{"phone", "samsung", "black"},
		{"phone", "samsung"},
		{"phone", "samsung", "case", "charger"},
		{"phone", "white", "case", "charger"},
		{"phone", "pouch", "case", "charger", "cable"},
		{"tablet", "ipad"},
	}
	for i, tags := range tagSets {
		createItem(t, database, foundItem(model.CategoryElectronics,
			fmt.Sprintf("Candidate %d", i), model.ItemStatusActive, tags...))
	}

	lost := &model.Item{
		Type:     model.ItemTypeLost,
		Category: model.CategoryElectronics,
		Title:    "Lost phone",
		Tags:     []string{"phone", "samsung", "black", "cracked"},
	}

	candidates, err := FindPotentialMatches(ctx, database, lost)
	if err != nil {
		t.Fatalf("FindPotentialMatches: %v", err)
	}

	if len(candidates) > MaxCandidates {
		t.Errorf("expected at most %d candidates, got %d", MaxCandidates, len(candidates))
	}
	for i := 1; i < len(candidates); i++ {
		if candidates[i].Score > candidates[i-1].Score {
			t.Errorf("candidates not sorted descending at index %d: %f > %f",
				i, candidates[i].Score, candidates[i-1].Score)
		}
	}
	for _, c := range candidates {
		if c.Score <= 0 {
			t.Errorf("zero or negative score %f included", c.Score)
		}
	}
	if candidates[0].Item.Title != "Candidate 0" {
		t.Errorf("expected exact tag match first, got %q", candidates[0].Item.Title)
	}
}

func TestFindPotentialMatchesEmptyPool(t *testing.T) {
	database := db.NewTestDB(t)

	lost := &model.Item{
		Type:     model.ItemTypeLost,
		Category: model.CategoryClothing,
		Title:    "Red jacket",
		Tags:     []string{"jacket", "red"},
	}

	candidates, err := FindPotentialMatches(context.Background(), database, lost)
	if err != nil {
		t.Fatalf("FindPotentialMatches: %v", err)
	}
	if len(candidates) != 0 {
		t.Errorf("expected no candidates, got %d", len(candidates))
	}
}
