package match

import (
	"testing"

	"github.com/Joshuahobby/SafiLocate-sub000/internal/model"
)

func item(title, description string, tags ...string) *model.Item {
	return &model.Item{Title: title, Description: description, Tags: tags}
}

func TestScoreBounds(t *testing.T) {
	pairs := []struct {
		a, b *model.Item
	}{
		{item("", ""), item("", "")},
		{item("Black wallet", "leather wallet", "wallet", "black"), item("wallet", "", "wallet", "black")},
		{item("Black wallet", "leather wallet"), item("black wallet", "leather wallet")},
		{item("a b c", "d e f", "x"), item("g h i", "", "y")},
	}

	for _, p := range pairs {
		score := Score(p.a, p.b)
		if score < 0 || score > 1 {
			t.Errorf("score %f out of [0,1] for %v vs %v", score, p.a, p.b)
		}
	}
}

func TestScoreIdenticalTags(t *testing.T) {
	a := item("Black wallet", "", "wallet", "black", "leather")
	b := item("Found wallet", "", "wallet", "black", "leather")

	// Jaccard 1.0 at the tag weight.
	if got := Score(a, b); got != 0.7 {
		t.Errorf("expected 0.7 for identical tag sets, got %f", got)
	}
}

func TestScorePartialTagOverlap(t *testing.T) {
	a := item("", "", "wallet", "black")
	b := item("", "", "wallet", "brown")

	// Intersection 1, union 3.
	want := 0.7 * (1.0 / 3.0)
	if got := Score(a, b); got != want {
		t.Errorf("expected %f, got %f", want, got)
	}
}

func TestScoreTagTermSymmetric(t *testing.T) {
	a := item("", "", "wallet", "black", "leather")
	b := item("", "", "wallet", "brown")

	if Score(a, b) != Score(b, a) {
		t.Errorf("tag term should be symmetric: %f vs %f", Score(a, b), Score(b, a))
	}
}

func TestScoreKeywordFallbackAsymmetric(t *testing.T) {
	// No tags on either side, so the keyword term fires. a has two long
	// tokens both present in b; b has three long tokens of which two are
	// in a. The normalization by the first argument's token count makes
	// the score direction-dependent — intentional, mirroring the original
	// matching behavior.
	a := item("black wallet", "")
	b := item("black wallet market", "")

	ab := Score(a, b)
	ba := Score(b, a)

	if ab != 0.3 {
		t.Errorf("expected Score(a,b)=0.3, got %f", ab)
	}
	want := 0.3 * (2.0 / 3.0)
	if ba != want {
		t.Errorf("expected Score(b,a)=%f, got %f", want, ba)
	}
	if ab == ba {
		t.Error("expected asymmetric fallback scores")
	}
}

func TestScoreFallbackFiresOnZeroTagOverlap(t *testing.T) {
	// Both sides have tags but they don't overlap: the keyword term still
	// gets its second chance. This conflates "no tags" with "no overlap";
	// kept deliberately.
	a := item("black wallet", "", "cards")
	b := item("black wallet", "", "cash")

	if got := Score(a, b); got != 0.3 {
		t.Errorf("expected keyword fallback 0.3, got %f", got)
	}
}

func TestScoreFallbackNotSummedWithTagTerm(t *testing.T) {
	// Overlapping tags and overlapping text: only the tag term counts.
	a := item("black wallet", "", "wallet")
	b := item("black wallet", "", "wallet")

	if got := Score(a, b); got != 0.7 {
		t.Errorf("expected tag term only (0.7), got %f", got)
	}
}

func TestScoreEmptyItems(t *testing.T) {
	if got := Score(item("", ""), item("", "")); got != 0 {
		t.Errorf("expected 0 for empty items, got %f", got)
	}
}

func TestScoreShortTokensIgnoredByFallback(t *testing.T) {
	// All tokens are <=3 chars, so the fallback has nothing to work with.
	a := item("red bag", "")
	b := item("red bag", "")

	if got := Score(a, b); got != 0 {
		t.Errorf("expected 0 for short-token-only text, got %f", got)
	}
}
