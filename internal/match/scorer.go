// Package match scores similarity between lost and found items and finds
// ranked candidate matches for newly reported ones.
package match

import (
	"strings"

	"github.com/Joshuahobby/SafiLocate-sub000/internal/model"
)

// Term weights. The keyword term only fires when the tag term is exactly
// zero, so a single invocation never sums both.
const (
	tagWeight     = 0.7
	keywordWeight = 0.3
)

// Score computes a similarity score in [0,1] between two items. The
// primary term is Jaccard overlap of the derived tag sets. When that term
// is zero — no tags on either side, or tag sets that simply don't overlap —
// the raw keyword overlap gets a second chance at a lower weight.
//
// The keyword term normalizes by a's token count only, so Score(a, b) and
// Score(b, a) can differ on the fallback path.
func Score(a, b *model.Item) float64 {
	if tagTerm := jaccard(a.Tags, b.Tags); tagTerm > 0 {
		return tagWeight * tagTerm
	}
	return keywordWeight * keywordOverlap(a, b)
}

// jaccard returns |a ∩ b| / |a ∪ b| over the tag sets, 0 if either is empty.
func jaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	setA := toSet(a)
	setB := toSet(b)

	intersection := 0
	for tag := range setA {
		if setB[tag] {
			intersection++
		}
	}

	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// keywordOverlap returns the fraction of a's long text tokens that appear
// anywhere in b's text.
func keywordOverlap(a, b *model.Item) float64 {
	aTokens := textTokens(a)
	if len(aTokens) == 0 {
		return 0
	}

	bSet := make(map[string]bool)
	for _, token := range textTokens(b) {
		bSet[token] = true
	}

	hits := 0
	for _, token := range aTokens {
		if bSet[token] {
			hits++
		}
	}
	return float64(hits) / float64(len(aTokens))
}

// textTokens splits an item's title and description on whitespace, keeping
// tokens longer than 3 characters.
func textTokens(item *model.Item) []string {
	var tokens []string
	for _, token := range strings.Fields(strings.ToLower(item.Title + " " + item.Description)) {
		if len(token) > 3 {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

func toSet(tags []string) map[string]bool {
	set := make(map[string]bool, len(tags))
	for _, tag := range tags {
		set[tag] = true
	}
	return set
}
