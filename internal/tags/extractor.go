// Package tags derives normalized keyword tags from an item's free text.
// The AI path asks a local language model for tags; any failure there
// falls through silently to a deterministic frequency-based extraction, so
// item creation never blocks on or fails because of the model.
package tags

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"
	"unicode"
)

// MaxTags is the upper bound on tags per item.
const MaxTags = 8

// DefaultTimeout bounds the AI call so item creation stays responsive.
const DefaultTimeout = 2500 * time.Millisecond

// stopWords are common English function words plus domain-generic terms
// that carry no matching signal.
var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "this": true,
	"that": true, "from": true, "was": true, "are": true, "has": true,
	"have": true, "had": true, "his": true, "her": true, "its": true,
	"but": true, "not": true, "you": true, "your": true, "our": true,
	"near": true, "about": true, "around": true, "some": true, "any": true,
	"item": true, "lost": true, "found": true, "looking": true,
	"please": true, "help": true, "contact": true,
}

// Extractor derives tags from item text. A nil AI client disables the
// model path entirely.
type Extractor struct {
	AI      *AIClient
	Timeout time.Duration
}

// Extract returns up to MaxTags lowercase, deduplicated tags for the given
// title and description, most significant first. It never returns an
// error: the AI path degrades to the deterministic fallback.
func (e *Extractor) Extract(ctx context.Context, title, description string) []string {
	if e != nil && e.AI != nil {
		timeout := e.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		aiCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		suggested, err := e.AI.SuggestTags(aiCtx, title, description)
		if err == nil {
			if tags := normalize(suggested); len(tags) > 0 {
				return tags
			}
		} else {
			slog.Debug("tag suggestion failed, using fallback", "error", err)
		}
	}

	return Fallback(title, description)
}

// Fallback is the deterministic extraction: tokenize the combined text,
// drop short tokens, stop words and pure numbers, then rank by frequency
// with ties broken by first occurrence.
func Fallback(title, description string) []string {
	text := strings.ToLower(title + " " + description)

	// Punctuation separates tokens; it never survives into one.
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, text)

	counts := make(map[string]int)
	var order []string
	for _, token := range strings.Fields(cleaned) {
		if len(token) <= 2 || stopWords[token] || isNumeric(token) {
			continue
		}
		if counts[token] == 0 {
			order = append(order, token)
		}
		counts[token]++
	}

	firstSeen := make(map[string]int, len(order))
	for i, token := range order {
		firstSeen[token] = i
	}

	sort.SliceStable(order, func(i, j int) bool {
		if counts[order[i]] != counts[order[j]] {
			return counts[order[i]] > counts[order[j]]
		}
		return firstSeen[order[i]] < firstSeen[order[j]]
	})

	if len(order) > MaxTags {
		order = order[:MaxTags]
	}
	return order
}

// normalize lowercases, trims and dedupes model-suggested tags, keeping at
// most MaxTags.
func normalize(raw []string) []string {
	seen := make(map[string]bool)
	var tags []string
	for _, t := range raw {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		tags = append(tags, t)
		if len(tags) == MaxTags {
			break
		}
	}
	return tags
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return len(s) > 0
}
