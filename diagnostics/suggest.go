// Package diagnostics ranks near-miss names for error messages.
package diagnostics

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// DefaultMaxSuggestions caps the suggestions attached to an error.
const DefaultMaxSuggestions = 3

// Threshold is the minimum similarity a candidate needs to be suggested.
const Threshold = 0.5

// Similarity returns 1 - distance/maxLen over the case-folded inputs, in [0, 1].
// Two empty strings are identical.
func Similarity(a, b string) float64 {
	a, b = strings.ToLower(a), strings.ToLower(b)
	maxLen := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > maxLen {
		maxLen = n
	}
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(maxLen)
}

// Suggest returns up to max candidates whose similarity to target is at
// least Threshold, best first. Ties keep candidate order. A max of zero or
// less uses DefaultMaxSuggestions.
func Suggest(target string, candidates []string, max int) []string {
	if max <= 0 {
		max = DefaultMaxSuggestions
	}

	type scored struct {
		name  string
		score float64
	}
	var hits []scored
	seen := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		if seen[c] {
			continue
		}
		seen[c] = true
		if s := Similarity(target, c); s >= Threshold {
			hits = append(hits, scored{c, s})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })
	if len(hits) > max {
		hits = hits[:max]
	}
	if len(hits) == 0 {
		return nil
	}
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.name
	}
	return out
}
