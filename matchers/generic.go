package matchers

import (
	"strings"
)

func MatchesPartially(text, keyword string) bool {
	return strings.Contains(text, keyword)
}

// MatchesAnyPartially returns true if any keyword appears anywhere in the text.
func MatchesAnyPartially(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if MatchesPartially(text, keyword) {
			return true
		}
	}
	return false
}

// Dedupe returns the first occurrence of every value, keeping input order.
// Comparison is exact and case-sensitive.
func Dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
