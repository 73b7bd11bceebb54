package suggestions

import (
	"fmt"
	"regexp"
	"strings"
)

var numberedLineRe = regexp.MustCompile(`^\d+[.)]\s+\S`)

// CheckFormat compares a reply with the layout the prompt asks for and
// returns one message per deviation. The reply is never rejected on these
// grounds; the caller decides what to do with the messages.
func CheckFormat(text string, mealsPerWeek int) []string {
	var problems []string

	lines := strings.Split(text, "\n")
	headings := make(map[string]bool, len(lines))
	numbered := 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		headings[normalizeHeading(trimmed)] = true
		if numberedLineRe.MatchString(trimmed) {
			numbered++
		}
	}

	if !headings[normalizeHeading(SuggestionsHeader)] {
		problems = append(problems, fmt.Sprintf("missing %q header", SuggestionsHeader))
	}
	if !headings[normalizeHeading(ShoppingHeader)] {
		problems = append(problems, fmt.Sprintf("missing %q header", ShoppingHeader))
	}
	for _, group := range ShoppingGroups {
		if !headings[normalizeHeading(group)] {
			problems = append(problems, fmt.Sprintf("missing %q group", group))
		}
	}
	if numbered != mealsPerWeek {
		problems = append(problems, fmt.Sprintf("expected %d numbered suggestions, found %d", mealsPerWeek, numbered))
	}

	return problems
}

// normalizeHeading drops markdown decoration and a trailing colon so that
// "## Suggestions", "**Protein:**" and "Protein" compare equal.
func normalizeHeading(s string) string {
	s = strings.Trim(s, "#*_ \t")
	s = strings.TrimSuffix(s, ":")
	s = strings.Trim(s, "#*_ \t")
	s = strings.ReplaceAll(s, "’", "'")
	return strings.ToLower(s)
}
