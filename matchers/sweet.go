package matchers

import (
	"net/url"
	"strings"
)

// DessertKeywords is matched as substrings of a recipe URL's path and query.
// It is fixed data; changing it changes which links reach the planner.
var DessertKeywords = []string{
	"cookie", "cookies", "cake", "brownie", "brownies", "muffin", "muffins",
	"banana-bread", "bananabread", "banana_bread", "loaf", "cupcake", "cupcakes",
	"slice", "biscuit", "biscuits", "pudding", "pie", "tart", "donut", "doughnut",
	"fudge", "ice-cream", "icecream", "gelato", "sweet", "dessert",
	"chocolate", "nutella", "caramel", "smoothie",
}

// IsProbablySweet reports whether the URL's path or query mentions a dessert.
// The host is never inspected.
func IsProbablySweet(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	haystack := strings.ToLower(u.EscapedPath() + " " + u.RawQuery)
	return MatchesAnyPartially(haystack, DessertKeywords)
}

// FilterSweets drops every URL IsProbablySweet flags, keeping order.
func FilterSweets(urls []string) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if IsProbablySweet(u) {
			continue
		}
		out = append(out, u)
	}
	return out
}
