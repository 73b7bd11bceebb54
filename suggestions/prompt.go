package suggestions

import (
	"fmt"
	"strings"

	"github.com/kova98/mealmail/models"
)

const (
	SuggestionsHeader = "Suggestions"
	ShoppingHeader    = "Things we'd need to have"
)

// ShoppingGroups are the only headings allowed under ShoppingHeader, in order.
var ShoppingGroups = []string{"Protein", "Produce", "Other"}

// Staples are assumed to be in the pantry and never go on the shopping list.
var Staples = []string{
	"salt", "pepper", "oil", "olive oil", "vegetable oil",
	"butter", "flour", "sugar", "rice", "pasta", "noodles",
	"bread", "stock cubes", "soy sauce", "vinegar",
	"garlic", "onion", "lemon", "water",
}

// BuildPrompt renders the single user message sent to the model.
func BuildPrompt(links []models.RecipeLink, mealsPerWeek int) string {
	return strings.Join([]string{
		"You are helping a household with dinner ideas. You will be given a curated list of recipe links (titles included when available).",
		"",
		"Produce:",
		"",
		suggestionRules(mealsPerWeek),
		"",
		shoppingRules(),
		"",
		outputFormat(mealsPerWeek),
		"",
		"Recipe links:",
		linkLines(links),
	}, "\n")
}

func linkLines(links []models.RecipeLink) string {
	lines := make([]string, 0, len(links))
	for _, l := range links {
		if l.Title != "" {
			lines = append(lines, fmt.Sprintf("- %s — %s", l.Title, l.URL))
			continue
		}
		lines = append(lines, "- "+l.URL)
	}
	return strings.Join(lines, "\n")
}

func suggestionRules(meals int) string {
	return strings.Join([]string{
		fmt.Sprintf("1) Dinner *suggestions* (exactly %d).", meals),
		"   For each suggestion:",
		"   - Include the recipe title",
		"   - Include the URL",
		"   - Add ONE short sentence (max ~18 words) summarising the dish (e.g., protein + style + key flavour/ingredient).",
		"",
		"Rules:",
		"- Choose from the provided links ONLY (do not invent URLs).",
		"- Avoid desserts/sweets and avoid non-recipe pages.",
		"- Keep the tone casual and framed as suggestions (not a strict day-by-day plan).",
	}, "\n")
}

func shoppingRules() string {
	groups := make([]string, 0, len(ShoppingGroups))
	for _, g := range ShoppingGroups {
		groups = append(groups, "     - "+g)
	}
	return strings.Join([]string{
		fmt.Sprintf("2) A section titled %q with NO quantities.", ShoppingHeader),
		"   - Include only *non-staples* that someone might need to buy specially (e.g., chicken thighs, salmon, fresh herbs, coconut milk).",
		"   - Do NOT include common pantry staples like: " + strings.Join(Staples, ", ") + ".",
		"   - Do NOT include measurements (no grams/ml/cups/tbsp).",
		"   - Group into exactly these headings:",
		strings.Join(groups, "\n"),
		"   - If unsure, omit.",
	}, "\n")
}

func outputFormat(meals int) string {
	return strings.Join([]string{
		"Output format (exact):",
		"- Start with a one-line greeting.",
		fmt.Sprintf("- Then a section header: %q", SuggestionsHeader),
		fmt.Sprintf("- Then suggestions as a numbered list 1..%d, each on ONE line:", meals),
		`  "1. <Title> — <URL> — <one-sentence summary>"`,
		fmt.Sprintf("- Then a blank line and the header: %q", ShoppingHeader),
		"- Then the three group headings with bullet lists.",
		`- Refer to it as "our" recipe list, not "your" recipe list.`,
		"- Use Australian names for produce, e.g. eggplant, not aubergine.",
	}, "\n")
}
