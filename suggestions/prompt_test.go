package suggestions

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kova98/mealmail/models"
)

func TestBuildPrompt_LinkLines(t *testing.T) {
	prompt := BuildPrompt([]models.RecipeLink{
		{URL: "https://a.example/curry", Title: "Thai Green Curry"},
		{URL: "https://b.example/kofta"},
	}, 7)

	assert.Contains(t, prompt, "\n- Thai Green Curry — https://a.example/curry\n")
	assert.True(t, strings.HasSuffix(prompt, "\n- https://b.example/kofta"))
}

func TestBuildPrompt_MealCount(t *testing.T) {
	prompt := BuildPrompt(nil, 5)

	assert.Contains(t, prompt, "(exactly 5)")
	assert.Contains(t, prompt, "numbered list 1..5")
	assert.NotContains(t, prompt, "exactly 7")
}

func TestBuildPrompt_ShoppingRules(t *testing.T) {
	prompt := BuildPrompt(nil, 7)

	assert.Contains(t, prompt, `"Things we'd need to have"`)
	for _, group := range ShoppingGroups {
		assert.Contains(t, prompt, "     - "+group+"\n")
	}
	assert.Contains(t, prompt, strings.Join(Staples, ", "))
	assert.Contains(t, prompt, "NO quantities")
	assert.Contains(t, prompt, "no grams/ml/cups/tbsp")
}

func TestBuildPrompt_OutputLayoutAndVoice(t *testing.T) {
	prompt := BuildPrompt(nil, 7)

	assert.Contains(t, prompt, "one-line greeting")
	assert.Contains(t, prompt, `section header: "Suggestions"`)
	assert.Contains(t, prompt, `"1. <Title> — <URL> — <one-sentence summary>"`)
	assert.Contains(t, prompt, `"our" recipe list`)
	assert.Contains(t, prompt, "Australian names for produce")
	assert.Contains(t, prompt, "Choose from the provided links ONLY")
}
