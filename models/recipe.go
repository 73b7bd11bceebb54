package models

type RecipeLink struct {
	URL   string
	Title string
}
