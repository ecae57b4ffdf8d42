package types

import (
	"github.com/pageza/recipehub/backend/internal/ingredients"
)

// Difficulty of a recipe
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// Valid reports whether d is one of the known difficulties. The empty value
// is accepted and means unspecified.
func (d Difficulty) Valid() bool {
	switch d {
	case "", DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Source tells where a recipe came from
type Source string

const (
	SourceMealDB    Source = "mealdb"
	SourceCommunity Source = "community"
)

// Recipe is the one shape every recipe is returned in, whatever its source.
// Optional fields are empty strings when the source does not carry them.
type Recipe struct {
	ID           string                   `json:"id"`
	Title        string                   `json:"title"`
	ThumbnailURL string                   `json:"thumbnailUrl,omitempty"`
	Category     string                   `json:"category,omitempty"`
	Area         string                   `json:"area,omitempty"`
	Instructions string                   `json:"instructions"`
	VideoURL     string                   `json:"videoUrl,omitempty"`
	CookingTime  string                   `json:"cookingTime,omitempty"`
	Servings     string                   `json:"servings,omitempty"`
	Difficulty   Difficulty               `json:"difficulty,omitempty"`
	Ingredients  []ingredients.Ingredient `json:"ingredients"`
	IsCustom     bool                     `json:"isCustom"`
	AuthorID     string                   `json:"authorId,omitempty"`
	AuthorEmail  string                   `json:"authorEmail,omitempty"`
	Source       Source                   `json:"source"`
	CreatedAt    string                   `json:"createdAt,omitempty"`
}

// Summary returns the fields kept in favorites lists
func (r *Recipe) Summary() RecipeSummary {
	return RecipeSummary{
		ID:           r.ID,
		Title:        r.Title,
		ThumbnailURL: r.ThumbnailURL,
		Category:     r.Category,
		Area:         r.Area,
	}
}

// RecipeSummary is the subset of a recipe stored as a favorite
type RecipeSummary struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	Category     string `json:"category,omitempty"`
	Area         string `json:"area,omitempty"`
}

// RecipeRef is the minimal reference stored in a meal plan slot
type RecipeRef struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
}
