package types

import (
	"github.com/pageza/recipehub/backend/internal/ingredients"
)

// SignUpRequest creates an account
type SignUpRequest struct {
	Email           string `json:"email" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
	DisplayName     string `json:"displayName"`
}

// LoginRequest signs in with email and password
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest changes profile fields; nil fields are left alone
type UpdateProfileRequest struct {
	DisplayName *string `json:"displayName,omitempty"`
	PhotoURL    *string `json:"photoUrl,omitempty"`
}

// DeleteAccountRequest must carry Confirm=true
type DeleteAccountRequest struct {
	Confirm bool `json:"confirm"`
}

// RecipeRequest is the body of both create and update. An update replaces
// every field, including the whole ingredient list.
type RecipeRequest struct {
	Title        string                   `json:"title"`
	ThumbnailURL string                   `json:"thumbnailUrl"`
	Category     string                   `json:"category"`
	Area         string                   `json:"area"`
	Instructions string                   `json:"instructions"`
	VideoURL     string                   `json:"videoUrl"`
	CookingTime  string                   `json:"cookingTime"`
	Servings     string                   `json:"servings"`
	Difficulty   Difficulty               `json:"difficulty"`
	Ingredients  []ingredients.Ingredient `json:"ingredients"`
}

// AddCommentRequest posts a review
type AddCommentRequest struct {
	Rating int    `json:"rating"`
	Text   string `json:"text"`
}

// SetMealSlotRequest puts a recipe into a meal plan slot
type SetMealSlotRequest struct {
	RecipeID string `json:"recipeId" binding:"required"`
}
