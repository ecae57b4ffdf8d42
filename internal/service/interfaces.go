package service

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/pageza/recipehub/backend/internal/mealdb"
	"github.com/pageza/recipehub/backend/internal/types"
)

// RecipeSource is the external recipe API. *mealdb.Client implements it.
type RecipeSource interface {
	LookupByID(ctx context.Context, id string) (mealdb.Meal, error)
	Search(ctx context.Context, query string) ([]mealdb.Meal, error)
	Random(ctx context.Context) (mealdb.Meal, error)
	FilterByCategory(ctx context.Context, category string) ([]mealdb.Meal, error)
}

// Resolver turns an identifier from either source into a recipe
type Resolver interface {
	Resolve(ctx context.Context, id string) (*types.Recipe, error)
}

// ProfileReader loads a user's profile. *ProfileService implements it.
type ProfileReader interface {
	GetProfile(ctx context.Context, userID string) (*types.Profile, error)
}

// ObjectPutter is the part of the S3 client used for uploads
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	SignUp(ctx context.Context, req *types.SignUpRequest) (*types.TokenResponse, error)
	SignIn(ctx context.Context, req *types.LoginRequest) (*types.TokenResponse, error)
	SignOut(ctx context.Context, claims *types.TokenClaims) error
	Refresh(ctx context.Context, claims *types.TokenClaims) (*types.TokenResponse, error)
	ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error)
}

// IProfileService defines the interface for user profile operations
type IProfileService interface {
	GetProfile(ctx context.Context, userID string) (*types.Profile, error)
	UpdateProfile(ctx context.Context, userID string, req *types.UpdateProfileRequest) (*types.Profile, error)
	DeleteAccount(ctx context.Context, claims *types.TokenClaims, confirm bool) error
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	Resolver
	Create(ctx context.Context, author *types.TokenClaims, req *types.RecipeRequest) (*types.Recipe, error)
	Update(ctx context.Context, userID, id string, req *types.RecipeRequest) (*types.Recipe, error)
	Delete(ctx context.Context, userID, id string, confirm bool) error
	ListByAuthor(ctx context.Context, userID string) ([]*types.Recipe, error)
	Latest(ctx context.Context, limit int) ([]*types.Recipe, error)
	Search(ctx context.Context, query string) ([]*types.Recipe, error)
	ByCategory(ctx context.Context, category string) ([]*types.Recipe, error)
	Trending(ctx context.Context, n int) ([]*types.Recipe, error)
}

// IFavoriteService defines the interface for favorites
type IFavoriteService interface {
	Add(ctx context.Context, userID, recipeID string) (*types.RecipeSummary, error)
	Remove(ctx context.Context, userID, recipeID string) error
	IsFavorite(ctx context.Context, userID, recipeID string) (bool, error)
	List(ctx context.Context, userID string) ([]types.RecipeSummary, error)
}

// IMealPlanService defines the interface for the meal planner
type IMealPlanService interface {
	SetSlot(ctx context.Context, userID, date string, slot types.MealSlot, recipeID string) (*types.RecipeRef, error)
	ClearSlot(ctx context.Context, userID, date string, slot types.MealSlot, confirm bool) error
	Plan(ctx context.Context, userID string) (types.MealPlan, error)
}

// ICommentService defines the interface for recipe reviews
type ICommentService interface {
	Add(ctx context.Context, author *types.TokenClaims, recipeID string, req *types.AddCommentRequest) (*types.Comment, error)
	List(ctx context.Context, recipeID string) ([]*types.Comment, error)
	Delete(ctx context.Context, userID, commentID string) error
}

// IImageService defines the interface for image uploads
type IImageService interface {
	Upload(ctx context.Context, userID string, data []byte, contentType string) (string, error)
}
