package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/recipehub/backend/internal/docstore"
	"github.com/pageza/recipehub/backend/internal/mealdb"
	"github.com/pageza/recipehub/backend/internal/session"
	"github.com/pageza/recipehub/backend/internal/testhelpers"
	"github.com/pageza/recipehub/backend/internal/types"
)

const testSecret = "test-secret-that-is-long-enough-for-hs256"

// mockSource is a testify mock of the external recipe API
type mockSource struct {
	mock.Mock
}

func (m *mockSource) LookupByID(ctx context.Context, id string) (mealdb.Meal, error) {
	args := m.Called(ctx, id)
	meal, _ := args.Get(0).(mealdb.Meal)
	return meal, args.Error(1)
}

func (m *mockSource) Search(ctx context.Context, query string) ([]mealdb.Meal, error) {
	args := m.Called(ctx, query)
	meals, _ := args.Get(0).([]mealdb.Meal)
	return meals, args.Error(1)
}

func (m *mockSource) Random(ctx context.Context) (mealdb.Meal, error) {
	args := m.Called(ctx)
	meal, _ := args.Get(0).(mealdb.Meal)
	return meal, args.Error(1)
}

func (m *mockSource) FilterByCategory(ctx context.Context, category string) ([]mealdb.Meal, error) {
	args := m.Called(ctx, category)
	meals, _ := args.Get(0).([]mealdb.Meal)
	return meals, args.Error(1)
}

func meal(id, title, category string) mealdb.Meal {
	return mealdb.Meal{
		"idMeal":          id,
		"strMeal":         title,
		"strCategory":     category,
		"strArea":         "British",
		"strMealThumb":    "https://img.example/" + id + ".jpg",
		"strInstructions": "Cook it.",
		"strIngredient1":  "Beef",
		"strMeasure1":     "500g",
		"strIngredient2":  "",
		"strMeasure2":     nil,
	}
}

type testEnv struct {
	store     docstore.Store
	source    *mockSource
	hub       *session.Hub
	revoker   *session.MemoryRevoker
	auth      *AuthService
	profiles  *ProfileService
	recipes   *RecipeService
	favorites *FavoriteService
	mealPlans *MealPlanService
	comments  *CommentService
	tokens    map[string]string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := docstore.NewGormStore(testhelpers.SetupSQLite(t))
	source := &mockSource{}
	hub := session.NewHub()
	revoker := session.NewMemoryRevoker()
	log := zap.NewNop()

	auth := NewAuthService(store, hub, revoker, testSecret, time.Hour, log)
	recipes := NewRecipeService(store, source, log)
	profiles := NewProfileService(store, auth, hub, log)
	return &testEnv{
		store:     store,
		source:    source,
		hub:       hub,
		revoker:   revoker,
		auth:      auth,
		profiles:  profiles,
		recipes:   recipes,
		favorites: NewFavoriteService(store, recipes, log),
		mealPlans: NewMealPlanService(store, recipes, log),
		comments:  NewCommentService(store, recipes, profiles, log),
		tokens:    make(map[string]string),
	}
}

// signUp creates an account and returns the claims of its token. The
// token itself is kept in e.tokens.
func (e *testEnv) signUp(t *testing.T, email string) *types.TokenClaims {
	t.Helper()
	ctx := context.Background()
	resp, err := e.auth.SignUp(ctx, &types.SignUpRequest{
		Email:           email,
		Password:        "secret123",
		ConfirmPassword: "secret123",
	})
	require.NoError(t, err)
	claims, err := e.auth.ValidateToken(ctx, resp.Token)
	require.NoError(t, err)
	e.tokens[claims.UserID] = resp.Token
	return claims
}

func (e *testEnv) createRecipe(t *testing.T, author *types.TokenClaims, title string) *types.Recipe {
	t.Helper()
	recipe, err := e.recipes.Create(context.Background(), author, &types.RecipeRequest{
		Title:        title,
		Category:     "Dessert",
		Instructions: "Mix.\nBake.",
		Difficulty:   types.DifficultyEasy,
	})
	require.NoError(t, err)
	return recipe
}

// steppingClock returns a now func that advances by one second per call
func steppingClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		current = current.Add(time.Second)
		return current
	}
}
