package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/recipehub/backend/internal/docstore"
	"github.com/pageza/recipehub/backend/internal/mealdb"
	"github.com/pageza/recipehub/backend/internal/middleware"
	"github.com/pageza/recipehub/backend/internal/service"
	"github.com/pageza/recipehub/backend/internal/session"
	"github.com/pageza/recipehub/backend/internal/testhelpers"
	"github.com/pageza/recipehub/backend/internal/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var teriyaki = map[string]any{
	"idMeal":          "52772",
	"strMeal":         "Teriyaki Chicken Casserole",
	"strCategory":     "Chicken",
	"strArea":         "Japanese",
	"strMealThumb":    "https://img.example/52772.jpg",
	"strInstructions": "Preheat oven.\nBake.",
	"strIngredient1":  "soy sauce",
	"strMeasure1":     "3/4 cup",
	"strIngredient2":  nil,
}

// fakeMealDB serves the few endpoints the app calls. Only 52772 exists and
// every search returns it.
func fakeMealDB(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		var meals any
		switch r.URL.Path {
		case "/lookup.php":
			if r.URL.Query().Get("i") == "52772" {
				meals = []any{teriyaki}
			}
		case "/search.php", "/random.php", "/filter.php":
			meals = []any{teriyaki}
		default:
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"meals": meals})
	}))
	t.Cleanup(srv.Close)
	return srv
}

type fakePutter struct{}

func (fakePutter) PutObject(context.Context, *s3.PutObjectInput, ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	return &s3.PutObjectOutput{}, nil
}

type testApp struct {
	router *gin.Engine
	store  docstore.Store
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	log := zap.NewNop()
	store := docstore.NewGormStore(testhelpers.SetupSQLite(t))
	source := mealdb.NewClient(fakeMealDB(t).URL, 0, log)
	hub := session.NewHub()

	auth := service.NewAuthService(store, hub, session.NewMemoryRevoker(), "api-test-secret-long-enough-for-hs256", time.Hour, log)
	recipes := service.NewRecipeService(store, source, log)

	profiles := service.NewProfileService(store, auth, hub, log)

	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Recovery(log), middleware.ErrorHandler(log))
	SetupAPI(router, Services{
		Auth:      auth,
		Profiles:  profiles,
		Recipes:   recipes,
		Favorites: service.NewFavoriteService(store, recipes, log),
		MealPlans: service.NewMealPlanService(store, recipes, log),
		Comments:  service.NewCommentService(store, recipes, profiles, log),
		Images:    service.NewImageService(fakePutter{}, "bucket", "https://cdn.example.com", log),
		Store:     store,
	}, Limiters{})

	return &testApp{router: router, store: store}
}

func (a *testApp) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) signUp(t *testing.T, email string) string {
	t.Helper()
	w := a.do(t, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"email": email, "password": "secret123", "confirmPassword": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp types.TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Token
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)
	w := app.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCommentEndToEnd(t *testing.T) {
	app := newTestApp(t)
	token := app.signUp(t, "reviewer@example.com")

	w := app.do(t, http.MethodPost, "/api/v1/recipes/52772/comments", token, map[string]any{
		"rating": 4, "text": "Great dish",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = app.do(t, http.MethodGet, "/api/v1/recipes/52772/comments", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	comments := decode[[]types.Comment](t, w)
	require.Len(t, comments, 1)
	assert.Equal(t, 4, comments[0].Rating)
	assert.Equal(t, "Great dish", comments[0].Text)
	assert.Equal(t, "reviewer", comments[0].UserName)

	w = app.do(t, http.MethodPost, "/api/v1/recipes/52772/comments", "", map[string]any{"rating": 4, "text": "anon"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCommentsThroughLogicalID(t *testing.T) {
	app := newTestApp(t)
	token := app.signUp(t, "reviewer@example.com")
	require.NoError(t, app.store.Set(context.Background(), docstore.Doc("custom_recipes", "stored-key"), map[string]any{
		"id": "1792324619130", "title": "Pavlova", "instructions": "Whisk.", "isCustom": true,
	}))
	path := "/api/v1/recipes/1792324619130/comments"

	w := app.do(t, http.MethodPost, path, token, map[string]any{"rating": 4, "text": "Great dish"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = app.do(t, http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	comments := decode[[]types.Comment](t, w)
	require.Len(t, comments, 1)
	assert.Equal(t, 4, comments[0].Rating)
	assert.Equal(t, "stored-key", comments[0].RecipeID)

	w = app.do(t, http.MethodPut, "/api/v1/favorites/1792324619130", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = app.do(t, http.MethodGet, "/api/v1/favorites/1792324619130", token, nil)
	assert.Equal(t, true, decode[map[string]bool](t, w)["favorite"])
}

func TestGetRecipeFallsBackToLocalLogicalID(t *testing.T) {
	app := newTestApp(t)
	require.NoError(t, app.store.Set(context.Background(), docstore.Doc("custom_recipes", "other-key"), map[string]any{
		"id": "42", "title": "Local Answer", "instructions": "Think.", "isCustom": true,
	}))

	w := app.do(t, http.MethodGet, "/api/v1/recipes/42", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	recipe := decode[types.Recipe](t, w)
	assert.Equal(t, "Local Answer", recipe.Title)
	assert.True(t, recipe.IsCustom)

	w = app.do(t, http.MethodGet, "/api/v1/recipes/52772", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	recipe = decode[types.Recipe](t, w)
	assert.Equal(t, types.SourceMealDB, recipe.Source)
	assert.Equal(t, "soy sauce", recipe.Ingredients[0].Name)

	w = app.do(t, http.MethodGet, "/api/v1/recipes/404404", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", decode[middleware.ErrorResponse](t, w).Code)
}

func TestSearchLocalFirst(t *testing.T) {
	app := newTestApp(t)
	token := app.signUp(t, "cook@example.com")
	w := app.do(t, http.MethodPost, "/api/v1/recipes", token, map[string]any{
		"title": "Chicken Teriyaki Bowl", "instructions": "Cook rice.",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = app.do(t, http.MethodGet, "/api/v1/recipes/search?q=teriyaki", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	results := decode[[]types.Recipe](t, w)
	require.Len(t, results, 2)
	assert.Equal(t, "Chicken Teriyaki Bowl", results[0].Title)
	assert.Equal(t, "Teriyaki Chicken Casserole", results[1].Title)

	w = app.do(t, http.MethodGet, "/api/v1/recipes/search?category=Chicken", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]types.Recipe](t, w), 2)

	w = app.do(t, http.MethodGet, "/api/v1/recipes/search", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTrendingAndLatest(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodGet, "/api/v1/recipes/trending?n=3", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]types.Recipe](t, w), 3)

	w = app.do(t, http.MethodGet, "/api/v1/recipes/latest", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]types.Recipe](t, w))
}

func TestCustomRecipeLifecycle(t *testing.T) {
	app := newTestApp(t)
	author := app.signUp(t, "author@example.com")
	other := app.signUp(t, "other@example.com")

	w := app.do(t, http.MethodPost, "/api/v1/recipes", author, map[string]any{
		"title":        "Shortbread",
		"instructions": "Mix.\nBake.",
		"difficulty":   "Easy",
		"ingredients": []map[string]string{
			{"name": "Butter", "measure": "250g"},
			{"name": "Sugar", "measure": "125g"},
			{"name": "Flour", "measure": "375g"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[types.Recipe](t, w)
	path := "/api/v1/recipes/" + created.ID

	w = app.do(t, http.MethodPut, path, other, map[string]any{"title": "Stolen", "instructions": "x"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = app.do(t, http.MethodPut, path, author, map[string]any{
		"title": "Shortbread", "instructions": "Mix.\nBake.",
		"ingredients": []map[string]string{{"name": "Butter", "measure": "250g"}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, decode[types.Recipe](t, w).Ingredients, 1)

	w = app.do(t, http.MethodGet, "/api/v1/me/recipes", author, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]types.Recipe](t, w), 1)

	w = app.do(t, http.MethodDelete, path, author, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "CONFIRMATION_REQUIRED", decode[middleware.ErrorResponse](t, w).Code)

	w = app.do(t, http.MethodDelete, path+"?confirm=true", author, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = app.do(t, http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFavoritesAndMealPlan(t *testing.T) {
	app := newTestApp(t)
	token := app.signUp(t, "cook@example.com")

	for i := 0; i < 2; i++ {
		w := app.do(t, http.MethodPut, "/api/v1/favorites/52772", token, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}
	w := app.do(t, http.MethodGet, "/api/v1/favorites", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]types.RecipeSummary](t, w), 1)

	w = app.do(t, http.MethodGet, "/api/v1/favorites/52772", token, nil)
	assert.Equal(t, true, decode[map[string]bool](t, w)["favorite"])

	w = app.do(t, http.MethodDelete, "/api/v1/favorites/52772", token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	for _, slot := range []string{"breakfast", "lunch"} {
		w = app.do(t, http.MethodPut, "/api/v1/meal-plan/2024-05-01/"+slot, token, map[string]string{"recipeId": "52772"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}
	w = app.do(t, http.MethodGet, "/api/v1/meal-plan", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	plan := decode[types.MealPlan](t, w)
	assert.Len(t, plan["2024-05-01"], 2)

	w = app.do(t, http.MethodDelete, "/api/v1/meal-plan/2024-05-01/lunch?confirm=true", token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = app.do(t, http.MethodGet, "/api/v1/meal-plan", token, nil)
	plan = decode[types.MealPlan](t, w)
	assert.Len(t, plan["2024-05-01"], 1)

	w = app.do(t, http.MethodPut, "/api/v1/meal-plan/2024-05-01/brunch", token, map[string]string{"recipeId": "52772"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthAndAccountFlow(t *testing.T) {
	app := newTestApp(t)
	token := app.signUp(t, "cook@example.com")

	w := app.do(t, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"email": "cook@example.com", "password": "secret123", "confirmPassword": "secret123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = app.do(t, http.MethodPut, "/api/v1/profile", token, map[string]string{"displayName": "Chef"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Chef", decode[types.Profile](t, w).DisplayName)

	w = app.do(t, http.MethodPost, "/api/v1/auth/refresh", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	fresh := decode[types.TokenResponse](t, w).Token

	w = app.do(t, http.MethodGet, "/api/v1/profile", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "refresh revokes the old token")

	w = app.do(t, http.MethodDelete, "/api/v1/profile", fresh, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, http.MethodDelete, "/api/v1/profile", fresh, map[string]bool{"confirm": true})
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = app.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "cook@example.com", "password": "secret123"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogout(t *testing.T) {
	app := newTestApp(t)
	token := app.signUp(t, "cook@example.com")

	w := app.do(t, http.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = app.do(t, http.MethodGet, "/api/v1/profile", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUploadImage(t *testing.T) {
	app := newTestApp(t)
	token := app.signUp(t, "cook@example.com")

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "thumb.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads/images", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, decode[map[string]string](t, w)["url"], "https://cdn.example.com/recipe-images/")

	w = app.do(t, http.MethodPost, "/api/v1/uploads/images", token, map[string]string{"not": "multipart"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
