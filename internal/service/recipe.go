package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pageza/recipehub/backend/internal/docstore"
	"github.com/pageza/recipehub/backend/internal/ingredients"
	"github.com/pageza/recipehub/backend/internal/types"
)

const (
	colCustomRecipes = "custom_recipes"
	colComments      = "comments"
	subFavorites     = "favorites"
	subMealPlan      = "meal_plan"
)

// RecipeService owns custom recipes and combines them with the external
// source for lookups and search
type RecipeService struct {
	store  docstore.Store
	source RecipeSource
	logger *zap.Logger
	now    func() time.Time
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(store docstore.Store, source RecipeSource, logger *zap.Logger) *RecipeService {
	return &RecipeService{
		store:  store,
		source: source,
		logger: logger,
		now:    time.Now,
	}
}

func validateRecipe(req *types.RecipeRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return NewValidationError("title is required")
	}
	if strings.TrimSpace(req.Instructions) == "" {
		return NewValidationError("instructions are required")
	}
	if !req.Difficulty.Valid() {
		return NewValidationError("difficulty must be Easy, Medium or Hard")
	}
	if err := ingredients.Validate(req.Ingredients); err != nil {
		return NewValidationError(fmt.Sprintf("a recipe can have at most %d ingredients", ingredients.MaxSlots))
	}
	for _, u := range []string{req.ThumbnailURL, req.VideoURL} {
		if u != "" && !isHTTPURL(u) {
			return NewValidationError("links must be http or https URLs")
		}
	}
	return nil
}

// recipeFields are the non-ingredient fields written on create and update
func recipeFields(req *types.RecipeRequest) map[string]any {
	return map[string]any{
		"title":        strings.TrimSpace(req.Title),
		"thumbnailUrl": req.ThumbnailURL,
		"category":     strings.TrimSpace(req.Category),
		"area":         strings.TrimSpace(req.Area),
		"instructions": req.Instructions,
		"videoUrl":     req.VideoURL,
		"cookingTime":  req.CookingTime,
		"servings":     req.Servings,
		"difficulty":   string(req.Difficulty),
	}
}

// Create stores a new custom recipe. Its logical id is the creation time in
// milliseconds; the document key is generated by the store and is the id
// the recipe is returned under.
func (s *RecipeService) Create(ctx context.Context, author *types.TokenClaims, req *types.RecipeRequest) (*types.Recipe, error) {
	if err := validateRecipe(req); err != nil {
		return nil, err
	}

	now := s.now()
	data := recipeFields(req)
	for k, v := range ingredients.ToFlat(req.Ingredients) {
		data[k] = v
	}
	data["id"] = strconv.FormatInt(now.UnixMilli(), 10)
	data["isCustom"] = true
	data["userId"] = author.UserID
	data["authorEmail"] = author.Email
	data["createdAt"] = docstore.FormatTime(now)

	key, err := s.store.Add(ctx, colCustomRecipes, data)
	if err != nil {
		return nil, NewBackendError("could not save recipe", err)
	}
	s.logger.Info("custom recipe created", zap.String("recipe_id", key), zap.String("user_id", author.UserID))

	return normalizeCustom(&docstore.Document{
		Ref:  docstore.Ref{Collection: colCustomRecipes, ID: key},
		Data: data,
	}), nil
}

// Update replaces every field of a custom recipe owned by userID. All 20
// ingredient slots are rewritten so removed ingredients are cleared.
func (s *RecipeService) Update(ctx context.Context, userID, id string, req *types.RecipeRequest) (*types.Recipe, error) {
	doc, err := s.ownedCustom(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := validateRecipe(req); err != nil {
		return nil, err
	}

	patch := recipeFields(req)
	for k, v := range ingredients.ToFlatForUpdate(req.Ingredients) {
		patch[k] = v
	}
	patch["updatedAt"] = docstore.FormatTime(s.now())

	if err := s.store.Merge(ctx, doc.Ref, patch); err != nil {
		return nil, NewBackendError("could not update recipe", err)
	}

	doc.Data = ingredients.Merge(doc.Data, patch)
	return normalizeCustom(doc), nil
}

// Delete removes a custom recipe owned by userID
func (s *RecipeService) Delete(ctx context.Context, userID, id string, confirm bool) error {
	if !confirm {
		return NewConfirmationRequiredError("deleting a recipe")
	}
	doc, err := s.ownedCustom(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, doc.Ref); err != nil {
		return NewBackendError("could not delete recipe", err)
	}
	s.logger.Info("custom recipe deleted", zap.String("recipe_id", doc.ID()), zap.String("user_id", userID))
	return nil
}

// ListByAuthor returns the custom recipes of userID, newest first
func (s *RecipeService) ListByAuthor(ctx context.Context, userID string) ([]*types.Recipe, error) {
	docs, err := s.store.Query(ctx, colCustomRecipes, docstore.Query{}.Where("userId", userID))
	if err != nil {
		return nil, NewBackendError("could not load your recipes", err)
	}
	recipes := normalizeCustomAll(docs)
	sort.SliceStable(recipes, func(i, j int) bool {
		return recipes[i].CreatedAt > recipes[j].CreatedAt
	})
	return recipes, nil
}

// Latest returns the most recently created custom recipes
func (s *RecipeService) Latest(ctx context.Context, limit int) ([]*types.Recipe, error) {
	docs, err := s.store.Query(ctx, colCustomRecipes, docstore.Query{
		OrderBy:   "createdAt",
		Direction: docstore.Desc,
		Limit:     limit,
	})
	if err != nil {
		return nil, NewBackendError("could not load community recipes", err)
	}
	return normalizeCustomAll(docs), nil
}

func (s *RecipeService) ownedCustom(ctx context.Context, userID, id string) (*docstore.Document, error) {
	doc, err := s.findCustom(ctx, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, NewNotFoundError("recipe")
	}
	if err != nil {
		return nil, NewBackendError("could not load recipe", err)
	}
	if doc.String("userId") != userID {
		return nil, NewForbiddenError("only the author can change this recipe")
	}
	return doc, nil
}

// findCustom looks a custom recipe up by document key, then by its stored
// logical id, since older records were saved under a different key.
func (s *RecipeService) findCustom(ctx context.Context, id string) (*docstore.Document, error) {
	if id == "" {
		return nil, docstore.ErrNotFound
	}
	if !strings.Contains(id, "/") {
		doc, err := s.store.Get(ctx, docstore.Ref{Collection: colCustomRecipes, ID: id})
		if err == nil {
			return doc, nil
		}
		if !errors.Is(err, docstore.ErrNotFound) {
			return nil, err
		}
	}

	docs, err := s.store.Query(ctx, colCustomRecipes, docstore.Query{Limit: 1}.Where("id", id))
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, docstore.ErrNotFound
	}
	return docs[0], nil
}

// searchLocal matches query against title and category of every custom
// recipe, ignoring case
func (s *RecipeService) searchLocal(ctx context.Context, query string) ([]*types.Recipe, error) {
	docs, err := s.store.Query(ctx, colCustomRecipes, docstore.Query{})
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(query)
	matches := make([]*types.Recipe, 0)
	for _, doc := range docs {
		if strings.Contains(strings.ToLower(doc.String("title")), needle) ||
			strings.Contains(strings.ToLower(doc.String("category")), needle) {
			matches = append(matches, normalizeCustom(doc))
		}
	}
	return matches, nil
}
