package service

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/pageza/recipehub/backend/internal/docstore"
	"github.com/pageza/recipehub/backend/internal/ingredients"
	"github.com/pageza/recipehub/backend/internal/mealdb"
	"github.com/pageza/recipehub/backend/internal/types"
)

// Resolve finds a recipe by id. Numeric ids are tried against the external
// source first; custom recipe ids are timestamps and so may be numeric too,
// which is why a miss there falls through to the store. An unreachable
// external source is logged and treated as a miss.
func (s *RecipeService) Resolve(ctx context.Context, id string) (*types.Recipe, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, NewNotFoundError("recipe")
	}

	if looksNumeric(id) {
		meal, err := s.source.LookupByID(ctx, id)
		switch {
		case err != nil:
			s.logger.Warn("external recipe lookup failed, trying community recipes",
				zap.String("recipe_id", id), zap.Error(err))
		case meal != nil:
			return normalizeExternal(meal), nil
		}
	}

	doc, err := s.findCustom(ctx, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, NewNotFoundError("recipe")
	}
	if err != nil {
		return nil, NewBackendError("could not load recipe", err)
	}
	return normalizeCustom(doc), nil
}

// canonicalID maps any id Resolve accepts to the id writes are keyed by.
// An id that no longer resolves is returned unchanged, so entries left
// behind by a deleted recipe can still be read and removed.
func canonicalID(ctx context.Context, resolver Resolver, id string) (string, error) {
	recipe, err := resolver.Resolve(ctx, id)
	if IsCode(err, CodeNotFound) {
		return id, nil
	}
	if err != nil {
		return "", err
	}
	return recipe.ID, nil
}

// looksNumeric accepts decimal numbers only. Hex literals and Infinity are
// not ids the external source hands out, so they skip the external lookup.
func looksNumeric(id string) bool {
	f, err := strconv.ParseFloat(id, 64)
	return err == nil && !math.IsNaN(f) && !math.IsInf(f, 0)
}

func normalizeExternal(meal mealdb.Meal) *types.Recipe {
	return &types.Recipe{
		ID:           meal.ID(),
		Title:        meal.String("strMeal"),
		ThumbnailURL: meal.String("strMealThumb"),
		Category:     meal.String("strCategory"),
		Area:         meal.String("strArea"),
		Instructions: meal.String("strInstructions"),
		VideoURL:     meal.String("strYoutube"),
		Ingredients:  ingredients.MealDB.FromFlat(meal),
		IsCustom:     false,
		Source:       types.SourceMealDB,
	}
}

func normalizeExternalAll(meals []mealdb.Meal) []*types.Recipe {
	recipes := make([]*types.Recipe, 0, len(meals))
	for _, m := range meals {
		recipes = append(recipes, normalizeExternal(m))
	}
	return recipes
}

func normalizeCustom(doc *docstore.Document) *types.Recipe {
	return &types.Recipe{
		ID:           doc.ID(),
		Title:        doc.String("title"),
		ThumbnailURL: doc.String("thumbnailUrl"),
		Category:     doc.String("category"),
		Area:         doc.String("area"),
		Instructions: doc.String("instructions"),
		VideoURL:     doc.String("videoUrl"),
		CookingTime:  doc.String("cookingTime"),
		Servings:     doc.String("servings"),
		Difficulty:   types.Difficulty(doc.String("difficulty")),
		Ingredients:  ingredients.FromFlat(doc.Data),
		IsCustom:     true,
		AuthorID:     doc.String("userId"),
		AuthorEmail:  doc.String("authorEmail"),
		Source:       types.SourceCommunity,
		CreatedAt:    doc.String("createdAt"),
	}
}

func normalizeCustomAll(docs []*docstore.Document) []*types.Recipe {
	recipes := make([]*types.Recipe, 0, len(docs))
	for _, d := range docs {
		recipes = append(recipes, normalizeCustom(d))
	}
	return recipes
}
