package service

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pageza/recipehub/backend/internal/mealdb"
	"github.com/pageza/recipehub/backend/internal/types"
)

const defaultTrendingCount = 8

// Search runs the community and external searches concurrently and returns
// community matches first. Recipes found in both sources appear twice.
func (s *RecipeService) Search(ctx context.Context, query string) ([]*types.Recipe, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, NewValidationError("search query is required")
	}
	return s.merged(ctx, query, func(ctx context.Context) ([]mealdb.Meal, error) {
		return s.source.Search(ctx, query)
	})
}

// ByCategory lists a category: community recipes whose title or category
// match, then the external category listing. External entries of a
// category listing carry only id, title and thumbnail.
func (s *RecipeService) ByCategory(ctx context.Context, category string) ([]*types.Recipe, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, NewValidationError("category is required")
	}
	return s.merged(ctx, category, func(ctx context.Context) ([]mealdb.Meal, error) {
		return s.source.FilterByCategory(ctx, category)
	})
}

func (s *RecipeService) merged(ctx context.Context, query string, external func(context.Context) ([]mealdb.Meal, error)) ([]*types.Recipe, error) {
	var local, remote []*types.Recipe
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		found, err := s.searchLocal(gctx, query)
		if err != nil {
			s.logger.Warn("community search failed", zap.String("query", query), zap.Error(err))
			found = []*types.Recipe{}
		}
		local = found
		return nil
	})

	g.Go(func() error {
		meals, err := external(gctx)
		if err != nil {
			return err
		}
		remote = normalizeExternalAll(meals)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, NewBackendError("search is unavailable right now", err)
	}

	results := make([]*types.Recipe, 0, len(local)+len(remote))
	results = append(results, local...)
	return append(results, remote...), nil
}

// Trending fetches n random external recipes concurrently. Any failed fetch
// fails the whole call.
func (s *RecipeService) Trending(ctx context.Context, n int) ([]*types.Recipe, error) {
	if n <= 0 {
		n = defaultTrendingCount
	}

	recipes := make([]*types.Recipe, n)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			meal, err := s.source.Random(gctx)
			if err != nil {
				return err
			}
			recipes[i] = normalizeExternal(meal)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, NewBackendError("could not load trending recipes", err)
	}
	return recipes, nil
}
