package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/pageza/recipehub/backend/internal/docstore"
	"github.com/pageza/recipehub/backend/internal/types"
)

// FavoriteService keeps per-user favorites at users/{uid}/favorites/{recipeId}
type FavoriteService struct {
	store    docstore.Store
	resolver Resolver
	logger   *zap.Logger
}

// NewFavoriteService creates a new FavoriteService instance
func NewFavoriteService(store docstore.Store, resolver Resolver, logger *zap.Logger) *FavoriteService {
	return &FavoriteService{store: store, resolver: resolver, logger: logger}
}

func favoriteRef(userID, recipeID string) docstore.Ref {
	return docstore.Doc(colUsers, userID, subFavorites, recipeID)
}

func validRecipeKey(recipeID string) error {
	if strings.TrimSpace(recipeID) == "" || strings.Contains(recipeID, "/") {
		return NewNotFoundError("recipe")
	}
	return nil
}

// Add saves the recipe summary under the recipe's canonical id. Adding the
// same recipe again overwrites the entry.
func (s *FavoriteService) Add(ctx context.Context, userID, recipeID string) (*types.RecipeSummary, error) {
	recipe, err := s.resolver.Resolve(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	summary := recipe.Summary()

	err = s.store.Set(ctx, favoriteRef(userID, summary.ID), map[string]any{
		"id":           summary.ID,
		"title":        summary.Title,
		"thumbnailUrl": summary.ThumbnailURL,
		"category":     summary.Category,
		"area":         summary.Area,
	})
	if err != nil {
		return nil, NewBackendError("could not save favorite", err)
	}
	return &summary, nil
}

// Remove deletes a favorite; removing one that is not there is not an error.
// Any id of the recipe works, as for Add.
func (s *FavoriteService) Remove(ctx context.Context, userID, recipeID string) error {
	if err := validRecipeKey(recipeID); err != nil {
		return err
	}
	key, err := canonicalID(ctx, s.resolver, recipeID)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, favoriteRef(userID, key)); err != nil {
		return NewBackendError("could not remove favorite", err)
	}
	return nil
}

// IsFavorite reports whether the user saved the recipe
func (s *FavoriteService) IsFavorite(ctx context.Context, userID, recipeID string) (bool, error) {
	if err := validRecipeKey(recipeID); err != nil {
		return false, nil
	}
	key, err := canonicalID(ctx, s.resolver, recipeID)
	if err != nil {
		return false, err
	}
	_, err = s.store.Get(ctx, favoriteRef(userID, key))
	if errors.Is(err, docstore.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, NewBackendError("could not load favorites", err)
	}
	return true, nil
}

// List returns all favorites of the user
func (s *FavoriteService) List(ctx context.Context, userID string) ([]types.RecipeSummary, error) {
	docs, err := s.store.Query(ctx, docstore.Collection(colUsers, userID, subFavorites), docstore.Query{})
	if err != nil {
		return nil, NewBackendError("could not load favorites", err)
	}

	favorites := make([]types.RecipeSummary, 0, len(docs))
	for _, d := range docs {
		id := d.String("id")
		if id == "" {
			id = d.ID()
		}
		favorites = append(favorites, types.RecipeSummary{
			ID:           id,
			Title:        d.String("title"),
			ThumbnailURL: d.String("thumbnailUrl"),
			Category:     d.String("category"),
			Area:         d.String("area"),
		})
	}
	return favorites, nil
}
