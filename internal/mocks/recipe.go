package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/recipehub/backend/internal/types"
)

// MockRecipeService is a mock implementation of service.IRecipeService
type MockRecipeService struct {
	mock.Mock
}

func (m *MockRecipeService) recipe(args mock.Arguments) (*types.Recipe, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Recipe), args.Error(1)
}

func (m *MockRecipeService) recipes(args mock.Arguments) ([]*types.Recipe, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*types.Recipe), args.Error(1)
}

func (m *MockRecipeService) Resolve(ctx context.Context, id string) (*types.Recipe, error) {
	return m.recipe(m.Called(ctx, id))
}

func (m *MockRecipeService) Create(ctx context.Context, author *types.TokenClaims, req *types.RecipeRequest) (*types.Recipe, error) {
	return m.recipe(m.Called(ctx, author, req))
}

func (m *MockRecipeService) Update(ctx context.Context, userID, id string, req *types.RecipeRequest) (*types.Recipe, error) {
	return m.recipe(m.Called(ctx, userID, id, req))
}

func (m *MockRecipeService) Delete(ctx context.Context, userID, id string, confirm bool) error {
	return m.Called(ctx, userID, id, confirm).Error(0)
}

func (m *MockRecipeService) ListByAuthor(ctx context.Context, userID string) ([]*types.Recipe, error) {
	return m.recipes(m.Called(ctx, userID))
}

func (m *MockRecipeService) Latest(ctx context.Context, limit int) ([]*types.Recipe, error) {
	return m.recipes(m.Called(ctx, limit))
}

func (m *MockRecipeService) Search(ctx context.Context, query string) ([]*types.Recipe, error) {
	return m.recipes(m.Called(ctx, query))
}

func (m *MockRecipeService) ByCategory(ctx context.Context, category string) ([]*types.Recipe, error) {
	return m.recipes(m.Called(ctx, category))
}

func (m *MockRecipeService) Trending(ctx context.Context, n int) ([]*types.Recipe, error) {
	return m.recipes(m.Called(ctx, n))
}
