package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestFavorites(t *testing.T) {
	env := newTestEnv(t)
	user := env.signUp(t, "cook@example.com")
	ctx := context.Background()
	env.source.On("LookupByID", mock.Anything, "52772").Return(meal("52772", "Teriyaki Chicken", "Chicken"), nil)

	fav, err := env.favorites.IsFavorite(ctx, user.UserID, "52772")
	require.NoError(t, err)
	assert.False(t, fav)

	summary, err := env.favorites.Add(ctx, user.UserID, "52772")
	require.NoError(t, err)
	assert.Equal(t, "Teriyaki Chicken", summary.Title)

	_, err = env.favorites.Add(ctx, user.UserID, "52772")
	require.NoError(t, err)

	list, err := env.favorites.List(ctx, user.UserID)
	require.NoError(t, err)
	require.Len(t, list, 1, "adding twice keeps one entry")
	assert.Equal(t, "52772", list[0].ID)
	assert.Equal(t, "Chicken", list[0].Category)

	fav, err = env.favorites.IsFavorite(ctx, user.UserID, "52772")
	require.NoError(t, err)
	assert.True(t, fav)

	require.NoError(t, env.favorites.Remove(ctx, user.UserID, "52772"))
	require.NoError(t, env.favorites.Remove(ctx, user.UserID, "52772"))

	list, err = env.favorites.List(ctx, user.UserID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestFavoritesArePerUser(t *testing.T) {
	env := newTestEnv(t)
	alice := env.signUp(t, "alice@example.com")
	bob := env.signUp(t, "bob@example.com")
	recipe := env.createRecipe(t, alice, "Flan")
	ctx := context.Background()

	_, err := env.favorites.Add(ctx, alice.UserID, recipe.ID)
	require.NoError(t, err)

	list, err := env.favorites.List(ctx, bob.UserID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestAddFavoriteUnknownRecipe(t *testing.T) {
	env := newTestEnv(t)
	user := env.signUp(t, "cook@example.com")

	_, err := env.favorites.Add(context.Background(), user.UserID, "no-such-recipe")
	assert.True(t, IsCode(err, CodeNotFound))
}

func TestFavoriteByLogicalID(t *testing.T) {
	env := newTestEnv(t)
	env.recipes.now = func() time.Time { return time.UnixMilli(1792324619130) }
	user := env.signUp(t, "cook@example.com")
	recipe := env.createRecipe(t, user, "Pavlova")
	ctx := context.Background()

	const logicalID = "1792324619130"
	env.source.On("LookupByID", mock.Anything, logicalID).Return(nil, nil)

	_, err := env.favorites.Add(ctx, user.UserID, logicalID)
	require.NoError(t, err)

	for _, id := range []string{logicalID, recipe.ID} {
		fav, err := env.favorites.IsFavorite(ctx, user.UserID, id)
		require.NoError(t, err)
		assert.True(t, fav, "status by %s", id)
	}

	require.NoError(t, env.favorites.Remove(ctx, user.UserID, logicalID))
	list, err := env.favorites.List(ctx, user.UserID)
	require.NoError(t, err)
	assert.Empty(t, list)
}
