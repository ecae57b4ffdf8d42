package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipehub/backend/internal/docstore"
	"github.com/pageza/recipehub/backend/internal/types"
)

func strPtr(s string) *string { return &s }

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	claims := env.signUp(t, "cook@example.com")
	ctx := context.Background()

	profile, err := env.profiles.UpdateProfile(ctx, claims.UserID, &types.UpdateProfileRequest{
		DisplayName: strPtr(" Chef "),
	})
	require.NoError(t, err)
	assert.Equal(t, "Chef", profile.DisplayName)

	profile, err = env.profiles.UpdateProfile(ctx, claims.UserID, &types.UpdateProfileRequest{
		PhotoURL: strPtr("https://img.example/me.png"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Chef", profile.DisplayName, "unset fields are kept")
	assert.Equal(t, "https://img.example/me.png", profile.PhotoURL)

	current, ok := env.hub.Current(claims.UserID)
	require.True(t, ok)
	assert.Equal(t, "https://img.example/me.png", current.PhotoURL)
}

func TestUpdateProfileValidation(t *testing.T) {
	env := newTestEnv(t)
	claims := env.signUp(t, "cook@example.com")
	ctx := context.Background()

	_, err := env.profiles.UpdateProfile(ctx, claims.UserID, &types.UpdateProfileRequest{
		DisplayName: strPtr(strings.Repeat("x", 51)),
	})
	assert.True(t, IsCode(err, CodeValidationFailed))

	_, err = env.profiles.UpdateProfile(ctx, claims.UserID, &types.UpdateProfileRequest{
		PhotoURL: strPtr("javascript:alert(1)"),
	})
	assert.True(t, IsCode(err, CodeValidationFailed))

	_, err = env.profiles.UpdateProfile(ctx, "missing", &types.UpdateProfileRequest{})
	assert.True(t, IsCode(err, CodeNotFound))
}

func TestDeleteAccountRequiresConfirmation(t *testing.T) {
	env := newTestEnv(t)
	claims := env.signUp(t, "cook@example.com")

	err := env.profiles.DeleteAccount(context.Background(), claims, false)
	assert.True(t, IsCode(err, CodeConfirmationRequired))

	_, err = env.profiles.GetProfile(context.Background(), claims.UserID)
	assert.NoError(t, err)
}

func TestDeleteAccountCascades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.signUp(t, "owner@example.com")
	other := env.signUp(t, "other@example.com")

	mine := env.createRecipe(t, owner, "Mine")
	theirs := env.createRecipe(t, other, "Theirs")
	_, err := env.favorites.Add(ctx, owner.UserID, theirs.ID)
	require.NoError(t, err)
	_, err = env.mealPlans.SetSlot(ctx, owner.UserID, "2024-05-01", types.Lunch, theirs.ID)
	require.NoError(t, err)

	require.NoError(t, env.profiles.DeleteAccount(ctx, owner, true))

	_, err = env.profiles.GetProfile(ctx, owner.UserID)
	assert.True(t, IsCode(err, CodeNotFound))
	_, err = env.recipes.Resolve(ctx, mine.ID)
	assert.True(t, IsCode(err, CodeNotFound))
	_, err = env.recipes.Resolve(ctx, theirs.ID)
	assert.NoError(t, err, "other users' recipes survive")

	favs, err := env.store.Query(ctx, docstore.Collection(colUsers, owner.UserID, subFavorites), docstore.Query{})
	require.NoError(t, err)
	assert.Empty(t, favs)
	plan, err := env.mealPlans.Plan(ctx, owner.UserID)
	require.NoError(t, err)
	assert.Empty(t, plan)

	_, err = env.auth.ValidateToken(ctx, env.tokens[owner.UserID])
	assert.Error(t, err)
	_, ok := env.hub.Current(owner.UserID)
	assert.False(t, ok)
}
