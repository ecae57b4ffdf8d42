package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipehub/backend/internal/types"
)

func TestAddAndListComments(t *testing.T) {
	env := newTestEnv(t)
	user := env.signUp(t, "reviewer@example.com")
	ctx := context.Background()
	env.source.On("LookupByID", mock.Anything, "52772").Return(meal("52772", "Teriyaki Chicken", "Chicken"), nil)

	comment, err := env.comments.Add(ctx, user, "52772", &types.AddCommentRequest{Rating: 4, Text: "Great dish"})
	require.NoError(t, err)
	assert.NotEmpty(t, comment.ID)
	assert.Equal(t, "reviewer", comment.UserName, "falls back to the email prefix")

	comments, err := env.comments.List(ctx, "52772")
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, 4, comments[0].Rating)
	assert.Equal(t, "Great dish", comments[0].Text)
	assert.Equal(t, user.UserID, comments[0].UserID)
}

func TestCommentsNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	env.comments.now = steppingClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	user := env.signUp(t, "cook@example.com")
	recipe := env.createRecipe(t, user, "Soup")
	ctx := context.Background()

	for _, text := range []string{"first", "second", "third"} {
		_, err := env.comments.Add(ctx, user, recipe.ID, &types.AddCommentRequest{Rating: 5, Text: text})
		require.NoError(t, err)
	}

	comments, err := env.comments.List(ctx, recipe.ID)
	require.NoError(t, err)
	require.Len(t, comments, 3)
	assert.Equal(t, "third", comments[0].Text)
	assert.Equal(t, "first", comments[2].Text)
}

func TestAddCommentValidation(t *testing.T) {
	env := newTestEnv(t)
	user := env.signUp(t, "cook@example.com")
	recipe := env.createRecipe(t, user, "Soup")
	ctx := context.Background()

	for _, req := range []types.AddCommentRequest{
		{Rating: 0, Text: "meh"},
		{Rating: 6, Text: "wow"},
		{Rating: 3, Text: "   "},
	} {
		_, err := env.comments.Add(ctx, user, recipe.ID, &req)
		assert.True(t, IsCode(err, CodeValidationFailed), "request %+v", req)
	}

	_, err := env.comments.Add(ctx, user, "no-such-recipe", &types.AddCommentRequest{Rating: 3, Text: "ok"})
	assert.True(t, IsCode(err, CodeNotFound))
}

func TestDeleteComment(t *testing.T) {
	env := newTestEnv(t)
	author := env.signUp(t, "author@example.com")
	other := env.signUp(t, "other@example.com")
	recipe := env.createRecipe(t, author, "Soup")
	ctx := context.Background()

	comment, err := env.comments.Add(ctx, author, recipe.ID, &types.AddCommentRequest{Rating: 2, Text: "too salty"})
	require.NoError(t, err)

	err = env.comments.Delete(ctx, other.UserID, comment.ID)
	assert.True(t, IsCode(err, CodeForbidden))

	require.NoError(t, env.comments.Delete(ctx, author.UserID, comment.ID))

	err = env.comments.Delete(ctx, author.UserID, comment.ID)
	assert.True(t, IsCode(err, CodeNotFound))

	comments, err := env.comments.List(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestCommentsByLogicalID(t *testing.T) {
	env := newTestEnv(t)
	env.recipes.now = func() time.Time { return time.UnixMilli(1792324619130) }
	user := env.signUp(t, "reviewer@example.com")
	recipe := env.createRecipe(t, user, "Pavlova")
	ctx := context.Background()

	const logicalID = "1792324619130"
	env.source.On("LookupByID", mock.Anything, logicalID).Return(nil, nil)

	_, err := env.comments.Add(ctx, user, logicalID, &types.AddCommentRequest{Rating: 4, Text: "Great dish"})
	require.NoError(t, err)

	for _, id := range []string{logicalID, recipe.ID} {
		comments, err := env.comments.List(ctx, id)
		require.NoError(t, err)
		require.Len(t, comments, 1, "listing by %s", id)
		assert.Equal(t, 4, comments[0].Rating)
		assert.Equal(t, recipe.ID, comments[0].RecipeID)
	}
}

func TestListCommentsOfUnknownRecipe(t *testing.T) {
	env := newTestEnv(t)

	comments, err := env.comments.List(context.Background(), "no-such-recipe")
	require.NoError(t, err)
	assert.Empty(t, comments)
}
