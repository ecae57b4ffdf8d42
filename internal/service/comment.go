package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pageza/recipehub/backend/internal/docstore"
	"github.com/pageza/recipehub/backend/internal/types"
)

const maxCommentLen = 2000

// CommentService handles recipe reviews
type CommentService struct {
	store    docstore.Store
	resolver Resolver
	profiles ProfileReader
	logger   *zap.Logger
	now      func() time.Time
}

// NewCommentService creates a new CommentService instance
func NewCommentService(store docstore.Store, resolver Resolver, profiles ProfileReader, logger *zap.Logger) *CommentService {
	return &CommentService{store: store, resolver: resolver, profiles: profiles, logger: logger, now: time.Now}
}

// Add posts a review on a recipe. The author's name and photo are copied
// into the comment as they are at posting time.
func (s *CommentService) Add(ctx context.Context, author *types.TokenClaims, recipeID string, req *types.AddCommentRequest) (*types.Comment, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, NewValidationError("rating must be between 1 and 5")
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, NewValidationError("comment text is required")
	}
	if len([]rune(text)) > maxCommentLen {
		return nil, NewValidationError("comment is too long")
	}

	recipe, err := s.resolver.Resolve(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	profile, err := s.profiles.GetProfile(ctx, author.UserID)
	if err != nil {
		return nil, err
	}

	comment := &types.Comment{
		RecipeID:  recipe.ID,
		UserID:    profile.UID,
		UserName:  profile.Name(),
		UserPhoto: profile.PhotoURL,
		Rating:    req.Rating,
		Text:      text,
		CreatedAt: docstore.FormatTime(s.now()),
	}
	id, err := s.store.Add(ctx, colComments, map[string]any{
		"recipeId":  comment.RecipeID,
		"userId":    comment.UserID,
		"userName":  comment.UserName,
		"userPhoto": comment.UserPhoto,
		"rating":    comment.Rating,
		"text":      comment.Text,
		"createdAt": comment.CreatedAt,
	})
	if err != nil {
		return nil, NewBackendError("could not post comment", err)
	}
	comment.ID = id
	return comment, nil
}

// List returns the comments of a recipe, newest first. Any id of the
// recipe works, as for Add.
func (s *CommentService) List(ctx context.Context, recipeID string) ([]*types.Comment, error) {
	key, err := canonicalID(ctx, s.resolver, strings.TrimSpace(recipeID))
	if err != nil {
		return nil, err
	}
	docs, err := s.store.Query(ctx, colComments, docstore.Query{}.Where("recipeId", key))
	if err != nil {
		return nil, NewBackendError("could not load comments", err)
	}

	comments := make([]*types.Comment, 0, len(docs))
	for _, d := range docs {
		comments = append(comments, commentFromDoc(d))
	}
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].CreatedAt > comments[j].CreatedAt
	})
	return comments, nil
}

// Delete removes a comment written by userID
func (s *CommentService) Delete(ctx context.Context, userID, commentID string) error {
	if strings.TrimSpace(commentID) == "" || strings.Contains(commentID, "/") {
		return NewNotFoundError("comment")
	}
	ref := docstore.Doc(colComments, commentID)
	doc, err := s.store.Get(ctx, ref)
	if errors.Is(err, docstore.ErrNotFound) {
		return NewNotFoundError("comment")
	}
	if err != nil {
		return NewBackendError("could not load comment", err)
	}
	if doc.String("userId") != userID {
		return NewForbiddenError("only the author can delete this comment")
	}
	if err := s.store.Delete(ctx, ref); err != nil {
		return NewBackendError("could not delete comment", err)
	}
	return nil
}

func commentFromDoc(d *docstore.Document) *types.Comment {
	return &types.Comment{
		ID:        d.ID(),
		RecipeID:  d.String("recipeId"),
		UserID:    d.String("userId"),
		UserName:  d.String("userName"),
		UserPhoto: d.String("userPhoto"),
		Rating:    d.Int("rating"),
		Text:      d.String("text"),
		CreatedAt: d.String("createdAt"),
	}
}
