package service

import (
	"context"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/pageza/recipehub/backend/internal/docstore"
	"github.com/pageza/recipehub/backend/internal/session"
	"github.com/pageza/recipehub/backend/internal/types"
)

const maxDisplayNameLen = 50

// ProfileService reads and changes account profiles
type ProfileService struct {
	store  docstore.Store
	auth   *AuthService
	hub    *session.Hub
	logger *zap.Logger
}

// NewProfileService creates a new ProfileService instance
func NewProfileService(store docstore.Store, auth *AuthService, hub *session.Hub, logger *zap.Logger) *ProfileService {
	return &ProfileService{store: store, auth: auth, hub: hub, logger: logger}
}

// GetProfile returns the profile of userID
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*types.Profile, error) {
	return s.auth.profile(ctx, userID)
}

// UpdateProfile changes display name and photo. Fields left nil in req are
// not touched.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, req *types.UpdateProfileRequest) (*types.Profile, error) {
	if _, err := s.auth.profile(ctx, userID); err != nil {
		return nil, err
	}

	patch := map[string]any{}
	if req.DisplayName != nil {
		name := strings.TrimSpace(*req.DisplayName)
		if len([]rune(name)) > maxDisplayNameLen {
			return nil, NewValidationError("display name is too long")
		}
		patch["displayName"] = name
	}
	if req.PhotoURL != nil {
		photo := strings.TrimSpace(*req.PhotoURL)
		if photo != "" && !isHTTPURL(photo) {
			return nil, NewValidationError("photo must be an http or https URL")
		}
		patch["photoUrl"] = photo
	}

	if len(patch) > 0 {
		if err := s.store.Merge(ctx, docstore.Doc(colUsers, userID), patch); err != nil {
			return nil, NewBackendError("could not update profile", err)
		}
	}

	profile, err := s.auth.profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.hub.Publish(session.Event{Kind: session.ProfileUpdated, Principal: *profile})
	return profile, nil
}

// DeleteAccount removes the profile together with the user's custom
// recipes, favorites and meal plan in one atomic batch, then ends the
// session. Comments are kept.
func (s *ProfileService) DeleteAccount(ctx context.Context, claims *types.TokenClaims, confirm bool) error {
	if !confirm {
		return NewConfirmationRequiredError("deleting your account")
	}
	userID := claims.UserID
	profile, err := s.auth.profile(ctx, userID)
	if err != nil {
		return err
	}

	refs := []docstore.Ref{docstore.Doc(colUsers, userID)}
	queries := []struct {
		collection string
		query      docstore.Query
	}{
		{colCustomRecipes, docstore.Query{}.Where("userId", userID)},
		{docstore.Collection(colUsers, userID, subFavorites), docstore.Query{}},
		{docstore.Collection(colUsers, userID, subMealPlan), docstore.Query{}},
	}
	for _, q := range queries {
		docs, err := s.store.Query(ctx, q.collection, q.query)
		if err != nil {
			return NewBackendError("could not delete account", err)
		}
		for _, d := range docs {
			refs = append(refs, d.Ref)
		}
	}

	if err := s.store.DeleteAll(ctx, refs); err != nil {
		return NewBackendError("could not delete account", err)
	}
	s.logger.Info("account deleted", zap.String("user_id", userID), zap.Int("documents", len(refs)))

	if err := s.auth.revoke(ctx, claims); err != nil {
		s.logger.Warn("failed to revoke token of deleted account", zap.String("user_id", userID), zap.Error(err))
	}
	s.hub.Publish(session.Event{Kind: session.AccountDeleted, Principal: *profile})
	return nil
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
