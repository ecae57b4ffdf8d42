package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/pageza/recipehub/backend/internal/docstore"
	"github.com/pageza/recipehub/backend/internal/session"
	"github.com/pageza/recipehub/backend/internal/types"
)

const (
	colUsers          = "users"
	minPasswordLen    = 6
	tokenIssuer       = "recipehub"
	fieldPasswordHash = "passwordHash"
)

// AuthService handles accounts and JWT sessions. Account profiles live at
// users/{uid}; every state change is published on the session hub.
type AuthService struct {
	store     docstore.Store
	hub       *session.Hub
	revoker   session.Revoker
	jwtSecret []byte
	tokenTTL  time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

// NewAuthService creates an auth service
func NewAuthService(store docstore.Store, hub *session.Hub, revoker session.Revoker, jwtSecret string, tokenTTL time.Duration, logger *zap.Logger) *AuthService {
	return &AuthService{
		store:     store,
		hub:       hub,
		revoker:   revoker,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		logger:    logger,
		now:       time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateSignUp(req *types.SignUpRequest) error {
	email := normalizeEmail(req.Email)
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return NewValidationError("a valid email address is required")
	}
	if len(req.Password) < minPasswordLen {
		return NewValidationError(fmt.Sprintf("password must be at least %d characters", minPasswordLen))
	}
	if req.Password != req.ConfirmPassword {
		return NewValidationError("passwords do not match")
	}
	return nil
}

// SignUp creates an account and signs it in
func (s *AuthService) SignUp(ctx context.Context, req *types.SignUpRequest) (*types.TokenResponse, error) {
	if err := validateSignUp(req); err != nil {
		return nil, err
	}
	email := normalizeEmail(req.Email)

	_, err := s.findByEmail(ctx, email)
	if err == nil {
		return nil, ErrAccountExists
	}
	if !errors.Is(err, docstore.ErrNotFound) {
		return nil, NewBackendError("could not create account", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, NewBackendError("could not create account", fmt.Errorf("failed to hash password: %w", err))
	}

	profile := types.Profile{
		UID:         uuid.NewString(),
		Email:       email,
		DisplayName: strings.TrimSpace(req.DisplayName),
		CreatedAt:   docstore.FormatTime(s.now()),
	}
	data := profileFields(&profile)
	data[fieldPasswordHash] = string(hash)

	if err := s.store.Set(ctx, docstore.Doc(colUsers, profile.UID), data); err != nil {
		return nil, NewBackendError("could not create account", err)
	}

	resp, err := s.issue(&profile)
	if err != nil {
		return nil, err
	}
	s.hub.Publish(session.Event{Kind: session.SignedUp, Principal: profile})
	return resp, nil
}

// SignIn checks email and password. Unknown email and wrong password give
// the same error.
func (s *AuthService) SignIn(ctx context.Context, req *types.LoginRequest) (*types.TokenResponse, error) {
	doc, err := s.findByEmail(ctx, normalizeEmail(req.Email))
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, NewBackendError("could not sign in", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(doc.String(fieldPasswordHash)), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	profile := profileFromDoc(doc)
	resp, err := s.issue(profile)
	if err != nil {
		return nil, err
	}
	s.hub.Publish(session.Event{Kind: session.SignedIn, Principal: *profile})
	return resp, nil
}

// SignOut revokes the token the claims came from
func (s *AuthService) SignOut(ctx context.Context, claims *types.TokenClaims) error {
	if err := s.revoke(ctx, claims); err != nil {
		return err
	}
	s.hub.Publish(session.Event{Kind: session.SignedOut, Principal: types.Profile{UID: claims.UserID, Email: claims.Email}})
	return nil
}

// Refresh issues a new token for a still-valid one and revokes the old one
func (s *AuthService) Refresh(ctx context.Context, claims *types.TokenClaims) (*types.TokenResponse, error) {
	profile, err := s.profile(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	resp, err := s.issue(profile)
	if err != nil {
		return nil, err
	}
	if err := s.revoke(ctx, claims); err != nil {
		return nil, err
	}
	s.hub.Publish(session.Event{Kind: session.TokenRefreshed, Principal: *profile})
	return resp, nil
}

// ValidateToken parses and verifies a token and rejects revoked ones
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*types.TokenClaims, error) {
	claims := &types.TokenClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(tokenIssuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, NewAuthError("invalid or expired token")
	}
	if claims.UserID == "" || claims.ID == "" {
		return nil, NewAuthError("invalid token claims")
	}

	revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, NewBackendError("could not verify session", err)
	}
	if revoked {
		return nil, NewAuthError("session has ended, please sign in again")
	}
	return claims, nil
}

func (s *AuthService) issue(profile *types.Profile) (*types.TokenResponse, error) {
	now := s.now()
	expiresAt := now.Add(s.tokenTTL)
	claims := &types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   profile.UID,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID: profile.UID,
		Email:  profile.Email,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, NewBackendError("could not sign in", fmt.Errorf("failed to sign token: %w", err))
	}
	return &types.TokenResponse{Token: token, ExpiresAt: expiresAt.Unix(), User: *profile}, nil
}

func (s *AuthService) revoke(ctx context.Context, claims *types.TokenClaims) error {
	until := s.now().Add(s.tokenTTL)
	if claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}
	if err := s.revoker.Revoke(ctx, claims.ID, until); err != nil {
		return NewBackendError("could not sign out", err)
	}
	return nil
}

func (s *AuthService) findByEmail(ctx context.Context, email string) (*docstore.Document, error) {
	docs, err := s.store.Query(ctx, colUsers, docstore.Query{Limit: 1}.Where("email", email))
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, docstore.ErrNotFound
	}
	return docs[0], nil
}

func (s *AuthService) profile(ctx context.Context, userID string) (*types.Profile, error) {
	doc, err := s.store.Get(ctx, docstore.Doc(colUsers, userID))
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, NewNotFoundError("account")
	}
	if err != nil {
		return nil, NewBackendError("could not load account", err)
	}
	return profileFromDoc(doc), nil
}

func profileFields(p *types.Profile) map[string]any {
	return map[string]any{
		"uid":         p.UID,
		"email":       p.Email,
		"displayName": p.DisplayName,
		"photoUrl":    p.PhotoURL,
		"createdAt":   p.CreatedAt,
	}
}

func profileFromDoc(doc *docstore.Document) *types.Profile {
	return &types.Profile{
		UID:         doc.ID(),
		Email:       doc.String("email"),
		DisplayName: doc.String("displayName"),
		PhotoURL:    doc.String("photoUrl"),
		CreatedAt:   doc.String("createdAt"),
	}
}
