// Package server wires configuration, storage and services into the HTTP
// server.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pageza/recipehub/backend/config"
	"github.com/pageza/recipehub/backend/internal/api"
	"github.com/pageza/recipehub/backend/internal/database"
	"github.com/pageza/recipehub/backend/internal/docstore"
	"github.com/pageza/recipehub/backend/internal/mealdb"
	"github.com/pageza/recipehub/backend/internal/middleware"
	"github.com/pageza/recipehub/backend/internal/service"
	"github.com/pageza/recipehub/backend/internal/session"
)

// Server represents the HTTP server
type Server struct {
	router      *gin.Engine
	http        *http.Server
	logger      *zap.Logger
	store       docstore.Store
	redis       *redis.Client
	unsubscribe func()
}

// New opens the configured store, builds the services and registers every
// route. Redis and S3 are optional: without Redis tokens are revoked in
// memory and nothing is rate limited, without a bucket the upload route is
// left out.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Server, error) {
	store, err := OpenStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	s := &Server{logger: log, store: store}

	var revoker session.Revoker = session.NewMemoryRevoker()
	var limiters api.Limiters
	if cfg.RedisEnabled() {
		client, err := database.NewRedisClient(cfg, log)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
		s.redis = client
		revoker = session.NewRedisRevoker(client)
		limiters = api.Limiters{
			Auth:        middleware.NewAuthRateLimiter(client, log),
			RecipeWrite: middleware.NewRecipeWriteRateLimiter(client, log),
			Comment:     middleware.NewCommentRateLimiter(client, log),
		}
	} else {
		log.Warn("redis is not configured; revoked tokens are kept in memory and rate limiting is off")
	}

	hub := session.NewHub()
	s.unsubscribe = hub.Subscribe(session.AuditLogger(log))

	source := mealdb.NewClient(cfg.MealDBBaseURL, cfg.MealDBTimeout, log)
	authService := service.NewAuthService(store, hub, revoker, cfg.JWTSecret, cfg.TokenTTL, log)
	recipeService := service.NewRecipeService(store, source, log)

	profileService := service.NewProfileService(store, authService, hub, log)

	svc := api.Services{
		Auth:      authService,
		Profiles:  profileService,
		Recipes:   recipeService,
		Favorites: service.NewFavoriteService(store, recipeService, log),
		MealPlans: service.NewMealPlanService(store, recipeService, log),
		Comments:  service.NewCommentService(store, recipeService, profileService, log),
		Store:     store,
	}

	if cfg.UploadsEnabled() {
		s3cfg, err := config.NewS3Config(ctx, cfg)
		if err != nil {
			s.close()
			return nil, err
		}
		svc.Images = service.NewImageService(s3cfg.Client, s3cfg.BucketName, s3cfg.PublicBaseURL, log)
		log.Info("image uploads enabled", zap.String("bucket", s3cfg.BucketName))
	}

	s.router = newRouter(cfg, log, svc, limiters)
	s.http = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      s.router,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
	}
	return s, nil
}

// OpenStore connects the document store selected by cfg.StoreBackend
func OpenStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (docstore.Store, error) {
	switch cfg.StoreBackend {
	case config.StoreFirestore:
		client, err := database.NewFirestoreClient(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		return docstore.NewFirestoreStore(client), nil
	case config.StoreSQL, "":
		db, err := database.Open(cfg, log)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(db, log); err != nil {
			if sqlDB, dbErr := db.DB(); dbErr == nil {
				_ = sqlDB.Close()
			}
			return nil, err
		}
		return docstore.NewGormStore(db), nil
	default:
		return nil, fmt.Errorf("unsupported store backend %q", cfg.StoreBackend)
	}
}

func newRouter(cfg *config.Config, log *zap.Logger, svc api.Services, limiters api.Limiters) *gin.Engine {
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.Logger(log),
		middleware.Recovery(log),
		middleware.CORS(cfg.AllowedOrigins()),
		middleware.ErrorHandler(log),
	)

	api.SetupAPI(router, svc, limiters)
	return router
}

// Router exposes the handler for tests
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	s.logger.Info("starting server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and releases the store and Redis
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.http.Shutdown(ctx)
	s.close()
	return err
}

func (s *Server) close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
	if err := s.store.Close(); err != nil {
		s.logger.Warn("failed to close store", zap.Error(err))
	}
}
