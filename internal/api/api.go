package api

import (
	"github.com/gin-gonic/gin"

	"github.com/pageza/recipehub/backend/internal/middleware"
	"github.com/pageza/recipehub/backend/internal/service"
)

// Services are the dependencies of the HTTP API. Images may be nil, which
// leaves the upload route out.
type Services struct {
	Auth      service.IAuthService
	Profiles  service.IProfileService
	Recipes   service.IRecipeService
	Favorites service.IFavoriteService
	MealPlans service.IMealPlanService
	Comments  service.ICommentService
	Images    service.IImageService
	Store     Pinger
}

// Limiters guard the write routes; nil limiters let everything through
type Limiters struct {
	Auth        *middleware.RateLimiter
	RecipeWrite *middleware.RateLimiter
	Comment     *middleware.RateLimiter
}

// SetupAPI registers /health and every /api/v1 route on router
func SetupAPI(router *gin.Engine, svc Services, limiters Limiters) {
	health := NewHealthHandler(svc.Store)
	router.GET("/health", health.HealthCheck)

	requireAuth := middleware.AuthMiddleware(svc.Auth)
	v1 := router.Group("/api/v1")
	{
		NewAuthHandler(svc.Auth).RegisterRoutes(v1, requireAuth, limiters.Auth.RateLimitMiddleware())
		NewProfileHandler(svc.Profiles).RegisterRoutes(v1, requireAuth)
		NewRecipeHandler(svc.Recipes).RegisterRoutes(v1, requireAuth, limiters.RecipeWrite.RateLimitMiddleware())
		NewFavoriteHandler(svc.Favorites).RegisterRoutes(v1, requireAuth)
		NewMealPlanHandler(svc.MealPlans).RegisterRoutes(v1, requireAuth)
		NewCommentHandler(svc.Comments).RegisterRoutes(v1, requireAuth, limiters.Comment.RateLimitMiddleware())
		if svc.Images != nil {
			NewUploadHandler(svc.Images).RegisterRoutes(v1, requireAuth)
		}
	}
}
