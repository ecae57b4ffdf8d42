package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipehub/backend/internal/middleware"
	"github.com/pageza/recipehub/backend/internal/service"
	"github.com/pageza/recipehub/backend/internal/types"
)

// Pinger reports whether a backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves GET /health
type HealthHandler struct {
	store Pinger
}

// NewHealthHandler creates a health handler that checks store
func NewHealthHandler(store Pinger) *HealthHandler {
	return &HealthHandler{store: store}
}

// HealthCheck returns the health status of the API
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "store": "unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "store": "ok"})
}

// claims returns the caller's token claims. Routes using it sit behind
// AuthMiddleware, so a miss means the route was wired wrong.
func claims(c *gin.Context) *types.TokenClaims {
	cl, ok := middleware.Claims(c)
	if !ok {
		panic("api: claims requested on a route without auth middleware")
	}
	return cl
}

func fail(c *gin.Context, err error) {
	_ = c.Error(err)
}

func invalidBody(c *gin.Context) {
	fail(c, service.NewValidationError("invalid request body"))
}

// confirmed reads ?confirm=true
func confirmed(c *gin.Context) bool {
	return c.Query("confirm") == "true"
}
