package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipehub/backend/internal/service"
	"github.com/pageza/recipehub/backend/internal/types"
)

// AuthHandler serves sign-up, sign-in and session endpoints
type AuthHandler struct {
	authService service.IAuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService service.IAuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRoutes registers the auth routes; requireAuth guards the session
// routes and limit the credential routes
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup, requireAuth, limit gin.HandlerFunc) {
	auth := router.Group("/auth")
	{
		auth.POST("/signup", limit, h.SignUp)
		auth.POST("/login", limit, h.Login)
		auth.POST("/logout", requireAuth, h.Logout)
		auth.POST("/refresh", requireAuth, h.Refresh)
	}
}

func (h *AuthHandler) SignUp(c *gin.Context) {
	var req types.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}

	resp, err := h.authService.SignUp(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}

	resp, err := h.authService.SignIn(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.SignOut(c.Request.Context(), claims(c)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "signed out"})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	resp, err := h.authService.Refresh(c.Request.Context(), claims(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
