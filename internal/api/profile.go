package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipehub/backend/internal/service"
	"github.com/pageza/recipehub/backend/internal/types"
)

// ProfileHandler serves the signed-in user's profile
type ProfileHandler struct {
	profileService service.IProfileService
}

func NewProfileHandler(profileService service.IProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	profile := router.Group("/profile", requireAuth)
	{
		profile.GET("", h.GetProfile)
		profile.PUT("", h.UpdateProfile)
		profile.DELETE("", h.DeleteAccount)
	}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	profile, err := h.profileService.GetProfile(c.Request.Context(), claims(c).UserID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req types.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}

	profile, err := h.profileService.UpdateProfile(c.Request.Context(), claims(c).UserID, &req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// DeleteAccount expects {"confirm": true} in the body
func (h *ProfileHandler) DeleteAccount(c *gin.Context) {
	var req types.DeleteAccountRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			invalidBody(c)
			return
		}
	}

	if err := h.profileService.DeleteAccount(c.Request.Context(), claims(c), req.Confirm); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
