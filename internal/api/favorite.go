package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipehub/backend/internal/service"
)

type FavoriteHandler struct {
	favoriteService service.IFavoriteService
}

func NewFavoriteHandler(favoriteService service.IFavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favoriteService: favoriteService}
}

func (h *FavoriteHandler) RegisterRoutes(router *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	favorites := router.Group("/favorites", requireAuth)
	{
		favorites.GET("", h.List)
		favorites.GET("/:id", h.Status)
		favorites.PUT("/:id", h.Add)
		favorites.DELETE("/:id", h.Remove)
	}
}

func (h *FavoriteHandler) List(c *gin.Context) {
	favorites, err := h.favoriteService.List(c.Request.Context(), claims(c).UserID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, favorites)
}

func (h *FavoriteHandler) Status(c *gin.Context) {
	fav, err := h.favoriteService.IsFavorite(c.Request.Context(), claims(c).UserID, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorite": fav})
}

func (h *FavoriteHandler) Add(c *gin.Context) {
	summary, err := h.favoriteService.Add(c.Request.Context(), claims(c).UserID, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *FavoriteHandler) Remove(c *gin.Context) {
	if err := h.favoriteService.Remove(c.Request.Context(), claims(c).UserID, c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
