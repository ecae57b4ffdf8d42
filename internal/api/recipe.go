package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipehub/backend/internal/service"
	"github.com/pageza/recipehub/backend/internal/types"
)

const defaultLatestLimit = 8

// RecipeHandler serves browsing, search and custom recipe authoring
type RecipeHandler struct {
	recipeService service.IRecipeService
}

func NewRecipeHandler(recipeService service.IRecipeService) *RecipeHandler {
	return &RecipeHandler{recipeService: recipeService}
}

// RegisterRoutes registers recipe routes. Reads are public; writes need
// requireAuth and are counted by limit.
func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup, requireAuth, limit gin.HandlerFunc) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("/trending", h.Trending)
		recipes.GET("/latest", h.Latest)
		recipes.GET("/search", h.Search)
		recipes.GET("/:id", h.GetRecipe)
		recipes.POST("", requireAuth, limit, h.CreateRecipe)
		recipes.PUT("/:id", requireAuth, limit, h.UpdateRecipe)
		recipes.DELETE("/:id", requireAuth, h.DeleteRecipe)
	}
	router.GET("/me/recipes", requireAuth, h.MyRecipes)
}

func intQuery(c *gin.Context, name string, def int) int {
	n, err := strconv.Atoi(c.Query(name))
	if err != nil || n <= 0 {
		return def
	}
	return min(n, 50)
}

func (h *RecipeHandler) Trending(c *gin.Context) {
	recipes, err := h.recipeService.Trending(c.Request.Context(), intQuery(c, "n", 0))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, recipes)
}

func (h *RecipeHandler) Latest(c *gin.Context) {
	recipes, err := h.recipeService.Latest(c.Request.Context(), intQuery(c, "limit", defaultLatestLimit))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, recipes)
}

// Search takes ?q= for free text or ?category= for a category listing
func (h *RecipeHandler) Search(c *gin.Context) {
	var (
		recipes []*types.Recipe
		err     error
	)
	if category := c.Query("category"); category != "" && c.Query("q") == "" {
		recipes, err = h.recipeService.ByCategory(c.Request.Context(), category)
	} else {
		recipes, err = h.recipeService.Search(c.Request.Context(), c.Query("q"))
	}
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, recipes)
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	recipe, err := h.recipeService.Resolve(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req types.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}

	recipe, err := h.recipeService.Create(c.Request.Context(), claims(c), &req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	var req types.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}

	recipe, err := h.recipeService.Update(c.Request.Context(), claims(c).UserID, c.Param("id"), &req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	if err := h.recipeService.Delete(c.Request.Context(), claims(c).UserID, c.Param("id"), confirmed(c)); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) MyRecipes(c *gin.Context) {
	recipes, err := h.recipeService.ListByAuthor(c.Request.Context(), claims(c).UserID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, recipes)
}
