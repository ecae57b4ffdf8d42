package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipehub/backend/internal/service"
	"github.com/pageza/recipehub/backend/internal/types"
)

type MealPlanHandler struct {
	mealPlanService service.IMealPlanService
}

func NewMealPlanHandler(mealPlanService service.IMealPlanService) *MealPlanHandler {
	return &MealPlanHandler{mealPlanService: mealPlanService}
}

func (h *MealPlanHandler) RegisterRoutes(router *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	plan := router.Group("/meal-plan", requireAuth)
	{
		plan.GET("", h.GetPlan)
		plan.PUT("/:date/:slot", h.SetSlot)
		plan.DELETE("/:date/:slot", h.ClearSlot)
	}
}

func (h *MealPlanHandler) GetPlan(c *gin.Context) {
	plan, err := h.mealPlanService.Plan(c.Request.Context(), claims(c).UserID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *MealPlanHandler) SetSlot(c *gin.Context) {
	var req types.SetMealSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}

	ref, err := h.mealPlanService.SetSlot(c.Request.Context(), claims(c).UserID,
		c.Param("date"), types.MealSlot(c.Param("slot")), req.RecipeID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ref)
}

func (h *MealPlanHandler) ClearSlot(c *gin.Context) {
	err := h.mealPlanService.ClearSlot(c.Request.Context(), claims(c).UserID,
		c.Param("date"), types.MealSlot(c.Param("slot")), confirmed(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
