package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/mealsnap/backend/internal/model"
	"github.com/pageza/mealsnap/backend/internal/service"
)

// FoodHandler serves food resolution and the custom food table
type FoodHandler struct {
	foods *service.FoodService
}

// NewFoodHandler creates a new FoodHandler instance
func NewFoodHandler(foods *service.FoodService) *FoodHandler {
	return &FoodHandler{foods: foods}
}

func (h *FoodHandler) RegisterRoutes(router *gin.RouterGroup, estimationLimit gin.HandlerFunc) {
	foods := router.Group("/foods")
	{
		foods.POST("/resolve", estimationLimit, h.Resolve)
		foods.GET("/custom", h.ListCustomFoods)
		foods.POST("/custom", h.AddCustomFood)
		foods.DELETE("/custom/:name", h.DeleteCustomFood)
	}
}

// ResolveRequest is the body of a resolve call
type ResolveRequest struct {
	Text string `json:"text" binding:"required"`
}

// CustomFoodRequest creates or replaces a custom food
type CustomFoodRequest struct {
	Name     string  `json:"name" binding:"required"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

func (h *FoodHandler) Resolve(c *gin.Context) {
	var req ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	match, ok := h.foods.Resolve(c.Request.Context(), req.Text)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Food not found"})
		return
	}
	c.JSON(http.StatusOK, match)
}

func (h *FoodHandler) ListCustomFoods(c *gin.Context) {
	entries, err := h.foods.ListCustomFoods(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"foods": entries})
}

func (h *FoodHandler) AddCustomFood(c *gin.Context) {
	var req CustomFoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Calories < 0 || req.Protein < 0 || req.Carbs < 0 || req.Fat < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nutrition values must not be negative"})
		return
	}

	entry, err := h.foods.AddCustomFood(c.Request.Context(), req.Name, model.PerUnit{
		Calories: req.Calories,
		Protein:  req.Protein,
		Carbs:    req.Carbs,
		Fat:      req.Fat,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *FoodHandler) DeleteCustomFood(c *gin.Context) {
	removed, err := h.foods.DeleteCustomFood(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "Custom food not found"})
		return
	}
	c.Status(http.StatusNoContent)
}
