package api

import (
	"context"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pageza/mealsnap/backend/internal/model"
	"github.com/pageza/mealsnap/backend/internal/service"
)

// MaxImageSize bounds uploaded meal photos
const MaxImageSize = 10 << 20

// MealHandler serves meal analysis, the meal journal and daily summaries
type MealHandler struct {
	meals  *service.MealService
	images service.ImageStore
}

// NewMealHandler creates a new MealHandler instance
func NewMealHandler(meals *service.MealService, images service.ImageStore) *MealHandler {
	return &MealHandler{meals: meals, images: images}
}

func (h *MealHandler) RegisterRoutes(router *gin.RouterGroup, estimationLimit gin.HandlerFunc) {
	meals := router.Group("/meals")
	{
		meals.POST("/analyze", estimationLimit, h.AnalyzeText)
		meals.POST("/analyze-image", estimationLimit, h.AnalyzeImage)
		meals.POST("/log", estimationLimit, h.LogFromText)
		meals.POST("", h.CreateMeal)
		meals.GET("", h.ListMeals)
		meals.GET("/:id", h.GetMeal)
		meals.GET("/:id/photo", h.GetPhoto)
		meals.POST("/:id/entries", h.AddEntries)
	}
	router.GET("/summary", h.DailySummary)
	router.GET("/summary/week", h.WeeklySummary)
}

// AnalyzeRequest is the body of a text analysis call
type AnalyzeRequest struct {
	Text string `json:"text"`
}

// LogMealRequest analyzes text and saves the result as a meal
type LogMealRequest struct {
	Type string `json:"type" binding:"required"`
	Text string `json:"text"`
}

// CreateMealRequest saves already analyzed items
type CreateMealRequest struct {
	Type     string           `json:"type" binding:"required"`
	Items    []model.FoodItem `json:"items"`
	ImageRef string           `json:"image_ref"`
}

// AddEntriesRequest merges manual rows into a meal
type AddEntriesRequest struct {
	Entries []model.ManualEntry `json:"entries"`
}

// ImageAnalysisResponse is returned by an image analysis preview
type ImageAnalysisResponse struct {
	ImageRef string                   `json:"image_ref"`
	Estimate *model.NutritionEstimate `json:"estimate"`
}

func (h *MealHandler) AnalyzeText(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	estimate, err := h.meals.AnalyzeText(c.Request.Context(), req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, estimate)
}

// AnalyzeImage stores the uploaded photo and analyzes it. When a meal type
// form field is present the result is logged as a meal.
func (h *MealHandler) AnalyzeImage(c *gin.Context) {
	header, err := c.FormFile("image")
	if err != nil {
		respondError(c, service.ErrImageRequired)
		return
	}
	if header.Size > MaxImageSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image is too large"})
		return
	}
	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file must be an image"})
		return
	}

	var mealType model.MealType
	if raw := c.PostForm("type"); raw != "" {
		if mealType, err = model.ParseMealType(raw); err != nil {
			respondError(c, service.ErrInvalidMealType)
			return
		}
	}

	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read image"})
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, MaxImageSize))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read image"})
		return
	}

	ctx := c.Request.Context()
	imageRef, err := h.images.Put(ctx, data, contentType)
	if err != nil {
		respondError(c, err)
		return
	}

	if mealType != "" {
		meal, err := h.meals.LogMealFromImage(ctx, mealType, imageRef)
		if err != nil {
			h.discardImage(ctx, imageRef)
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, meal)
		return
	}

	estimate, err := h.meals.AnalyzeImage(ctx, imageRef)
	if err != nil {
		h.discardImage(ctx, imageRef)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ImageAnalysisResponse{ImageRef: imageRef, Estimate: estimate})
}

func (h *MealHandler) LogFromText(c *gin.Context) {
	var req LogMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	mealType, err := model.ParseMealType(req.Type)
	if err != nil {
		respondError(c, service.ErrInvalidMealType)
		return
	}

	meal, err := h.meals.LogMealFromText(c.Request.Context(), mealType, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, meal)
}

func (h *MealHandler) CreateMeal(c *gin.Context) {
	var req CreateMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	mealType, err := model.ParseMealType(req.Type)
	if err != nil {
		respondError(c, service.ErrInvalidMealType)
		return
	}

	meal, err := h.meals.SaveMeal(c.Request.Context(), mealType, req.Items, req.ImageRef)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, meal)
}

func (h *MealHandler) ListMeals(c *gin.Context) {
	day, ok := dayParam(c)
	if !ok {
		return
	}

	meals, err := h.meals.ListMeals(c.Request.Context(), day)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"date":  model.DayKey(day),
		"meals": meals,
	})
}

func (h *MealHandler) GetMeal(c *gin.Context) {
	meal, err := h.meals.GetMeal(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meal)
}

func (h *MealHandler) AddEntries(c *gin.Context) {
	var req AddEntriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	meal, err := h.meals.AddManualEntries(c.Request.Context(), c.Param("id"), req.Entries)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meal)
}

func (h *MealHandler) DailySummary(c *gin.Context) {
	day, ok := dayParam(c)
	if !ok {
		return
	}

	summary, err := h.meals.DailySummary(c.Request.Context(), day)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// discardImage removes a photo whose analysis failed.
func (h *MealHandler) discardImage(ctx context.Context, ref string) {
	if err := h.images.Delete(ctx, ref); err != nil {
		log.Printf("[API] Failed to discard photo %s: %v", ref, err)
	}
}

// WeeklySummary returns the calorie series for the week containing ?date=
func (h *MealHandler) WeeklySummary(c *gin.Context) {
	day, ok := dayParam(c)
	if !ok {
		return
	}

	week, err := h.meals.WeeklySummary(c.Request.Context(), day)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": week})
}

// GetPhoto redirects to a presigned link for the meal photo, or serves the
// bytes when the store keeps them locally.
func (h *MealHandler) GetPhoto(c *gin.Context) {
	meal, err := h.meals.GetMeal(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if meal.ImageRef == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "meal has no photo"})
		return
	}

	switch store := h.images.(type) {
	case service.ImageLinker:
		url, err := store.Link(c.Request.Context(), meal.ImageRef)
		if err != nil {
			respondError(c, err)
			return
		}
		c.Redirect(http.StatusTemporaryRedirect, url)
	case service.ImageReader:
		data, contentType, ok := store.Read(meal.ImageRef)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "photo not found"})
			return
		}
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		c.Data(http.StatusOK, contentType, data)
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "photo not available"})
	}
}
