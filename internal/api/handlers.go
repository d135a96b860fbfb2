package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/pageza/mealsnap/backend/internal/database"
	"github.com/pageza/mealsnap/backend/internal/draft"
	"github.com/pageza/mealsnap/backend/internal/model"
	"github.com/pageza/mealsnap/backend/internal/service"
)

// Dependencies are the services the HTTP API is built from.
type Dependencies struct {
	Foods  *service.FoodService
	Meals  *service.MealService
	Drafts *service.DraftService
	Images service.ImageStore

	// EstimationLimit guards routes that may call the AI upstream. Nil disables it.
	EstimationLimit gin.HandlerFunc
	// EstimationQuota reports the caller's remaining AI requests. Nil leaves the route out.
	EstimationQuota gin.HandlerFunc
	// AIConfigured is reported by the health check
	AIConfigured bool
	// HealthChecks ping the configured backends, keyed by name
	HealthChecks map[string]func(ctx context.Context) error
}

// HealthCheck reports the service status. Backend checks run concurrently;
// any failure turns the response into a 503.
func HealthCheck(aiConfigured bool, checks map[string]func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		var mu sync.Mutex
		backends := make(map[string]string, len(checks))
		g := errgroup.Group{}
		for name, check := range checks {
			g.Go(func() error {
				status := "ok"
				err := check(ctx)
				if err != nil {
					log.Printf("[API] Health check %s failed: %v", name, err)
					status = "unavailable"
				}
				mu.Lock()
				backends[name] = status
				mu.Unlock()
				return err
			})
		}

		code, status := http.StatusOK, "healthy"
		if err := g.Wait(); err != nil {
			code, status = http.StatusServiceUnavailable, "degraded"
		}

		c.JSON(code, gin.H{
			"status":        status,
			"message":       "MealSnap API is running",
			"version":       "v1.0.0",
			"ai_configured": aiConfigured,
			"backends":      backends,
		})
	}
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, deps Dependencies) {
	limit := deps.EstimationLimit
	if limit == nil {
		limit = func(c *gin.Context) { c.Next() }
	}

	health := HealthCheck(deps.AIConfigured, deps.HealthChecks)
	router.GET("/health", health)

	v1 := router.Group("/api/v1")
	v1.GET("/health", health)
	if deps.EstimationQuota != nil {
		v1.GET("/quota", deps.EstimationQuota)
	}

	NewFoodHandler(deps.Foods).RegisterRoutes(v1, limit)
	NewMealHandler(deps.Meals, deps.Images).RegisterRoutes(v1, limit)
	NewDraftHandler(deps.Drafts).RegisterRoutes(v1)
}

// respondError maps service errors to status codes
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, model.ErrMealNotFound), errors.Is(err, service.ErrDraftNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrEmptyFoodName),
		errors.Is(err, service.ErrEmptyMealText),
		errors.Is(err, service.ErrImageRequired),
		errors.Is(err, service.ErrInvalidMealType),
		errors.Is(err, draft.ErrRowOutOfRange),
		errors.Is(err, draft.ErrUnknownField):
		status = http.StatusBadRequest
	case errors.Is(err, draft.ErrSheetClosed), errors.Is(err, database.ErrUnreadableSnapshot):
		status = http.StatusConflict
	case errors.Is(err, service.ErrAnalysisFailed):
		status = http.StatusUnprocessableEntity
	}

	if status == http.StatusInternalServerError {
		log.Printf("[API] %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// dayParam reads the date query parameter, defaulting to today
func dayParam(c *gin.Context) (time.Time, bool) {
	raw := c.Query("date")
	if raw == "" {
		return time.Now(), true
	}
	day, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be formatted as YYYY-MM-DD"})
		return time.Time{}, false
	}
	return day, true
}
