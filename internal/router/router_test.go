package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/pageza/mealsnap/backend/internal/api"
	"github.com/pageza/mealsnap/backend/internal/database"
	"github.com/pageza/mealsnap/backend/internal/service"
)

func testDependencies() api.Dependencies {
	store := database.NewSnapshotFoodStore(database.NewMemorySnapshot())
	resolver := service.NewFoodResolver(store, service.DefaultFoodTable(), nil)
	meals := service.NewMealService(database.NewMemoryMealRepository(), service.NewEstimationService(service.EstimationConfig{}), time.Now)
	return api.Dependencies{
		Foods:  service.NewFoodService(resolver, store),
		Meals:  meals,
		Drafts: service.NewDraftService(meals, resolver, time.Millisecond, nil),
		Images: service.NewMemoryImageStore(),
	}
}

func TestSetupRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := SetupRouter([]string{"http://localhost:5173"}, testDependencies())

	t.Run("should serve health", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("should answer preflight for allowed origins", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/foods/resolve", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		req.Header.Set("Access-Control-Request-Method", "POST")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("should reject other origins", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
		req.Header.Set("Origin", "http://evil.example")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
