package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/mealsnap/backend/internal/testhelpers"
)

func TestRateLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	client := testhelpers.SetupRedis(t)

	limiter := NewEstimationRateLimiter(client, 2)
	fixed := time.Date(2024, 3, 14, 12, 10, 0, 0, time.UTC)
	limiter.now = func() time.Time { return fixed }

	router := gin.New()
	router.POST("/analyze", limiter.RateLimitMiddleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.GET("/quota", limiter.QuotaHandler())

	quota := func(ip string) map[string]any {
		req := httptest.NewRequest(http.MethodGet, "/quota", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		return body
	}

	send := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/analyze", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	w := send("10.0.0.1")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusOK, send("10.0.0.1").Code)
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1").Code)

	// Checking the quota does not consume it
	status := quota("10.0.0.1")
	assert.Equal(t, true, status["enabled"])
	assert.Equal(t, float64(2), status["limit"])
	assert.Equal(t, float64(0), status["remaining"])
	assert.Equal(t, float64(0), quota("10.0.0.1")["remaining"])
	assert.Equal(t, float64(2), quota("10.0.0.3")["remaining"])

	// Other clients have their own window
	assert.Equal(t, http.StatusOK, send("10.0.0.2").Code)

	remaining, reset, err := limiter.GetRemainingRequests(context.Background(), "10.0.0.2")
	require.NoError(t, err)
	assert.Equal(t, 1, remaining)
	assert.Equal(t, time.Date(2024, 3, 14, 13, 0, 0, 0, time.UTC), reset.UTC())

	// The next window starts fresh
	fixed = fixed.Add(time.Hour)
	assert.Equal(t, http.StatusOK, send("10.0.0.1").Code)
}

func TestRateLimiterDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// A zero limit never touches Redis
	limiter := NewEstimationRateLimiter(nil, 0)
	router := gin.New()
	router.POST("/analyze", limiter.RateLimitMiddleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	router.GET("/quota", limiter.QuotaHandler())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/quota", nil))
	assert.JSONEq(t, `{"enabled":false}`, w.Body.String())

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/analyze", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}
