package router

import (
	"github.com/gin-gonic/gin"

	"github.com/pageza/mealsnap/backend/internal/api"
	"github.com/pageza/mealsnap/backend/internal/middleware"
)

// SetupRouter configures the application middleware and routes
func SetupRouter(corsOrigins []string, deps api.Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS(corsOrigins))

	api.RegisterRoutes(router, deps)
	return router
}
