// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"usersvc/internal/domain/user"
	"usersvc/internal/infrastructure/http/v1/handlers"
	"usersvc/internal/infrastructure/http/v1/middleware"
	"usersvc/internal/infrastructure/storage/postgres"
	"usersvc/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Pool is the database pool (used by readiness checks). Optional.
	Pool *postgres.Pool

	// Logger for request logging
	Logger *logger.Logger

	// UserService serves the /users routes
	UserService *user.Service
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	// API v1
	base := handlers.NewBaseHandler()
	userHandler := handlers.NewUserHandler(base, cfg.UserService)

	api := router.Group("/api/v1")
	{
		users := api.Group("/users")
		{
			users.GET("", userHandler.List)
			users.POST("", userHandler.Create)
			users.GET("/:userId", userHandler.Get)
			users.PATCH("/:userId", userHandler.Patch)
			users.DELETE("/:userId", userHandler.Delete)
		}
	}

	return router
}
