package main

import (
	"net/http"

	"bookstore-catalog/internal/shared/middleware"
	"bookstore-catalog/internal/shared/response"
	"bookstore-catalog/pkg/container"

	"github.com/gin-gonic/gin"
)

// SetupRouter builds the engine. limiter may be nil (rate limiting off).
func SetupRouter(c *container.Container, limiter *middleware.RateLimiter) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.ClientIP(),
		middleware.Logger(),
		middleware.CORS(c.Config.CORS.AllowedOrigins),
	)
	if limiter != nil {
		router.Use(limiter.Middleware())
	}

	router.NoRoute(func(ctx *gin.Context) {
		response.NotFound(ctx, "route not found")
	})

	api := router.Group("/api")
	{
		api.GET("/health", healthCheckHandler(c))
		c.BookHandler.RegisterRoutes(api.Group("/books"))
	}

	return router
}

// healthCheckHandler - GET /api/health; 503 when the store is unreachable
func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		report, healthy := c.Health(ctx.Request.Context())
		if !healthy {
			response.ErrorWithDetails(ctx, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "catalog store is unreachable", report)
			return
		}
		response.JSON(ctx, http.StatusOK, report)
	}
}
