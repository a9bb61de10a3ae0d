package api

import (
	"github.com/gin-gonic/gin"
)

// Configures all API routes
func (s *Server) setupRoutes(router *gin.Engine) {
	// Prometheus scrape endpoint stays at the conventional path
	router.GET("/metrics", s.getHandlerMetrics())

	// API version prefix
	v1 := router.Group("/api/v1")

	// Health check endpoint
	v1.GET("/health", s.getHandlerHealth())
	v1.GET("/host", s.getHandlerHost())

	// Scheduler configuration and state
	iosched := v1.Group("/iosched")
	{
		iosched.GET("/tunables", s.getHandlerListTunables())
		iosched.GET("/tunables/:name", s.getHandlerGetTunable())
		iosched.PUT("/tunables/:name", s.getHandlerSetTunable())
		iosched.GET("/stats", s.getHandlerStats())
		iosched.POST("/drain", s.getHandlerDrain())
	}

	// Request submission
	v1.POST("/io", s.getHandlerSubmitIO())
}
