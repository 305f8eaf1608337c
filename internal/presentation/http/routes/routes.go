// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sitepulse/sitepulse-go/internal/application/container"
	"github.com/sitepulse/sitepulse-go/internal/infrastructure/tracking"
	"github.com/sitepulse/sitepulse-go/internal/presentation/http/handlers"
	"github.com/sitepulse/sitepulse-go/internal/presentation/http/middleware"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(container *container.Container) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	// Initialize handlers
	analyzeHandlers := handlers.NewAnalyzeHandlers(container.AnalyzeService, container.Logger, container.PerfTracker)
	redirectHandlers := handlers.NewRedirectHandlers(container.TrackingService, container.Logger, container.PerfTracker)
	analyticsHandlers := handlers.NewAnalyticsHandlers(container.AnalyticsService, container.Logger, container.PerfTracker)
	healthHandlers := handlers.NewHealthHandlers(container.DB)

	r.GET("/health", healthHandlers.GetHealth)

	// Tracked redirect is a special case and stays at top level so emailed
	// links remain short.
	r.GET(tracking.RedirectPath, redirectHandlers.GetRedirect)

	api := r.Group("/api")
	{
		api.POST("/analyze", analyzeHandlers.PostAnalyze)
		api.GET("/leads/metrics", analyticsHandlers.GetLeadMetrics)
		api.GET("/events/metrics", analyticsHandlers.GetEventMetrics)
	}

	return r
}
