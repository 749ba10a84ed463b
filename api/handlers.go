package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/gcbaptista/site-search/config"
	"github.com/gcbaptista/site-search/internal/analytics"
	"github.com/gcbaptista/site-search/internal/logger"
	"github.com/gcbaptista/site-search/internal/render"
	"github.com/gcbaptista/site-search/internal/search"
	"github.com/gcbaptista/site-search/services"
)

// API holds dependencies for API handlers: the collection source, the
// searcher and the renderer.
type API struct {
	source    services.CollectionSource
	searcher  *search.Service
	renderer  *render.Renderer
	analytics *analytics.Service
	logger    *zap.Logger
}

// NewAPI creates a new API handler structure.
func NewAPI(source services.CollectionSource, settings config.Settings, log *zap.Logger) *API {
	settings.ApplyDefaults()
	log = logger.OrNop(log)
	return &API{
		source:    source,
		searcher:  search.NewService(settings.MinChars, log),
		renderer:  render.NewRenderer(settings),
		analytics: analytics.NewService(source),
		logger:    log,
	}
}

// SetupRoutes defines all the API routes for the search service.
func SetupRoutes(router *gin.Engine, apiHandler *API) {
	router.Use(RequestIDMiddleware(), CORSMiddleware())

	// Health check route
	router.GET("/health", apiHandler.HealthCheckHandler)

	// Analytics and metrics routes
	router.GET("/analytics", apiHandler.GetAnalyticsHandler)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Search routes
	router.GET("/search", apiHandler.SearchHandler)

	// Collection routes
	router.GET("/documents", apiHandler.GetDocumentsHandler)
	router.POST("/reload", apiHandler.ReloadHandler)
}
