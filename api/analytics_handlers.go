package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// GetAnalyticsHandler handles the request to get analytics data
func (api *API) GetAnalyticsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, api.analytics.GetSummary())
}

// HealthCheckHandler provides a simple health check endpoint
func (api *API) HealthCheckHandler(c *gin.Context) {
	_, loaded := api.source.Cached()
	c.JSON(http.StatusOK, gin.H{
		"status":            "healthy",
		"service":           "site-search",
		"collection_loaded": loaded,
		"timestamp":         fmt.Sprintf("%d", time.Now().Unix()),
	})
}
