package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status             string `json:"status"`
	UpstreamConfigured bool   `json:"upstream_configured"`
}

// Health handles GET /health. A missing upstream credential does not make
// the process unhealthy, it just means every search will be rejected with
// 503 until configured.
func Health(upstreamConfigured func() bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, HealthResponse{
			Status:             "ok",
			UpstreamConfigured: upstreamConfigured(),
		})
	}
}
