package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hypeprice/price-service/internal/search"
	"github.com/hypeprice/price-service/internal/upstream"
)

// Searcher runs the price-comparison pipeline for a query.
type Searcher interface {
	Search(ctx context.Context, query string, regions []string) (search.Result, error)
}

// SearchRequest is the body of POST /api/search.
type SearchRequest struct {
	Query   string   `json:"q"`
	Regions []string `json:"regions"`
}

// Search handles POST /api/search.
func Search(svc Searcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SearchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if req.Query == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter `q` is required"})
			return
		}

		result, err := svc.Search(c.Request.Context(), req.Query, req.Regions)
		switch {
		case errors.Is(err, search.ErrEmptyQuery):
			c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter `q` is required"})
		case errors.Is(err, upstream.ErrNotConfigured):
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error": "shopping search provider credential is not configured",
			})
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		default:
			c.JSON(http.StatusOK, result)
		}
	}
}
