package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hypeprice/price-service/internal/search"
	"github.com/hypeprice/price-service/internal/upstream"
)

type stubSearcher struct {
	result     search.Result
	err        error
	gotQuery   string
	gotRegions []string
	calls      int
}

func (s *stubSearcher) Search(ctx context.Context, query string, regions []string) (search.Result, error) {
	s.calls++
	s.gotQuery = query
	s.gotRegions = regions
	return s.result, s.err
}

func newRouter(svc Searcher, configured bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/search", Search(svc))
	router.GET("/health", Health(func() bool { return configured }))
	return router
}

func TestSearchEndpoint(t *testing.T) {
	svc := &stubSearcher{
		result: search.Result{
			Query: "jacket",
			Results: []search.Item{
				{Title: "Jacket", Retailer: "SSENSE", FinalPriceTWD: 5000, IsLowest: true, Sizes: []string{}},
			},
		},
	}
	router := newRouter(svc, true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/search",
		strings.NewReader(`{"q":"jacket","regions":["US","JP"]}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "jacket", svc.gotQuery)
	assert.Equal(t, []string{"US", "JP"}, svc.gotRegions)

	var resp search.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "jacket", resp.Query)
	require.Len(t, resp.Results, 1)
	assert.True(t, resp.Results[0].IsLowest)
}

func TestSearchEndpointEmptyQuery(t *testing.T) {
	svc := &stubSearcher{}
	router := newRouter(svc, true)

	for _, body := range []string{`{"q":""}`, `{}`} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/search", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, "body %s", body)
	}
	assert.Zero(t, svc.calls, "validation failures must not reach the service")
}

func TestSearchEndpointMalformedBody(t *testing.T) {
	svc := &stubSearcher{}
	router := newRouter(svc, true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/search", strings.NewReader(`{"q":`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, svc.calls)
}

func TestSearchEndpointNotConfigured(t *testing.T) {
	svc := &stubSearcher{err: upstream.ErrNotConfigured}
	router := newRouter(svc, false)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/search", strings.NewReader(`{"q":"jacket"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "credential")
}

func TestSearchEndpointEmptyResultsIs200(t *testing.T) {
	svc := &stubSearcher{result: search.Result{Query: "nothing", Results: nil}}
	router := newRouter(svc, true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/search", strings.NewReader(`{"q":"nothing"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealthEndpoint(t *testing.T) {
	for _, configured := range []bool{true, false} {
		router := newRouter(&stubSearcher{}, configured)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var resp HealthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "ok", resp.Status)
		assert.Equal(t, configured, resp.UpstreamConfigured)
	}
}
