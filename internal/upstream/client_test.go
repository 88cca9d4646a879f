package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("test-key", zerolog.Nop(),
		WithBaseURL(srv.URL),
		WithRateLimit(1000, 1000),
	)
}

func TestSearchDecodesListings(t *testing.T) {
	var gotQuery, gotRegion, gotEngine, gotLocale string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery = q.Get("q")
		gotRegion = q.Get("region")
		gotEngine = q.Get("engine")
		gotLocale = q.Get("locale")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"shopping_results":[
			{"title":"Barbour Bedale","price":"£329.00","source":"End Clothing","link":"https://example.com/1"},
			{"title":"Barbour Ashby","extracted_price":289,"thumbnail":"https://img/2.jpg"}
		]}`))
	})

	listings, err := client.Search(context.Background(), "barbour jacket", "GB")
	require.NoError(t, err)
	require.Len(t, listings, 2)

	assert.Equal(t, "barbour jacket", gotQuery)
	assert.Equal(t, "gb", gotRegion)
	assert.Equal(t, "shopping_search", gotEngine)
	assert.Equal(t, "en", gotLocale)

	assert.Equal(t, "£329.00", listings[0].FirstString("price"))
	assert.Equal(t, "Barbour Ashby", listings[1].FirstString("title"))
	// Numeric JSON values stringify cleanly through the alias lookup.
	assert.Equal(t, "289", listings[1].FirstString("price", "extracted_price"))
}

func TestSearchNotConfigured(t *testing.T) {
	client := NewClient("", zerolog.Nop())
	assert.False(t, client.Configured())

	_, err := client.Search(context.Background(), "jacket", "US")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestSearchNon2xx(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})

	_, err := client.Search(context.Background(), "jacket", "US")
	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, http.StatusTooManyRequests, reqErr.Status)
	assert.Equal(t, "US", reqErr.Region)
}

func TestSearchMalformedJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"shopping_results": [`))
	})

	_, err := client.Search(context.Background(), "jacket", "US")
	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.NotNil(t, reqErr.Err)
}

func TestSearchTimeout(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.Search(ctx, "jacket", "US")
	assert.Error(t, err)
}

func TestLocaleFor(t *testing.T) {
	assert.Equal(t, "ja", LocaleFor("JP"))
	assert.Equal(t, "ja", LocaleFor("jp"))
	assert.Equal(t, "zh-tw", LocaleFor("TW"))
	assert.Equal(t, "en", LocaleFor("US"))
	assert.Equal(t, "en", LocaleFor("GB"))
	assert.Equal(t, "en", LocaleFor("XX"))
}
