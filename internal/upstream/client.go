// Package upstream talks to the third-party shopping-search provider.
// Responses are loosely structured and treated as untrusted input; one
// failed region degrades to zero listings instead of failing a search.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/hypeprice/price-service/internal/listing"
)

const (
	// DefaultBaseURL is the shopping-search API endpoint.
	DefaultBaseURL = "https://serpapi.com/search.json"

	// DefaultTimeout bounds a single provider call.
	DefaultTimeout = 15 * time.Second

	engine    = "shopping_search"
	userAgent = "HypePrice-PriceService/1.0"
)

// ErrNotConfigured indicates the provider credential was missing at
// startup. Searches must be rejected before any network call is made.
var ErrNotConfigured = errors.New("upstream: api key not configured")

// RequestError describes a failed provider call.
type RequestError struct {
	Region string
	Status int
	Err    error
}

func (e *RequestError) Error() string {
	msg := "upstream request for region " + e.Region + " failed"
	if e.Status != 0 {
		msg += fmt.Sprintf(" (HTTP %d)", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *RequestError) Unwrap() error { return e.Err }

// Provider fetches raw shopping listings for a (query, region) pair.
type Provider interface {
	Search(ctx context.Context, query, region string) ([]listing.Raw, error)
	Configured() bool
}

// Client is the HTTP implementation of Provider, rate limited on the
// client side to stay inside the provider's quota.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	apiKey     string
	logger     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the provider endpoint, used by tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithTimeout overrides the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithRateLimit overrides the client-side requests-per-second cap.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(rps), burst) }
}

// NewClient creates a provider client. An empty apiKey is allowed; the
// client then reports itself unconfigured and rejects every call.
func NewClient(apiKey string, logger zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(2), 4),
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		logger:     logger.With().Str("component", "upstream").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether a provider credential is present.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

type searchResponse struct {
	ShoppingResults []listing.Raw `json:"shopping_results"`
}

// Search fetches shopping listings for a query in one region. Region codes
// are passed through to the provider as-is; unknown codes are the
// provider's problem, not ours.
func (c *Client) Search(ctx context.Context, query, region string) ([]listing.Raw, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &RequestError{Region: region, Err: err}
	}

	params := url.Values{}
	params.Set("engine", engine)
	params.Set("q", query)
	params.Set("region", strings.ToLower(region))
	params.Set("locale", LocaleFor(region))
	params.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, &RequestError{Region: region, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RequestError{Region: region, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return nil, &RequestError{Region: region, Status: resp.StatusCode}
	}

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, &RequestError{Region: region, Status: resp.StatusCode, Err: err}
	}

	c.logger.Debug().
		Str("query", query).
		Str("region", region).
		Int("listings", len(decoded.ShoppingResults)).
		Dur("latency", time.Since(start)).
		Msg("Upstream search completed")

	return decoded.ShoppingResults, nil
}

// LocaleFor maps a region code to the locale the provider expects.
// Unknown regions default to English.
func LocaleFor(region string) string {
	switch strings.ToUpper(region) {
	case "JP":
		return "ja"
	case "TW":
		return "zh-tw"
	default:
		return "en"
	}
}
