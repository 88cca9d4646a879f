// Package scraper is a best-effort fallback listing source used when the
// shopping-search provider returns nothing for a query. It fetches a
// retailer search page over plain HTTP and extracts listings in the same
// loose shape the provider uses.
package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/hypeprice/price-service/internal/listing"
)

const (
	searchURL = "https://www.endclothing.com/catalogsearch/result/"
	retailer  = "End Clothing"
	userAgent = "Mozilla/5.0 (compatible; HypePrice/1.0)"
)

// Fallback scrapes a retailer search page for listings.
type Fallback struct {
	httpClient *http.Client
	baseURL    string
	logger     zerolog.Logger
}

// New creates a fallback scraper. baseURL overrides the retailer search
// URL when non-empty (tests point it at a local server); the query is
// appended as the q parameter.
func New(logger zerolog.Logger, baseURL string) *Fallback {
	if baseURL == "" {
		baseURL = searchURL
	}
	return &Fallback{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    baseURL,
		logger:     logger.With().Str("component", "fallback_scraper").Logger(),
	}
}

// Scrape fetches and parses the retailer's search results for query.
// Any transport or parse failure yields an empty slice and an error the
// caller is expected to log and swallow.
func (f *Fallback) Scrape(ctx context.Context, query string) ([]listing.Raw, error) {
	target, err := f.searchTarget(query)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build scrape request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("scrape target returned HTTP %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse search page: %w", err)
	}

	var listings []listing.Raw
	doc.Find("[data-test-id=ProductCard], .product-card, li.product-item").Each(func(i int, s *goquery.Selection) {
		item := f.parseCard(s)
		if item != nil {
			listings = append(listings, item)
		}
	})

	f.logger.Info().Str("query", query).Int("listings", len(listings)).Msg("Fallback scrape completed")
	return listings, nil
}

// searchTarget sets the q parameter on the configured base URL, keeping
// any parameters the base already carries.
func (f *Fallback) searchTarget(query string) (string, error) {
	u, err := url.Parse(f.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid scrape base URL %q: %w", f.baseURL, err)
	}
	q := u.Query()
	q.Set("q", query)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// parseCard extracts one listing from a product card. Cards without a
// title are skipped.
func (f *Fallback) parseCard(s *goquery.Selection) listing.Raw {
	title := strings.TrimSpace(s.Find("[data-test-id=ProductCard__Name], .product-name, .product-item-name").First().Text())
	if title == "" {
		return nil
	}

	raw := listing.Raw{
		"title":  title,
		"source": retailer,
	}

	if price := strings.TrimSpace(s.Find("[data-test-id=ProductCard__Price], .product-price, .price").First().Text()); price != "" {
		raw["price"] = price
	}
	if href, ok := s.Find("a").First().Attr("href"); ok && href != "" {
		if strings.HasPrefix(href, "/") {
			href = "https://www.endclothing.com" + href
		}
		raw["link"] = href
	}
	if src, ok := s.Find("img").First().Attr("src"); ok && src != "" {
		raw["thumbnail"] = src
	}

	return raw
}
