// Package search fans a product query out across regional markets, runs
// every raw listing through the pricing pipeline, deduplicates overlapping
// listings and marks the cheapest landed option.
package search

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/hypeprice/price-service/internal/cache"
	"github.com/hypeprice/price-service/internal/currency"
	"github.com/hypeprice/price-service/internal/listing"
	"github.com/hypeprice/price-service/internal/mockgen"
	"github.com/hypeprice/price-service/internal/pricing"
	"github.com/hypeprice/price-service/internal/retailer"
	"github.com/hypeprice/price-service/internal/upstream"
)

// ErrEmptyQuery rejects searches with no query text.
var ErrEmptyQuery = errors.New("search: query must not be empty")

// FallbackSource is a secondary best-effort listing source consulted when
// the provider returns nothing for any region.
type FallbackSource interface {
	Scrape(ctx context.Context, query string) ([]listing.Raw, error)
}

// Service orchestrates the search pipeline.
type Service struct {
	provider upstream.Provider
	fallback FallbackSource
	rates    currency.Rates
	parser   *pricing.Parser
	cache    *cache.TTL[[]listing.Raw]
	mock     func(query string) []listing.Raw
	regions  []string
	logger   zerolog.Logger
	tracer   trace.Tracer
}

// Option customizes a Service at construction.
type Option func(*Service)

// WithDefaultRegions overrides the fan-out set used when a search names
// no regions. Empty entries are ignored; an all-empty list keeps the
// package default.
func WithDefaultRegions(regions []string) Option {
	return func(s *Service) {
		cleaned := lo.FilterMap(regions, func(r string, _ int) (string, bool) {
			r = strings.TrimSpace(r)
			return strings.ToUpper(r), r != ""
		})
		if len(cleaned) > 0 {
			s.regions = cleaned
		}
	}
}

// NewService wires the pipeline together. fallback may be nil, in which
// case empty provider results skip straight to the synthetic generator.
func NewService(provider upstream.Provider, fallback FallbackSource, rates currency.Rates, ttl time.Duration, logger zerolog.Logger, opts ...Option) *Service {
	s := &Service{
		provider: provider,
		fallback: fallback,
		rates:    rates,
		parser:   pricing.NewParser(rates),
		cache:    cache.New[[]listing.Raw](ttl),
		mock:     mockgen.Generate,
		regions:  DefaultRegions,
		logger:   logger.With().Str("component", "search").Logger(),
		tracer:   otel.Tracer("search"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StartCacheJanitor begins periodic purging of expired cache entries.
func (s *Service) StartCacheJanitor(ctx context.Context, interval time.Duration) {
	s.cache.StartJanitor(ctx, interval)
}

// Search runs a query against every requested region and returns the
// deduplicated, lowest-marked result set. Upstream failures degrade to
// fewer candidates; only an empty query or a missing credential is an
// error.
func (s *Service) Search(ctx context.Context, query string, regions []string) (Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Result{}, ErrEmptyQuery
	}
	if !s.provider.Configured() {
		return Result{}, upstream.ErrNotConfigured
	}
	if len(regions) == 0 {
		regions = s.regions
	}

	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "search",
		trace.WithAttributes(
			attribute.String("query", query),
			attribute.Int("regions", len(regions)),
		))
	defer span.End()

	// Fan out per region; results stay indexed by region position so
	// candidate order is deterministic regardless of completion order.
	perRegion := make([][]listing.Raw, len(regions))
	g, gctx := errgroup.WithContext(ctx)
	for i, region := range regions {
		i, region := i, region
		g.Go(func() error {
			perRegion[i] = s.fetchRegion(gctx, query, region)
			return nil
		})
	}
	g.Wait()

	var items []Item
	for i, region := range regions {
		for _, raw := range perRegion[i] {
			item, ok := s.buildItem(raw, region)
			if ok {
				items = append(items, item)
			}
		}
	}

	if len(items) == 0 {
		items = s.fallbackItems(ctx, query)
	}

	results := markLowest(dedupe(items))
	resultCount.Observe(float64(len(results)))
	searchDuration.Observe(time.Since(start).Seconds())
	span.SetAttributes(attribute.Int("results", len(results)))

	s.logger.Info().
		Str("query", query).
		Strs("regions", regions).
		Int("results", len(results)).
		Dur("latency", time.Since(start)).
		Msg("Search completed")

	return Result{Query: query, Results: results}, nil
}

// fetchRegion returns the provider listings for one (query, region) pair,
// memoized for the cache TTL. Transport failures are logged and collapse
// to an empty region; they never fail the request.
func (s *Service) fetchRegion(ctx context.Context, query, region string) []listing.Raw {
	ctx, span := s.tracer.Start(ctx, "search.region",
		trace.WithAttributes(attribute.String("region", region)))
	defer span.End()

	key := cache.Key(query, region)
	if cached, ok := s.cache.Get(key); ok {
		cacheHits.Inc()
		return cached
	}
	cacheMisses.Inc()

	listings, err := s.provider.Search(ctx, query, region)
	if err != nil {
		upstreamRequests.WithLabelValues(region, "error").Inc()
		span.RecordError(err)
		s.logger.Warn().Err(err).Str("region", region).Str("query", query).
			Msg("Upstream region failed, degrading to zero listings")
		return nil
	}
	upstreamRequests.WithLabelValues(region, "ok").Inc()

	s.cache.Set(key, listings)
	return listings
}

// buildItem runs one raw listing through the parser, discount detector,
// retailer normalizer and cost calculator. A listing with no usable title
// or price text is dropped; the request carries on without it.
func (s *Service) buildItem(raw listing.Raw, region string) (Item, bool) {
	title := raw.FirstString(listing.TitleFields...)
	if title == "" {
		listingsDropped.WithLabelValues("missing_title").Inc()
		return Item{}, false
	}

	priceText := raw.FirstString(listing.PriceFields...)
	if priceText == "" {
		listingsDropped.WithLabelValues("missing_price").Inc()
		return Item{}, false
	}

	parsed := s.parser.ParseListing(priceText, raw)
	cost := s.rates.LandedCostTWD(parsed.PriceTWD, -1)
	discount := s.parser.DetectDiscount(raw, parsed.PriceTWD)

	displayPrice := priceText
	if parsed.AssumedUSD {
		// User-visible uncertainty disclosure, not a silent default.
		displayPrice += " (Assumed USD)"
	}

	sizes := raw.Strings(listing.SizeFields...)
	if sizes == nil {
		sizes = []string{}
	}
	weight := raw.FirstString(listing.WeightFields...)
	if weight == "" {
		weight = "N/A"
	}

	return Item{
		Title:               title,
		Retailer:            retailer.Normalize(raw.FirstString(listing.MerchantFields...)),
		ImageURL:            raw.FirstString(listing.ImageFields...),
		OriginalPrice:       parsed.Amount,
		OriginalPriceString: displayPrice,
		Currency:            parsed.Code,
		AssumedUSD:          parsed.AssumedUSD,
		DiscountText:        discount.DisplayText,
		DiscountPct:         discount.Percent,
		PriceTWD:            cost.PriceTWD,
		ShippingTWD:         cost.ShippingTWD,
		TaxTWD:              cost.TaxTWD,
		FinalPriceTWD:       cost.FinalTWD,
		URL:                 raw.FirstString(listing.LinkFields...),
		Sizes:               sizes,
		Weight:              weight,
		Region:              region,
	}, true
}

// fallbackItems tries the secondary scraper, then the synthetic mock
// generator, so a reachable query never returns an empty shape.
func (s *Service) fallbackItems(ctx context.Context, query string) []Item {
	if s.fallback != nil {
		scraped, err := s.fallback.Scrape(ctx, query)
		if err != nil {
			s.logger.Warn().Err(err).Str("query", query).Msg("Fallback scraper failed")
		}
		if items := s.buildAll(scraped, "GB"); len(items) > 0 {
			fallbackUses.WithLabelValues("scraper").Inc()
			return items
		}
	}

	items := s.buildAll(s.mock(query), "US")
	if len(items) > 0 {
		fallbackUses.WithLabelValues("mock").Inc()
	}
	return items
}

func (s *Service) buildAll(raws []listing.Raw, region string) []Item {
	return lo.FilterMap(raws, func(raw listing.Raw, _ int) (Item, bool) {
		return s.buildItem(raw, region)
	})
}

// dedupe collapses items sharing an identity key, keeping whichever has
// the lower final landed cost. First-seen order is preserved.
func dedupe(items []Item) []Item {
	var out []Item
	index := make(map[string]int, len(items))

	for _, item := range items {
		key := item.identityKey()
		at, seen := index[key]
		if !seen {
			index[key] = len(out)
			out = append(out, item)
			continue
		}
		if item.FinalPriceTWD < out[at].FinalPriceTWD {
			out[at] = item
		}
	}
	return out
}

// markLowest flags exactly one item, the minimal final landed cost, with
// strict comparison so the first-encountered item wins ties.
func markLowest(items []Item) []Item {
	if len(items) == 0 {
		return items
	}
	lowest := 0
	for i := 1; i < len(items); i++ {
		if items[i].FinalPriceTWD < items[lowest].FinalPriceTWD {
			lowest = i
		}
	}
	for i := range items {
		items[i].IsLowest = i == lowest
	}
	return items
}
