package search

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// upstreamRequests counts provider calls by region and outcome.
	upstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "search_upstream_requests_total",
		Help: "Total number of upstream provider calls by region and outcome",
	}, []string{"region", "outcome"}) // outcome: ok, error

	// listingsDropped counts raw listings skipped during candidate
	// building. Skips are expected and never fail a request, but they
	// must stay observable.
	listingsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "search_listings_dropped_total",
		Help: "Total number of raw listings dropped by reason",
	}, []string{"reason"}) // reason: missing_title, missing_price

	// cacheHits and cacheMisses track the query/region result cache.
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "search_cache_hits_total",
		Help: "Total number of upstream result cache hits",
	})
	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "search_cache_misses_total",
		Help: "Total number of upstream result cache misses",
	})

	// fallbackUses counts how often each fallback source produced the
	// final result set.
	fallbackUses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "search_fallback_uses_total",
		Help: "Total number of searches served by a fallback source",
	}, []string{"source"}) // source: scraper, mock

	// resultCount tracks the size of returned result sets.
	resultCount = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "search_results_count",
		Help:    "Number of items returned per search",
		Buckets: []float64{0, 1, 3, 6, 10, 20, 50},
	})

	// searchDuration tracks end-to-end search latency.
	searchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "search_duration_seconds",
		Help:    "End-to-end search latency including upstream fan-out",
		Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 15, 30},
	})
)
