package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fetch pipeline metrics
var (
	// PagesFetched counts page requests by source mode and status
	PagesFetched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trends_pages_fetched_total",
			Help: "Listing pages requested by source and status",
		},
		[]string{"source", "status"},
	)

	// PostsNormalized counts posts that survived normalization
	PostsNormalized = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "trends_posts_normalized_total",
			Help: "Posts accepted by the normalizer",
		},
	)

	// FetchDuration tracks full pagination runs in seconds
	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "trends_fetch_duration_seconds",
			Help:    "Duration of a full paginated fetch",
			Buckets: []float64{.1, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"window"},
	)
)

// Cache metrics
var (
	// CacheLookups counts cache reads by backend and result (hit/miss)
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trends_cache_lookups_total",
			Help: "Cache lookups by backend and result",
		},
		[]string{"backend", "result"},
	)

	// CacheWriteFailures counts swallowed cache write errors
	CacheWriteFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trends_cache_write_failures_total",
			Help: "Cache writes that failed and were ignored",
		},
		[]string{"backend"},
	)
)
