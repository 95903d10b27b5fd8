// Package metrics provides Prometheus metrics for the collection
// engine and the reference API server. Scrape these at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Metrics (reference server)
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collection_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "collection_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// CRUD Executor Metrics
	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collection_operations_total",
			Help: "CRUD operations by entity type, operation, and outcome",
		},
		[]string{"entity", "op", "status"}, // status: "ok" or "failed"
	)

	// Synchronization Metrics
	RefreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collection_refresh_total",
			Help: "Collection refresh attempts by outcome",
		},
		[]string{"status"}, // "ok", "failed", "discarded"
	)

	RefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "collection_refresh_duration_seconds",
			Help:    "Time taken for the six-way collection refresh",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	ScopeCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "collection_scope_cache_hits_total",
			Help: "Refresh scopes served from the query-scope cache",
		},
	)

	ScopeCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "collection_scope_cache_misses_total",
			Help: "Refresh scopes that required a remote fetch",
		},
	)

	// Validator Metrics
	ValidatorRejectsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collection_validator_rejects_total",
			Help: "Payloads dropped by the response validator",
		},
		[]string{"entity"},
	)

	// Entity Store Metrics
	StoreItemsTotal = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "collection_store_items_total",
			Help: "Items currently held per collection",
		},
		[]string{"collection"}, // "psa", "raw", "sealed", "sold"
	)

	// Export Metrics
	ExportImagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collection_export_images_total",
			Help: "Images processed by the zip exporter",
		},
		[]string{"status"}, // "ok", "failed"
	)
)
