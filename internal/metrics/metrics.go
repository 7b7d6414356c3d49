// Package metrics holds the process-wide Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ExecutionsTotal counts query executions by trigger (url, manual) and
	// outcome (success, error, stale, suppressed).
	ExecutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "explorer_query_executions_total",
			Help: "Total number of query executions",
		},
		[]string{"trigger", "outcome"},
	)
	// ExecutionDuration is the latency of upstream query executions.
	ExecutionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "explorer_query_execution_duration_seconds",
			Help:    "Upstream query latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"trigger"},
	)
	// MergedRows observes the size of merged result sets.
	MergedRows = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "explorer_merged_rows",
			Help:    "Rows produced by the summary merge per execution",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
	)
	// RequestTotal counts HTTP requests by method, route and status.
	RequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "explorer_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)
	// RequestDuration is the latency of HTTP requests.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "explorer_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// Handler returns the Prometheus HTTP handler for /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
