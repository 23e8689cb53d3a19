// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Payments API client
	PaymentsRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "banksync_payments_requests_total",
			Help: "Requests sent to the payments API by endpoint and outcome",
		},
		[]string{"endpoint", "outcome"}, // outcome: 2xx, 4xx, 5xx, transport
	)

	PaymentsRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "banksync_payments_request_duration_seconds",
			Help:    "Latency of payments API requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	PaymentsRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "banksync_payments_retries_total",
			Help: "Retried payments API requests",
		},
		[]string{"endpoint"},
	)

	TokenRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "banksync_token_refreshes_total",
			Help: "Bearer token acquisitions by result",
		},
		[]string{"result"}, // success, failure
	)

	TokenCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "banksync_token_cache_hits_total",
			Help: "Token requests served from the cache",
		},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "banksync_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// Sync engine
	SyncRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "banksync_sync_runs_total",
			Help: "Finished sync runs by final status",
		},
		[]string{"status"},
	)

	SyncRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "banksync_sync_records_total",
			Help: "Processed remote records by outcome",
		},
		[]string{"outcome"}, // created, duplicate, error
	)

	SyncRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "banksync_sync_run_duration_seconds",
			Help:    "Wall-clock duration of sync runs",
			Buckets: []float64{1, 5, 15, 30, 60, 300, 900, 1800, 3600},
		},
	)

	SyncInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "banksync_sync_in_progress",
			Help: "1 while a sync run is executing on this process",
		},
	)

	SyncQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "banksync_sync_queue_depth",
			Help: "Sync jobs waiting for the worker",
		},
	)

	// Control API
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "banksync_http_requests_total",
			Help: "Control API requests by route and status",
		},
		[]string{"route", "status"},
	)
)

// OutcomeForStatus buckets an HTTP status code into a label value.
func OutcomeForStatus(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	case code >= 200:
		return "2xx"
	default:
		return "transport"
	}
}
