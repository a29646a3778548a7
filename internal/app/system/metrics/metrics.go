// Package metrics holds the Prometheus collectors for the site.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// APIRequests counts outbound calls to the REST backend.
	APIRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "grampanchayat", Name: "api_requests_total", Help: "Outbound backend requests by method, resource and outcome."},
		[]string{"method", "resource", "outcome"},
	)
	// APIDuration times outbound calls to the REST backend.
	APIDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Namespace: "grampanchayat", Name: "api_request_duration_seconds", Help: "Outbound backend request latency.", Buckets: prometheus.DefBuckets},
		[]string{"method", "resource"},
	)
	// ForcedLogouts counts sessions torn down because the backend answered 401.
	ForcedLogouts = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "grampanchayat", Name: "forced_logouts_total", Help: "Sessions cleared after an unauthorized backend response."},
	)
	// BackendUp is 1 while the background watcher can reach the backend.
	BackendUp = prometheus.NewGauge(
		prometheus.GaugeOpts{Namespace: "grampanchayat", Name: "backend_up", Help: "Whether the last background ping reached the backend."},
	)
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "grampanchayat", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "grampanchayat", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter."},
		[]string{"limiter"},
	)
)

// RegisterCollectors registers every collector with reg.
func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(APIRequests)
	reg.MustRegister(APIDuration)
	reg.MustRegister(ForcedLogouts)
	reg.MustRegister(BackendUp)
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
}

// ResourceLabel reduces a backend path to a bounded label value
// ("/news/65f0.../move" -> "news").
func ResourceLabel(path string) string {
	start := 0
	for start < len(path) && path[start] == '/' {
		start++
	}
	end := start
	for end < len(path) && path[end] != '/' && path[end] != '?' {
		end++
	}
	if end == start {
		return "root"
	}
	return path[start:end]
}
