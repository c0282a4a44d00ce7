// Package observability provides Prometheus metrics and HTTP middleware
// for monitoring the acadia API.
package observability

import "github.com/prometheus/client_golang/prometheus"

// apiBuckets covers the expected latency range of a CRUD request backed
// by Postgres plus one bcrypt verification, from 1ms to 5s.
var apiBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}

var (
	// RequestsTotal counts all HTTP requests by method, status class, and
	// resource kind.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "acadia_requests_total",
			Help: "Total requests",
		},
		[]string{"method", "status", "kind"},
	)

	// RequestDuration records HTTP request duration in seconds by method
	// and resource kind.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "acadia_request_duration_seconds",
			Help:    "Request duration",
			Buckets: apiBuckets,
		},
		[]string{"method", "kind"},
	)

	// AuthFailuresTotal counts rejected credential pairs. Absent and
	// invalid credentials are deliberately not distinguished.
	AuthFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "acadia_auth_failures_total",
			Help: "Authentication failures",
		},
	)

	// ValidationFailuresTotal counts requests rejected with a violation
	// list, by resource kind.
	ValidationFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "acadia_validation_failures_total",
			Help: "Validation failures",
		},
		[]string{"kind"},
	)

	// RateLimitRejectedTotal counts requests rejected by the rate limiter.
	RateLimitRejectedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "acadia_ratelimit_rejected_total",
			Help: "Rate limit rejections",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		AuthFailuresTotal,
		ValidationFailuresTotal,
		RateLimitRejectedTotal,
	)
}
