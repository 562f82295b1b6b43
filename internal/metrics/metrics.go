// Package metrics holds the Prometheus collectors shared by the HTTP layer
// and the outbound Google API transport.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "workspace_gateway"

var (
	// HTTPRequests counts inbound requests by route pattern, method and status code.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Inbound HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})

	// HTTPDuration observes inbound request latency by route pattern.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Inbound HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	// GoogleRequests counts outbound Google API calls by service and outcome.
	GoogleRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "google_api_requests_total",
		Help:      "Outbound Google API requests by service and status code.",
	}, []string{"service", "code"})

	// GoogleThrottleWait observes time spent waiting on the outbound rate limiter.
	GoogleThrottleWait = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "google_api_throttle_seconds",
		Help:      "Time spent waiting for the outbound rate limiter.",
		Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
	}, []string{"service"})
)
