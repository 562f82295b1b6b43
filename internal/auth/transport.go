package auth

import (
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"workspace_gateway/internal/config"
	"workspace_gateway/internal/metrics"
)

// limitedTransport throttles outbound calls with a token bucket and counts
// them by status code. It never retries.
type limitedTransport struct {
	base    http.RoundTripper
	limiter *rate.Limiter
	service config.Service
}

func newLimitedTransport(base http.RoundTripper, service config.Service, cfg config.RateLimitConfig) *limitedTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &limitedTransport{
		base:    base,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.BurstSize),
		service: service,
	}
}

func (t *limitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	if err := t.limiter.Wait(req.Context()); err != nil {
		metrics.GoogleRequests.WithLabelValues(string(t.service), "throttled").Inc()
		return nil, err
	}
	metrics.GoogleThrottleWait.WithLabelValues(string(t.service)).Observe(time.Since(start).Seconds())

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		metrics.GoogleRequests.WithLabelValues(string(t.service), "error").Inc()
		return nil, err
	}

	metrics.GoogleRequests.WithLabelValues(string(t.service), strconv.Itoa(resp.StatusCode)).Inc()
	return resp, nil
}
