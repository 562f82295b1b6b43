package server

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"workspace_gateway/internal/apierr"
	"workspace_gateway/internal/metrics"
)

const requestIDHeader = "X-Request-ID"

// instrument wraps the mux with, from the outside in: a request-scoped
// logger, a request id, the access log plus metrics, and panic recovery.
func (s *Server) instrument(next http.Handler) http.Handler {
	h := s.recoverer(next)
	h = hlog.AccessHandler(observeRequest)(h)
	h = requestID(h)
	return hlog.NewHandler(log.Logger)(h)
}

// requestID reuses a caller-supplied UUID or generates one, echoes it in the
// response and attaches it to the request logger.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		logger := zerolog.Ctx(r.Context())
		logger.UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Str("request_id", id)
		})
		next.ServeHTTP(w, r)
	})
}

// observeRequest runs after the mux has matched, so r.Pattern names the route
func observeRequest(r *http.Request, status, size int, duration time.Duration) {
	route := r.Pattern
	if route == "" {
		route = "unmatched"
	}

	metrics.HTTPRequests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
	metrics.HTTPDuration.WithLabelValues(route, r.Method).Observe(duration.Seconds())

	hlog.FromRequest(r).Info().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Str("route", route).
		Int("status", status).
		Int("size", size).
		Dur("duration", duration).
		Msg("Request handled")
}

func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			hlog.FromRequest(r).Error().
				Interface("panic", rec).
				Bytes("stack", debug.Stack()).
				Msg("Recovered from panic")
			s.writeError(w, r, apierr.Unknown("handle request", fmt.Errorf("panic: %v", rec)))
		}()
		next.ServeHTTP(w, r)
	})
}
