// Package server exposes the gateway, calendar and mail services over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	gcal "google.golang.org/api/calendar/v3"

	"workspace_gateway/internal/app"
	"workspace_gateway/internal/config"
)

// SheetGateway is the spreadsheet surface the router depends on
type SheetGateway interface {
	ListSheets(ctx context.Context) ([]app.SheetInfo, error)
	GetHeaders(ctx context.Context, sheetName string) ([]string, error)
	SetHeadersIfMissing(ctx context.Context, sheetName string, headers []string) (*app.HeaderResult, error)
	AppendRecord(ctx context.Context, sheetName string, record app.Record) (*app.AppendResult, error)
	GetRows(ctx context.Context, sheetName string) ([][]string, error)
	UpdateRow(ctx context.Context, sheetName string, rowIndex int, values []string) error
	DeleteRow(ctx context.Context, sheetName string, rowIndex int) error
	FindByField(ctx context.Context, sheetName, field, value string) ([]app.FindResult, error)
}

// EventCreator creates calendar events
type EventCreator interface {
	CreateEvent(ctx context.Context, req app.EventRequest) (*gcal.Event, error)
}

// MailSender sends email
type MailSender interface {
	Send(ctx context.Context, req app.EmailRequest) (*app.SendResult, error)
}

// Dependencies are the services the router forwards to
type Dependencies struct {
	Gateway SheetGateway
	Events  EventCreator
	Mail    MailSender
}

// Server routes HTTP requests to the services
type Server struct {
	gateway SheetGateway
	events  EventCreator
	mail    MailSender

	health     *HealthChecker
	limits     config.ServerConfig
	port       int
	production bool
	handler    http.Handler
}

// New creates a Server and builds its routing table
func New(cfg *app.Config, limits config.ServerConfig, deps Dependencies) *Server {
	s := &Server{
		gateway:    deps.Gateway,
		events:     deps.Events,
		mail:       deps.Mail,
		health:     NewHealthChecker(),
		limits:     limits,
		port:       cfg.Port,
		production: cfg.Production,
	}
	s.handler = s.instrument(s.routes())
	return s
}

func (s *Server) routes() *http.ServeMux {
	handlers := map[string]http.HandlerFunc{
		"GET /sheets":                           s.handleListSheets,
		"GET /headers/{sheetName}":              s.handleGetHeaders,
		"POST /headers/{sheetName}":             s.handleSetHeaders,
		"POST /send/{sheetName}":                s.handleAppendRecord,
		"GET /data/{sheetName}":                 s.handleGetRows,
		"PUT /update/{sheetName}/{rowIndex}":    s.handleUpdateRow,
		"DELETE /delete/{sheetName}/{rowIndex}": s.handleDeleteRow,
		"GET /find/{sheetName}":                 s.handleFind,
		"POST /calendar/events":                 s.handleCreateEvent,
		"POST /gmail/send":                      s.handleSendEmail,
	}

	mux := http.NewServeMux()
	for _, route := range Routes {
		handler, ok := handlers[route.Pattern()]
		if !ok {
			panic(fmt.Sprintf("no handler for route %q", route.Pattern()))
		}
		mux.HandleFunc(route.Pattern(), handler)
	}

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.Handle("GET /healthz", s.health.LivenessHandler())
	mux.Handle("GET /readyz", s.health.ReadinessHandler())
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("/", s.handleNotFound)
	return mux
}

// Handler returns the fully instrumented HTTP handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Health returns the probe state
func (s *Server) Health() *HealthChecker {
	return s.health
}

// Run listens on the configured port and serves until ctx is cancelled
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then drains
// in-flight requests within the shutdown timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: s.limits.ReadHeaderTimeout,
		IdleTimeout:       s.limits.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	log.Info().
		Str("addr", ln.Addr().String()).
		Msg("HTTP server listening")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	s.health.MarkShuttingDown()
	log.Info().
		Dur("timeout", s.limits.ShutdownTimeout).
		Msg("Shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.limits.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}

	log.Info().Msg("HTTP server stopped")
	return nil
}
