// Package auth obtains authenticated HTTP clients for Google APIs from a
// service-account key. Clients are built once per process and shared.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/sheets/v4"

	"workspace_gateway/internal/apierr"
	"workspace_gateway/internal/config"
)

// Scopes is the fixed permission set requested for every client.
var Scopes = []string{
	sheets.SpreadsheetsScope,
	calendar.CalendarScope,
	calendar.CalendarEventsScope,
	gmail.GmailSendScope,
}

const opObtainClient = "obtain client"

// Provider lazily builds one authenticated client per Google service.
// Gmail clients impersonate the configured sender, which requires
// domain-wide delegation for the service account.
type Provider struct {
	credentialsFile string
	subject         string
	limits          config.ResilienceConfig

	jwtConfig func() (*jwt.Config, error)
	clients   map[config.Service]func() (*http.Client, error)
}

// NewProvider creates a Provider. Nothing is read from disk until the
// first client is requested.
func NewProvider(credentialsFile, subject string, limits config.ResilienceConfig) *Provider {
	p := &Provider{
		credentialsFile: credentialsFile,
		subject:         subject,
		limits:          limits,
	}
	p.jwtConfig = sync.OnceValues(p.loadJWTConfig)
	p.clients = map[config.Service]func() (*http.Client, error){
		config.ServiceSheets:   sync.OnceValues(func() (*http.Client, error) { return p.buildClient(config.ServiceSheets) }),
		config.ServiceCalendar: sync.OnceValues(func() (*http.Client, error) { return p.buildClient(config.ServiceCalendar) }),
		config.ServiceGmail:    sync.OnceValues(func() (*http.Client, error) { return p.buildClient(config.ServiceGmail) }),
	}
	return p
}

// Client returns the shared client for a service. Failures are AuthErrors
// (or a ConfigurationError when Gmail has no sender) and are not retried.
func (p *Provider) Client(service config.Service) (*http.Client, error) {
	get, ok := p.clients[service]
	if !ok {
		return nil, apierr.Unknown(opObtainClient, fmt.Errorf("unsupported service %q", service))
	}
	return get()
}

// Verify performs a token exchange for a service without calling the API
// itself. Used by diagnostics to confirm the key is accepted.
func (p *Provider) Verify(ctx context.Context, service config.Service) error {
	conf, err := p.serviceConfig(service)
	if err != nil {
		return err
	}
	if _, err := conf.TokenSource(ctx).Token(); err != nil {
		return apierr.Auth(opObtainClient, err)
	}
	return nil
}

// ServiceAccountEmail returns the client_email of the key, if it loads.
func (p *Provider) ServiceAccountEmail() (string, error) {
	conf, err := p.jwtConfig()
	if err != nil {
		return "", err
	}
	return conf.Email, nil
}

func (p *Provider) loadJWTConfig() (*jwt.Config, error) {
	data, err := os.ReadFile(p.credentialsFile)
	if err != nil {
		return nil, apierr.Auth(opObtainClient, fmt.Errorf("failed to read credentials file: %w", err))
	}

	conf, err := google.JWTConfigFromJSON(data, Scopes...)
	if err != nil {
		return nil, apierr.Auth(opObtainClient, fmt.Errorf("failed to parse credentials file: %w", err))
	}

	log.Debug().
		Str("credentials_file", p.credentialsFile).
		Str("client_email", conf.Email).
		Msg("Loaded service account key")

	return conf, nil
}

func (p *Provider) serviceConfig(service config.Service) (*jwt.Config, error) {
	base, err := p.jwtConfig()
	if err != nil {
		return nil, err
	}
	if service != config.ServiceGmail {
		return base, nil
	}
	if p.subject == "" {
		return nil, apierr.Configuration(opObtainClient, "GMAIL_USER environment variable is required to send mail")
	}
	delegated := *base
	delegated.Subject = p.subject
	return &delegated, nil
}

func (p *Provider) buildClient(service config.Service) (*http.Client, error) {
	conf, err := p.serviceConfig(service)
	if err != nil {
		return nil, err
	}

	// The client outlives any single request, so it must not capture one.
	client := conf.Client(context.Background())
	client.Transport = newLimitedTransport(client.Transport, service, p.limits.RateLimit(service))

	log.Debug().
		Str("service", string(service)).
		Msg("Created authenticated Google client")

	return client, nil
}
