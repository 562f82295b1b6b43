package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Outbound rate limit constants, kept well below Google's published quotas
const (
	SheetsRequestsPerSecond   = 5.0
	SheetsBurstSize           = 10
	CalendarRequestsPerSecond = 5.0
	CalendarBurstSize         = 10
	GmailRequestsPerSecond    = 2.0
	GmailBurstSize            = 5
)

// HTTP server constants. These bound slow clients only; calls to Google
// carry whatever deadline the inbound request context has.
const (
	ServerReadHeaderTimeout = 10 * time.Second
	ServerIdleTimeout       = 60 * time.Second
	ServerShutdownTimeout   = 15 * time.Second
	MaxRequestBodyBytes     = 1 << 20
)

// Service identifies a Google API for rate limiting purposes
type Service string

const (
	ServiceSheets   Service = "sheets"
	ServiceCalendar Service = "calendar"
	ServiceGmail    Service = "gmail"
)

// RateLimitConfig defines the token bucket for one Google service
type RateLimitConfig struct {
	RequestsPerSecond float64
	BurstSize         int
}

// ServerConfig defines inbound HTTP server behavior
type ServerConfig struct {
	ReadHeaderTimeout time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	MaxBodyBytes      int64
}

// ResilienceConfig contains all rate limit and server configurations
type ResilienceConfig struct {
	RateLimits map[Service]RateLimitConfig
	Server     ServerConfig
}

// DefaultResilienceConfig provides sensible defaults
var DefaultResilienceConfig = ResilienceConfig{
	RateLimits: map[Service]RateLimitConfig{
		ServiceSheets:   {RequestsPerSecond: SheetsRequestsPerSecond, BurstSize: SheetsBurstSize},
		ServiceCalendar: {RequestsPerSecond: CalendarRequestsPerSecond, BurstSize: CalendarBurstSize},
		ServiceGmail:    {RequestsPerSecond: GmailRequestsPerSecond, BurstSize: GmailBurstSize},
	},
	Server: ServerConfig{
		ReadHeaderTimeout: ServerReadHeaderTimeout,
		IdleTimeout:       ServerIdleTimeout,
		ShutdownTimeout:   ServerShutdownTimeout,
		MaxBodyBytes:      MaxRequestBodyBytes,
	},
}

// RateLimit returns the limit for a service, falling back to the sheets default
func (c ResilienceConfig) RateLimit(service Service) RateLimitConfig {
	if cfg, ok := c.RateLimits[service]; ok {
		return cfg
	}
	return RateLimitConfig{RequestsPerSecond: SheetsRequestsPerSecond, BurstSize: SheetsBurstSize}
}

// LoadResilienceConfig applies GOOGLE_API_RPS and GOOGLE_API_BURST overrides
// to every service on top of the defaults.
func LoadResilienceConfig() (ResilienceConfig, error) {
	cfg := ResilienceConfig{
		RateLimits: make(map[Service]RateLimitConfig, len(DefaultResilienceConfig.RateLimits)),
		Server:     DefaultResilienceConfig.Server,
	}
	for service, limit := range DefaultResilienceConfig.RateLimits {
		cfg.RateLimits[service] = limit
	}

	if raw := os.Getenv("GOOGLE_API_RPS"); raw != "" {
		rps, err := strconv.ParseFloat(raw, 64)
		if err != nil || rps <= 0 {
			return cfg, fmt.Errorf("GOOGLE_API_RPS %q must be a positive number", raw)
		}
		for service, limit := range cfg.RateLimits {
			limit.RequestsPerSecond = rps
			cfg.RateLimits[service] = limit
		}
	}

	if raw := os.Getenv("GOOGLE_API_BURST"); raw != "" {
		burst, err := strconv.Atoi(raw)
		if err != nil || burst <= 0 {
			return cfg, fmt.Errorf("GOOGLE_API_BURST %q must be a positive integer", raw)
		}
		for service, limit := range cfg.RateLimits {
			limit.BurstSize = burst
			cfg.RateLimits[service] = limit
		}
	}

	return cfg, nil
}
