package app

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"workspace_gateway/internal/apierr"
)

const (
	DefaultPort            = 3000
	DefaultCredentialsFile = "credentials.json"
	DefaultTimeZone        = "America/Los_Angeles"
)

// Config holds application configuration
type Config struct {
	SpreadsheetID   string
	CalendarID      string
	GmailUser       string
	CredentialsFile string
	TimeZone        string
	Port            int
	Production      bool
}

// SetupEnvironment loads .env file and configures zerolog output and log level.
func SetupEnvironment() {
	// Load .env file if it exists
	err := godotenv.Load()

	// Configure logging
	if os.Getenv("ENV") == "production" {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = log.Output(os.Stderr)
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	levelStr := strings.ToLower(os.Getenv("LOGLEVEL"))
	switch levelStr {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn", "warning":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "fatal":
		zerolog.SetGlobalLevel(zerolog.FatalLevel)
	case "panic":
		zerolog.SetGlobalLevel(zerolog.PanicLevel)
	case "disabled":
		zerolog.SetGlobalLevel(zerolog.Disabled)
	case "":
		if os.Getenv("ENV") == "production" {
			zerolog.SetGlobalLevel(zerolog.WarnLevel)
		} else {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
		}
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		log.Warn().Msgf("Unknown LOGLEVEL '%s', defaulting to info.", levelStr)
	}

	// wait until now to report on the .env file so we have the chance to set up logging first
	if err == nil {
		log.Debug().Msg("Loaded environment variables from .env file.")
	} else {
		log.Debug().Msg("No .env file found or error loading .env file; proceeding with existing environment variables.")
	}
}

// LoadConfig loads configuration from environment variables.
// Only the spreadsheet identifier is required; calendar and mail routes
// report a configuration error per request when their identifiers are unset.
func LoadConfig() (*Config, error) {
	spreadsheetID := firstEnv("GOOGLE_SHEET_ID", "SPREADSHEET_ID")
	if spreadsheetID == "" {
		return nil, apierr.Configuration("load config", "GOOGLE_SHEET_ID environment variable is required")
	}

	credentialsFile := os.Getenv("GOOGLE_CREDENTIALS_FILE")
	if credentialsFile == "" {
		credentialsFile = DefaultCredentialsFile
	}

	timeZone := os.Getenv("CALENDAR_TIMEZONE")
	if timeZone == "" {
		timeZone = DefaultTimeZone
	}
	if _, err := time.LoadLocation(timeZone); err != nil {
		return nil, apierr.Configuration("load config", "CALENDAR_TIMEZONE %q is not a valid time zone", timeZone)
	}

	port := DefaultPort
	if raw := os.Getenv("PORT"); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil || p <= 0 || p > 65535 {
			return nil, apierr.Configuration("load config", "PORT %q is not a valid port", raw)
		}
		port = p
	}

	return &Config{
		SpreadsheetID:   spreadsheetID,
		CalendarID:      os.Getenv("GOOGLE_CALENDAR_ID"),
		GmailUser:       os.Getenv("GMAIL_USER"),
		CredentialsFile: credentialsFile,
		TimeZone:        timeZone,
		Port:            port,
		Production:      os.Getenv("ENV") == "production",
	}, nil
}

// CheckCredentialsFile verifies that the service-account key exists.
func (c *Config) CheckCredentialsFile() error {
	info, err := os.Stat(c.CredentialsFile)
	if err != nil {
		return apierr.Configuration("load config", "credentials file %s not found", c.CredentialsFile)
	}
	if info.IsDir() {
		return apierr.Configuration("load config", "credentials file %s is a directory", c.CredentialsFile)
	}
	return nil
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}
