package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"workspace_gateway/internal/apierr"
)

var configKeys = []string{
	"GOOGLE_SHEET_ID", "SPREADSHEET_ID", "GOOGLE_CALENDAR_ID", "GMAIL_USER",
	"GOOGLE_CREDENTIALS_FILE", "CALENDAR_TIMEZONE", "PORT", "ENV",
}

func TestLoadConfig(t *testing.T) {
	// Save original environment
	original := make(map[string]string)
	for _, key := range configKeys {
		original[key] = os.Getenv(key)
	}

	// Cleanup function
	defer func() {
		for key, value := range original {
			setOrUnset(key, value)
		}
	}()

	reset := func() {
		for _, key := range configKeys {
			os.Unsetenv(key)
		}
	}

	t.Run("ValidConfiguration", func(t *testing.T) {
		reset()
		os.Setenv("GOOGLE_SHEET_ID", "test_spreadsheet_id")
		os.Setenv("GOOGLE_CALENDAR_ID", "team@group.calendar.google.com")
		os.Setenv("GMAIL_USER", "sender@example.com")
		os.Setenv("GOOGLE_CREDENTIALS_FILE", "test_credentials.json")
		os.Setenv("PORT", "8080")
		os.Setenv("ENV", "production")

		config, err := LoadConfig()

		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		if config.SpreadsheetID != "test_spreadsheet_id" {
			t.Errorf("Expected SpreadsheetID to be 'test_spreadsheet_id', got '%s'", config.SpreadsheetID)
		}

		if config.CalendarID != "team@group.calendar.google.com" {
			t.Errorf("Unexpected CalendarID '%s'", config.CalendarID)
		}

		if config.GmailUser != "sender@example.com" {
			t.Errorf("Unexpected GmailUser '%s'", config.GmailUser)
		}

		if config.CredentialsFile != "test_credentials.json" {
			t.Errorf("Expected CredentialsFile to be 'test_credentials.json', got '%s'", config.CredentialsFile)
		}

		if config.Port != 8080 {
			t.Errorf("Expected Port 8080, got %d", config.Port)
		}

		if !config.Production {
			t.Error("Expected production mode")
		}
	})

	t.Run("Defaults", func(t *testing.T) {
		reset()
		os.Setenv("GOOGLE_SHEET_ID", "test_spreadsheet_id")

		config, err := LoadConfig()

		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		if config.CredentialsFile != DefaultCredentialsFile {
			t.Errorf("Expected CredentialsFile to default to '%s', got '%s'", DefaultCredentialsFile, config.CredentialsFile)
		}
		if config.Port != DefaultPort {
			t.Errorf("Expected Port to default to %d, got %d", DefaultPort, config.Port)
		}
		if config.TimeZone != DefaultTimeZone {
			t.Errorf("Expected TimeZone to default to '%s', got '%s'", DefaultTimeZone, config.TimeZone)
		}
		if config.Production {
			t.Error("Expected development mode by default")
		}
	})

	t.Run("SpreadsheetIDAlias", func(t *testing.T) {
		reset()
		os.Setenv("SPREADSHEET_ID", "alias_id")

		config, err := LoadConfig()

		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if config.SpreadsheetID != "alias_id" {
			t.Errorf("Expected alias to be honoured, got '%s'", config.SpreadsheetID)
		}
	})

	t.Run("MissingSpreadsheetID", func(t *testing.T) {
		reset()

		_, err := LoadConfig()

		if err == nil {
			t.Fatal("Expected error for missing GOOGLE_SHEET_ID, got nil")
		}

		if !strings.Contains(err.Error(), "GOOGLE_SHEET_ID") {
			t.Errorf("Expected error message to contain 'GOOGLE_SHEET_ID', got '%s'", err.Error())
		}

		if apierr.KindOf(err) != apierr.KindConfiguration {
			t.Errorf("Expected configuration error, got %s", apierr.KindOf(err))
		}
	})

	t.Run("InvalidPort", func(t *testing.T) {
		reset()
		os.Setenv("GOOGLE_SHEET_ID", "test_spreadsheet_id")
		os.Setenv("PORT", "not-a-port")

		if _, err := LoadConfig(); err == nil {
			t.Fatal("Expected error for invalid PORT")
		}
	})

	t.Run("InvalidTimeZone", func(t *testing.T) {
		reset()
		os.Setenv("GOOGLE_SHEET_ID", "test_spreadsheet_id")
		os.Setenv("CALENDAR_TIMEZONE", "Mars/Olympus_Mons")

		if _, err := LoadConfig(); err == nil {
			t.Fatal("Expected error for invalid CALENDAR_TIMEZONE")
		}
	})
}

func TestCheckCredentialsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "credentials.json")
	if err := os.WriteFile(path, []byte("{}"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Run("Exists", func(t *testing.T) {
		config := &Config{CredentialsFile: path}
		if err := config.CheckCredentialsFile(); err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
	})

	t.Run("Missing", func(t *testing.T) {
		config := &Config{CredentialsFile: filepath.Join(dir, "missing.json")}
		if err := config.CheckCredentialsFile(); !apierr.Is(err, apierr.KindConfiguration) {
			t.Errorf("Expected configuration error, got %v", err)
		}
	})

	t.Run("Directory", func(t *testing.T) {
		config := &Config{CredentialsFile: dir}
		if err := config.CheckCredentialsFile(); err == nil {
			t.Error("Expected error for directory path")
		}
	})
}

func TestSetupEnvironment(t *testing.T) {
	// Save original environment
	originalENV := os.Getenv("ENV")
	originalLOGLEVEL := os.Getenv("LOGLEVEL")
	originalLevel := zerolog.GlobalLevel()

	// Cleanup function
	defer func() {
		setOrUnset("ENV", originalENV)
		setOrUnset("LOGLEVEL", originalLOGLEVEL)
		zerolog.SetGlobalLevel(originalLevel)
	}()

	testCases := []struct {
		name          string
		env           string
		logLevel      string
		expectedLevel zerolog.Level
	}{
		{"ProductionDebug", "production", "debug", zerolog.DebugLevel},
		{"ProductionWarning", "production", "warning", zerolog.WarnLevel},
		{"ProductionError", "production", "error", zerolog.ErrorLevel},
		{"ProductionDisabled", "production", "disabled", zerolog.Disabled},
		{"ProductionDefault", "production", "", zerolog.WarnLevel},
		{"ProductionUnknown", "production", "unknown", zerolog.InfoLevel},
		{"DevelopmentDebug", "development", "debug", zerolog.DebugLevel},
		{"DevelopmentDefault", "development", "", zerolog.InfoLevel},
		{"DevelopmentUnknown", "", "unknown", zerolog.InfoLevel},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			setOrUnset("ENV", tc.env)
			setOrUnset("LOGLEVEL", tc.logLevel)

			SetupEnvironment()

			if zerolog.GlobalLevel() != tc.expectedLevel {
				t.Errorf("Expected log level %v, got %v", tc.expectedLevel, zerolog.GlobalLevel())
			}
		})
	}
}

// Helper function to set environment variable or unset if value is empty
func setOrUnset(key, value string) {
	if value == "" {
		os.Unsetenv(key)
	} else {
		os.Setenv(key, value)
	}
}
