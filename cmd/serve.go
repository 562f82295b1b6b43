package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"workspace_gateway/internal/app"
	"workspace_gateway/internal/config"
	"workspace_gateway/internal/server"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		Long: `Run the HTTP API until SIGINT or SIGTERM.

Startup fails if GOOGLE_SHEET_ID is not set or the credentials file is missing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	cfg, err := app.LoadConfig()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}
	if err := cfg.CheckCredentialsFile(); err != nil {
		log.Error().Err(err).Msg("Credentials file is not usable")
		return err
	}

	limits, err := config.LoadResilienceConfig()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load rate limits")
		return err
	}

	services := newStack(cfg, limits)
	srv := server.New(cfg, limits.Server, server.Dependencies{
		Gateway: services.gateway,
		Events:  services.calendar,
		Mail:    services.mail,
	})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().
		Int("port", cfg.Port).
		Str("spreadsheet_id", cfg.SpreadsheetID).
		Bool("calendar_enabled", cfg.CalendarID != "").
		Bool("gmail_enabled", cfg.GmailUser != "").
		Bool("production", cfg.Production).
		Msg("Starting workspace gateway")

	if err := srv.Run(ctx); err != nil {
		log.Error().Err(err).Msg("Server stopped with error")
		return err
	}
	return nil
}
