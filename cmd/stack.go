package cmd

import (
	"workspace_gateway/internal/app"
	"workspace_gateway/internal/auth"
	"workspace_gateway/internal/calendar"
	"workspace_gateway/internal/config"
	"workspace_gateway/internal/gateway"
	"workspace_gateway/internal/mail"
	"workspace_gateway/internal/sheets"
)

// stack holds the Google-backed services shared by the commands. Nothing
// touches the network or the key file until a service is first used.
type stack struct {
	provider *auth.Provider
	sheets   *sheets.Client
	gateway  *gateway.Gateway
	calendar *calendar.Service
	mail     *mail.Service
}

func newStack(cfg *app.Config, limits config.ResilienceConfig) *stack {
	provider := auth.NewProvider(cfg.CredentialsFile, cfg.GmailUser, limits)
	sheetsClient := sheets.NewClient(sheets.ProviderFactory(provider))

	return &stack{
		provider: provider,
		sheets:   sheetsClient,
		gateway:  gateway.New(sheetsClient, cfg.SpreadsheetID),
		calendar: calendar.NewService(calendar.ProviderFactory(provider), cfg.CalendarID, cfg.TimeZone),
		mail:     mail.NewService(mail.ProviderFactory(provider), cfg.GmailUser),
	}
}
