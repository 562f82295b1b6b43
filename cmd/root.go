package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"workspace_gateway/internal/app"
)

// rootCmd represents the base command for the workspace gateway
var rootCmd = &cobra.Command{
	Use:   "workspace-gateway",
	Short: "REST API for Google Sheets, Calendar and Gmail",
	Long: `workspace-gateway forwards HTTP requests to Google Sheets, Google Calendar
and Gmail using a single service-account credential.

Configuration is read from the environment and an optional .env file.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		app.SetupEnvironment()
	},
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "workspace-gateway version %s\n" .Version}}`)

	// Serve is the default command
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newDiagnoseCmd())
	rootCmd.AddCommand(newRoutesCmd())
}
