package cmd

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"workspace_gateway/internal/app"
	"workspace_gateway/internal/config"
	"workspace_gateway/internal/diagnostics"
)

var errDiagnosticsFailed = errors.New("one or more diagnostic checks failed")

func newDiagnoseCmd() *cobra.Command {
	var only []string

	cmd := &cobra.Command{
		Use:   "diagnose",
		Short: "Check configuration, credentials and Google API access",
		Long: `Check that the environment is complete, the service-account key loads, and
that the spreadsheet, calendar and Gmail sender are reachable with it.

Exits non-zero if any check fails. Checks for unconfigured optional
services are reported as skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig()
			if err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "env: failed: %v\n", err)
				return err
			}
			limits, err := config.LoadResilienceConfig()
			if err != nil {
				return err
			}

			services := newStack(cfg, limits)
			runner := diagnostics.NewRunner(cfg, diagnostics.Dependencies{
				Provider: services.provider,
				Sheets:   services.sheets,
				Calendar: services.calendar,
			})

			report, err := runner.Run(cmd.Context(), only)
			if err != nil {
				return err
			}
			printReport(cmd.OutOrStdout(), report)

			if !report.OK() {
				return errDiagnosticsFailed
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&only, "only", nil, "Run only these checks (env, credentials, sheets, calendar, gmail)")
	return cmd
}

func printReport(out io.Writer, report diagnostics.Report) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CHECK\tSTATUS\tDURATION\tDETAIL")
	for _, result := range report.Results {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", result.Name, result.Status, result.Duration.Round(time.Millisecond), result.Detail)
	}
	_ = w.Flush()
}
