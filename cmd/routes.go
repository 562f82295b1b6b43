package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"workspace_gateway/internal/server"
)

func newRoutesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Print the HTTP endpoints",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			printRoutes(cmd.OutOrStdout())
		},
	}
}

func printRoutes(out io.Writer) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, route := range server.Routes {
		fmt.Fprintf(w, "%s\t%s\t%s\n", route.Method, route.Path, route.Description)
	}
	fmt.Fprintln(w)
	for _, route := range server.OperationalRoutes {
		fmt.Fprintf(w, "%s\t%s\t%s\n", route.Method, route.Path, route.Description)
	}
	_ = w.Flush()
}
