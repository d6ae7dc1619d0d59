// README: Entry point; cobra root command with serve, score and bench subcommands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "v1.0.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "valora",
		Short:         "Transport unit valuation service",
		Long:          "Scores candidate transport units against a scheduled pickup, over HTTP or from request files.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newScoreCmd(), newBenchCmd())
	return root
}
