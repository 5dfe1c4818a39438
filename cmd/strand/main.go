package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "strand",
		Short: "Reactive update pipeline for UI component trees",
		Long: `Strand is a reactive update pipeline for UI component trees.

It combines a signal-based reactive graph, batched state tracking, a
priority update scheduler and a lifecycle-managed component tree. The CLI
drives synthetic workloads against the pipeline and serves the development
inspector.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		benchCmd(),
		inspectCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
