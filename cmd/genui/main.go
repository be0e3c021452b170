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
		Use:   "genui",
		Short: "Render AI component manifests into live widgets",
		Long: `GenUI renders structured component manifests - produced by an
upstream AI analysis step - into live widget instances.

Unknown component types resolve through a bounded fallback chain,
widget events bridge back to the host, and every render pass
publishes aggregate statistics.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		renderCmd(),
		serveCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("genui %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}
