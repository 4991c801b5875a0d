package main

import (
	"fmt"
	"io"
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
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "inertia",
		Short: "Serve and inspect inertia pages",
		Long: `inertia runs the demo user directory and lets you inspect the
page objects it produces.

  • serve: run the demo over HTTP, with optional Prometheus metrics
  • fetch: send one request through the app in process and print it
  • version: print the CLI version or an asset manifest's version`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to inertia.yaml (default: ./inertia.yaml if present)")

	cmd.AddCommand(
		serveCmd(&configPath),
		fetchCmd(&configPath),
		versionCmd(),
	)
	return cmd
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}
