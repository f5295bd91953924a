package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	verbose    bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "stitchops",
		Short: "StitchOps - route apparel orders to manufacturers",
		Long: `StitchOps routes apparel orders to manufacturers based on product
family defaults, per-product overrides, availability, and capacity.

Examples:
  stitchops route 42
  stitchops route 42 --persist
  stitchops route-all --concurrency 8
  stitchops jobs assign <job-id> --manufacturer 3 --reason "rush order" --by ops@acme
  stitchops jobs reroute <job-id>
  stitchops queue
  stitchops history --limit 20
  stitchops stats
  stitchops monitor`,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: search ., ./configs, /etc/stitchops)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose output")

	rootCmd.AddCommand(NewRouteCommand())
	rootCmd.AddCommand(NewRouteAllCommand())
	rootCmd.AddCommand(NewJobsCommand())
	rootCmd.AddCommand(NewQueueCommand())
	rootCmd.AddCommand(NewHistoryCommand())
	rootCmd.AddCommand(NewStatsCommand())
	rootCmd.AddCommand(NewMonitorCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
