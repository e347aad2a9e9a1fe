package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	verbose    bool
	jsonOutput bool
)

// Execute runs the root command
func Execute(ctx context.Context, version, commit, buildDate string) error {
	rootCmd := newRootCommand(version, commit, buildDate)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "envaudit",
		Short: "envaudit - .env configuration reconciliation and validation",
		Long: `envaudit cross-references the documented environment-variable
specification of a multi-service deployment against the .env files
that were actually generated, and reports every discrepancy.

It checks:
  - Every documented variable exists in its owning .env file
  - No documented variable is blank
  - Variables are not defined in the wrong file
  - The same variable does not carry different values in different files
  - Which remediation (create, seed, manual) each discrepancy requires

envaudit is read-only: it never generates values and never edits files.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
	}

	// Persistent flags available to all commands
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")

	// Add subcommands
	rootCmd.AddCommand(newValidateCommand())

	return rootCmd
}
