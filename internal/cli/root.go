// Package cli implements the ledgerctl command line tool.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var version = "1.0.0"

// app holds state shared by the subcommands of one invocation.
type app struct {
	log    zerolog.Logger
	errOut io.Writer
}

// NewRootCommand builds the ledgerctl command tree.
func NewRootCommand() *cobra.Command {
	a := &app{log: zerolog.Nop()}

	rootCmd := &cobra.Command{
		Use:   "ledgerctl",
		Short: "ledgerctl - offline tools for the nonprofit fund ledger",
		Long: `ledgerctl builds journal entries from captures, aggregates ledger
exports and generates demo data without a running server.

Output goes to stdout; logs go to stderr.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level, _ := cmd.Flags().GetString("log-level")
			a.errOut = cmd.ErrOrStderr()
			log, err := newLogger(level, a.errOut)
			if err != nil {
				return fmt.Errorf("invalid --log-level %q: %w", level, err)
			}
			a.log = log
			return nil
		},
	}
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (trace, debug, info, warn, error)")

	rootCmd.AddCommand(
		newBuildCommand(a),
		newLedgerCommand(a),
		newDemoCommand(a),
	)
	return rootCmd
}

// Execute runs ledgerctl and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// chartPath returns the --chart flag, falling back to CHART_OF_ACCOUNTS_PATH.
func chartPath(cmd *cobra.Command) string {
	if path, _ := cmd.Flags().GetString("chart"); path != "" {
		return path
	}
	return os.Getenv("CHART_OF_ACCOUNTS_PATH")
}
