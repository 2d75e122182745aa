// Package cli implements the schedsim command line interface.
package cli

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/me/schedsim/internal/logging"
	"github.com/spf13/cobra"
)

var (
	flagDB        string
	flagDebug     bool
	flagLogLevel  string
	flagLogFormat string

	logger *slog.Logger
)

// defaultDBPath returns the default database location, checking the
// SCHEDSIM_DB env var first. Empty means "no database": run results are
// printed but not recorded.
func defaultDBPath() string {
	if p := os.Getenv("SCHEDSIM_DB"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".schedsim", "schedsim.db")
}

// NewRootCmd creates the root cobra command for the schedsim CLI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "schedsim",
		Short: "schedsim - CPU-scheduling policy simulator",
		Long: `schedsim replays workloads of jobs through a scheduling decision engine
under one of six policies (fcfs, rr, sjf, psjf, pri, ppri) and reports
per-job and aggregate timing metrics.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flagDebug {
				flagLogLevel = "debug"
			}
			logger = logging.New(flagLogLevel, flagLogFormat)
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagDB, "db", defaultDBPath(), "Run database path (or SCHEDSIM_DB env; empty disables recording)")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format (text, json)")

	root.AddCommand(
		newRunCmd(),
		newListCmd(),
		newShowCmd(),
		newPoliciesCmd(),
	)

	return root
}
