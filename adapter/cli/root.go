// Package cli implements the mastertasker command line interface.
package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/BitBOY21/MasterTasker-calendar-task-manager/pkg/config"
)

var logger *slog.Logger

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "mastertasker",
	Short: "MasterTasker - calendar-aware task manager backend",
	Long: `MasterTasker is a task management backend with urgency scoring,
manual ordering, recurring series and AI-assisted task breakdown.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// SetLogger installs the process logger used by all commands.
func SetLogger(l *slog.Logger) {
	logger = l
}

// Execute runs the CLI.
func Execute() error {
	if logger == nil {
		logger = slog.Default()
	}
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(versionCmd)
}

func loadConfig() (*config.Config, error) {
	return config.Load()
}
