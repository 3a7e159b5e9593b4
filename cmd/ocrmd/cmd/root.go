// Package cmd implements the ocrmd command-line tree: process, batch,
// and serve, sharing one config.Manager and log/slog logger across
// subcommands.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/tsawler/layoutmd/config"
)

var (
	cfgFile    string
	verbose    bool
	cfgManager *config.Manager
	logger     *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "ocrmd",
	Short: "Reconstruct document layout and structure from OCR output into Markdown",
	Long: `ocrmd turns per-page OCR fragments into a single structured Markdown
document: it restores reading order, classifies headers/lists/tables,
merges continuation lines and same-line fragments, validates header
numbering, and renders the result.

Examples:
  ocrmd process page1.png page2.png page3.png -o report.md
  ocrmd batch ./scans --workers 4
  ocrmd serve --addr :8080`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

		mgr, err := config.NewManager(cfgFile)
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}
		cfgManager = mgr
		return nil
	},
}

// Execute runs the root command, exiting the process with a non-zero
// status on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./ocrmd.yaml or $HOME/.ocrmd/ocrmd.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}
