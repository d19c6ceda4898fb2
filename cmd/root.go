// Package cmd implements the CLI commands for FeedPipe using Cobra.
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var flagVerbose bool

// logger is configured in PersistentPreRun once flags are parsed.
var logger = zerolog.Nop()

var rootCmd = &cobra.Command{
	Use:   "feedpipe",
	Short: "FeedPipe: read Substack feeds and export them as documents",
	Long: `FeedPipe turns a Substack name or URL into its canonical feed, renders the
posts as readable cards and exports them as PDF, DOCX, PPTX, TXT, Markdown,
HTML or JSON.

Usage:
  feedpipe serve [flags]
  feedpipe export <feed> [flags]`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging(flagVerbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
}

func setupLogging(verbose bool) {
	zerolog.TimeFieldFormat = time.RFC3339
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).
		With().Timestamp().Logger()
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
