// Package cli provides the Cobra command structure for fllint.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/fllint/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root fllint command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "fllint",
		Short: "A fast, self-fixing linter for adblock filter lists",
		Long: `fllint is a fast, self-fixing linter for adblock filter lists written in Go.

It understands AdGuard, uBlock Origin and Adblock Plus style rules, parses
cosmetic rule bodies down to individual CSS selectors, and ships a rule
system for both correctness and style checks. fllint can automatically fix
many problems and supports inline configuration comments for per-file and
per-line control.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	// Add subcommands.
	rootCmd.AddCommand(newLintCommand())
	rootCmd.AddCommand(newRulesCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	applyStyledHelp(rootCmd, color, os.Stdout)

	return rootCmd
}
