// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"dotsmith/internal/issue"
	"dotsmith/internal/settings"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose output.
	verbose bool
	// settingsFile allows specifying a custom settings file.
	settingsFile string
	// documentsDir overrides the configured documents directory.
	documentsDir string
	// outputDir overrides the configured output directory.
	outputDir string
	// strict enables schema validation and fail-fast rendering.
	strict bool

	// rootCmd represents the base command when called without any subcommands.
	rootCmd = &cobra.Command{
		Use:   "dotsmith",
		Short: "Generate equivalent shell profiles from JSON configuration",
		Long: TitleStyle.Render("dotsmith") + SubtitleStyle.Render(" - Generate equivalent shell profiles from JSON configuration") + `

dotsmith merges a set of JSON configuration documents (shared settings,
aliases, functions, tool integration) and renders them into two startup
scripts with identical behavior: a POSIX profile for bash-compatible
shells and a PowerShell profile.

Existing artifacts are backed up before being overwritten, and a summary
of every run is written alongside the generated files.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Put shared.json and aliases.json in a config/ directory
  2. Run: dotsmith generate
  3. Source generated/posix/profile.sh from your shell rc file

` + SubtitleStyle.Render("Examples:") + `
  dotsmith generate             Render and write both profiles
  dotsmith generate --strict    Fail on schema or dialect gaps
  dotsmith validate             Check documents without writing
  dotsmith config show          Show the effective settings`,
	}
)

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&settingsFile, "settings", "", "settings file (default is $HOME/.config/dotsmith/settings.cue)")
	rootCmd.PersistentFlags().StringVar(&documentsDir, "documents-dir", "", "directory containing the JSON documents")
	rootCmd.PersistentFlags().StringVar(&outputDir, "output-dir", "", "directory to write generated artifacts to")
	rootCmd.PersistentFlags().BoolVar(&strict, "strict", false, "enable schema validation and fail-fast rendering")

	// Add subcommands
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(configCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Use fang.Execute for enhanced Cobra styling
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// loadSettings resolves the effective settings, applying flag overrides on
// top of the settings file and built-in defaults.
func loadSettings() (*settings.Settings, error) {
	s, _, err := settings.Load(settingsFile)
	if err != nil {
		return nil, err
	}

	if documentsDir != "" {
		s.DocumentsDir = documentsDir
	}
	if outputDir != "" {
		s.OutputDir = outputDir
	}
	if strict {
		s.Strict = true
	}
	return s, nil
}

// newLogger builds the CLI logger, honoring the verbose flag.
func newLogger() *log.Logger {
	logger := log.New(os.Stderr)
	if verbose {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.WarnLevel)
	}
	return logger
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
