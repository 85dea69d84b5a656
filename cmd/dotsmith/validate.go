// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"mvdan.cc/sh/v3/syntax"

	"dotsmith/internal/dialect"
	"dotsmith/internal/document"
	"dotsmith/internal/generator"
	"dotsmith/internal/render"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration documents without writing anything",
	Long: `Load the JSON documents, validate them against their schemas, render
both profiles in strict mode, and parse the POSIX output for shell syntax
errors. No files are written.`,
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings()
	if err != nil {
		return reportError(cmd, err)
	}
	// Validation is always strict; a lenient validate would hide the
	// problems the command exists to find.
	s.Strict = true

	logger := newLogger()
	gen := generator.New(generator.Options{
		Settings: s,
		Version:  Version,
		Logger:   logger,
	})

	merged, err := gen.Load()
	if err != nil {
		return reportError(cmd, err)
	}

	posixText, err := renderAll(merged)
	if err != nil {
		return reportError(cmd, err)
	}

	// The rendered POSIX profile must itself be parseable shell.
	if _, err := syntax.NewParser().Parse(strings.NewReader(posixText), "profile.sh"); err != nil {
		return reportError(cmd, fmt.Errorf("generated POSIX profile has invalid syntax: %w", err))
	}

	fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render("Configuration is valid."))
	for _, name := range merged.Names() {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", name)
	}
	return nil
}

// renderAll renders every dialect in strict mode, returning the POSIX text
// for the syntax check.
func renderAll(merged *document.Merged) (string, error) {
	renderer, err := render.New()
	if err != nil {
		return "", err
	}

	opts := render.Options{
		Mode:        render.Strict,
		ToolVersion: Version,
	}

	posixText := ""
	for _, d := range dialect.All() {
		text, err := renderer.Render(merged, d, opts)
		if err != nil {
			return "", err
		}
		if d == dialect.Posix {
			posixText = text
		}
	}
	return posixText, nil
}
