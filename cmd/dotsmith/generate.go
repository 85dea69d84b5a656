// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"dotsmith/internal/generator"
)

var (
	dryRun bool

	generateCmd = &cobra.Command{
		Use:   "generate",
		Short: "Render the configured documents into both shell profiles",
		Long: `Merge the JSON configuration documents and write the generated
POSIX and PowerShell profiles plus a summary of the run.

Both profiles are rendered before anything is written, so a failure never
leaves the two artifacts out of sync. An existing artifact is moved to a
timestamped backup before being replaced.`,
		RunE: runGenerate,
	}
)

func init() {
	generateCmd.Flags().BoolVar(&dryRun, "dry-run", false, "render without writing any files")
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings()
	if err != nil {
		return reportError(cmd, err)
	}

	gen := generator.New(generator.Options{
		Settings: s,
		Version:  Version,
		DryRun:   dryRun,
		Logger:   newLogger(),
	})

	result, err := gen.Run()
	if err != nil {
		return reportError(cmd, err)
	}

	if dryRun {
		fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render("Rendered (dry run):"))
		for _, a := range result.Artifacts {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s: %d bytes\n", a.Dialect, len(a.Text))
		}
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render("Generated:"))
	for _, a := range result.Artifacts {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s (%d bytes)\n", PathStyle.Render(a.TargetPath), a.Size)
		if a.BackupPath != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "    previous version: %s\n", SubtitleStyle.Render(a.BackupPath))
		}
	}
	if result.ReportPath != "" && result.ReportErr == nil {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", PathStyle.Render(result.ReportPath))
	}
	if verbose && result.Report != nil {
		if rendered, rerr := glamour.Render(result.Report.Markdown(), "dark"); rerr == nil {
			fmt.Fprint(cmd.OutOrStdout(), rendered)
		}
	}
	return nil
}

// reportError prints an actionable error and converts it into a silent
// non-zero exit so cobra does not duplicate the message.
func reportError(cmd *cobra.Command, err error) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	printIssueCard(err)
	fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))
	return &ExitError{Code: 1, Err: err}
}
