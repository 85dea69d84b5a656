// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"dotsmith/internal/settings"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage dotsmith settings",
	Long: `Manage dotsmith settings.

Settings are stored in:
  - Linux: ~/.config/dotsmith/settings.cue
  - macOS: ~/Library/Application Support/dotsmith/settings.cue
  - Windows: %APPDATA%\dotsmith\settings.cue`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

func init() {
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return showSettings(cmd)
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the settings file path",
		RunE: func(_ *cobra.Command, _ []string) error {
			return showSettingsPath()
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective settings as CUE",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSettings()
			if err != nil {
				return reportError(cmd, err)
			}
			fmt.Print(settings.GenerateCUE(s))
			return nil
		},
	})
}

func showSettings(cmd *cobra.Command) error {
	s, resolvedPath, err := settings.Load(settingsFile)
	if err != nil {
		return reportError(cmd, err)
	}

	keyStyle := PathStyle
	valueStyle := SuccessStyle

	fmt.Println(TitleStyle.Render("Current Settings"))
	fmt.Println()

	if resolvedPath != "" {
		fmt.Printf("%s: %s\n", keyStyle.Render("Settings file"), resolvedPath)
	} else {
		fmt.Printf("%s: %s\n", keyStyle.Render("Settings file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Println()

	fmt.Printf("%s: %s\n", keyStyle.Render("documents_dir"), valueStyle.Render(s.DocumentsDir))
	fmt.Printf("%s: %s\n", keyStyle.Render("output_dir"), valueStyle.Render(s.OutputDir))
	fmt.Printf("%s: %s\n", keyStyle.Render("backup_dir"), valueStyle.Render(s.BackupDir))
	fmt.Printf("%s: %s\n", keyStyle.Render("strict"), valueStyle.Render(fmt.Sprintf("%v", s.Strict)))
	fmt.Printf("%s: %s\n", keyStyle.Render("backup_retention"), valueStyle.Render(fmt.Sprintf("%d", s.BackupRetention)))

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("documents"))
	for _, name := range s.Documents {
		fmt.Printf("  - %s\n", valueStyle.Render(name))
	}

	return nil
}

func showSettingsPath() error {
	dir, err := settings.Dir()
	if err != nil {
		return err
	}

	fmt.Printf("Settings directory: %s\n", dir)
	fmt.Printf("Settings file: %s\n", filepath.Join(dir, settings.FileName))
	return nil
}
