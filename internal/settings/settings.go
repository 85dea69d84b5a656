// SPDX-License-Identifier: MPL-2.0

// Package settings loads the runtime configuration for the generator
// itself, as distinct from the JSON documents it renders. Settings live in
// an optional CUE file validated against an embedded schema and merged
// over built-in defaults via viper.
package settings

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"

	"dotsmith/internal/cueerr"
	"dotsmith/internal/document"
	"dotsmith/internal/issue"
)

const (
	// AppName is the application name, used for the settings directory.
	AppName = "dotsmith"
	// FileName is the settings file name.
	FileName = "settings.cue"
)

//go:embed settings_schema.cue
var settingsSchema string

// Settings holds the resolved generator configuration.
type Settings struct {
	// DocumentsDir holds the JSON configuration documents.
	DocumentsDir string `mapstructure:"documents_dir"`
	// OutputDir receives generated artifacts.
	OutputDir string `mapstructure:"output_dir"`
	// BackupDir receives displaced artifact versions.
	BackupDir string `mapstructure:"backup_dir"`
	// Strict enables schema validation and fail-fast rendering.
	Strict bool `mapstructure:"strict"`
	// BackupRetention caps backups kept per artifact; zero keeps all.
	BackupRetention int `mapstructure:"backup_retention"`
	// Documents is the namespace load order.
	Documents []string `mapstructure:"documents"`
}

// Default returns the built-in settings used when no file is present.
func Default() *Settings {
	return &Settings{
		DocumentsDir:    "config",
		OutputDir:       "generated",
		BackupDir:       "backups",
		Strict:          false,
		BackupRetention: 5,
		Documents:       slices.Clone(document.DefaultDocuments),
	}
}

// Dir returns the dotsmith settings directory using platform conventions:
// Windows uses %APPDATA%, macOS uses ~/Library/Application Support, and
// Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
func Dir() (string, error) {
	var dir string

	switch runtime.GOOS {
	case "windows":
		dir = os.Getenv("APPDATA")
		if dir == "" {
			dir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(home, "Library", "Application Support")
	default:
		dir = os.Getenv("XDG_CONFIG_HOME")
		if dir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			dir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(dir, AppName), nil
}

// Load resolves the effective settings. An explicit path, when non-empty,
// is used exclusively and must exist; otherwise the platform settings
// directory and then the current directory are probed, and absence of a
// file is not an error.
func Load(path string) (*Settings, string, error) {
	v := viper.New()

	defaults := Default()
	v.SetDefault("documents_dir", defaults.DocumentsDir)
	v.SetDefault("output_dir", defaults.OutputDir)
	v.SetDefault("backup_dir", defaults.BackupDir)
	v.SetDefault("strict", defaults.Strict)
	v.SetDefault("backup_retention", defaults.BackupRetention)
	v.SetDefault("documents", defaults.Documents)

	resolvedPath := ""

	if path != "" {
		if !fileExists(path) {
			return nil, "", issue.NewErrorContext().
				WithOperation("load settings").
				WithResource(path).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Check that the file exists and is readable").
				Wrap(fmt.Errorf("settings file not found: %s", path)).
				BuildError()
		}
		if err := loadCUEIntoViper(v, path); err != nil {
			return nil, "", settingsLoadError(path, err)
		}
		resolvedPath = path
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, "", err
		}

		cuePath := filepath.Join(dir, FileName)
		switch {
		case fileExists(cuePath):
			if err := loadCUEIntoViper(v, cuePath); err != nil {
				return nil, "", settingsLoadError(cuePath, err)
			}
			resolvedPath = cuePath
		case fileExists(FileName):
			if err := loadCUEIntoViper(v, FileName); err != nil {
				return nil, "", settingsLoadError(FileName, err)
			}
			resolvedPath = FileName
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, "", fmt.Errorf("failed to parse settings: %w", err)
	}

	return &s, resolvedPath, nil
}

func settingsLoadError(path string, err error) error {
	return issue.NewErrorContext().
		WithOperation("load settings").
		WithResource(path).
		WithSuggestion("Check that the file contains valid CUE syntax").
		WithSuggestion("Verify the values match the expected settings schema").
		WithSuggestion("Run 'dotsmith config show' to see the effective settings").
		Wrap(err).
		BuildError()
}

// loadCUEIntoViper parses a CUE settings file, validates it against the
// #Settings schema, and merges its contents into viper. Validation uses
// Concrete(false) because every field is optional.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read settings file: %w", err)
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(settingsSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile settings schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return cueerr.Format(userValue.Err(), path)
	}

	schema := schemaValue.LookupPath(cue.ParsePath("#Settings"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return cueerr.Format(err, path)
	}

	var settingsMap map[string]any
	if err := unified.Decode(&settingsMap); err != nil {
		return cueerr.Format(err, path)
	}

	if err := v.MergeConfigMap(settingsMap); err != nil {
		return fmt.Errorf("failed to merge settings: %w", err)
	}

	return nil
}

// GenerateCUE renders the settings as a CUE document, used by
// 'config show' and when writing a starter settings file.
func GenerateCUE(s *Settings) string {
	out := fmt.Sprintf("documents_dir: %q\n", s.DocumentsDir)
	out += fmt.Sprintf("output_dir: %q\n", s.OutputDir)
	out += fmt.Sprintf("backup_dir: %q\n", s.BackupDir)
	out += fmt.Sprintf("strict: %v\n", s.Strict)
	out += fmt.Sprintf("backup_retention: %d\n", s.BackupRetention)
	out += "documents: [\n"
	for _, name := range s.Documents {
		out += fmt.Sprintf("\t%q,\n", name)
	}
	out += "]\n"
	return out
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}
