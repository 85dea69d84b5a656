// SPDX-License-Identifier: MPL-2.0

// Package manifest builds the informational summary written alongside the
// generated artifacts. The summary is observational only; a failure to
// produce or persist it never invalidates a completed generation run.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"dotsmith/internal/dialect"
	"dotsmith/internal/render"
	"dotsmith/internal/writer"
)

// FileName is the summary's location relative to the output directory.
const FileName = "SUMMARY.md"

// Report captures what one generation run loaded, decided, and produced.
type Report struct {
	GeneratedAt time.Time
	ToolVersion string

	// Documents lists the loaded configuration namespaces in load order.
	Documents []string

	// Enhanced reports whether tool-integration content was present.
	Enhanced bool

	// Features maps feature switch names to their effective state.
	Features map[string]bool

	// Counts holds per-dialect emission counts, in render order. An entry
	// that resolves for only one dialect shows up in that dialect's counts
	// alone.
	Counts []DialectCounts

	Artifacts []writer.Artifact
}

// DialectCounts records what one dialect's artifact actually contains.
type DialectCounts struct {
	Dialect dialect.Dialect

	// Aliases counts emitted alias definitions, Functions emitted function
	// definitions, ReplacementLines the statements inside tool replacement
	// guards.
	Aliases          int
	Functions        int
	ReplacementLines int
}

// FromRun assembles a Report from the per-dialect render contexts and the
// written artifacts. Documents, features, and the enhanced flag are taken
// from the first context; they do not vary by dialect.
func FromRun(ctxs []*render.Context, artifacts []writer.Artifact, version string, at time.Time) *Report {
	r := &Report{
		GeneratedAt: at,
		ToolVersion: version,
		Artifacts:   artifacts,
	}
	if len(ctxs) == 0 {
		return r
	}

	first := ctxs[0]
	r.Documents = first.Documents
	r.Enhanced = first.Enhanced
	r.Features = first.FeatureStates()

	for _, ctx := range ctxs {
		r.Counts = append(r.Counts, DialectCounts{
			Dialect:          ctx.Dialect,
			Aliases:          ctx.EmittedAliasCount(),
			Functions:        ctx.EmittedFunctionCount(),
			ReplacementLines: ctx.AliasCount() - ctx.EmittedAliasCount(),
		})
	}
	return r
}

// Markdown renders the report as a human-readable document.
func (r *Report) Markdown() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Shell Profile Generation Summary\n\n")
	fmt.Fprintf(&b, "- Generated: %s\n", r.GeneratedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "- Tool version: %s\n", r.ToolVersion)
	if r.Enhanced {
		fmt.Fprintf(&b, "- Mode: enhanced (tool integration present)\n")
	} else {
		fmt.Fprintf(&b, "- Mode: standard\n")
	}
	b.WriteString("\n")

	b.WriteString("## Documents\n\n")
	if len(r.Documents) == 0 {
		b.WriteString("No documents loaded.\n")
	}
	for _, name := range r.Documents {
		fmt.Fprintf(&b, "- %s\n", name)
	}
	b.WriteString("\n")

	if len(r.Features) > 0 {
		b.WriteString("## Features\n\n")
		names := make([]string, 0, len(r.Features))
		for name := range r.Features {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			state := "enabled"
			if !r.Features[name] {
				state = "disabled"
			}
			fmt.Fprintf(&b, "- %s: %s\n", name, state)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Content\n\n")
	for _, c := range r.Counts {
		fmt.Fprintf(&b, "- %s: %d aliases, %d functions, %d tool replacement lines\n",
			c.Dialect, c.Aliases, c.Functions, c.ReplacementLines)
	}
	b.WriteString("\n")

	b.WriteString("## Artifacts\n\n")
	for _, a := range r.Artifacts {
		fmt.Fprintf(&b, "- `%s` (%s, %d bytes)\n", a.TargetPath, a.Dialect, a.Size)
		if a.BackupPath != "" {
			fmt.Fprintf(&b, "  - previous version backed up to `%s`\n", a.BackupPath)
		}
	}

	return b.String()
}

// WriteTo persists the summary under outputDir. Callers treat errors as
// warnings, not failures.
func (r *Report) WriteTo(outputDir string) (string, error) {
	path := filepath.Join(outputDir, FileName)
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return path, err
	}
	if err := os.WriteFile(path, []byte(r.Markdown()), 0o644); err != nil {
		return path, err
	}
	return path, nil
}
