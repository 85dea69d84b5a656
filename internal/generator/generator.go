// SPDX-License-Identifier: MPL-2.0

// Package generator orchestrates a full generation run: load and merge the
// configuration documents, render every dialect, persist the artifacts with
// backups, and write the summary. Rendering all dialects completes before
// any file is touched so the generated profiles can never diverge.
package generator

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"dotsmith/internal/dialect"
	"dotsmith/internal/document"
	"dotsmith/internal/issue"
	"dotsmith/internal/manifest"
	"dotsmith/internal/render"
	"dotsmith/internal/settings"
	"dotsmith/internal/writer"
)

// Options configures a generation run.
type Options struct {
	Settings *settings.Settings
	// Version is the tool version stamped into artifact headers.
	Version string
	// DryRun renders everything but writes nothing.
	DryRun bool
	Logger *log.Logger
}

// Result describes a completed run.
type Result struct {
	Artifacts  []writer.Artifact
	Report     *manifest.Report
	ReportPath string
	// ReportErr records a failed summary write. The summary is
	// informational, so this never fails the run.
	ReportErr error
}

// Generator runs the document-to-artifact pipeline.
type Generator struct {
	opts   Options
	logger *log.Logger
}

// New creates a Generator. Options.Settings must be non-nil.
func New(opts Options) *Generator {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return &Generator{opts: opts, logger: opts.Logger}
}

// Run executes the pipeline and returns what was produced.
func (g *Generator) Run() (*Result, error) {
	s := g.opts.Settings

	merged, err := g.load(s)
	if err != nil {
		return nil, err
	}

	mode := render.Lenient
	if s.Strict {
		mode = render.Strict
	}

	renderOpts := render.Options{
		Mode:        mode,
		ToolVersion: g.opts.Version,
		ConfigStamp: newestDocumentStamp(merged),
	}

	renderer, err := render.New()
	if err != nil {
		return nil, err
	}

	// Render every dialect up front. A failure here aborts before any
	// write, so existing artifacts stay consistent with each other.
	var (
		artifacts []writer.Artifact
		contexts  []*render.Context
	)
	for _, d := range dialect.All() {
		ctx, err := render.BuildContext(merged, d, renderOpts)
		if err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("render profile").
				WithResource(string(d)).
				WithSuggestion("Fill in the missing dialect-specific command or remove the entry").
				WithSuggestion("Run without strict mode to omit incomplete entries").
				Wrap(err).
				BuildError()
		}
		contexts = append(contexts, ctx)

		text, err := renderer.Execute(ctx)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, writer.Artifact{Dialect: d, Text: text})
	}

	if g.opts.DryRun {
		g.logger.Info("dry run, skipping writes")
		report := manifest.FromRun(contexts, artifacts, g.opts.Version, time.Now())
		return &Result{Artifacts: artifacts, Report: report}, nil
	}

	w := writer.New(s.OutputDir, s.BackupDir, g.logger)
	written, err := w.Write(artifacts)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("write artifacts").
			WithResource(s.OutputDir).
			WithSuggestion("Check that the output directory is writable").
			WithSuggestion("Check free disk space").
			Wrap(err).
			BuildError()
	}

	if err := w.PruneBackups(s.BackupRetention); err != nil {
		g.logger.Warn("failed to prune old backups", "error", err)
	}

	result := &Result{Artifacts: written}
	result.Report = manifest.FromRun(contexts, written, g.opts.Version, time.Now())
	result.ReportPath, result.ReportErr = result.Report.WriteTo(s.OutputDir)
	if result.ReportErr != nil {
		g.logger.Warn("failed to write summary", "error", result.ReportErr)
	}

	return result, nil
}

// Load reads and merges the configured documents, enforcing required
// documents and schemas in strict mode. Exposed for validate-only callers.
func (g *Generator) Load() (*document.Merged, error) {
	return g.load(g.opts.Settings)
}

func (g *Generator) load(s *settings.Settings) (*document.Merged, error) {
	if _, err := os.Stat(s.DocumentsDir); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("load documents").
			WithResource(s.DocumentsDir).
			WithSuggestion("Create the documents directory and add shared.json and aliases.json").
			WithSuggestion("Point documents_dir in settings.cue at your configuration").
			Wrap(err).
			BuildError()
	}

	loader := document.NewLoader(s.DocumentsDir, g.logger)
	merged, err := loader.Load(s.Documents)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("load documents").
			WithResource(s.DocumentsDir).
			WithSuggestion("Check the document for valid JSON syntax").
			WithSuggestion("Ensure each document has a distinct namespace").
			Wrap(err).
			BuildError()
	}

	missing := merged.MissingRequired()
	if len(missing) > 0 {
		if s.Strict {
			return nil, issue.NewErrorContext().
				WithOperation("load documents").
				WithResource(s.DocumentsDir).
				WithSuggestion("Add the missing documents or disable strict mode").
				Wrap(&document.ValidationError{
					Document: missing[0],
					Message:  "required document is missing",
				}).
				BuildError()
		}
		for _, name := range missing {
			g.logger.Warn("required document missing, profile will be incomplete", "document", name)
		}
	}

	if s.Strict {
		if err := document.ValidateAll(merged); err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("validate documents").
				WithResource(s.DocumentsDir).
				WithSuggestion("Fix the reported field to match the document schema").
				Wrap(err).
				BuildError()
		}
	}

	return merged, nil
}

// newestDocumentStamp derives the header timestamp from the inputs so that
// regenerating from unchanged documents produces byte-identical artifacts.
func newestDocumentStamp(m *document.Merged) time.Time {
	var newest time.Time
	for _, name := range m.Names() {
		doc, ok := m.Document(name)
		if !ok {
			continue
		}
		info, err := os.Stat(filepath.Clean(doc.Path))
		if err != nil {
			continue
		}
		if info.ModTime().After(newest) {
			newest = info.ModTime()
		}
	}
	if newest.IsZero() {
		return time.Unix(0, 0)
	}
	return newest
}
