// SPDX-License-Identifier: MPL-2.0

package render

import (
	"embed"
	"fmt"
	"strings"
	"text/template"

	"dotsmith/internal/dialect"
	"dotsmith/internal/document"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// templateNames maps each dialect to its embedded template file.
var templateNames = map[dialect.Dialect]string{
	dialect.Posix:      "posix.sh.tmpl",
	dialect.PowerShell: "powershell.ps1.tmpl",
}

type (
	// Renderer executes the embedded dialect templates over a resolved
	// context. One Renderer serves both dialects.
	Renderer struct {
		templates *template.Template
	}
)

// New parses the embedded templates.
func New() (*Renderer, error) {
	templates, err := template.ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse embedded templates: %w", err)
	}
	return &Renderer{templates: templates}, nil
}

// Render produces the complete profile text for one dialect from the
// merged configuration.
func (r *Renderer) Render(m *document.Merged, d dialect.Dialect, opts Options) (string, error) {
	ctx, err := BuildContext(m, d, opts)
	if err != nil {
		return "", err
	}
	return r.Execute(ctx)
}

// Execute runs the dialect template over an already built context.
func (r *Renderer) Execute(ctx *Context) (string, error) {
	name, ok := templateNames[ctx.Dialect]
	if !ok {
		return "", &dialect.InvalidDialectError{Value: ctx.Dialect}
	}

	var sb strings.Builder
	if err := r.templates.ExecuteTemplate(&sb, name, ctx); err != nil {
		return "", &Error{
			Dialect: ctx.Dialect,
			Path:    name,
			Message: err.Error(),
		}
	}
	return sb.String(), nil
}
