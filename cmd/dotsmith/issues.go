// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"os"
	"strings"

	"dotsmith/internal/document"
	"dotsmith/internal/issue"
	"dotsmith/internal/render"
	"dotsmith/internal/writer"
)

// printIssueCard renders the catalog entry matching err, when one exists,
// so the user gets remediation guidance alongside the error line.
func printIssueCard(err error) {
	id, ok := issueFor(err)
	if !ok {
		return
	}
	rendered, renderErr := issue.Get(id).Render("dark")
	if renderErr != nil {
		return
	}
	os.Stderr.WriteString(rendered)
}

// issueFor maps an error chain to its catalog entry.
func issueFor(err error) (issue.Id, bool) {
	var (
		parseErr      *document.ParseError
		validationErr *document.ValidationError
		renderErr     *render.Error
		writeErr      *writer.WriteError
		actionable    *issue.ActionableError
	)

	switch {
	case errors.As(err, &actionable) && actionable.Operation == "load settings":
		return issue.SettingsLoadFailedId, true
	case errors.As(err, &parseErr):
		return issue.DocumentParseErrorId, true
	case errors.As(err, &renderErr):
		return issue.RenderFailedId, true
	case errors.Is(err, writer.ErrBackupFailed):
		return issue.BackupFailedId, true
	case errors.As(err, &writeErr):
		return issue.BackupFailedId, true
	case errors.As(err, &validationErr):
		switch {
		case strings.Contains(validationErr.Message, "required document"):
			return issue.RequiredDocumentMissingId, true
		case strings.Contains(validationErr.Message, "duplicate document namespace"):
			return issue.DuplicateNamespaceId, true
		default:
			return issue.DocumentParseErrorId, true
		}
	case errors.Is(err, os.ErrNotExist):
		return issue.DocumentsDirNotFoundId, true
	}
	return 0, false
}
