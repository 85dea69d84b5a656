// SPDX-License-Identifier: MPL-2.0

package dialect

import (
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// Quote returns a dialect-correct string literal for s.
//
// POSIX quoting is delegated to mvdan/sh, which picks the minimal safe form
// (bare word, single quotes, or $'...'). PowerShell uses single-quoted
// literals with embedded quotes doubled, the only form with no
// interpolation surprises.
func (a *Adapter) Quote(s string) (string, error) {
	switch a.dialect {
	case PowerShell:
		return "'" + strings.ReplaceAll(s, "'", "''") + "'", nil
	default:
		quoted, err := syntax.Quote(s, syntax.LangBash)
		if err != nil {
			return "", fmt.Errorf("quote %q: %w", s, err)
		}
		return quoted, nil
	}
}

// Expand translates the dialect-neutral placeholders a command string may
// reference into dialect-correct syntax:
//
//	{shell} -> concrete shell name (bash / powershell)
//	{home}  -> $HOME / $env:USERPROFILE
//	{sep}   -> path-list separator (: / ;)
func (a *Adapter) Expand(s string) string {
	r := strings.NewReplacer(
		"{shell}", a.dialect.ShellName(),
		"{home}", a.homeRef(),
		"{sep}", a.pathListSep(),
	)
	return r.Replace(s)
}

// ExpandPath rewrites a leading ~/ to the dialect's home reference.
func (a *Adapter) ExpandPath(path string) string {
	if path == "~" {
		return a.homeRef()
	}
	if strings.HasPrefix(path, "~/") {
		return a.homeRef() + "/" + strings.TrimPrefix(path, "~/")
	}
	return a.Expand(path)
}

func (a *Adapter) homeRef() string {
	if a.dialect == PowerShell {
		return "$env:USERPROFILE"
	}
	return "$HOME"
}

func (a *Adapter) pathListSep() string {
	if a.dialect == PowerShell {
		return ";"
	}
	return ":"
}
