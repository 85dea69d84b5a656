// SPDX-License-Identifier: MPL-2.0

package dialect

import (
	"fmt"
	"strings"
)

type (
	// Adapter produces dialect-correct statement text for configuration
	// entries. It is a pure mapping layer: no I/O, no state beyond the
	// target dialect, so every translation is unit-testable on its own.
	Adapter struct {
		dialect Dialect
	}
)

// NewAdapter creates an adapter for the given dialect.
func NewAdapter(d Dialect) (*Adapter, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &Adapter{dialect: d}, nil
}

// Dialect returns the adapter's target dialect.
func (a *Adapter) Dialect() Dialect {
	return a.dialect
}

// Comment returns a comment line. Both dialects use '#'.
func (a *Adapter) Comment(text string) string {
	return "# " + text
}

// Alias returns an alias statement binding name to command.
//
// POSIX emits a real alias. PowerShell aliases cannot carry arguments, so
// only a single-word command becomes Set-Alias; anything else becomes a
// function wrapper that forwards @args.
func (a *Adapter) Alias(name, command string) (string, error) {
	command = a.Expand(command)

	if a.dialect == PowerShell {
		if !strings.ContainsAny(command, " \t") {
			return fmt.Sprintf("Set-Alias -Name %s -Value %s", name, command), nil
		}
		return a.FunctionDef(name, command), nil
	}

	quoted, err := a.Quote(command)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("alias %s=%s", name, quoted), nil
}

// OverrideAlias returns an alias statement for a name the shell already
// resolves natively. POSIX aliases shadow binaries without ceremony.
// PowerShell resolves functions before aliases, so a function wrapper is
// the reliable way to shadow built-in aliases like ls.
func (a *Adapter) OverrideAlias(name, command string) (string, error) {
	if a.dialect == PowerShell {
		return a.FunctionDef(name, a.Expand(command)), nil
	}
	return a.Alias(name, command)
}

// FunctionDef returns a function definition wrapping a single command,
// forwarding all arguments.
func (a *Adapter) FunctionDef(name, command string) string {
	command = a.Expand(command)
	if a.dialect == PowerShell {
		return fmt.Sprintf("function %s { %s @args }", name, command)
	}
	return fmt.Sprintf("%s() { %s \"$@\"; }", name, command)
}

// Export returns an environment variable assignment. Values are emitted
// inside double quotes verbatim, so they may reference variables exported
// by earlier sections.
func (a *Adapter) Export(name, value string) string {
	value = a.Expand(value)
	if a.dialect == PowerShell {
		return fmt.Sprintf("$env:%s = \"%s\"", name, value)
	}
	return fmt.Sprintf("export %s=\"%s\"", name, value)
}

// PathPrepend returns a statement prepending an entry to PATH.
func (a *Adapter) PathPrepend(entry string) string {
	entry = a.ExpandPath(entry)
	if a.dialect == PowerShell {
		return fmt.Sprintf("$env:Path = \"%s;\" + $env:Path", entry)
	}
	return fmt.Sprintf("export PATH=\"%s:$PATH\"", entry)
}

// ProbeExpr returns the expression testing whether an external tool is
// available on this system.
func (a *Adapter) ProbeExpr(tool string) string {
	if a.dialect == PowerShell {
		return fmt.Sprintf("Get-Command %s -ErrorAction SilentlyContinue", tool)
	}
	return fmt.Sprintf("command -v %s >/dev/null 2>&1", tool)
}

// GuardOpen returns the opening of an "if tool available" block.
func (a *Adapter) GuardOpen(probe string) string {
	if a.dialect == PowerShell {
		return fmt.Sprintf("if (%s) {", a.ProbeExpr(probe))
	}
	return fmt.Sprintf("if %s; then", a.ProbeExpr(probe))
}

// GuardOpenAbsent returns the opening of an "if tool NOT available" block,
// used when a replacement declares only fallback behavior.
func (a *Adapter) GuardOpenAbsent(probe string) string {
	if a.dialect == PowerShell {
		return fmt.Sprintf("if (-not (%s)) {", a.ProbeExpr(probe))
	}
	return fmt.Sprintf("if ! %s; then", a.ProbeExpr(probe))
}

// GuardElse returns the else branch separator of a detection guard.
func (a *Adapter) GuardElse() string {
	if a.dialect == PowerShell {
		return "} else {"
	}
	return "else"
}

// GuardClose returns the closing of a detection guard.
func (a *Adapter) GuardClose() string {
	if a.dialect == PowerShell {
		return "}"
	}
	return "fi"
}

// AutoInit returns a one-line guarded initialization for an external tool:
// the command runs only when the tool is present, and is a no-op otherwise.
func (a *Adapter) AutoInit(tool, command string) string {
	command = a.Expand(command)
	if a.dialect == PowerShell {
		return fmt.Sprintf("if (%s) { %s }", a.ProbeExpr(tool), command)
	}
	return fmt.Sprintf("%s && %s", a.ProbeExpr(tool), command)
}

// SourceIfExists returns a statement sourcing a file only when it exists,
// used for the local-override hook at the end of each profile.
func (a *Adapter) SourceIfExists(path string) string {
	path = a.ExpandPath(path)
	if a.dialect == PowerShell {
		return fmt.Sprintf("if (Test-Path \"%s\") { . \"%s\" }", path, path)
	}
	return fmt.Sprintf("[ -f \"%s\" ] && . \"%s\"", path, path)
}

// SetMarker returns the assignment of the loaded-marker variable emitted at
// the end of a profile, consumed only by the profile's own later sections
// for idempotent-reload detection.
func (a *Adapter) SetMarker(name string) string {
	if a.dialect == PowerShell {
		return fmt.Sprintf("$env:%s = \"1\"", name)
	}
	return fmt.Sprintf("export %s=1", name)
}

// Echo returns a statement printing a line of text (the startup banner).
func (a *Adapter) Echo(text string) (string, error) {
	if a.dialect == PowerShell {
		quoted, err := a.Quote(text)
		if err != nil {
			return "", err
		}
		return "Write-Host " + quoted, nil
	}
	quoted, err := a.Quote(text)
	if err != nil {
		return "", err
	}
	return "echo " + quoted, nil
}
