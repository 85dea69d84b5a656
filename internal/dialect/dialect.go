// SPDX-License-Identifier: MPL-2.0

package dialect

import (
	"errors"
	"fmt"
)

type (
	// Dialect identifies one of the two target shell environments.
	Dialect string

	// InvalidDialectError is returned when a Dialect value is not recognized.
	// It wraps ErrInvalidDialect for errors.Is() compatibility.
	InvalidDialectError struct {
		Value Dialect
	}
)

const (
	// Posix targets POSIX-family shells (bash, zsh).
	Posix Dialect = "posix"
	// PowerShell targets Windows PowerShell / pwsh.
	PowerShell Dialect = "powershell"
)

// ErrInvalidDialect is the sentinel error wrapped by InvalidDialectError.
var ErrInvalidDialect = errors.New("invalid dialect")

func (e *InvalidDialectError) Error() string {
	return fmt.Sprintf("invalid dialect %q (valid: %q, %q)", e.Value, Posix, PowerShell)
}

func (e *InvalidDialectError) Unwrap() error {
	return ErrInvalidDialect
}

// All returns the supported dialects in generation order.
func All() []Dialect {
	return []Dialect{Posix, PowerShell}
}

// Validate checks that d is a recognized dialect.
func (d Dialect) Validate() error {
	switch d {
	case Posix, PowerShell:
		return nil
	default:
		return &InvalidDialectError{Value: d}
	}
}

// ShellName returns the concrete shell name substituted for the {shell}
// placeholder in dialect-neutral commands (e.g. "zoxide init {shell}").
func (d Dialect) ShellName() string {
	if d == PowerShell {
		return "powershell"
	}
	return "bash"
}

// String returns the dialect name.
func (d Dialect) String() string {
	return string(d)
}
