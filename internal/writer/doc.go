// SPDX-License-Identifier: MPL-2.0

// Package writer persists generated artifacts with backup-before-overwrite
// safety: an existing target is moved to a timestamped backup location
// before the new content, written to a temporary file in the target
// directory, is atomically renamed into place. A failed backup aborts the
// write with the previous file untouched.
package writer
