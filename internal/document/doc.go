// SPDX-License-Identifier: MPL-2.0

// Package document loads the JSON configuration documents and merges them
// into a single configuration tree keyed by document name.
//
// Documents are parsed into insertion-ordered objects: iteration over any
// object yields keys in the order they appear in the source file. That
// ordering is a documented contract of this package, because regeneration
// must be byte-identical for unchanged input.
package document
