// SPDX-License-Identifier: MPL-2.0

// Package dialect is the policy layer that translates dialect-neutral
// configuration entries (aliases, functions, tool replacements, environment
// exports) into statement text for a concrete shell dialect.
//
// All dialect-specific syntax lives here: quoting, detection guards,
// placeholder expansion, and the declarative table mapping replaced tools
// to emission behaviors. The renderer never concatenates shell syntax on
// its own.
package dialect
