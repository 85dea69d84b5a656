// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// This package defines error types that carry remediation steps and
// Markdown-formatted guidance, improving the user experience when a
// generation run fails during loading, rendering, or writing.
package issue
