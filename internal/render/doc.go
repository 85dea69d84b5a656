// SPDX-License-Identifier: MPL-2.0

// Package render walks the merged configuration and produces the complete
// profile text for one dialect.
//
// Rendering happens in two phases. The context builder resolves every
// configuration entry for the target dialect into ordered view slices,
// applying the resolution priority (dialect-specific > shared > omit) and
// the lenient/strict policy. The template phase then lays the resolved
// statements out in the fixed section order; it contains no resolution
// logic of its own.
//
// Section order is load-bearing: later sections read variables exported by
// earlier ones, so emission order matches declaration order exactly, every
// run, for every dialect.
package render
