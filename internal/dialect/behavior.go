// SPDX-License-Identifier: MPL-2.0

package dialect

type (
	// BehaviorKind selects how a tool replacement is emitted.
	BehaviorKind string
)

const (
	// OverrideBuiltin shadows a command name the shell already knows
	// (e.g. ls, which PowerShell resolves to a built-in alias).
	OverrideBuiltin BehaviorKind = "override-builtin"

	// SimpleAlias renames one command to another with no collision concerns.
	SimpleAlias BehaviorKind = "simple-alias"

	// SpecialCD marks directory-jump tools whose shell hooks are installed
	// by the external-tool initialization section, not the replacement
	// section. The replacement section emits nothing executable for them.
	SpecialCD BehaviorKind = "special-cd"

	// CustomFunction emits the replacement (and its fallback) as function
	// definitions instead of aliases, so arguments pass through.
	CustomFunction BehaviorKind = "custom-function"
)

// builtinBehaviors is the declarative table mapping a replaced command name
// to its emission behavior. Tool replacements consult this table instead of
// scattering name comparisons; a document may still override the kind per
// replacement.
var builtinBehaviors = map[string]BehaviorKind{
	"ls":   OverrideBuiltin,
	"dir":  OverrideBuiltin,
	"cd":   SpecialCD,
	"ll":   CustomFunction,
	"la":   CustomFunction,
	"lt":   CustomFunction,
	"cat":  SimpleAlias,
	"grep": SimpleAlias,
	"find": SimpleAlias,
	"du":   SimpleAlias,
	"df":   SimpleAlias,
	"diff": SimpleAlias,
	"top":  SimpleAlias,
	"ps":   OverrideBuiltin,
}

// BehaviorFor returns the emission behavior for a replaced command name.
// Names absent from the table emit as simple aliases.
func BehaviorFor(name string) BehaviorKind {
	if kind, ok := builtinBehaviors[name]; ok {
		return kind
	}
	return SimpleAlias
}

// ParseBehavior converts a configured kind string into a BehaviorKind.
func ParseBehavior(s string) (BehaviorKind, bool) {
	switch BehaviorKind(s) {
	case OverrideBuiltin, SimpleAlias, SpecialCD, CustomFunction:
		return BehaviorKind(s), true
	default:
		return "", false
	}
}
