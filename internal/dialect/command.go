// SPDX-License-Identifier: MPL-2.0

package dialect

type (
	// Command is a tagged variant of the two shapes a configured command can
	// take: a single string shared by every dialect, or a mapping with one
	// entry per dialect. Resolution follows a fixed priority: the
	// dialect-specific value wins over the shared value; when neither is
	// present for the active dialect, the command is unresolvable and the
	// caller omits (lenient) or rejects (strict) the entry.
	Command struct {
		shared     string
		hasShared  bool
		perDialect map[Dialect]string
	}
)

// SharedCommand creates a command used verbatim by every dialect.
func SharedCommand(cmd string) Command {
	return Command{shared: cmd, hasShared: true}
}

// PerDialectCommand creates a command with dialect-specific values.
// Missing dialects are simply omitted from that dialect's output.
func PerDialectCommand(values map[Dialect]string) Command {
	m := make(map[Dialect]string, len(values))
	for d, v := range values {
		m[d] = v
	}
	return Command{perDialect: m}
}

// WithDialect returns a copy of the command with a dialect-specific value
// added. The dialect-specific value takes priority over any shared value.
func (c Command) WithDialect(d Dialect, cmd string) Command {
	m := make(map[Dialect]string, len(c.perDialect)+1)
	for k, v := range c.perDialect {
		m[k] = v
	}
	m[d] = cmd
	return Command{shared: c.shared, hasShared: c.hasShared, perDialect: m}
}

// Resolve returns the command text for the given dialect.
// Priority: dialect-specific value > shared value > unresolved.
func (c Command) Resolve(d Dialect) (string, bool) {
	if v, ok := c.perDialect[d]; ok {
		return v, true
	}
	if c.hasShared {
		return c.shared, true
	}
	return "", false
}

// IsZero reports whether the command carries no value at all.
func (c Command) IsZero() bool {
	return !c.hasShared && len(c.perDialect) == 0
}
