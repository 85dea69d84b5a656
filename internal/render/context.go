// SPDX-License-Identifier: MPL-2.0

package render

import (
	"fmt"
	"time"

	"dotsmith/internal/dialect"
	"dotsmith/internal/document"
)

type (
	// Mode selects how incomplete entries are handled.
	Mode int

	// Error reports data a strict-mode render required but could not
	// resolve, naming the configuration path of the offending entry.
	Error struct {
		Dialect dialect.Dialect
		Path    string
		Message string
	}

	// EnvVar is one resolved environment variable export.
	EnvVar struct {
		Name  string
		Value string
	}

	// Alias is one resolved alias binding.
	Alias struct {
		Name    string
		Command string
	}

	// AliasCategory groups aliases under their source category, in source
	// order.
	AliasCategory struct {
		Name    string
		Aliases []Alias
	}

	// Function is one resolved function definition. Body is complete
	// dialect syntax taken from the configuration.
	Function struct {
		Name        string
		Description string
		Body        string
	}

	// ToolReplacement is one resolved modern-tool substitution. Primary
	// holds the statement lines for the tool-present branch, Fallback the
	// statements for the else branch; an empty Fallback means the guard has
	// no else branch at all. Note, when set, replaces the guard entirely
	// (used by special-cd tools whose hooks install elsewhere).
	ToolReplacement struct {
		Name     string
		Tool     string
		Probe    string
		Kind     dialect.BehaviorKind
		Primary  []string
		Fallback []string
		Note     string
	}

	// AutoInit is one guarded external-tool initialization line.
	AutoInit struct {
		Tool    string
		Command string
	}

	// Statement is one resolved raw statement from a name->command mapping.
	Statement struct {
		Name string
		Text string
	}

	// FeatureState records a feature flag for reporting.
	FeatureState struct {
		Name    string
		Enabled bool
	}

	// Context is the fully resolved input to a dialect template. All slices
	// preserve the insertion order of the source documents.
	Context struct {
		Dialect dialect.Dialect
		Adapter *dialect.Adapter

		// Header banner fields.
		ToolVersion     string
		TemplateVersion string
		ConfigStamp     string

		Enhanced bool

		// Documents lists the loaded namespaces in load order.
		Documents []string

		Environment     []EnvVar
		XDG             []EnvVar
		VersionManagers []AutoInit
		DevEnv          []EnvVar
		Paths           []string
		History         []Statement
		Replacements    []ToolReplacement
		Fzf             []EnvVar
		Categories      []AliasCategory
		Functions       []Function
		AutoInits       []AutoInit
		KeyBindings     []Statement
		Prompt          []Statement
		Performance     []Statement
		Platform        []Statement
		Banner          string
		LocalOverride   string
		MarkerVar       string

		FeatureList []FeatureState

		features map[string]bool
	}

	// Options configures context building.
	Options struct {
		Mode        Mode
		ToolVersion string
		// ConfigStamp is the timestamp placed in the header banner. Callers
		// derive it from the input (newest document mtime) so that
		// regeneration from unchanged input stays byte-identical.
		ConfigStamp time.Time
	}

	builder struct {
		merged  *document.Merged
		adapter *dialect.Adapter
		mode    Mode
		err     *Error
	}
)

const (
	// Lenient silently omits entries whose data is missing for the active
	// dialect. This is the default: a partially filled configuration still
	// produces a working, if incomplete, profile.
	Lenient Mode = iota
	// Strict fails the render with an Error naming the first missing path.
	Strict
)

// TemplateVersion identifies the embedded template generation. Bumped when
// section layout changes.
const TemplateVersion = "2"

// MarkerVar is the loaded-marker variable written at the end of each
// profile.
const MarkerVar = "DOTSMITH_LOADED"

func (e *Error) Error() string {
	return fmt.Sprintf("render %s: %s: %s", e.Dialect, e.Path, e.Message)
}

// Feature reports whether a named feature flag is enabled. Flags default to
// enabled: only an explicit false in shared.features disables a section.
func (c *Context) Feature(name string) bool {
	enabled, ok := c.features[name]
	if !ok {
		return true
	}
	return enabled
}

// AliasCount returns the number of alias entries resolved for this dialect.
func (c *Context) AliasCount() int {
	n := 0
	for _, cat := range c.Categories {
		n += len(cat.Aliases)
	}
	for _, r := range c.Replacements {
		n += len(r.Primary) + len(r.Fallback)
	}
	return n
}

// EmittedAliasCount returns the number of distinct alias entries emitted
// from the alias namespaces (the definitions section only, excluding tool
// replacements).
func (c *Context) EmittedAliasCount() int {
	n := 0
	for _, cat := range c.Categories {
		n += len(cat.Aliases)
	}
	return n
}

// EmittedFunctionCount returns the number of function definitions emitted.
func (c *Context) EmittedFunctionCount() int {
	return len(c.Functions)
}

// FeatureStates returns the explicitly configured feature flags.
func (c *Context) FeatureStates() map[string]bool {
	states := make(map[string]bool, len(c.FeatureList))
	for _, f := range c.FeatureList {
		states[f.Name] = f.Enabled
	}
	return states
}

// BuildContext resolves the merged configuration for one dialect.
func BuildContext(m *document.Merged, d dialect.Dialect, opts Options) (*Context, error) {
	adapter, err := dialect.NewAdapter(d)
	if err != nil {
		return nil, err
	}

	b := &builder{merged: m, adapter: adapter, mode: opts.Mode}

	ctx := &Context{
		Dialect:         d,
		Adapter:         adapter,
		ToolVersion:     opts.ToolVersion,
		TemplateVersion: TemplateVersion,
		ConfigStamp:     opts.ConfigStamp.UTC().Format(time.RFC3339),
		Enhanced:        m.Has("integration"),
		Documents:       m.Names(),
		MarkerVar:       MarkerVar,
		features:        map[string]bool{},
	}

	shared, _ := m.Object("shared")
	integration, _ := m.Object("integration")

	if shared != nil {
		if features, ok := shared.Object("features"); ok {
			for _, name := range features.Keys() {
				enabled, isBool := features.Bool(name)
				if !isBool {
					continue
				}
				ctx.features[name] = enabled
				ctx.FeatureList = append(ctx.FeatureList, FeatureState{Name: name, Enabled: enabled})
			}
		}

		ctx.Environment = b.envVars(shared, "environment", "shared.environment")
		ctx.XDG = b.envVars(shared, "xdg", "shared.xdg")
		if paths, ok := shared.Strings("paths"); ok {
			ctx.Paths = paths
		}
		if banner, ok := shared.String("banner"); ok {
			ctx.Banner = banner
		} else {
			ctx.Banner = "dotsmith environment loaded"
		}
		ctx.LocalOverride = b.localOverride(shared, d)
	} else {
		ctx.Banner = "dotsmith environment loaded"
		ctx.LocalOverride = defaultLocalOverride(d)
	}

	if integration != nil {
		ctx.VersionManagers = b.autoInits(integration, "version_managers", "integration.version_managers")
		if dev, ok := integration.Object("development"); ok {
			ctx.DevEnv = b.envVars(dev, "environment", "integration.development.environment")
		}
		ctx.History = b.history(integration)
		ctx.Replacements = b.replacements(integration)
		ctx.Fzf = b.fzf(integration)
		if ext, ok := integration.Object("external_tools"); ok {
			ctx.AutoInits = b.autoInits(ext, "auto_init", "integration.external_tools.auto_init")
		}
		ctx.KeyBindings = b.statements(integration, "key_bindings", "integration.key_bindings")
		ctx.Prompt = b.statements(integration, "prompt", "integration.prompt")
		ctx.Performance = b.statements(integration, "performance", "integration.performance")
		ctx.Platform = b.platform(integration, d)
	}

	ctx.Categories = b.aliasCategories()
	ctx.Functions = b.functions()

	if b.err != nil {
		b.err.Dialect = d
		return nil, b.err
	}
	return ctx, nil
}

// fail records the first strict-mode resolution failure. Lenient mode
// ignores it entirely.
func (b *builder) fail(path, message string) {
	if b.mode != Strict || b.err != nil {
		return
	}
	b.err = &Error{Path: path, Message: message}
}

// commandFromValue converts a raw document value into the tagged Command
// variant: a plain string is shared across dialects, an object supplies
// per-dialect values.
func commandFromValue(v document.Value) (dialect.Command, bool) {
	switch t := v.(type) {
	case string:
		return dialect.SharedCommand(t), true
	case *document.Object:
		cmd := dialect.Command{}
		found := false
		for _, key := range t.Keys() {
			d := dialect.Dialect(key)
			if d.Validate() != nil {
				continue
			}
			if text, ok := t.String(key); ok {
				cmd = cmd.WithDialect(d, text)
				found = true
			}
		}
		return cmd, found
	default:
		return dialect.Command{}, false
	}
}

// resolve applies the priority rule for one entry, reporting a strict-mode
// failure when nothing resolves for the active dialect.
func (b *builder) resolve(v document.Value, path string) (string, bool) {
	cmd, ok := commandFromValue(v)
	if !ok {
		b.fail(path, "entry is neither a command string nor a per-dialect mapping")
		return "", false
	}
	text, ok := cmd.Resolve(b.adapter.Dialect())
	if !ok {
		b.fail(path, fmt.Sprintf("no command for dialect %q and no shared value", b.adapter.Dialect()))
		return "", false
	}
	return text, true
}

// envVars reads a string->string object into ordered exports.
func (b *builder) envVars(parent *document.Object, key, path string) []EnvVar {
	obj, ok := parent.Object(key)
	if !ok {
		return nil
	}
	vars := make([]EnvVar, 0, obj.Len())
	for _, name := range obj.Keys() {
		value, isStr := obj.String(name)
		if !isStr {
			b.fail(path+"."+name, "expected a string value")
			continue
		}
		vars = append(vars, EnvVar{Name: name, Value: value})
	}
	return vars
}

// statements reads a name->command object into ordered raw statements.
func (b *builder) statements(parent *document.Object, key, path string) []Statement {
	obj, ok := parent.Object(key)
	if !ok {
		return nil
	}
	out := make([]Statement, 0, obj.Len())
	for _, name := range obj.Keys() {
		v, _ := obj.Get(name)
		text, ok := b.resolve(v, path+"."+name)
		if !ok {
			continue
		}
		out = append(out, Statement{Name: name, Text: b.adapter.Expand(text)})
	}
	return out
}

// autoInits reads a tool->command object into guarded initializations.
func (b *builder) autoInits(parent *document.Object, key, path string) []AutoInit {
	obj, ok := parent.Object(key)
	if !ok {
		return nil
	}
	out := make([]AutoInit, 0, obj.Len())
	for _, tool := range obj.Keys() {
		v, _ := obj.Get(tool)
		text, ok := b.resolve(v, path+"."+tool)
		if !ok {
			continue
		}
		out = append(out, AutoInit{Tool: tool, Command: text})
	}
	return out
}

// history maps the history settings onto dialect statements. POSIX shells
// take environment variables; PowerShell configures PSReadLine.
func (b *builder) history(integration *document.Object) []Statement {
	hist, ok := integration.Object("history")
	if !ok {
		return nil
	}

	var out []Statement
	posix := b.adapter.Dialect() == dialect.Posix

	if v, ok := hist.Get("size"); ok {
		if size, isNum := v.(float64); isNum {
			n := int(size)
			if posix {
				out = append(out,
					Statement{Name: "size", Text: b.adapter.Export("HISTSIZE", fmt.Sprintf("%d", n))},
					Statement{Name: "size", Text: b.adapter.Export("SAVEHIST", fmt.Sprintf("%d", n))},
				)
			} else {
				out = append(out, Statement{
					Name: "size",
					Text: fmt.Sprintf("Set-PSReadLineOption -MaximumHistoryCount %d", n),
				})
			}
		}
	}

	if file, ok := hist.String("file"); ok && posix {
		out = append(out, Statement{Name: "file", Text: b.adapter.Export("HISTFILE", b.adapter.ExpandPath(file))})
	}

	if dedup, ok := hist.Bool("ignore_dups"); ok && dedup {
		if posix {
			out = append(out, Statement{Name: "ignore_dups", Text: b.adapter.Export("HISTCONTROL", "ignoreboth")})
		} else {
			out = append(out, Statement{Name: "ignore_dups", Text: "Set-PSReadLineOption -HistoryNoDuplicates"})
		}
	}

	return out
}

// fzf reads the fuzzy-finder settings into exports emitted inside an
// availability guard.
func (b *builder) fzf(integration *document.Object) []EnvVar {
	fzf, ok := integration.Object("fzf")
	if !ok {
		return nil
	}
	var vars []EnvVar
	if cmd, ok := fzf.String("default_command"); ok {
		vars = append(vars, EnvVar{Name: "FZF_DEFAULT_COMMAND", Value: cmd})
	}
	if opts, ok := fzf.String("default_opts"); ok {
		vars = append(vars, EnvVar{Name: "FZF_DEFAULT_OPTS", Value: opts})
	}
	return vars
}

// replacements resolves the modern-tool substitutions, consulting the
// declarative behavior table for names the document does not classify.
func (b *builder) replacements(integration *document.Object) []ToolReplacement {
	tools, ok := integration.Object("modern_tools")
	if !ok {
		return nil
	}
	repl, ok := tools.Object("replacements")
	if !ok {
		return nil
	}

	var out []ToolReplacement
	for _, name := range repl.Keys() {
		entry, isObj := repl.Object(name)
		if !isObj {
			b.fail("integration.modern_tools.replacements."+name, "expected an object")
			continue
		}
		path := "integration.modern_tools.replacements." + name

		tool, ok := entry.String("tool")
		if !ok {
			b.fail(path+".tool", "replacement is missing the tool name")
			continue
		}

		probe := tool
		if p, ok := entry.String("probe"); ok {
			probe = p
		}

		kind := dialect.BehaviorFor(name)
		if k, ok := entry.String("kind"); ok {
			parsed, valid := dialect.ParseBehavior(k)
			if !valid {
				b.fail(path+".kind", fmt.Sprintf("unknown behavior kind %q", k))
				continue
			}
			kind = parsed
		}

		r := ToolReplacement{Name: name, Tool: tool, Probe: probe, Kind: kind}

		if kind == dialect.SpecialCD {
			r.Note = fmt.Sprintf("%s: directory-jump hooks installed by external tool init", tool)
			out = append(out, r)
			continue
		}

		if aliases, ok := entry.Object("aliases"); ok {
			for _, aliasName := range aliases.Keys() {
				command, isStr := aliases.String(aliasName)
				if !isStr {
					b.fail(path+".aliases."+aliasName, "expected a string command")
					continue
				}
				stmt, err := b.replacementStatement(kind, aliasName, command)
				if err != nil {
					b.fail(path+".aliases."+aliasName, err.Error())
					continue
				}
				r.Primary = append(r.Primary, stmt)
			}
		}

		if fallback, ok := entry.Object("fallback"); ok {
			for _, aliasName := range fallback.Keys() {
				v, _ := fallback.Get(aliasName)
				command, resolved := b.resolve(v, path+".fallback."+aliasName)
				if !resolved {
					continue
				}
				stmt, err := b.replacementStatement(kind, aliasName, command)
				if err != nil {
					b.fail(path+".fallback."+aliasName, err.Error())
					continue
				}
				r.Fallback = append(r.Fallback, stmt)
			}
		}

		if len(r.Primary) == 0 && len(r.Fallback) == 0 {
			b.fail(path, "replacement declares no aliases")
			continue
		}
		out = append(out, r)
	}
	return out
}

// replacementStatement emits one branch statement according to the
// replacement's behavior kind.
func (b *builder) replacementStatement(kind dialect.BehaviorKind, name, command string) (string, error) {
	switch kind {
	case dialect.CustomFunction:
		return b.adapter.FunctionDef(name, command), nil
	case dialect.OverrideBuiltin:
		return b.adapter.OverrideAlias(name, command)
	default:
		return b.adapter.Alias(name, command)
	}
}

// aliasCategories resolves the alias namespaces in source order.
func (b *builder) aliasCategories() []AliasCategory {
	root, ok := b.merged.Object("aliases")
	if !ok {
		return nil
	}

	var out []AliasCategory
	for _, category := range root.Keys() {
		entries, isObj := root.Object(category)
		if !isObj {
			b.fail("aliases."+category, "expected an object of alias entries")
			continue
		}
		cat := AliasCategory{Name: category}
		for _, name := range entries.Keys() {
			v, _ := entries.Get(name)
			command, resolved := b.resolve(v, "aliases."+category+"."+name)
			if !resolved {
				continue
			}
			cat.Aliases = append(cat.Aliases, Alias{Name: name, Command: command})
		}
		if len(cat.Aliases) > 0 {
			out = append(out, cat)
		}
	}
	return out
}

// functions resolves both function documents, basic first.
func (b *builder) functions() []Function {
	var out []Function
	for _, docName := range []string{"functions", "advanced_functions"} {
		root, ok := b.merged.Object(docName)
		if !ok {
			continue
		}
		for _, name := range root.Keys() {
			entry, isObj := root.Object(name)
			if !isObj {
				b.fail(docName+"."+name, "expected a function object")
				continue
			}
			body, resolved := b.resolveFunctionBody(entry, docName+"."+name)
			if !resolved {
				continue
			}
			desc, _ := entry.String("description")
			out = append(out, Function{Name: name, Description: desc, Body: body})
		}
	}
	return out
}

// resolveFunctionBody picks the dialect body for a function entry.
// Function bodies carry complete dialect syntax, so there is no shared
// form: a missing body for the active dialect omits the function.
func (b *builder) resolveFunctionBody(entry *document.Object, path string) (string, bool) {
	if body, ok := entry.String(string(b.adapter.Dialect())); ok {
		return body, true
	}
	b.fail(path, fmt.Sprintf("no %s body declared", b.adapter.Dialect()))
	return "", false
}

// platform picks the tweak set matching the dialect's host family.
func (b *builder) platform(integration *document.Object, d dialect.Dialect) []Statement {
	plat, ok := integration.Object("platform")
	if !ok {
		return nil
	}
	family := "unix"
	if d == dialect.PowerShell {
		family = "windows"
	}
	return b.statements(plat, family, "integration.platform."+family)
}

// localOverride resolves the per-dialect local override path.
func (b *builder) localOverride(shared *document.Object, d dialect.Dialect) string {
	if v, ok := shared.Get("local_override"); ok {
		cmd, isCmd := commandFromValue(v)
		if isCmd {
			if path, resolved := cmd.Resolve(d); resolved {
				return path
			}
		}
	}
	return defaultLocalOverride(d)
}

func defaultLocalOverride(d dialect.Dialect) string {
	if d == dialect.PowerShell {
		return "~/Profile.local.ps1"
	}
	return "~/.profile.local"
}
