// SPDX-License-Identifier: MPL-2.0

package render_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"dotsmith/internal/dialect"
	"dotsmith/internal/document"
	"dotsmith/internal/render"
	"dotsmith/internal/testutil"
)

func loadMerged(t *testing.T, docs map[string]string) *document.Merged {
	t.Helper()

	dir := t.TempDir()
	testutil.WriteDocuments(t, dir, docs)

	names := make([]string, 0, len(docs))
	for _, name := range document.DefaultDocuments {
		if _, ok := docs[name]; ok {
			names = append(names, name)
		}
	}

	merged, err := document.NewLoader(dir, nil).Load(names)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return merged
}

func renderBoth(t *testing.T, docs map[string]string, opts render.Options) (posix, pwsh string) {
	t.Helper()

	merged := loadMerged(t, docs)
	r, err := render.New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	posix, err = r.Render(merged, dialect.Posix, opts)
	if err != nil {
		t.Fatalf("Render(posix) error = %v", err)
	}
	pwsh, err = r.Render(merged, dialect.PowerShell, opts)
	if err != nil {
		t.Fatalf("Render(powershell) error = %v", err)
	}
	return posix, pwsh
}

func TestRender_SharedAliasInBothDialects(t *testing.T) {
	t.Parallel()

	docs := map[string]string{
		"shared":  `{"features": {"banner": false}}`,
		"aliases": `{"navigation": {"..": "cd .."}}`,
	}
	posix, pwsh := renderBoth(t, docs, render.Options{})

	if !strings.Contains(posix, "alias ..='cd ..'") {
		t.Errorf("posix output missing shared alias:\n%s", posix)
	}
	if !strings.Contains(pwsh, "function .. { cd .. @args }") {
		t.Errorf("powershell output missing shared alias:\n%s", pwsh)
	}
}

func TestRender_DialectSpecificWinsOverShared(t *testing.T) {
	t.Parallel()

	docs := map[string]string{
		"shared":  `{}`,
		"aliases": `{"listing": {"l": {"posix": "ls -la", "powershell": "Get-ChildItem -Force"}}}`,
	}
	posix, pwsh := renderBoth(t, docs, render.Options{})

	if !strings.Contains(posix, "alias l='ls -la'") {
		t.Errorf("posix output missing dialect alias:\n%s", posix)
	}
	if !strings.Contains(pwsh, "function l { Get-ChildItem -Force @args }") {
		t.Errorf("powershell output missing dialect alias:\n%s", pwsh)
	}
	if strings.Contains(posix, "Get-ChildItem") {
		t.Error("posix output leaked a powershell command")
	}
	if strings.Contains(pwsh, "ls -la") {
		t.Error("powershell output leaked a posix command")
	}
}

func TestRender_LenientOmitsUnresolvableEntries(t *testing.T) {
	t.Parallel()

	docs := map[string]string{
		"aliases": `{"tools": {"gs": "git status", "posixonly": {"posix": "grep --color=auto"}}}`,
	}
	_, pwsh := renderBoth(t, docs, render.Options{Mode: render.Lenient})

	if strings.Contains(pwsh, "posixonly") {
		t.Errorf("powershell output contains entry with no resolvable command:\n%s", pwsh)
	}
	if !strings.Contains(pwsh, "git status") {
		t.Errorf("powershell output missing resolvable sibling entry:\n%s", pwsh)
	}
}

func TestRender_StrictFailsOnUnresolvableEntry(t *testing.T) {
	t.Parallel()

	merged := loadMerged(t, map[string]string{
		"aliases": `{"tools": {"posixonly": {"posix": "grep --color=auto"}}}`,
	})
	r, err := render.New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = r.Render(merged, dialect.PowerShell, render.Options{Mode: render.Strict})
	var renderErr *render.Error
	if !errors.As(err, &renderErr) {
		t.Fatalf("Render() error = %v, want *render.Error", err)
	}
	if renderErr.Dialect != dialect.PowerShell {
		t.Errorf("Error.Dialect = %q, want %q", renderErr.Dialect, dialect.PowerShell)
	}
	if renderErr.Path != "aliases.tools.posixonly" {
		t.Errorf("Error.Path = %q, want %q", renderErr.Path, "aliases.tools.posixonly")
	}
}

func TestRender_Deterministic(t *testing.T) {
	t.Parallel()

	docs := map[string]string{
		"shared": `{"environment": {"Z_VAR": "z", "A_VAR": "a", "M_VAR": "m"}, "paths": ["~/bin", "~/tools"]}`,
		"aliases": `{"zcat": {"z1": "one", "a2": "two"}, "acat": {"x": "three"}}`,
	}
	opts := render.Options{ConfigStamp: time.Unix(1700000000, 0)}

	posix1, pwsh1 := renderBoth(t, docs, opts)
	posix2, pwsh2 := renderBoth(t, docs, opts)

	if posix1 != posix2 {
		t.Error("posix output differs between renders of identical input")
	}
	if pwsh1 != pwsh2 {
		t.Error("powershell output differs between renders of identical input")
	}

	// Source order, not lexicographic order.
	if zi, ai := strings.Index(posix1, "Z_VAR"), strings.Index(posix1, "A_VAR"); zi < 0 || ai < 0 || zi > ai {
		t.Errorf("environment exports out of source order (Z_VAR at %d, A_VAR at %d)", zi, ai)
	}
	if zi, ai := strings.Index(posix1, "# zcat"), strings.Index(posix1, "# acat"); zi < 0 || ai < 0 || zi > ai {
		t.Errorf("alias categories out of source order (zcat at %d, acat at %d)", zi, ai)
	}
}

func TestRender_ReplacementGuards(t *testing.T) {
	t.Parallel()

	docs := map[string]string{
		"shared": `{"features": {"banner": false}}`,
		"aliases": `{"misc": {"noop": "true"}}`,
		"integration": `{
			"modern_tools": {
				"replacements": {
					"cat": {"tool": "bat", "aliases": {"cat": "bat"}, "fallback": {"cat": "cat -n"}}
				}
			}
		}`,
	}
	posix, pwsh := renderBoth(t, docs, render.Options{})

	for _, want := range []string{
		"if command -v bat >/dev/null 2>&1; then",
		"alias cat=bat",
		"else",
		"alias cat='cat -n'",
		"fi",
	} {
		if !strings.Contains(posix, want) {
			t.Errorf("posix output missing %q:\n%s", want, posix)
		}
	}

	for _, want := range []string{
		"if (Get-Command bat -ErrorAction SilentlyContinue) {",
		"Set-Alias -Name cat -Value bat",
		"} else {",
		"function cat { cat -n @args }",
	} {
		if !strings.Contains(pwsh, want) {
			t.Errorf("powershell output missing %q:\n%s", want, pwsh)
		}
	}
}

func TestRender_FallbackOnlyReplacementUsesAbsentGuard(t *testing.T) {
	t.Parallel()

	docs := map[string]string{
		"integration": `{
			"modern_tools": {
				"replacements": {
					"grep": {"tool": "rg", "fallback": {"grep": "grep --color=auto"}}
				}
			}
		}`,
	}
	posix, _ := renderBoth(t, docs, render.Options{})

	if !strings.Contains(posix, "if ! command -v rg >/dev/null 2>&1; then") {
		t.Errorf("posix output missing negated guard:\n%s", posix)
	}
}

func TestRender_SpecialCDEmitsNoteOnly(t *testing.T) {
	t.Parallel()

	docs := map[string]string{
		"integration": `{
			"modern_tools": {
				"replacements": {
					"cd": {"tool": "zoxide", "aliases": {"cd": "z"}}
				}
			},
			"external_tools": {
				"auto_init": {"zoxide": "eval \"$(zoxide init {shell})\""}
			}
		}`,
	}
	posix, _ := renderBoth(t, docs, render.Options{})

	if !strings.Contains(posix, "# zoxide: directory-jump hooks installed by external tool init") {
		t.Errorf("posix output missing special-cd note:\n%s", posix)
	}
	if strings.Contains(posix, "alias cd=") {
		t.Errorf("posix output emitted an executable cd replacement:\n%s", posix)
	}
	if !strings.Contains(posix, "zoxide init bash") {
		t.Errorf("posix output missing shell placeholder expansion:\n%s", posix)
	}
}

func TestRender_FeatureFlagDisablesSection(t *testing.T) {
	t.Parallel()

	withBanner, _ := renderBoth(t, map[string]string{
		"shared": `{"banner": "ready"}`,
	}, render.Options{})
	if !strings.Contains(withBanner, "echo ready") {
		t.Errorf("banner enabled by default but missing:\n%s", withBanner)
	}

	withoutBanner, _ := renderBoth(t, map[string]string{
		"shared": `{"banner": "ready", "features": {"banner": false}}`,
	}, render.Options{})
	if strings.Contains(withoutBanner, "echo ready") {
		t.Errorf("banner emitted despite disabled feature:\n%s", withoutBanner)
	}
}

func TestRender_TrailerAlwaysPresent(t *testing.T) {
	t.Parallel()

	posix, pwsh := renderBoth(t, map[string]string{
		"shared": `{}`,
	}, render.Options{})

	if !strings.Contains(posix, `[ -f "$HOME/.profile.local" ] && . "$HOME/.profile.local"`) {
		t.Errorf("posix output missing local override hook:\n%s", posix)
	}
	if !strings.Contains(posix, "export DOTSMITH_LOADED=1") {
		t.Errorf("posix output missing loaded marker:\n%s", posix)
	}
	if !strings.Contains(pwsh, `$env:DOTSMITH_LOADED = "1"`) {
		t.Errorf("powershell output missing loaded marker:\n%s", pwsh)
	}
	if !strings.HasPrefix(posix, "#!/usr/bin/env bash") {
		t.Errorf("posix output missing shebang:\n%s", posix)
	}
	if strings.HasPrefix(pwsh, "#!") {
		t.Errorf("powershell output must not carry a shebang:\n%s", pwsh)
	}
}

func TestRender_HistoryMapping(t *testing.T) {
	t.Parallel()

	docs := map[string]string{
		"integration": `{"history": {"size": 50000, "file": "~/.history", "ignore_dups": true}}`,
	}
	posix, pwsh := renderBoth(t, docs, render.Options{})

	for _, want := range []string{
		`export HISTSIZE="50000"`,
		`export SAVEHIST="50000"`,
		`export HISTFILE="$HOME/.history"`,
		`export HISTCONTROL="ignoreboth"`,
	} {
		if !strings.Contains(posix, want) {
			t.Errorf("posix output missing %q:\n%s", want, posix)
		}
	}

	for _, want := range []string{
		"Set-PSReadLineOption -MaximumHistoryCount 50000",
		"Set-PSReadLineOption -HistoryNoDuplicates",
	} {
		if !strings.Contains(pwsh, want) {
			t.Errorf("powershell output missing %q:\n%s", want, pwsh)
		}
	}
	if strings.Contains(pwsh, "HISTFILE") {
		t.Error("powershell output carries a posix-only history variable")
	}
}

func TestRender_FunctionsPickDialectBody(t *testing.T) {
	t.Parallel()

	docs := map[string]string{
		"functions": `{
			"mkcd": {
				"description": "create a directory and enter it",
				"posix": "mkcd() { mkdir -p \"$1\" && cd \"$1\"; }",
				"powershell": "function mkcd { New-Item -ItemType Directory -Path $args[0] | Set-Location }"
			}
		}`,
	}
	posix, pwsh := renderBoth(t, docs, render.Options{})

	if !strings.Contains(posix, `mkcd() { mkdir -p "$1" && cd "$1"; }`) {
		t.Errorf("posix output missing function body:\n%s", posix)
	}
	if !strings.Contains(posix, "# create a directory and enter it") {
		t.Errorf("posix output missing function description:\n%s", posix)
	}
	if !strings.Contains(pwsh, "function mkcd { New-Item -ItemType Directory") {
		t.Errorf("powershell output missing function body:\n%s", pwsh)
	}
}

func TestRender_ConfigStampInHeader(t *testing.T) {
	t.Parallel()

	stamp := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	posix, _ := renderBoth(t, map[string]string{"shared": `{}`}, render.Options{ConfigStamp: stamp})

	if !strings.Contains(posix, "# Config timestamp: 2026-03-14T09:26:53Z") {
		t.Errorf("posix output missing config timestamp header:\n%s", posix)
	}
}

func TestBuildContext_Counts(t *testing.T) {
	t.Parallel()

	merged := loadMerged(t, map[string]string{
		"aliases":   `{"git": {"gs": "git status", "gl": "git log"}, "nav": {"..": "cd .."}}`,
		"functions": `{"mkcd": {"posix": "mkcd() { :; }", "powershell": "function mkcd {}"}}`,
	})

	ctx, err := render.BuildContext(merged, dialect.Posix, render.Options{})
	if err != nil {
		t.Fatalf("BuildContext() error = %v", err)
	}

	if got := ctx.EmittedAliasCount(); got != 3 {
		t.Errorf("EmittedAliasCount() = %d, want 3", got)
	}
	if got := ctx.EmittedFunctionCount(); got != 1 {
		t.Errorf("EmittedFunctionCount() = %d, want 1", got)
	}
}
