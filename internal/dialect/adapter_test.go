// SPDX-License-Identifier: MPL-2.0

package dialect_test

import (
	"testing"

	"dotsmith/internal/dialect"
)

func mustAdapter(t *testing.T, d dialect.Dialect) *dialect.Adapter {
	t.Helper()
	a, err := dialect.NewAdapter(d)
	if err != nil {
		t.Fatalf("NewAdapter(%q) error = %v", d, err)
	}
	return a
}

func TestNewAdapter_RejectsUnknownDialect(t *testing.T) {
	t.Parallel()

	if _, err := dialect.NewAdapter(dialect.Dialect("csh")); err == nil {
		t.Error("NewAdapter(csh) error = nil, want non-nil")
	}
}

func TestAdapter_Quote(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		d    dialect.Dialect
		in   string
		want string
	}{
		{name: "posix plain word", d: dialect.Posix, in: "vim", want: "vim"},
		{name: "posix spaces", d: dialect.Posix, in: "git status", want: "'git status'"},
		{name: "posix single quote", d: dialect.Posix, in: "it's", want: `"it's"`},
		{name: "pwsh plain", d: dialect.PowerShell, in: "vim", want: "'vim'"},
		{name: "pwsh embedded quote doubled", d: dialect.PowerShell, in: "it's", want: "'it''s'"},
		{name: "pwsh dollar not interpolated", d: dialect.PowerShell, in: "$HOME", want: "'$HOME'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := mustAdapter(t, tt.d).Quote(tt.in)
			if err != nil {
				t.Fatalf("Quote(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("Quote(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestAdapter_Alias(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		d       dialect.Dialect
		alias   string
		command string
		want    string
	}{
		{
			name:    "posix alias is quoted",
			d:       dialect.Posix,
			alias:   "..",
			command: "cd ..",
			want:    "alias ..='cd ..'",
		},
		{
			name:    "pwsh single word uses Set-Alias",
			d:       dialect.PowerShell,
			alias:   "g",
			command: "git",
			want:    "Set-Alias -Name g -Value git",
		},
		{
			name:    "pwsh multi word becomes function",
			d:       dialect.PowerShell,
			alias:   "..",
			command: "cd ..",
			want:    "function .. { cd .. @args }",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := mustAdapter(t, tt.d).Alias(tt.alias, tt.command)
			if err != nil {
				t.Fatalf("Alias() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Alias(%q, %q) = %q, want %q", tt.alias, tt.command, got, tt.want)
			}
		})
	}
}

func TestAdapter_OverrideAlias(t *testing.T) {
	t.Parallel()

	// PowerShell resolves functions before aliases, so shadowing a name
	// the shell already binds must go through a function.
	got, err := mustAdapter(t, dialect.PowerShell).OverrideAlias("ls", "eza")
	if err != nil {
		t.Fatalf("OverrideAlias() error = %v", err)
	}
	if want := "function ls { eza @args }"; got != want {
		t.Errorf("OverrideAlias(ls, eza) = %q, want %q", got, want)
	}

	got, err = mustAdapter(t, dialect.Posix).OverrideAlias("ls", "eza")
	if err != nil {
		t.Fatalf("OverrideAlias() error = %v", err)
	}
	if want := "alias ls=eza"; got != want {
		t.Errorf("OverrideAlias(ls, eza) = %q, want %q", got, want)
	}
}

func TestAdapter_FunctionDef(t *testing.T) {
	t.Parallel()

	posix := mustAdapter(t, dialect.Posix).FunctionDef("ll", "ls -la")
	if want := `ll() { ls -la "$@"; }`; posix != want {
		t.Errorf("posix FunctionDef = %q, want %q", posix, want)
	}

	pwsh := mustAdapter(t, dialect.PowerShell).FunctionDef("ll", "Get-ChildItem -Force")
	if want := "function ll { Get-ChildItem -Force @args }"; pwsh != want {
		t.Errorf("pwsh FunctionDef = %q, want %q", pwsh, want)
	}
}

func TestAdapter_ExportAndPath(t *testing.T) {
	t.Parallel()

	posix := mustAdapter(t, dialect.Posix)
	pwsh := mustAdapter(t, dialect.PowerShell)

	if got, want := posix.Export("EDITOR", "vim"), `export EDITOR="vim"`; got != want {
		t.Errorf("posix Export = %q, want %q", got, want)
	}
	if got, want := pwsh.Export("EDITOR", "vim"), `$env:EDITOR = "vim"`; got != want {
		t.Errorf("pwsh Export = %q, want %q", got, want)
	}

	if got, want := posix.PathPrepend("~/bin"), `export PATH="$HOME/bin:$PATH"`; got != want {
		t.Errorf("posix PathPrepend = %q, want %q", got, want)
	}
	if got, want := pwsh.PathPrepend("~/bin"), `$env:Path = "$env:USERPROFILE/bin;" + $env:Path`; got != want {
		t.Errorf("pwsh PathPrepend = %q, want %q", got, want)
	}
}

func TestAdapter_Guards(t *testing.T) {
	t.Parallel()

	posix := mustAdapter(t, dialect.Posix)
	pwsh := mustAdapter(t, dialect.PowerShell)

	if got, want := posix.GuardOpen("eza"), "if command -v eza >/dev/null 2>&1; then"; got != want {
		t.Errorf("posix GuardOpen = %q, want %q", got, want)
	}
	if got, want := posix.GuardOpenAbsent("eza"), "if ! command -v eza >/dev/null 2>&1; then"; got != want {
		t.Errorf("posix GuardOpenAbsent = %q, want %q", got, want)
	}
	if got, want := posix.GuardElse(), "else"; got != want {
		t.Errorf("posix GuardElse = %q, want %q", got, want)
	}
	if got, want := posix.GuardClose(), "fi"; got != want {
		t.Errorf("posix GuardClose = %q, want %q", got, want)
	}

	if got, want := pwsh.GuardOpen("eza"), "if (Get-Command eza -ErrorAction SilentlyContinue) {"; got != want {
		t.Errorf("pwsh GuardOpen = %q, want %q", got, want)
	}
	if got, want := pwsh.GuardOpenAbsent("eza"), "if (-not (Get-Command eza -ErrorAction SilentlyContinue)) {"; got != want {
		t.Errorf("pwsh GuardOpenAbsent = %q, want %q", got, want)
	}
	if got, want := pwsh.GuardElse(), "} else {"; got != want {
		t.Errorf("pwsh GuardElse = %q, want %q", got, want)
	}
	if got, want := pwsh.GuardClose(), "}"; got != want {
		t.Errorf("pwsh GuardClose = %q, want %q", got, want)
	}
}

func TestAdapter_ExpandPlaceholders(t *testing.T) {
	t.Parallel()

	posix := mustAdapter(t, dialect.Posix)
	pwsh := mustAdapter(t, dialect.PowerShell)

	if got, want := posix.Expand("zoxide init {shell}"), "zoxide init bash"; got != want {
		t.Errorf("posix Expand = %q, want %q", got, want)
	}
	if got, want := pwsh.Expand("zoxide init {shell}"), "zoxide init powershell"; got != want {
		t.Errorf("pwsh Expand = %q, want %q", got, want)
	}
	if got, want := posix.Expand("{home}/bin{sep}{home}/tools"), "$HOME/bin:$HOME/tools"; got != want {
		t.Errorf("posix Expand = %q, want %q", got, want)
	}
	if got, want := pwsh.ExpandPath("~/notes"), "$env:USERPROFILE/notes"; got != want {
		t.Errorf("pwsh ExpandPath = %q, want %q", got, want)
	}
}

func TestAdapter_MiscStatements(t *testing.T) {
	t.Parallel()

	posix := mustAdapter(t, dialect.Posix)
	pwsh := mustAdapter(t, dialect.PowerShell)

	if got, want := posix.AutoInit("direnv", `eval "$(direnv hook bash)"`), `command -v direnv >/dev/null 2>&1 && eval "$(direnv hook bash)"`; got != want {
		t.Errorf("posix AutoInit = %q, want %q", got, want)
	}
	if got, want := pwsh.AutoInit("zoxide", "zoxide init powershell | Invoke-Expression"), "if (Get-Command zoxide -ErrorAction SilentlyContinue) { zoxide init powershell | Invoke-Expression }"; got != want {
		t.Errorf("pwsh AutoInit = %q, want %q", got, want)
	}

	if got, want := posix.SourceIfExists("~/.profile.local"), `[ -f "$HOME/.profile.local" ] && . "$HOME/.profile.local"`; got != want {
		t.Errorf("posix SourceIfExists = %q, want %q", got, want)
	}
	if got, want := pwsh.SourceIfExists("~/Profile.local.ps1"), `if (Test-Path "$env:USERPROFILE/Profile.local.ps1") { . "$env:USERPROFILE/Profile.local.ps1" }`; got != want {
		t.Errorf("pwsh SourceIfExists = %q, want %q", got, want)
	}

	if got, want := posix.SetMarker("DOTSMITH_LOADED"), "export DOTSMITH_LOADED=1"; got != want {
		t.Errorf("posix SetMarker = %q, want %q", got, want)
	}
	if got, want := pwsh.SetMarker("DOTSMITH_LOADED"), `$env:DOTSMITH_LOADED = "1"`; got != want {
		t.Errorf("pwsh SetMarker = %q, want %q", got, want)
	}
}
