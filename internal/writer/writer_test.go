// SPDX-License-Identifier: MPL-2.0

package writer_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dotsmith/internal/dialect"
	"dotsmith/internal/writer"
)

func TestWriter_WritesNewArtifacts(t *testing.T) {
	t.Parallel()

	outDir := t.TempDir()
	backupDir := filepath.Join(outDir, "backups")
	w := writer.New(outDir, backupDir, nil)

	written, err := w.Write([]writer.Artifact{
		{Dialect: dialect.Posix, Text: "echo posix\n"},
		{Dialect: dialect.PowerShell, Text: "Write-Host pwsh\n"},
	})
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if len(written) != 2 {
		t.Fatalf("Write() returned %d artifacts, want 2", len(written))
	}

	posixPath := filepath.Join(outDir, "posix", "profile.sh")
	if written[0].TargetPath != posixPath {
		t.Errorf("posix TargetPath = %q, want %q", written[0].TargetPath, posixPath)
	}
	if written[0].BackupPath != "" {
		t.Errorf("posix BackupPath = %q, want empty for a first write", written[0].BackupPath)
	}
	if written[0].Size != len("echo posix\n") {
		t.Errorf("posix Size = %d, want %d", written[0].Size, len("echo posix\n"))
	}

	data, err := os.ReadFile(posixPath)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "echo posix\n" {
		t.Errorf("written content = %q, want %q", data, "echo posix\n")
	}

	pwshPath := filepath.Join(outDir, "powershell", "Profile.ps1")
	if written[1].TargetPath != pwshPath {
		t.Errorf("powershell TargetPath = %q, want %q", written[1].TargetPath, pwshPath)
	}
}

func TestWriter_BacksUpExistingArtifact(t *testing.T) {
	t.Parallel()

	outDir := t.TempDir()
	backupDir := filepath.Join(outDir, "backups")
	w := writer.New(outDir, backupDir, nil)

	first := []writer.Artifact{{Dialect: dialect.Posix, Text: "version one\n"}}
	if _, err := w.Write(first); err != nil {
		t.Fatalf("first Write() error = %v", err)
	}

	second := []writer.Artifact{{Dialect: dialect.Posix, Text: "version two\n"}}
	written, err := w.Write(second)
	if err != nil {
		t.Fatalf("second Write() error = %v", err)
	}

	if written[0].BackupPath == "" {
		t.Fatal("BackupPath empty after overwriting an existing artifact")
	}
	if !strings.HasPrefix(filepath.Base(written[0].BackupPath), "profile.sh.") {
		t.Errorf("backup name = %q, want profile.sh.<stamp>", filepath.Base(written[0].BackupPath))
	}

	backup, err := os.ReadFile(written[0].BackupPath)
	if err != nil {
		t.Fatalf("ReadFile(backup) error = %v", err)
	}
	if string(backup) != "version one\n" {
		t.Errorf("backup content = %q, want the previous version", backup)
	}

	current, err := os.ReadFile(written[0].TargetPath)
	if err != nil {
		t.Fatalf("ReadFile(target) error = %v", err)
	}
	if string(current) != "version two\n" {
		t.Errorf("target content = %q, want the new version", current)
	}
}

func TestWriter_HonorsExplicitTargetPath(t *testing.T) {
	t.Parallel()

	outDir := t.TempDir()
	target := filepath.Join(outDir, "custom", "profile.sh")
	w := writer.New(outDir, filepath.Join(outDir, "backups"), nil)

	written, err := w.Write([]writer.Artifact{
		{Dialect: dialect.Posix, Text: "x\n", TargetPath: target},
	})
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if written[0].TargetPath != target {
		t.Errorf("TargetPath = %q, want %q", written[0].TargetPath, target)
	}
	if _, err := os.Stat(target); err != nil {
		t.Errorf("Stat(target) error = %v", err)
	}
}

func TestWriter_PruneBackups(t *testing.T) {
	t.Parallel()

	outDir := t.TempDir()
	backupDir := filepath.Join(outDir, "backups")
	if err := os.MkdirAll(backupDir, 0o755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}

	// Stamps sort lexicographically in creation order.
	names := []string{
		"profile.sh.20260101T000000Z",
		"profile.sh.20260102T000000Z",
		"profile.sh.20260103T000000Z",
		"Profile.ps1.20260101T000000Z",
	}
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(backupDir, name), []byte("old"), 0o644); err != nil {
			t.Fatalf("WriteFile(%s) error = %v", name, err)
		}
	}

	w := writer.New(outDir, backupDir, nil)
	if err := w.PruneBackups(2); err != nil {
		t.Fatalf("PruneBackups() error = %v", err)
	}

	remaining, err := os.ReadDir(backupDir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	got := make([]string, 0, len(remaining))
	for _, e := range remaining {
		got = append(got, e.Name())
	}
	if len(got) != 3 {
		t.Fatalf("remaining backups = %v, want 3 entries", got)
	}
	for _, name := range got {
		if name == "profile.sh.20260101T000000Z" {
			t.Errorf("oldest backup %q survived pruning", name)
		}
	}
}

func TestWriter_PruneDisabled(t *testing.T) {
	t.Parallel()

	w := writer.New(t.TempDir(), filepath.Join(t.TempDir(), "missing"), nil)
	if err := w.PruneBackups(0); err != nil {
		t.Errorf("PruneBackups(0) error = %v, want nil", err)
	}
}

func TestRelativePath(t *testing.T) {
	t.Parallel()

	if got := writer.RelativePath(dialect.Posix); got != filepath.Join("posix", "profile.sh") {
		t.Errorf("RelativePath(posix) = %q", got)
	}
	if got := writer.RelativePath(dialect.PowerShell); got != filepath.Join("powershell", "Profile.ps1") {
		t.Errorf("RelativePath(powershell) = %q", got)
	}
}
