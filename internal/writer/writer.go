// SPDX-License-Identifier: MPL-2.0

package writer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"dotsmith/internal/dialect"
)

const (
	// artifactPerm is applied to rendered scripts. Profile scripts are
	// sourced, not executed, so no execute bit is needed.
	artifactPerm os.FileMode = 0o644

	dirPerm os.FileMode = 0o755

	// backupStamp keeps backup names sortable and filesystem-safe.
	backupStamp = "20060102T150405Z"
)

// ErrBackupFailed marks write aborts caused by a failed backup of the
// previous artifact. The original file is left untouched in that case.
var ErrBackupFailed = errors.New("backup of existing artifact failed")

// Artifact is one rendered script, queued for writing or describing a
// completed write.
type Artifact struct {
	Dialect dialect.Dialect

	// Text is the full rendered content.
	Text string

	// TargetPath is the destination the artifact was (or will be)
	// written to.
	TargetPath string

	// BackupPath is where the previous version of the target was moved,
	// or empty when no previous version existed.
	BackupPath string

	// Size is the written content length in bytes.
	Size int
}

// WriteError reports a failed artifact write with enough context to name
// the affected dialect and path.
type WriteError struct {
	Dialect dialect.Dialect
	Path    string
	Cause   error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing %s artifact to %s: %v", e.Dialect, e.Path, e.Cause)
}

func (e *WriteError) Unwrap() error {
	return e.Cause
}

// Writer persists artifacts under an output directory, keeping displaced
// versions under a backup directory.
type Writer struct {
	outputDir string
	backupDir string
	logger    *log.Logger

	// now is swappable for tests.
	now func() time.Time
}

// New returns a Writer rooted at outputDir. Backups of overwritten
// artifacts land in backupDir. A nil logger silences the writer.
func New(outputDir, backupDir string, logger *log.Logger) *Writer {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Writer{
		outputDir: outputDir,
		backupDir: backupDir,
		logger:    logger,
		now:       time.Now,
	}
}

// OutputDir reports the directory artifacts are written under.
func (w *Writer) OutputDir() string {
	return w.outputDir
}

// Write persists every artifact, filling in TargetPath, BackupPath and
// Size on the returned copies. Artifacts are written in the given order;
// the first failure stops the batch, leaving earlier artifacts in place.
func (w *Writer) Write(artifacts []Artifact) ([]Artifact, error) {
	written := make([]Artifact, 0, len(artifacts))
	for _, a := range artifacts {
		out, err := w.writeOne(a)
		if err != nil {
			return written, err
		}
		written = append(written, out)
	}
	return written, nil
}

func (w *Writer) writeOne(a Artifact) (Artifact, error) {
	target := a.TargetPath
	if target == "" {
		target = filepath.Join(w.outputDir, RelativePath(a.Dialect))
	}

	if err := os.MkdirAll(filepath.Dir(target), dirPerm); err != nil {
		return a, &WriteError{Dialect: a.Dialect, Path: target, Cause: err}
	}

	backup, err := w.backupExisting(target)
	if err != nil {
		return a, &WriteError{
			Dialect: a.Dialect,
			Path:    target,
			Cause:   fmt.Errorf("%w: %w", ErrBackupFailed, err),
		}
	}

	if err := atomicWrite(target, []byte(a.Text)); err != nil {
		return a, &WriteError{Dialect: a.Dialect, Path: target, Cause: err}
	}

	a.TargetPath = target
	a.BackupPath = backup
	a.Size = len(a.Text)

	w.logger.Info("wrote artifact",
		"dialect", a.Dialect,
		"path", target,
		"bytes", a.Size,
	)
	if backup != "" {
		w.logger.Info("backed up previous artifact", "path", backup)
	}
	return a, nil
}

// backupExisting moves the current file at target, if any, into the
// backup directory and returns the backup path. It must succeed before
// the target is touched.
func (w *Writer) backupExisting(target string) (string, error) {
	if _, err := os.Stat(target); err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}

	if err := os.MkdirAll(w.backupDir, dirPerm); err != nil {
		return "", err
	}

	stamp := w.now().UTC().Format(backupStamp)
	backup := filepath.Join(w.backupDir, fmt.Sprintf("%s.%s", filepath.Base(target), stamp))

	if err := os.Rename(target, backup); err != nil {
		// Rename fails across filesystems; fall back to copy then remove.
		if copyErr := copyFile(target, backup); copyErr != nil {
			return "", err
		}
		if rmErr := os.Remove(target); rmErr != nil {
			return "", rmErr
		}
	}
	return backup, nil
}

// atomicWrite writes data to a temporary file next to target, syncs it,
// and renames it into place so readers never observe a partial artifact.
func atomicWrite(target string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, artifactPerm); err != nil {
		return err
	}
	return os.Rename(tmpName, target)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, artifactPerm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// RelativePath reports the conventional location of a dialect's artifact
// relative to the output directory.
func RelativePath(d dialect.Dialect) string {
	switch d {
	case dialect.PowerShell:
		return filepath.Join("powershell", "Profile.ps1")
	default:
		return filepath.Join("posix", "profile.sh")
	}
}
