package fs

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/zerr"
)

const dirPerm = 0o750

// Workspace applies build side effects to the local filesystem.
type Workspace struct {
	now func() time.Time
}

// NewWorkspace creates a new Workspace.
func NewWorkspace() *Workspace {
	return &Workspace{now: time.Now}
}

// EnsureDir creates dir and any missing parents.
func (w *Workspace) EnsureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create directory"), "dir", dir)
	}
	return nil
}

// Remove deletes path, then removes each parent directory that is left empty.
func (w *Workspace) Remove(path string) (bool, error) {
	err := os.Remove(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	case err != nil:
		return false, zerr.With(zerr.Wrap(err, "failed to remove file"), "path", path)
	}
	return true, w.prune(filepath.Dir(path))
}

// prune walks up from dir removing empty directories.
func (w *Workspace) prune(dir string) error {
	for {
		clean := filepath.Clean(dir)
		if clean == "." || clean == string(filepath.Separator) || clean == filepath.VolumeName(clean)+string(filepath.Separator) {
			return nil
		}

		entries, err := os.ReadDir(clean)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return zerr.With(zerr.Wrap(err, "failed to read directory"), "dir", clean)
		}
		if len(entries) > 0 {
			return nil
		}
		if err == nil {
			if rmErr := os.Remove(clean); rmErr != nil {
				return zerr.With(zerr.Wrap(rmErr, "failed to remove directory"), "dir", clean)
			}
		}

		parent := filepath.Dir(clean)
		if parent == clean {
			return nil
		}
		dir = parent
	}
}

// Touch creates path and its parents if needed and sets its modification time to now.
func (w *Workspace) Touch(path string) error {
	if err := w.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644) //nolint:gosec // Build outputs are not secrets
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to touch file"), "path", path)
	}
	if err := f.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to touch file"), "path", path)
	}

	now := w.now()
	if err := os.Chtimes(path, now, now); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to update timestamp"), "path", path)
	}
	return nil
}
