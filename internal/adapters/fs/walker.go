package fs

import (
	"io/fs"
	"iter"
	"path/filepath"
	"slices"
	"strings"
)

// Walker finds source files below a directory.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkSources yields the files below root whose extension is in exts, skipping
// VCS metadata and any directory matching one of ignores.
func (w *Walker) WalkSources(root string, exts []string, ignores []string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil //nolint:nilerr // Unreadable entries are skipped
			}

			if d.IsDir() {
				if path != root && w.skipDir(d.Name(), ignores) {
					return filepath.SkipDir
				}
				return nil
			}

			if !slices.Contains(exts, strings.ToLower(filepath.Ext(path))) {
				return nil
			}
			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

func (w *Walker) skipDir(name string, ignores []string) bool {
	if name == ".git" || name == ".jj" {
		return true
	}
	for _, ignore := range ignores {
		if matched, _ := filepath.Match(ignore, name); matched {
			return true
		}
	}
	return false
}
