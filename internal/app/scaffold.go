package app

import (
	"errors"
	"io/fs"
	"iter"
	"os"
	"slices"

	"go.trai.ch/kiln/internal/adapters/description" //nolint:depguard // Scaffolding renders the description format
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/zerr"
)

// SourceWalker finds files below a directory by extension.
type SourceWalker interface {
	WalkSources(root string, exts []string, ignores []string) iter.Seq[string]
}

var (
	scaffoldExtensions = []string{".c", ".cc", ".cpp", ".cxx", ".f", ".f90", ".f95", ".f03", ".f08"}
	scaffoldIgnores    = []string{"obj", "bin", "node_modules", "vendor"}
)

// Init writes a starter build description with one executable named name,
// compiled from every source file below the current directory.
// It refuses to replace an existing description unless force is set.
func (a *App) Init(name string, force bool) ([]string, error) {
	if _, err := os.Stat(a.description); err == nil && !force {
		return nil, zerr.With(domain.ErrDescriptionExists, "path", a.description)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, zerr.With(zerr.Wrap(err, "failed to inspect build description"), "path", a.description)
	}

	sources := slices.Sorted(a.sources.WalkSources(".", scaffoldExtensions, scaffoldIgnores))

	data, err := description.Scaffold(name, sources)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(a.description, data, 0o644); err != nil { //nolint:gosec // Build descriptions are meant to be shared
		return nil, zerr.With(zerr.Wrap(err, "failed to write build description"), "path", a.description)
	}

	a.logger.Info("wrote " + a.description)
	return sources, nil
}
