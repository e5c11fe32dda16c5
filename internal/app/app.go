// Package app implements the application layer for kiln.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.trai.ch/kiln/internal/adapters/description" //nolint:depguard // Project lookup follows the description format
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/engine/driver"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	loader      ports.DescriptionLoader
	store       ports.SettingsStore
	driver      *driver.Driver
	telemetry   ports.Telemetry
	logger      ports.Logger
	sources     SourceWalker
	description string
}

// New creates a new App instance.
func New(
	loader ports.DescriptionLoader,
	store ports.SettingsStore,
	drv *driver.Driver,
	telemetry ports.Telemetry,
	logger ports.Logger,
	sources SourceWalker,
) *App {
	return &App{
		loader:      loader,
		store:       store,
		driver:      drv,
		telemetry:   telemetry,
		logger:      logger,
		sources:     sources,
		description: ports.DescriptionFile,
	}
}

// WithDescription makes later calls read the build description at path.
func (a *App) WithDescription(path string) *App {
	a.description = path
	return a
}

// EnterProject changes into the directory of the build description and returns it.
// With an explicit file that file is used; otherwise the nearest kiln.yaml at
// or above the working directory is.
func (a *App) EnterProject(file string) (string, error) {
	var dir string
	if file != "" {
		abs, err := filepath.Abs(file)
		if err != nil {
			return "", zerr.With(zerr.Wrap(err, "failed to resolve build description"), "path", file)
		}
		if _, err := os.Stat(abs); err != nil {
			return "", zerr.With(domain.ErrDescriptionNotFound, "path", file)
		}
		dir = filepath.Dir(abs)
		a.description = filepath.Base(abs)
	} else {
		cwd, err := os.Getwd()
		if err != nil {
			return "", zerr.Wrap(err, "failed to get working directory")
		}
		if dir, err = description.FindRoot(cwd); err != nil {
			return "", err
		}
	}

	if err := os.Chdir(dir); err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to enter project directory"), "dir", dir)
	}
	return dir, nil
}

// Project is a loaded build description together with its settings and toolchain.
type Project struct {
	Registry  *domain.Registry
	Settings  *domain.Settings
	Toolchain *domain.Toolchain
}

// Load reads the settings file and the build description of the current directory.
func (a *App) Load() (*Project, error) {
	settings, tc, err := a.store.Load(".")
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load settings")
	}

	reg, err := a.loader.Load(a.description, settings)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load build description")
	}

	return &Project{Registry: reg, Settings: settings, Toolchain: tc}, nil
}

// Resolve returns the named targets, or the roots of the description when names is empty.
func (p *Project) Resolve(names []string) ([]*domain.Target, error) {
	if len(names) == 0 {
		return p.Registry.Roots(), nil
	}

	targets := make([]*domain.Target, 0, len(names))
	for _, name := range names {
		t, err := p.Registry.Lookup(name)
		if err != nil {
			return nil, err
		}
		targets = append(targets, t)
	}
	return targets, nil
}

// Build brings the named targets up to date.
func (a *App) Build(ctx context.Context, names []string, opts driver.Options) (err error) {
	p, err := a.Load()
	if err != nil {
		return err
	}
	targets, err := p.Resolve(names)
	if err != nil {
		return err
	}

	defer func() {
		if closeErr := a.telemetry.Close(); closeErr != nil {
			err = errors.Join(err, zerr.Wrap(closeErr, "failed to close telemetry"))
		}
	}()

	for _, t := range targets {
		if err := a.driver.Build(ctx, p.Toolchain, t, opts); err != nil {
			return zerr.With(zerr.Wrap(err, "build failed"), "root", p.Registry.NameOf(t))
		}
	}

	a.logger.Info(summarize(a.driver.Statuses()))
	return nil
}

// Clean removes the artifacts of the named targets.
func (a *App) Clean(ctx context.Context, names []string) error {
	p, err := a.Load()
	if err != nil {
		return err
	}
	targets, err := p.Resolve(names)
	if err != nil {
		return err
	}

	for _, t := range targets {
		if err := a.driver.Clean(ctx, t); err != nil {
			return zerr.With(zerr.Wrap(err, "clean failed"), "root", p.Registry.NameOf(t))
		}
	}
	return nil
}

// Plan returns the steps a build of the named targets would take.
func (a *App) Plan(names []string, opts driver.Options) ([]driver.Step, error) {
	p, err := a.Load()
	if err != nil {
		return nil, err
	}
	targets, err := p.Resolve(names)
	if err != nil {
		return nil, err
	}

	var steps []driver.Step
	for _, t := range targets {
		planned, err := a.driver.Plan(p.Toolchain, t, opts)
		if err != nil {
			return nil, zerr.With(err, "root", p.Registry.NameOf(t))
		}
		steps = append(steps, planned...)
	}
	return steps, nil
}

// Flatten returns the flattened build sequence of the named target.
func (a *App) Flatten(name string) ([]*domain.Target, error) {
	p, err := a.Load()
	if err != nil {
		return nil, err
	}
	t, err := p.Registry.Lookup(name)
	if err != nil {
		return nil, err
	}
	return domain.Flatten(t)
}

// ListEntry describes one target for listing.
type ListEntry struct {
	Name      string
	Kind      domain.Kind
	Path      string
	OutOfDate bool
}

// List describes the declared targets, or every target when all is set.
// A target is out of date when building it would run at least one step.
func (a *App) List(all bool) ([]ListEntry, error) {
	p, err := a.Load()
	if err != nil {
		return nil, err
	}

	targets := p.Registry.Declared()
	if all {
		targets = p.Registry.Targets()
	}

	entries := make([]ListEntry, 0, len(targets))
	for _, t := range targets {
		steps, err := a.driver.Plan(p.Toolchain, t, driver.Options{})
		if err != nil {
			return nil, zerr.With(err, "target", p.Registry.NameOf(t))
		}
		entries = append(entries, ListEntry{
			Name:      p.Registry.NameOf(t),
			Kind:      t.Kind(),
			Path:      t.Path(),
			OutOfDate: len(steps) > 0,
		})
	}
	return entries, nil
}

func summarize(statuses map[string]driver.StepStatus) string {
	built, touched := 0, 0
	for _, s := range statuses {
		switch s {
		case driver.StatusBuilt:
			built++
		case driver.StatusTouched:
			touched++
		}
	}

	switch {
	case built == 0 && touched == 0:
		return "everything is up to date"
	case touched == 0:
		return fmt.Sprintf("built %d target(s)", built)
	default:
		return fmt.Sprintf("built %d target(s), touched %d source(s)", built, touched)
	}
}
