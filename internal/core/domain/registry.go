package domain

import (
	"fmt"
	"path/filepath"
	"slices"

	"go.trai.ch/zerr"
)

const expandHint = "a list was passed where a single dependency was expected; " +
	"expand it into individual dependencies"

// Registry creates targets and keeps every target created through it.
// It is owned by the caller and lives for one invocation.
type Registry struct {
	settings *Settings
	targets  []*Target
	declared []*Target
	byName   map[string]*Target
}

// NewRegistry returns an empty registry whose targets read from settings.
func NewRegistry(settings *Settings) *Registry {
	if settings == nil {
		settings = NewSettings()
	}
	return &Registry{
		settings: settings,
		byName:   make(map[string]*Target),
	}
}

// Settings returns the settings shared by every target of r.
func (r *Registry) Settings() *Settings {
	return r.settings
}

// Targets returns every target created so far, in creation order.
func (r *Registry) Targets() []*Target {
	return slices.Clone(r.targets)
}

// Source creates a source target for path.
func (r *Registry) Source(path string) *Target {
	return r.add(&Target{
		kind:     KindSource,
		name:     path,
		source:   path,
		settings: r.settings,
	})
}

// Object creates an object compiled from src, which is a source target or a path.
func (r *Registry) Object(src any) (*Target, error) {
	deps, err := r.normalize([]any{src})
	if err != nil {
		return nil, err
	}
	s := deps[0]
	if s.kind != KindSource {
		return nil, zerr.With(zerr.With(ErrMalformedDependency, "dependency", s.String()),
			"reason", "an object is compiled from a source")
	}
	return r.add(&Target{
		kind:     KindObject,
		name:     filepath.Base(s.source),
		source:   s.source,
		settings: r.settings,
		children: []*Target{s},
		tool:     DefaultCompiler,
	}), nil
}

// Generated creates a generated source from the interface file iface.
func (r *Registry) Generated(iface string, deps ...any) (*Target, error) {
	children, err := r.normalize(deps)
	if err != nil {
		return nil, err
	}
	return r.add(&Target{
		kind:     KindGeneratedSource,
		name:     iface,
		settings: r.settings,
		children: children,
		tool:     DefaultGenerator,
		gen:      &generation{iface: iface},
	}), nil
}

// SharedLibrary creates a shared library named name.
func (r *Registry) SharedLibrary(name string, deps ...any) (*Target, error) {
	return r.linked(KindSharedLibrary, name, deps)
}

// StaticLibrary creates a static library named name.
func (r *Registry) StaticLibrary(name string, deps ...any) (*Target, error) {
	return r.linked(KindStaticLibrary, name, deps)
}

// Executable creates an executable named name.
func (r *Registry) Executable(name string, deps ...any) (*Target, error) {
	return r.linked(KindExecutable, name, deps)
}

// AddDependencies appends deps to t after construction.
// Build descriptions use it to resolve references declared out of order.
func (r *Registry) AddDependencies(t *Target, deps ...any) error {
	children, err := r.normalize(deps)
	if err != nil {
		return err
	}
	t.children = append(t.children, children...)
	return nil
}

// AttachSources adds a source child to t for every path t does not already
// depend on, and returns the sources it added. Paths are compared in clean form.
func (r *Registry) AttachSources(t *Target, paths ...string) []*Target {
	seen := make(map[string]struct{}, len(t.children))
	for _, c := range t.children {
		seen[filepath.Clean(c.Path())] = struct{}{}
	}
	var fresh []*Target
	for _, p := range paths {
		key := filepath.Clean(p)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		fresh = append(fresh, r.Source(p))
	}
	return t.AppendUnseen(fresh...)
}

// Declare binds a user-facing name to t.
func (r *Registry) Declare(name string, t *Target) error {
	if _, exists := r.byName[name]; exists {
		return zerr.With(ErrDuplicateTarget, "target", name)
	}
	r.byName[name] = t
	r.declared = append(r.declared, t)
	return nil
}

// Lookup returns the target declared under name.
func (r *Registry) Lookup(name string) (*Target, error) {
	t, ok := r.byName[name]
	if !ok {
		return nil, zerr.With(ErrTargetNotFound, "target", name)
	}
	return t, nil
}

// Declared returns the declared targets in declaration order.
func (r *Registry) Declared() []*Target {
	return slices.Clone(r.declared)
}

// NameOf returns the name t was declared under, falling back to its own name.
func (r *Registry) NameOf(t *Target) string {
	for name, d := range r.byName {
		if d == t {
			return name
		}
	}
	return t.name
}

// Roots returns the declared targets no other target depends on.
// Without declarations, every created target is a candidate.
func (r *Registry) Roots() []*Target {
	referenced := make(map[*Target]bool)
	for _, t := range r.targets {
		for _, c := range t.children {
			referenced[c] = true
		}
	}

	candidates := r.declared
	if len(candidates) == 0 {
		candidates = r.targets
	}
	var roots []*Target
	for _, t := range candidates {
		if !referenced[t] {
			roots = append(roots, t)
		}
	}
	return roots
}

func (r *Registry) linked(kind Kind, name string, deps []any) (*Target, error) {
	children, err := r.normalize(deps)
	if err != nil {
		return nil, err
	}
	return r.add(&Target{
		kind:     kind,
		name:     name,
		settings: r.settings,
		children: children,
		tool:     DefaultLinker,
	}), nil
}

func (r *Registry) add(t *Target) *Target {
	r.targets = append(r.targets, t)
	return t
}

// normalize turns dependency arguments into targets. A string names a source file.
func (r *Registry) normalize(deps []any) ([]*Target, error) {
	out := make([]*Target, 0, len(deps))
	for i, d := range deps {
		switch v := d.(type) {
		case *Target:
			if v == nil {
				return nil, zerr.With(ErrMalformedDependency, "index", i)
			}
			out = append(out, v)
		case string:
			out = append(out, r.Source(v))
		case []*Target, []string, []any:
			return nil, zerr.With(zerr.With(ErrMalformedDependency, "index", i), "hint", expandHint)
		default:
			return nil, zerr.With(zerr.With(ErrMalformedDependency, "index", i), "type", fmt.Sprintf("%T", d))
		}
	}
	return out, nil
}
