// Package description loads kiln.yaml build descriptions into the target model.
package description

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.DescriptionLoader using a YAML file.
type Loader struct {
	Logger     ports.Logger
	Discoverer ports.Discoverer
}

// NewLoader creates a new Loader.
func NewLoader(logger ports.Logger, discoverer ports.Discoverer) *Loader {
	return &Loader{Logger: logger, Discoverer: discoverer}
}

// FindRoot returns the nearest directory at or above cwd holding a build description.
func FindRoot(cwd string) (string, error) {
	current := cwd
	for {
		if _, err := os.Stat(filepath.Join(current, ports.DescriptionFile)); err == nil {
			return current, nil
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", zerr.With(domain.ErrDescriptionNotFound, "cwd", cwd)
		}
		current = parent
	}
}

// Load reads the description at path and creates its targets.
// Targets are created first and dependencies resolved afterwards, so a
// target may depend on one declared later in the file.
func (l *Loader) Load(path string, settings *domain.Settings) (*domain.Registry, error) {
	kf, err := readKilnfile(path)
	if err != nil {
		return nil, err
	}

	reg := domain.NewRegistry(settings)
	for _, dto := range kf.Targets {
		if err := l.create(reg, dto); err != nil {
			return nil, zerr.With(err, "target", dto.Name)
		}
	}

	for _, dto := range kf.Targets {
		if err := resolveDeps(reg, dto); err != nil {
			return nil, zerr.With(err, "target", dto.Name)
		}
	}
	return reg, nil
}

func readKilnfile(path string) (*Kilnfile, error) {
	raw, err := os.ReadFile(path) //nolint:gosec // Path is the located build description
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read build description"), "path", path)
	}

	var kf Kilnfile
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&kf); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrInvalidDescription.Error()), "path", path)
	}

	if kf.Version != "" && kf.Version != "1" {
		return nil, zerr.With(zerr.With(domain.ErrInvalidDescription, "version", kf.Version), "path", path)
	}
	for i, dto := range kf.Targets {
		if dto == nil || dto.Name == "" {
			return nil, zerr.With(zerr.With(domain.ErrInvalidDescription, "reason", "target has no name"), "index", i)
		}
	}
	return &kf, nil
}

func (l *Loader) create(reg *domain.Registry, dto *TargetDTO) error {
	kind, err := domain.ParseKind(dto.Kind)
	if err != nil {
		return err
	}

	var t *domain.Target
	switch kind {
	case domain.KindSource:
		path := dto.Path
		if path == "" {
			path = dto.Name
		}
		t = reg.Source(path)
		if err := l.discover(reg, t, dto.Discover); err != nil {
			return err
		}

	case domain.KindObject:
		if len(dto.Sources) != 1 {
			return zerr.With(zerr.With(domain.ErrInvalidDescription, "reason", "an object has exactly one source"),
				"sources", len(dto.Sources))
		}
		t, err = l.object(reg, dto, dto.Sources[0])
		if err != nil {
			return err
		}

	case domain.KindGeneratedSource:
		t, err = l.generated(reg, dto)
		if err != nil {
			return err
		}

	case domain.KindSharedLibrary, domain.KindStaticLibrary, domain.KindExecutable:
		t, err = l.linked(reg, kind, dto)
		if err != nil {
			return err
		}
	}

	return reg.Declare(dto.Name, t)
}

func (l *Loader) object(reg *domain.Registry, dto *TargetDTO, source string) (*domain.Target, error) {
	src := reg.Source(source)
	if err := l.discover(reg, src, dto.Discover); err != nil {
		return nil, err
	}
	obj, err := reg.Object(src)
	if err != nil {
		return nil, err
	}
	obj.SetTool(dto.Compiler)
	applyLinks(obj, dto.Links)
	return obj, nil
}

func (l *Loader) generated(reg *domain.Registry, dto *TargetDTO) (*domain.Target, error) {
	if dto.Interface == "" {
		return nil, zerr.With(domain.ErrInvalidDescription, "reason", "a generated source needs an interface file")
	}
	if filepath.Ext(dto.Interface) != ".i" {
		l.Logger.Warn(fmt.Sprintf("interface file %s of %s does not end in .i", dto.Interface, dto.Name))
	}

	deps := make([]any, 0, len(dto.Sources)+len(dto.Inputs))
	for _, s := range append(append([]string{}, dto.Sources...), dto.Inputs...) {
		deps = append(deps, s)
	}
	gen, err := reg.Generated(dto.Interface, deps...)
	if err != nil {
		return nil, err
	}
	gen.SetLanguage(dto.Language)
	gen.SetCPlusPlus(dto.CPlusPlus)
	gen.AddGeneratorArgs(dto.Args...)
	return gen, nil
}

func (l *Loader) linked(reg *domain.Registry, kind domain.Kind, dto *TargetDTO) (*domain.Target, error) {
	deps := make([]any, 0, len(dto.Sources)+len(dto.Inputs))
	for _, s := range dto.Sources {
		obj, err := l.object(reg, &TargetDTO{Compiler: dto.Compiler, Discover: dto.Discover}, s)
		if err != nil {
			return nil, err
		}
		deps = append(deps, obj)
	}
	for _, in := range dto.Inputs {
		deps = append(deps, in)
	}

	var (
		t   *domain.Target
		err error
	)
	switch kind {
	case domain.KindSharedLibrary:
		t, err = reg.SharedLibrary(dto.Name, deps...)
	case domain.KindStaticLibrary:
		t, err = reg.StaticLibrary(dto.Name, deps...)
	default:
		t, err = reg.Executable(dto.Name, deps...)
	}
	if err != nil {
		return nil, err
	}
	t.SetTool(dto.Linker)
	applyLinks(t, dto.Links)
	return t, nil
}

func (l *Loader) discover(reg *domain.Registry, src *domain.Target, mode string) error {
	switch strings.ToLower(mode) {
	case DiscoverNone:
		return nil
	case "", DiscoverDirect:
		_, err := l.Discoverer.Discover(reg, src)
		return err
	case DiscoverTransitive:
		_, err := l.Discoverer.DiscoverTransitive(reg, src)
		return err
	default:
		return zerr.With(zerr.With(domain.ErrInvalidDescription, "discover", mode),
			"known", []string{DiscoverNone, DiscoverDirect, DiscoverTransitive})
	}
}

func applyLinks(t *domain.Target, links []LinkDTO) {
	for _, link := range links {
		if link.Static {
			t.LinkStatic(link.Name)
		} else {
			t.LinkShared(link.Name)
		}
	}
}

func resolveDeps(reg *domain.Registry, dto *TargetDTO) error {
	if len(dto.Deps) == 0 {
		return nil
	}
	t, err := reg.Lookup(dto.Name)
	if err != nil {
		return err
	}
	if t.Kind() == domain.KindObject {
		return zerr.With(domain.ErrInvalidDescription, "reason", "an object depends only on its source")
	}

	deps := make([]any, 0, len(dto.Deps))
	for _, ref := range dto.Deps {
		if ref.Nested != nil {
			deps = append(deps, ref.Nested)
			continue
		}
		dep, err := reg.Lookup(ref.Name)
		if err != nil {
			return zerr.With(err, "dependency", ref.Name)
		}
		deps = append(deps, dep)
	}
	return reg.AddDependencies(t, deps...)
}

// Scaffold renders a starter description with one executable built from sources.
func Scaffold(name string, sources []string) ([]byte, error) {
	kf := Kilnfile{
		Version: "1",
		Targets: []*TargetDTO{{
			Name:    name,
			Kind:    domain.KindExecutable.String(),
			Sources: sources,
		}},
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&kf); err != nil {
		return nil, zerr.Wrap(err, "failed to render build description")
	}
	if err := enc.Close(); err != nil {
		return nil, zerr.Wrap(err, "failed to render build description")
	}
	return buf.Bytes(), nil
}
