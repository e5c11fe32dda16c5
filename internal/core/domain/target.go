// Package domain contains the build target model, the staleness rules and the flattening algorithm.
package domain

import (
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// Kind tags the variant of a Target.
type Kind int

// Target variants.
const (
	KindSource Kind = iota
	KindObject
	KindGeneratedSource
	KindSharedLibrary
	KindStaticLibrary
	KindExecutable
)

var kindNames = [...]string{
	KindSource:          "source",
	KindObject:          "object",
	KindGeneratedSource: "generated",
	KindSharedLibrary:   "shared",
	KindStaticLibrary:   "static",
	KindExecutable:      "executable",
}

// String returns the name used for the kind in build descriptions.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// ParseKind resolves a kind name.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return Kind(k), nil
		}
	}
	return 0, zerr.With(zerr.With(ErrUnknownKind, "kind", s), "known", kindNames[:])
}

// IsLinked reports whether targets of this kind are linked objects.
// Flattening treats linked objects as opaque: it never descends into them from a parent.
func (k Kind) IsLinked() bool {
	switch k {
	case KindSharedLibrary, KindStaticLibrary, KindExecutable:
		return true
	default:
		return false
	}
}

// Default toolchain functions used when a target does not name one.
const (
	DefaultCompiler  = "c"
	DefaultLinker    = "link"
	DefaultGenerator = "swig"
)

// LinkRequest asks the linker to pull in a library.
type LinkRequest struct {
	Library string
	Static  bool
}

// Args returns the command-line form of the request.
func (l LinkRequest) Args() []string {
	if l.Static {
		return []string{"-static", "-l" + l.Library}
	}
	return []string{"-l" + l.Library}
}

// generation carries the generator parameters of a generated source.
type generation struct {
	iface     string
	language  string
	cplusplus bool
	args      []string
}

// Target is a node in the build graph.
type Target struct {
	kind     Kind
	name     string
	source   string
	settings *Settings
	children []*Target
	links    []LinkRequest
	tool     string
	gen      *generation
}

// Kind returns the variant of t.
func (t *Target) Kind() Kind { return t.kind }

// Name returns the identifier of t.
func (t *Target) Name() string { return t.name }

// Tool returns the toolchain function that builds t. Sources have none.
func (t *Target) Tool() string { return t.tool }

// SetTool changes the toolchain function that builds t.
func (t *Target) SetTool(function string) {
	if t.kind == KindSource || function == "" {
		return
	}
	t.tool = function
}

// Children returns a copy of the ordered children of t.
func (t *Target) Children() []*Target {
	return slices.Clone(t.children)
}

// Links returns the link requests recorded on t.
func (t *Target) Links() []LinkRequest {
	return slices.Clone(t.links)
}

// LinkShared records a request to link lib dynamically.
func (t *Target) LinkShared(lib string) {
	t.links = append(t.links, LinkRequest{Library: lib})
}

// LinkStatic records a request to link lib statically.
func (t *Target) LinkStatic(lib string) {
	t.links = append(t.links, LinkRequest{Library: lib, Static: true})
}

// Path returns the file t produces, or the file it is for a source.
// The result is derived from the current settings on every call.
func (t *Target) Path() string {
	switch t.kind {
	case KindSource:
		return t.source
	case KindObject:
		return filepath.Join(t.settings.Get(SettingObjectDir), t.source+t.settings.Get(SettingObjectExt))
	case KindGeneratedSource:
		return t.gen.base() + "_wrap." + t.gen.outputExt()
	case KindSharedLibrary:
		return filepath.Join(t.settings.Get(SettingSharedLibraryDir), t.name+t.settings.Get(SettingSharedLibraryExt))
	case KindStaticLibrary:
		return filepath.Join(t.settings.Get(SettingStaticLibraryDir), t.name+t.settings.Get(SettingStaticLibraryExt))
	case KindExecutable:
		return filepath.Join(t.settings.Get(SettingExecDir), t.name+t.settings.Get(SettingExecExt))
	default:
		return ""
	}
}

// Source returns the source file of an object, or "" for other kinds.
func (t *Target) Source() string {
	if t.kind != KindObject {
		return ""
	}
	return t.source
}

// Header returns the header emitted next to a generated source, or "".
func (t *Target) Header() string {
	if t.kind != KindGeneratedSource {
		return ""
	}
	return t.gen.base() + "_wrap.h"
}

// Companions returns the files a build of t writes besides Path.
func (t *Target) Companions() []string {
	if t.kind == KindGeneratedSource {
		return []string{t.Header()}
	}
	return nil
}

// Interface returns the interface file of a generated source, or "".
func (t *Target) Interface() string {
	if t.gen == nil {
		return ""
	}
	return t.gen.iface
}

// Language returns the generator's target language.
func (t *Target) Language() string {
	if t.gen == nil {
		return ""
	}
	return t.gen.language
}

// SetLanguage selects the generator's target language, e.g. "python".
func (t *Target) SetLanguage(lang string) {
	if t.gen != nil {
		t.gen.language = lang
	}
}

// CPlusPlus reports whether the generator runs in C++ mode.
func (t *Target) CPlusPlus() bool {
	return t.gen != nil && t.gen.cplusplus
}

// SetCPlusPlus switches the generator between C and C++ mode.
func (t *Target) SetCPlusPlus(on bool) {
	if t.gen != nil {
		t.gen.cplusplus = on
	}
}

// GeneratorArgs returns the extra generator arguments in order.
func (t *Target) GeneratorArgs() []string {
	if t.gen == nil {
		return nil
	}
	return slices.Clone(t.gen.args)
}

// AddGeneratorArgs appends extra generator arguments.
func (t *Target) AddGeneratorArgs(args ...string) {
	if t.gen != nil {
		t.gen.args = append(t.gen.args, args...)
	}
}

// AppendUnseen appends the children whose clean paths t does not already have,
// and returns the ones it appended.
func (t *Target) AppendUnseen(children ...*Target) []*Target {
	seen := make(map[string]struct{}, len(t.children))
	for _, c := range t.children {
		seen[filepath.Clean(c.Path())] = struct{}{}
	}

	var added []*Target
	for _, c := range children {
		p := filepath.Clean(c.Path())
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		t.children = append(t.children, c)
		added = append(added, c)
	}
	return added
}

// String returns a short description of t.
func (t *Target) String() string {
	return t.kind.String() + " " + t.name
}

func (g *generation) base() string {
	return strings.TrimSuffix(g.iface, filepath.Ext(g.iface))
}

func (g *generation) outputExt() string {
	if g.cplusplus {
		return "cxx"
	}
	return "c"
}
