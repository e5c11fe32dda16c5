package description_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/description"
	"go.trai.ch/kiln/internal/adapters/discovery"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

func writeDescription(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "kiln.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newLoader(t *testing.T) (*description.Loader, *mocks.MockLogger) {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	return description.NewLoader(log, discovery.NewWithCaseFolding(false)), log
}

func TestLoader_Load_Executable(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile("main.c", []byte("#include \"util.h\"\n"), 0o600))
	require.NoError(t, os.WriteFile("util.h", nil, 0o600))

	path := writeDescription(t, dir, `
version: "1"
targets:
  - name: app
    kind: executable
    sources: [main.c]
    deps: [util]
    inputs: [vendor.o]
    links:
      - name: m
      - name: z
        static: true
    compiler: c
  - name: util
    kind: shared
    sources: [util.c]
    linker: ld
    discover: none
`)
	loader, _ := newLoader(t)

	reg, err := loader.Load(path, domain.NewSettings())
	require.NoError(t, err)

	app, err := reg.Lookup("app")
	require.NoError(t, err)
	util, err := reg.Lookup("util")
	require.NoError(t, err)

	children := app.Children()
	require.Len(t, children, 3)
	assert.Equal(t, domain.KindObject, children[0].Kind())
	assert.Equal(t, "main.c", children[0].Source())
	assert.Equal(t, "vendor.o", children[1].Path())
	assert.Same(t, util, children[2])

	mainSrc := children[0].Children()[0]
	require.Len(t, mainSrc.Children(), 1, "util.h discovered next to main.c")
	assert.Equal(t, "util.h", mainSrc.Children()[0].Path())

	assert.Equal(t, []domain.LinkRequest{{Library: "m"}, {Library: "z", Static: true}}, app.Links())
	assert.Equal(t, domain.DefaultLinker, app.Tool())
	assert.Equal(t, "ld", util.Tool())
	assert.Equal(t, []*domain.Target{app}, reg.Roots())
}

func TestLoader_Load_Generated(t *testing.T) {
	dir := t.TempDir()
	path := writeDescription(t, dir, `
targets:
  - name: wrap
    kind: generated
    interface: example.i
    sources: [example.c]
    language: python
    cplusplus: true
    args: [-builtin]
  - name: _example
    kind: shared
    deps: [wrap]
`)
	loader, _ := newLoader(t)

	reg, err := loader.Load(path, nil)
	require.NoError(t, err)

	gen, err := reg.Lookup("wrap")
	require.NoError(t, err)
	assert.Equal(t, "example_wrap.cxx", gen.Path())
	assert.Equal(t, "python", gen.Language())
	assert.Equal(t, []string{"-builtin"}, gen.GeneratorArgs())
	require.Len(t, gen.Children(), 1)
	assert.Equal(t, "example.c", gen.Children()[0].Path())
}

func TestLoader_Load_WarnsOnOddInterface(t *testing.T) {
	dir := t.TempDir()
	path := writeDescription(t, dir, `
targets:
  - name: wrap
    kind: generated
    interface: example.swig
    language: tcl
`)
	loader, log := newLoader(t)
	log.EXPECT().Warn("interface file example.swig of wrap does not end in .i").Times(1)

	_, err := loader.Load(path, nil)
	require.NoError(t, err)
}

func TestLoader_Load_Errors(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		errContains string
	}{
		{
			name:        "unknown kind",
			content:     "targets:\n  - name: x\n    kind: dll\n",
			errContains: domain.ErrUnknownKind.Error(),
		},
		{
			name:        "duplicate name",
			content:     "targets:\n  - name: x\n    kind: source\n  - name: x\n    kind: source\n",
			errContains: domain.ErrDuplicateTarget.Error(),
		},
		{
			name:        "missing dependency",
			content:     "targets:\n  - name: x\n    kind: executable\n    deps: [ghost]\n",
			errContains: domain.ErrTargetNotFound.Error(),
		},
		{
			name:        "nested dependency list",
			content:     "targets:\n  - name: a\n    kind: source\n  - name: x\n    kind: executable\n    deps: [[a]]\n",
			errContains: domain.ErrMalformedDependency.Error(),
		},
		{
			name:        "unknown field",
			content:     "targets:\n  - name: x\n    kind: source\n    colour: red\n",
			errContains: domain.ErrInvalidDescription.Error(),
		},
		{
			name:        "unsupported version",
			content:     "version: \"7\"\ntargets: []\n",
			errContains: domain.ErrInvalidDescription.Error(),
		},
		{
			name:        "nameless target",
			content:     "targets:\n  - kind: source\n",
			errContains: "target has no name",
		},
		{
			name:        "generated without interface",
			content:     "targets:\n  - name: g\n    kind: generated\n",
			errContains: "needs an interface file",
		},
		{
			name:        "object with two sources",
			content:     "targets:\n  - name: o\n    kind: object\n    sources: [a.c, b.c]\n",
			errContains: "exactly one source",
		},
		{
			name:        "unknown discovery mode",
			content:     "targets:\n  - name: s\n    kind: source\n    discover: deep\n",
			errContains: domain.ErrInvalidDescription.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeDescription(t, t.TempDir(), tt.content)
			loader, _ := newLoader(t)

			_, err := loader.Load(path, nil)
			require.Error(t, err)
			require.ErrorContains(t, err, tt.errContains)
		})
	}
}

func TestLoader_Load_NestedListHint(t *testing.T) {
	path := writeDescription(t, t.TempDir(), "targets:\n  - name: x\n    kind: executable\n    deps: [[a, b]]\n")
	loader, _ := newLoader(t)

	_, err := loader.Load(path, nil)
	require.Error(t, err)

	zErr, ok := err.(*zerr.Error)
	require.True(t, ok)
	assert.Contains(t, zErr.Metadata()["hint"], "expand it into individual dependencies")
	assert.Equal(t, "x", zErr.Metadata()["target"])
}

func TestFindRoot(t *testing.T) {
	root := t.TempDir()
	writeDescription(t, root, "targets: []\n")
	nested := filepath.Join(root, "src", "lib")
	require.NoError(t, os.MkdirAll(nested, 0o750))

	got, err := description.FindRoot(nested)
	require.NoError(t, err)
	assert.Equal(t, root, got)

	_, err = description.FindRoot(string(filepath.Separator))
	require.ErrorContains(t, err, domain.ErrDescriptionNotFound.Error())
}

func TestScaffold_Loads(t *testing.T) {
	dir := t.TempDir()
	raw, err := description.Scaffold("hello", []string{"main.c", "util.c"})
	require.NoError(t, err)
	assert.Contains(t, string(raw), "kind: executable")

	path := writeDescription(t, dir, string(raw))
	loader, _ := newLoader(t)
	reg, err := loader.Load(path, nil)
	require.NoError(t, err)

	hello, err := reg.Lookup("hello")
	require.NoError(t, err)
	assert.Len(t, hello.Children(), 2)
}
