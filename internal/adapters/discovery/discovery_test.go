package discovery_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/discovery"
	"go.trai.ch/kiln/internal/core/domain"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func childPaths(ts []*domain.Target) []string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.Path())
	}
	return out
}

func TestDiscover_LocalIncludeOnly(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "main.c")
	write(t, src, "#include \"local.h\"\n#include <iostream>\nint main() { return 0; }\n")
	write(t, filepath.Join(dir, "local.h"), "")

	reg := domain.NewRegistry(nil)
	target := reg.Source(src)

	added, err := discovery.NewWithCaseFolding(false).Discover(reg, target)
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(dir, "local.h")}, childPaths(added))
	assert.Equal(t, []string{filepath.Join(dir, "local.h")}, childPaths(target.Children()))
}

func TestDiscover_Idempotent(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "main.c")
	write(t, src, "#include \"a.h\"\n  #  include <b.h>\n#include \"a.h\"\n")
	write(t, filepath.Join(dir, "a.h"), "")
	write(t, filepath.Join(dir, "b.h"), "")

	reg := domain.NewRegistry(nil)
	target := reg.Source(src)
	scanner := discovery.NewWithCaseFolding(false)

	first, err := scanner.Discover(reg, target)
	require.NoError(t, err)
	assert.Len(t, first, 2)

	second, err := scanner.Discover(reg, target)
	require.NoError(t, err)
	assert.Empty(t, second)
	assert.Equal(t, []string{filepath.Join(dir, "a.h"), filepath.Join(dir, "b.h")}, childPaths(target.Children()))
}

func TestDiscover_CaseRules(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "main.c")
	write(t, src, "#include \"Config.H\"\n")
	write(t, filepath.Join(dir, "config.h"), "")

	reg := domain.NewRegistry(nil)

	strict := reg.Source(src)
	added, err := discovery.NewWithCaseFolding(false).Discover(reg, strict)
	require.NoError(t, err)
	assert.Empty(t, added)

	folded := reg.Source(src)
	added, err = discovery.NewWithCaseFolding(true).Discover(reg, folded)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "config.h")}, childPaths(added))
}

func TestDiscover_FortranUse(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "main.f90")
	write(t, src, "program main\n  use Physics, only: step\n  use, intrinsic :: iso_c_binding\n  use missing\nend program\n")
	write(t, filepath.Join(dir, "physics.f90"), "module physics\nend module\n")
	write(t, filepath.Join(dir, "physics.txt"), "")

	reg := domain.NewRegistry(nil)
	target := reg.Source(src)

	added, err := discovery.NewWithCaseFolding(false).Discover(reg, target)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "physics.f90")}, childPaths(added))
}

func TestDiscover_InterfaceInclude(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "example.i")
	write(t, src, "%module example\n%include \"example.h\"\n%include <std_string.i>\n")
	write(t, filepath.Join(dir, "example.h"), "")

	reg := domain.NewRegistry(nil)
	target := reg.Source(src)

	added, err := discovery.NewWithCaseFolding(false).Discover(reg, target)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "example.h")}, childPaths(added))
}

func TestDiscover_UnreadableOrUnknown(t *testing.T) {
	dir := t.TempDir()
	reg := domain.NewRegistry(nil)
	scanner := discovery.NewWithCaseFolding(false)

	missing := reg.Source(filepath.Join(dir, "missing.c"))
	added, err := scanner.Discover(reg, missing)
	require.NoError(t, err)
	assert.Empty(t, added)

	notes := filepath.Join(dir, "notes.txt")
	write(t, notes, "#include \"a.h\"\n")
	write(t, filepath.Join(dir, "a.h"), "")
	added, err = scanner.Discover(reg, reg.Source(notes))
	require.NoError(t, err)
	assert.Empty(t, added)
}

func TestDiscover_SelfIncludeIgnored(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "guard.h")
	write(t, src, "#include \"guard.h\"\n")

	reg := domain.NewRegistry(nil)
	added, err := discovery.NewWithCaseFolding(false).Discover(reg, reg.Source(src))
	require.NoError(t, err)
	assert.Empty(t, added)
}

func TestDiscoverTransitive(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "main.c")
	write(t, src, "#include \"a.h\"\n")
	write(t, filepath.Join(dir, "a.h"), "#include \"b.h\"\n")
	write(t, filepath.Join(dir, "b.h"), "#include \"a.h\"\n")

	reg := domain.NewRegistry(nil)
	target := reg.Source(src)
	scanner := discovery.NewWithCaseFolding(false)

	direct, err := scanner.Discover(reg, target)
	require.NoError(t, err)
	require.Len(t, direct, 1)

	added, err := scanner.DiscoverTransitive(reg, target)
	require.NoError(t, err)

	// b.h refers back to a.h through a fresh source and the walk stops there.
	assert.Equal(t, []string{filepath.Join(dir, "b.h"), filepath.Join(dir, "a.h")}, childPaths(added))
	assert.Len(t, direct[0].Children(), 1)
}
