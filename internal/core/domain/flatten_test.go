package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/zerr"
)

func names(ts []*domain.Target) []string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.Kind().String()+":"+t.Name())
	}
	return out
}

func TestFlatten_ExecutableOrder(t *testing.T) {
	reg := domain.NewRegistry(nil)
	a, err := reg.Object(reg.Source("a.c"))
	require.NoError(t, err)
	b, err := reg.Object(reg.Source("b.c"))
	require.NoError(t, err)
	app, err := reg.Executable("app", a, b)
	require.NoError(t, err)

	seq, err := domain.Flatten(app)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"source:a.c", "object:a.c",
		"source:b.c", "object:b.c",
		"executable:app",
	}, names(seq))
}

func TestFlatten_ConcatenatesChildren(t *testing.T) {
	reg := domain.NewRegistry(nil)
	c1, err := reg.Object("one.c")
	require.NoError(t, err)
	c2, err := reg.Object("two.c")
	require.NoError(t, err)
	parent, err := reg.StaticLibrary("pair", c1, c2)
	require.NoError(t, err)

	f1, err := domain.Flatten(c1)
	require.NoError(t, err)
	f2, err := domain.Flatten(c2)
	require.NoError(t, err)
	got, err := domain.Flatten(parent)
	require.NoError(t, err)

	want := append(append(f1, f2...), parent)
	assert.Equal(t, want, got)
}

func TestFlatten_LibraryBoundary(t *testing.T) {
	reg := domain.NewRegistry(nil)
	libObj, err := reg.Object("lib.c")
	require.NoError(t, err)
	lib, err := reg.SharedLibrary("util", libObj)
	require.NoError(t, err)
	mainObj, err := reg.Object("main.c")
	require.NoError(t, err)
	app, err := reg.Executable("app", lib, mainObj)
	require.NoError(t, err)

	seq, err := domain.Flatten(app)
	require.NoError(t, err)

	assert.Equal(t, []string{"source:main.c", "object:main.c", "executable:app"}, names(seq))
	assert.NotContains(t, seq, lib)
	assert.NotContains(t, seq, libObj)
}

func TestFlatten_LinkedRootIsFlattened(t *testing.T) {
	reg := domain.NewRegistry(nil)
	obj, err := reg.Object("lib.c")
	require.NoError(t, err)
	lib, err := reg.SharedLibrary("util", obj)
	require.NoError(t, err)

	seq, err := domain.Flatten(lib)
	require.NoError(t, err)
	assert.Equal(t, []string{"source:lib.c", "object:lib.c", "shared:util"}, names(seq))
}

func TestFlatten_DiamondRepeats(t *testing.T) {
	reg := domain.NewRegistry(nil)
	shared := reg.Source("common.h")
	a := reg.Source("a.c")
	b := reg.Source("b.c")
	require.NoError(t, reg.AddDependencies(a, shared))
	require.NoError(t, reg.AddDependencies(b, shared))
	objA, err := reg.Object(a)
	require.NoError(t, err)
	objB, err := reg.Object(b)
	require.NoError(t, err)
	app, err := reg.Executable("app", objA, objB)
	require.NoError(t, err)

	seq, err := domain.Flatten(app)
	require.NoError(t, err)

	count := 0
	for _, t := range seq {
		if t == shared {
			count++
		}
	}
	assert.Equal(t, 2, count)

	set := domain.BuildSet(seq)
	assert.Len(t, set, len(seq)-1)
	assert.Equal(t, shared, set[0])
}

func TestFlatten_GeneratedIsAtomic(t *testing.T) {
	reg := domain.NewRegistry(nil)
	gen, err := reg.Generated("example.i", "example.c")
	require.NoError(t, err)
	lib, err := reg.SharedLibrary("_example", gen)
	require.NoError(t, err)

	seq, err := domain.Flatten(gen)
	require.NoError(t, err)
	assert.Equal(t, []*domain.Target{gen}, seq)

	seq, err = domain.Flatten(lib)
	require.NoError(t, err)
	assert.Equal(t, []*domain.Target{gen, lib}, seq)
}

func TestFlatten_Cycle(t *testing.T) {
	reg := domain.NewRegistry(nil)
	a := reg.Source("a.h")
	b := reg.Source("b.h")
	require.NoError(t, reg.AddDependencies(a, b))
	require.NoError(t, reg.AddDependencies(b, a))

	_, err := domain.Flatten(a)
	require.Error(t, err)
	require.ErrorContains(t, err, domain.ErrCycleDetected.Error())

	zErr, ok := err.(*zerr.Error)
	require.True(t, ok, "expected *zerr.Error, got %T", err)
	assert.Equal(t, "a.h -> b.h -> a.h", zErr.Metadata()["cycle"])
}

func TestFlatten_CycleThroughLibraryIsIgnored(t *testing.T) {
	reg := domain.NewRegistry(nil)
	obj, err := reg.Object("a.c")
	require.NoError(t, err)
	lib, err := reg.SharedLibrary("self", obj)
	require.NoError(t, err)
	require.NoError(t, reg.AddDependencies(obj, lib))

	seq, err := domain.Flatten(lib)
	require.NoError(t, err)
	assert.Len(t, seq, 3)
}
