package driver_test

import (
	"context"
	"errors"
	"slices"
	"testing"
	"testing/synctest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/telemetry"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports/mocks"
	"go.trai.ch/kiln/internal/engine/driver"
	"go.uber.org/mock/gomock"
)

func outputOf(argv []string) string {
	i := slices.Index(argv, "-o")
	if i < 0 || i+1 >= len(argv) {
		return ""
	}
	return argv[i+1]
}

func TestBuild_ParallelRunsSiblingsTogether(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		w := newWorld("a.c", "b.c", "c.c")

		mockLogger := mocks.NewMockLogger(ctrl)
		mockLogger.EXPECT().Info(gomock.Any()).AnyTimes()

		started := make(chan string, 4)
		release := make(chan struct{})

		mockExec := mocks.NewMockExecutor(ctrl)
		mockExec.EXPECT().Execute(gomock.Any(), gomock.Any()).DoAndReturn(
			func(ctx context.Context, argv []string) error {
				out := outputOf(argv)
				started <- out
				if out != "bin/hello.exe" {
					<-release
				}
				return w.execute(ctx, argv)
			}).Times(4)

		reg := domain.NewRegistry(nil)
		var objs []any
		for _, src := range []string{"a.c", "b.c", "c.c"} {
			obj, err := reg.Object(src)
			require.NoError(t, err)
			objs = append(objs, obj)
		}
		exe, err := reg.Executable("hello", objs...)
		require.NoError(t, err)

		d := driver.NewDriver(mockExec, w, w, telemetry.NewNoOp(), mockLogger)

		errCh := make(chan error, 1)
		go func() {
			errCh <- d.Build(context.Background(), domain.DefaultToolchain(), exe, driver.Options{Jobs: 3})
		}()

		// All three objects are compiling and the link waits for them.
		synctest.Wait()
		assert.Len(t, started, 3)

		close(release)
		require.NoError(t, <-errCh)

		ran := w.ran()
		require.Len(t, ran, 4)
		assert.Equal(t, "cc obj/a.c.obj obj/b.c.obj obj/c.c.obj -o bin/hello.exe", ran[3])
	})
}

func TestBuild_ParallelRespectsJobLimit(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		w := newWorld("a.c", "b.c", "c.c")

		mockLogger := mocks.NewMockLogger(ctrl)
		mockLogger.EXPECT().Info(gomock.Any()).AnyTimes()

		started := make(chan string, 4)
		release := make(chan struct{})

		mockExec := mocks.NewMockExecutor(ctrl)
		mockExec.EXPECT().Execute(gomock.Any(), gomock.Any()).DoAndReturn(
			func(ctx context.Context, argv []string) error {
				started <- outputOf(argv)
				<-release
				return w.execute(ctx, argv)
			}).Times(4)

		reg := domain.NewRegistry(nil)
		exe, err := reg.Executable("hello", "x.o")
		require.NoError(t, err)
		for _, src := range []string{"a.c", "b.c", "c.c"} {
			obj, err := reg.Object(src)
			require.NoError(t, err)
			require.NoError(t, reg.AddDependencies(exe, obj))
		}

		d := driver.NewDriver(mockExec, w, w, telemetry.NewNoOp(), mockLogger)

		errCh := make(chan error, 1)
		go func() {
			errCh <- d.Build(context.Background(), domain.DefaultToolchain(), exe, driver.Options{Jobs: 2})
		}()

		synctest.Wait()
		assert.Len(t, started, 2)

		close(release)
		require.NoError(t, <-errCh)
		assert.Len(t, w.ran(), 4)
	})
}

func TestBuild_ParallelSharedChildRunsOnce(t *testing.T) {
	f := newFixture(t, newWorld("common.c", "a.c"))
	f.runsCommands()

	reg := domain.NewRegistry(nil)
	common, err := reg.Object("common.c")
	require.NoError(t, err)
	a, err := reg.Object("a.c")
	require.NoError(t, err)
	exe, err := reg.Executable("hello", common, a, common)
	require.NoError(t, err)

	require.NoError(t, f.driver.Build(context.Background(), domain.DefaultToolchain(), exe, driver.Options{Jobs: 4}))

	ran := f.world.ran()
	require.Len(t, ran, 3)
	assert.ElementsMatch(t, []string{
		"cc -c common.c -o obj/common.c.obj",
		"cc -c a.c -o obj/a.c.obj",
	}, ran[:2])
	assert.Equal(t, "cc obj/common.c.obj obj/a.c.obj obj/common.c.obj -o bin/hello.exe", ran[2])
}

func TestBuild_ParallelFailureStopsDependents(t *testing.T) {
	f := newFixture(t, newWorld("a.c", "b.c"))

	f.executor.EXPECT().Execute(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, argv []string) error {
			switch outputOf(argv) {
			case "obj/a.c.obj":
				return errors.New("syntax error")
			case "bin/hello.exe":
				t.Error("link must not run after a failed compile")
			}
			return f.world.execute(ctx, argv)
		}).MinTimes(1).MaxTimes(2)

	exe, _, _ := helloWorld(t, domain.NewRegistry(nil))
	err := f.driver.Build(context.Background(), domain.DefaultToolchain(), exe, driver.Options{Jobs: 2})
	require.Error(t, err)
	require.ErrorContains(t, err, "syntax error")
	assert.Equal(t, driver.StatusFailed, f.driver.Statuses()["obj/a.c.obj"])
	assert.NotContains(t, f.driver.Statuses(), "bin/hello.exe")
}
