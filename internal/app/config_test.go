package app_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/core/domain"
	"go.uber.org/mock/gomock"
)

func TestApp_Settings(t *testing.T) {
	h := newHarness(t)
	settings := domain.NewSettings()
	require.NoError(t, settings.Set(domain.SettingObjectDir, "build/obj"))
	h.store.EXPECT().Load(".").Return(settings, domain.DefaultToolchain(), nil)

	entries, err := h.app.Settings()
	require.NoError(t, err)
	require.Len(t, entries, len(domain.SettingDefinitions()))

	for _, e := range entries {
		if e.Key == domain.SettingObjectDir {
			assert.Equal(t, "build/obj", e.Value)
			assert.Equal(t, "./obj/", e.Default)
			assert.False(t, e.IsDefault)
			continue
		}
		assert.True(t, e.IsDefault, string(e.Key))
		assert.Equal(t, e.Default, e.Value)
	}
}

func TestApp_SetSetting(t *testing.T) {
	h := newHarness(t)
	settings := domain.NewSettings()
	h.store.EXPECT().Load(".").Return(settings, domain.DefaultToolchain(), nil)
	h.store.EXPECT().Save(".", settings, gomock.Any()).DoAndReturn(
		func(_ string, s *domain.Settings, _ *domain.Toolchain) error {
			assert.Equal(t, map[domain.SettingKey]string{domain.SettingExecExt: ""}, s.Overrides())
			return nil
		})

	require.NoError(t, h.app.SetSetting("exec-ext", ""))
}

func TestApp_SetSetting_Unknown(t *testing.T) {
	h := newHarness(t)

	err := h.app.SetSetting("exe-ext", ".bin")
	require.ErrorContains(t, err, domain.ErrUnknownSetting.Error())
}

func TestApp_ResetSettings(t *testing.T) {
	h := newHarness(t)
	settings := domain.NewSettings()
	require.NoError(t, settings.Set(domain.SettingObjectDir, "out"))
	require.NoError(t, settings.Set(domain.SettingExecDir, "out"))

	h.store.EXPECT().Load(".").Return(settings, domain.DefaultToolchain(), nil).Times(2)
	h.store.EXPECT().Save(".", settings, gomock.Any()).Return(nil).Times(2)

	require.NoError(t, h.app.ResetSettings("object-dir"))
	assert.Equal(t, map[domain.SettingKey]string{domain.SettingExecDir: "out"}, settings.Overrides())

	require.NoError(t, h.app.ResetSettings())
	assert.Empty(t, settings.Overrides())
}

func TestApp_Tools(t *testing.T) {
	h := newHarness(t)
	h.store.EXPECT().Load(".").Return(domain.NewSettings(), domain.DefaultToolchain(), nil)

	tools, err := h.app.Tools()
	require.NoError(t, err)
	require.Len(t, tools, 3)
	assert.Equal(t, "c", tools[0].Function)
}

func TestApp_AddTool(t *testing.T) {
	fortran := domain.Tool{Function: "fortran", Command: "gfortran", Options: []string{"-O2"}}

	t.Run("new function", func(t *testing.T) {
		h := newHarness(t)
		tc := domain.DefaultToolchain()
		h.store.EXPECT().Load(".").Return(domain.NewSettings(), tc, nil)
		h.store.EXPECT().Save(".", gomock.Any(), tc).Return(nil)

		require.NoError(t, h.app.AddTool(fortran))
		got, err := tc.Lookup("fortran")
		require.NoError(t, err)
		assert.Equal(t, fortran, got)
	})

	t.Run("existing function is not saved", func(t *testing.T) {
		h := newHarness(t)
		h.store.EXPECT().Load(".").Return(domain.NewSettings(), domain.DefaultToolchain(), nil)

		err := h.app.AddTool(domain.Tool{Function: "c", Command: "clang"})
		require.ErrorContains(t, err, domain.ErrToolAlreadyExists.Error())
	})
}

func TestApp_ModifyAndRemoveTool(t *testing.T) {
	h := newHarness(t)
	tc := domain.DefaultToolchain()
	h.store.EXPECT().Load(".").Return(domain.NewSettings(), tc, nil).AnyTimes()
	h.store.EXPECT().Save(".", gomock.Any(), tc).Return(nil).Times(2)

	require.NoError(t, h.app.ModifyTool(domain.Tool{Function: "c", Command: "clang"}))
	got, err := tc.Lookup("c")
	require.NoError(t, err)
	assert.Equal(t, "clang", got.Command)

	require.NoError(t, h.app.RemoveTool("swig"))
	assert.Equal(t, []string{"c", "link"}, tc.Functions())

	err = h.app.RemoveTool("swig")
	require.ErrorContains(t, err, domain.ErrToolNotFound.Error())

	err = h.app.ModifyTool(domain.Tool{Function: "asm", Command: "nasm"})
	require.ErrorContains(t, err, domain.ErrToolNotFound.Error())
}
