package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/core/domain"
)

func TestSettings_Defaults(t *testing.T) {
	s := domain.NewSettings()
	for _, def := range domain.SettingDefinitions() {
		assert.Equal(t, def.Default, s.Get(def.Key))
		assert.True(t, s.IsDefault(def.Key))
	}
	assert.Empty(t, s.Overrides())
}

func TestSettings_SetAndReset(t *testing.T) {
	s := domain.NewSettings()

	require.NoError(t, s.Set(domain.SettingObjectExt, ".o"))
	assert.Equal(t, ".o", s.Get(domain.SettingObjectExt))
	assert.Equal(t, map[domain.SettingKey]string{domain.SettingObjectExt: ".o"}, s.Overrides())

	require.NoError(t, s.Set(domain.SettingObjectExt, ".obj"))
	assert.True(t, s.IsDefault(domain.SettingObjectExt), "setting the default drops the override")

	require.NoError(t, s.Set(domain.SettingExecDir, "out"))
	require.NoError(t, s.Reset(domain.SettingExecDir))
	assert.Equal(t, "./bin/", s.Get(domain.SettingExecDir))
}

func TestSettings_UnknownKey(t *testing.T) {
	s := domain.NewSettings()
	require.ErrorContains(t, s.Set("colour", "red"), domain.ErrUnknownSetting.Error())
	require.ErrorContains(t, s.Reset("colour"), domain.ErrUnknownSetting.Error())

	_, err := domain.LookupSetting("object-dir")
	require.NoError(t, err)
}
