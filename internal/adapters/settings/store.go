// Package settings persists project settings and the toolchain with viper.
package settings

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	settingsKey = "settings"
	toolsKey    = "tools"
)

// toolEntry is the on-disk form of a domain.Tool. Tools are stored as a list
// so function names keep their case and may contain dots.
type toolEntry struct {
	Function     string   `mapstructure:"function"`
	Command      string   `mapstructure:"command"`
	Options      []string `mapstructure:"options"`
	Paths        []string `mapstructure:"paths"`
	PathSwitch   string   `mapstructure:"path-switch"`
	OutputSwitch string   `mapstructure:"output-switch"`
}

// Store implements ports.SettingsStore on top of a YAML file.
type Store struct {
	filename string
}

// NewStore creates a Store using the default settings file name.
func NewStore() *Store {
	return &Store{filename: ports.SettingsFile}
}

// Path returns the settings file used for dir.
func (s *Store) Path(dir string) string {
	return filepath.Join(dir, s.filename)
}

// Load reads the settings file in dir. Without a file every setting is at its
// default and the default toolchain is used.
func (s *Store) Load(dir string) (*domain.Settings, *domain.Toolchain, error) {
	path := s.Path(dir)
	settings := domain.NewSettings()

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return settings, domain.DefaultToolchain(), nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, nil, zerr.With(zerr.Wrap(err, "failed to read settings"), "path", path)
	}

	for _, def := range domain.SettingDefinitions() {
		key := settingsKey + "." + string(def.Key)
		if !v.IsSet(key) {
			continue
		}
		if err := settings.Set(def.Key, v.GetString(key)); err != nil {
			return nil, nil, err
		}
	}
	for key := range v.GetStringMap(settingsKey) {
		if _, err := domain.LookupSetting(key); err != nil {
			return nil, nil, zerr.With(err, "path", path)
		}
	}

	if !v.IsSet(toolsKey) {
		return settings, domain.DefaultToolchain(), nil
	}

	var entries []toolEntry
	if err := v.UnmarshalKey(toolsKey, &entries); err != nil {
		return nil, nil, zerr.With(zerr.Wrap(err, "failed to decode tools"), "path", path)
	}
	toolchain := domain.NewToolchain()
	for i, e := range entries {
		if e.Function == "" {
			return nil, nil, zerr.With(zerr.With(domain.ErrToolWithoutFunction, "path", path), "index", i)
		}
		if err := toolchain.Add(domain.Tool{
			Function:     e.Function,
			Command:      e.Command,
			Options:      e.Options,
			Paths:        e.Paths,
			PathSwitch:   e.PathSwitch,
			OutputSwitch: e.OutputSwitch,
		}); err != nil {
			return nil, nil, err
		}
	}
	return settings, toolchain, nil
}

// Save writes the non-default settings and every tool to the settings file in dir.
func (s *Store) Save(dir string, settings *domain.Settings, toolchain *domain.Toolchain) error {
	v := viper.New()

	overrides := make(map[string]any)
	for key, value := range settings.Overrides() {
		overrides[string(key)] = value
	}
	v.Set(settingsKey, overrides)

	tools := make([]any, 0, toolchain.Len())
	for _, t := range toolchain.Tools() {
		entry := map[string]any{"function": t.Function, "command": t.Command}
		if len(t.Options) > 0 {
			entry["options"] = t.Options
		}
		if len(t.Paths) > 0 {
			entry["paths"] = t.Paths
		}
		if t.PathSwitch != "" {
			entry["path-switch"] = t.PathSwitch
		}
		if t.OutputSwitch != "" {
			entry["output-switch"] = t.OutputSwitch
		}
		tools = append(tools, entry)
	}
	v.Set(toolsKey, tools)

	path := s.Path(dir)
	if err := v.WriteConfigAs(path); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write settings"), "path", path)
	}
	return nil
}
