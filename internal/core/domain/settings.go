package domain

import (
	"maps"
	"slices"
	"sync"

	"go.trai.ch/zerr"
)

// SettingKey names a project setting.
type SettingKey string

// Recognised setting keys.
const (
	SettingObjectDir        SettingKey = "object-dir"
	SettingObjectExt        SettingKey = "object-ext"
	SettingSharedLibraryDir SettingKey = "shared-library-dir"
	SettingSharedLibraryExt SettingKey = "shared-library-ext"
	SettingStaticLibraryDir SettingKey = "static-library-dir"
	SettingStaticLibraryExt SettingKey = "static-library-ext"
	SettingExecDir          SettingKey = "exec-dir"
	SettingExecExt          SettingKey = "exec-ext"
)

// SettingDefinition describes a setting and its default value.
type SettingDefinition struct {
	Key         SettingKey
	Default     string
	Description string
}

var settingDefinitions = []SettingDefinition{
	{SettingObjectDir, "./obj/", "directory for compiled objects"},
	{SettingObjectExt, ".obj", "suffix appended to object files"},
	{SettingSharedLibraryDir, "./bin/", "directory for shared libraries"},
	{SettingSharedLibraryExt, ".so", "suffix of shared libraries"},
	{SettingStaticLibraryDir, "./bin/", "directory for static libraries"},
	{SettingStaticLibraryExt, ".a", "suffix of static libraries"},
	{SettingExecDir, "./bin/", "directory for executables"},
	{SettingExecExt, ".exe", "suffix of executables"},
}

// SettingDefinitions returns every recognised setting in display order.
func SettingDefinitions() []SettingDefinition {
	return slices.Clone(settingDefinitions)
}

// LookupSetting resolves a setting key by name.
func LookupSetting(name string) (SettingDefinition, error) {
	for _, def := range settingDefinitions {
		if string(def.Key) == name {
			return def, nil
		}
	}
	known := make([]string, 0, len(settingDefinitions))
	for _, def := range settingDefinitions {
		known = append(known, string(def.Key))
	}
	return SettingDefinition{}, zerr.With(zerr.With(ErrUnknownSetting, "setting", name), "known", known)
}

// Settings holds the project settings every target reads its output path from.
// Targets keep a reference and read it on every Path call, so a change here
// moves the output of every existing target.
type Settings struct {
	mu        sync.RWMutex
	overrides map[SettingKey]string
}

// NewSettings returns settings with every key at its default.
func NewSettings() *Settings {
	return &Settings{overrides: make(map[SettingKey]string)}
}

// Get returns the current value of key.
func (s *Settings) Get(key SettingKey) string {
	s.mu.RLock()
	v, ok := s.overrides[key]
	s.mu.RUnlock()
	if ok {
		return v
	}
	for _, def := range settingDefinitions {
		if def.Key == key {
			return def.Default
		}
	}
	return ""
}

// Set overrides key with value. Setting a key back to its default drops the override.
func (s *Settings) Set(key SettingKey, value string) error {
	def, err := LookupSetting(string(key))
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if value == def.Default {
		delete(s.overrides, key)
		return nil
	}
	s.overrides[key] = value
	return nil
}

// Reset restores key to its default.
func (s *Settings) Reset(key SettingKey) error {
	if _, err := LookupSetting(string(key)); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.overrides, key)
	s.mu.Unlock()
	return nil
}

// IsDefault reports whether key currently holds its default value.
func (s *Settings) IsDefault(key SettingKey) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.overrides[key]
	return !ok
}

// Overrides returns a copy of the non-default values.
func (s *Settings) Overrides() map[SettingKey]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.overrides)
}
