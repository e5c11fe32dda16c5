package app

import (
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/zerr"
)

// SettingEntry describes the current value of one setting.
type SettingEntry struct {
	Key         domain.SettingKey
	Value       string
	Default     string
	Description string
	IsDefault   bool
}

// Settings lists every setting with its current value.
func (a *App) Settings() ([]SettingEntry, error) {
	settings, _, err := a.store.Load(".")
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load settings")
	}

	defs := domain.SettingDefinitions()
	entries := make([]SettingEntry, 0, len(defs))
	for _, def := range defs {
		entries = append(entries, SettingEntry{
			Key:         def.Key,
			Value:       settings.Get(def.Key),
			Default:     def.Default,
			Description: def.Description,
			IsDefault:   settings.IsDefault(def.Key),
		})
	}
	return entries, nil
}

// SetSetting overrides a setting and saves the settings file.
func (a *App) SetSetting(name, value string) error {
	def, err := domain.LookupSetting(name)
	if err != nil {
		return err
	}
	return a.updateSettings(func(s *domain.Settings, _ *domain.Toolchain) error {
		return s.Set(def.Key, value)
	})
}

// ResetSettings restores the named settings, or all of them when names is empty.
func (a *App) ResetSettings(names ...string) error {
	keys := make([]domain.SettingKey, 0, len(names))
	for _, name := range names {
		def, err := domain.LookupSetting(name)
		if err != nil {
			return err
		}
		keys = append(keys, def.Key)
	}
	if len(keys) == 0 {
		for _, def := range domain.SettingDefinitions() {
			keys = append(keys, def.Key)
		}
	}

	return a.updateSettings(func(s *domain.Settings, _ *domain.Toolchain) error {
		for _, key := range keys {
			if err := s.Reset(key); err != nil {
				return err
			}
		}
		return nil
	})
}

// Tools lists the registered tools sorted by function.
func (a *App) Tools() ([]domain.Tool, error) {
	_, tc, err := a.store.Load(".")
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load settings")
	}
	return tc.Tools(), nil
}

// AddTool registers a tool for a function that has none.
func (a *App) AddTool(tool domain.Tool) error {
	return a.updateSettings(func(_ *domain.Settings, tc *domain.Toolchain) error {
		return tc.Add(tool)
	})
}

// ModifyTool replaces the tool registered for tool.Function.
func (a *App) ModifyTool(tool domain.Tool) error {
	return a.updateSettings(func(_ *domain.Settings, tc *domain.Toolchain) error {
		return tc.Modify(tool)
	})
}

// RemoveTool unregisters the tool for function.
func (a *App) RemoveTool(function string) error {
	return a.updateSettings(func(_ *domain.Settings, tc *domain.Toolchain) error {
		return tc.Remove(function)
	})
}

// updateSettings loads the settings file, applies change and saves the result.
func (a *App) updateSettings(change func(*domain.Settings, *domain.Toolchain) error) error {
	settings, tc, err := a.store.Load(".")
	if err != nil {
		return zerr.Wrap(err, "failed to load settings")
	}
	if err := change(settings, tc); err != nil {
		return err
	}
	if err := a.store.Save(".", settings, tc); err != nil {
		return zerr.Wrap(err, "failed to save settings")
	}
	return nil
}
