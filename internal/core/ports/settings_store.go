package ports

import "go.trai.ch/kiln/internal/core/domain"

// SettingsFile is the name of the per-project settings file.
const SettingsFile = ".kiln.yaml"

// SettingsStore persists project settings and the toolchain.
//
//go:generate go run go.uber.org/mock/mockgen -source=settings_store.go -destination=mocks/mock_settings_store.go -package=mocks
type SettingsStore interface {
	// Load reads the settings file in dir. A missing file yields defaults.
	Load(dir string) (*domain.Settings, *domain.Toolchain, error)
	// Save writes the non-default settings and the toolchain to the settings file in dir.
	Save(dir string, settings *domain.Settings, toolchain *domain.Toolchain) error
}
