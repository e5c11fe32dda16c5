package ports

import "go.trai.ch/kiln/internal/core/domain"

// DescriptionFile is the name of the build description searched for by the CLI.
const DescriptionFile = "kiln.yaml"

// DescriptionLoader evaluates a build description into targets.
//
//go:generate go run go.uber.org/mock/mockgen -source=description_loader.go -destination=mocks/mock_description_loader.go -package=mocks
type DescriptionLoader interface {
	// Load reads the description at path and creates its targets in a new registry
	// backed by settings.
	Load(path string, settings *domain.Settings) (*domain.Registry, error)
}
