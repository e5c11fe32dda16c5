package ports

import "go.trai.ch/kiln/internal/core/domain"

// Discoverer finds the local files a source refers to.
//
//go:generate go run go.uber.org/mock/mockgen -source=discoverer.go -destination=mocks/mock_discoverer.go -package=mocks
type Discoverer interface {
	// Discover scans src once and attaches the referenced sibling files as children.
	// It returns only the children it added.
	Discover(reg *domain.Registry, src *domain.Target) ([]*domain.Target, error)

	// DiscoverTransitive repeats Discover on every newly found child.
	DiscoverTransitive(reg *domain.Registry, src *domain.Target) ([]*domain.Target, error)
}
