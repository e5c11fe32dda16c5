package ports

import "go.trai.ch/kiln/internal/core/domain"

// TimestampOracle answers modification times.
//
//go:generate go run go.uber.org/mock/mockgen -source=filesystem.go -destination=mocks/mock_filesystem.go -package=mocks
type TimestampOracle interface {
	// Mtime returns the modification time of path, or domain.NotFound.
	// It never fails.
	Mtime(path string) domain.Timestamp
}

// Workspace performs the filesystem side effects of a build.
type Workspace interface {
	// EnsureDir creates dir and its parents if they are missing.
	EnsureDir(dir string) error
	// Remove deletes path and then prunes its parent directories while they are empty.
	// It reports whether path existed.
	Remove(path string) (bool, error)
	// Touch creates path if needed and sets its modification time to now.
	Touch(path string) error
}
