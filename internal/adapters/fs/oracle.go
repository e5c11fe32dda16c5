// Package fs provides the filesystem adapters: modification times, build side effects and source walking.
package fs

import (
	"os"

	"go.trai.ch/kiln/internal/core/domain"
)

// Oracle answers modification times from the local filesystem.
type Oracle struct{}

// NewOracle creates a new Oracle.
func NewOracle() *Oracle {
	return &Oracle{}
}

// Mtime returns the modification time of path. A path that is missing or
// vanishes while being inspected reports domain.NotFound.
func (o *Oracle) Mtime(path string) domain.Timestamp {
	info, err := os.Stat(path)
	if err != nil {
		return domain.NotFound
	}
	return domain.TimestampOf(info.ModTime())
}
