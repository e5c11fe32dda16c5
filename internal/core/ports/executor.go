// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
)

// Executor defines the interface for running build commands.
//
//go:generate go run go.uber.org/mock/mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs argv as a blocking external process.
	//
	// Output is streamed to the vertex on ctx when one is present, and to the logger.
	// It returns an error wrapping the exit code if the process fails.
	Execute(ctx context.Context, argv []string) error
}
