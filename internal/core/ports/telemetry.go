package ports

import (
	"context"
	"io"
)

// Telemetry records the progress of build steps.
//
//go:generate go run go.uber.org/mock/mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks
type Telemetry interface {
	// Record starts a vertex for a build step and returns a context carrying it.
	Record(ctx context.Context, id, name string) (context.Context, Vertex)
	// Close flushes the recording session.
	Close() error
}

// Vertex is one recorded build step.
type Vertex interface {
	Stdout() io.Writer
	Stderr() io.Writer
	// Complete marks the step finished, failed when err is non-nil.
	Complete(err error)
	// Cached marks the step as already up to date.
	Cached()
}

type vertexKey struct{}

// ContextWithVertex returns a copy of ctx carrying v.
func ContextWithVertex(ctx context.Context, v Vertex) context.Context {
	return context.WithValue(ctx, vertexKey{}, v)
}

// VertexFromContext returns the vertex carried by ctx, if any.
func VertexFromContext(ctx context.Context) (Vertex, bool) {
	v, ok := ctx.Value(vertexKey{}).(Vertex)
	return v, ok
}
