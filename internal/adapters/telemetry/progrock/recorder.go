// Package progrock provides the Progrock implementation of the telemetry adapter.
package progrock

import (
	"context"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
	"go.trai.ch/kiln/internal/core/ports"
)

// vertexAlgorithm labels vertex digests derived from output paths.
const vertexAlgorithm digest.Algorithm = "xxh64"

// Recorder implements the ports.Telemetry interface using the progrock library.
type Recorder struct {
	w   progrock.Writer
	rec *progrock.Recorder
}

// New creates a new Recorder with a default tape.
func New() *Recorder {
	return NewRecorder(progrock.NewTape())
}

// NewRecorder creates a new Recorder with the given writer.
func NewRecorder(w progrock.Writer) *Recorder {
	return &Recorder{
		w:   w,
		rec: progrock.NewRecorder(w),
	}
}

// VertexDigest returns the vertex identity for a build step producing id.
// Repeated steps for the same output share one vertex.
func VertexDigest(id string) digest.Digest {
	return digest.NewDigestFromEncoded(vertexAlgorithm, strconv.FormatUint(xxhash.Sum64String(id), 16))
}

// Record starts recording a vertex for the step producing id.
func (r *Recorder) Record(ctx context.Context, id, name string) (context.Context, ports.Vertex) {
	v := &Vertex{vertex: r.rec.Vertex(VertexDigest(id), name)}
	return ports.ContextWithVertex(ctx, v), v
}

// Close flushes and closes the recording session.
func (r *Recorder) Close() error {
	if c, ok := r.w.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
