package discovery

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kiln/internal/core/ports"
)

const (
	// NodeID is the unique identifier for the dependency discovery node.
	NodeID graft.ID = "adapter.discovery"
)

func init() {
	graft.Register(graft.Node[ports.Discoverer]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Discoverer, error) {
			return New(), nil
		},
	})
}
