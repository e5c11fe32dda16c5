package description

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kiln/internal/adapters/discovery"
	"go.trai.ch/kiln/internal/adapters/logger"
	"go.trai.ch/kiln/internal/core/ports"
)

const (
	// NodeID is the unique identifier for the build description loader node.
	NodeID graft.ID = "adapter.description"
)

func init() {
	graft.Register(graft.Node[ports.DescriptionLoader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID, discovery.NodeID},
		Run: func(ctx context.Context) (ports.DescriptionLoader, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			disc, err := graft.Dep[ports.Discoverer](ctx)
			if err != nil {
				return nil, err
			}
			return NewLoader(log, disc), nil
		},
	})
}
