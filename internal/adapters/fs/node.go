package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kiln/internal/core/ports"
)

const (
	OracleNodeID    graft.ID = "adapter.fs.oracle"
	WorkspaceNodeID graft.ID = "adapter.fs.workspace"
	WalkerNodeID    graft.ID = "adapter.fs.walker"
)

func init() {
	graft.Register(graft.Node[ports.TimestampOracle]{
		ID:        OracleNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.TimestampOracle, error) {
			return NewOracle(), nil
		},
	})

	graft.Register(graft.Node[ports.Workspace]{
		ID:        WorkspaceNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Workspace, error) {
			return NewWorkspace(), nil
		},
	})

	// Walker backs project scaffolding.
	graft.Register(graft.Node[*Walker]{
		ID:        WalkerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Walker, error) {
			return NewWalker(), nil
		},
	})
}
