package settings

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kiln/internal/core/ports"
)

const (
	// NodeID is the unique identifier for the settings store node.
	NodeID graft.ID = "adapter.settings"
)

func init() {
	graft.Register(graft.Node[ports.SettingsStore]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.SettingsStore, error) {
			return NewStore(), nil
		},
	})
}
