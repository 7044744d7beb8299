package distro

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/texmk/internal/core/ports"
)

// NodeID is the unique identifier for the distro prober Graft node.
const NodeID graft.ID = "adapter.distro"

func init() {
	graft.Register(graft.Node[ports.Distro]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Distro, error) {
			return New(), nil
		},
	})
}
