package status

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/texmk/internal/core/ports"
)

// NodeID is the unique identifier for the status reporter Graft node.
const NodeID graft.ID = "adapter.status"

func init() {
	graft.Register(graft.Node[ports.StatusReporter]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.StatusReporter, error) {
			return New(), nil
		},
	})
}
