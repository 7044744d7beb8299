package supervisor

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/texmk/internal/adapters/logger"
	"go.trai.ch/texmk/internal/core/ports"
)

// NodeID is the unique identifier for the supervisor Graft node.
const NodeID graft.ID = "adapter.supervisor"

func init() {
	graft.Register(graft.Node[ports.Supervisor]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.Supervisor, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return New(log), nil
		},
	})
}
