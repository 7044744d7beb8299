package cleaner

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/texmk/internal/adapters/config"
	"go.trai.ch/texmk/internal/adapters/logger"
	"go.trai.ch/texmk/internal/core/ports"
)

// NodeID is the unique identifier for the cleaner Graft node.
const NodeID graft.ID = "adapter.cleaner"

func init() {
	graft.Register(graft.Node[ports.Cleaner]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID, config.NodeID},
		Run: func(ctx context.Context) (ports.Cleaner, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			loader, err := graft.Dep[ports.ConfigLoader](ctx)
			if err != nil {
				return nil, err
			}
			return New(log, loader), nil
		},
	})
}
