package orchestrator

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/texmk/internal/adapters/cleaner"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/texmk/internal/adapters/distro"     //nolint:depguard // Wired in engine wiring
	"go.trai.ch/texmk/internal/adapters/logger"     //nolint:depguard // Wired in engine wiring
	"go.trai.ch/texmk/internal/adapters/status"     //nolint:depguard // Wired in engine wiring
	"go.trai.ch/texmk/internal/adapters/supervisor" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/texmk/internal/adapters/viewer"     //nolint:depguard // Wired in engine wiring
	"go.trai.ch/texmk/internal/core/ports"
	"go.trai.ch/texmk/internal/engine/materialize"
	"go.trai.ch/texmk/internal/engine/recipe"
)

// NodeID is the unique identifier for the orchestrator Graft node.
const NodeID graft.ID = "engine.orchestrator"

func init() {
	graft.Register(graft.Node[*Orchestrator]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			logger.NodeID,
			status.NodeID,
			viewer.NodeID,
			cleaner.NodeID,
			supervisor.NodeID,
			distro.NodeID,
		},
		Run: func(ctx context.Context) (*Orchestrator, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			stat, err := graft.Dep[ports.StatusReporter](ctx)
			if err != nil {
				return nil, err
			}
			view, err := graft.Dep[ports.Viewer](ctx)
			if err != nil {
				return nil, err
			}
			clean, err := graft.Dep[ports.Cleaner](ctx)
			if err != nil {
				return nil, err
			}
			sup, err := graft.Dep[ports.Supervisor](ctx)
			if err != nil {
				return nil, err
			}
			dist, err := graft.Dep[ports.Distro](ctx)
			if err != nil {
				return nil, err
			}

			return New(
				log,
				stat,
				view,
				clean,
				sup,
				recipe.NewResolver(log),
				materialize.New(log, dist),
				os.Stdout,
			)
		},
	})
}
