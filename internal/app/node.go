package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/texmk/internal/adapters/cleaner" //nolint:depguard // Wired in app layer
	"go.trai.ch/texmk/internal/adapters/config"  //nolint:depguard // Wired in app layer
	"go.trai.ch/texmk/internal/adapters/logger"  //nolint:depguard // Wired in app layer
	"go.trai.ch/texmk/internal/core/ports"
	"go.trai.ch/texmk/internal/engine/orchestrator"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components bundles the resolved application pieces main needs.
type Components struct {
	App          *App
	Logger       ports.Logger
	ConfigLoader ports.ConfigLoader
	Orchestrator *orchestrator.Orchestrator
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			logger.NodeID,
			config.NodeID,
			cleaner.NodeID,
			orchestrator.NodeID,
		},
		Run: func(ctx context.Context) (*App, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			loader, err := graft.Dep[ports.ConfigLoader](ctx)
			if err != nil {
				return nil, err
			}
			orch, err := graft.Dep[*orchestrator.Orchestrator](ctx)
			if err != nil {
				return nil, err
			}
			clean, err := graft.Dep[ports.Cleaner](ctx)
			if err != nil {
				return nil, err
			}
			return New(log, loader, orch, clean), nil
		},
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			config.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	application, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}
	orch, err := graft.Dep[*orchestrator.Orchestrator](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		App:          application,
		Logger:       log,
		ConfigLoader: loader,
		Orchestrator: orch,
	}, nil
}
