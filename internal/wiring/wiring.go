// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/texmk/internal/adapters/cleaner"
	_ "go.trai.ch/texmk/internal/adapters/config"
	_ "go.trai.ch/texmk/internal/adapters/distro"
	_ "go.trai.ch/texmk/internal/adapters/logger"
	_ "go.trai.ch/texmk/internal/adapters/status"
	_ "go.trai.ch/texmk/internal/adapters/supervisor"
	_ "go.trai.ch/texmk/internal/adapters/viewer"
	// Register app and engine nodes.
	_ "go.trai.ch/texmk/internal/app"
	_ "go.trai.ch/texmk/internal/engine/orchestrator"
)
