// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"

	"go.trai.ch/texmk/internal/core/domain"
)

// Supervisor owns at most one live external process at a time. It spawns a
// step, streams its combined output into the sink as it arrives, and blocks
// until the process reaches a terminal outcome.
//
//go:generate go run go.uber.org/mock/mockgen -source=supervisor.go -destination=mocks/mock_supervisor.go -package=mocks
type Supervisor interface {
	// Run executes the step in cwd and returns its terminal outcome.
	// A step carrying RawOptions is invoked through a shell so the option
	// string is split by the shell; all other steps are invoked with an
	// explicit argument vector.
	Run(ctx context.Context, step *domain.Step, cwd string, sink io.Writer) domain.Outcome

	// Kill terminates the tracked process and its descendants. Calling it
	// with no live process is a no-op.
	Kill()
}
