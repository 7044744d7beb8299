// Package supervisor provides the external process supervisor adapter.
package supervisor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"go.trai.ch/texmk/internal/core/domain"
	"go.trai.ch/texmk/internal/core/ports"
	"go.trai.ch/zerr"
)

// stderrTailLimit bounds how much captured stderr is attached to the
// failure log entry.
const stderrTailLimit = 4096

// Supervisor implements ports.Supervisor using os/exec. It tracks at most
// one live process at a time.
type Supervisor struct {
	logger ports.Logger

	mu  sync.Mutex
	cmd *exec.Cmd
}

// New creates a new Supervisor.
func New(logger ports.Logger) *Supervisor {
	return &Supervisor{logger: logger}
}

// Run executes the step in cwd, streaming its output to the sink as it
// arrives while accumulating it in full for diagnostics. It blocks until
// the process reaches a terminal outcome.
func (s *Supervisor) Run(ctx context.Context, step *domain.Step, cwd string, sink io.Writer) domain.Outcome {
	cmd := s.buildCmd(ctx, step)
	cmd.Dir = cwd
	cmd.Env = mergeEnv(os.Environ(), step.Env)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = io.MultiWriter(sink, &stdout)
	cmd.Stderr = io.MultiWriter(sink, &stderr)
	configureSysProcAttr(cmd)

	// The step runs in its own process group, so the default context
	// cancellation would only reach the direct child and leave descendants
	// holding the output pipes. Take down the whole tree instead, and cap
	// how long Wait lingers on the pipes afterward.
	cmd.Cancel = func() error {
		if err := killTree(cmd.Process.Pid); err != nil {
			return cmd.Process.Kill()
		}
		return nil
	}
	cmd.WaitDelay = 5 * time.Second

	s.mu.Lock()
	if err := cmd.Start(); err != nil {
		s.mu.Unlock()
		// Include the PATH so a missing executable can be diagnosed from
		// the log alone.
		spawnErr := zerr.With(zerr.Wrap(err, "cannot spawn step"), "step", step.Name)
		spawnErr = zerr.With(spawnErr, "command", step.Command)
		spawnErr = zerr.With(spawnErr, "PATH", os.Getenv("PATH"))
		s.logger.Error(spawnErr)
		return domain.Outcome{Kind: domain.OutcomeSpawnFailure, Err: spawnErr}
	}
	s.cmd = cmd
	s.mu.Unlock()

	s.logger.Info(fmt.Sprintf("spawned %s (pid %d)", step.Name, cmd.Process.Pid))

	err := cmd.Wait()

	s.mu.Lock()
	s.cmd = nil
	s.mu.Unlock()

	if err == nil {
		s.logger.Info(fmt.Sprintf("%s finished (exit 0)", step.Name))
		return domain.Outcome{Kind: domain.OutcomeSucceeded}
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		outcome := domain.Outcome{
			Kind:     domain.OutcomeExitFailure,
			ExitCode: exitErr.ExitCode(),
			Signal:   exitSignal(exitErr),
		}
		failErr := zerr.With(zerr.Wrap(err, "step failed"), "step", step.Name)
		failErr = zerr.With(failErr, "exit_code", outcome.ExitCode)
		failErr = zerr.With(failErr, "signal", outcome.Signal)
		failErr = zerr.With(failErr, "stderr", tail(stderr.String()))
		s.logger.Error(failErr)
		return outcome
	}

	// Wait failed without an exit status, e.g. an I/O error on the pipes.
	s.logger.Error(zerr.With(zerr.Wrap(err, "step did not report an exit status"), "step", step.Name))
	return domain.Outcome{Kind: domain.OutcomeSpawnFailure, Err: err}
}

// buildCmd constructs the command for the step. A step carrying RawOptions
// goes through a shell so the option string is split by the shell; all
// other steps get an explicit argument vector and no shell.
func (s *Supervisor) buildCmd(ctx context.Context, step *domain.Step) *exec.Cmd {
	if step.RawOptions != "" {
		return shellCommand(ctx, step.Command+" "+step.RawOptions)
	}
	return exec.CommandContext(ctx, step.Command, step.Args...) //nolint:gosec // user provided command
}

// Kill terminates the tracked process and its descendant tree. Termination
// errors are swallowed, but a direct kill of the tracked handle is always
// attempted afterward. With no live process this is a logged no-op.
func (s *Supervisor) Kill() {
	s.mu.Lock()
	cmd := s.cmd
	s.mu.Unlock()

	if cmd == nil || cmd.Process == nil {
		s.logger.Info("kill requested with no live process")
		return
	}

	pid := cmd.Process.Pid
	if err := killTree(pid); err != nil {
		s.logger.Warn(fmt.Sprintf("cannot kill process tree of pid %d: %v", pid, err))
	}
	_ = cmd.Process.Kill()
	s.logger.Info(fmt.Sprintf("killed pid %d", pid))
}

// mergeEnv applies step overrides on top of the system environment.
func mergeEnv(sysEnv []string, overrides map[string]string) []string {
	if len(overrides) == 0 {
		return sysEnv
	}
	envMap := make(map[string]string, len(sysEnv)+len(overrides))
	order := make([]string, 0, len(sysEnv)+len(overrides))
	for _, entry := range sysEnv {
		k, v, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		if _, seen := envMap[k]; !seen {
			order = append(order, k)
		}
		envMap[k] = v
	}
	for k, v := range overrides {
		if _, seen := envMap[k]; !seen {
			order = append(order, k)
		}
		envMap[k] = v
	}
	result := make([]string, 0, len(order))
	for _, k := range order {
		result = append(result, k+"="+envMap[k])
	}
	return result
}

func tail(s string) string {
	if len(s) <= stderrTailLimit {
		return s
	}
	return s[len(s)-stderrTailLimit:]
}
