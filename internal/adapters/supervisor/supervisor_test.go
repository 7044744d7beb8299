//go:build !windows

package supervisor_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.trai.ch/texmk/internal/adapters/supervisor"
	"go.trai.ch/texmk/internal/core/domain"
	"go.trai.ch/texmk/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

func newSupervisor(t *testing.T) *supervisor.Supervisor {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	log.EXPECT().Error(gomock.Any()).AnyTimes()
	return supervisor.New(log)
}

func TestRun_StreamsOutputToSink(t *testing.T) {
	s := newSupervisor(t)
	var sink bytes.Buffer

	step := domain.Step{Name: "echo", Command: "echo", Args: []string{"hello", "world"}}
	outcome := s.Run(context.Background(), &step, t.TempDir(), &sink)

	require.Equal(t, domain.OutcomeSucceeded, outcome.Kind)
	require.Equal(t, "hello world\n", sink.String())
}

func TestRun_ExitFailureCarriesCode(t *testing.T) {
	s := newSupervisor(t)
	var sink bytes.Buffer

	step := domain.Step{Name: "fail", Command: "sh", Args: []string{"-c", "exit 3"}}
	outcome := s.Run(context.Background(), &step, t.TempDir(), &sink)

	require.Equal(t, domain.OutcomeExitFailure, outcome.Kind)
	require.Equal(t, 3, outcome.ExitCode)
	require.False(t, outcome.Killed())
}

func TestRun_SpawnFailureForMissingExecutable(t *testing.T) {
	s := newSupervisor(t)
	var sink bytes.Buffer

	step := domain.Step{Name: "missing", Command: "definitely-not-a-real-binary-7f3a"}
	outcome := s.Run(context.Background(), &step, t.TempDir(), &sink)

	require.Equal(t, domain.OutcomeSpawnFailure, outcome.Kind)
	require.Error(t, outcome.Err)

	var zErr *zerr.Error
	require.ErrorAs(t, outcome.Err, &zErr)
	md := zErr.Metadata()
	require.Equal(t, "missing", md["step"])
	require.Equal(t, "definitely-not-a-real-binary-7f3a", md["command"])
	require.Contains(t, md, "PATH")
}

func TestRun_RawOptionsGoThroughShell(t *testing.T) {
	s := newSupervisor(t)
	var sink bytes.Buffer

	// A raw option string is shell-split, so the quoted argument stays one
	// word and the variable expands.
	step := domain.Step{
		Name:       "raw",
		Command:    "printf",
		RawOptions: `'%s\n' "a b"`,
	}
	outcome := s.Run(context.Background(), &step, t.TempDir(), &sink)

	require.Equal(t, domain.OutcomeSucceeded, outcome.Kind)
	require.Equal(t, "a b\n", sink.String())
}

func TestRun_StepEnvOverridesSystemEnv(t *testing.T) {
	t.Setenv("TEXMK_TEST_VAR", "system")
	s := newSupervisor(t)
	var sink bytes.Buffer

	step := domain.Step{
		Name:    "env",
		Command: "sh",
		Args:    []string{"-c", "printf '%s' \"$TEXMK_TEST_VAR\""},
		Env:     map[string]string{"TEXMK_TEST_VAR": "override"},
	}
	outcome := s.Run(context.Background(), &step, t.TempDir(), &sink)

	require.Equal(t, domain.OutcomeSucceeded, outcome.Kind)
	require.Equal(t, "override", sink.String())
}

func TestRun_HonorsWorkingDirectory(t *testing.T) {
	s := newSupervisor(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "marker.txt"), nil, 0o644))
	var sink bytes.Buffer

	step := domain.Step{Name: "ls", Command: "ls", Args: []string{"marker.txt"}}
	outcome := s.Run(context.Background(), &step, dir, &sink)

	require.Equal(t, domain.OutcomeSucceeded, outcome.Kind)
	require.Equal(t, "marker.txt\n", sink.String())
}

func TestRun_ContextCancelReapsProcessTree(t *testing.T) {
	s := newSupervisor(t)
	var sink bytes.Buffer

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The shell forks a grandchild that inherits the output pipes. If only
	// the direct child were signalled on cancellation, the grandchild would
	// keep the pipes open and Run would block for the full 30 seconds.
	step := domain.Step{Name: "nested", Command: "sh", Args: []string{"-c", "sleep 30 & wait"}}

	cwd := t.TempDir()
	done := make(chan domain.Outcome, 1)
	go func() {
		done <- s.Run(ctx, &step, cwd, &sink)
	}()

	time.Sleep(300 * time.Millisecond)
	cancel()

	select {
	case outcome := <-done:
		require.Equal(t, domain.OutcomeExitFailure, outcome.Kind)
		require.True(t, outcome.Killed())
	case <-time.After(10 * time.Second):
		t.Fatal("run did not return after cancellation")
	}
}

func TestKill_WithoutLiveProcessIsANoOp(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).Times(1)

	supervisor.New(log).Kill()
}

func TestKill_TerminatesRunningProcess(t *testing.T) {
	s := newSupervisor(t)
	var sink bytes.Buffer

	cwd := t.TempDir()
	done := make(chan domain.Outcome, 1)
	step := domain.Step{Name: "sleep", Command: "sleep", Args: []string{"30"}}
	go func() {
		done <- s.Run(context.Background(), &step, cwd, &sink)
	}()

	// Keep signalling until the spawned process has been reaped.
	require.Eventually(t, func() bool {
		s.Kill()
		select {
		case outcome := <-done:
			done <- outcome
			return true
		default:
			return false
		}
	}, 10*time.Second, 50*time.Millisecond)

	outcome := <-done
	require.Equal(t, domain.OutcomeExitFailure, outcome.Kind)
	require.True(t, outcome.Killed())
}
