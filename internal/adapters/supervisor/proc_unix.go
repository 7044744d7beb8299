//go:build !windows

package supervisor

import (
	"context"
	"errors"
	"os/exec"
	"syscall"
)

// configureSysProcAttr puts the child in its own process group so the
// whole descendant tree can be signalled at once.
func configureSysProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// killTree signals the child's process group.
func killTree(pid int) error {
	return syscall.Kill(-pid, syscall.SIGKILL)
}

// shellCommand invokes a raw command line through the shell.
func shellCommand(ctx context.Context, cmdline string) *exec.Cmd {
	return exec.CommandContext(ctx, "sh", "-c", cmdline) //nolint:gosec // user provided command line
}

// exitSignal returns the name of the signal that terminated the process,
// or an empty string when it exited on its own.
func exitSignal(err error) string {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return ""
	}
	status, ok := exitErr.Sys().(syscall.WaitStatus)
	if !ok || !status.Signaled() {
		return ""
	}
	return status.Signal().String()
}
