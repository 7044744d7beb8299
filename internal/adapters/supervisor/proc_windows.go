//go:build windows

package supervisor

import (
	"context"
	"os/exec"
	"strconv"
)

func configureSysProcAttr(_ *exec.Cmd) {}

// killTree terminates the process and its descendants via taskkill.
func killTree(pid int) error {
	return exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run()
}

// shellCommand invokes a raw command line through the command interpreter.
func shellCommand(ctx context.Context, cmdline string) *exec.Cmd {
	return exec.CommandContext(ctx, "cmd", "/C", cmdline) //nolint:gosec // user provided command line
}

// exitSignal is a stub: Windows has no POSIX signals on exit status.
func exitSignal(_ error) string {
	return ""
}
