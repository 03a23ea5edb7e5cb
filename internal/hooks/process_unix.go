// ABOUTME: Unix-specific process group management for hook subprocesses
// ABOUTME: Sets Setpgid and kills the whole group with SIGKILL on timeout or abort

//go:build unix

package hooks

import (
	"errors"
	"os/exec"
	"syscall"
)

// setProcGroup configures the command to run in its own process group so
// shell pipelines spawned by a hook die with it.
func setProcGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// killProcGroup kills the entire process group of the command. A group that
// already exited is not an error.
func killProcGroup(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	err := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	if errors.Is(err, syscall.ESRCH) {
		return nil
	}
	return err
}
