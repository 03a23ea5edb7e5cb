// ABOUTME: Process termination fallback for platforms without process groups
// ABOUTME: Kills only the hook process itself; its children may outlive it

//go:build !unix

package hooks

import (
	"errors"
	"os"
	"os/exec"
)

func setProcGroup(*exec.Cmd) {}

func killProcGroup(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	err := cmd.Process.Kill()
	if errors.Is(err, os.ErrProcessDone) {
		return nil
	}
	return err
}
