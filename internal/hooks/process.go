// ABOUTME: Subprocess supervision shared by command and agent hooks
// ABOUTME: One select races exit, timeout, and abort; the process is always reaped

package hooks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"
)

// waitDelay bounds how long Wait keeps draining pipes after a kill, in case
// a detached grandchild still holds stdout open.
const waitDelay = 2 * time.Second

// procSpec describes one subprocess invocation.
type procSpec struct {
	name    string
	args    []string
	dir     string
	env     []string // appended to os.Environ()
	stdin   []byte
	timeout time.Duration
}

// procResult is what the supervisor observed.
type procResult struct {
	stdout   []byte
	stderr   []byte
	exitCode int
	timedOut bool
	aborted  bool
}

// failure converts a timeout or abort into the matching Result.
func (p procResult) failure(timeout time.Duration) (Result, bool) {
	switch {
	case p.timedOut:
		return Result{OK: false, Reason: fmt.Sprintf("hook timed out after %s", timeout)}, true
	case p.aborted:
		return Result{OK: false, Reason: "hook aborted"}, true
	}
	return Result{}, false
}

// runProcess starts the process in its own process group and waits for the
// first of: natural exit, timeout, or ctx cancellation. On timeout or
// cancellation the whole group is killed once and the process is still
// waited on. The error is non-nil only when the process could not start.
func runProcess(ctx context.Context, spec procSpec) (procResult, error) {
	cmd := exec.Command(spec.name, spec.args...)
	cmd.Dir = spec.dir
	cmd.Env = append(os.Environ(), spec.env...)
	cmd.Stdin = bytes.NewReader(spec.stdin)
	cmd.WaitDelay = waitDelay
	setProcGroup(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := ctx.Err(); err != nil {
		return procResult{aborted: true}, nil
	}
	if err := cmd.Start(); err != nil {
		return procResult{}, fmt.Errorf("start %s: %w", spec.name, err)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	timer := time.NewTimer(spec.timeout)
	defer timer.Stop()

	var res procResult
	var waitErr error
	select {
	case waitErr = <-done:
		if errors.Is(waitErr, exec.ErrWaitDelay) {
			// The shell exited but a background child kept stdout open.
			reapGroup(cmd)
		}
	case <-timer.C:
		res.timedOut = true
		waitErr = terminate(cmd, done)
	case <-ctx.Done():
		res.aborted = true
		waitErr = terminate(cmd, done)
	}

	res.stdout = stdout.Bytes()
	res.stderr = stderr.Bytes()
	res.exitCode = exitCode(cmd, waitErr)
	return res, nil
}

// reapGroup kills what is left of the group after the leader exited.
func reapGroup(cmd *exec.Cmd) {
	if err := killProcGroup(cmd); err != nil {
		logger.Debug("kill leftover group of pid %d: %v", cmd.Process.Pid, err)
	}
}

// terminate kills the process group and reaps the process.
func terminate(cmd *exec.Cmd, done <-chan error) error {
	if err := killProcGroup(cmd); err != nil {
		logger.Debug("kill pid %d: %v", cmd.Process.Pid, err)
	}
	return <-done
}

// exitCode prefers the reaped process state, so an exit that was only
// followed by a pipe-drain timeout keeps its real status.
func exitCode(cmd *exec.Cmd, waitErr error) int {
	if cmd.ProcessState != nil {
		return cmd.ProcessState.ExitCode()
	}
	if waitErr == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
