// ABOUTME: Shell command executor for command hooks
// ABOUTME: Pipes the event JSON to stdin and env, maps exit codes onto a Result

package hooks

import (
	"context"
	"strings"
)

const (
	envHookInput      = "PI_HOOK_INPUT"
	envHookEvent      = "PI_HOOK_EVENT"
	envInvocationID   = "PI_HOOK_INVOCATION_ID"
	envProjectDir     = "PI_PROJECT_DIR"
	envClaudeProjects = "CLAUDE_PROJECT_DIR"

	// exitCodeBlock is the exit status a command uses to deny the action.
	exitCodeBlock = 2

	defaultBlockReason = "blocked by hook"
)

// Invocation is one handler run for one event.
type Invocation struct {
	ID      string
	Handler Handler
	Event   Event
}

// Executor runs one handler kind. The error is reserved for a process that
// could not be started; every other failure is reported in the Result.
type Executor interface {
	Execute(ctx context.Context, inv Invocation) (Result, error)
}

// hookEnv returns the variables every hook subprocess receives.
func hookEnv(inv Invocation, dir string, payload []byte) []string {
	env := []string{
		envHookEvent + "=" + string(inv.Event.Name),
		envInvocationID + "=" + inv.ID,
		envProjectDir + "=" + dir,
		envClaudeProjects + "=" + dir,
	}
	if payload != nil {
		env = append(env, envHookInput+"="+string(payload))
	}
	return env
}

// CommandExecutor runs command hooks through a shell in Dir.
type CommandExecutor struct {
	Dir   string
	Shell string // defaults to "sh"
}

// Execute runs the handler's command and interprets its exit status:
// 2 blocks with stderr as the reason, 0 parses stdout, anything else allows.
func (c *CommandExecutor) Execute(ctx context.Context, inv Invocation) (Result, error) {
	payload, err := inv.Event.marshal(c.Dir, false)
	if err != nil {
		return Result{}, err
	}

	shell := c.Shell
	if shell == "" {
		shell = "sh"
	}

	timeout := inv.Handler.effectiveTimeout()
	res, err := runProcess(ctx, procSpec{
		name:    shell,
		args:    []string{"-c", inv.Handler.Command},
		dir:     c.Dir,
		env:     hookEnv(inv, c.Dir, payload),
		stdin:   payload,
		timeout: timeout,
	})
	if err != nil {
		return Result{}, err
	}
	if r, failed := res.failure(timeout); failed {
		return r, nil
	}

	switch res.exitCode {
	case exitCodeBlock:
		reason := strings.TrimSpace(string(res.stderr))
		if reason == "" {
			reason = defaultBlockReason
		}
		return Result{OK: false, Decision: DecisionBlock, Reason: reason}, nil
	case 0:
		return ParseCommandOutput(res.stdout), nil
	default:
		logger.Debug("command hook %s exited %d; result ignored", inv.ID, res.exitCode)
		return Result{OK: true}, nil
	}
}
