// ABOUTME: Agent hook executor: runs a secondary agent non-interactively on the event
// ABOUTME: Reads its verdict from the last assistant message of the JSONL transcript

package hooks

import (
	"context"
	"fmt"
	"strings"

	"github.com/mauromedda/pi-hooks/internal/config"
)

// argumentsPlaceholder is replaced by the pretty-printed event in prompts.
const argumentsPlaceholder = "$ARGUMENTS"

const defaultAgentCommand = "pi"

const genericAgentPrompt = `Evaluate the following %s event emitted by a coding agent and decide whether it should proceed.

Event:
%s

Reply with a single JSON object: {"ok": true} to allow, or {"ok": false, "reason": "<why>"} to deny.`

// AgentExecutor runs agent hooks by spawning Command in json print mode.
type AgentExecutor struct {
	Dir       string
	AgentDirs []string
	Command   string // defaults to "pi"
}

// buildPrompt substitutes the event into the handler's template, or uses the
// generic evaluation prompt when the template is empty.
func buildPrompt(h Handler, ev Event, eventJSON string) string {
	if strings.TrimSpace(h.Prompt) == "" {
		return fmt.Sprintf(genericAgentPrompt, ev.Name, eventJSON)
	}
	return strings.ReplaceAll(h.Prompt, argumentsPlaceholder, eventJSON)
}

// args assembles the sub-agent command line. The agent definition file, when
// one exists, is appended as system context and supplies the default model.
func (a *AgentExecutor) args(h Handler, prompt string) []string {
	args := []string{"--mode", "json", "-p", "--no-session"}

	model := h.Model
	if h.Agent != "" {
		if def, ok := config.FindAgent(a.AgentDirs, h.Agent); ok {
			args = append(args, "--append-system-prompt", def.Path)
			if model == "" {
				model = def.Model
			}
		} else {
			logger.Debug("agent definition %q not found; running without it", h.Agent)
		}
	}
	if model != "" {
		args = append(args, "--model", model)
	}
	return append(args, prompt)
}

// Execute runs the sub-agent and extracts its verdict. A transcript without
// a verdict yields {ok: exitCode == 0}.
func (a *AgentExecutor) Execute(ctx context.Context, inv Invocation) (Result, error) {
	pretty, err := inv.Event.marshal(a.Dir, true)
	if err != nil {
		return Result{}, err
	}

	command := a.Command
	if command == "" {
		command = defaultAgentCommand
	}

	timeout := inv.Handler.effectiveTimeout()
	res, err := runProcess(ctx, procSpec{
		name:    command,
		args:    a.args(inv.Handler, buildPrompt(inv.Handler, inv.Event, string(pretty))),
		dir:     a.Dir,
		env:     hookEnv(inv, a.Dir, nil),
		timeout: timeout,
	})
	if err != nil {
		return Result{}, err
	}
	if r, failed := res.failure(timeout); failed {
		return r, nil
	}

	return ExtractAgentResult(assistantTexts(res.stdout), res.exitCode), nil
}
