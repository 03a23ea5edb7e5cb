// ABOUTME: "run" subcommand: dispatches one event and prints the aggregate outcome
// ABOUTME: Payload comes from --payload or stdin; exits 2 when a hook blocks

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mauromedda/pi-hooks/internal/config"
	"github.com/mauromedda/pi-hooks/internal/hooks"
)

// exitBlocked matches the exit status command hooks use to block.
const exitBlocked = 2

// runReport is what "run" prints.
type runReport struct {
	hooks.Outcome
	Messages []string `json:"messages,omitempty"`
}

func newRunCmd(opts *globalOptions) *cobra.Command {
	var payload string

	cmd := &cobra.Command{
		Use:   "run <event>",
		Short: "Run the hooks configured for one event",
		Long: `Runs every hook matching the event, waits for async hooks, and prints the
outcome as JSON together with the async results as context messages.

The payload is a JSON object, e.g. {"toolName":"bash","input":{...}} for
tool_call. It is read from stdin unless --payload is given. Claude Code event
names (PreToolUse, PostToolUse, ...) are accepted.

Exit status is 2 when a hook blocked the event.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvent(cmd, opts, args[0], payload)
		},
	}
	cmd.Flags().StringVarP(&payload, "payload", "p", "", "event payload as a JSON object (default: read from stdin)")
	return cmd
}

func runEvent(cmd *cobra.Command, opts *globalOptions, name, payloadFlag string) error {
	event := hooks.EventName(config.NormalizeEventName(name))
	if !slices.Contains(hooks.KnownEvents, event) {
		return fmt.Errorf("unknown event %q", name)
	}

	data := []byte(payloadFlag)
	if payloadFlag == "" {
		var err error
		if data, err = readPayload(cmd.InOrStdin()); err != nil {
			return err
		}
	}
	payload, err := parsePayload(data)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := openSession(ctx, opts, nil)
	if err != nil {
		return err
	}
	defer s.close()

	out := s.dispatcher.RunHooks(ctx, hooks.Event{Name: event, Payload: payload})
	// An interrupt aborts async handlers instead of waiting out their timeouts.
	s.dispatcher.WaitContext(ctx)

	report := runReport{Outcome: out}
	for _, m := range s.dispatcher.Flush() {
		report.Messages = append(report.Messages, m.Text())
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("writing outcome: %w", err)
	}

	if out.Block {
		return &exitError{code: exitBlocked}
	}
	return nil
}

// readPayload reads stdin unless it is an interactive terminal.
func readPayload(r io.Reader) ([]byte, error) {
	if f, ok := r.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return nil, nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading payload: %w", err)
	}
	return data, nil
}

// parsePayload decodes a JSON object. Empty input is an empty payload.
func parsePayload(data []byte) (map[string]any, error) {
	payload := map[string]any{}
	if len(bytes.TrimSpace(data)) == 0 {
		return payload, nil
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("payload must be a JSON object: %w", err)
	}
	if payload == nil {
		return map[string]any{}, nil
	}
	return payload, nil
}
