// ABOUTME: Hook lifecycle types: event names, handler variants, results, decisions
// ABOUTME: Defines the contract between the host runtime and the dispatch engine

package hooks

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventName identifies a lifecycle event emitted by the host runtime.
type EventName string

const (
	SessionStart         EventName = "session_start"
	SessionShutdown      EventName = "session_shutdown"
	SessionBeforeCompact EventName = "session_before_compact"
	Input                EventName = "input"
	BeforeAgentStart     EventName = "before_agent_start"
	AgentStart           EventName = "agent_start"
	AgentEnd             EventName = "agent_end"
	TurnStart            EventName = "turn_start"
	TurnEnd              EventName = "turn_end"
	ToolCall             EventName = "tool_call"
	ToolResult           EventName = "tool_result"
)

// KnownEvents lists every event name the host emits.
var KnownEvents = []EventName{
	SessionStart, SessionShutdown, SessionBeforeCompact,
	Input, BeforeAgentStart, AgentStart, AgentEnd,
	TurnStart, TurnEnd, ToolCall, ToolResult,
}

// Blockable reports whether handlers may deny the action behind this event.
// Only pre-execution tool interception and user input acceptance qualify.
func (e EventName) Blockable() bool {
	return e == ToolCall || e == Input
}

// Event is one runtime notification together with its payload.
type Event struct {
	Name    EventName
	Payload map[string]any
}

// marshal serializes the event for handlers: the payload fields plus
// hook_event_name and cwd. indent selects the pretty-printed form.
func (e Event) marshal(cwd string, indent bool) ([]byte, error) {
	body := make(map[string]any, len(e.Payload)+2)
	for k, v := range e.Payload {
		body[k] = v
	}
	body["hook_event_name"] = string(e.Name)
	if cwd != "" {
		body["cwd"] = cwd
	}

	var (
		data []byte
		err  error
	)
	if indent {
		data, err = json.MarshalIndent(body, "", "  ")
	} else {
		data, err = json.Marshal(body)
	}
	if err != nil {
		return nil, fmt.Errorf("marshal %s event: %w", e.Name, err)
	}
	return data, nil
}

// HandlerKind tags the Handler variant.
type HandlerKind int

const (
	KindCommand HandlerKind = iota + 1
	KindAgent
	KindPrompt
)

func (k HandlerKind) String() string {
	switch k {
	case KindCommand:
		return "command"
	case KindAgent:
		return "agent"
	case KindPrompt:
		return "prompt"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// DefaultTimeout returns the timeout used when a handler declares none.
func (k HandlerKind) DefaultTimeout() time.Duration {
	switch k {
	case KindCommand:
		return 600 * time.Second
	case KindAgent:
		return 60 * time.Second
	default:
		return 30 * time.Second
	}
}

// MaxTimeout caps configured handler timeouts.
const MaxTimeout = 24 * time.Hour

// parseKind maps the configured "type" string onto a HandlerKind.
func parseKind(s string) (HandlerKind, bool) {
	switch s {
	case "command":
		return KindCommand, true
	case "agent":
		return KindAgent, true
	case "prompt":
		return KindPrompt, true
	}
	return 0, false
}

// Handler is one configured action. Kind never changes after load; the
// kind-specific fields are only read by the executor for that kind.
type Handler struct {
	Kind          HandlerKind
	Timeout       time.Duration
	Async         bool
	StatusMessage string

	Command string // KindCommand: shell command

	Agent  string // KindAgent: agent definition name
	Prompt string // KindAgent, KindPrompt: prompt template
	Model  string // KindAgent: model override
}

// effectiveTimeout is Timeout, or the kind's default when it is unset.
func (h Handler) effectiveTimeout() time.Duration {
	if h.Timeout <= 0 {
		return h.Kind.DefaultTimeout()
	}
	return min(h.Timeout, MaxTimeout)
}

// Matcher pairs a pattern with a non-empty, ordered handler list.
type Matcher struct {
	Pattern  string
	Handlers []Handler
}

// Config maps each event to its ordered matchers.
type Config map[EventName][]Matcher

// Decision is an explicit verdict a handler may attach to its result.
type Decision string

const (
	DecisionBlock Decision = "block"
	DecisionAllow Decision = "allow"
)

// Result is the outcome of one handler invocation. Every executor reports
// through it; execution failures are encoded here, never raised.
type Result struct {
	OK                bool     `json:"ok"`
	Reason            string   `json:"reason,omitempty"`
	Decision          Decision `json:"decision,omitempty"`
	AdditionalContext string   `json:"additionalContext,omitempty"`
}

// Outcome is the aggregate of all sync handlers for one event occurrence.
type Outcome struct {
	Block             bool   `json:"block"`
	Reason            string `json:"reason,omitempty"`
	AdditionalContext string `json:"additionalContext,omitempty"`
}

// PendingResult is an async handler outcome waiting for the next flush.
type PendingResult struct {
	Event  EventName
	Result Result
}
