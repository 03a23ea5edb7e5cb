// ABOUTME: Converts decoded hook settings into the immutable engine Config
// ABOUTME: Drops unusable entries with a warning; Validate reports them for the CLI

package hooks

import (
	"fmt"
	"regexp"
	"slices"
	"time"

	"github.com/sahilm/fuzzy"

	"github.com/mauromedda/pi-hooks/internal/config"
	"github.com/mauromedda/pi-hooks/internal/log"
)

var logger = log.Component("hooks")

// NewConfig builds the engine configuration. Handlers with an unknown type or
// missing their required field are dropped, and so are matchers left without
// handlers, so every Matcher in the result has at least one Handler.
func NewConfig(raw config.HooksConfig) Config {
	cfg := make(Config, len(raw))
	for event, defs := range raw {
		for i, def := range defs {
			m := Matcher{Pattern: def.Matcher}
			for j, hd := range def.Hooks {
				h, err := newHandler(hd)
				if err != nil {
					logger.Warn("%s matcher %d hook %d ignored: %v", event, i, j, err)
					continue
				}
				m.Handlers = append(m.Handlers, h)
			}
			if len(m.Handlers) == 0 {
				continue
			}
			cfg[EventName(event)] = append(cfg[EventName(event)], m)
		}
	}
	return cfg
}

func newHandler(def config.HandlerDef) (Handler, error) {
	kind, ok := parseKind(def.Type)
	if !ok {
		return Handler{}, fmt.Errorf("unknown hook type %q", def.Type)
	}

	h := Handler{
		Kind:          kind,
		Timeout:       kind.DefaultTimeout(),
		Async:         def.Async,
		StatusMessage: def.StatusMessage,
		Command:       def.Command,
		Agent:         def.Agent,
		Prompt:        def.Prompt,
		Model:         def.Model,
	}
	if def.Timeout > 0 {
		h.Timeout = MaxTimeout
		if def.Timeout < MaxTimeout.Seconds() {
			h.Timeout = time.Duration(def.Timeout * float64(time.Second))
		}
	}

	if kind == KindCommand && h.Command == "" {
		return Handler{}, fmt.Errorf("command hook has no command")
	}
	return h, nil
}

// Severity grades a validation Issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one finding reported by Validate.
type Issue struct {
	Severity Severity `json:"severity"`
	Event    string   `json:"event"`
	Message  string   `json:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s: %s", i.Severity, i.Event, i.Message)
}

// Validate inspects raw settings without changing engine behavior. Errors
// describe entries NewConfig drops; warnings describe entries that load but
// probably do not do what the author meant.
func Validate(raw config.HooksConfig) []Issue {
	known := make([]string, len(KnownEvents))
	for i, e := range KnownEvents {
		known[i] = string(e)
	}

	var issues []Issue
	events := make([]string, 0, len(raw))
	for event := range raw {
		events = append(events, event)
	}
	slices.Sort(events)

	for _, event := range events {
		if !slices.Contains(known, event) {
			msg := "unknown event name; its hooks never fire"
			if matches := fuzzy.Find(event, known); len(matches) > 0 {
				msg += fmt.Sprintf(" (did you mean %q?)", matches[0].Str)
			}
			issues = append(issues, Issue{Severity: SeverityWarning, Event: event, Message: msg})
		}

		for i, def := range raw[event] {
			if len(def.Hooks) == 0 {
				issues = append(issues, Issue{SeverityError, event, fmt.Sprintf("matcher %d has no hooks", i)})
				continue
			}
			if def.Matcher != "" && def.Matcher != wildcard {
				if _, err := regexp.Compile(def.Matcher); err != nil {
					issues = append(issues, Issue{SeverityWarning, event,
						fmt.Sprintf("matcher %q is not a valid regexp; exact string comparison is used", def.Matcher)})
				}
				if _, ok := MatcherField(EventName(event)); !ok {
					issues = append(issues, Issue{SeverityWarning, event,
						fmt.Sprintf("matcher %q never matches: event has no matchable field", def.Matcher)})
				}
			}
			for j, hd := range def.Hooks {
				if _, err := newHandler(hd); err != nil {
					issues = append(issues, Issue{SeverityError, event, fmt.Sprintf("matcher %d hook %d: %v", i, j, err)})
					continue
				}
				if hd.Timeout >= MaxTimeout.Seconds() {
					issues = append(issues, Issue{SeverityWarning, event,
						fmt.Sprintf("matcher %d hook %d: timeout capped at %s", i, j, MaxTimeout)})
				}
				switch hd.Type {
				case "prompt":
					issues = append(issues, Issue{SeverityWarning, event,
						fmt.Sprintf("matcher %d hook %d: prompt hooks are not supported yet and are skipped", i, j)})
				case "agent":
					if hd.Agent == "" && hd.Prompt == "" {
						issues = append(issues, Issue{SeverityWarning, event,
							fmt.Sprintf("matcher %d hook %d: agent hook has neither agent nor prompt; the generic prompt is used", i, j)})
					}
				}
			}
		}
	}
	return issues
}
