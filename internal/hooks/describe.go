// ABOUTME: Flattened, ordered view of a Config for listings
// ABOUTME: Shared by the list_hooks RPC method and the list subcommand

package hooks

import (
	"slices"
	"strings"
)

// Entry describes one configured handler.
type Entry struct {
	Event     EventName `json:"event"`
	Matcher   string    `json:"matcher,omitempty"`
	Type      string    `json:"type"`
	Target    string    `json:"target"`
	Model     string    `json:"model,omitempty"`
	Timeout   float64   `json:"timeoutSeconds"`
	Async     bool      `json:"async"`
	Blockable bool      `json:"blockable"`
}

// Entries lists every handler, events in lifecycle order (unknown names
// last, alphabetically) and handlers in configuration order.
func (c Config) Entries() []Entry {
	events := make([]EventName, 0, len(c))
	for ev := range c {
		events = append(events, ev)
	}
	slices.SortFunc(events, func(a, b EventName) int {
		ia, ib := eventRank(a), eventRank(b)
		if ia != ib {
			return ia - ib
		}
		return strings.Compare(string(a), string(b))
	})

	var out []Entry
	for _, ev := range events {
		for _, m := range c[ev] {
			for _, h := range m.Handlers {
				out = append(out, Entry{
					Event:     ev,
					Matcher:   m.Pattern,
					Type:      h.Kind.String(),
					Target:    h.target(),
					Model:     h.Model,
					Timeout:   h.effectiveTimeout().Seconds(),
					Async:     h.Async,
					Blockable: ev.Blockable() && !h.Async,
				})
			}
		}
	}
	return out
}

func eventRank(e EventName) int {
	if i := slices.Index(KnownEvents, e); i >= 0 {
		return i
	}
	return len(KnownEvents)
}

// target is the field that identifies what the handler runs.
func (h Handler) target() string {
	switch h.Kind {
	case KindCommand:
		return h.Command
	case KindAgent:
		if h.Agent != "" {
			return h.Agent
		}
	}
	return h.Prompt
}
