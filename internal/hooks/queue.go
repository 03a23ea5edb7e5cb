// ABOUTME: Async result queue: completed fire-and-forget hook outcomes awaiting a turn boundary
// ABOUTME: Append from any goroutine; Drain empties it atomically in completion order

package hooks

import (
	"fmt"
	"sync"
)

// AsyncQueue buffers async handler outcomes. Push and Drain are its only
// mutating operations.
type AsyncQueue struct {
	mu      sync.Mutex
	pending []PendingResult
}

// NewAsyncQueue creates an empty queue.
func NewAsyncQueue() *AsyncQueue {
	return &AsyncQueue{}
}

// Push appends p when it carries a reason or additional context and
// reports whether it was kept.
func (q *AsyncQueue) Push(p PendingResult) bool {
	if p.Result.Reason == "" && p.Result.AdditionalContext == "" {
		return false
	}
	q.mu.Lock()
	q.pending = append(q.pending, p)
	q.mu.Unlock()
	return true
}

// Drain removes and returns every pending entry in the order they completed.
func (q *AsyncQueue) Drain() []PendingResult {
	q.mu.Lock()
	out := q.pending
	q.pending = nil
	q.mu.Unlock()
	return out
}

// Len returns the number of pending entries.
func (q *AsyncQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// ContextMessage is what the host injects into the next turn for one
// async outcome.
type ContextMessage struct {
	Event   EventName `json:"event"`
	OK      bool      `json:"ok"`
	Content string    `json:"content"`
}

// Text renders the message as it appears in the agent's context.
func (m ContextMessage) Text() string {
	status := "ok"
	if !m.OK {
		status = "failed"
	}
	return fmt.Sprintf("[hook %s %s] %s", m.Event, status, m.Content)
}

// FormatMessages converts drained entries, preferring additional context
// over the reason as content.
func FormatMessages(pending []PendingResult) []ContextMessage {
	if len(pending) == 0 {
		return nil
	}
	msgs := make([]ContextMessage, 0, len(pending))
	for _, p := range pending {
		content := p.Result.AdditionalContext
		if content == "" {
			content = p.Result.Reason
		}
		msgs = append(msgs, ContextMessage{Event: p.Event, OK: p.Result.OK, Content: content})
	}
	return msgs
}
