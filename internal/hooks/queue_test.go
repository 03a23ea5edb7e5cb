// ABOUTME: Tests for the async result queue and context message formatting
// ABOUTME: Exercises concurrent pushes, drain semantics, and message rendering

package hooks

import (
	"sync"
	"testing"
)

func TestAsyncQueue_PushFiltersSilentResults(t *testing.T) {
	t.Parallel()

	q := NewAsyncQueue()
	if q.Push(PendingResult{Event: TurnEnd, Result: Result{OK: true}}) {
		t.Error("result without reason or context should be dropped")
	}
	if !q.Push(PendingResult{Event: TurnEnd, Result: Result{OK: false, Reason: "r"}}) {
		t.Error("result with a reason should be kept")
	}
	if !q.Push(PendingResult{Event: TurnEnd, Result: Result{OK: true, AdditionalContext: "c"}}) {
		t.Error("result with context should be kept")
	}
	if q.Len() != 2 {
		t.Errorf("Len = %d, want 2", q.Len())
	}
}

func TestAsyncQueue_DrainEmpties(t *testing.T) {
	t.Parallel()

	q := NewAsyncQueue()
	if got := q.Drain(); len(got) != 0 {
		t.Errorf("empty drain = %v", got)
	}

	q.Push(PendingResult{Event: ToolResult, Result: Result{OK: true, AdditionalContext: "one"}})
	q.Push(PendingResult{Event: AgentEnd, Result: Result{OK: false, Reason: "two"}})

	got := q.Drain()
	if len(got) != 2 || got[0].Result.AdditionalContext != "one" || got[1].Result.Reason != "two" {
		t.Errorf("drain = %+v, want completion order", got)
	}
	if q.Len() != 0 || len(q.Drain()) != 0 {
		t.Error("queue should be empty after drain")
	}
}

func TestAsyncQueue_ConcurrentPush(t *testing.T) {
	t.Parallel()

	q := NewAsyncQueue()
	const writers, perWriter = 8, 50

	var wg sync.WaitGroup
	var drained int
	var mu sync.Mutex
	for range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perWriter {
				q.Push(PendingResult{Event: ToolResult, Result: Result{OK: true, AdditionalContext: "x"}})
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for range 20 {
			n := len(q.Drain())
			mu.Lock()
			drained += n
			mu.Unlock()
		}
	}()
	wg.Wait()

	drained += len(q.Drain())
	if drained != writers*perWriter {
		t.Errorf("drained %d entries, want %d with none lost or duplicated", drained, writers*perWriter)
	}
}

func TestFormatMessages(t *testing.T) {
	t.Parallel()

	if FormatMessages(nil) != nil {
		t.Error("no pending results should format to nil")
	}

	msgs := FormatMessages([]PendingResult{
		{Event: ToolResult, Result: Result{OK: true, AdditionalContext: "tests pass", Reason: "ignored"}},
		{Event: AgentEnd, Result: Result{OK: false, Reason: "coverage dropped"}},
	})
	want := []string{
		"[hook tool_result ok] tests pass",
		"[hook agent_end failed] coverage dropped",
	}
	if len(msgs) != len(want) {
		t.Fatalf("got %d messages, want %d", len(msgs), len(want))
	}
	for i, w := range want {
		if got := msgs[i].Text(); got != w {
			t.Errorf("msgs[%d].Text() = %q, want %q", i, got, w)
		}
	}
}
