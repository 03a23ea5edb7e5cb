// ABOUTME: Tests for the dispatcher: aggregation, blocking, async isolation, flush
// ABOUTME: Uses a scripted fake executor plus real shell and fake-agent scenarios

package hooks

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mauromedda/pi-hooks/internal/eventbus"
)

// fakeExecutor returns scripted results keyed by the handler's Command (or
// Agent) and records the order of invocations.
type fakeExecutor struct {
	mu      sync.Mutex
	results map[string]Result
	errs    map[string]error
	delay   map[string]time.Duration
	calls   []string
}

func (f *fakeExecutor) Execute(ctx context.Context, inv Invocation) (Result, error) {
	label := inv.Handler.Command
	if label == "" {
		label = inv.Handler.Agent
	}
	f.mu.Lock()
	f.calls = append(f.calls, label)
	d := f.delay[label]
	err := f.errs[label]
	r, ok := f.results[label]
	f.mu.Unlock()

	if d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return Result{OK: false, Reason: "hook aborted"}, nil
		}
	}
	if err != nil {
		return Result{}, err
	}
	if !ok {
		r = Result{OK: true}
	}
	return r, nil
}

func (f *fakeExecutor) called() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func cmd(label string) Handler {
	return Handler{Kind: KindCommand, Command: label, Timeout: time.Second}
}

func asyncCmd(label string) Handler {
	h := cmd(label)
	h.Async = true
	return h
}

func newTestDispatcher(t *testing.T, cfg Config, exec *fakeExecutor) *Dispatcher {
	t.Helper()
	d := NewDispatcher(cfg, Options{Dir: t.TempDir(), Command: exec, Agent: exec})
	t.Cleanup(d.Close)
	return d
}

func sameCalls(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestRunHooks_NoHandlers(t *testing.T) {
	t.Parallel()

	d := newTestDispatcher(t, Config{}, &fakeExecutor{})
	out := d.RunHooks(context.Background(), Event{Name: TurnStart})
	if out != (Outcome{}) {
		t.Errorf("outcome = %+v, want zero", out)
	}
}

func TestRunHooks_ContextJoinedInOrder(t *testing.T) {
	t.Parallel()

	exec := &fakeExecutor{results: map[string]Result{
		"a": {OK: true, AdditionalContext: "first"},
		"b": {OK: true},
		"c": {OK: true, AdditionalContext: "third"},
	}}
	d := newTestDispatcher(t, Config{
		AgentStart: {
			{Handlers: []Handler{cmd("a"), cmd("b")}},
			{Pattern: "*", Handlers: []Handler{cmd("c")}},
		},
	}, exec)

	out := d.RunHooks(context.Background(), Event{Name: AgentStart})
	if out.Block {
		t.Fatal("unexpected block")
	}
	if out.AdditionalContext != "first\nthird" {
		t.Errorf("AdditionalContext = %q", out.AdditionalContext)
	}
	if got := exec.called(); !sameCalls(got, []string{"a", "b", "c"}) {
		t.Errorf("calls = %v", got)
	}
}

func TestRunHooks_BlockStopsLaterHandlers(t *testing.T) {
	t.Parallel()

	exec := &fakeExecutor{results: map[string]Result{
		"ctx":   {OK: true, AdditionalContext: "before"},
		"deny":  {OK: false, Reason: "denied"},
		"later": {OK: true, AdditionalContext: "never"},
	}}
	d := newTestDispatcher(t, Config{
		ToolCall: {
			{Pattern: "bash", Handlers: []Handler{cmd("ctx"), cmd("deny"), cmd("later")}},
			{Handlers: []Handler{asyncCmd("async-after")}},
		},
	}, exec)

	out := d.RunHooks(context.Background(), bashCall)
	want := Outcome{Block: true, Reason: "denied", AdditionalContext: "before"}
	if out != want {
		t.Errorf("outcome = %+v, want %+v", out, want)
	}
	d.Wait()
	if got := exec.called(); !sameCalls(got, []string{"ctx", "deny"}) {
		t.Errorf("calls = %v, want handlers after the block skipped", got)
	}
}

func TestRunHooks_BlockWithoutReason(t *testing.T) {
	t.Parallel()

	exec := &fakeExecutor{results: map[string]Result{"deny": {OK: false}}}
	d := newTestDispatcher(t, Config{Input: {{Handlers: []Handler{cmd("deny")}}}}, exec)

	out := d.RunHooks(context.Background(), Event{Name: Input, Payload: map[string]any{"text": "hi"}})
	if !out.Block || out.Reason != defaultBlockReason {
		t.Errorf("outcome = %+v, want default block reason", out)
	}
}

func TestRunHooks_NonBlockableFailureContinues(t *testing.T) {
	t.Parallel()

	exec := &fakeExecutor{results: map[string]Result{
		"fail": {OK: false, Reason: "lint failed", AdditionalContext: "see output"},
		"next": {OK: true, AdditionalContext: "ran"},
		"bare": {OK: false, Reason: "hook timed out after 1s"},
	}}
	d := newTestDispatcher(t, Config{
		ToolResult: {{Handlers: []Handler{cmd("fail"), cmd("next"), cmd("bare")}}},
	}, exec)

	out := d.RunHooks(context.Background(), Event{Name: ToolResult, Payload: map[string]any{"toolName": "edit"}})
	if out.Block {
		t.Fatal("tool_result must never block")
	}
	if out.AdditionalContext != "see output\nran\nhook timed out after 1s" {
		t.Errorf("AdditionalContext = %q", out.AdditionalContext)
	}
	if got := exec.called(); !sameCalls(got, []string{"fail", "next", "bare"}) {
		t.Errorf("calls = %v", got)
	}
}

func TestRunHooks_SpawnErrorBlocks(t *testing.T) {
	t.Parallel()

	exec := &fakeExecutor{errs: map[string]error{"broken": errors.New("exec: not found")}}
	d := newTestDispatcher(t, Config{ToolCall: {{Handlers: []Handler{cmd("broken"), cmd("after")}}}}, exec)

	out := d.RunHooks(context.Background(), bashCall)
	if !out.Block || !strings.HasPrefix(out.Reason, "hook failed to start: ") {
		t.Errorf("outcome = %+v, want start failure to block", out)
	}
	if got := exec.called(); !sameCalls(got, []string{"broken"}) {
		t.Errorf("calls = %v", got)
	}
}

func TestRunHooks_MatcherFiltering(t *testing.T) {
	t.Parallel()

	exec := &fakeExecutor{}
	d := newTestDispatcher(t, Config{
		ToolCall: {
			{Pattern: "^read$", Handlers: []Handler{cmd("read-only")}},
			{Pattern: "bash", Handlers: []Handler{cmd("bash-only")}},
		},
	}, exec)

	d.RunHooks(context.Background(), bashCall)
	d.RunHooks(context.Background(), Event{Name: ToolCall, Payload: map[string]any{}})
	if got := exec.called(); !sameCalls(got, []string{"bash-only"}) {
		t.Errorf("calls = %v", got)
	}
}

func TestRunHooks_PromptHandlersSkipped(t *testing.T) {
	t.Parallel()

	exec := &fakeExecutor{}
	d := newTestDispatcher(t, Config{
		Input: {{Handlers: []Handler{{Kind: KindPrompt, Prompt: "judge", Timeout: time.Second}, cmd("real")}}},
	}, exec)

	out := d.RunHooks(context.Background(), Event{Name: Input})
	if out.Block {
		t.Error("prompt handler must not block")
	}
	if got := exec.called(); !sameCalls(got, []string{"real"}) {
		t.Errorf("calls = %v", got)
	}
}

func TestRunHooks_AsyncNeverAffectsOutcome(t *testing.T) {
	t.Parallel()

	exec := &fakeExecutor{
		results: map[string]Result{"slow-deny": {OK: false, Reason: "too late"}},
		delay:   map[string]time.Duration{"slow-deny": 300 * time.Millisecond},
	}
	d := newTestDispatcher(t, Config{ToolCall: {{Handlers: []Handler{asyncCmd("slow-deny")}}}}, exec)

	start := time.Now()
	out := d.RunHooks(context.Background(), bashCall)
	if time.Since(start) > 200*time.Millisecond {
		t.Error("RunHooks waited for an async handler")
	}
	if out.Block {
		t.Fatal("async failure must not block")
	}
	if msgs := d.Flush(); len(msgs) != 0 {
		t.Errorf("flush before completion = %v, want empty", msgs)
	}

	d.Wait()
	msgs := d.Flush()
	if len(msgs) != 1 {
		t.Fatalf("flush = %v, want one message", msgs)
	}
	if msgs[0].OK || msgs[0].Content != "too late" || msgs[0].Event != ToolCall {
		t.Errorf("message = %+v", msgs[0])
	}
	if got := msgs[0].Text(); got != "[hook tool_call failed] too late" {
		t.Errorf("Text() = %q", got)
	}
	if msgs := d.Flush(); msgs != nil {
		t.Errorf("second flush = %v, want nil", msgs)
	}
}

func TestRunHooks_AsyncSurvivesCallerCancel(t *testing.T) {
	t.Parallel()

	exec := &fakeExecutor{
		results: map[string]Result{"bg": {OK: true, AdditionalContext: "done"}},
		delay:   map[string]time.Duration{"bg": 100 * time.Millisecond},
	}
	d := newTestDispatcher(t, Config{TurnEnd: {{Handlers: []Handler{asyncCmd("bg")}}}}, exec)

	ctx, cancel := context.WithCancel(context.Background())
	d.RunHooks(ctx, Event{Name: TurnEnd})
	cancel()

	d.Wait()
	msgs := d.Flush()
	if len(msgs) != 1 || msgs[0].Content != "done" || !msgs[0].OK {
		t.Errorf("flush = %+v, want completed async result", msgs)
	}
}

func TestRunHooks_AsyncResultsFlushedOnce(t *testing.T) {
	t.Parallel()

	exec := &fakeExecutor{results: map[string]Result{
		"quiet": {OK: true},
		"noisy": {OK: true, AdditionalContext: "note"},
	}}
	d := newTestDispatcher(t, Config{
		AgentEnd: {{Handlers: []Handler{asyncCmd("quiet"), asyncCmd("noisy")}}},
	}, exec)

	const runs = 5
	for range runs {
		d.RunHooks(context.Background(), Event{Name: AgentEnd})
	}
	d.Wait()

	msgs := d.Flush()
	if len(msgs) != runs {
		t.Errorf("flush returned %d messages, want %d (silent results dropped)", len(msgs), runs)
	}
	if msgs := d.Flush(); len(msgs) != 0 {
		t.Errorf("second flush = %v", msgs)
	}
}

func TestDispatcher_CloseAbortsAsync(t *testing.T) {
	t.Parallel()

	exec := &fakeExecutor{delay: map[string]time.Duration{"forever": time.Hour}}
	d := NewDispatcher(Config{TurnEnd: {{Handlers: []Handler{asyncCmd("forever")}}}}, Options{Command: exec})

	d.RunHooks(context.Background(), Event{Name: TurnEnd})

	done := make(chan struct{})
	go func() {
		d.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Close did not abort the detached handler")
	}
	msgs := d.Flush()
	if len(msgs) != 1 || msgs[0].Content != "hook aborted" {
		t.Errorf("flush = %+v, want aborted result", msgs)
	}
}

func TestDispatcher_WaitContextAbortsOnCancel(t *testing.T) {
	t.Parallel()

	exec := &fakeExecutor{delay: map[string]time.Duration{"forever": time.Hour}}
	d := newTestDispatcher(t, Config{TurnEnd: {{Handlers: []Handler{asyncCmd("forever")}}}}, exec)
	d.RunHooks(context.Background(), Event{Name: TurnEnd})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		d.WaitContext(ctx)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("WaitContext kept waiting after its context expired")
	}
	if msgs := d.Flush(); len(msgs) != 1 || msgs[0].Content != "hook aborted" {
		t.Errorf("flush = %+v, want aborted result", msgs)
	}
}

func TestDispatcher_WaitContextReturnsWhenDone(t *testing.T) {
	t.Parallel()

	exec := &fakeExecutor{results: map[string]Result{"bg": {OK: true, AdditionalContext: "done"}}}
	d := newTestDispatcher(t, Config{TurnEnd: {{Handlers: []Handler{asyncCmd("bg")}}}}, exec)
	d.RunHooks(context.Background(), Event{Name: TurnEnd})

	d.WaitContext(context.Background())
	if msgs := d.Flush(); len(msgs) != 1 || msgs[0].Content != "done" {
		t.Errorf("flush = %+v", msgs)
	}
}

func TestRunHooks_StatusEvents(t *testing.T) {
	t.Parallel()

	bus := eventbus.New[StatusEvent]()
	var mu sync.Mutex
	var events []StatusEvent
	bus.Subscribe(func(e StatusEvent) {
		mu.Lock()
		events = append(events, e)
		mu.Unlock()
	})

	exec := &fakeExecutor{results: map[string]Result{"lint": {OK: true, AdditionalContext: "clean"}}}
	h := cmd("lint")
	h.StatusMessage = "Linting..."
	d := NewDispatcher(Config{ToolResult: {{Handlers: []Handler{h}}}}, Options{Command: exec, Status: bus})
	t.Cleanup(d.Close)

	d.RunHooks(context.Background(), Event{Name: ToolResult, Payload: map[string]any{"toolName": "edit"}})

	mu.Lock()
	defer mu.Unlock()
	if len(events) != 2 {
		t.Fatalf("got %d status events, want 2", len(events))
	}
	started, finished := events[0], events[1]
	if started.Phase != StatusStarted || finished.Phase != StatusFinished {
		t.Errorf("phases = %s, %s", started.Phase, finished.Phase)
	}
	if started.InvocationID == "" || started.InvocationID != finished.InvocationID {
		t.Errorf("invocation ids = %q, %q", started.InvocationID, finished.InvocationID)
	}
	if started.Message != "Linting..." || started.Kind != "command" {
		t.Errorf("started = %+v", started)
	}
	if finished.Result == nil || finished.Result.AdditionalContext != "clean" {
		t.Errorf("finished result = %+v", finished.Result)
	}
}

func TestRunHooks_ShellBlocksDangerousCommand(t *testing.T) {
	t.Parallel()

	script := `grep -q 'rm -rf' && { echo "no rm -rf" >&2; exit 2; }; exit 0`
	d := NewDispatcher(Config{
		ToolCall: {{Pattern: "bash", Handlers: []Handler{{Kind: KindCommand, Command: script, Timeout: 10 * time.Second}}}},
	}, Options{Dir: t.TempDir()})
	t.Cleanup(d.Close)

	out := d.RunHooks(context.Background(), bashCall)
	if want := (Outcome{Block: true, Reason: "no rm -rf"}); out != want {
		t.Errorf("bash outcome = %+v, want %+v", out, want)
	}

	out = d.RunHooks(context.Background(), Event{Name: ToolCall, Payload: map[string]any{"toolName": "read", "input": map[string]any{"path": "rm -rf.txt"}}})
	if out != (Outcome{}) {
		t.Errorf("read outcome = %+v, want no hooks to run", out)
	}
}

func TestRunHooks_ShellDenyWithBackgroundChild(t *testing.T) {
	t.Parallel()

	deny := `nohup sleep 5 >/dev/null 2>&1 & sleep 5 & echo '{"ok":false,"reason":"denied"}'`
	d := NewDispatcher(Config{
		ToolCall: {{Pattern: "bash", Handlers: []Handler{{Kind: KindCommand, Command: deny}}}},
	}, Options{Dir: t.TempDir()})
	t.Cleanup(d.Close)

	out := d.RunHooks(context.Background(), bashCall)
	if want := (Outcome{Block: true, Reason: "denied"}); out != want {
		t.Errorf("outcome = %+v, want %+v", out, want)
	}
}

func TestRunHooks_HandlerWithoutTimeout(t *testing.T) {
	t.Parallel()

	d := NewDispatcher(Config{
		ToolCall: {{Handlers: []Handler{{Kind: KindCommand, Command: "echo hi"}}}},
	}, Options{Dir: t.TempDir()})
	t.Cleanup(d.Close)

	out := d.RunHooks(context.Background(), bashCall)
	if want := (Outcome{AdditionalContext: "hi"}); out != want {
		t.Errorf("outcome = %+v, want %+v", out, want)
	}
}

func TestRunHooks_AsyncAgentOnToolResult(t *testing.T) {
	script, argsFile := fakeAgent(t, "sleep 0.3\n"+`echo '{"type":"message_end","message":{"role":"assistant","content":"{\"ok\": false, \"reason\": \"tests now fail\"}"}}'`)

	d := NewDispatcher(Config{
		ToolResult: {{Pattern: "edit|write", Handlers: []Handler{{
			Kind: KindAgent, Prompt: "Review: $ARGUMENTS", Async: true, Timeout: 10 * time.Second,
		}}}},
	}, Options{Dir: t.TempDir(), AgentCommand: script})
	t.Cleanup(d.Close)

	start := time.Now()
	out := d.RunHooks(context.Background(), Event{Name: ToolResult, Payload: map[string]any{"toolName": "edit"}})
	if time.Since(start) > 250*time.Millisecond {
		t.Error("RunHooks blocked on an async agent hook")
	}
	if out.Block {
		t.Fatal("async agent hook must not block")
	}

	d.Wait()
	msgs := d.Flush()
	if len(msgs) != 1 {
		t.Fatalf("flush = %+v, want one message", msgs)
	}
	if msgs[0].Text() != "[hook tool_result failed] tests now fail" {
		t.Errorf("Text() = %q", msgs[0].Text())
	}
	if args := readArgs(t, argsFile); !strings.HasPrefix(args[len(args)-1], "Review: {") {
		t.Errorf("prompt = %q", args[len(args)-1])
	}
}

func TestOpen_LoadsProjectHooks(t *testing.T) {
	t.Parallel()

	project, home := t.TempDir(), t.TempDir()
	dir := filepath.Join(project, ".claude")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	settings := `{"hooks":{"PreToolUse":[{"matcher":"bash","hooks":[{"type":"command","command":"exit 2"}]}]},"agentCommand":"my-agent"}`
	if err := os.WriteFile(filepath.Join(dir, "settings.json"), []byte(settings), 0o644); err != nil {
		t.Fatal(err)
	}

	d, loaded := Open(project, home, Options{})
	t.Cleanup(d.Close)

	if loaded.Source != filepath.Join(dir, "settings.json") {
		t.Errorf("Source = %q", loaded.Source)
	}
	if len(d.Config()[ToolCall]) != 1 {
		t.Fatalf("config = %+v, want PreToolUse normalized to tool_call", d.Config())
	}
	if agent, ok := d.agent.(*AgentExecutor); !ok || agent.Command != "my-agent" {
		t.Errorf("agent executor = %+v", d.agent)
	}

	out := d.RunHooks(context.Background(), bashCall)
	if !out.Block || out.Reason != defaultBlockReason {
		t.Errorf("outcome = %+v", out)
	}
}

func TestOpen_NoConfig(t *testing.T) {
	t.Parallel()

	d, loaded := Open(t.TempDir(), "", Options{})
	t.Cleanup(d.Close)

	if loaded.Source != "" || len(d.Config()) != 0 {
		t.Errorf("expected empty configuration, got %+v", loaded)
	}
	if out := d.RunHooks(context.Background(), bashCall); out != (Outcome{}) {
		t.Errorf("outcome = %+v", out)
	}
}
