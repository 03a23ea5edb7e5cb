// ABOUTME: Dispatcher: routes runtime events to matching hooks and aggregates a decision
// ABOUTME: Sync hooks run sequentially in the caller; async hooks detach into the queue

package hooks

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"

	"github.com/mauromedda/pi-hooks/internal/config"
	"github.com/mauromedda/pi-hooks/internal/eventbus"
	"github.com/mauromedda/pi-hooks/internal/telemetry"
)

// StatusPhase marks the start or end of a handler invocation.
type StatusPhase string

const (
	StatusStarted  StatusPhase = "started"
	StatusFinished StatusPhase = "finished"
)

// StatusEvent reports handler progress so the host can show the handler's
// status message while it runs.
type StatusEvent struct {
	InvocationID string      `json:"invocationId"`
	Event        EventName   `json:"event"`
	Kind         string      `json:"kind"`
	Async        bool        `json:"async"`
	Message      string      `json:"message,omitempty"`
	Phase        StatusPhase `json:"phase"`
	Result       *Result     `json:"result,omitempty"`
}

// Options configures a Dispatcher. Zero values select the defaults.
type Options struct {
	Dir          string   // working directory for every hook
	AgentDirs    []string // where agent hooks look up <agent>.md
	AgentCommand string   // sub-agent binary, "pi" when empty

	Queue   *AsyncQueue
	Status  *eventbus.Bus[StatusEvent]
	Metrics *telemetry.Metrics

	// Command and Agent replace the subprocess executors.
	Command Executor
	Agent   Executor
}

// Dispatcher owns the session's hook configuration and async result queue.
type Dispatcher struct {
	cfg     Config
	command Executor
	agent   Executor
	queue   *AsyncQueue
	status  *eventbus.Bus[StatusEvent]
	metrics *telemetry.Metrics

	// Detached handlers run under base, not under the triggering call's
	// context; Close cancels it.
	base   context.Context
	cancel context.CancelFunc
	async  errgroup.Group
}

// NewDispatcher creates a dispatcher for cfg.
func NewDispatcher(cfg Config, opts Options) *Dispatcher {
	d := &Dispatcher{
		cfg:     cfg,
		command: opts.Command,
		agent:   opts.Agent,
		queue:   opts.Queue,
		status:  opts.Status,
		metrics: opts.Metrics,
	}
	if d.cfg == nil {
		d.cfg = Config{}
	}
	if d.command == nil {
		d.command = &CommandExecutor{Dir: opts.Dir}
	}
	if d.agent == nil {
		d.agent = &AgentExecutor{Dir: opts.Dir, AgentDirs: opts.AgentDirs, Command: opts.AgentCommand}
	}
	if d.queue == nil {
		d.queue = NewAsyncQueue()
	}
	if d.metrics == nil {
		m, err := telemetry.NewMetrics(otel.GetMeterProvider())
		if err != nil {
			logger.Warn("metrics disabled: %v", err)
		}
		d.metrics = m
	}
	d.base, d.cancel = context.WithCancel(context.Background())
	return d
}

// Open loads the hook settings for a session rooted at projectRoot and
// returns a dispatcher for them. Fields set in opts take precedence.
func Open(projectRoot, home string, opts Options) (*Dispatcher, *config.HookSettings) {
	settings := config.LoadHooks(projectRoot, home)
	if opts.Dir == "" {
		opts.Dir = projectRoot
	}
	if opts.AgentDirs == nil {
		opts.AgentDirs = config.AgentDirs(projectRoot, home)
	}
	if opts.AgentCommand == "" {
		opts.AgentCommand = settings.AgentCommand
	}
	return NewDispatcher(NewConfig(settings.Hooks), opts), settings
}

// Config returns the dispatcher's configuration. Callers must not modify it.
func (d *Dispatcher) Config() Config {
	return d.cfg
}

// Queue returns the async result queue.
func (d *Dispatcher) Queue() *AsyncQueue {
	return d.queue
}

// RunHooks runs every handler matching ev and returns the aggregate outcome.
// Sync handlers run one after another; additional context accumulates
// newline-joined. On a blockable event the first failing sync handler
// blocks and no further handler of this run is started. Async handlers are
// dispatched in order and never affect the returned outcome.
func (d *Dispatcher) RunHooks(ctx context.Context, ev Event) Outcome {
	matchers := d.cfg[ev.Name]
	if len(matchers) == 0 {
		return Outcome{}
	}

	blockable := ev.Name.Blockable()
	var contexts []string
	var out Outcome

	for _, m := range SelectMatchers(matchers, matchValue(ev)) {
		for _, h := range m.Handlers {
			exec := d.executorFor(h.Kind)
			if exec == nil {
				logger.Debug("%s: %s hooks are not supported yet; skipped", ev.Name, h.Kind)
				continue
			}

			inv := Invocation{ID: uuid.NewString(), Handler: h, Event: ev}
			if h.Async {
				d.dispatchAsync(exec, inv)
				continue
			}

			r := d.runSync(ctx, exec, inv)
			if r.AdditionalContext != "" {
				contexts = append(contexts, r.AdditionalContext)
			}
			if r.OK {
				continue
			}
			if !blockable {
				// A failure that cannot block is reported as context.
				logger.Warn("%s hook %s failed: %s", ev.Name, inv.ID, r.Reason)
				if r.AdditionalContext == "" && r.Reason != "" {
					contexts = append(contexts, r.Reason)
				}
				continue
			}

			out.Block = true
			out.Reason = r.Reason
			if out.Reason == "" {
				out.Reason = defaultBlockReason
			}
			out.AdditionalContext = strings.Join(contexts, "\n")
			d.metrics.RecordBlock(ctx, string(ev.Name))
			logger.Info("%s blocked by hook %s: %s", ev.Name, inv.ID, out.Reason)
			return out
		}
	}

	out.AdditionalContext = strings.Join(contexts, "\n")
	return out
}

// executorFor maps each handler kind onto its executor. Prompt hooks have
// none yet.
func (d *Dispatcher) executorFor(k HandlerKind) Executor {
	switch k {
	case KindCommand:
		return d.command
	case KindAgent:
		return d.agent
	case KindPrompt:
		return nil
	}
	return nil
}

// runSync executes inv in the caller's goroutine. A handler that cannot be
// started counts as a failure.
func (d *Dispatcher) runSync(ctx context.Context, exec Executor, inv Invocation) Result {
	r, err := d.execute(ctx, exec, inv)
	if err != nil {
		logger.Warn("%s hook %s could not start: %v", inv.Event.Name, inv.ID, err)
		return Result{OK: false, Reason: "hook failed to start: " + err.Error()}
	}
	return r
}

// dispatchAsync runs inv detached and queues its outcome when it carries a
// reason or context. Start failures are logged and dropped.
func (d *Dispatcher) dispatchAsync(exec Executor, inv Invocation) {
	d.async.Go(func() error {
		r, err := d.execute(d.base, exec, inv)
		if err != nil {
			logger.Debug("async %s hook %s could not start: %v", inv.Event.Name, inv.ID, err)
			return nil
		}
		if d.queue.Push(PendingResult{Event: inv.Event.Name, Result: r}) {
			logger.Debug("async %s hook %s queued (ok=%t)", inv.Event.Name, inv.ID, r.OK)
		}
		return nil
	})
}

// execute wraps an executor call with status events and metrics.
func (d *Dispatcher) execute(ctx context.Context, exec Executor, inv Invocation) (Result, error) {
	h := inv.Handler
	d.status.Publish(StatusEvent{
		InvocationID: inv.ID,
		Event:        inv.Event.Name,
		Kind:         h.Kind.String(),
		Async:        h.Async,
		Message:      h.StatusMessage,
		Phase:        StatusStarted,
	})

	start := time.Now()
	r, err := exec.Execute(ctx, inv)
	elapsed := time.Since(start)

	outcome := telemetry.OutcomeOK
	switch {
	case err != nil:
		outcome = telemetry.OutcomeSpawnError
	case !r.OK:
		outcome = telemetry.OutcomeFailed
	}
	d.metrics.RecordRun(ctx, string(inv.Event.Name), h.Kind.String(), h.Async, outcome, elapsed)

	finished := StatusEvent{
		InvocationID: inv.ID,
		Event:        inv.Event.Name,
		Kind:         h.Kind.String(),
		Async:        h.Async,
		Message:      h.StatusMessage,
		Phase:        StatusFinished,
	}
	if err == nil {
		finished.Result = &r
	}
	d.status.Publish(finished)

	return r, err
}

// Flush drains the async queue into context messages for the next turn.
// An empty queue yields no messages.
func (d *Dispatcher) Flush() []ContextMessage {
	return FormatMessages(d.queue.Drain())
}

// Wait blocks until every detached handler dispatched so far has finished.
// It must not run concurrently with RunHooks.
func (d *Dispatcher) Wait() {
	_ = d.async.Wait()
}

// WaitContext is Wait, except that once ctx is done the detached handlers
// are aborted as by Close. Their "hook aborted" results are still queued.
func (d *Dispatcher) WaitContext(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		d.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		d.Close()
		<-done
	}
}

// Close aborts detached handlers still running and waits for them.
func (d *Dispatcher) Close() {
	d.cancel()
	d.Wait()
}
