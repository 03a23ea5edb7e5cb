// ABOUTME: Handler implementations for RPC methods (run_hooks, flush, list_hooks, get_status, cancel)
// ABOUTME: Dispatches requests to appropriate handlers with input validation

package rpc

import (
	"context"
	"encoding/json"
	"slices"
	"sync"

	"github.com/mauromedda/pi-hooks/internal/config"
	"github.com/mauromedda/pi-hooks/internal/hooks"
)

// HandlerFunc processes an RPC request's params and returns a Response.
type HandlerFunc func(ctx context.Context, params json.RawMessage) Response

// Router dispatches RPC requests to registered handlers by method name.
type Router struct {
	handlers  map[string]HandlerFunc
	immediate map[string]bool
}

// NewRouter creates a Router with an empty handler registry.
func NewRouter() *Router {
	return &Router{
		handlers:  make(map[string]HandlerFunc),
		immediate: make(map[string]bool),
	}
}

// Register associates a method name with a handler function. The server
// runs such handlers one at a time, in arrival order.
func (r *Router) Register(method string, handler HandlerFunc) {
	r.handlers[method] = handler
}

// RegisterImmediate registers a handler the server runs as soon as the
// request is read, even while another request is in progress.
func (r *Router) RegisterImmediate(method string, handler HandlerFunc) {
	r.handlers[method] = handler
	r.immediate[method] = true
}

// Immediate reports whether method bypasses the sequential queue.
func (r *Router) Immediate(method string) bool {
	return r.immediate[method]
}

// Handle dispatches a request to the registered handler, or returns
// a method-not-found error if no handler is registered.
func (r *Router) Handle(ctx context.Context, req Request) Response {
	h, ok := r.handlers[req.Method]
	if !ok {
		return Response{
			ID:    req.ID,
			Error: NewMethodNotFoundError(req.Method),
		}
	}

	raw, err := marshalParams(req.Params)
	if err != nil {
		return Response{
			ID:    req.ID,
			Error: NewInvalidParamsError(err.Error()),
		}
	}

	resp := h(ctx, raw)
	resp.ID = req.ID
	return resp
}

// marshalParams converts the generic Params field into json.RawMessage
// so handlers can decode it themselves.
func marshalParams(params any) (json.RawMessage, error) {
	if params == nil {
		return nil, nil
	}
	if raw, ok := params.(json.RawMessage); ok {
		return raw, nil
	}
	return json.Marshal(params)
}

// Service exposes one session's dispatcher over RPC.
type Service struct {
	dispatcher *hooks.Dispatcher
	source     string

	mu       sync.Mutex
	inflight context.CancelFunc
	runs     int
}

// NewService creates a Service. source names the settings file the
// dispatcher's configuration came from.
func NewService(d *hooks.Dispatcher, source string) *Service {
	return &Service{dispatcher: d, source: source}
}

// RegisterHandlers wires all method handlers into the given router.
func RegisterHandlers(r *Router, s *Service) {
	r.Register(MethodRunHooks, s.handleRunHooks)
	r.Register(MethodFlush, s.handleFlush)
	r.Register(MethodListHooks, s.handleListHooks)
	r.RegisterImmediate(MethodGetStatus, s.handleGetStatus)
	r.RegisterImmediate(MethodCancel, s.handleCancel)
}

func (s *Service) handleRunHooks(ctx context.Context, params json.RawMessage) Response {
	var p RunHooksParams
	if len(params) == 0 {
		return Response{Error: NewInvalidParamsError("missing params")}
	}
	if err := json.Unmarshal(params, &p); err != nil {
		return Response{Error: NewInvalidParamsError(err.Error())}
	}
	if p.Event == "" {
		return Response{Error: NewInvalidParamsError("missing event")}
	}
	name := hooks.EventName(config.NormalizeEventName(p.Event))
	if !slices.Contains(hooks.KnownEvents, name) {
		return Response{Error: NewUnknownEventError(p.Event)}
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	s.inflight = cancel
	s.runs++
	s.mu.Unlock()

	out := s.dispatcher.RunHooks(runCtx, hooks.Event{Name: name, Payload: p.Payload})

	s.mu.Lock()
	s.inflight = nil
	s.mu.Unlock()

	return Response{Result: out}
}

func (s *Service) handleFlush(_ context.Context, _ json.RawMessage) Response {
	msgs := s.dispatcher.Flush()
	infos := make([]MessageInfo, 0, len(msgs))
	for _, m := range msgs {
		infos = append(infos, MessageInfo{
			Event:   string(m.Event),
			OK:      m.OK,
			Content: m.Content,
			Text:    m.Text(),
		})
	}
	return Response{Result: FlushResult{Messages: infos}}
}

func (s *Service) handleListHooks(_ context.Context, _ json.RawMessage) Response {
	entries := s.dispatcher.Config().Entries()
	if entries == nil {
		entries = []hooks.Entry{}
	}
	return Response{Result: HookListResult{Source: s.source, Hooks: entries}}
}

func (s *Service) handleGetStatus(_ context.Context, _ json.RawMessage) Response {
	s.mu.Lock()
	state := "idle"
	if s.inflight != nil {
		state = "running"
	}
	runs := s.runs
	s.mu.Unlock()

	return Response{
		Result: StatusResult{
			State:    state,
			Source:   s.source,
			Handlers: len(s.dispatcher.Config().Entries()),
			Pending:  s.dispatcher.Queue().Len(),
			Runs:     runs,
		},
	}
}

// handleCancel aborts the run_hooks call in progress, if any. Its
// handlers are killed and report "hook aborted".
func (s *Service) handleCancel(_ context.Context, _ json.RawMessage) Response {
	s.mu.Lock()
	cancel := s.inflight
	s.mu.Unlock()

	if cancel == nil {
		return Response{Result: CancelResult{Cancelled: false}}
	}
	cancel()
	return Response{Result: CancelResult{Cancelled: true}}
}
