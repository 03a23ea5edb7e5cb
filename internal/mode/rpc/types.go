// ABOUTME: RPC request/response types for the host protocol
// ABOUTME: JSON-serializable envelopes exchanged as JSON lines over stdin/stdout

package rpc

// Request represents an RPC request from the host runtime.
type Request struct {
	ID     string `json:"id"`
	Method string `json:"method"`
	Params any    `json:"params,omitempty"`
}

// Response represents an RPC response to the host runtime.
type Response struct {
	ID     string `json:"id"`
	Result any    `json:"result,omitempty"`
	Error  *Error `json:"error,omitempty"`
}

// Notification is an unsolicited message to the host. It carries no ID.
type Notification struct {
	Method string `json:"method"`
	Params any    `json:"params,omitempty"`
}

// Error represents an RPC error.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Methods
const (
	MethodRunHooks  = "run_hooks"
	MethodFlush     = "flush"
	MethodListHooks = "list_hooks"
	MethodGetStatus = "get_status"
	MethodCancel    = "cancel"

	// NotifyHookStatus carries a hooks.StatusEvent.
	NotifyHookStatus = "hook_status"
)
