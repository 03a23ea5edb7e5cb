// ABOUTME: Request/response schema types for the hook RPC methods
// ABOUTME: JSON-serializable types for run_hooks, flush, list_hooks, get_status, cancel

package rpc

import "github.com/mauromedda/pi-hooks/internal/hooks"

// RunHooksParams is the request payload for the run_hooks method.
type RunHooksParams struct {
	Event   string         `json:"event"`
	Payload map[string]any `json:"payload,omitempty"`
}

// MessageInfo is one flushed async result.
type MessageInfo struct {
	Event   string `json:"event"`
	OK      bool   `json:"ok"`
	Content string `json:"content"`
	Text    string `json:"text"`
}

// FlushResult is the response payload for the flush method.
type FlushResult struct {
	Messages []MessageInfo `json:"messages"`
}

// HookListResult is the response payload for the list_hooks method.
type HookListResult struct {
	Source string        `json:"source,omitempty"`
	Hooks  []hooks.Entry `json:"hooks"`
}

// StatusResult is the response payload for the get_status method.
type StatusResult struct {
	State    string `json:"state"`
	Source   string `json:"source,omitempty"`
	Handlers int    `json:"handlers"`
	Pending  int    `json:"pending"`
	Runs     int    `json:"runs"`
}

// CancelResult is the response payload for the cancel method.
type CancelResult struct {
	Cancelled bool `json:"cancelled"`
}
