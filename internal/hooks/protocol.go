// ABOUTME: Result protocol parsing for command stdout and agent message text
// ABOUTME: Both parsers degrade to a well-defined default instead of failing

package hooks

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
)

// wireResult mirrors Result with optional fields so absence is detectable.
type wireResult struct {
	OK                *bool    `json:"ok"`
	Reason            string   `json:"reason"`
	Decision          Decision `json:"decision"`
	AdditionalContext string   `json:"additionalContext"`
}

func (w wireResult) result() Result {
	r := Result{
		Reason:            w.Reason,
		Decision:          w.Decision,
		AdditionalContext: w.AdditionalContext,
	}
	if w.OK != nil {
		r.OK = *w.OK
	} else {
		r.OK = w.Decision != DecisionBlock
	}
	return r
}

// ParseCommandOutput interprets the stdout of a command hook that exited 0.
// A JSON object becomes the result (ok defaults to decision != "block");
// any other text is passed through as additional context with ok=true.
func ParseCommandOutput(stdout []byte) Result {
	trimmed := bytes.TrimSpace(stdout)
	if len(trimmed) == 0 {
		return Result{OK: true}
	}
	if trimmed[0] == '{' {
		var w wireResult
		if err := json.Unmarshal(trimmed, &w); err == nil {
			return w.result()
		}
	}
	return Result{OK: true, AdditionalContext: string(trimmed)}
}

// okObjectPattern finds a brace-delimited, non-nested object that contains a
// boolean "ok" key. It is a heuristic: agents wrap their verdict in prose or
// code fences, so strict parsing of the whole message is not possible.
var okObjectPattern = regexp.MustCompile(`\{[^{}]*"ok"\s*:\s*(?:true|false)[^{}]*\}`)

// extractVerdict returns the last decodable verdict object in text.
func extractVerdict(text string) (Result, bool) {
	candidates := okObjectPattern.FindAllString(text, -1)
	for i := len(candidates) - 1; i >= 0; i-- {
		var w wireResult
		if err := json.Unmarshal([]byte(candidates[i]), &w); err != nil || w.OK == nil {
			continue
		}
		return w.result(), true
	}
	return Result{}, false
}

// ExtractAgentResult scans assistant messages from the most recent backward
// and returns the first verdict found. Without one the result is
// {ok: exitCode == 0}.
func ExtractAgentResult(messages []string, exitCode int) Result {
	for i := len(messages) - 1; i >= 0; i-- {
		if strings.TrimSpace(messages[i]) == "" {
			continue
		}
		if r, ok := extractVerdict(messages[i]); ok {
			return r
		}
	}
	return Result{OK: exitCode == 0}
}
