// ABOUTME: Hook settings loading: first readable candidate wins, failures fail open
// ABOUTME: JSON settings files and YAML hook files share one document shape

package config

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mauromedda/pi-hooks/internal/log"
)

var logger = log.Component("config")

// HandlerDef is one configured hook action as written in the settings file.
type HandlerDef struct {
	Type          string  `json:"type" yaml:"type"`
	Command       string  `json:"command,omitempty" yaml:"command,omitempty"`
	Agent         string  `json:"agent,omitempty" yaml:"agent,omitempty"`
	Prompt        string  `json:"prompt,omitempty" yaml:"prompt,omitempty"`
	Model         string  `json:"model,omitempty" yaml:"model,omitempty"`
	Timeout       float64 `json:"timeout,omitempty" yaml:"timeout,omitempty"` // seconds
	Async         bool    `json:"async,omitempty" yaml:"async,omitempty"`
	StatusMessage string  `json:"statusMessage,omitempty" yaml:"statusMessage,omitempty"`
}

// MatcherDef pairs an optional pattern with the handlers it triggers.
type MatcherDef struct {
	Matcher string       `json:"matcher,omitempty" yaml:"matcher,omitempty"`
	Hooks   []HandlerDef `json:"hooks" yaml:"hooks"`
}

// HooksConfig maps event names to their ordered matchers.
type HooksConfig map[string][]MatcherDef

// HookSettings is the subset of a settings document the hook engine reads.
type HookSettings struct {
	Hooks        HooksConfig `json:"hooks,omitempty" yaml:"hooks,omitempty"`
	AgentCommand string      `json:"agentCommand,omitempty" yaml:"agentCommand,omitempty"`

	// Source is the file the settings came from; empty when nothing was found.
	Source string `json:"-" yaml:"-"`

	// Skipped holds the parse errors of malformed candidates searched
	// before Source.
	Skipped []error `json:"-" yaml:"-"`
}

// LoadHooks searches HookCandidates and returns the settings of the first
// file that exists and parses. A malformed file is skipped exactly like a
// missing one; when no candidate qualifies the result is an empty config.
func LoadHooks(projectRoot, home string) *HookSettings {
	var skipped []error
	for _, path := range HookCandidates(projectRoot, home) {
		s, err := loadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				logger.Debug("skipping hook config %s: %v", path, err)
				skipped = append(skipped, err)
			}
			continue
		}
		s.Source = path
		s.Skipped = skipped
		s.Hooks = normalizeEvents(s.Hooks)
		ResolveEnvVars(s)
		logger.Debug("loaded hook config from %s (%d events)", path, len(s.Hooks))
		return s
	}
	return &HookSettings{Hooks: HooksConfig{}, Skipped: skipped}
}

// loadFile decodes one candidate, choosing the decoder by file extension.
func loadFile(path string) (*HookSettings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var s HookSettings
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &s)
	default:
		err = json.Unmarshal(data, &s)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if s.Hooks == nil {
		s.Hooks = HooksConfig{}
	}
	return &s, nil
}

// claudeEventAliases maps Claude Code hook event names onto pi event names so
// existing .claude/settings.json files keep working.
var claudeEventAliases = map[string]string{
	"PreToolUse":       "tool_call",
	"PostToolUse":      "tool_result",
	"UserPromptSubmit": "input",
	"Stop":             "agent_end",
	"SubagentStop":     "agent_end",
	"SessionStart":     "session_start",
	"SessionEnd":       "session_shutdown",
	"PreCompact":       "session_before_compact",
}

// NormalizeEventName returns the pi event name for a Claude Code alias, or
// name unchanged.
func NormalizeEventName(name string) string {
	if alias, ok := claudeEventAliases[name]; ok {
		return alias
	}
	return name
}

// normalizeEvents rewrites aliased keys. Matchers under an alias are appended
// after those already declared under the canonical name.
func normalizeEvents(h HooksConfig) HooksConfig {
	out := make(HooksConfig, len(h))
	for event, matchers := range h {
		if _, aliased := claudeEventAliases[event]; aliased {
			continue
		}
		out[event] = append(out[event], matchers...)
	}
	for _, event := range slices.Sorted(maps.Keys(h)) {
		if canonical, aliased := claudeEventAliases[event]; aliased {
			out[canonical] = append(out[canonical], h[event]...)
		}
	}
	return out
}
