// ABOUTME: Environment variable expansion in hook configuration strings
// ABOUTME: Replaces ${VAR} patterns with set env values; unset references stay for the shell

package config

import (
	"os"
	"regexp"
)

var envVarPattern = regexp.MustCompile(`\$\{(\w+)\}`)

// ResolveEnvVars expands ${VAR} patterns in the agent command and in every
// handler's command, agent, model and matcher fields. Prompt templates are
// left alone; they are sent verbatim to the agent.
func ResolveEnvVars(s *HookSettings) {
	s.AgentCommand = expandEnv(s.AgentCommand)

	for event, matchers := range s.Hooks {
		for i := range matchers {
			matchers[i].Matcher = expandEnv(matchers[i].Matcher)
			for j := range matchers[i].Hooks {
				h := &matchers[i].Hooks[j]
				h.Command = expandEnv(h.Command)
				h.Agent = expandEnv(h.Agent)
				h.Model = expandEnv(h.Model)
			}
		}
		s.Hooks[event] = matchers
	}
}

// expandEnv replaces ${VAR} with the value of VAR when it is set. Unset
// references and bare $VAR are left for the hook's shell, which receives
// variables such as CLAUDE_PROJECT_DIR only at spawn time.
func expandEnv(s string) string {
	if s == "" {
		return s
	}
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if v, ok := os.LookupEnv(varName); ok {
			return v
		}
		return match
	})
}
