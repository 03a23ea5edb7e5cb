// ABOUTME: Agent definition lookup for agent hooks: <dir>/<name>.md with YAML frontmatter
// ABOUTME: Only the metadata is decoded; the file itself is handed to the sub-agent

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// AgentDefinition describes an agent file found in one of the agent dirs.
type AgentDefinition struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Model       string `yaml:"model"`

	// Path is the absolute location of the markdown file.
	Path string `yaml:"-"`
}

// FindAgent returns the first <name>.md found across dirs. Frontmatter that
// fails to decode still yields a definition carrying the path, since the
// file content is what the sub-agent receives.
func FindAgent(dirs []string, name string) (AgentDefinition, bool) {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return AgentDefinition{}, false
	}

	for _, dir := range dirs {
		path := filepath.Join(dir, name+".md")
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		def, err := parseAgentFrontmatter(string(data))
		if err != nil {
			logger.Debug("agent %s: %v", path, err)
		}
		if def.Name == "" {
			def.Name = name
		}
		def.Path = path
		return def, true
	}
	return AgentDefinition{}, false
}

// parseAgentFrontmatter decodes the leading "---" delimited YAML block.
// Content without frontmatter yields a zero definition and no error.
func parseAgentFrontmatter(content string) (AgentDefinition, error) {
	var def AgentDefinition

	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	rest, ok := strings.CutPrefix(normalized, "---\n")
	if !ok {
		return def, nil
	}

	block, _, found := strings.Cut(rest, "\n---")
	if !found {
		if strings.HasPrefix(rest, "---") {
			return def, nil
		}
		return def, errors.New("unterminated frontmatter: missing closing ---")
	}

	if err := yaml.Unmarshal([]byte(block), &def); err != nil {
		return AgentDefinition{}, fmt.Errorf("parse frontmatter YAML: %w", err)
	}
	return def, nil
}
