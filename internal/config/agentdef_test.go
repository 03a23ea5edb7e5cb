// ABOUTME: Tests for agent definition lookup and frontmatter decoding
// ABOUTME: Validates directory precedence, missing files, and malformed metadata

package config

import (
	"path/filepath"
	"testing"
)

func TestFindAgent_Precedence(t *testing.T) {
	t.Parallel()

	project := t.TempDir()
	home := t.TempDir()

	writeFile(t, filepath.Join(project, ".claude", "agents", "reviewer.md"),
		"---\nname: reviewer\nmodel: fast\ndescription: project reviewer\n---\nYou review diffs.\n")
	writeFile(t, filepath.Join(home, ".pi-go", "agents", "reviewer.md"),
		"---\nname: reviewer\nmodel: powerful\n---\nGlobal.\n")

	def, ok := FindAgent(AgentDirs(project, home), "reviewer")
	if !ok {
		t.Fatal("expected reviewer to be found")
	}
	if def.Model != "fast" {
		t.Errorf("Model = %q, want project definition", def.Model)
	}
	if def.Description != "project reviewer" {
		t.Errorf("Description = %q", def.Description)
	}
	if def.Path != filepath.Join(project, ".claude", "agents", "reviewer.md") {
		t.Errorf("Path = %q", def.Path)
	}
}

func TestFindAgent_NoFrontmatter(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "plain.md"), "Just a system prompt.")

	def, ok := FindAgent([]string{dir}, "plain")
	if !ok {
		t.Fatal("expected plain agent to be found")
	}
	if def.Name != "plain" {
		t.Errorf("Name = %q, want name from file", def.Name)
	}
	if def.Model != "" {
		t.Errorf("Model = %q, want empty", def.Model)
	}
}

func TestFindAgent_MalformedFrontmatterStillFound(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "broken.md"), "---\nname: [unclosed\n---\nbody")

	def, ok := FindAgent([]string{dir}, "broken")
	if !ok {
		t.Fatal("malformed frontmatter should not hide the file")
	}
	if def.Path == "" {
		t.Error("expected Path to be set")
	}
}

func TestFindAgent_Missing(t *testing.T) {
	t.Parallel()

	if _, ok := FindAgent([]string{t.TempDir()}, "ghost"); ok {
		t.Error("expected missing agent")
	}
	if _, ok := FindAgent([]string{t.TempDir()}, ""); ok {
		t.Error("empty name must not resolve")
	}
	if _, ok := FindAgent([]string{t.TempDir()}, "../etc/passwd"); ok {
		t.Error("path-like names must not resolve")
	}
}

func TestParseAgentFrontmatter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		content   string
		wantModel string
		wantErr   bool
	}{
		{"no frontmatter", "body only", "", false},
		{"empty frontmatter", "---\n---\nbody", "", false},
		{"crlf", "---\r\nmodel: fast\r\n---\r\nbody", "fast", false},
		{"unterminated", "---\nmodel: fast\nbody", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			def, err := parseAgentFrontmatter(tt.content)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if def.Model != tt.wantModel {
				t.Errorf("Model = %q, want %q", def.Model, tt.wantModel)
			}
		})
	}
}
