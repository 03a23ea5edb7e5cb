// ABOUTME: Filesystem locations for hook configuration and agent definitions
// ABOUTME: Project-local candidates (.pi-go/, .claude/) always precede global ones

package config

import (
	"os"
	"path/filepath"
)

const (
	piDirName     = ".pi-go"
	claudeDirName = ".claude"
)

// HomeDir returns the user home directory, or "" when it cannot be resolved.
func HomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}

// ProjectDir returns the project-local config directory (.pi-go/ in projectRoot).
func ProjectDir(projectRoot string) string {
	return filepath.Join(projectRoot, piDirName)
}

// HookCandidates returns the hook configuration files in search order.
// Project-local files come first; global files are skipped when home is empty.
func HookCandidates(projectRoot, home string) []string {
	candidates := []string{
		filepath.Join(projectRoot, piDirName, "hooks.yaml"),
		filepath.Join(projectRoot, piDirName, "settings.local.json"),
		filepath.Join(projectRoot, piDirName, "settings.json"),
		filepath.Join(projectRoot, claudeDirName, "settings.local.json"),
		filepath.Join(projectRoot, claudeDirName, "settings.json"),
	}
	if home != "" {
		candidates = append(candidates,
			filepath.Join(home, piDirName, "hooks.yaml"),
			filepath.Join(home, piDirName, "settings.json"),
			filepath.Join(home, claudeDirName, "settings.json"),
		)
	}
	return candidates
}

// AgentDirs returns the agent definition directories in resolution order
// (project-local first, then global).
func AgentDirs(projectRoot, home string) []string {
	dirs := []string{
		filepath.Join(projectRoot, piDirName, "agents"),
		filepath.Join(projectRoot, claudeDirName, "agents"),
	}
	if home != "" {
		dirs = append(dirs,
			filepath.Join(home, piDirName, "agents"),
			filepath.Join(home, claudeDirName, "agents"),
		)
	}
	return dirs
}
