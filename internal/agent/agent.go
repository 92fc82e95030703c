// Package agent holds the static registry of supported coding agents
// and the filesystem probe that detects which of them are installed.
package agent

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Config describes one supported coding agent. The registry is a fixed
// process-wide table; entries are never created at runtime.
type Config struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	// ConfigDirName is the agent's dot-directory under $HOME (global
	// scope) or under the project root (project scope).
	ConfigDirName string `json:"configDirName"`
	// SkillsSubdir is the skills directory inside the config dir.
	SkillsSubdir string `json:"skillsSubdir"`
}

var registry = []Config{
	{Name: "claude", DisplayName: "Claude Code", ConfigDirName: ".claude", SkillsSubdir: "skills"},
	{Name: "codex", DisplayName: "Codex CLI", ConfigDirName: ".codex", SkillsSubdir: "skills"},
	{Name: "cursor", DisplayName: "Cursor", ConfigDirName: ".cursor", SkillsSubdir: "skills"},
	{Name: "opencode", DisplayName: "OpenCode", ConfigDirName: ".opencode", SkillsSubdir: "skills"},
	{Name: "gemini", DisplayName: "Gemini CLI", ConfigDirName: ".gemini", SkillsSubdir: "skills"},
	{Name: "copilot", DisplayName: "GitHub Copilot CLI", ConfigDirName: ".copilot", SkillsSubdir: "skills"},
	{Name: "windsurf", DisplayName: "Windsurf", ConfigDirName: ".windsurf", SkillsSubdir: "skills"},
	{Name: "qwen", DisplayName: "Qwen Code", ConfigDirName: ".qwen", SkillsSubdir: "skills"},
}

// All returns the registry in its declared order.
func All() []Config {
	out := make([]Config, len(registry))
	copy(out, registry)
	return out
}

// Lookup finds an agent by name, case-insensitively.
func Lookup(name string) (Config, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, c := range registry {
		if c.Name == name {
			return c, true
		}
	}
	return Config{}, false
}

// GlobalSkillsDir is the agent's global-scope skills directory.
func (c Config) GlobalSkillsDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, c.ConfigDirName, c.SkillsSubdir)
}

// ProjectSkillsDir is the agent's project-scope skills directory under root.
func (c Config) ProjectSkillsDir(root string) string {
	if root == "" {
		root = "."
	}
	return filepath.Join(root, c.ConfigDirName, c.SkillsSubdir)
}

// SkillsDir picks the scope directory.
func (c Config) SkillsDir(global bool, projectRoot string) string {
	if global {
		return c.GlobalSkillsDir()
	}
	return c.ProjectSkillsDir(projectRoot)
}

// DetectInstalled reports agents whose config directory exists under
// $HOME, sorted by name.
func DetectInstalled() []Config {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	out := make([]Config, 0, len(registry))
	for _, c := range registry {
		if stat, err := os.Stat(filepath.Join(home, c.ConfigDirName)); err == nil && stat.IsDir() {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ListInstalledSkills enumerates skill directories already present in
// the agent's scope directory. A missing directory is an empty list.
func ListInstalledSkills(c Config, global bool, projectRoot string) []string {
	entries, err := os.ReadDir(c.SkillsDir(global, projectRoot))
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}
