// Package installer copies validated skills into agent skills
// directories. Each install is a one-shot overwrite copy; there is no
// merge and no partial-completion recovery.
package installer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"skillget/internal/agent"
	"skillget/internal/discovery"
	"skillget/internal/fsutil"
	"skillget/internal/logging"
)

// Outcome records the result of installing one skill into one agent.
type Outcome struct {
	Skill   string `json:"skill"`
	Agent   string `json:"agent"`
	Path    string `json:"path"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Service performs installs. ProjectRoot anchors project-scope
// destinations; empty means the current directory.
type Service struct {
	ProjectRoot string
}

// excluded reports authoring-time artifacts omitted from the copy:
// README.md, metadata.json, and anything underscore-prefixed.
func excluded(name string, _ bool) bool {
	return name == "README.md" || name == "metadata.json" || strings.HasPrefix(name, "_")
}

// Install copies the skill tree into the agent's scope directory,
// replacing any prior install of the same name. Failures are reported
// in the outcome, never raised.
func (s *Service) Install(skill discovery.Skill, cfg agent.Config, global bool) Outcome {
	dest := filepath.Join(cfg.SkillsDir(global, s.ProjectRoot), skill.Name)
	out := Outcome{Skill: skill.Name, Agent: cfg.Name, Path: dest}

	if skill.Name == "" || skill.Path == "" {
		out.Error = "INS_SKILL: skill missing name or path"
		return out
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		out.Error = fmt.Sprintf("INS_DEST_PARENT: %v", err)
		return out
	}
	// Overwrite semantics: a prior install is replaced, not merged.
	if err := os.RemoveAll(dest); err != nil {
		out.Error = fmt.Sprintf("INS_DEST_CLEAR: %v", err)
		return out
	}
	if err := fsutil.CopyTree(skill.Path, dest, excluded); err != nil {
		out.Error = fmt.Sprintf("INS_COPY: %v", err)
		return out
	}
	logging.L.WithFields(map[string]interface{}{
		"skill": skill.Name,
		"agent": cfg.Name,
		"path":  dest,
	}).Debug("installed skill")
	out.Success = true
	return out
}

// InstallAll walks the skills x agents cross-product. A failed pair
// never aborts its siblings.
func (s *Service) InstallAll(skills []discovery.Skill, agents []agent.Config, global bool) []Outcome {
	outcomes := make([]Outcome, 0, len(skills)*len(agents))
	for _, sk := range skills {
		for _, cfg := range agents {
			outcomes = append(outcomes, s.Install(sk, cfg, global))
		}
	}
	return outcomes
}

// IsInstalled checks only that the destination path exists; it cannot
// detect drift between an installed copy and its source.
func (s *Service) IsInstalled(name string, cfg agent.Config, global bool) bool {
	info, err := os.Stat(filepath.Join(cfg.SkillsDir(global, s.ProjectRoot), name))
	return err == nil && info.IsDir()
}
