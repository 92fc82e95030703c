// Package doctor runs environment diagnostics for the CLI.
package doctor

import (
	"os"
	"os/exec"

	"skillget/internal/agent"
	"skillget/internal/config"
	"skillget/internal/favourites"
)

type Finding struct {
	Code    string `json:"code"`
	Level   string `json:"level"`
	Message string `json:"message"`
}

type Report struct {
	Healthy        bool      `json:"healthy"`
	Findings       []Finding `json:"findings"`
	DetectedAgents []string  `json:"detectedAgents,omitempty"`
}

type Service struct {
	ConfigPath     string
	FavouritesPath string
}

func (s *Service) Run() Report {
	findings := []Finding{}

	if _, err := os.Stat(s.ConfigPath); err != nil {
		findings = append(findings, Finding{Code: "DOC_CONFIG_MISSING", Level: "warn", Message: err.Error()})
	} else if _, err := config.Load(s.ConfigPath); err != nil {
		findings = append(findings, Finding{Code: "DOC_CONFIG_INVALID", Level: "error", Message: err.Error()})
	}

	if _, err := exec.LookPath("git"); err != nil {
		findings = append(findings, Finding{Code: "DOC_GIT_MISSING", Level: "error", Message: "git binary not found in PATH"})
	}

	store := &favourites.Store{Path: s.FavouritesPath}
	if _, err := store.List(); err != nil {
		findings = append(findings, Finding{Code: "DOC_FAVOURITES_INVALID", Level: "error", Message: err.Error()})
	}

	detected := agent.DetectInstalled()
	names := make([]string, 0, len(detected))
	for _, d := range detected {
		names = append(names, d.Name)
	}
	if len(detected) == 0 {
		findings = append(findings, Finding{Code: "DOC_NO_AGENTS", Level: "warn", Message: "no supported coding agents detected"})
	}

	healthy := true
	for _, f := range findings {
		if f.Level == "error" {
			healthy = false
		}
	}
	return Report{Healthy: healthy, Findings: findings, DetectedAgents: names}
}
