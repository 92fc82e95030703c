package main

import (
	"skillget/internal/agent"
)

type agentStatus struct {
	Name            string   `json:"name"`
	DisplayName     string   `json:"displayName"`
	Detected        bool     `json:"detected"`
	InstalledSkills []string `json:"installedSkills,omitempty"`
}

func agentSummary() []agentStatus {
	detected := map[string]bool{}
	for _, d := range agent.DetectInstalled() {
		detected[d.Name] = true
	}
	out := make([]agentStatus, 0, len(agent.All()))
	for _, c := range agent.All() {
		out = append(out, agentStatus{
			Name:            c.Name,
			DisplayName:     c.DisplayName,
			Detected:        detected[c.Name],
			InstalledSkills: agent.ListInstalledSkills(c, true, ""),
		})
	}
	return out
}
