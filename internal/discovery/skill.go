// Package discovery locates installable skill bundles inside a local
// directory tree. A skill is a directory carrying a SKILL.md manifest
// with YAML frontmatter declaring at least a name and a description.
package discovery

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
)

// ManifestName is the manifest file expected at a skill directory root.
const ManifestName = "SKILL.md"

// Skill is a validated, installable unit. Constructed only by Discover
// after manifest validation; immutable afterwards.
type Skill struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Path        string            `json:"path"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// DisplayNames maps each skill's path to a caller-facing name. Skills
// with a unique manifest name keep it; duplicates get a short hash of
// their path appended so users can tell them apart. Purely a
// presentation concern: identity and dedup stay path-based.
func DisplayNames(catalog []Skill) map[string]string {
	counts := map[string]int{}
	for _, s := range catalog {
		counts[s.Name]++
	}
	out := make(map[string]string, len(catalog))
	for _, s := range catalog {
		if counts[s.Name] > 1 {
			out[s.Path] = s.Name + "-" + pathHash(s.Path)
		} else {
			out[s.Path] = s.Name
		}
	}
	return out
}

func pathHash(p string) string {
	sum := sha256.Sum256([]byte(filepath.Clean(p)))
	return hex.EncodeToString(sum[:])[:8]
}
