package discovery

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"

	"skillget/internal/logging"
)

// standardContainers are conventional skill container directories,
// probed in priority order relative to the effective root.
var standardContainers = []string{
	"skills",
	"skills/curated",
	"skills/experimental",
	"skills/system",
	".claude/skills",
	".codex/skills",
	".cursor/skills",
	".agents/skills",
}

// skipDirs are never descended into during the recursive fallback.
var skipDirs = map[string]struct{}{
	".git":         {},
	".hg":          {},
	".svn":         {},
	"node_modules": {},
}

// maxFallbackDepth bounds the recursive fallback walk. The effective
// root is depth 0.
const maxFallbackDepth = 5

// Discover returns the ordered, deduplicated skill catalog found under
// root, optionally scoped to subpath. Deterministic for a fixed
// filesystem snapshot. Individual bad manifests are skipped silently;
// only invalid inputs (missing root, escaping subpath) are errors.
func Discover(root, subpath string) ([]Skill, error) {
	effective, err := effectiveRoot(root, subpath)
	if err != nil {
		return nil, err
	}
	if info, err := os.Stat(effective); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("SKL_ROOT: %q is not a directory", effective)
	}

	// Tier 1: a manifest at the effective root is authoritative and
	// suppresses all further searching, even when it fails validation.
	if _, err := os.Stat(filepath.Join(effective, ManifestName)); err == nil {
		if skill, ok := loadSkill(effective); ok {
			return dedup([]Skill{skill}), nil
		}
		return nil, nil
	}

	// Tier 2: aggregate across all standard containers. Candidacy is
	// manifest presence, same as tier 1: a container whose manifests
	// all fail validation still suppresses the fallback.
	var catalog []Skill
	candidates := 0
	for _, container := range standardContainers {
		skills, found := enumerateContainer(filepath.Join(effective, container))
		catalog = append(catalog, skills...)
		candidates += found
	}
	if candidates > 0 {
		return dedup(catalog), nil
	}

	// Tier 3: bounded depth-first fallback.
	return dedup(fallbackWalk(effective)), nil
}

func effectiveRoot(root, subpath string) (string, error) {
	if root == "" {
		return "", fmt.Errorf("SKL_ROOT: empty root path")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("SKL_ROOT: %w", err)
	}
	if subpath == "" {
		return abs, nil
	}
	cleaned := filepath.Clean(subpath)
	if filepath.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("SKL_SUBPATH: %q escapes repository root", subpath)
	}
	return filepath.Join(abs, cleaned), nil
}

// enumerateContainer lists immediate child directories of a container
// that carry a valid manifest, in directory enumeration order. The
// count covers every manifest-bearing child, valid or not.
func enumerateContainer(dir string) ([]Skill, int) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, 0
	}
	var out []Skill
	found := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		child := filepath.Join(dir, entry.Name())
		if _, err := os.Stat(filepath.Join(child, ManifestName)); err != nil {
			continue
		}
		found++
		if skill, ok := loadSkill(child); ok {
			out = append(out, skill)
		}
	}
	return out, found
}

// fallbackWalk visits every directory up to maxFallbackDepth in
// depth-first order, collecting any directory with a valid manifest.
// Symlinked directories are not followed.
func fallbackWalk(root string) []Skill {
	var out []Skill
	_ = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if _, skip := skipDirs[d.Name()]; skip && p != root {
			return filepath.SkipDir
		}
		if depth(root, p) > maxFallbackDepth {
			return filepath.SkipDir
		}
		if _, err := os.Stat(filepath.Join(p, ManifestName)); err == nil {
			if skill, ok := loadSkill(p); ok {
				out = append(out, skill)
			}
		}
		return nil
	})
	return out
}

func depth(root, p string) int {
	rel, err := filepath.Rel(root, p)
	if err != nil || rel == "." {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}

// loadSkill parses and validates the manifest in dir. A missing or
// malformed manifest, or one lacking a non-empty name or description,
// rejects the candidate without error.
func loadSkill(dir string) (Skill, bool) {
	blob, err := os.ReadFile(filepath.Join(dir, ManifestName))
	if err != nil {
		return Skill{}, false
	}
	fm, err := parseFrontmatter(blob)
	if err != nil {
		logging.L.WithField("dir", dir).WithError(err).Debug("skipping candidate with bad manifest")
		return Skill{}, false
	}
	name := strings.TrimSpace(stringValue(fm["name"]))
	description := strings.TrimSpace(stringValue(fm["description"]))
	if name == "" || description == "" {
		logging.L.WithField("dir", dir).Debug("skipping candidate missing name or description")
		return Skill{}, false
	}

	var metadata map[string]string
	for key, value := range fm {
		if key == "name" || key == "description" {
			continue
		}
		if metadata == nil {
			metadata = map[string]string{}
		}
		metadata[key] = stringValue(value)
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return Skill{}, false
	}
	return Skill{Name: name, Description: description, Path: abs, Metadata: metadata}, true
}

// parseFrontmatter extracts the YAML frontmatter block from manifest
// content. The markdown body is ignored.
func parseFrontmatter(content []byte) (map[string]interface{}, error) {
	md := goldmark.New(goldmark.WithExtensions(meta.Meta))
	pctx := parser.NewContext()
	var buf bytes.Buffer
	if err := md.Convert(content, &buf, parser.WithContext(pctx)); err != nil {
		return nil, fmt.Errorf("SKL_MANIFEST: %w", err)
	}
	fm := meta.Get(pctx)
	if fm == nil {
		return nil, fmt.Errorf("SKL_MANIFEST: missing or malformed frontmatter")
	}
	return fm, nil
}

func stringValue(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

// dedup removes duplicate paths, keeping first-seen order.
func dedup(catalog []Skill) []Skill {
	seen := map[string]struct{}{}
	out := make([]Skill, 0, len(catalog))
	for _, s := range catalog {
		if _, ok := seen[s.Path]; ok {
			continue
		}
		seen[s.Path] = struct{}{}
		out = append(out, s)
	}
	return out
}
