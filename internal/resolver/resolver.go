// Package resolver normalizes user-supplied source strings into a
// canonical fetch target plus an optional repository subpath.
package resolver

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// Kind classifies where a parsed source points.
type Kind string

const (
	KindGitHub Kind = "github"
	KindGitLab Kind = "gitlab"
	KindGit    Kind = "git"
	KindLocal  Kind = "local"
)

// ParsedSource is the canonical resolution of a source string.
type ParsedSource struct {
	Kind Kind `json:"kind"`
	// URL is the canonical fetch URL for git kinds, empty for local.
	URL string `json:"url,omitempty"`
	// Path is the local filesystem path for KindLocal.
	Path string `json:"path,omitempty"`
	// Subpath scopes discovery to a directory inside the repository.
	// Always relative and never escapes the repository root.
	Subpath string `json:"subpath,omitempty"`
}

// Parse resolves a source string. It is pure: local paths are
// recognized syntactically, never stat'ed.
func Parse(input string) (ParsedSource, error) {
	in := strings.TrimSpace(input)
	if in == "" {
		return ParsedSource{}, fmt.Errorf("SRC_PARSE: empty source")
	}

	if strings.HasPrefix(in, "http://") || strings.HasPrefix(in, "https://") || strings.HasPrefix(in, "ssh://") {
		return parseURL(in)
	}
	if strings.HasPrefix(in, "git@") {
		return parseSCPLike(in)
	}
	if isLocalPath(in) {
		dir, sub := in, ""
		return ParsedSource{Kind: KindLocal, Path: dir, Subpath: sub}, nil
	}

	// owner/repo shorthand, optionally with a trailing subpath. A
	// dotted first segment only disqualifies the multi-segment form,
	// where it reads as a bare host.
	parts := strings.Split(in, "/")
	if len(parts) >= 2 && parts[0] != "" && parts[1] != "" && (len(parts) == 2 || !strings.Contains(parts[0], ".")) {
		sub := ""
		if len(parts) > 2 {
			var err error
			sub, err = cleanSubpath(strings.Join(parts[2:], "/"))
			if err != nil {
				return ParsedSource{}, err
			}
		}
		return ParsedSource{
			Kind:    KindGitHub,
			URL:     fmt.Sprintf("https://github.com/%s/%s", parts[0], strings.TrimSuffix(parts[1], ".git")),
			Subpath: sub,
		}, nil
	}

	return ParsedSource{}, fmt.Errorf("SRC_PARSE: unrecognized source %q", input)
}

func parseURL(raw string) (ParsedSource, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return ParsedSource{}, fmt.Errorf("SRC_PARSE: %w", err)
	}
	parts := splitPath(u.Path)
	if len(parts) < 2 {
		return ParsedSource{}, fmt.Errorf("SRC_PARSE: URL must have at least owner/repo: %q", raw)
	}
	repo := strings.TrimSuffix(parts[1], ".git")
	sub, err := cleanSubpath(extractSubpath(parts[2:]))
	if err != nil {
		return ParsedSource{}, err
	}
	return ParsedSource{
		Kind:    classifyHost(u.Host),
		URL:     fmt.Sprintf("%s://%s/%s/%s", u.Scheme, u.Host, parts[0], repo),
		Subpath: sub,
	}, nil
}

// parseSCPLike handles git@host:owner/repo[.git][/subpath] addresses.
func parseSCPLike(raw string) (ParsedSource, error) {
	rest := strings.TrimPrefix(raw, "git@")
	host, p, ok := strings.Cut(rest, ":")
	if !ok || host == "" {
		return ParsedSource{}, fmt.Errorf("SRC_PARSE: malformed git address %q", raw)
	}
	parts := splitPath(p)
	if len(parts) < 2 {
		return ParsedSource{}, fmt.Errorf("SRC_PARSE: git address must have owner/repo: %q", raw)
	}
	repo := strings.TrimSuffix(parts[1], ".git")
	sub, err := cleanSubpath(extractSubpath(parts[2:]))
	if err != nil {
		return ParsedSource{}, err
	}
	return ParsedSource{
		Kind:    classifyHost(host),
		URL:     fmt.Sprintf("git@%s:%s/%s.git", host, parts[0], repo),
		Subpath: sub,
	}, nil
}

// extractSubpath turns trailing URL segments into a repo subpath,
// skipping web-UI tree/blob markers and their branch segment.
func extractSubpath(parts []string) string {
	if len(parts) == 0 {
		return ""
	}
	if parts[0] == "-" && len(parts) > 1 {
		parts = parts[1:] // GitLab inserts /-/ before tree/blob
	}
	if (parts[0] == "tree" || parts[0] == "blob") && len(parts) > 1 {
		parts = parts[2:] // drop marker and branch name
	}
	return strings.Join(parts, "/")
}

func cleanSubpath(sub string) (string, error) {
	if sub == "" {
		return "", nil
	}
	cleaned := path.Clean(strings.Trim(sub, "/"))
	if cleaned == "." {
		return "", nil
	}
	if path.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("SRC_PARSE: subpath %q escapes repository root", sub)
	}
	return cleaned, nil
}

func classifyHost(host string) Kind {
	h := strings.ToLower(host)
	switch {
	case strings.Contains(h, "github"):
		return KindGitHub
	case strings.Contains(h, "gitlab"):
		return KindGitLab
	default:
		return KindGit
	}
}

func isLocalPath(in string) bool {
	return strings.HasPrefix(in, "/") ||
		strings.HasPrefix(in, "./") ||
		strings.HasPrefix(in, "../") ||
		strings.HasPrefix(in, "~") ||
		in == "." || in == ".."
}

func splitPath(p string) []string {
	trimmed := strings.Trim(p, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}
