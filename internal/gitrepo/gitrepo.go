// Package gitrepo fetches repositories into private temporary
// directories. Discovery only needs a local path; this is the one
// place that knows how it got populated.
package gitrepo

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"skillget/internal/logging"
)

type execFunc func(ctx context.Context, dir string, args ...string) ([]byte, error)

// Cloner shallow-clones repositories with the system git binary.
type Cloner struct {
	execGit execFunc
}

func NewCloner() *Cloner {
	return &Cloner{execGit: defaultGitExec}
}

func defaultGitExec(ctx context.Context, dir string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	if dir != "" {
		cmd.Dir = dir
	}
	out, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("git %s: %w\n%s", strings.Join(args, " "), err, string(out))
	}
	return out, nil
}

// Clone fetches url at depth 1 into a fresh temp directory owned
// exclusively by this run and returns its path.
func (c *Cloner) Clone(ctx context.Context, url string) (string, error) {
	if strings.TrimSpace(url) == "" {
		return "", fmt.Errorf("GIT_CLONE: empty url")
	}
	dir, err := os.MkdirTemp("", "skillget-clone-")
	if err != nil {
		return "", fmt.Errorf("GIT_CLONE: %w", err)
	}
	logging.L.WithField("url", url).Debug("cloning repository")
	if _, err := c.execGit(ctx, "", "clone", "--depth", "1", "--single-branch", url, dir); err != nil {
		_ = os.RemoveAll(dir)
		return "", fmt.Errorf("GIT_CLONE: %w", err)
	}
	return dir, nil
}

// Cleanup removes a clone directory. Best effort; a leftover temp dir
// is not worth failing a run over.
func (c *Cloner) Cleanup(dir string) {
	if dir == "" {
		return
	}
	if err := os.RemoveAll(dir); err != nil {
		logging.L.WithField("dir", dir).WithError(err).Warn("failed to clean up clone")
	}
}
