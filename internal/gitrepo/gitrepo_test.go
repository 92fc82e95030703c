package gitrepo

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
)

func TestCloneInvokesGitWithShallowFlags(t *testing.T) {
	var gotArgs []string
	c := &Cloner{execGit: func(_ context.Context, _ string, args ...string) ([]byte, error) {
		gotArgs = args
		return nil, nil
	}}
	dir, err := c.Clone(context.Background(), "https://github.com/octo/tools")
	if err != nil {
		t.Fatalf("clone failed: %v", err)
	}
	defer c.Cleanup(dir)

	joined := strings.Join(gotArgs, " ")
	if !strings.HasPrefix(joined, "clone --depth 1 --single-branch https://github.com/octo/tools ") {
		t.Fatalf("unexpected git invocation: %q", joined)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Fatalf("expected temp clone dir to exist: %v", err)
	}
}

func TestCloneFailureRemovesTempDir(t *testing.T) {
	var dirArg string
	c := &Cloner{execGit: func(_ context.Context, _ string, args ...string) ([]byte, error) {
		dirArg = args[len(args)-1]
		return nil, fmt.Errorf("boom")
	}}
	if _, err := c.Clone(context.Background(), "https://example.com/o/r"); err == nil || !strings.Contains(err.Error(), "GIT_CLONE") {
		t.Fatalf("expected GIT_CLONE error, got %v", err)
	}
	if _, err := os.Stat(dirArg); !os.IsNotExist(err) {
		t.Fatalf("expected temp dir removed after failed clone")
	}
}

func TestCloneRejectsEmptyURL(t *testing.T) {
	c := NewCloner()
	if _, err := c.Clone(context.Background(), "  "); err == nil || !strings.Contains(err.Error(), "GIT_CLONE") {
		t.Fatalf("expected GIT_CLONE error, got %v", err)
	}
}

func TestCleanupRemovesDir(t *testing.T) {
	c := NewCloner()
	dir := t.TempDir()
	sub := dir + "/clone"
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	c.Cleanup(sub)
	if _, err := os.Stat(sub); !os.IsNotExist(err) {
		t.Fatalf("expected dir removed")
	}
}
