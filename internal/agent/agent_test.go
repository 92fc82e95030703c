package agent

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLookupIsCaseInsensitive(t *testing.T) {
	c, ok := Lookup(" Codex ")
	if !ok || c.Name != "codex" {
		t.Fatalf("expected codex, got %+v ok=%v", c, ok)
	}
	if _, ok := Lookup("emacs"); ok {
		t.Fatalf("expected unknown agent to miss")
	}
}

func TestSkillsDirScopes(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, _ := Lookup("claude")
	home, _ := os.UserHomeDir()
	if got, want := c.GlobalSkillsDir(), filepath.Join(home, ".claude", "skills"); got != want {
		t.Fatalf("global dir = %q, want %q", got, want)
	}
	if got, want := c.ProjectSkillsDir("/repo"), filepath.Join("/repo", ".claude", "skills"); got != want {
		t.Fatalf("project dir = %q, want %q", got, want)
	}
	if c.SkillsDir(true, "") != c.GlobalSkillsDir() {
		t.Fatalf("scope selection mismatch")
	}
}

func TestDetectInstalledStatsHomeDirs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	if err := os.MkdirAll(filepath.Join(home, ".codex"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(home, ".claude"), 0o755); err != nil {
		t.Fatal(err)
	}
	detected := DetectInstalled()
	if len(detected) != 2 {
		t.Fatalf("expected two detections, got %+v", detected)
	}
	if detected[0].Name != "claude" || detected[1].Name != "codex" {
		t.Fatalf("expected sorted order, got %+v", detected)
	}
}

func TestListInstalledSkills(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	c, _ := Lookup("codex")
	dir := c.GlobalSkillsDir()
	if err := os.MkdirAll(filepath.Join(dir, "lint-helper"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "stray.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	got := ListInstalledSkills(c, true, "")
	if len(got) != 1 || got[0] != "lint-helper" {
		t.Fatalf("expected only skill dirs, got %v", got)
	}
	if got := ListInstalledSkills(c, false, t.TempDir()); got != nil {
		t.Fatalf("expected nil for missing dir, got %v", got)
	}
}
