package fsutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAtomicWriteReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	if err := AtomicWrite(path, []byte("one"), 0o644); err != nil {
		t.Fatalf("first write failed: %v", err)
	}
	if err := AtomicWrite(path, []byte("two"), 0o644); err != nil {
		t.Fatalf("second write failed: %v", err)
	}
	blob, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back failed: %v", err)
	}
	if string(blob) != "two" {
		t.Fatalf("expected replaced content, got %q", blob)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("tmp file left behind")
	}
}

func TestCopyTreeAppliesSkipFunc(t *testing.T) {
	src := t.TempDir()
	mustWrite(t, filepath.Join(src, "main.sh"), "#!/bin/sh")
	mustWrite(t, filepath.Join(src, "README.md"), "docs")
	mustWrite(t, filepath.Join(src, "_private", "notes.txt"), "secret")
	mustWrite(t, filepath.Join(src, "tools", "helper.py"), "print()")

	dst := filepath.Join(t.TempDir(), "out")
	skip := func(name string, _ bool) bool {
		return name == "README.md" || strings.HasPrefix(name, "_")
	}
	if err := CopyTree(src, dst, skip); err != nil {
		t.Fatalf("copy failed: %v", err)
	}

	for _, want := range []string{"main.sh", filepath.Join("tools", "helper.py")} {
		if _, err := os.Stat(filepath.Join(dst, want)); err != nil {
			t.Fatalf("expected %s at destination: %v", want, err)
		}
	}
	for _, absent := range []string{"README.md", "_private"} {
		if _, err := os.Stat(filepath.Join(dst, absent)); !os.IsNotExist(err) {
			t.Fatalf("expected %s to be excluded", absent)
		}
	}
}

func TestCopyTreeRejectsFileSource(t *testing.T) {
	src := filepath.Join(t.TempDir(), "file.txt")
	mustWrite(t, src, "x")
	err := CopyTree(src, filepath.Join(t.TempDir(), "out"), nil)
	if err == nil || !strings.Contains(err.Error(), "FS_COPY_SRC") {
		t.Fatalf("expected FS_COPY_SRC error, got %v", err)
	}
}

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
