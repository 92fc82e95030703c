package favourites

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	return &Store{Path: filepath.Join(t.TempDir(), "favourites.json")}
}

func TestAddListRemoveRoundTrip(t *testing.T) {
	s := newStore(t)
	if _, err := s.Add("octo-tools", "octo/tools", "handy stuff"); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, err := s.Add("acme", "acme/skills", ""); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	favs, err := s.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(favs) != 2 || favs[0].ID != "acme" || favs[1].ID != "octo-tools" {
		t.Fatalf("expected sorted favourites, got %+v", favs)
	}
	if favs[1].AddedAt.IsZero() {
		t.Fatalf("expected addedAt to be set")
	}

	removed, err := s.Remove("acme")
	if err != nil || !removed {
		t.Fatalf("expected removal, got removed=%v err=%v", removed, err)
	}
	removed, err = s.Remove("acme")
	if err != nil || removed {
		t.Fatalf("expected second removal to be a no-op, got removed=%v err=%v", removed, err)
	}
}

func TestAddReplacesSameID(t *testing.T) {
	s := newStore(t)
	if _, err := s.Add("octo", "octo/old", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Add("octo", "octo/new", "updated"); err != nil {
		t.Fatal(err)
	}
	favs, err := s.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(favs) != 1 || favs[0].Repo != "octo/new" {
		t.Fatalf("expected replacement, got %+v", favs)
	}
}

func TestDocumentShapeOnDisk(t *testing.T) {
	s := newStore(t)
	if _, err := s.Add("octo", "octo/tools", ""); err != nil {
		t.Fatal(err)
	}
	blob, err := os.ReadFile(s.Path)
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(blob, &raw); err != nil {
		t.Fatalf("document is not valid json: %v", err)
	}
	if string(raw["version"]) != "1" {
		t.Fatalf("expected version 1, got %s", raw["version"])
	}
	if _, ok := raw["favourites"]; !ok {
		t.Fatalf("expected favourites array in document")
	}
}

func TestLoadRejectsUnknownVersion(t *testing.T) {
	s := newStore(t)
	if err := os.WriteFile(s.Path, []byte(`{"version":9,"favourites":[]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := s.List(); err == nil || !strings.Contains(err.Error(), "FAV_VERSION") {
		t.Fatalf("expected FAV_VERSION error, got %v", err)
	}
}

func TestMissingFileIsEmptyStore(t *testing.T) {
	s := newStore(t)
	favs, err := s.List()
	if err != nil {
		t.Fatalf("expected empty store, got %v", err)
	}
	if len(favs) != 0 {
		t.Fatalf("expected no favourites, got %+v", favs)
	}
}

func TestAddValidatesInput(t *testing.T) {
	s := newStore(t)
	if _, err := s.Add(" ", "octo/tools", ""); err == nil || !strings.Contains(err.Error(), "FAV_ADD") {
		t.Fatalf("expected FAV_ADD error, got %v", err)
	}
}
