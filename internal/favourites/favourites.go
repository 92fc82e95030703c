// Package favourites persists the user's saved skill repositories as a
// small JSON document. Single interactive process assumption: plain
// read-modify-write, no locking.
package favourites

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"skillget/internal/fsutil"
)

const DocumentVersion = 1

type Favourite struct {
	ID          string    `json:"id"`
	Repo        string    `json:"repo"`
	Description string    `json:"description,omitempty"`
	AddedAt     time.Time `json:"addedAt"`
}

type document struct {
	Version    int         `json:"version"`
	Favourites []Favourite `json:"favourites"`
}

// Store reads and writes the favourites document at Path.
type Store struct {
	Path string
}

func (s *Store) load() (document, error) {
	blob, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return document{Version: DocumentVersion, Favourites: []Favourite{}}, nil
		}
		return document{}, err
	}
	var doc document
	if err := json.Unmarshal(blob, &doc); err != nil {
		return document{}, fmt.Errorf("FAV_PARSE: %w", err)
	}
	if doc.Version != DocumentVersion {
		return document{}, fmt.Errorf("FAV_VERSION: unsupported favourites version %d", doc.Version)
	}
	return doc, nil
}

func (s *Store) save(doc document) error {
	doc.Version = DocumentVersion
	sort.Slice(doc.Favourites, func(i, j int) bool { return doc.Favourites[i].ID < doc.Favourites[j].ID })
	blob, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return err
	}
	return fsutil.AtomicWrite(s.Path, blob, 0o644)
}

// Add saves a repo under id, replacing an existing entry with that id.
func (s *Store) Add(id, repo, description string) (Favourite, error) {
	id = strings.TrimSpace(id)
	repo = strings.TrimSpace(repo)
	if id == "" || repo == "" {
		return Favourite{}, fmt.Errorf("FAV_ADD: id and repo are required")
	}
	doc, err := s.load()
	if err != nil {
		return Favourite{}, err
	}
	fav := Favourite{ID: id, Repo: repo, Description: description, AddedAt: time.Now().UTC()}
	replaced := false
	for i := range doc.Favourites {
		if doc.Favourites[i].ID == id {
			doc.Favourites[i] = fav
			replaced = true
			break
		}
	}
	if !replaced {
		doc.Favourites = append(doc.Favourites, fav)
	}
	if err := s.save(doc); err != nil {
		return Favourite{}, err
	}
	return fav, nil
}

// Remove deletes the entry with id, reporting whether it existed.
func (s *Store) Remove(id string) (bool, error) {
	doc, err := s.load()
	if err != nil {
		return false, err
	}
	kept := doc.Favourites[:0]
	removed := false
	for _, f := range doc.Favourites {
		if f.ID == id {
			removed = true
			continue
		}
		kept = append(kept, f)
	}
	if !removed {
		return false, nil
	}
	doc.Favourites = kept
	if err := s.save(doc); err != nil {
		return false, err
	}
	return true, nil
}

// List returns all favourites sorted by id.
func (s *Store) List() ([]Favourite, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	sort.Slice(doc.Favourites, func(i, j int) bool { return doc.Favourites[i].ID < doc.Favourites[j].ID })
	return doc.Favourites, nil
}
