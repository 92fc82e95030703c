// Package audit appends a JSONL record per install run for later
// inspection. Failures to write are swallowed; auditing never blocks
// an install.
package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type Logger struct {
	path string
	mu   sync.Mutex
}

type Event struct {
	Timestamp string `json:"timestamp"`
	Operation string `json:"operation"`
	Source    string `json:"source,omitempty"`
	Skill     string `json:"skill,omitempty"`
	Agent     string `json:"agent,omitempty"`
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
}

func New(path string) *Logger {
	return &Logger{path: path}
}

// DefaultPath is the per-user audit log location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".skillget/audit.log"
	}
	return filepath.Join(home, ".skillget", "audit.log")
}

func (l *Logger) Log(ev Event) error {
	if l == nil || l.path == "" {
		return nil
	}
	ev.Timestamp = time.Now().UTC().Format(time.RFC3339Nano)
	blob, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write(append(blob, '\n'))
	return err
}
