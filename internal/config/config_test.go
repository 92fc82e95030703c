package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEnsureWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg, err := Ensure(path)
	if err != nil {
		t.Fatalf("ensure failed: %v", err)
	}
	if cfg.Version != SchemaVersion {
		t.Fatalf("expected version %d, got %d", SchemaVersion, cfg.Version)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config file written: %v", err)
	}
	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.Search.Endpoint != cfg.Search.Endpoint {
		t.Fatalf("round trip mismatch: %+v vs %+v", reloaded, cfg)
	}
}

func TestLoadRejectsMalformedToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("version = \"not an int"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "CFG_PARSE") {
		t.Fatalf("expected CFG_PARSE error, got %v", err)
	}
}

func TestNormalizeFillsBlanksAndLowercases(t *testing.T) {
	cfg := Normalize(Config{
		Logging: LoggingConfig{Level: "DEBUG"},
		Search:  SearchConfig{Endpoint: "https://example.com/"},
		Agents:  []AgentToggle{{Name: " Claude ", Enabled: true}},
	})
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "text" {
		t.Fatalf("unexpected logging config: %+v", cfg.Logging)
	}
	if cfg.Search.Endpoint != "https://example.com" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Search.Endpoint)
	}
	if cfg.Agents[0].Name != "claude" {
		t.Fatalf("expected normalized agent name, got %q", cfg.Agents[0].Name)
	}
}

func TestValidateRejectsBadFormat(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Format = "yaml"
	if err := Validate(cfg); err == nil || !strings.Contains(err.Error(), "CFG_LOG_FORMAT") {
		t.Fatalf("expected CFG_LOG_FORMAT error, got %v", err)
	}
}

func TestAgentEnabledDefaultsTrue(t *testing.T) {
	cfg := DefaultConfig()
	if !AgentEnabled(cfg, "codex") {
		t.Fatalf("expected untoggled agent to be enabled")
	}
	cfg.Agents = []AgentToggle{{Name: "codex", Enabled: false}}
	if AgentEnabled(cfg, "codex") {
		t.Fatalf("expected disabled agent to be off")
	}
}
