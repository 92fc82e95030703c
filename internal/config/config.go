package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"skillget/internal/fsutil"
)

const SchemaVersion = 1

// Ensure loads the config at path, writing defaults first if it does
// not exist yet.
func Ensure(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath()
	}
	cfg, err := Load(path)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return Config{}, err
	}
	cfg = DefaultConfig()
	if err := Save(path, cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("CFG_PARSE: %w", err)
	}
	cfg = Normalize(cfg)
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func Save(path string, cfg Config) error {
	if path == "" {
		path = DefaultConfigPath()
	}
	cfg = Normalize(cfg)
	if err := Validate(cfg); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	blob, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("CFG_ENCODE: %w", err)
	}
	return fsutil.AtomicWrite(path, blob, 0o644)
}

func Normalize(cfg Config) Config {
	if cfg.Version == 0 {
		cfg.Version = SchemaVersion
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	cfg.Logging.Level = strings.ToLower(cfg.Logging.Level)
	cfg.Logging.Format = strings.ToLower(cfg.Logging.Format)
	if cfg.Search.Endpoint == "" {
		cfg.Search.Endpoint = DefaultConfig().Search.Endpoint
	}
	cfg.Search.Endpoint = strings.TrimRight(cfg.Search.Endpoint, "/")
	for i := range cfg.Agents {
		cfg.Agents[i].Name = strings.ToLower(strings.TrimSpace(cfg.Agents[i].Name))
	}
	return cfg
}

func Validate(cfg Config) error {
	if cfg.Version != SchemaVersion {
		return fmt.Errorf("CFG_VERSION: unsupported config version %d", cfg.Version)
	}
	switch cfg.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("CFG_LOG_FORMAT: unknown format %q", cfg.Logging.Format)
	}
	for _, a := range cfg.Agents {
		if a.Name == "" {
			return errors.New("CFG_AGENT: agent entry missing name")
		}
	}
	return nil
}

// AgentEnabled reports whether an agent may be used as an install target.
// Agents without an explicit toggle are enabled.
func AgentEnabled(cfg Config, name string) bool {
	name = strings.ToLower(name)
	for _, a := range cfg.Agents {
		if a.Name == name {
			return a.Enabled
		}
	}
	return true
}
