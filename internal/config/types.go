package config

// Config is the frozen v1 global schema.
type Config struct {
	Version int           `toml:"version"`
	Logging LoggingConfig `toml:"logging"`
	Search  SearchConfig  `toml:"search"`
	Agents  []AgentToggle `toml:"agents,omitempty"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// SearchConfig points at the remote skill catalog.
type SearchConfig struct {
	Endpoint string `toml:"endpoint"`
	// TokenEnv names the environment variable holding the bearer token.
	// The token itself is never written to disk.
	TokenEnv string `toml:"token_env"`
}

// AgentToggle enables or disables a supported agent as an install target.
// Agents absent from the list are treated as enabled.
type AgentToggle struct {
	Name    string `toml:"name"`
	Enabled bool   `toml:"enabled"`
}
