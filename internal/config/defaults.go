package config

// DefaultConfig returns a fully-populated v1 config document.
func DefaultConfig() Config {
	return Config{
		Version: SchemaVersion,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Search: SearchConfig{
			Endpoint: "https://skills.directory",
			TokenEnv: "SKILLGET_TOKEN",
		},
	}
}
