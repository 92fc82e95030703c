package config

// Build metadata, overridden at link time.
var (
	Version = "0.1.0"
	Commit  = "dev"
	Date    = "unknown"
)
