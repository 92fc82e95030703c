package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".skillget/config.toml"
	}
	return filepath.Join(home, ".skillget", "config.toml")
}

// DefaultFavouritesPath is the fixed per-user favourites document location.
func DefaultFavouritesPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".skillget/favourites.json"
	}
	return filepath.Join(home, ".skillget", "favourites.json")
}

func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", errors.New("empty path")
	}
	if path == "~" {
		return os.UserHomeDir()
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
	}
	return path, nil
}
