// Package logging configures the process-wide logrus logger from the
// user config.
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"skillget/internal/config"
)

// L is the shared logger. Commands log through it; human-facing output
// goes to stdout separately.
var L = logrus.New()

func init() {
	L.SetOutput(os.Stderr)
	L.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

// Setup applies the logging section of the config to the shared logger.
// Unknown levels fall back to info rather than failing the command.
func Setup(cfg config.LoggingConfig) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	L.SetLevel(level)
	if cfg.Format == "json" {
		L.SetFormatter(&logrus.JSONFormatter{})
	} else {
		L.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}

// SetOutput redirects the shared logger, used by tests to silence it.
func SetOutput(w io.Writer) {
	L.SetOutput(w)
}
