// Package logging builds the logrus logger shared by the CLI and server.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// NewLogger returns a logger writing to stderr. level is any logrus level
// name ("debug", "INFO", ...) and falls back to info when unknown. format
// is "text" or "json".
func NewLogger(level, format string, disableTimestamp bool) *logrus.Logger {
	return New(os.Stderr, level, format, disableTimestamp)
}

// New is NewLogger with an explicit output.
func New(out io.Writer, level, format string, disableTimestamp bool) *logrus.Logger {
	log := logrus.New()
	log.Out = out

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		log.Formatter = &logrus.JSONFormatter{DisableTimestamp: disableTimestamp}
	default:
		log.Formatter = &logrus.TextFormatter{
			DisableTimestamp: disableTimestamp,
			FullTimestamp:    true,
		}
	}

	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.Level = lvl
	return log
}

// Discard returns a logger that drops everything, for tests.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.Out = io.Discard
	return log
}
