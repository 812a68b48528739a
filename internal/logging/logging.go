// Package logging builds the structured loggers shared by the CLI, the hub
// server and the simulation hosts.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// New returns a leveled key/value logger writing to out (stderr when nil).
func New(out io.Writer, level, prefix string) (*log.Logger, error) {
	if out == nil {
		out = os.Stderr
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}
	return log.NewWithOptions(out, log.Options{
		Level:           lvl,
		Prefix:          prefix,
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
	}), nil
}

// Discard is a logger that drops everything, for tests and inert hosts.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}
