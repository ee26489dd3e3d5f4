// Package logging builds the structured logger and manages the activity log
// that `tasker log` reads.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// Options holds configuration for a logger.
type Options struct {
	Level           log.Level
	Formatter       log.Formatter
	ReportTimestamp bool
	ReportCaller    bool
	Prefix          string
}

// DefaultOptions returns default options for the activity log.
func DefaultOptions() Options {
	return Options{
		Level:           log.InfoLevel,
		Formatter:       log.LogfmtFormatter,
		ReportTimestamp: true,
		ReportCaller:    false,
		Prefix:          "tasker",
	}
}

// New returns a logger writing to w.
func New(w io.Writer, opts Options) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           opts.Level,
		Formatter:       opts.Formatter,
		ReportTimestamp: opts.ReportTimestamp,
		ReportCaller:    opts.ReportCaller,
		Prefix:          opts.Prefix,
	})
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

// ParseLevel parses a string log level to a charmbracelet/log Level.
func ParseLevel(level string) (log.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel, nil
	case "", "info":
		return log.InfoLevel, nil
	case "warn", "warning":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	}
	return log.InfoLevel, fmt.Errorf("unknown log level %q", level)
}

// ParseFormatter parses a string formatter name to a charmbracelet/log Formatter.
func ParseFormatter(format string) (log.Formatter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return log.JSONFormatter, nil
	case "", "logfmt":
		return log.LogfmtFormatter, nil
	case "text":
		return log.TextFormatter, nil
	}
	return log.LogfmtFormatter, fmt.Errorf("unknown log format %q", format)
}

// OptionsFromConfig builds Options from string configuration values, as
// loaded from TOML or environment variables.
func OptionsFromConfig(level, format string, timestamps, caller bool) (Options, error) {
	opts := DefaultOptions()
	var err error
	if opts.Level, err = ParseLevel(level); err != nil {
		return opts, err
	}
	if opts.Formatter, err = ParseFormatter(format); err != nil {
		return opts, err
	}
	opts.ReportTimestamp = timestamps
	opts.ReportCaller = caller
	return opts, nil
}
