package config

import (
	"flag"
)

// parseFlags defines the global flags on fs and parses args. Only flags that
// were given on the command line override cfg.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("tasker", flag.ContinueOnError)
	}

	// Flag binding struct for source tracking
	type flagBinding struct {
		field string
		apply func()
	}

	var (
		dataFile, backupDir, logFile string
		logLevel, logFormat          string
		logTimestamps, logCaller     bool
		noColor                      bool
		dateFormat, defaultCategory  string
		defaultPriority              int
	)

	// Paths
	fs.StringVar(&dataFile, "data", cfg.DataFile, "Path to task file")
	fs.StringVar(&backupDir, "backup-dir", cfg.BackupDir, "Backup directory")
	fs.StringVar(&logFile, "log-file", cfg.LogFile, "Activity log file")

	// Logging
	fs.StringVar(&logLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&logFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&logTimestamps, "log-timestamps", cfg.LogTimestamps, "Show timestamps in logs")
	fs.BoolVar(&logCaller, "log-caller", cfg.LogCaller, "Show caller location in logs")

	// Display and defaults
	fs.BoolVar(&noColor, "no-color", !cfg.ColoredOutput, "Disable colored output")
	fs.StringVar(&dateFormat, "date-format", cfg.DateFormat, "Date display format")
	fs.IntVar(&defaultPriority, "priority", cfg.DefaultPriority, "Default priority for new tasks (1-5)")
	fs.StringVar(&defaultCategory, "category", cfg.DefaultCategory, "Default category for new tasks")

	bindings := map[string]flagBinding{
		"data":           {"data_file", func() { cfg.DataFile = dataFile }},
		"backup-dir":     {"backup_dir", func() { cfg.BackupDir = backupDir }},
		"log-file":       {"log_file", func() { cfg.LogFile = logFile }},
		"log-level":      {"log_level", func() { cfg.LogLevel = logLevel }},
		"log-format":     {"log_format", func() { cfg.LogFormat = logFormat }},
		"log-timestamps": {"log_timestamps", func() { cfg.LogTimestamps = logTimestamps }},
		"log-caller":     {"log_caller", func() { cfg.LogCaller = logCaller }},
		"no-color":       {"colored_output", func() { cfg.ColoredOutput = !noColor }},
		"date-format":    {"date_format", func() { cfg.DateFormat = dateFormat }},
		"priority":       {"default_priority", func() { cfg.DefaultPriority = defaultPriority }},
		"category":       {"default_category", func() { cfg.DefaultCategory = defaultCategory }},
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	// Track which flags were set and apply to config
	fs.Visit(func(f *flag.Flag) {
		b, ok := bindings[f.Name]
		if !ok {
			return
		}
		b.apply()
		if sources != nil {
			sources[b.field] = SourceFlag
		}
	})
	return nil
}
