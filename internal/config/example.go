package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# Tasker configuration file
# Values can be overridden by TASKER_* environment variables or CLI flags

# Task file (supports ~ expansion and %VAR% on Windows)
data_file = "~/.tasker/tasks.json"

# Where "tasker backup" puts copies of the task file
backup_dir = "~/.tasker/backups"

# Activity log, read by "tasker log"
log_file = "~/.tasker/tasker.log"

# Logging: debug, info, warn, error / text, json, logfmt
log_level = "info"
log_format = "logfmt"
log_timestamps = true
log_caller = false

# Display
colored_output = true
# YYYY-MM-DD, DD.MM.YYYY, DD/MM/YYYY or MM/DD/YYYY
date_format = "YYYY-MM-DD"

# Defaults for new tasks
default_priority = 3
default_category = ""

# Profile
username = "User"
workday_start = 9
workday_end = 18
# 0 = Sunday
working_days = [1, 2, 3, 4, 5]

# How often "tasker watch" checks reminders (cron spec)
reminder_schedule = "@every 1m"
`
}

// WriteExample writes ExampleConfig to path. An existing file is left alone
// unless force is set.
func WriteExample(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(ExampleConfig()), 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
