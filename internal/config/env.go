package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/nibzard/tasker/internal/recurrence"
)

// loadFromEnv overrides config from TASKER_* environment variables. NO_COLOR
// disables colored output when set to any value.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) error {
	set := func(field string) {
		if sources != nil {
			sources[field] = SourceEnv
		}
	}
	envInt := func(name, field string, dst *int) error {
		v := os.Getenv(name)
		if v == "" {
			return nil
		}
		var i int
		if _, err := fmt.Sscanf(v, "%d", &i); err != nil {
			return fmt.Errorf("%s: not a number: %q", name, v)
		}
		*dst = i
		set(field)
		return nil
	}

	// Paths
	if v := os.Getenv("TASKER_DATA_FILE"); v != "" {
		cfg.DataFile = v
		set("data_file")
	}
	if v := os.Getenv("TASKER_BACKUP_DIR"); v != "" {
		cfg.BackupDir = v
		set("backup_dir")
	}
	if v := os.Getenv("TASKER_LOG_FILE"); v != "" {
		cfg.LogFile = v
		set("log_file")
	}

	// Logging configuration
	if v := os.Getenv("TASKER_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
		set("log_level")
	}
	if v := os.Getenv("TASKER_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
		set("log_format")
	}
	if v := os.Getenv("TASKER_LOG_TIMESTAMPS"); v != "" {
		cfg.LogTimestamps = boolFromString(v)
		set("log_timestamps")
	}
	if v := os.Getenv("TASKER_LOG_CALLER"); v != "" {
		cfg.LogCaller = boolFromString(v)
		set("log_caller")
	}

	// Display
	if v := os.Getenv("TASKER_COLOR"); v != "" {
		cfg.ColoredOutput = boolFromString(v)
		set("colored_output")
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		cfg.ColoredOutput = false
		set("colored_output")
	}
	if v := os.Getenv("TASKER_DATE_FORMAT"); v != "" {
		cfg.DateFormat = v
		set("date_format")
	}

	// Defaults and profile
	if err := envInt("TASKER_DEFAULT_PRIORITY", "default_priority", &cfg.DefaultPriority); err != nil {
		return err
	}
	if v := os.Getenv("TASKER_DEFAULT_CATEGORY"); v != "" {
		cfg.DefaultCategory = v
		set("default_category")
	}
	if v := os.Getenv("TASKER_USERNAME"); v != "" {
		cfg.Username = v
		set("username")
	}
	if err := envInt("TASKER_WORKDAY_START", "workday_start", &cfg.WorkdayStart); err != nil {
		return err
	}
	if err := envInt("TASKER_WORKDAY_END", "workday_end", &cfg.WorkdayEnd); err != nil {
		return err
	}
	if v := os.Getenv("TASKER_WORKING_DAYS"); v != "" {
		days, err := recurrence.ParseWeekdays(v)
		if err != nil {
			return fmt.Errorf("TASKER_WORKING_DAYS: %w", err)
		}
		cfg.WorkingDays = days
		set("working_days")
	}
	if v := os.Getenv("TASKER_REMINDER_SCHEDULE"); v != "" {
		cfg.ReminderSchedule = v
		set("reminder_schedule")
	}
	return nil
}

// boolFromString parses common truthy values (1, true, yes, on).
func boolFromString(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
