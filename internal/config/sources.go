package config

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/nibzard/tasker/internal/appdir"
)

// findProjectConfigFile looks for a config file in the current directory.
func findProjectConfigFile() string {
	names := []string{"tasker.toml", ".tasker.toml"}
	for _, name := range names {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// findUserConfigFile looks for a user-level config file.
// Checks ~/.tasker/tasker.toml first, then falls back to OS-specific
// config directories if ~/.tasker doesn't exist.
func findUserConfigFile() string {
	if home, err := os.UserHomeDir(); err == nil {
		userConfigPath := appdir.ConfigPath(home)
		if _, err := os.Stat(userConfigPath); err == nil {
			return userConfigPath
		}
	}

	if cfgDir := osUserConfigDir(); cfgDir != "" {
		userConfigPath := filepath.Join(cfgDir, "tasker", appdir.ConfigFile)
		if _, err := os.Stat(userConfigPath); err == nil {
			return userConfigPath
		}
	}

	return ""
}

// UserConfigPath returns where `tasker settings init` writes the user
// config file.
func UserConfigPath() string {
	return appdir.ConfigPath(appdir.Home())
}

// osUserConfigDir returns the OS-specific user config directory.
// Returns empty string if the directory cannot be determined.
func osUserConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		if appdata := os.Getenv("APPDATA"); appdata != "" {
			return appdata
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, "Library", "Application Support")
		}
	case "linux", "openbsd", "freebsd", "netbsd":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return xdg
		}
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, ".config")
		}
	}
	return ""
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.DataFile = DefaultDataFile
	cfg.BackupDir = DefaultBackupDir
	cfg.LogFile = DefaultLogFile

	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.LogTimestamps = true
	cfg.LogCaller = false

	cfg.ColoredOutput = true
	cfg.DateFormat = DefaultDateFormat

	cfg.DefaultPriority = DefaultPriority
	cfg.DefaultCategory = ""

	cfg.Username = DefaultUsername
	cfg.WorkdayStart = DefaultWorkdayStart
	cfg.WorkdayEnd = DefaultWorkdayEnd
	cfg.WorkingDays = DefaultWorkingDays()

	cfg.ReminderSchedule = DefaultReminderSchedule
}

// GetConfigFile returns the highest-priority config file that was read, or
// an empty string when only defaults, env and flags applied.
func (cws *ConfigWithSources) GetConfigFile() string {
	if len(cws.Files) == 0 {
		return ""
	}
	return cws.Files[len(cws.Files)-1]
}

// SortedFields returns the tracked field names in alphabetical order.
func (cws *ConfigWithSources) SortedFields() []string {
	fields := make([]string, 0, len(cws.Sources))
	for f := range cws.Sources {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}
