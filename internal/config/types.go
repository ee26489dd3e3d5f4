package config

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	// Files lists the config files that were read, lowest priority first.
	Files []string
}

// Default values.
const (
	DefaultDataFile         = "~/.tasker/tasks.json"
	DefaultBackupDir        = "~/.tasker/backups"
	DefaultLogFile          = "~/.tasker/tasker.log"
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "logfmt"
	DefaultDateFormat       = "YYYY-MM-DD"
	DefaultPriority         = 3
	DefaultUsername         = "User"
	DefaultWorkdayStart     = 9
	DefaultWorkdayEnd       = 18
	DefaultReminderSchedule = "@every 1m"
)

// DefaultWorkingDays returns Monday through Friday (0 = Sunday).
func DefaultWorkingDays() []int {
	return []int{1, 2, 3, 4, 5}
}

// Config holds the full configuration for tasker.
type Config struct {
	// Paths
	DataFile  string `toml:"data_file"`
	BackupDir string `toml:"backup_dir"`
	LogFile   string `toml:"log_file"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Display
	ColoredOutput bool   `toml:"colored_output"`
	DateFormat    string `toml:"date_format"` // YYYY-MM-DD, DD.MM.YYYY, DD/MM/YYYY or MM/DD/YYYY

	// New task defaults
	DefaultPriority int    `toml:"default_priority"`
	DefaultCategory string `toml:"default_category"`

	// User profile
	Username     string `toml:"username"`
	WorkdayStart int    `toml:"workday_start"` // hour, 0-23
	WorkdayEnd   int    `toml:"workday_end"`   // hour, 0-23
	WorkingDays  []int  `toml:"working_days"`  // 0 = Sunday

	// Cron spec for the reminder watcher
	ReminderSchedule string `toml:"reminder_schedule"`
}
