// Package appdir provides constants and utilities for the .tasker directory structure.
package appdir

import (
	"os"
	"path/filepath"
)

const (
	// Dir is the name of the tasker state directory.
	Dir = ".tasker"

	// DataFile is the default task document name (inside .tasker).
	DataFile = "tasks.json"

	// ConfigFile is the default config file name (inside .tasker).
	ConfigFile = "tasker.toml"

	// BackupDir is the default backup directory name (inside .tasker).
	BackupDir = "backups"

	// LogFile is the default activity log name (inside .tasker).
	LogFile = "tasker.log"
)

// DirPath returns the full path to the .tasker directory within base.
func DirPath(base string) string {
	if base == "." || base == "" {
		return Dir
	}
	return filepath.Join(base, Dir)
}

// DataPath returns the full path to the task document within base.
func DataPath(base string) string {
	return filepath.Join(DirPath(base), DataFile)
}

// ConfigPath returns the full path to the config file within base.
func ConfigPath(base string) string {
	return filepath.Join(DirPath(base), ConfigFile)
}

// BackupPath returns the full path to the backup directory within base.
func BackupPath(base string) string {
	return filepath.Join(DirPath(base), BackupDir)
}

// LogPath returns the full path to the activity log within base.
func LogPath(base string) string {
	return filepath.Join(DirPath(base), LogFile)
}

// Home returns the user's home directory, or "." when it cannot be
// determined.
func Home() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return home
}
