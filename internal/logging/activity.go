package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// MaxLogSize is the size past which the activity log is rotated on open.
const MaxLogSize = 1 << 20

// ActivityLog is an append-only log file.
type ActivityLog struct {
	Path string
	file *os.File
}

// OpenActivityLog opens path for appending, creating it and its directory
// as needed. A file larger than MaxLogSize is first moved to path + ".1".
func OpenActivityLog(path string) (*ActivityLog, error) {
	if path == "" {
		return nil, fmt.Errorf("log file path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	if _, err := Rotate(path, MaxLogSize); err != nil {
		return nil, err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return &ActivityLog{Path: path, file: file}, nil
}

// Writer returns the underlying log file writer.
func (a *ActivityLog) Writer() io.Writer {
	return a.file
}

// Logger returns a logger writing to the activity log.
func (a *ActivityLog) Logger(opts Options) *log.Logger {
	return New(a.file, opts)
}

// Close closes the log file.
func (a *ActivityLog) Close() error {
	if a == nil || a.file == nil {
		return nil
	}
	return a.file.Close()
}

// Rotate moves path to path + ".1" when it is larger than max bytes,
// replacing any previous rotation. It reports whether a rotation happened.
func Rotate(path string, max int64) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat log file: %w", err)
	}
	if info.Size() <= max {
		return false, nil
	}
	if err := os.Rename(path, path+".1"); err != nil {
		return false, fmt.Errorf("rotate log file: %w", err)
	}
	return true, nil
}
