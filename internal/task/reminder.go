package task

import (
	"errors"
	"time"
)

// ErrEmptyMessage is returned for a reminder without a message.
var ErrEmptyMessage = errors.New("reminder message must not be empty")

// Reminder is a one-shot notification attached to a task.
type Reminder struct {
	TaskID  int
	Message string
	Time    time.Time
	Shown   bool
}

// IsDue reports whether r has not been shown and its time is not after now.
func (r *Reminder) IsDue(now time.Time) bool {
	return !r.Shown && !r.Time.After(now)
}

// Validate checks r has a task and a message.
func (r *Reminder) Validate() error {
	if r.TaskID <= 0 {
		return &ValidationError{Field: "taskId", Err: errors.New("reminder needs a task")}
	}
	if r.Message == "" {
		return &ValidationError{Field: "message", Err: ErrEmptyMessage}
	}
	if r.Time.IsZero() {
		return &ValidationError{Field: "time", Err: errors.New("reminder needs a time")}
	}
	return nil
}
