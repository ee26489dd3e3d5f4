// Package task defines tasks, templates and reminders and the field
// validation shared by every caller that creates or edits them.
package task

import (
	"strings"
	"time"

	"github.com/nibzard/tasker/internal/dates"
	"github.com/nibzard/tasker/internal/recurrence"
)

// Priority bounds.
const (
	MinPriority     = 1
	MaxPriority     = 5
	DefaultPriority = 3
)

// Status selects tasks by completion state.
type Status string

const (
	StatusAny       Status = ""
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusOverdue   Status = "overdue"
)

// ParseStatus accepts the status names plus the short forms "done" and "todo".
func ParseStatus(s string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all", "any":
		return StatusAny, true
	case "pending", "todo", "open":
		return StatusPending, true
	case "completed", "done":
		return StatusCompleted, true
	case "overdue":
		return StatusOverdue, true
	}
	return StatusAny, false
}

// Task is a unit of work. Subtasks are owned inline by their parent and never
// carry a recurrence of their own.
type Task struct {
	ID           int
	Description  string
	DueDate      string
	Priority     int
	Category     string
	Completed    bool
	Notes        string
	CreatedDate  string
	ProjectGroup string
	Tags         []string
	Recurrence   recurrence.Rule
	Subtasks     []Task
}

// New returns a pending task due on dueDate, stamped as created on the local
// day of now. The id is assigned by the store.
func New(description, dueDate string, priority int, category string, now time.Time) Task {
	return Task{
		Description: description,
		DueDate:     dueDate,
		Priority:    priority,
		Category:    category,
		CreatedDate: dates.Today(now).String(),
		Recurrence:  recurrence.NoRule(),
	}
}

// Clone returns a deep copy of t.
func (t Task) Clone() Task {
	if t.Tags != nil {
		t.Tags = append([]string(nil), t.Tags...)
	}
	t.Recurrence = t.Recurrence.Clone()
	if t.Subtasks != nil {
		subs := make([]Task, len(t.Subtasks))
		for i, s := range t.Subtasks {
			subs[i] = s.Clone()
		}
		t.Subtasks = subs
	}
	return t
}

// HasTag reports whether t carries tag.
func (t *Task) HasTag(tag string) bool {
	for _, existing := range t.Tags {
		if existing == tag {
			return true
		}
	}
	return false
}

// AddTag appends tag unless it is already present. It returns false for a
// duplicate or an invalid tag.
func (t *Task) AddTag(tag string) bool {
	tag = strings.TrimSpace(tag)
	if !IsValidTag(tag) || t.HasTag(tag) {
		return false
	}
	t.Tags = append(t.Tags, tag)
	return true
}

// RemoveTag removes tag and reports whether it was present.
func (t *Task) RemoveTag(tag string) bool {
	for i, existing := range t.Tags {
		if existing == tag {
			t.Tags = append(t.Tags[:i], t.Tags[i+1:]...)
			return true
		}
	}
	return false
}

// SetTags replaces the tags with the valid, de-duplicated entries of tags.
func (t *Task) SetTags(tags []string) {
	t.Tags = nil
	for _, tag := range tags {
		t.AddTag(tag)
	}
}

// Due returns the parsed due date.
func (t *Task) Due() (dates.Date, bool) {
	d, err := dates.Parse(t.DueDate)
	return d, err == nil
}

// IsOverdue reports whether t is pending and due before today.
func (t *Task) IsOverdue(today dates.Date) bool {
	if t.Completed {
		return false
	}
	due, ok := t.Due()
	return ok && due.Before(today)
}

// IsDueToday reports whether t is due on today.
func (t *Task) IsDueToday(today dates.Date) bool {
	due, ok := t.Due()
	return ok && due == today
}

// MatchesStatus reports whether t is selected by s on the given day.
func (t *Task) MatchesStatus(s Status, today dates.Date) bool {
	switch s {
	case StatusPending:
		return !t.Completed
	case StatusCompleted:
		return t.Completed
	case StatusOverdue:
		return t.IsOverdue(today)
	default:
		return true
	}
}

// Contains reports whether term occurs, case-insensitively, in the
// description, category, notes or tags of t.
func (t *Task) Contains(term string) bool {
	term = strings.ToLower(term)
	if term == "" {
		return true
	}
	fields := []string{t.Description, t.Category, t.Notes}
	fields = append(fields, t.Tags...)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

// Subtask returns a pointer to the subtask with id, or nil.
func (t *Task) Subtask(id int) *Task {
	for i := range t.Subtasks {
		if t.Subtasks[i].ID == id {
			return &t.Subtasks[i]
		}
	}
	return nil
}

// CompletedSubtasks returns how many subtasks are complete.
func (t *Task) CompletedSubtasks() int {
	n := 0
	for _, s := range t.Subtasks {
		if s.Completed {
			n++
		}
	}
	return n
}

// MaxID returns the largest id among t and its subtasks.
func (t *Task) MaxID() int {
	max := t.ID
	for _, s := range t.Subtasks {
		if id := s.MaxID(); id > max {
			max = id
		}
	}
	return max
}
