package store

import (
	"fmt"
	"sort"
	"time"

	"github.com/nibzard/tasker/internal/task"
)

// AddReminder attaches r to an existing task or subtask.
func (s *Store) AddReminder(r task.Reminder) error {
	if err := r.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.exists(r.TaskID) {
		return notFound("task", r.TaskID)
	}
	s.reminders = append(s.reminders, r)
	s.modified = true
	s.logger.Info("reminder added", "task", r.TaskID, "at", r.Time.Format("2006-01-02 15:04"))
	return nil
}

// Reminders returns all reminders ordered by time. The index of a reminder
// in this list is what DeleteReminder expects.
func (s *Store) Reminders() []task.Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sortReminders()
	return append([]task.Reminder(nil), s.reminders...)
}

// DeleteReminder removes the reminder at index of Reminders.
func (s *Store) DeleteReminder(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sortReminders()
	if index < 0 || index >= len(s.reminders) {
		return fmt.Errorf("reminder %d: %w", index, ErrNotFound)
	}
	s.reminders = append(s.reminders[:index], s.reminders[index+1:]...)
	s.modified = true
	return nil
}

// RemindersFor returns the reminders attached to task id.
func (s *Store) RemindersFor(id int) []task.Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []task.Reminder
	for _, r := range s.reminders {
		if r.TaskID == id {
			out = append(out, r)
		}
	}
	return out
}

// CheckReminders returns the reminders due at now and marks them shown.
func (s *Store) CheckReminders(now time.Time) []task.Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()
	var due []task.Reminder
	for i := range s.reminders {
		if s.reminders[i].IsDue(now) {
			s.reminders[i].Shown = true
			due = append(due, s.reminders[i])
		}
	}
	if len(due) > 0 {
		s.modified = true
		s.logger.Debug("reminders due", "count", len(due))
	}
	return due
}

func (s *Store) sortReminders() {
	sort.SliceStable(s.reminders, func(i, j int) bool {
		return s.reminders[i].Time.Before(s.reminders[j].Time)
	})
}

func (s *Store) dropReminders(match func(task.Reminder) bool) {
	kept := s.reminders[:0]
	for _, r := range s.reminders {
		if !match(r) {
			kept = append(kept, r)
		}
	}
	s.reminders = kept
}
