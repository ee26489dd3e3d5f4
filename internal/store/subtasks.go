package store

import (
	"github.com/nibzard/tasker/internal/recurrence"
	"github.com/nibzard/tasker/internal/task"
)

// AddSubtask appends sub to the task parentID and returns the subtask's id.
// Empty due date, zero priority and empty category are inherited from the
// parent. Subtasks never recur and have no subtasks of their own.
func (s *Store) AddSubtask(parentID int, sub task.Task) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(parentID)
	if i < 0 {
		return 0, notFound("task", parentID)
	}
	parent := &s.tasks[i]

	sub = sub.Clone()
	if sub.DueDate == "" {
		sub.DueDate = parent.DueDate
	}
	if sub.Priority == 0 {
		sub.Priority = parent.Priority
	}
	if sub.Category == "" {
		sub.Category = parent.Category
	}
	if sub.CreatedDate == "" {
		sub.CreatedDate = s.Today().String()
	}
	sub.Recurrence = recurrence.NoRule()
	sub.Subtasks = nil
	if err := task.Validate(&sub); err != nil {
		return 0, err
	}

	sub.ID = s.allocID()
	parent.Subtasks = append(parent.Subtasks, sub)
	s.modified = true
	s.logger.Info("subtask added", "parent", parentID, "id", sub.ID)
	return sub.ID, nil
}

// EditSubtask applies edit to a copy of the subtask and stores it if it
// validates.
func (s *Store) EditSubtask(parentID, subID int, edit func(*task.Task)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, err := s.subtask(parentID, subID)
	if err != nil {
		return err
	}
	updated := sub.Clone()
	edit(&updated)
	updated.ID = sub.ID
	updated.CreatedDate = sub.CreatedDate
	updated.Recurrence = recurrence.NoRule()
	updated.Subtasks = nil
	if err := task.Validate(&updated); err != nil {
		return err
	}
	*sub = updated
	s.modified = true
	return nil
}

// DeleteSubtask removes a subtask and its reminders.
func (s *Store) DeleteSubtask(parentID, subID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(parentID)
	if i < 0 {
		return notFound("task", parentID)
	}
	subs := s.tasks[i].Subtasks
	for j := range subs {
		if subs[j].ID == subID {
			s.tasks[i].Subtasks = append(subs[:j], subs[j+1:]...)
			s.dropReminders(func(r task.Reminder) bool { return r.TaskID == subID })
			s.modified = true
			s.logger.Info("subtask deleted", "parent", parentID, "id", subID)
			return nil
		}
	}
	return notFound("subtask", subID)
}

// MarkSubtaskComplete sets the completion state of a subtask. It never
// spawns a new occurrence.
func (s *Store) MarkSubtaskComplete(parentID, subID int, completed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, err := s.subtask(parentID, subID)
	if err != nil {
		return err
	}
	sub.Completed = completed
	s.modified = true
	return nil
}

// FindParent returns the id of the task owning subtask id.
func (s *Store) FindParent(subID int) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tasks {
		if t.Subtask(subID) != nil {
			return t.ID, true
		}
	}
	return 0, false
}

func (s *Store) subtask(parentID, subID int) (*task.Task, error) {
	i := s.indexOf(parentID)
	if i < 0 {
		return nil, notFound("task", parentID)
	}
	sub := s.tasks[i].Subtask(subID)
	if sub == nil {
		return nil, notFound("subtask", subID)
	}
	return sub, nil
}

// exists reports whether id names a task or subtask.
func (s *Store) exists(id int) bool {
	for _, t := range s.tasks {
		if t.ID == id || t.Subtask(id) != nil {
			return true
		}
	}
	return false
}
