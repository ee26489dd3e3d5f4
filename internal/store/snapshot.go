package store

import (
	"sort"

	"github.com/nibzard/tasker/internal/task"
)

// Snapshot is the full persisted state of a store.
type Snapshot struct {
	Tasks     []task.Task
	Templates []task.Template
	Reminders []task.Reminder
	Groups    []string
}

// Snapshot returns a deep copy of the store's contents for persistence.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		Tasks:     cloneTasks(s.tasks),
		Reminders: append([]task.Reminder(nil), s.reminders...),
	}
	for _, tpl := range s.templates {
		snap.Templates = append(snap.Templates, tpl.Clone())
	}
	sort.Slice(snap.Templates, func(i, j int) bool { return snap.Templates[i].Name < snap.Templates[j].Name })
	for name := range s.groups {
		snap.Groups = append(snap.Groups, name)
	}
	sort.Strings(snap.Groups)
	return snap
}

// Replace swaps the store's contents for snap. The id counter becomes one
// past the largest task or subtask id (1 when empty), groups referenced by
// tasks are registered, and the modified flag is cleared.
func (s *Store) Replace(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = cloneTasks(snap.Tasks)
	s.reminders = append([]task.Reminder(nil), snap.Reminders...)
	s.templates = make(map[string]task.Template, len(snap.Templates))
	for _, tpl := range snap.Templates {
		s.templates[tpl.Name] = tpl.Clone()
	}
	s.groups = make(map[string]struct{}, len(snap.Groups))
	for _, g := range snap.Groups {
		if g != "" {
			s.groups[g] = struct{}{}
		}
	}

	maxID := 0
	for i := range s.tasks {
		if g := s.tasks[i].ProjectGroup; g != "" {
			s.groups[g] = struct{}{}
		}
		if id := s.tasks[i].MaxID(); id > maxID {
			maxID = id
		}
	}
	s.nextID = maxID + 1
	s.modified = false
	s.logger.Debug("store replaced", "tasks", len(s.tasks), "nextId", s.nextID)
}
