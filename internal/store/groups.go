package store

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrEmptyGroup is returned for a blank project group name.
var ErrEmptyGroup = errors.New("project group name must not be empty")

// AddGroup registers a project group.
func (s *Store) AddGroup(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyGroup
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.groups[name]; !ok {
		s.groups[name] = struct{}{}
		s.modified = true
	}
	return nil
}

// Groups returns the project group names sorted.
func (s *Store) Groups() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.groups))
	for name := range s.groups {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// GroupMembers returns the ids of the tasks in group.
func (s *Store) GroupMembers(group string) []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []int
	for _, t := range s.tasks {
		if t.ProjectGroup == group {
			ids = append(ids, t.ID)
		}
	}
	return ids
}

// AssignGroup puts the task id in group, registering the group if needed.
func (s *Store) AssignGroup(id int, group string) error {
	group = strings.TrimSpace(group)
	if group == "" {
		return ErrEmptyGroup
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return notFound("task", id)
	}
	s.groups[group] = struct{}{}
	s.tasks[i].ProjectGroup = group
	s.modified = true
	return nil
}

// RemoveFromGroup clears the project group of task id.
func (s *Store) RemoveFromGroup(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return notFound("task", id)
	}
	s.tasks[i].ProjectGroup = ""
	s.modified = true
	return nil
}

// RenameGroup renames a group and moves its tasks along.
func (s *Store) RenameGroup(oldName, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return ErrEmptyGroup
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.groups[oldName]; !ok {
		return fmt.Errorf("group %q: %w", oldName, ErrNotFound)
	}
	delete(s.groups, oldName)
	s.groups[newName] = struct{}{}
	for i := range s.tasks {
		if s.tasks[i].ProjectGroup == oldName {
			s.tasks[i].ProjectGroup = newName
		}
	}
	s.modified = true
	return nil
}

// DeleteGroup removes a group. Its tasks are kept and lose their group.
func (s *Store) DeleteGroup(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.groups[name]; !ok {
		return fmt.Errorf("group %q: %w", name, ErrNotFound)
	}
	delete(s.groups, name)
	for i := range s.tasks {
		if s.tasks[i].ProjectGroup == name {
			s.tasks[i].ProjectGroup = ""
		}
	}
	s.modified = true
	return nil
}
