package store

import (
	"fmt"
	"sort"

	"github.com/samber/mo"

	"github.com/nibzard/tasker/internal/task"
)

// AddTemplate stores tpl under its name.
func (s *Store) AddTemplate(tpl task.Template) error {
	if tpl.Recurrence.Interval == 0 {
		tpl.Recurrence.Interval = 1
	}
	if err := tpl.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.templates[tpl.Name]; ok {
		return fmt.Errorf("%q: %w", tpl.Name, ErrDuplicateTemplate)
	}
	s.templates[tpl.Name] = tpl.Clone()
	s.modified = true
	s.logger.Info("template added", "name", tpl.Name)
	return nil
}

// UpdateTemplate replaces an existing template with the same name.
func (s *Store) UpdateTemplate(tpl task.Template) error {
	if tpl.Recurrence.Interval == 0 {
		tpl.Recurrence.Interval = 1
	}
	if err := tpl.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.templates[tpl.Name]; !ok {
		return fmt.Errorf("template %q: %w", tpl.Name, ErrNotFound)
	}
	s.templates[tpl.Name] = tpl.Clone()
	s.modified = true
	return nil
}

// DeleteTemplate removes the template called name.
func (s *Store) DeleteTemplate(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.templates[name]; !ok {
		return fmt.Errorf("template %q: %w", name, ErrNotFound)
	}
	delete(s.templates, name)
	s.modified = true
	return nil
}

// Template returns the template called name.
func (s *Store) Template(name string) mo.Option[task.Template] {
	s.mu.Lock()
	defer s.mu.Unlock()
	tpl, ok := s.templates[name]
	if !ok {
		return mo.None[task.Template]()
	}
	return mo.Some(tpl.Clone())
}

// Templates returns all templates sorted by name.
func (s *Store) Templates() []task.Template {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]task.Template, 0, len(s.templates))
	for _, tpl := range s.templates {
		out = append(out, tpl.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// CreateFromTemplate adds a task built from the template called name and
// returns its id. An empty dueDate means today.
func (s *Store) CreateFromTemplate(name, dueDate string) (int, error) {
	tpl, ok := s.Template(name).Get()
	if !ok {
		return 0, fmt.Errorf("template %q: %w", name, ErrNotFound)
	}
	if dueDate == "" {
		dueDate = s.Today().String()
	}
	return s.AddTask(tpl.Instantiate(dueDate, s.now()))
}
