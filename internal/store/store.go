// Package store holds the in-memory task collection for a session.
//
// The store allocates ids from a single counter shared by tasks and
// subtasks, runs the completion workflow that spawns the next occurrence of
// a recurring task, and tracks whether it has unsaved changes. All methods
// are safe for concurrent use; values returned to callers are copies.
package store

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/samber/mo"

	"github.com/nibzard/tasker/internal/dates"
	"github.com/nibzard/tasker/internal/recurrence"
	"github.com/nibzard/tasker/internal/task"
)

var (
	// ErrNotFound is returned when no task, subtask, template or reminder
	// matches the request.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateTemplate is returned when adding a template whose name is taken.
	ErrDuplicateTemplate = errors.New("template already exists")
)

// Store is the task collection of one session.
type Store struct {
	mu        sync.Mutex
	tasks     []task.Task
	templates map[string]task.Template
	reminders []task.Reminder
	groups    map[string]struct{}
	nextID    int
	modified  bool

	logger *log.Logger
	now    func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for store events.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock sets the clock used for created dates and "today".
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New returns an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		templates: make(map[string]task.Template),
		groups:    make(map[string]struct{}),
		nextID:    1,
		logger:    log.New(io.Discard),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the store's current time.
func (s *Store) Now() time.Time {
	return s.now()
}

// Today returns the store's current local day.
func (s *Store) Today() dates.Date {
	return dates.Today(s.now())
}

// Modified reports whether the store has changes that were not saved.
func (s *Store) Modified() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.modified
}

// MarkSaved clears the modified flag.
func (s *Store) MarkSaved() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modified = false
}

// NextID returns the id the next inserted task or subtask will receive.
func (s *Store) NextID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextID
}

func (s *Store) allocID() int {
	id := s.nextID
	s.nextID++
	return id
}

// indexOf returns the position of the top-level task id, or -1.
func (s *Store) indexOf(id int) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func notFound(kind string, id int) error {
	return fmt.Errorf("%s %d: %w", kind, id, ErrNotFound)
}

// AddTask validates t, assigns it an id (and ids for any subtasks) and
// appends it. A missing created date is stamped with today.
func (s *Store) AddTask(t task.Task) (int, error) {
	t = t.Clone()
	if t.CreatedDate == "" {
		t.CreatedDate = dates.Today(s.now()).String()
	}
	if t.Recurrence.Interval == 0 {
		t.Recurrence.Interval = 1
	}
	if err := task.Validate(&t); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = s.allocID()
	for i := range t.Subtasks {
		t.Subtasks[i].ID = s.allocID()
		t.Subtasks[i].Recurrence = recurrence.NoRule()
		t.Subtasks[i].Subtasks = nil
	}
	if t.ProjectGroup != "" {
		s.groups[t.ProjectGroup] = struct{}{}
	}
	s.tasks = append(s.tasks, t)
	s.modified = true
	s.logger.Info("task added", "id", t.ID, "due", t.DueDate)
	return t.ID, nil
}

// Task returns a copy of the top-level task with id.
func (s *Store) Task(id int) mo.Option[task.Task] {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return mo.Some(s.tasks[i].Clone())
	}
	return mo.None[task.Task]()
}

// Tasks returns copies of all top-level tasks in insertion order.
func (s *Store) Tasks() []task.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneTasks(s.tasks)
}

// Len returns the number of top-level tasks.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// EditTask applies edit to a copy of the task with id and stores the result
// if it validates. The id, created date and subtasks cannot be changed by
// edit. On error the task is left unchanged.
func (s *Store) EditTask(id int, edit func(*task.Task)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return notFound("task", id)
	}
	orig := s.tasks[i]
	updated := orig.Clone()
	edit(&updated)
	updated.ID = orig.ID
	updated.CreatedDate = orig.CreatedDate
	updated.Subtasks = orig.Clone().Subtasks
	if updated.Recurrence.Interval == 0 {
		updated.Recurrence.Interval = 1
	}
	if err := task.Validate(&updated); err != nil {
		return err
	}
	if updated.ProjectGroup != "" {
		s.groups[updated.ProjectGroup] = struct{}{}
	}
	s.tasks[i] = updated
	s.modified = true
	s.logger.Debug("task edited", "id", id)
	return nil
}

// DeleteTask removes the task with id together with its subtasks and every
// reminder attached to any of them.
func (s *Store) DeleteTask(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return notFound("task", id)
	}
	removed := map[int]bool{id: true}
	for _, sub := range s.tasks[i].Subtasks {
		removed[sub.ID] = true
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	s.dropReminders(func(r task.Reminder) bool { return removed[r.TaskID] })
	s.modified = true
	s.logger.Info("task deleted", "id", id, "subtasks", len(removed)-1)
	return nil
}

// MarkComplete sets the completion state of the top-level task with id.
//
// Completing a recurring task appends a new pending copy due on the next
// occurrence, with a fresh id and no subtasks, and returns it. The completed
// task stays in the store. Completing an already completed recurring task
// spawns again. The rule's end date and occurrence cap are not enforced.
func (s *Store) MarkComplete(id int, completed bool) (mo.Option[task.Task], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return mo.None[task.Task](), notFound("task", id)
	}
	s.tasks[i].Completed = completed
	s.modified = true

	orig := s.tasks[i]
	if !completed || !orig.Recurrence.IsRecurring() {
		s.logger.Debug("task completion changed", "id", id, "completed", completed)
		return mo.None[task.Task](), nil
	}

	due, err := dates.Parse(orig.DueDate)
	if err != nil {
		s.logger.Warn("recurring task has an invalid due date, not spawning", "id", id, "due", orig.DueDate)
		return mo.None[task.Task](), nil
	}

	next := orig.Clone()
	next.ID = s.allocID()
	next.Completed = false
	next.DueDate = recurrence.Next(orig.Recurrence, due).String()
	next.Subtasks = nil
	s.tasks = append(s.tasks, next)
	s.logger.Info("spawned next occurrence", "from", id, "id", next.ID, "due", next.DueDate)
	return mo.Some(next.Clone()), nil
}

func cloneTasks(in []task.Task) []task.Task {
	out := make([]task.Task, len(in))
	for i, t := range in {
		out[i] = t.Clone()
	}
	return out
}
