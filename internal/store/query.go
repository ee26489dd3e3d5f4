package store

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/nibzard/tasker/internal/dates"
	"github.com/nibzard/tasker/internal/task"
)

// Query selects top-level tasks. Zero fields match everything.
type Query struct {
	Category string
	Status   task.Status
	DueDate  string
	Tag      string
	Group    string
	Text     string
}

// Match reports whether t is selected by q on the given day.
func (q Query) Match(t *task.Task, today dates.Date) bool {
	if q.Category != "" && !strings.EqualFold(t.Category, q.Category) {
		return false
	}
	if !t.MatchesStatus(q.Status, today) {
		return false
	}
	if q.DueDate != "" && t.DueDate != q.DueDate {
		return false
	}
	if q.Tag != "" && !t.HasTag(q.Tag) {
		return false
	}
	if q.Group != "" && t.ProjectGroup != q.Group {
		return false
	}
	if q.Text != "" && !t.Contains(q.Text) {
		return false
	}
	return true
}

// Filter returns copies of the tasks matching q, in insertion order.
func (s *Store) Filter(q Query) []task.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	today := s.Today()
	var out []task.Task
	for i := range s.tasks {
		if q.Match(&s.tasks[i], today) {
			out = append(out, s.tasks[i].Clone())
		}
	}
	return out
}

// Search returns the tasks whose description, category, notes or tags
// contain term, ignoring case.
func (s *Store) Search(term string) []task.Task {
	return s.Filter(Query{Text: term})
}

// Overdue returns the pending tasks due before today.
func (s *Store) Overdue() []task.Task {
	return s.Filter(Query{Status: task.StatusOverdue})
}

// DueToday returns the tasks due today.
func (s *Store) DueToday() []task.Task {
	return s.Filter(Query{DueDate: s.Today().String()})
}

// SortKey orders task listings.
type SortKey string

const (
	SortNone     SortKey = ""
	SortPriority SortKey = "priority"
	SortDueDate  SortKey = "due"
	SortCategory SortKey = "category"
)

// ParseSortKey accepts the sort key names and "date" for SortDueDate.
func ParseSortKey(s string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "id":
		return SortNone, nil
	case "priority", "prio":
		return SortPriority, nil
	case "due", "date", "duedate":
		return SortDueDate, nil
	case "category", "cat":
		return SortCategory, nil
	}
	return SortNone, fmt.Errorf("unknown sort key %q (expected priority|due|category)", s)
}

// Sort orders tasks in place. Priority sorts highest first, due date sorts
// earliest first and category uses language-aware collation. Ties keep id
// order.
func Sort(tasks []task.Task, key SortKey) {
	var less func(a, b *task.Task) bool
	switch key {
	case SortPriority:
		less = func(a, b *task.Task) bool { return a.Priority > b.Priority }
	case SortDueDate:
		less = func(a, b *task.Task) bool { return a.DueDate < b.DueDate }
	case SortCategory:
		col := collate.New(language.Und, collate.IgnoreCase)
		less = func(a, b *task.Task) bool { return col.CompareString(a.Category, b.Category) < 0 }
	default:
		less = func(a, b *task.Task) bool { return false }
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := &tasks[i], &tasks[j]
		if less(a, b) {
			return true
		}
		if less(b, a) {
			return false
		}
		return a.ID < b.ID
	})
}

// Stats summarises the store on a given day.
type Stats struct {
	Total             int
	Completed         int
	Pending           int
	Overdue           int
	DueToday          int
	Recurring         int
	Subtasks          int
	CompletedSubtasks int
	ByCategory        map[string]int
}

// CompletionRate returns the share of completed top-level tasks, 0..1.
func (st Stats) CompletionRate() float64 {
	if st.Total == 0 {
		return 0
	}
	return float64(st.Completed) / float64(st.Total)
}

// Stats computes statistics for today.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	today := s.Today()
	st := Stats{ByCategory: make(map[string]int)}
	for i := range s.tasks {
		t := &s.tasks[i]
		st.Total++
		if t.Completed {
			st.Completed++
		} else {
			st.Pending++
		}
		if t.IsOverdue(today) {
			st.Overdue++
		}
		if t.IsDueToday(today) {
			st.DueToday++
		}
		if t.Recurrence.IsRecurring() {
			st.Recurring++
		}
		st.Subtasks += len(t.Subtasks)
		st.CompletedSubtasks += t.CompletedSubtasks()
		category := t.Category
		if category == "" {
			category = "uncategorized"
		}
		st.ByCategory[category]++
	}
	return st
}
