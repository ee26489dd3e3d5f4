package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/tasker/internal/recurrence"
	"github.com/nibzard/tasker/internal/reminders"
	"github.com/nibzard/tasker/internal/store"
	"github.com/nibzard/tasker/internal/task"
)

var uiNow = time.Date(2024, time.March, 10, 9, 0, 0, 0, time.Local)

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newUIStore(t *testing.T) *store.Store {
	t.Helper()
	s := store.New(store.WithClock(func() time.Time { return uiNow }))
	weekly := task.New("Water plants", "2024-03-10", 2, "home", uiNow)
	weekly.Recurrence = recurrence.Every(recurrence.Weekly, 1)
	for _, tk := range []task.Task{
		weekly,
		task.New("File taxes", "2024-03-01", 5, "admin", uiNow),
		task.New("Plan trip", "2024-04-01", 3, "", uiNow),
	} {
		if _, err := s.AddTask(tk); err != nil {
			t.Fatalf("AddTask: %v", err)
		}
	}
	s.MarkSaved()
	return s
}

func TestModelListsTasks(t *testing.T) {
	m := NewModel(newUIStore(t))
	view := m.View()
	for _, want := range []string{"Tasker", "Tasks (3)", "#1 (P2) Water plants", "every week", "#2 (P5) File taxes", "@admin"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	if got := m.Selected().MustGet().ID; got != 1 {
		t.Errorf("cursor starts on #%d, want #1", got)
	}
}

func TestModelToggleSpawnsNextOccurrence(t *testing.T) {
	s := newUIStore(t)
	m := NewModel(s)

	m.Update(key(" "))

	if !s.Modified() {
		t.Fatal("store should be modified")
	}
	if !strings.Contains(m.message, "Next occurrence #4 due 2024-03-17") {
		t.Errorf("message = %q", m.message)
	}
	if len(m.tasks) != 4 {
		t.Fatalf("got %d tasks, want 4", len(m.tasks))
	}

	m.Update(key(" "))
	if !strings.Contains(m.message, "Reopened #1") {
		t.Errorf("message = %q", m.message)
	}
}

func TestModelFiltersAndSorts(t *testing.T) {
	m := NewModel(newUIStore(t))

	m.Update(key("3"))
	if len(m.tasks) != 1 || m.tasks[0].ID != 2 {
		t.Fatalf("overdue filter = %+v", m.tasks)
	}
	if !strings.Contains(m.View(), "Filter: overdue") {
		t.Error("filter indicator missing")
	}

	m.Update(key("0"))
	m.Update(key("s"))
	if m.sortKey != store.SortPriority {
		t.Fatalf("sort = %q", m.sortKey)
	}
	if m.tasks[0].ID != 2 {
		t.Errorf("highest priority first, got #%d", m.tasks[0].ID)
	}

	m.Update(key("2"))
	if len(m.tasks) != 0 {
		t.Errorf("no completed tasks expected, got %d", len(m.tasks))
	}
	if m.Selected().IsPresent() {
		t.Error("nothing should be selected")
	}
	m.Update(key(" "))
	if m.err != nil {
		t.Errorf("toggle on empty list: %v", m.err)
	}
}

func TestModelCursorBounds(t *testing.T) {
	m := NewModel(newUIStore(t))
	m.Update(key("k"))
	if m.cursor != 0 {
		t.Errorf("cursor = %d", m.cursor)
	}
	for i := 0; i < 5; i++ {
		m.Update(key("j"))
	}
	if m.cursor != 2 {
		t.Errorf("cursor = %d, want 2", m.cursor)
	}
}

func TestModelSavesOnQuit(t *testing.T) {
	s := newUIStore(t)
	saves := 0
	m := NewModel(s, WithSave(func() error {
		saves++
		s.MarkSaved()
		return nil
	}))

	m.Update(key("q"))
	if saves != 0 {
		t.Errorf("unmodified store saved %d times", saves)
	}

	m.Update(key(" "))
	_, cmd := m.Update(key("q"))
	if saves != 1 {
		t.Errorf("saves = %d, want 1", saves)
	}
	if cmd == nil {
		t.Fatal("quit should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestModelSaveError(t *testing.T) {
	s := newUIStore(t)
	m := NewModel(s, WithSave(func() error { return errors.New("read-only") }))
	m.Update(key(" "))
	m.Update(key("w"))
	if m.saveErr == nil || !strings.Contains(m.View(), "Error: read-only") {
		t.Errorf("save error not shown:\n%s", m.View())
	}
}

func TestModelShowsNotifications(t *testing.T) {
	s := newUIStore(t)
	ch := make(chan reminders.Notification, 1)
	m := NewModel(s, WithNotifications(ch))
	m.now = func() time.Time { return uiNow }

	_, cmd := m.Update(notificationMsg{n: reminders.Notification{
		Reminder: task.Reminder{TaskID: 2, Message: "call accountant", Time: uiNow},
		Task:     s.Task(2),
	}})
	if cmd == nil {
		t.Error("should keep listening for notifications")
	}
	if !strings.Contains(m.View(), "call accountant (task #2: File taxes, set for now)") {
		t.Errorf("notice missing:\n%s", m.View())
	}
}

func TestModelHelp(t *testing.T) {
	m := NewModel(newUIStore(t))
	m.Update(key("h"))
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Error("help not shown")
	}
	m.Update(key("?"))
	if strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Error("help not hidden")
	}
}

func TestIsTTY(t *testing.T) {
	if IsTTY(&bytes.Buffer{}) {
		t.Error("buffer is not a TTY")
	}
}
