// Package ui provides the interactive terminal browser.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/mo"

	"github.com/nibzard/tasker/internal/dates"
	"github.com/nibzard/tasker/internal/reminders"
	"github.com/nibzard/tasker/internal/store"
	"github.com/nibzard/tasker/internal/task"
)

// maxNotices is how many fired reminders the browser keeps on screen.
const maxNotices = 3

// Store is the part of the task store the browser drives.
type Store interface {
	Filter(q store.Query) []task.Task
	MarkComplete(id int, completed bool) (mo.Option[task.Task], error)
	Modified() bool
	Today() dates.Date
}

// TUIOption configures the TUI behavior.
type TUIOption func(*Model)

// WithSave sets the function used to persist the store on quit and on "w".
func WithSave(save func() error) TUIOption {
	return func(m *Model) {
		m.save = save
	}
}

// WithNotifications shows reminders received on ch as they fire.
func WithNotifications(ch <-chan reminders.Notification) TUIOption {
	return func(m *Model) {
		m.notifyCh = ch
	}
}

// WithRefreshInterval changes how often the list is rebuilt from the store.
func WithRefreshInterval(d time.Duration) TUIOption {
	return func(m *Model) {
		if d > 0 {
			m.tickInterval = d
		}
	}
}

// RunTUI starts the browser on out, which must be a terminal.
func RunTUI(ctx context.Context, out io.Writer, s Store, opts ...TUIOption) error {
	if !IsTTY(out) {
		return fmt.Errorf("tui requires a TTY")
	}
	model := NewModel(s, opts...)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx), tea.WithOutput(out))
	finalModel, err := program.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	if m, ok := finalModel.(*Model); ok && m.saveErr != nil {
		return m.saveErr
	}
	return nil
}

// Model is the bubbletea model of the task browser.
type Model struct {
	store        Store
	save         func() error
	notifyCh     <-chan reminders.Notification
	tickInterval time.Duration

	tasks    []task.Task
	cursor   int
	filter   task.Status
	sortKey  store.SortKey
	showHelp bool
	message  string
	err      error
	saveErr  error
	notices  []string
	now      func() time.Time
}

type tickMsg time.Time

type notificationMsg struct {
	n reminders.Notification
}

// NewModel returns a browser over s.
func NewModel(s Store, opts ...TUIOption) *Model {
	m := &Model{
		store:        s,
		tickInterval: 5 * time.Second,
		sortKey:      store.SortNone,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.refresh()
	return m
}

func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.tickInterval)}
	if m.notifyCh != nil {
		cmds = append(cmds, waitForNotification(m.notifyCh))
	}
	return tea.Batch(cmds...)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tickMsg:
		m.refresh()
		return m, tickCmd(m.tickInterval)
	case notificationMsg:
		m.notices = append(m.notices, reminders.Format(msg.n, m.now()))
		if len(m.notices) > maxNotices {
			m.notices = m.notices[len(m.notices)-maxNotices:]
		}
		m.refresh()
		if m.notifyCh != nil {
			return m, waitForNotification(m.notifyCh)
		}
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.persist()
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}
	case " ", "space", "enter", "x":
		m.toggle()
	case "w":
		m.persist()
		if m.saveErr == nil && m.save != nil {
			m.message = "Saved."
		}
	case "s":
		m.sortKey = nextSortKey(m.sortKey)
		m.refresh()
	case "r", "f5":
		m.refresh()
	case "h", "?":
		m.showHelp = !m.showHelp
	case "1":
		m.setFilter(task.StatusPending)
	case "2":
		m.setFilter(task.StatusCompleted)
	case "3":
		m.setFilter(task.StatusOverdue)
	case "0":
		m.setFilter(task.StatusAny)
	}
	return m, nil
}

func (m *Model) View() string {
	var b strings.Builder
	writeTitle(&b)

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b)
		return b.String()
	}

	if m.filter != task.StatusAny || m.sortKey != store.SortNone {
		b.WriteString(fmt.Sprintf("Filter: %s  Sort: %s (0 to clear filter)\n\n", orAll(string(m.filter)), orAll(string(m.sortKey))))
	}

	writeTasks(&b, m.tasks, m.cursor, m.store.Today())
	writeNotices(&b, m.notices)

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render("Error: "+m.err.Error()) + "\n\n")
	case m.message != "":
		b.WriteString(noticeStyle.Render(m.message) + "\n\n")
	}
	writeFooter(&b)
	return b.String()
}

// Selected returns the task under the cursor.
func (m *Model) Selected() mo.Option[task.Task] {
	if m.cursor < 0 || m.cursor >= len(m.tasks) {
		return mo.None[task.Task]()
	}
	return mo.Some(m.tasks[m.cursor])
}

func (m *Model) refresh() {
	m.tasks = m.store.Filter(store.Query{Status: m.filter})
	store.Sort(m.tasks, m.sortKey)
	if m.cursor >= len(m.tasks) {
		m.cursor = len(m.tasks) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) setFilter(s task.Status) {
	m.filter = s
	m.cursor = 0
	m.refresh()
}

func (m *Model) toggle() {
	t, ok := m.Selected().Get()
	if !ok {
		return
	}
	m.err = nil
	spawned, err := m.store.MarkComplete(t.ID, !t.Completed)
	if err != nil {
		m.err = err
		return
	}
	switch next, ok := spawned.Get(); {
	case ok:
		m.message = fmt.Sprintf("Completed #%d. Next occurrence #%d due %s.", t.ID, next.ID, next.DueDate)
	case t.Completed:
		m.message = fmt.Sprintf("Reopened #%d.", t.ID)
	default:
		m.message = fmt.Sprintf("Completed #%d.", t.ID)
	}
	m.refresh()
}

func (m *Model) persist() {
	if m.save == nil || !m.store.Modified() {
		return
	}
	if err := m.save(); err != nil {
		m.saveErr = err
		m.err = err
		return
	}
	m.saveErr = nil
}

func nextSortKey(k store.SortKey) store.SortKey {
	switch k {
	case store.SortNone:
		return store.SortPriority
	case store.SortPriority:
		return store.SortDueDate
	case store.SortDueDate:
		return store.SortCategory
	}
	return store.SortNone
}

func orAll(s string) string {
	if s == "" {
		return "all"
	}
	return s
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func waitForNotification(ch <-chan reminders.Notification) tea.Cmd {
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return nil
		}
		return notificationMsg{n: n}
	}
}

func writeTitle(b *strings.Builder) {
	title := "Tasker"
	b.WriteString(titleStyle.Render(title) + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")
}

func writeTasks(b *strings.Builder, tasks []task.Task, cursor int, today dates.Date) {
	b.WriteString(headingStyle.Render(fmt.Sprintf("Tasks (%d)", len(tasks))) + "\n\n")
	if len(tasks) == 0 {
		b.WriteString("  No tasks.\n\n")
		return
	}
	for i := range tasks {
		line := formatTask(&tasks[i], today)
		if i == cursor {
			b.WriteString(cursorStyle.Render(">") + " " + line + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}
	b.WriteString("\n")
}

func writeNotices(b *strings.Builder, notices []string) {
	if len(notices) == 0 {
		return
	}
	b.WriteString(headingStyle.Render("Reminders") + "\n\n")
	for _, n := range notices {
		b.WriteString("  " + n + "\n")
	}
	b.WriteString("\n")
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  q, ctrl+c     Save and quit\n")
	b.WriteString("  up/k, down/j  Move\n")
	b.WriteString("  space, enter  Toggle completion\n")
	b.WriteString("  w             Save now\n")
	b.WriteString("  s             Cycle sort (priority, due, category)\n")
	b.WriteString("  r, F5         Refresh\n")
	b.WriteString("  h, ?          Toggle this help screen\n")
	b.WriteString("  1             Show pending\n")
	b.WriteString("  2             Show completed\n")
	b.WriteString("  3             Show overdue\n")
	b.WriteString("  0             Clear filter\n\n")
}

func writeFooter(b *strings.Builder) {
	b.WriteString(footerStyle.Render("Press h for help | space to toggle | q to quit") + "\n")
}

func formatTask(t *task.Task, today dates.Date) string {
	mark := " "
	if t.Completed {
		mark = "x"
	}
	line := fmt.Sprintf("[%s] #%d (P%d) %s  due %s", mark, t.ID, t.Priority, t.Description, t.DueDate)
	if t.Category != "" {
		line += "  @" + t.Category
	}
	if n := len(t.Subtasks); n > 0 {
		line += fmt.Sprintf("  [%d/%d]", t.CompletedSubtasks(), n)
	}
	if t.Recurrence.IsRecurring() {
		line += "  ↻ " + t.Recurrence.Describe()
	}
	switch {
	case t.Completed:
		return completedStyle.Render(line)
	case t.IsOverdue(today):
		return overdueStyle.Render(line)
	case t.IsDueToday(today):
		return dueTodayStyle.Render(line)
	}
	return line
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
