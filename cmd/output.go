package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/nibzard/tasker/internal/dates"
	"github.com/nibzard/tasker/internal/task"
)

type palette struct {
	id      *color.Color
	done    *color.Color
	overdue *color.Color
	today   *color.Color
	dim     *color.Color
	heading *color.Color
	ok      *color.Color
	warn    *color.Color
	bad     *color.Color
}

// newPalette returns the CLI colours. Colour is also off whenever stdout is
// not a terminal or NO_COLOR is set.
func newPalette(enabled bool) palette {
	p := palette{
		id:      color.New(color.FgCyan),
		done:    color.New(color.FgHiBlack),
		overdue: color.New(color.FgRed, color.Bold),
		today:   color.New(color.FgYellow),
		dim:     color.New(color.FgHiBlack),
		heading: color.New(color.Bold, color.Underline),
		ok:      color.New(color.FgGreen),
		warn:    color.New(color.FgYellow),
		bad:     color.New(color.FgRed),
	}
	if !enabled {
		for _, c := range []*color.Color{p.id, p.done, p.overdue, p.today, p.dim, p.heading, p.ok, p.warn, p.bad} {
			c.DisableColor()
		}
	}
	return p
}

// dueLabel renders a due date relative to today: "today", "2 days ago",
// "1 week from now".
func dueLabel(due string, today dates.Date) string {
	d, err := dates.Parse(due)
	if err != nil {
		return due
	}
	if d == today {
		return "today"
	}
	return humanize.RelTime(d.Time(), today.Time(), "ago", "from now")
}

func (a *app) formatDue(t *task.Task) string {
	return a.cfg.FormatDate(t.DueDate)
}

// printTask prints the one-line form of t, and its details when verbose.
func (a *app) printTask(w io.Writer, t *task.Task, indent string, verbose bool) {
	today := a.store.Today()
	mark := "[ ]"
	if t.Completed {
		mark = "[x]"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s #%d  %s  (P%d, due %s)", mark, t.ID, t.Description, t.Priority, a.formatDue(t))
	if t.Category != "" {
		fmt.Fprintf(&b, "  @%s", t.Category)
	}
	for _, tag := range t.Tags {
		fmt.Fprintf(&b, " #%s", tag)
	}
	if t.Recurrence.IsRecurring() {
		fmt.Fprintf(&b, "  ↻ %s", t.Recurrence.Describe())
	}
	if n := len(t.Subtasks); n > 0 {
		fmt.Fprintf(&b, "  [%d/%d]", t.CompletedSubtasks(), n)
	}

	line := b.String()
	switch {
	case t.Completed:
		line = a.colors.done.Sprint(line)
	case t.IsOverdue(today):
		line = a.colors.overdue.Sprint(line)
	case t.IsDueToday(today):
		line = a.colors.today.Sprint(line)
	}
	fmt.Fprintf(w, "%s%s\n", indent, line)

	if !verbose {
		return
	}
	detail := indent + "      "
	fmt.Fprintf(w, "%s%s\n", detail, a.colors.dim.Sprintf("due %s", dueLabel(t.DueDate, today)))
	if t.ProjectGroup != "" {
		fmt.Fprintf(w, "%sGroup: %s\n", detail, t.ProjectGroup)
	}
	if t.Notes != "" {
		fmt.Fprintf(w, "%sNotes: %s\n", detail, task.Truncate(t.Notes, 60))
	}
	for i := range t.Subtasks {
		a.printTask(w, &t.Subtasks[i], indent+"    ", false)
	}
}

func (a *app) printTaskList(tasks []task.Task, verbose bool) {
	if len(tasks) == 0 {
		fmt.Fprintln(a.out, "No tasks.")
		return
	}
	for i := range tasks {
		a.printTask(a.out, &tasks[i], "  ", verbose)
	}
}

// relTime renders t relative to now.
func relTime(t, now time.Time) string {
	return humanize.RelTime(t, now, "ago", "from now")
}
