package reminders

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/samber/mo"

	"github.com/nibzard/tasker/internal/task"
)

// Notification is one due reminder with its task, when the id names a
// top-level task.
type Notification struct {
	Reminder task.Reminder
	Task     mo.Option[task.Task]
}

// Notifier delivers notifications.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n Notification) error

// Notify calls f.
func (f NotifierFunc) Notify(ctx context.Context, n Notification) error {
	return f(ctx, n)
}

// WriterNotifier prints one line per notification.
type WriterNotifier struct {
	mu  sync.Mutex
	w   io.Writer
	now func() time.Time
}

// NewWriterNotifier returns a notifier printing to w.
func NewWriterNotifier(w io.Writer, now func() time.Time) *WriterNotifier {
	if now == nil {
		now = time.Now
	}
	return &WriterNotifier{w: w, now: now}
}

// Notify writes n as "🔔 <message> (task #id: description, set for <when>)".
func (p *WriterNotifier) Notify(_ context.Context, n Notification) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, err := fmt.Fprintln(p.w, Format(n, p.now()))
	return err
}

// Format renders n relative to now.
func Format(n Notification, now time.Time) string {
	when := humanize.RelTime(n.Reminder.Time, now, "ago", "from now")
	if t, ok := n.Task.Get(); ok {
		return fmt.Sprintf("🔔 %s (task #%d: %s, set for %s)", n.Reminder.Message, t.ID, t.Description, when)
	}
	return fmt.Sprintf("🔔 %s (task #%d, set for %s)", n.Reminder.Message, n.Reminder.TaskID, when)
}
