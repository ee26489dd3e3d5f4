// Package reminders delivers due reminders on a cron schedule.
package reminders

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	rcron "github.com/robfig/cron/v3"
	"github.com/samber/mo"

	"github.com/nibzard/tasker/internal/task"
)

// DefaultSchedule checks reminders once a minute.
const DefaultSchedule = "@every 1m"

// Source is the reminder store the watcher polls. *store.Store satisfies it.
type Source interface {
	CheckReminders(now time.Time) []task.Reminder
	Task(id int) mo.Option[task.Task]
}

// Watcher polls a Source and hands due reminders to a Notifier.
type Watcher struct {
	src      Source
	notifier Notifier
	schedule string
	logger   *log.Logger
	now      func() time.Time
	after    func(fired []task.Reminder) error

	mu      sync.Mutex
	cron    *rcron.Cron
	stopped chan struct{}
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets the watcher's logger.
func WithLogger(l *log.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithSchedule sets the cron spec (standard five fields or a descriptor
// such as "@every 30s").
func WithSchedule(spec string) Option {
	return func(w *Watcher) {
		if spec != "" {
			w.schedule = spec
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(w *Watcher) {
		if now != nil {
			w.now = now
		}
	}
}

// WithAfterCheck registers a hook run after a check that fired at least one
// reminder, typically to persist the shown flags.
func WithAfterCheck(fn func(fired []task.Reminder) error) Option {
	return func(w *Watcher) {
		w.after = fn
	}
}

// NewWatcher returns a watcher for src. The schedule is validated here.
func NewWatcher(src Source, notifier Notifier, opts ...Option) (*Watcher, error) {
	w := &Watcher{
		src:      src,
		notifier: notifier,
		schedule: DefaultSchedule,
		logger:   log.New(io.Discard),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	if err := ValidateSchedule(w.schedule); err != nil {
		return nil, err
	}
	return w, nil
}

// ValidateSchedule checks spec parses as a standard cron spec or descriptor.
func ValidateSchedule(spec string) error {
	if _, err := rcron.ParseStandard(spec); err != nil {
		return fmt.Errorf("reminder schedule %q: %w", spec, err)
	}
	return nil
}

// Schedule returns the cron spec in use.
func (w *Watcher) Schedule() string {
	return w.schedule
}

// Check delivers every reminder due now and returns how many fired. A
// failed notification is logged and does not stop the others. Due
// reminders are already marked shown, so all of them are handed to the
// notifier even when ctx is cancelled midway.
func (w *Watcher) Check(ctx context.Context) (int, error) {
	due := w.src.CheckReminders(w.now())
	if len(due) == 0 {
		return 0, nil
	}
	for _, r := range due {
		if err := w.notifier.Notify(ctx, Notification{Reminder: r, Task: w.src.Task(r.TaskID)}); err != nil {
			w.logger.Error("reminder notification failed", "task", r.TaskID, "err", err)
		}
	}
	w.logger.Info("reminders fired", "count", len(due))
	if w.after != nil {
		if err := w.after(due); err != nil {
			return len(due), fmt.Errorf("after reminder check: %w", err)
		}
	}
	return len(due), nil
}

// Start runs one check immediately and then schedules checks until ctx is
// done or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.cron != nil {
		w.mu.Unlock()
		return fmt.Errorf("watcher already started")
	}
	c := rcron.New(rcron.WithChain(rcron.SkipIfStillRunning(cronLogger{w.logger})))
	if _, err := c.AddFunc(w.schedule, func() { w.runCheck(ctx) }); err != nil {
		w.mu.Unlock()
		return fmt.Errorf("schedule reminders: %w", err)
	}
	w.cron = c
	stopped := make(chan struct{})
	w.stopped = stopped
	w.mu.Unlock()

	w.runCheck(ctx)
	c.Start()
	w.logger.Debug("reminder watcher started", "schedule", w.schedule)

	go func() {
		select {
		case <-ctx.Done():
			w.Stop()
		case <-stopped:
		}
	}()
	return nil
}

// Stop halts scheduling and waits briefly for a running check to finish.
func (w *Watcher) Stop() {
	w.mu.Lock()
	c := w.cron
	stopped := w.stopped
	w.cron = nil
	w.stopped = nil
	w.mu.Unlock()
	if c == nil {
		return
	}
	close(stopped)

	stopCtx := c.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(5 * time.Second):
		w.logger.Warn("timed out waiting for reminder check")
	}
	w.logger.Debug("reminder watcher stopped")
}

// Run starts the watcher and blocks until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	w.Stop()
	return nil
}

func (w *Watcher) runCheck(ctx context.Context) {
	if _, err := w.Check(ctx); err != nil && ctx.Err() == nil {
		w.logger.Error("reminder check failed", "err", err)
	}
}

// cronLogger adapts a charmbracelet logger to cron.Logger.
type cronLogger struct {
	l *log.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Error(msg, append(keysAndValues, "err", err)...)
}
