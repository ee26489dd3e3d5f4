package reminders

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nibzard/tasker/internal/store"
	"github.com/nibzard/tasker/internal/task"
)

var watchNow = time.Date(2024, time.March, 10, 9, 0, 0, 0, time.Local)

func clock() time.Time { return watchNow }

type recorder struct {
	mu   sync.Mutex
	seen []Notification
	err  error
}

func (r *recorder) Notify(_ context.Context, n Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, n)
	return r.err
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.seen)
}

func seededStore(t *testing.T) *store.Store {
	t.Helper()
	s := store.New(store.WithClock(clock))
	id, err := s.AddTask(task.New("Pay rent", "2024-03-10", 4, "home", watchNow))
	require.NoError(t, err)
	require.NoError(t, s.AddReminder(task.Reminder{TaskID: id, Message: "rent", Time: watchNow.Add(-time.Minute)}))
	require.NoError(t, s.AddReminder(task.Reminder{TaskID: id, Message: "later", Time: watchNow.Add(time.Hour)}))
	s.MarkSaved()
	return s
}

func TestNewWatcherRejectsBadSchedule(t *testing.T) {
	_, err := NewWatcher(store.New(), &recorder{}, WithSchedule("every now and then"))
	assert.Error(t, err)

	w, err := NewWatcher(store.New(), &recorder{})
	require.NoError(t, err)
	assert.Equal(t, DefaultSchedule, w.Schedule())
}

func TestCheckFiresDueRemindersOnce(t *testing.T) {
	s := seededStore(t)
	rec := &recorder{}
	var saved []task.Reminder
	w, err := NewWatcher(s, rec, WithClock(clock), WithAfterCheck(func(fired []task.Reminder) error {
		saved = fired
		return nil
	}))
	require.NoError(t, err)

	n, err := w.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, rec.seen, 1)
	assert.Equal(t, "rent", rec.seen[0].Reminder.Message)
	assert.Equal(t, "Pay rent", rec.seen[0].Task.MustGet().Description)
	assert.Len(t, saved, 1)
	assert.True(t, s.Modified())

	n, err = w.Check(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Len(t, rec.seen, 1)
}

func TestCheckContinuesAfterNotifyError(t *testing.T) {
	s := seededStore(t)
	rec := &recorder{err: errors.New("no display")}
	w, err := NewWatcher(s, rec, WithClock(func() time.Time { return watchNow.Add(2 * time.Hour) }))
	require.NoError(t, err)

	n, err := w.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, rec.seen, 2)
}

func TestCheckReportsAfterHookError(t *testing.T) {
	w, err := NewWatcher(seededStore(t), &recorder{}, WithClock(clock),
		WithAfterCheck(func([]task.Reminder) error { return errors.New("disk full") }))
	require.NoError(t, err)

	n, err := w.Check(context.Background())
	assert.Equal(t, 1, n)
	assert.ErrorContains(t, err, "disk full")
}

func TestCheckDeliversAllWhenCancelled(t *testing.T) {
	s := seededStore(t)
	rec := &recorder{}
	ctx, cancel := context.WithCancel(context.Background())
	first := true
	notifier := NotifierFunc(func(ctx context.Context, n Notification) error {
		if first {
			first = false
			cancel()
		}
		return rec.Notify(ctx, n)
	})
	hookRan := false
	w, err := NewWatcher(s, notifier,
		WithClock(func() time.Time { return watchNow.Add(2 * time.Hour) }),
		WithAfterCheck(func([]task.Reminder) error { hookRan = true; return nil }))
	require.NoError(t, err)

	n, err := w.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, rec.count(), "reminders marked shown must all be delivered")
	assert.True(t, hookRan, "fired reminders are still persisted")
}

func TestStartChecksImmediatelyAndStops(t *testing.T) {
	rec := &recorder{}
	w, err := NewWatcher(seededStore(t), rec, WithClock(clock), WithSchedule("@every 1h"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	assert.Error(t, w.Start(ctx), "second start")
	assert.Equal(t, 1, rec.count())

	w.Stop()
	w.Stop()
}

func TestRunReturnsOnCancel(t *testing.T) {
	rec := &recorder{}
	w, err := NewWatcher(seededStore(t), rec, WithClock(clock), WithSchedule("@every 1h"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for rec.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Equal(t, 1, rec.count())
}

func TestWriterNotifier(t *testing.T) {
	var buf bytes.Buffer
	p := NewWriterNotifier(&buf, clock)
	tk := task.New("Pay rent", "2024-03-10", 4, "home", watchNow)
	tk.ID = 3

	require.NoError(t, p.Notify(context.Background(), Notification{
		Reminder: task.Reminder{TaskID: 3, Message: "rent", Time: watchNow.Add(-5 * time.Minute)},
		Task:     mo.Some(tk),
	}))
	assert.Equal(t, "🔔 rent (task #3: Pay rent, set for 5 minutes ago)\n", buf.String())

	got := Format(Notification{
		Reminder: task.Reminder{TaskID: 9, Message: "sub", Time: watchNow},
		Task:     mo.None[task.Task](),
	}, watchNow)
	assert.Equal(t, "🔔 sub (task #9, set for now)", got)
}
