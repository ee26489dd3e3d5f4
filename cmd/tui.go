package cmd

import (
	"context"
	"errors"

	"github.com/nibzard/tasker/internal/reminders"
	"github.com/nibzard/tasker/internal/ui"
)

// tuiCommand launches the terminal UI with the reminder watcher running
// alongside it. Reminders are shown as notices in the UI.
func tuiCommand(a *app, args []string) error {
	fs := a.newFlagSet("tui")
	noReminders := fs.Bool("no-reminders", false, "Do not check reminders while the UI runs")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}
	if !ui.IsTTY(a.out) {
		return errors.New("tui requires a TTY")
	}

	opts := []ui.TUIOption{ui.WithSave(a.save)}
	if !*noReminders {
		ch := make(chan reminders.Notification, 16)
		notifier := reminders.NotifierFunc(func(ctx context.Context, n reminders.Notification) error {
			select {
			case ch <- n:
			case <-ctx.Done():
			default:
				a.logger.Warn("reminder dropped, UI is busy", "task", n.Reminder.TaskID)
			}
			return nil
		})
		w, err := a.newWatcher(notifier, a.cfg.ReminderSchedule, false)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithCancel(a.ctx)
		defer cancel()
		if err := w.Start(ctx); err != nil {
			return err
		}
		defer w.Stop()
		opts = append(opts, ui.WithNotifications(ch))
	}
	return ui.RunTUI(a.ctx, a.out, a.store, opts...)
}
