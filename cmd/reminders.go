package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nibzard/tasker/internal/config"
	"github.com/nibzard/tasker/internal/dates"
	"github.com/nibzard/tasker/internal/reminders"
	"github.com/nibzard/tasker/internal/task"
)

func remindCommand(a *app, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: tasker remind add|ls|rm|check ...")
	}
	rest := args[1:]
	switch args[0] {
	case "add":
		return remindAddCommand(a, rest)
	case "ls":
		return remindListCommand(a, rest)
	case "rm":
		return remindRemoveCommand(a, rest)
	case "check":
		return remindCheckCommand(a, rest)
	}
	return fmt.Errorf("unknown remind command: %s", args[0])
}

// describeID returns the description of a task or subtask.
func (a *app) describeID(id int) (string, bool) {
	if t, ok := a.store.Task(id).Get(); ok {
		return t.Description, true
	}
	sub, ok := a.subtask(id)
	if !ok {
		return "", false
	}
	return sub.Description, true
}

// subtask looks up a subtask by id through its parent.
func (a *app) subtask(id int) (task.Task, bool) {
	parentID, ok := a.store.FindParent(id)
	if !ok {
		return task.Task{}, false
	}
	parent, ok := a.store.Task(parentID).Get()
	if !ok {
		return task.Task{}, false
	}
	if sub := parent.Subtask(id); sub != nil {
		return *sub, true
	}
	return task.Task{}, false
}

// dueDateOf returns the due date of a task or subtask.
func (a *app) dueDateOf(id int) (dates.Date, bool) {
	if t, ok := a.store.Task(id).Get(); ok {
		return t.Due()
	}
	if sub, ok := a.subtask(id); ok {
		return sub.Due()
	}
	return dates.Date{}, false
}

// remindAddCommand attaches a reminder. Without -at it fires at the start
// of the workday on the task's due date.
func remindAddCommand(a *app, args []string) error {
	fs := a.newFlagSet("remind add")
	at := fs.String("at", "", "Reminder time (YYYY-MM-DD HH:MM); default: workday start on the due date")
	message := fs.String("m", "", "Message (default: task description)")
	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(positional) < 1 {
		return fmt.Errorf("usage: tasker remind add <task-id> [-at \"YYYY-MM-DD HH:MM\"] [-m message]")
	}
	id, err := parseID(positional[0])
	if err != nil {
		return err
	}
	desc, ok := a.describeID(id)
	if !ok {
		return a.notFound(id)
	}
	if *message == "" && len(positional) > 1 {
		*message = strings.Join(positional[1:], " ")
	}
	if *message == "" {
		*message = desc
	}

	var when time.Time
	if *at != "" {
		if when, err = dates.ParseDateTime(*at, time.Local); err != nil {
			return fmt.Errorf("reminder time: %w", err)
		}
	} else {
		due, ok := a.dueDateOf(id)
		if !ok {
			return fmt.Errorf("task #%d has no valid due date, use -at", id)
		}
		when = a.cfg.WorkdayStartOn(due, time.Local)
	}

	if err := a.store.AddReminder(task.Reminder{TaskID: id, Message: task.SanitizeInput(*message), Time: when}); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Reminder set for #%d at %s (%s).\n", id, dates.FormatDateTime(when), relTime(when, a.now()))
	return nil
}

func remindListCommand(a *app, args []string) error {
	fs := a.newFlagSet("remind ls")
	all := fs.Bool("a", false, "Include reminders already shown")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}
	list := a.store.Reminders()
	now := a.now()
	shown := 0
	for i, r := range list {
		if r.Shown && !*all {
			continue
		}
		shown++
		state := relTime(r.Time, now)
		if r.Shown {
			state = "shown"
		}
		line := fmt.Sprintf("  %d. %s  #%d  %s  (%s)", i, dates.FormatDateTime(r.Time), r.TaskID, r.Message, state)
		if r.Shown {
			line = a.colors.dim.Sprint(line)
		}
		fmt.Fprintln(a.out, line)
	}
	if shown == 0 {
		fmt.Fprintln(a.out, "No reminders.")
	}
	return nil
}

func remindRemoveCommand(a *app, args []string) error {
	if err := exactArgs(args, 1, "remind rm <index>"); err != nil {
		return err
	}
	index, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid reminder index %q", args[0])
	}
	if err := a.store.DeleteReminder(index); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted reminder %d.\n", index)
	return nil
}

// remindCheckCommand delivers the reminders that are due now, once.
func remindCheckCommand(a *app, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	w, err := reminders.NewWatcher(a.store, reminders.NewWriterNotifier(a.out, a.now),
		reminders.WithLogger(a.logger),
		reminders.WithClock(a.now),
	)
	if err != nil {
		return err
	}
	n, err := w.Check(a.ctx)
	if err != nil {
		return err
	}
	if n == 0 {
		fmt.Fprintln(a.out, "No reminders due.")
	}
	return nil
}

// workingHoursSource holds reminders back outside the configured working
// hours.
type workingHoursSource struct {
	reminders.Source
	cfg *config.Config
}

func (w workingHoursSource) CheckReminders(now time.Time) []task.Reminder {
	if !w.cfg.IsWorkingHours(now) {
		return nil
	}
	return w.Source.CheckReminders(now)
}

// newWatcher builds the reminder watcher used by watch and tui. Fired
// reminders are saved immediately so they are not shown twice.
func (a *app) newWatcher(notifier reminders.Notifier, schedule string, workingHoursOnly bool) (*reminders.Watcher, error) {
	var src reminders.Source = a.store
	if workingHoursOnly {
		src = workingHoursSource{Source: a.store, cfg: a.cfg}
	}
	return reminders.NewWatcher(src, notifier,
		reminders.WithLogger(a.logger),
		reminders.WithClock(a.now),
		reminders.WithSchedule(schedule),
		reminders.WithAfterCheck(func([]task.Reminder) error { return a.save() }),
	)
}

func watchCommand(a *app, args []string) error {
	fs := a.newFlagSet("watch")
	schedule := fs.String("schedule", a.cfg.ReminderSchedule, "Cron spec for reminder checks")
	workingHours := fs.Bool("working-hours", false, "Only deliver reminders during working hours")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}
	w, err := a.newWatcher(reminders.NewWriterNotifier(a.out, a.now), *schedule, *workingHours)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Watching reminders (%s). Press Ctrl+C to stop.\n", w.Schedule())
	return w.Run(a.ctx)
}
