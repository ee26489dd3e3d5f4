package cmd

import (
	"fmt"
	"strings"

	"github.com/nibzard/tasker/internal/dates"
	"github.com/nibzard/tasker/internal/recurrence"
	"github.com/nibzard/tasker/internal/store"
	"github.com/nibzard/tasker/internal/task"
)

// resolveDate accepts YYYY-MM-DD plus "today" and "tomorrow".
func (a *app) resolveDate(s string) (string, error) {
	today := a.store.Today()
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return today.String(), nil
	case "tomorrow":
		return dates.AddDays(today, 1).String(), nil
	}
	if err := task.ValidateDate(s); err != nil {
		return "", err
	}
	return s, nil
}

func addCommand(a *app, args []string) error {
	fs := a.newFlagSet("add")
	due := fs.String("due", "today", "Due date (YYYY-MM-DD, today, tomorrow)")
	priority := fs.Int("priority", a.cfg.DefaultPriority, "Priority 1-5")
	category := fs.String("category", a.cfg.DefaultCategory, "Category")
	notes := fs.String("notes", "", "Notes")
	tags := fs.String("tags", "", "Comma-separated tags")
	group := fs.String("group", "", "Project group")
	var subs listFlag
	fs.Var(&subs, "sub", "Subtask description (repeatable)")
	var rf ruleFlags
	rf.register(fs)

	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	desc := task.SanitizeInput(strings.Join(positional, " "))
	if desc == "" {
		return fmt.Errorf("usage: tasker add [options] <description>")
	}
	dueDate, err := a.resolveDate(*due)
	if err != nil {
		return err
	}
	rule, err := rf.build()
	if err != nil {
		return err
	}
	tagList, err := parseTags(*tags)
	if err != nil {
		return err
	}

	t := task.New(desc, dueDate, *priority, task.SanitizeInput(*category), a.now())
	t.Notes = *notes
	t.ProjectGroup = strings.TrimSpace(*group)
	t.Tags = tagList
	t.Recurrence = rule
	for _, s := range subs {
		t.Subtasks = append(t.Subtasks, task.New(task.SanitizeInput(s), dueDate, *priority, t.Category, a.now()))
	}

	id, err := a.store.AddTask(t)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added task %s: %s (due %s)\n", a.colors.id.Sprintf("#%d", id), desc, a.cfg.FormatDate(dueDate))
	if rule.IsRecurring() {
		fmt.Fprintf(a.out, "  Repeats %s\n", rule.Describe())
	}
	return nil
}

func editCommand(a *app, args []string) error {
	fs := a.newFlagSet("edit")
	desc := fs.String("desc", "", "New description")
	due := fs.String("due", "", "New due date")
	priority := fs.Int("priority", 0, "New priority 1-5")
	category := fs.String("category", "", "New category")
	notes := fs.String("notes", "", "New notes")
	tags := fs.String("tags", "", "Replace tags (comma-separated)")
	addTag := fs.String("add-tag", "", "Add a tag")
	rmTag := fs.String("rm-tag", "", "Remove a tag")
	group := fs.String("group", "", "Project group")
	var rf ruleFlags
	rf.register(fs)

	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if err := exactArgs(positional, 1, "edit <id> [options]"); err != nil {
		return err
	}
	id, err := parseID(positional[0])
	if err != nil {
		return err
	}
	set := visited(fs)
	if len(set) == 0 {
		return fmt.Errorf("nothing to change")
	}

	var dueDate string
	if set["due"] {
		if dueDate, err = a.resolveDate(*due); err != nil {
			return err
		}
	}
	var tagList []string
	if set["tags"] {
		if tagList, err = parseTags(*tags); err != nil {
			return err
		}
	}
	if set["add-tag"] && !task.IsValidTag(*addTag) {
		return fmt.Errorf("invalid tag %q: %w", *addTag, task.ErrInvalidTag)
	}
	var rule recurrence.Rule
	if rf.changed(set) {
		if rule, err = rf.build(); err != nil {
			return err
		}
	}

	edit := func(t *task.Task) {
		if set["desc"] {
			t.Description = task.SanitizeInput(*desc)
		}
		if set["due"] {
			t.DueDate = dueDate
		}
		if set["priority"] {
			t.Priority = *priority
		}
		if set["category"] {
			t.Category = task.SanitizeInput(*category)
		}
		if set["notes"] {
			t.Notes = *notes
		}
		if set["tags"] {
			t.Tags = tagList
		}
		if set["add-tag"] {
			t.AddTag(*addTag)
		}
		if set["rm-tag"] {
			t.RemoveTag(*rmTag)
		}
		if set["group"] {
			t.ProjectGroup = strings.TrimSpace(*group)
		}
		if rf.changed(set) {
			t.Recurrence = rule
		}
	}

	if a.store.Task(id).IsPresent() {
		if err := a.store.EditTask(id, edit); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Updated task %s.\n", a.colors.id.Sprintf("#%d", id))
		return nil
	}
	parentID, ok := a.store.FindParent(id)
	if !ok {
		return a.notFound(id)
	}
	if rf.changed(set) || set["group"] {
		return fmt.Errorf("subtasks cannot have a recurrence or project group")
	}
	if err := a.store.EditSubtask(parentID, id, edit); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Updated subtask %s of #%d.\n", a.colors.id.Sprintf("#%d", id), parentID)
	return nil
}

func doneCommand(a *app, args []string) error {
	return setCompleted(a, args, true)
}

func undoCommand(a *app, args []string) error {
	return setCompleted(a, args, false)
}

// setCompleted marks every id in args. Completing a recurring top-level
// task reports the spawned occurrence.
func setCompleted(a *app, args []string, completed bool) error {
	ids, err := parseIDs(args)
	if err != nil {
		return err
	}
	verb := "Completed"
	if !completed {
		verb = "Reopened"
	}
	for _, id := range ids {
		if a.store.Task(id).IsPresent() {
			spawned, err := a.store.MarkComplete(id, completed)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s task %s.\n", verb, a.colors.id.Sprintf("#%d", id))
			if next, ok := spawned.Get(); ok {
				fmt.Fprintf(a.out, "  Next occurrence %s due %s\n", a.colors.id.Sprintf("#%d", next.ID), a.cfg.FormatDate(next.DueDate))
			}
			continue
		}
		parentID, ok := a.store.FindParent(id)
		if !ok {
			return a.notFound(id)
		}
		if err := a.store.MarkSubtaskComplete(parentID, id, completed); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%s subtask %s of #%d.\n", verb, a.colors.id.Sprintf("#%d", id), parentID)
	}
	return nil
}

func rmCommand(a *app, args []string) error {
	ids, err := parseIDs(args)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if a.store.Task(id).IsPresent() {
			if err := a.store.DeleteTask(id); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Deleted task #%d.\n", id)
			continue
		}
		parentID, ok := a.store.FindParent(id)
		if !ok {
			return a.notFound(id)
		}
		if err := a.store.DeleteSubtask(parentID, id); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Deleted subtask #%d of #%d.\n", id, parentID)
	}
	return nil
}

func showCommand(a *app, args []string) error {
	if err := exactArgs(args, 1, "show <id>"); err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	t, ok := a.store.Task(id).Get()
	if !ok {
		parentID, found := a.store.FindParent(id)
		if !found {
			return a.notFound(id)
		}
		parent := a.store.Task(parentID).MustGet()
		sub := parent.Subtask(id)
		a.printDetails(sub)
		fmt.Fprintf(a.out, "Parent:      #%d %s\n", parent.ID, parent.Description)
		return nil
	}
	a.printDetails(&t)
	if t.Recurrence.IsRecurring() {
		if due, ok := t.Due(); ok {
			var upcoming []string
			for _, d := range recurrence.Occurrences(t.Recurrence, due, 3) {
				upcoming = append(upcoming, a.cfg.FormatDate(d.String()))
			}
			fmt.Fprintf(a.out, "Upcoming:    %s\n", strings.Join(upcoming, ", "))
		}
	}
	if len(t.Subtasks) > 0 {
		fmt.Fprintf(a.out, "Subtasks:    %d/%d done\n", t.CompletedSubtasks(), len(t.Subtasks))
		for i := range t.Subtasks {
			a.printTask(a.out, &t.Subtasks[i], "  ", false)
		}
	}
	return nil
}

func (a *app) printDetails(t *task.Task) {
	today := a.store.Today()
	status := "pending"
	if t.Completed {
		status = "completed"
	} else if t.IsOverdue(today) {
		status = a.colors.overdue.Sprint("overdue")
	}
	fmt.Fprintf(a.out, "%s %s\n", a.colors.id.Sprintf("#%d", t.ID), a.colors.heading.Sprint(t.Description))
	fmt.Fprintf(a.out, "Status:      %s\n", status)
	fmt.Fprintf(a.out, "Due:         %s (%s)\n", a.formatDue(t), dueLabel(t.DueDate, today))
	fmt.Fprintf(a.out, "Priority:    %d\n", t.Priority)
	if t.Category != "" {
		fmt.Fprintf(a.out, "Category:    %s\n", t.Category)
	}
	if len(t.Tags) > 0 {
		fmt.Fprintf(a.out, "Tags:        %s\n", strings.Join(t.Tags, ", "))
	}
	if t.ProjectGroup != "" {
		fmt.Fprintf(a.out, "Group:       %s\n", t.ProjectGroup)
	}
	if t.Recurrence.IsRecurring() {
		fmt.Fprintf(a.out, "Repeats:     %s\n", t.Recurrence.Describe())
	}
	if t.Notes != "" {
		fmt.Fprintf(a.out, "Notes:       %s\n", t.Notes)
	}
	fmt.Fprintf(a.out, "Created:     %s\n", a.cfg.FormatDate(t.CreatedDate))
	for _, r := range a.store.RemindersFor(t.ID) {
		state := relTime(r.Time, a.now())
		if r.Shown {
			state = "shown"
		}
		fmt.Fprintf(a.out, "Reminder:    %s %q (%s)\n", r.Time.Format("2006-01-02 15:04"), r.Message, state)
	}
}

func (a *app) notFound(id int) error {
	return fmt.Errorf("task #%d: %w", id, store.ErrNotFound)
}
