package cmd

import (
	"fmt"
	"strings"

	"github.com/nibzard/tasker/internal/task"
)

func subCommand(a *app, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: tasker sub add|done|undo|edit|rm ...")
	}
	switch args[0] {
	case "add":
		return subAddCommand(a, args[1:])
	case "done":
		return setCompleted(a, args[1:], true)
	case "undo":
		return setCompleted(a, args[1:], false)
	case "edit":
		return editCommand(a, args[1:])
	case "rm":
		return rmCommand(a, args[1:])
	}
	return fmt.Errorf("unknown sub command: %s", args[0])
}

// subAddCommand adds a subtask. Unset due date, priority and category come
// from the parent.
func subAddCommand(a *app, args []string) error {
	fs := a.newFlagSet("sub add")
	due := fs.String("due", "", "Due date (default: parent's)")
	priority := fs.Int("priority", 0, "Priority 1-5 (default: parent's)")
	category := fs.String("category", "", "Category (default: parent's)")
	notes := fs.String("notes", "", "Notes")
	tags := fs.String("tags", "", "Comma-separated tags")

	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(positional) < 2 {
		return fmt.Errorf("usage: tasker sub add <parent-id> [options] <description>")
	}
	parentID, err := parseID(positional[0])
	if err != nil {
		return err
	}
	desc := task.SanitizeInput(strings.Join(positional[1:], " "))

	var dueDate string
	if *due != "" {
		if dueDate, err = a.resolveDate(*due); err != nil {
			return err
		}
	}
	tagList, err := parseTags(*tags)
	if err != nil {
		return err
	}

	sub := task.New(desc, dueDate, *priority, task.SanitizeInput(*category), a.now())
	sub.Notes = *notes
	sub.Tags = tagList
	id, err := a.store.AddSubtask(parentID, sub)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added subtask %s to #%d: %s\n", a.colors.id.Sprintf("#%d", id), parentID, desc)
	return nil
}
