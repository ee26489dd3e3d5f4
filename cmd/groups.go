package cmd

import (
	"fmt"

	"github.com/nibzard/tasker/internal/store"
)

func groupCommand(a *app, args []string) error {
	if len(args) == 0 {
		return groupListCommand(a)
	}
	rest := args[1:]
	switch args[0] {
	case "ls":
		return groupListCommand(a)
	case "add":
		if err := exactArgs(rest, 1, "group add <name>"); err != nil {
			return err
		}
		if err := a.store.AddGroup(rest[0]); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Added group %q.\n", rest[0])
	case "assign":
		if err := exactArgs(rest, 2, "group assign <task-id> <group>"); err != nil {
			return err
		}
		id, err := parseID(rest[0])
		if err != nil {
			return err
		}
		if err := a.store.AssignGroup(id, rest[1]); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Task #%d is now in group %q.\n", id, rest[1])
	case "unassign":
		if err := exactArgs(rest, 1, "group unassign <task-id>"); err != nil {
			return err
		}
		id, err := parseID(rest[0])
		if err != nil {
			return err
		}
		if err := a.store.RemoveFromGroup(id); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Task #%d removed from its group.\n", id)
	case "rename":
		if err := exactArgs(rest, 2, "group rename <old> <new>"); err != nil {
			return err
		}
		if err := a.store.RenameGroup(rest[0], rest[1]); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Renamed group %q to %q.\n", rest[0], rest[1])
	case "rm":
		if err := exactArgs(rest, 1, "group rm <name>"); err != nil {
			return err
		}
		if err := a.store.DeleteGroup(rest[0]); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Deleted group %q.\n", rest[0])
	default:
		return fmt.Errorf("unknown group command: %s", args[0])
	}
	return nil
}

func groupListCommand(a *app) error {
	groups := a.store.Groups()
	if len(groups) == 0 {
		fmt.Fprintln(a.out, "No project groups.")
		return nil
	}
	for _, g := range groups {
		members := a.store.Filter(store.Query{Group: g})
		done := 0
		for _, t := range members {
			if t.Completed {
				done++
			}
		}
		fmt.Fprintf(a.out, "  %s  %d tasks, %d done\n", a.colors.heading.Sprint(g), len(members), done)
	}
	return nil
}
