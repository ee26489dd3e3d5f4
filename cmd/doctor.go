package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nibzard/tasker/internal/reminders"
	"github.com/nibzard/tasker/internal/storage"
)

// doctorCommand checks config, the task file and the tasker directories.
func doctorCommand(a *app, args []string) error {
	fs := a.newFlagSet("doctor")
	verbose := fs.Bool("v", false, "Show task details")
	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	dataPath := a.cfg.DataFile
	if len(positional) > 0 {
		dataPath = positional[0]
	}

	w := a.out
	allOK := true

	fmt.Fprintln(w, "Config:")
	if len(a.sources.Files) == 0 {
		fmt.Fprintln(w, "  ⚠️  No config file (using defaults)")
	}
	for _, f := range a.sources.Files {
		fmt.Fprintf(w, "  ✅ %s\n", f)
	}
	if err := a.cfg.Validate(); err != nil {
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		allOK = false
	} else {
		fmt.Fprintln(w, "  ✅ OK")
	}
	if err := reminders.ValidateSchedule(a.cfg.ReminderSchedule); err != nil {
		fmt.Fprintf(w, "  ❌ Reminder schedule: %v\n", err)
		allOK = false
	} else {
		fmt.Fprintf(w, "  ✅ Reminder schedule: %s\n", a.cfg.ReminderSchedule)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Task file: %s\n", dataPath)
	info, err := os.Stat(dataPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		fmt.Fprintln(w, "  ⚠️  Not found (will be created on first save)")
	case err != nil:
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		allOK = false
	case info.IsDir():
		fmt.Fprintln(w, "  ❌ Error: path is a directory")
		allOK = false
	default:
		if !checkTaskFile(a, dataPath, *verbose) {
			allOK = false
		}
	}
	fmt.Fprintln(w)

	if !checkDir(a, "Backup directory", a.cfg.BackupDir) {
		allOK = false
	}
	if !checkDir(a, "Log directory", filepath.Dir(a.cfg.LogFile)) {
		allOK = false
	}

	if allOK {
		fmt.Fprintln(w, "✅ All checks passed!")
		return nil
	}
	fmt.Fprintln(w, "⚠️  Some checks failed. Tasker may not function correctly.")
	return fmt.Errorf("doctor checks failed")
}

func checkTaskFile(a *app, path string, verbose bool) bool {
	w := a.out
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		return false
	}
	fmt.Fprintln(w, "  ✅ OK")

	result := storage.Validate(data)
	for _, warning := range result.Warnings {
		fmt.Fprintf(w, "  ⚠️  %s\n", warning)
	}
	if !result.Valid {
		fmt.Fprintln(w, "  ❌ Validation failed:")
		for _, e := range result.Errors {
			fmt.Fprintf(w, "     - %v\n", e)
		}
		return false
	}
	fmt.Fprintln(w, "  ✅ Valid")

	if verbose {
		doc, err := storage.ReadDocument(path)
		if err != nil {
			fmt.Fprintf(w, "  ❌ Load error: %v\n", err)
			return false
		}
		fmt.Fprintf(w, "  Tasks: %d, templates: %d, reminders: %d\n", len(doc.Tasks), len(doc.Templates), len(doc.Reminders))
		for _, t := range doc.Tasks {
			mark := " "
			if t.Completed {
				mark = "x"
			}
			fmt.Fprintf(w, "    - [%s] #%d: %s\n", mark, t.ID, t.Description)
		}
	}
	return true
}

func checkDir(a *app, label, dir string) bool {
	w := a.out
	fmt.Fprintf(w, "%s: %s\n", label, dir)
	defer fmt.Fprintln(w)
	info, err := os.Stat(dir)
	switch {
	case errors.Is(err, os.ErrNotExist):
		fmt.Fprintln(w, "  ⚠️  Not found (will be created when needed)")
	case err != nil:
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		return false
	case !info.IsDir():
		fmt.Fprintln(w, "  ❌ Error: path is not a directory")
		return false
	default:
		fmt.Fprintln(w, "  ✅ OK")
	}
	return true
}
