package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nibzard/tasker/internal/export"
	"github.com/nibzard/tasker/internal/store"
	"github.com/nibzard/tasker/internal/task"
)

// exportCommand writes tasks in one of the export formats. Without -format
// the format follows the -o extension, falling back to Markdown.
func exportCommand(a *app, args []string) error {
	fs := a.newFlagSet("export")
	format := fs.String("format", "", "Format: md|csv|ics|html")
	output := fs.String("o", "", "Output file (default: stdout)")
	title := fs.String("title", "", "Document title (Markdown and HTML)")
	statusFilter := fs.String("status", "", "Only export tasks with this status")
	group := fs.String("group", "", "Only export tasks in this project group")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}

	f := export.Markdown
	switch {
	case *format != "":
		parsed, err := export.ParseFormat(*format)
		if err != nil {
			return err
		}
		f = parsed
	case *output != "":
		ext := strings.TrimPrefix(filepath.Ext(*output), ".")
		if parsed, err := export.ParseFormat(ext); err == nil {
			f = parsed
		}
	}
	status, ok := task.ParseStatus(*statusFilter)
	if !ok {
		return fmt.Errorf("unknown status %q", *statusFilter)
	}

	tasks := a.store.Filter(store.Query{Status: status, Group: *group})
	opts := export.Options{
		StoreID: a.repo.StoreID(),
		Today:   a.store.Today(),
		Now:     a.now(),
		Title:   *title,
	}

	if *output == "" {
		return export.Write(a.out, f, tasks, opts)
	}
	file, err := os.Create(*output)
	if err != nil {
		return fmt.Errorf("create %s: %w", *output, err)
	}
	if err := export.Write(file, f, tasks, opts); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("write %s: %w", *output, err)
	}
	a.logger.Info("tasks exported", "format", f, "path", *output, "tasks", len(tasks))
	fmt.Fprintf(a.out, "Exported %d tasks to %s (%s).\n", len(tasks), *output, f)
	return nil
}
