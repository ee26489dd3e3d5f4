package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nibzard/tasker/internal/storage"
	"github.com/nibzard/tasker/internal/store"
	"github.com/nibzard/tasker/internal/task"
)

func templateCommand(a *app, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: tasker template add|ls|use|rm|export|import ...")
	}
	rest := args[1:]
	switch args[0] {
	case "add":
		return templateAddCommand(a, rest)
	case "ls":
		return templateListCommand(a, rest)
	case "use":
		return templateUseCommand(a, rest)
	case "rm":
		if err := exactArgs(rest, 1, "template rm <name>"); err != nil {
			return err
		}
		if err := a.store.DeleteTemplate(rest[0]); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Deleted template %q.\n", rest[0])
		return nil
	case "export":
		return templateExportCommand(a, rest)
	case "import":
		return templateImportCommand(a, rest)
	}
	return fmt.Errorf("unknown template command: %s", args[0])
}

// templateAddCommand creates a template from flags, or from an existing
// task with -from.
func templateAddCommand(a *app, args []string) error {
	fs := a.newFlagSet("template add")
	from := fs.Int("from", 0, "Capture an existing task as the template")
	desc := fs.String("desc", "", "Task description")
	priority := fs.Int("priority", a.cfg.DefaultPriority, "Priority 1-5")
	category := fs.String("category", a.cfg.DefaultCategory, "Category")
	notes := fs.String("notes", "", "Notes")
	tags := fs.String("tags", "", "Comma-separated tags")
	var subs listFlag
	fs.Var(&subs, "sub", "Subtask description (repeatable)")
	var rf ruleFlags
	rf.register(fs)

	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if err := exactArgs(positional, 1, "template add <name> [options]"); err != nil {
		return err
	}
	name := strings.TrimSpace(positional[0])

	var tpl task.Template
	if *from != 0 {
		t, ok := a.store.Task(*from).Get()
		if !ok {
			return a.notFound(*from)
		}
		tpl = task.TemplateFromTask(name, t)
	} else {
		rule, err := rf.build()
		if err != nil {
			return err
		}
		tagList, err := parseTags(*tags)
		if err != nil {
			return err
		}
		tpl = task.Template{
			Name:                name,
			Description:         task.SanitizeInput(*desc),
			Priority:            *priority,
			Category:            task.SanitizeInput(*category),
			Notes:               *notes,
			Tags:                tagList,
			Recurrence:          rule,
			SubtaskDescriptions: subs,
		}
		if tpl.Description == "" {
			tpl.Description = name
		}
	}
	if err := a.store.AddTemplate(tpl); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added template %q.\n", name)
	return nil
}

func templateListCommand(a *app, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	templates := a.store.Templates()
	if len(templates) == 0 {
		fmt.Fprintln(a.out, "No templates.")
		return nil
	}
	for _, tpl := range templates {
		fmt.Fprintf(a.out, "  %s  %s (P%d)", a.colors.id.Sprint(tpl.Name), tpl.Description, tpl.Priority)
		if tpl.Category != "" {
			fmt.Fprintf(a.out, "  @%s", tpl.Category)
		}
		if tpl.Recurrence.IsRecurring() {
			fmt.Fprintf(a.out, "  ↻ %s", tpl.Recurrence.Describe())
		}
		if n := len(tpl.SubtaskDescriptions); n > 0 {
			fmt.Fprintf(a.out, "  +%d subtasks", n)
		}
		fmt.Fprintln(a.out)
	}
	return nil
}

func templateUseCommand(a *app, args []string) error {
	fs := a.newFlagSet("template use")
	due := fs.String("due", "today", "Due date (YYYY-MM-DD, today, tomorrow)")
	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if err := exactArgs(positional, 1, "template use <name> [-due date]"); err != nil {
		return err
	}
	dueDate, err := a.resolveDate(*due)
	if err != nil {
		return err
	}
	id, err := a.store.CreateFromTemplate(positional[0], dueDate)
	if err != nil {
		return err
	}
	t := a.store.Task(id).MustGet()
	fmt.Fprintf(a.out, "Added task %s from template %q: %s (due %s)\n", a.colors.id.Sprintf("#%d", id), positional[0], t.Description, a.formatDue(&t))
	return nil
}

func templateExportCommand(a *app, args []string) error {
	fs := a.newFlagSet("template export")
	output := fs.String("o", "", "Output file (default: stdout)")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}
	w := a.out
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			return fmt.Errorf("create %s: %w", *output, err)
		}
		defer f.Close()
		w = f
	}
	templates := a.store.Templates()
	if err := storage.ExportTemplates(w, templates); err != nil {
		return err
	}
	if *output != "" {
		fmt.Fprintf(a.out, "Exported %d templates to %s\n", len(templates), *output)
	}
	return nil
}

// templateImportCommand adds templates from a TOML file. Existing names are
// skipped unless -replace is given.
func templateImportCommand(a *app, args []string) error {
	fs := a.newFlagSet("template import")
	replace := fs.Bool("replace", false, "Replace templates with the same name")
	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if err := exactArgs(positional, 1, "template import <file> [-replace]"); err != nil {
		return err
	}

	var r io.Reader = os.Stdin
	if positional[0] != "-" {
		f, err := os.Open(positional[0])
		if err != nil {
			return fmt.Errorf("open %s: %w", positional[0], err)
		}
		defer f.Close()
		r = f
	}
	templates, err := storage.ImportTemplates(r)
	if err != nil {
		return err
	}

	added, replaced, skipped := 0, 0, 0
	for _, tpl := range templates {
		err := a.store.AddTemplate(tpl)
		switch {
		case err == nil:
			added++
		case errors.Is(err, store.ErrDuplicateTemplate) && *replace:
			if err := a.store.UpdateTemplate(tpl); err != nil {
				return err
			}
			replaced++
		case errors.Is(err, store.ErrDuplicateTemplate):
			skipped++
		default:
			return fmt.Errorf("template %q: %w", tpl.Name, err)
		}
	}
	fmt.Fprintf(a.out, "Imported templates: %d added, %d replaced, %d skipped.\n", added, replaced, skipped)
	return nil
}
