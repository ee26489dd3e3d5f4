package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nibzard/tasker/internal/store"
	"github.com/nibzard/tasker/internal/task"
)

func lsCommand(a *app, args []string) error {
	fs := a.newFlagSet("ls")
	category := fs.String("category", "", "Filter by category")
	statusFilter := fs.String("status", "", "Filter by status (pending|completed|overdue)")
	due := fs.String("due", "", "Filter by due date (YYYY-MM-DD, today, tomorrow)")
	tag := fs.String("tag", "", "Filter by tag")
	group := fs.String("group", "", "Filter by project group")
	sortBy := fs.String("sort", "", "Sort by priority|due|category")
	verbose := fs.Bool("v", false, "Show more details")

	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(positional) > 1 {
		return fmt.Errorf("unexpected arguments: %v", positional[1:])
	}
	if len(positional) == 1 && *statusFilter == "" {
		*statusFilter = positional[0]
	}

	status, ok := task.ParseStatus(*statusFilter)
	if !ok {
		return fmt.Errorf("unknown status %q (expected pending|completed|overdue)", *statusFilter)
	}
	key, err := store.ParseSortKey(*sortBy)
	if err != nil {
		return err
	}
	q := store.Query{
		Category: *category,
		Status:   status,
		Tag:      *tag,
		Group:    *group,
	}
	if *due != "" {
		if q.DueDate, err = a.resolveDate(*due); err != nil {
			return err
		}
	}

	tasks := a.store.Filter(q)
	store.Sort(tasks, key)
	a.printTaskList(tasks, *verbose)
	if len(tasks) > 0 {
		pending := 0
		for _, t := range tasks {
			if !t.Completed {
				pending++
			}
		}
		fmt.Fprintln(a.out, a.colors.dim.Sprintf("\n%d tasks, %d pending", len(tasks), pending))
	}
	return nil
}

func searchCommand(a *app, args []string) error {
	fs := a.newFlagSet("search")
	sortBy := fs.String("sort", "", "Sort by priority|due|category")
	verbose := fs.Bool("v", false, "Show more details")
	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	term := strings.TrimSpace(strings.Join(positional, " "))
	if term == "" {
		return fmt.Errorf("usage: tasker search <term>")
	}
	key, err := store.ParseSortKey(*sortBy)
	if err != nil {
		return err
	}
	tasks := a.store.Search(term)
	store.Sort(tasks, key)
	a.printTaskList(tasks, *verbose)
	return nil
}

func statsCommand(a *app, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	st := a.store.Stats()
	now := a.now()

	fmt.Fprintln(a.out, a.colors.heading.Sprintf("Statistics for %s", a.cfg.Username))
	fmt.Fprintln(a.out)
	fmt.Fprintf(a.out, "  Total:       %d\n", st.Total)
	fmt.Fprintf(a.out, "  Completed:   %d (%.0f%%)\n", st.Completed, st.CompletionRate()*100)
	fmt.Fprintf(a.out, "  Pending:     %d\n", st.Pending)
	fmt.Fprintf(a.out, "  Overdue:     %s\n", a.colors.overdue.Sprint(st.Overdue))
	fmt.Fprintf(a.out, "  Due today:   %d\n", st.DueToday)
	fmt.Fprintf(a.out, "  Recurring:   %d\n", st.Recurring)
	fmt.Fprintf(a.out, "  Subtasks:    %d/%d done\n", st.CompletedSubtasks, st.Subtasks)

	if len(st.ByCategory) > 0 {
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, "  By category:")
		names := make([]string, 0, len(st.ByCategory))
		for name := range st.ByCategory {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			label := name
			if label == "" {
				label = "(none)"
			}
			fmt.Fprintf(a.out, "    %-16s %d\n", label, st.ByCategory[name])
		}
	}

	fmt.Fprintln(a.out)
	if a.cfg.IsWorkingHours(now) {
		fmt.Fprintf(a.out, "  Within working hours (%02d:00-%02d:00).\n", a.cfg.WorkdayStart, a.cfg.WorkdayEnd)
	} else {
		fmt.Fprintln(a.out, "  Outside working hours.")
	}
	return nil
}
