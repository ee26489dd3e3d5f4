package export

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nibzard/tasker/internal/task"
)

const uncategorized = "uncategorized"

func writeMarkdown(w io.Writer, tasks []task.Task, opts Options) error {
	bw := bufio.NewWriter(w)
	title := cases.Title(language.English)

	fmt.Fprintf(bw, "# %s\n\n", opts.Title)
	fmt.Fprintf(bw, "Exported %s. %d tasks.\n", opts.Now.Format("2006-01-02 15:04"), len(tasks))

	byCategory := make(map[string][]*task.Task)
	for i := range tasks {
		cat := strings.TrimSpace(tasks[i].Category)
		if cat == "" {
			cat = uncategorized
		}
		key := strings.ToLower(cat)
		byCategory[key] = append(byCategory[key], &tasks[i])
	}
	categories := make([]string, 0, len(byCategory))
	for cat := range byCategory {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	for _, cat := range categories {
		fmt.Fprintf(bw, "\n## %s\n\n", title.String(cat))
		for _, t := range byCategory[cat] {
			writeMarkdownTask(bw, t, "")
			if len(t.Tags) > 0 {
				fmt.Fprintf(bw, "  - Tags: %s\n", codeList(t.Tags))
			}
			if t.Recurrence.IsRecurring() {
				fmt.Fprintf(bw, "  - Repeats: %s\n", t.Recurrence.Describe())
			}
			if t.ProjectGroup != "" {
				fmt.Fprintf(bw, "  - Group: %s\n", t.ProjectGroup)
			}
			if t.Notes != "" {
				fmt.Fprintf(bw, "  - Notes: %s\n", oneLine(t.Notes))
			}
			for i := range t.Subtasks {
				writeMarkdownTask(bw, &t.Subtasks[i], "  ")
			}
		}
	}
	return bw.Flush()
}

func writeMarkdownTask(w io.Writer, t *task.Task, indent string) {
	box := " "
	if t.Completed {
		box = "x"
	}
	fmt.Fprintf(w, "%s- [%s] #%d %s (due %s, priority %d)\n", indent, box, t.ID, t.Description, t.DueDate, t.Priority)
}

func codeList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = "`" + s + "`"
	}
	return strings.Join(quoted, ", ")
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
