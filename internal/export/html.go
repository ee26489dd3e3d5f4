package export

import (
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/nibzard/tasker/internal/task"
)

type htmlRow struct {
	ID          int
	Description string
	DueDate     string
	Priority    int
	Category    string
	Tags        string
	Repeats     string
	Status      string
	Class       string
}

type htmlPage struct {
	Title    string
	Exported string
	Rows     []htmlRow
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; width: 100%; }
th, td { border-bottom: 1px solid #ddd; padding: 6px 10px; text-align: left; }
th { background: #f4f4f4; }
tr.completed td { color: #888; text-decoration: line-through; }
tr.overdue td { background: #fdecea; }
tr.subtask td.description { padding-left: 2.5em; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p>Exported {{.Exported}}</p>
<table>
<thead>
<tr><th>ID</th><th>Status</th><th>Description</th><th>Due</th><th>Priority</th><th>Category</th><th>Tags</th><th>Repeats</th></tr>
</thead>
<tbody>
{{- range .Rows}}
<tr class="{{.Class}}"><td>{{.ID}}</td><td>{{.Status}}</td><td class="description">{{.Description}}</td><td>{{.DueDate}}</td><td>{{.Priority}}</td><td>{{.Category}}</td><td>{{.Tags}}</td><td>{{.Repeats}}</td></tr>
{{- end}}
</tbody>
</table>
</body>
</html>
`))

func writeHTML(w io.Writer, tasks []task.Task, opts Options) error {
	page := htmlPage{
		Title:    opts.Title,
		Exported: opts.Now.Format("2006-01-02 15:04"),
	}
	for i := range tasks {
		t := &tasks[i]
		page.Rows = append(page.Rows, newHTMLRow(t, opts, false))
		for j := range t.Subtasks {
			page.Rows = append(page.Rows, newHTMLRow(&t.Subtasks[j], opts, true))
		}
	}
	if err := pageTemplate.Execute(w, page); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

func newHTMLRow(t *task.Task, opts Options, subtask bool) htmlRow {
	var classes []string
	if subtask {
		classes = append(classes, "subtask")
	}
	switch {
	case t.Completed:
		classes = append(classes, "completed")
	case t.IsOverdue(opts.Today):
		classes = append(classes, "overdue")
	}
	row := htmlRow{
		ID:          t.ID,
		Description: t.Description,
		DueDate:     t.DueDate,
		Priority:    t.Priority,
		Category:    t.Category,
		Tags:        strings.Join(t.Tags, ", "),
		Status:      statusLabel(t),
		Class:       strings.Join(classes, " "),
	}
	if t.Recurrence.IsRecurring() {
		row.Repeats = t.Recurrence.Describe()
	}
	return row
}
