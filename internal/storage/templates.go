package storage

import (
	"fmt"
	"io"

	"github.com/BurntSushi/toml"

	"github.com/nibzard/tasker/internal/recurrence"
	"github.com/nibzard/tasker/internal/task"
)

// templateFile is the TOML interchange form of a template set:
//
//	[[template]]
//	name = "weekly-review"
//	description = "Weekly review"
//	priority = 2
//	repeat = "weekly"
//	subtasks = ["inbox zero", "plan week"]
type templateFile struct {
	Templates []templateEntry `toml:"template"`
}

type templateEntry struct {
	Name        string   `toml:"name"`
	Description string   `toml:"description"`
	Priority    int      `toml:"priority"`
	Category    string   `toml:"category,omitempty"`
	Notes       string   `toml:"notes,omitempty"`
	Tags        []string `toml:"tags,omitempty"`
	Repeat      string   `toml:"repeat,omitempty"`
	Interval    int      `toml:"interval,omitempty"`
	DaysOfWeek  []int    `toml:"days_of_week,omitempty"`
	DayOfMonth  int      `toml:"day_of_month,omitempty"`
	EndDate     string   `toml:"end_date,omitempty"`
	Subtasks    []string `toml:"subtasks,omitempty"`
}

// ExportTemplates writes templates as TOML.
func ExportTemplates(w io.Writer, templates []task.Template) error {
	var f templateFile
	for _, tpl := range templates {
		e := templateEntry{
			Name:        tpl.Name,
			Description: tpl.Description,
			Priority:    tpl.Priority,
			Category:    tpl.Category,
			Notes:       tpl.Notes,
			Tags:        tpl.Tags,
			Subtasks:    tpl.SubtaskDescriptions,
		}
		if tpl.Recurrence.IsRecurring() {
			e.Repeat = tpl.Recurrence.Type.String()
			e.Interval = tpl.Recurrence.Step()
			e.DaysOfWeek = tpl.Recurrence.DaysOfWeek
			e.DayOfMonth = tpl.Recurrence.DayOfMonth
			e.EndDate = tpl.Recurrence.EndDate
		}
		f.Templates = append(f.Templates, e)
	}
	if err := toml.NewEncoder(w).Encode(f); err != nil {
		return fmt.Errorf("encode templates: %w", err)
	}
	return nil
}

// ImportTemplates reads templates written by ExportTemplates. Each template
// is validated; the first invalid entry aborts the import.
func ImportTemplates(r io.Reader) ([]task.Template, error) {
	var f templateFile
	if _, err := toml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode templates: %w", err)
	}
	out := make([]task.Template, 0, len(f.Templates))
	for i, e := range f.Templates {
		typ, err := recurrence.ParseType(e.Repeat)
		if err != nil {
			return nil, fmt.Errorf("template %d (%s): %w", i, e.Name, err)
		}
		priority := e.Priority
		if priority == 0 {
			priority = task.DefaultPriority
		}
		interval := e.Interval
		if interval == 0 {
			interval = 1
		}
		tpl := task.Template{
			Name:        e.Name,
			Description: e.Description,
			Priority:    priority,
			Category:    e.Category,
			Notes:       e.Notes,
			Tags:        e.Tags,
			Recurrence: recurrence.Rule{
				Type:       typ,
				Interval:   interval,
				DaysOfWeek: e.DaysOfWeek,
				DayOfMonth: e.DayOfMonth,
				EndDate:    e.EndDate,
			},
			SubtaskDescriptions: e.Subtasks,
		}
		if err := tpl.Validate(); err != nil {
			return nil, fmt.Errorf("template %d (%s): %w", i, e.Name, err)
		}
		out = append(out, tpl)
	}
	return out, nil
}
