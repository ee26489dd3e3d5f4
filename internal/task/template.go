package task

import (
	"errors"
	"time"

	"github.com/nibzard/tasker/internal/dates"
	"github.com/nibzard/tasker/internal/recurrence"
)

// ErrEmptyTemplateName is returned for a template without a name.
var ErrEmptyTemplateName = errors.New("template name must not be empty")

// Template is a reusable blueprint for tasks, keyed by Name.
type Template struct {
	Name                string
	Description         string
	Priority            int
	Category            string
	Notes               string
	Tags                []string
	Recurrence          recurrence.Rule
	SubtaskDescriptions []string
}

// Clone returns a deep copy of tpl.
func (tpl Template) Clone() Template {
	if tpl.Tags != nil {
		tpl.Tags = append([]string(nil), tpl.Tags...)
	}
	if tpl.SubtaskDescriptions != nil {
		tpl.SubtaskDescriptions = append([]string(nil), tpl.SubtaskDescriptions...)
	}
	tpl.Recurrence = tpl.Recurrence.Clone()
	return tpl
}

// Validate checks the name, priority, tags and recurrence of tpl.
func (tpl *Template) Validate() error {
	if tpl.Name == "" {
		return &ValidationError{Field: "name", Err: ErrEmptyTemplateName}
	}
	if tpl.Description == "" {
		return &ValidationError{Field: "description", Err: ErrEmptyDescription}
	}
	if tpl.Priority < MinPriority || tpl.Priority > MaxPriority {
		return &ValidationError{Field: "priority", Err: ErrInvalidPriority}
	}
	for _, tag := range tpl.Tags {
		if !IsValidTag(tag) {
			return &ValidationError{Field: "tags", Err: ErrInvalidTag}
		}
	}
	if err := tpl.Recurrence.Validate(); err != nil {
		return &ValidationError{Field: "recurrenceRule", Err: ErrInvalidRule}
	}
	if tpl.Recurrence.EndDate != "" && !dates.IsValid(tpl.Recurrence.EndDate) {
		return &ValidationError{Field: "recurrenceRule.endDate", Err: ErrInvalidDate}
	}
	return nil
}

// Instantiate builds a task due on dueDate from tpl. Subtasks are created
// from SubtaskDescriptions and inherit the due date, priority and category.
// Ids are left zero for the store to assign.
func (tpl *Template) Instantiate(dueDate string, now time.Time) Task {
	t := New(tpl.Description, dueDate, tpl.Priority, tpl.Category, now)
	t.Notes = tpl.Notes
	t.SetTags(tpl.Tags)
	t.Recurrence = tpl.Recurrence.Clone()
	for _, desc := range tpl.SubtaskDescriptions {
		sub := New(desc, dueDate, tpl.Priority, tpl.Category, now)
		t.Subtasks = append(t.Subtasks, sub)
	}
	return t
}

// TemplateFromTask captures t as a template named name.
func TemplateFromTask(name string, t Task) Template {
	tpl := Template{
		Name:        name,
		Description: t.Description,
		Priority:    t.Priority,
		Category:    t.Category,
		Notes:       t.Notes,
		Tags:        append([]string(nil), t.Tags...),
		Recurrence:  t.Recurrence.Clone(),
	}
	for _, s := range t.Subtasks {
		tpl.SubtaskDescriptions = append(tpl.SubtaskDescriptions, s.Description)
	}
	return tpl
}
