package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nibzard/tasker/internal/dates"
	"github.com/nibzard/tasker/internal/recurrence"
	"github.com/nibzard/tasker/internal/store"
	"github.com/nibzard/tasker/internal/task"
)

// DocumentVersion is written to every saved document.
const DocumentVersion = 2

// Document is the on-disk form of a store.
type Document struct {
	Version       int           `json:"version"`
	StoreID       string        `json:"storeId,omitempty"`
	Tasks         []TaskDoc     `json:"tasks"`
	Reminders     []ReminderDoc `json:"reminders"`
	Templates     []TemplateDoc `json:"templates"`
	ProjectGroups []string      `json:"projectGroups,omitempty"`
}

// RuleDoc is the on-disk form of a recurrence rule.
type RuleDoc struct {
	Type           int    `json:"type"`
	Interval       int    `json:"interval"`
	DaysOfWeek     []int  `json:"daysOfWeek"`
	DayOfMonth     int    `json:"dayOfMonth"`
	WeekOfMonth    int    `json:"weekOfMonth"`
	MonthOfYear    int    `json:"monthOfYear"`
	EndDate        string `json:"endDate"`
	MaxOccurrences int    `json:"maxOccurrences"`
}

// TaskDoc is the on-disk form of a task. Recurrence holds the legacy
// single-integer field; RecurrenceRule wins when both are present.
type TaskDoc struct {
	ID             int       `json:"id"`
	Description    string    `json:"description"`
	DueDate        string    `json:"dueDate"`
	Priority       int       `json:"priority"`
	Category       string    `json:"category"`
	Completed      bool      `json:"completed"`
	Notes          string    `json:"notes"`
	CreatedDate    string    `json:"createdDate"`
	ProjectGroup   string    `json:"projectGroup"`
	Tags           []string  `json:"tags"`
	Recurrence     *int      `json:"recurrence,omitempty"`
	RecurrenceRule *RuleDoc  `json:"recurrenceRule,omitempty"`
	Subtasks       []TaskDoc `json:"subtasks"`
}

// ReminderDoc is the on-disk form of a reminder.
type ReminderDoc struct {
	TaskID  int    `json:"taskId"`
	Message string `json:"message"`
	Time    string `json:"time"`
	Shown   bool   `json:"shown"`
}

// TemplateDoc is the on-disk form of a template.
type TemplateDoc struct {
	Name                string   `json:"name"`
	Description         string   `json:"description"`
	Priority            int      `json:"priority"`
	Category            string   `json:"category"`
	Notes               string   `json:"notes"`
	Tags                []string `json:"tags"`
	Recurrence          *int     `json:"recurrence,omitempty"`
	RecurrenceRule      *RuleDoc `json:"recurrenceRule,omitempty"`
	SubtaskDescriptions []string `json:"subtaskDescriptions"`
}

// Warning describes an entity that loaded with a substituted value.
type Warning struct {
	Path    string
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Path, w.Message)
}

// Encode converts a store snapshot to a document. A new store id is
// generated when storeID is empty.
func Encode(snap store.Snapshot, storeID string) Document {
	if storeID == "" {
		storeID = uuid.New().String()
	}
	doc := Document{
		Version:       DocumentVersion,
		StoreID:       storeID,
		Tasks:         make([]TaskDoc, 0, len(snap.Tasks)),
		Reminders:     make([]ReminderDoc, 0, len(snap.Reminders)),
		Templates:     make([]TemplateDoc, 0, len(snap.Templates)),
		ProjectGroups: append([]string(nil), snap.Groups...),
	}
	for _, t := range snap.Tasks {
		doc.Tasks = append(doc.Tasks, encodeTask(t))
	}
	for _, r := range snap.Reminders {
		doc.Reminders = append(doc.Reminders, ReminderDoc{
			TaskID:  r.TaskID,
			Message: r.Message,
			Time:    dates.FormatDateTime(r.Time),
			Shown:   r.Shown,
		})
	}
	for _, tpl := range snap.Templates {
		doc.Templates = append(doc.Templates, encodeTemplate(tpl))
	}
	return doc
}

func encodeTask(t task.Task) TaskDoc {
	legacy := t.Recurrence.Legacy()
	rule := encodeRule(t.Recurrence)
	d := TaskDoc{
		ID:             t.ID,
		Description:    t.Description,
		DueDate:        t.DueDate,
		Priority:       t.Priority,
		Category:       t.Category,
		Completed:      t.Completed,
		Notes:          t.Notes,
		CreatedDate:    t.CreatedDate,
		ProjectGroup:   t.ProjectGroup,
		Tags:           nonNil(t.Tags),
		Recurrence:     &legacy,
		RecurrenceRule: &rule,
		Subtasks:       make([]TaskDoc, 0, len(t.Subtasks)),
	}
	for _, s := range t.Subtasks {
		d.Subtasks = append(d.Subtasks, encodeTask(s))
	}
	return d
}

func encodeTemplate(tpl task.Template) TemplateDoc {
	legacy := tpl.Recurrence.Legacy()
	rule := encodeRule(tpl.Recurrence)
	return TemplateDoc{
		Name:                tpl.Name,
		Description:         tpl.Description,
		Priority:            tpl.Priority,
		Category:            tpl.Category,
		Notes:               tpl.Notes,
		Tags:                nonNil(tpl.Tags),
		Recurrence:          &legacy,
		RecurrenceRule:      &rule,
		SubtaskDescriptions: nonNil(tpl.SubtaskDescriptions),
	}
}

func encodeRule(r recurrence.Rule) RuleDoc {
	days := r.DaysOfWeek
	if days == nil {
		days = []int{}
	}
	return RuleDoc{
		Type:           int(r.Type),
		Interval:       r.Step(),
		DaysOfWeek:     days,
		DayOfMonth:     r.DayOfMonth,
		WeekOfMonth:    r.WeekOfMonth,
		MonthOfYear:    r.MonthOfYear,
		EndDate:        r.EndDate,
		MaxOccurrences: r.MaxOccurrences,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nilIfEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}

// Decode converts a document to a store snapshot. An entity with an unknown
// recurrence discriminant loads as non-recurring and a reminder with an
// unreadable time is dropped, and a task or subtask reusing an id gets a
// fresh one. Each is reported as a warning and the rest of the document is
// unaffected.
func Decode(doc Document, loc *time.Location) (store.Snapshot, []Warning) {
	var (
		snap     store.Snapshot
		warnings []Warning
	)
	for i, td := range doc.Tasks {
		path := fmt.Sprintf("tasks[%d]", i)
		snap.Tasks = append(snap.Tasks, decodeTask(td, path, &warnings))
	}
	reassignDuplicateIDs(snap.Tasks, &warnings)
	for i, rd := range doc.Reminders {
		path := fmt.Sprintf("reminders[%d]", i)
		at, err := dates.ParseDateTime(rd.Time, loc)
		if err != nil {
			warnings = append(warnings, Warning{Path: path + ".time", Message: "unreadable time, reminder skipped"})
			continue
		}
		snap.Reminders = append(snap.Reminders, task.Reminder{
			TaskID:  rd.TaskID,
			Message: rd.Message,
			Time:    at,
			Shown:   rd.Shown,
		})
	}
	for i, tpl := range doc.Templates {
		path := fmt.Sprintf("templates[%d]", i)
		snap.Templates = append(snap.Templates, task.Template{
			Name:                tpl.Name,
			Description:         tpl.Description,
			Priority:            tpl.Priority,
			Category:            tpl.Category,
			Notes:               tpl.Notes,
			Tags:                nilIfEmpty(tpl.Tags),
			Recurrence:          decodeRule(tpl.RecurrenceRule, tpl.Recurrence, path, &warnings),
			SubtaskDescriptions: nilIfEmpty(tpl.SubtaskDescriptions),
		})
	}
	snap.Groups = append(snap.Groups, doc.ProjectGroups...)
	return snap, warnings
}

func decodeTask(td TaskDoc, path string, warnings *[]Warning) task.Task {
	t := task.Task{
		ID:           td.ID,
		Description:  td.Description,
		DueDate:      td.DueDate,
		Priority:     td.Priority,
		Category:     td.Category,
		Completed:    td.Completed,
		Notes:        td.Notes,
		CreatedDate:  td.CreatedDate,
		ProjectGroup: td.ProjectGroup,
		Tags:         nilIfEmpty(td.Tags),
		Recurrence:   decodeRule(td.RecurrenceRule, td.Recurrence, path, warnings),
	}
	for i, sd := range td.Subtasks {
		sub := decodeTask(sd, fmt.Sprintf("%s.subtasks[%d]", path, i), warnings)
		sub.Recurrence = recurrence.NoRule()
		t.Subtasks = append(t.Subtasks, sub)
	}
	return t
}

// reassignDuplicateIDs gives every task or subtask whose id is not
// positive, or was already taken by an earlier entity, a new id past the
// largest one in the document. The first holder of an id keeps it.
func reassignDuplicateIDs(tasks []task.Task, warnings *[]Warning) {
	maxID := 0
	for i := range tasks {
		if id := tasks[i].MaxID(); id > maxID {
			maxID = id
		}
	}
	seen := make(map[int]bool)
	var walk func(ts []task.Task, path string)
	walk = func(ts []task.Task, path string) {
		for i := range ts {
			p := fmt.Sprintf("%s[%d]", path, i)
			if id := ts[i].ID; id <= 0 || seen[id] {
				maxID++
				reason := "duplicate"
				if id <= 0 {
					reason = "invalid"
				}
				*warnings = append(*warnings, Warning{
					Path:    p + ".id",
					Message: fmt.Sprintf("%s id %d, reassigned %d", reason, id, maxID),
				})
				ts[i].ID = maxID
			}
			seen[ts[i].ID] = true
			walk(ts[i].Subtasks, p+".subtasks")
		}
	}
	walk(tasks, "tasks")
}

// decodeRule prefers the structured rule and falls back to the legacy
// integer. An unknown discriminant yields a non-recurring rule.
func decodeRule(rd *RuleDoc, legacy *int, path string, warnings *[]Warning) recurrence.Rule {
	if rd != nil {
		typ := recurrence.Type(rd.Type)
		if !typ.Known() {
			*warnings = append(*warnings, Warning{
				Path:    path + ".recurrenceRule.type",
				Message: fmt.Sprintf("unknown recurrence type %d, using none", rd.Type),
			})
			return recurrence.NoRule()
		}
		interval := rd.Interval
		if interval < 1 {
			interval = 1
		}
		return recurrence.Rule{
			Type:           typ,
			Interval:       interval,
			DaysOfWeek:     append([]int(nil), rd.DaysOfWeek...),
			DayOfMonth:     rd.DayOfMonth,
			WeekOfMonth:    rd.WeekOfMonth,
			MonthOfYear:    rd.MonthOfYear,
			EndDate:        rd.EndDate,
			MaxOccurrences: rd.MaxOccurrences,
		}
	}
	if legacy != nil {
		rule, err := recurrence.FromLegacy(*legacy)
		if err != nil {
			*warnings = append(*warnings, Warning{
				Path:    path + ".recurrence",
				Message: fmt.Sprintf("unknown legacy recurrence %d, using none", *legacy),
			})
		}
		return rule
	}
	return recurrence.NoRule()
}

// Marshal renders doc as indented JSON with a trailing newline.
func Marshal(doc Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal task file: %w", err)
	}
	return append(data, '\n'), nil
}

// Unmarshal parses a document.
func Unmarshal(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("parse task file: %w", err)
	}
	return doc, nil
}
