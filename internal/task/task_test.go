package task

import (
	"errors"
	"testing"
	"time"

	"github.com/nibzard/tasker/internal/dates"
	"github.com/nibzard/tasker/internal/recurrence"
)

var testNow = time.Date(2024, time.March, 1, 10, 0, 0, 0, time.Local)

func TestNew(t *testing.T) {
	task := New("Write report", "2024-03-05", 2, "work", testNow)
	if task.CreatedDate != "2024-03-01" {
		t.Errorf("CreatedDate: got %q, want 2024-03-01", task.CreatedDate)
	}
	if task.Recurrence.Type != recurrence.None {
		t.Errorf("Recurrence: got %v, want none", task.Recurrence.Type)
	}
	if task.Completed {
		t.Error("Completed: got true, want false")
	}
}

func TestAddTag(t *testing.T) {
	task := New("x", "2024-03-05", 3, "", testNow)
	if !task.AddTag("urgent") {
		t.Fatal("AddTag(urgent): got false, want true")
	}
	if task.AddTag("urgent") {
		t.Error("AddTag duplicate: got true, want false")
	}
	if task.AddTag("not valid") {
		t.Error("AddTag invalid: got true, want false")
	}
	if len(task.Tags) != 1 {
		t.Errorf("Tags: got %v, want [urgent]", task.Tags)
	}
	if !task.RemoveTag("urgent") || task.HasTag("urgent") {
		t.Error("RemoveTag: tag still present")
	}
}

func TestIsValidTag(t *testing.T) {
	tests := []struct {
		tag  string
		want bool
	}{
		{"home", true},
		{"q3_goals", true},
		{"2024", true},
		{"", false},
		{"with space", false},
		{"dash-ed", false},
		{"#hash", false},
	}
	for _, tt := range tests {
		if got := IsValidTag(tt.tag); got != tt.want {
			t.Errorf("IsValidTag(%q): got %v, want %v", tt.tag, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	valid := func() Task { return New("Pay rent", "2024-03-01", 1, "home", testNow) }

	tests := []struct {
		name    string
		mutate  func(*Task)
		wantErr error
	}{
		{"valid", func(*Task) {}, nil},
		{"empty description", func(t *Task) { t.Description = "  " }, ErrEmptyDescription},
		{"bad date", func(t *Task) { t.DueDate = "2024-02-30" }, ErrInvalidDate},
		{"priority low", func(t *Task) { t.Priority = 0 }, ErrInvalidPriority},
		{"priority high", func(t *Task) { t.Priority = 6 }, ErrInvalidPriority},
		{"bad tag", func(t *Task) { t.Tags = []string{"a b"} }, ErrInvalidTag},
		{"bad rule", func(t *Task) { t.Recurrence = recurrence.Rule{Type: 9} }, ErrInvalidRule},
		{"bad subtask", func(t *Task) {
			t.Subtasks = []Task{New("sub", "nope", 3, "", testNow)}
		}, ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := valid()
			tt.mutate(&task)
			err := Validate(&task)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate: unexpected error %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate: got %v, want %v", err, tt.wantErr)
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Errorf("Validate: error %T is not a *ValidationError", err)
			}
		})
	}
}

func TestStatusAndDates(t *testing.T) {
	today := dates.MustParse("2024-03-10")
	overdue := New("a", "2024-03-09", 3, "", testNow)
	dueToday := New("b", "2024-03-10", 3, "", testNow)
	done := New("c", "2024-03-01", 3, "", testNow)
	done.Completed = true

	if !overdue.IsOverdue(today) {
		t.Error("IsOverdue: got false for past pending task")
	}
	if done.IsOverdue(today) {
		t.Error("IsOverdue: completed task reported overdue")
	}
	if !dueToday.IsDueToday(today) {
		t.Error("IsDueToday: got false")
	}
	if !done.MatchesStatus(StatusCompleted, today) || done.MatchesStatus(StatusPending, today) {
		t.Error("MatchesStatus: completed task mismatched")
	}
	if !overdue.MatchesStatus(StatusOverdue, today) || dueToday.MatchesStatus(StatusOverdue, today) {
		t.Error("MatchesStatus: overdue mismatched")
	}
}

func TestParseStatus(t *testing.T) {
	for in, want := range map[string]Status{"done": StatusCompleted, "todo": StatusPending, "": StatusAny, "Overdue": StatusOverdue} {
		got, ok := ParseStatus(in)
		if !ok || got != want {
			t.Errorf("ParseStatus(%q): got %q, %v; want %q", in, got, ok, want)
		}
	}
	if _, ok := ParseStatus("later"); ok {
		t.Error("ParseStatus(later): expected failure")
	}
}

func TestContains(t *testing.T) {
	task := New("Quarterly Review", "2024-03-01", 3, "Work", testNow)
	task.Notes = "bring slides"
	task.Tags = []string{"finance"}
	for _, term := range []string{"review", "WORK", "slides", "fin"} {
		if !task.Contains(term) {
			t.Errorf("Contains(%q): got false, want true", term)
		}
	}
	if task.Contains("garden") {
		t.Error("Contains(garden): got true, want false")
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := New("parent", "2024-03-01", 3, "", testNow)
	orig.Tags = []string{"a"}
	orig.Subtasks = []Task{New("child", "2024-03-01", 3, "", testNow)}

	clone := orig.Clone()
	clone.Tags[0] = "b"
	clone.Subtasks[0].Description = "changed"

	if orig.Tags[0] != "a" {
		t.Errorf("Tags shared: got %q", orig.Tags[0])
	}
	if orig.Subtasks[0].Description != "child" {
		t.Errorf("Subtasks shared: got %q", orig.Subtasks[0].Description)
	}
}

func TestTemplateValidateEndDate(t *testing.T) {
	tpl := Template{
		Name:        "standup",
		Description: "Standup",
		Priority:    3,
		Recurrence:  recurrence.Every(recurrence.Daily, 1),
	}
	tpl.Recurrence.EndDate = "2024-13-01"
	err := tpl.Validate()
	if !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("Validate: got %v, want %v", err, ErrInvalidDate)
	}

	tpl.Recurrence.EndDate = "2024-12-31"
	if err := tpl.Validate(); err != nil {
		t.Errorf("Validate: unexpected error %v", err)
	}
}

func TestTemplateInstantiate(t *testing.T) {
	tpl := Template{
		Name:                "weekly-review",
		Description:         "Weekly review",
		Priority:            2,
		Category:            "work",
		Tags:                []string{"review", "review"},
		Recurrence:          recurrence.Every(recurrence.Weekly, 1),
		SubtaskDescriptions: []string{"inbox zero", "plan week"},
	}
	if err := tpl.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	task := tpl.Instantiate("2024-03-08", testNow)
	if task.DueDate != "2024-03-08" || task.Priority != 2 || task.Category != "work" {
		t.Errorf("Instantiate: got %+v", task)
	}
	if len(task.Tags) != 1 {
		t.Errorf("Tags: got %v, want de-duplicated", task.Tags)
	}
	if len(task.Subtasks) != 2 {
		t.Fatalf("Subtasks: got %d, want 2", len(task.Subtasks))
	}
	for _, s := range task.Subtasks {
		if s.DueDate != "2024-03-08" || s.Priority != 2 || s.Category != "work" {
			t.Errorf("subtask did not inherit fields: %+v", s)
		}
	}
}

func TestReminderIsDue(t *testing.T) {
	r := Reminder{TaskID: 1, Message: "call", Time: testNow}
	if !r.IsDue(testNow) {
		t.Error("IsDue at exact time: got false")
	}
	if r.IsDue(testNow.Add(-time.Minute)) {
		t.Error("IsDue before time: got true")
	}
	r.Shown = true
	if r.IsDue(testNow.Add(time.Hour)) {
		t.Error("IsDue after shown: got true")
	}
}

func TestTruncateAndSanitize(t *testing.T) {
	if got := Truncate("abcdefghij", 6); got != "abc..." {
		t.Errorf("Truncate: got %q", got)
	}
	if got := Truncate("short", 10); got != "short" {
		t.Errorf("Truncate: got %q", got)
	}
	if got := SanitizeInput("  buy   milk \t now "); got != "buy milk now" {
		t.Errorf("SanitizeInput: got %q", got)
	}
}
