package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nibzard/tasker/internal/dates"
	"github.com/nibzard/tasker/internal/recurrence"
	"github.com/nibzard/tasker/internal/task"
)

var exportNow = time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC)

func sampleTasks() []task.Task {
	return []task.Task{
		{
			ID:           1,
			Description:  "Team sync",
			DueDate:      "2024-03-01",
			Priority:     4,
			Category:     "work",
			Notes:        "room 4",
			Tags:         []string{"meeting", "team"},
			ProjectGroup: "q1",
			Recurrence:   recurrence.Every(recurrence.Weekly, 2),
			Subtasks: []task.Task{
				{ID: 2, Description: "agenda, draft", DueDate: "2024-03-01", Priority: 4, Category: "work", Completed: true, Recurrence: recurrence.NoRule()},
			},
		},
		{
			ID:          3,
			Description: "Buy milk",
			DueDate:     "2024-03-20",
			Priority:    2,
			Recurrence:  recurrence.NoRule(),
		},
		{
			ID:          4,
			Description: "Gym",
			DueDate:     "2024-03-11",
			Priority:    3,
			Category:    "Health",
			Completed:   true,
			Recurrence:  recurrence.OnWeekdays(1, 3, 5),
		},
	}
}

func opts() Options {
	return Options{StoreID: "abc", Now: exportNow, Today: dates.New(2024, time.March, 10)}
}

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{
		"md":       Markdown,
		"Markdown": Markdown,
		"csv":      CSV,
		"ICS":      ICS,
		"ical":     ICS,
		" html ":   HTML,
	}
	for in, want := range cases {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFormat("pdf")
	assert.ErrorIs(t, err, ErrUnknownFormat)

	assert.Equal(t, ".md", Markdown.Extension())
	assert.Equal(t, ".ics", ICS.Extension())
	assert.Len(t, Formats(), 4)
}

func TestWriteUnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, Format("pdf"), nil, opts())
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Markdown, sampleTasks(), opts()))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "# Tasks\n"))
	health := strings.Index(out, "## Health")
	uncat := strings.Index(out, "## Uncategorized")
	work := strings.Index(out, "## Work")
	require.True(t, health >= 0 && uncat >= 0 && work >= 0, out)
	assert.True(t, health < uncat && uncat < work, "categories are sorted")

	assert.Contains(t, out, "- [ ] #1 Team sync (due 2024-03-01, priority 4)")
	assert.Contains(t, out, "  - Tags: `meeting`, `team`")
	assert.Contains(t, out, "  - Repeats: every 2 weeks")
	assert.Contains(t, out, "  - Group: q1")
	assert.Contains(t, out, "  - Notes: room 4")
	assert.Contains(t, out, "  - [x] #2 agenda, draft")
	assert.Contains(t, out, "- [x] #4 Gym")
	assert.Contains(t, out, "  - Repeats: on Mon, Wed, Fri")
}

func TestCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, CSV, sampleTasks(), opts()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, []string{"ID", "Description", "Date", "Priority", "Category", "Status", "Notes", "Tags", "ProjectGroup", "ParentTask"}, records[0])
	assert.Equal(t, []string{"1", "Team sync", "2024-03-01", "4", "work", "pending", "room 4", "meeting;team", "q1", ""}, records[1])
	assert.Equal(t, []string{"2", "agenda, draft", "2024-03-01", "4", "work", "completed", "", "", "", "1"}, records[2])
	assert.Equal(t, "3", records[3][0])
	assert.Equal(t, "completed", records[4][5])
}

func TestICS(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, ICS, sampleTasks(), opts()))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "BEGIN:VCALENDAR\r\n"))
	assert.Contains(t, out, "PRODID:-//Tasker//EN")
	assert.Contains(t, out, "VERSION:2.0")
	assert.Equal(t, 4, strings.Count(out, "BEGIN:VEVENT"))
	assert.Contains(t, out, "UID:task-1-abc@tasker")
	assert.Contains(t, out, "UID:task-2-abc@tasker")
	assert.Contains(t, out, "DTSTART;VALUE=DATE:20240301")
	assert.Contains(t, out, "DTSTAMP:20240310T090000Z")
	assert.Contains(t, out, "SUMMARY:Team sync")
	assert.Contains(t, out, "CATEGORIES:work")
	assert.Contains(t, out, "STATUS:NEEDS-ACTION")
	assert.Contains(t, out, "STATUS:COMPLETED")
	assert.Contains(t, out, "RRULE:FREQ=WEEKLY;INTERVAL=2")
	assert.Contains(t, out, "RRULE:FREQ=WEEKLY;BYDAY=MO,WE,FR")
	assert.Contains(t, out, "RELATED-TO:task-1-abc@tasker")
	assert.Equal(t, 2, strings.Count(out, "RRULE:"), "subtasks and one-off tasks do not repeat")
}

func TestRecurrenceRule(t *testing.T) {
	cases := []struct {
		name string
		rule recurrence.Rule
		want string
	}{
		{"daily", recurrence.Every(recurrence.Daily, 1), "FREQ=DAILY"},
		{"every 3 days", recurrence.Every(recurrence.Daily, 3), "FREQ=DAILY;INTERVAL=3"},
		{"weekly", recurrence.Every(recurrence.Weekly, 1), "FREQ=WEEKLY"},
		{"biweekly ignores interval", recurrence.Every(recurrence.BiWeekly, 5), "FREQ=WEEKLY;INTERVAL=2"},
		{"monthly", recurrence.Every(recurrence.Monthly, 1), "FREQ=MONTHLY"},
		{"quarterly", recurrence.Every(recurrence.Quarterly, 1), "FREQ=MONTHLY;INTERVAL=3"},
		{"yearly", recurrence.Every(recurrence.Yearly, 1), "FREQ=YEARLY"},
		{"weekdays", recurrence.OnWeekdays(0, 6), "FREQ=WEEKLY;BYDAY=SU,SA"},
		{"day of month", recurrence.OnDayOfMonth(15, 2), "FREQ=MONTHLY;INTERVAL=2;BYMONTHDAY=15"},
		{"clamped day of month", recurrence.OnDayOfMonth(30, 1), "FREQ=MONTHLY;BYSETPOS=-1;BYMONTHDAY=28,29,30"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			opt := RecurrenceRule(tc.rule)
			require.NotNil(t, opt)
			assert.Equal(t, tc.want, opt.RRuleString())
		})
	}

	assert.Nil(t, RecurrenceRule(recurrence.NoRule()))
	assert.Nil(t, RecurrenceRule(recurrence.Rule{Type: recurrence.Custom}))

	limited := recurrence.Every(recurrence.Daily, 1)
	limited.MaxOccurrences = 5
	limited.EndDate = "2024-12-31"
	s := RecurrenceRule(limited).RRuleString()
	assert.Contains(t, s, "COUNT=5")
	assert.Contains(t, s, "UNTIL=20241231T000000Z")
}

func TestHTML(t *testing.T) {
	tasks := sampleTasks()
	tasks[1].Description = "<b>milk</b>"
	tasks[1].DueDate = "2024-03-01"

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, HTML, tasks, opts()))
	out := buf.String()

	assert.Contains(t, out, "<title>Tasks</title>")
	assert.Contains(t, out, `<tr class="overdue"><td>1</td>`)
	assert.Contains(t, out, `<tr class="subtask completed"><td>2</td>`)
	assert.Contains(t, out, `<tr class="overdue"><td>3</td>`)
	assert.Contains(t, out, `<tr class="completed"><td>4</td>`)
	assert.Contains(t, out, "&lt;b&gt;milk&lt;/b&gt;")
	assert.NotContains(t, out, "<b>milk</b>")
	assert.Contains(t, out, "every 2 weeks")
}
