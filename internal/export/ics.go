package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/teambition/rrule-go"

	"github.com/nibzard/tasker/internal/dates"
	"github.com/nibzard/tasker/internal/recurrence"
	"github.com/nibzard/tasker/internal/task"
)

const productID = "-//Tasker//EN"

// rrule weekdays indexed by time.Weekday (0 = Sunday).
var icsWeekdays = [...]rrule.Weekday{rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA}

func writeICS(w io.Writer, tasks []task.Task, opts Options) error {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropProductID, productID)
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropCalendarScale, "GREGORIAN")
	cal.Props.SetText(ical.PropMethod, "PUBLISH")

	stamp := opts.Now.UTC()
	for i := range tasks {
		t := &tasks[i]
		event, err := taskEvent(t, opts.StoreID, stamp)
		if err != nil {
			return err
		}
		if rule := RecurrenceRule(t.Recurrence); rule != nil {
			event.Props.SetRecurrenceRule(rule)
		}
		cal.Children = append(cal.Children, event)

		parentUID := eventUID(t.ID, opts.StoreID)
		for j := range t.Subtasks {
			sub := &t.Subtasks[j]
			se, err := taskEvent(sub, opts.StoreID, stamp)
			if err != nil {
				return err
			}
			se.Props.SetText(ical.PropDescription, fmt.Sprintf("Subtask of #%d: %s\n\n%s", t.ID, t.Description, eventDescription(sub)))
			se.Props.SetText(ical.PropRelatedTo, parentUID)
			cal.Children = append(cal.Children, se)
		}
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("encode calendar: %w", err)
	}
	return nil
}

func eventUID(id int, storeID string) string {
	return fmt.Sprintf("task-%d-%s@tasker", id, storeID)
}

func taskEvent(t *task.Task, storeID string, stamp time.Time) (*ical.Component, error) {
	due, err := dates.Parse(t.DueDate)
	if err != nil {
		return nil, fmt.Errorf("task %d: %w", t.ID, err)
	}
	event := ical.NewComponent(ical.CompEvent)
	event.Props.SetText(ical.PropUID, eventUID(t.ID, storeID))
	event.Props.SetDateTime(ical.PropDateTimeStamp, stamp)
	event.Props.SetDate(ical.PropDateTimeStart, due.Time())
	event.Props.SetText(ical.PropSummary, t.Description)
	if t.Category != "" {
		event.Props.SetText(ical.PropCategories, t.Category)
	}
	event.Props.SetText(ical.PropDescription, eventDescription(t))
	if t.Completed {
		event.Props.SetText(ical.PropStatus, "COMPLETED")
	} else {
		event.Props.SetText(ical.PropStatus, "NEEDS-ACTION")
	}
	return event, nil
}

func eventDescription(t *task.Task) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Priority: %d", t.Priority)
	if t.Notes != "" {
		fmt.Fprintf(&b, "\n\nNotes: %s", t.Notes)
	}
	if len(t.Tags) > 0 {
		fmt.Fprintf(&b, "\n\nTags: %s", strings.Join(t.Tags, ", "))
	}
	return b.String()
}

// RecurrenceRule converts r to an RRULE. It returns nil for rules that never
// repeat. A day-of-month past 28 is expressed as the last existing day up to
// it, which matches how Next clamps short months.
func RecurrenceRule(r recurrence.Rule) *rrule.ROption {
	opt := &rrule.ROption{}
	interval := r.Step()

	switch r.Type {
	case recurrence.Daily:
		opt.Freq = rrule.DAILY
	case recurrence.Weekly:
		opt.Freq = rrule.WEEKLY
	case recurrence.BiWeekly:
		opt.Freq = rrule.WEEKLY
		interval = 2
	case recurrence.Monthly:
		opt.Freq = rrule.MONTHLY
	case recurrence.Quarterly:
		opt.Freq = rrule.MONTHLY
		interval = 3
	case recurrence.Yearly:
		opt.Freq = rrule.YEARLY
	case recurrence.Custom:
		switch {
		case len(r.DaysOfWeek) > 0:
			opt.Freq = rrule.WEEKLY
			interval = 1
			for _, d := range r.DaysOfWeek {
				if d >= 0 && d < len(icsWeekdays) {
					opt.Byweekday = append(opt.Byweekday, icsWeekdays[d])
				}
			}
		case r.DayOfMonth > 0:
			opt.Freq = rrule.MONTHLY
			if r.DayOfMonth > 28 {
				for d := 28; d <= r.DayOfMonth; d++ {
					opt.Bymonthday = append(opt.Bymonthday, d)
				}
				opt.Bysetpos = []int{-1}
			} else {
				opt.Bymonthday = []int{r.DayOfMonth}
			}
		default:
			return nil
		}
	default:
		return nil
	}

	if interval > 1 {
		opt.Interval = interval
	}
	if end, err := dates.Parse(r.EndDate); err == nil {
		opt.Until = end.Time()
	}
	if r.MaxOccurrences > 0 {
		opt.Count = r.MaxOccurrences
	}
	return opt
}
