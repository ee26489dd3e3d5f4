// Package recurrence describes repeat policies for tasks and computes the
// next occurrence date of a policy.
package recurrence

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/nibzard/tasker/internal/utils"
)

// Type is the kind of repeat policy. The numeric values are persisted.
type Type int

const (
	None Type = iota
	Daily
	Weekly
	BiWeekly
	Monthly
	Quarterly
	Yearly
	Custom
)

// LegacyMax is the highest value of the old single-integer recurrence field,
// which had no Custom kind.
const LegacyMax = int(Yearly)

var typeNames = [...]string{"none", "daily", "weekly", "biweekly", "monthly", "quarterly", "yearly", "custom"}

var weekdayNames = [...]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// ErrUnknownType is returned for a discriminant outside the known kinds.
var ErrUnknownType = errors.New("unknown recurrence type")

// String returns the lower-case name of t.
func (t Type) String() string {
	if !t.Known() {
		return fmt.Sprintf("type(%d)", int(t))
	}
	return typeNames[t]
}

// Known reports whether t is one of the defined kinds.
func (t Type) Known() bool {
	return t >= None && t <= Custom
}

// ParseType parses a kind by name (case-insensitive, "bi-weekly" and
// "biweekly" both accepted) or by its numeric value.
func ParseType(s string) (Type, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, "_", "")
	if s == "" {
		return None, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		t := Type(n)
		if !t.Known() {
			return None, fmt.Errorf("%d: %w", n, ErrUnknownType)
		}
		return t, nil
	}
	for i, name := range typeNames {
		if name == s {
			return Type(i), nil
		}
	}
	return None, fmt.Errorf("%q: %w", s, ErrUnknownType)
}

// Rule is a repeat policy. The zero Rule never repeats.
//
// WeekOfMonth and MonthOfYear are carried for persistence only. EndDate and
// MaxOccurrences are recorded but Next does not enforce them.
type Rule struct {
	Type           Type
	Interval       int
	DaysOfWeek     []int
	DayOfMonth     int
	WeekOfMonth    int
	MonthOfYear    int
	EndDate        string
	MaxOccurrences int
}

// NoRule returns a Rule that never repeats.
func NoRule() Rule {
	return Rule{Type: None, Interval: 1}
}

// Every returns a simple rule of kind t with the given interval.
func Every(t Type, interval int) Rule {
	return Rule{Type: t, Interval: interval}
}

// OnWeekdays returns a Custom rule repeating on the given weekdays (0 = Sunday).
func OnWeekdays(days ...int) Rule {
	return Rule{Type: Custom, Interval: 1, DaysOfWeek: normalizeDays(days)}
}

// OnDayOfMonth returns a Custom rule repeating on day of month every
// interval months.
func OnDayOfMonth(day, interval int) Rule {
	return Rule{Type: Custom, Interval: interval, DayOfMonth: day}
}

// FromLegacy converts the old integer recurrence field. Values map directly
// onto Type with an interval of 1; values outside 0..LegacyMax are rejected.
func FromLegacy(n int) (Rule, error) {
	if n < 0 || n > LegacyMax {
		return NoRule(), fmt.Errorf("legacy recurrence %d: %w", n, ErrUnknownType)
	}
	return Rule{Type: Type(n), Interval: 1}, nil
}

// Legacy returns the old integer field for r. Custom rules have no legacy
// form and map to 0.
func (r Rule) Legacy() int {
	if r.Type >= None && int(r.Type) <= LegacyMax {
		return int(r.Type)
	}
	return 0
}

// IsRecurring reports whether r produces further occurrences.
func (r Rule) IsRecurring() bool {
	return r.Type != None && r.Type.Known()
}

// Step returns the effective interval, never less than 1.
func (r Rule) Step() int {
	if r.Interval < 1 {
		return 1
	}
	return r.Interval
}

// Clone returns a copy of r that shares no slices with it.
func (r Rule) Clone() Rule {
	if r.DaysOfWeek != nil {
		r.DaysOfWeek = append([]int(nil), r.DaysOfWeek...)
	}
	return r
}

// HasDay reports whether weekday (0 = Sunday) is in r.DaysOfWeek.
func (r Rule) HasDay(weekday int) bool {
	for _, d := range r.DaysOfWeek {
		if d == weekday {
			return true
		}
	}
	return false
}

// Validate checks the field ranges of r.
func (r Rule) Validate() error {
	if !r.Type.Known() {
		return fmt.Errorf("%d: %w", int(r.Type), ErrUnknownType)
	}
	if r.Interval < 0 {
		return fmt.Errorf("interval must be positive, got %d", r.Interval)
	}
	for _, d := range r.DaysOfWeek {
		if d < 0 || d > 6 {
			return fmt.Errorf("day of week must be 0-6, got %d", d)
		}
	}
	if r.DayOfMonth < 0 || r.DayOfMonth > 31 {
		return fmt.Errorf("day of month must be 1-31, got %d", r.DayOfMonth)
	}
	if r.MaxOccurrences < 0 {
		return fmt.Errorf("max occurrences must not be negative, got %d", r.MaxOccurrences)
	}
	return nil
}

// Describe returns a short human readable form of r, e.g. "every 2 weeks".
func (r Rule) Describe() string {
	n := r.Step()
	switch r.Type {
	case None:
		return "none"
	case Daily:
		return plural(n, "day")
	case Weekly:
		return plural(n, "week")
	case BiWeekly:
		return "every 2 weeks"
	case Monthly:
		return plural(n, "month")
	case Quarterly:
		return "every 3 months"
	case Yearly:
		return plural(n, "year")
	case Custom:
		if len(r.DaysOfWeek) > 0 {
			names := make([]string, 0, len(r.DaysOfWeek))
			for _, d := range normalizeDays(r.DaysOfWeek) {
				names = append(names, weekdayNames[d])
			}
			return "on " + strings.Join(names, ", ")
		}
		if r.DayOfMonth > 0 {
			return fmt.Sprintf("day %d, %s", r.DayOfMonth, plural(n, "month"))
		}
		return "custom"
	}
	return r.Type.String()
}

func plural(n int, unit string) string {
	if n == 1 {
		return "every " + unit
	}
	return fmt.Sprintf("every %d %ss", n, unit)
}

// ParseWeekdays parses a comma separated list of weekday names or numbers
// ("mon,wed", "1,3").
func ParseWeekdays(s string) ([]int, error) {
	var days []int
	for _, part := range utils.SplitList(s) {
		part = strings.ToLower(part)
		if n, err := strconv.Atoi(part); err == nil {
			if n < 0 || n > 6 {
				return nil, fmt.Errorf("day of week must be 0-6, got %d", n)
			}
			days = append(days, n)
			continue
		}
		found := false
		for i, name := range weekdayNames {
			if strings.HasPrefix(part, strings.ToLower(name)) {
				days = append(days, i)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown weekday %q", part)
		}
	}
	return normalizeDays(days), nil
}

func normalizeDays(days []int) []int {
	seen := make(map[int]bool, len(days))
	out := make([]int, 0, len(days))
	for _, d := range days {
		if seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	sort.Ints(out)
	return out
}
