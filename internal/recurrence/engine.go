package recurrence

import "github.com/nibzard/tasker/internal/dates"

// Next returns the occurrence that follows from under rule r.
//
// BiWeekly and Quarterly use fixed steps and ignore the interval. A Custom
// rule with weekdays picks the nearest strictly later day in the set, so the
// result is 1 to 7 days after from. A Custom rule with a day of month moves
// by the interval in months and clamps the day. None, an empty Custom rule
// and unknown kinds return from unchanged.
func Next(r Rule, from dates.Date) dates.Date {
	switch r.Type {
	case Daily:
		return dates.AddDays(from, r.Step())
	case Weekly:
		return dates.AddDays(from, 7*r.Step())
	case BiWeekly:
		return dates.AddDays(from, 14)
	case Monthly:
		return dates.AddMonths(from, r.Step())
	case Quarterly:
		return dates.AddMonths(from, 3)
	case Yearly:
		return dates.AddYears(from, r.Step())
	case Custom:
		return nextCustom(r, from)
	default:
		return from
	}
}

func nextCustom(r Rule, from dates.Date) dates.Date {
	if len(r.DaysOfWeek) > 0 {
		for offset := 1; offset <= 7; offset++ {
			candidate := dates.AddDays(from, offset)
			if r.HasDay(dates.Weekday(candidate)) {
				return candidate
			}
		}
		// Only out-of-range weekdays in the set.
		return from
	}
	if r.DayOfMonth > 0 {
		return dates.WithDay(dates.AddMonths(from, r.Step()), r.DayOfMonth)
	}
	return from
}

// NextString is Next for ISO date strings. It returns an error if from does
// not parse.
func NextString(r Rule, from string) (string, error) {
	d, err := dates.Parse(from)
	if err != nil {
		return "", err
	}
	return Next(r, d).String(), nil
}

// Occurrences returns up to n successive occurrences after from. It stops
// early when the rule stops advancing.
func Occurrences(r Rule, from dates.Date, n int) []dates.Date {
	out := make([]dates.Date, 0, n)
	cur := from
	for i := 0; i < n; i++ {
		next := Next(r, cur)
		if next == cur {
			break
		}
		out = append(out, next)
		cur = next
	}
	return out
}
