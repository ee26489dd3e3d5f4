package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/nibzard/tasker/internal/dates"
)

// dateLayouts maps the supported date_format values to time layouts.
var dateLayouts = map[string]string{
	"YYYY-MM-DD": "2006-01-02",
	"DD.MM.YYYY": "02.01.2006",
	"DD/MM/YYYY": "02/01/2006",
	"MM/DD/YYYY": "01/02/2006",
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.DataFile == "" {
		return errors.New("data_file must not be empty")
	}
	if c.DefaultPriority < 1 || c.DefaultPriority > 5 {
		return fmt.Errorf("default_priority must be between 1 and 5, got %d", c.DefaultPriority)
	}
	if c.WorkdayStart < 0 || c.WorkdayStart > 23 {
		return fmt.Errorf("workday_start must be an hour 0-23, got %d", c.WorkdayStart)
	}
	if c.WorkdayEnd < 0 || c.WorkdayEnd > 23 {
		return fmt.Errorf("workday_end must be an hour 0-23, got %d", c.WorkdayEnd)
	}
	for _, d := range c.WorkingDays {
		if d < 0 || d > 6 {
			return fmt.Errorf("working_days entries must be 0-6, got %d", d)
		}
	}
	if _, ok := dateLayouts[c.DateFormat]; !ok {
		return fmt.Errorf("unsupported date_format %q", c.DateFormat)
	}
	if c.ReminderSchedule == "" {
		return errors.New("reminder_schedule must not be empty")
	}
	return nil
}

// FormatDate renders a stored YYYY-MM-DD date in the configured display
// format. Values that do not parse are returned unchanged.
func (c *Config) FormatDate(s string) string {
	layout, ok := dateLayouts[c.DateFormat]
	if !ok || layout == dates.Layout {
		return s
	}
	d, err := dates.Parse(s)
	if err != nil {
		return s
	}
	return d.Time().Format(layout)
}

// IsWorkingDay reports whether wd is one of the configured working days.
func (c *Config) IsWorkingDay(wd time.Weekday) bool {
	for _, d := range c.WorkingDays {
		if d == int(wd) {
			return true
		}
	}
	return false
}

// IsWorkingHours reports whether t falls on a working day between
// workday_start (inclusive) and workday_end (exclusive).
func (c *Config) IsWorkingHours(t time.Time) bool {
	if !c.IsWorkingDay(t.Weekday()) {
		return false
	}
	h := t.Hour()
	return h >= c.WorkdayStart && h < c.WorkdayEnd
}

// WorkdayStartOn returns the start of the workday on d in loc.
func (c *Config) WorkdayStartOn(d dates.Date, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(d.Year, d.Month, d.Day, c.WorkdayStart, 0, 0, 0, loc)
}
