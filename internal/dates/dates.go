// Package dates implements calendar arithmetic on ISO (YYYY-MM-DD) dates.
//
// Dates carry no time of day and no zone. Month and year arithmetic clamps
// the day to the last valid day of the target month, so Jan 31 plus one
// month is Feb 28 (or Feb 29 in a leap year).
package dates

import (
	"errors"
	"fmt"
	"time"
)

// Layout is the ISO date layout used for every persisted date.
const Layout = "2006-01-02"

// DateTimeLayout is the layout used for reminder times.
const DateTimeLayout = "2006-01-02 15:04"

// Supported year range for user supplied dates.
const (
	MinYear = 1900
	MaxYear = 2100
)

var (
	// ErrFormat is returned when a string is not shaped like YYYY-MM-DD.
	ErrFormat = errors.New("date must be in YYYY-MM-DD format")
	// ErrRange is returned when a well-formed date does not exist.
	ErrRange = errors.New("date out of range")
)

// Date is a calendar day.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// New returns the date for the given year, month and day. The values are
// not normalised; use Valid to check them.
func New(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// FromTime returns the calendar day of t in t's location.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Today returns the local calendar day of now.
func Today(now time.Time) Date {
	return FromTime(now.Local())
}

// Parse parses a strict YYYY-MM-DD string. The year must be within
// MinYear..MaxYear and the day must exist in that month.
func Parse(s string) (Date, error) {
	if len(s) != 10 || s[4] != '-' || s[7] != '-' {
		return Date{}, fmt.Errorf("%q: %w", s, ErrFormat)
	}
	year, ok1 := digits(s[0:4])
	month, ok2 := digits(s[5:7])
	day, ok3 := digits(s[8:10])
	if !ok1 || !ok2 || !ok3 {
		return Date{}, fmt.Errorf("%q: %w", s, ErrFormat)
	}
	d := Date{Year: year, Month: time.Month(month), Day: day}
	if !d.Valid() {
		return Date{}, fmt.Errorf("%q: %w", s, ErrRange)
	}
	return d, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// constant inputs.
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// IsValid reports whether s parses as a date.
func IsValid(s string) bool {
	_, err := Parse(s)
	return err == nil
}

func digits(s string) (int, bool) {
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}

// Valid reports whether d is a real calendar day within the supported range.
func (d Date) Valid() bool {
	if d.Year < MinYear || d.Year > MaxYear {
		return false
	}
	if d.Month < time.January || d.Month > time.December {
		return false
	}
	return d.Day >= 1 && d.Day <= DaysInMonth(d.Year, d.Month)
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d == Date{}
}

// String formats d as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Time returns midnight UTC of d.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or
// after other.
func (d Date) Compare(other Date) int {
	switch {
	case d.Year != other.Year:
		return cmpInt(d.Year, other.Year)
	case d.Month != other.Month:
		return cmpInt(int(d.Month), int(other.Month))
	default:
		return cmpInt(d.Day, other.Day)
	}
}

func cmpInt(a, b int) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

// Before reports whether d is strictly before other.
func (d Date) Before(other Date) bool { return d.Compare(other) < 0 }

// After reports whether d is strictly after other.
func (d Date) After(other Date) bool { return d.Compare(other) > 0 }

// IsLeapYear reports whether year is a Gregorian leap year.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

var monthDays = [...]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// DaysInMonth returns the number of days in month of year. It returns 0 for
// a month outside January..December.
func DaysInMonth(year int, month time.Month) int {
	if month < time.January || month > time.December {
		return 0
	}
	if month == time.February && IsLeapYear(year) {
		return 29
	}
	return monthDays[month-1]
}

// AddDays returns d moved by n days, rolling over months and years.
func AddDays(d Date, n int) Date {
	return FromTime(d.Time().AddDate(0, 0, n))
}

// AddMonths returns d moved by n months. The day is clamped to the length of
// the target month.
func AddMonths(d Date, n int) Date {
	total := d.Year*12 + int(d.Month-1) + n
	year := floorDiv(total, 12)
	month := time.Month(total-year*12) + 1
	day := d.Day
	if last := DaysInMonth(year, month); day > last {
		day = last
	}
	return Date{Year: year, Month: month, Day: day}
}

// AddYears returns d moved by n years, clamping Feb 29 to Feb 28 in
// non-leap target years.
func AddYears(d Date, n int) Date {
	return AddMonths(d, 12*n)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// Weekday returns the day of the week of d, 0 = Sunday.
func Weekday(d Date) int {
	return int(d.Time().Weekday())
}

// WithDay returns d with its day replaced by day, clamped to the month.
func WithDay(d Date, day int) Date {
	if day < 1 {
		day = 1
	}
	if last := DaysInMonth(d.Year, d.Month); day > last {
		day = last
	}
	d.Day = day
	return d
}

// ParseDateTime parses a reminder time in DateTimeLayout, in loc.
func ParseDateTime(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateTimeLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("time must be in YYYY-MM-DD HH:MM format: %w", err)
	}
	return t, nil
}

// FormatDateTime formats t with DateTimeLayout.
func FormatDateTime(t time.Time) string {
	return t.Format(DateTimeLayout)
}
