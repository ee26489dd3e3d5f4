package recurrence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nibzard/tasker/internal/dates"
)

func TestNext(t *testing.T) {
	tests := []struct {
		name string
		rule Rule
		from string
		want string
	}{
		{"none is a no-op", NoRule(), "2024-03-01", "2024-03-01"},
		{"daily", Every(Daily, 1), "2024-01-31", "2024-02-01"},
		{"daily interval 3", Every(Daily, 3), "2024-12-30", "2025-01-02"},
		{"daily zero interval treated as one", Every(Daily, 0), "2024-03-01", "2024-03-02"},
		{"weekly", Every(Weekly, 1), "2024-03-01", "2024-03-08"},
		{"weekly interval 2", Every(Weekly, 2), "2024-03-01", "2024-03-15"},
		{"biweekly", Every(BiWeekly, 1), "2024-03-01", "2024-03-15"},
		{"biweekly ignores interval", Every(BiWeekly, 5), "2024-03-01", "2024-03-15"},
		{"monthly leap clamp", Every(Monthly, 1), "2024-01-31", "2024-02-29"},
		{"monthly non-leap clamp", Every(Monthly, 1), "2025-01-31", "2025-02-28"},
		{"monthly interval 2", Every(Monthly, 2), "2024-11-30", "2025-01-30"},
		{"quarterly", Every(Quarterly, 1), "2024-11-30", "2025-02-28"},
		{"quarterly ignores interval", Every(Quarterly, 4), "2024-01-15", "2024-04-15"},
		{"yearly", Every(Yearly, 1), "2024-03-01", "2025-03-01"},
		{"yearly leap day", Every(Yearly, 1), "2024-02-29", "2025-02-28"},
		{"yearly interval 4", Every(Yearly, 4), "2024-02-29", "2028-02-29"},
		{"custom empty is a no-op", Rule{Type: Custom, Interval: 1}, "2024-03-01", "2024-03-01"},
		{"unknown type is a no-op", Rule{Type: Type(42), Interval: 1}, "2024-03-01", "2024-03-01"},
		// 2024-03-01 is a Friday.
		{"custom weekday next monday", OnWeekdays(1), "2024-03-01", "2024-03-04"},
		{"custom weekday skips same day", OnWeekdays(5), "2024-03-01", "2024-03-08"},
		{"custom weekday nearest in set", OnWeekdays(1, 5, 6), "2024-03-01", "2024-03-02"},
		{"custom weekday wraps week", OnWeekdays(0, 4), "2024-03-01", "2024-03-03"},
		{"custom day of month", OnDayOfMonth(31, 1), "2024-04-15", "2024-05-31"},
		{"custom day of month clamps", OnDayOfMonth(31, 1), "2024-01-31", "2024-02-29"},
		{"custom day of month interval", OnDayOfMonth(10, 2), "2024-01-20", "2024-03-10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Next(tt.rule, dates.MustParse(tt.from))
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestNextCustomWeekdayNeverReturnsInput(t *testing.T) {
	start := dates.MustParse("2024-03-03")
	for weekday := 0; weekday < 7; weekday++ {
		rule := OnWeekdays(weekday)
		for offset := 0; offset < 7; offset++ {
			from := dates.AddDays(start, offset)
			got := Next(rule, from)
			assert.True(t, got.After(from), "from %s weekday %d", from, weekday)
			assert.False(t, got.After(dates.AddDays(from, 7)), "from %s weekday %d", from, weekday)
			assert.Equal(t, weekday, dates.Weekday(got))
		}
	}
}

func TestNextDailyRollsBoundaries(t *testing.T) {
	from := dates.MustParse("2023-12-25")
	for n := 1; n <= 60; n++ {
		got := Next(Every(Daily, n), from)
		assert.Equal(t, dates.AddDays(from, n), got)
	}
}

func TestNextIgnoresEndConditions(t *testing.T) {
	rule := Every(Daily, 1)
	rule.EndDate = "2024-03-01"
	rule.MaxOccurrences = 1

	got := Next(rule, dates.MustParse("2024-03-05"))
	assert.Equal(t, "2024-03-06", got.String())
}

func TestNextString(t *testing.T) {
	got, err := NextString(Every(Weekly, 1), "2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-08", got)

	_, err = NextString(Every(Weekly, 1), "03/01/2024")
	require.Error(t, err)
}

func TestOccurrences(t *testing.T) {
	got := Occurrences(Every(Monthly, 1), dates.MustParse("2024-01-31"), 3)
	require.Len(t, got, 3)
	assert.Equal(t, "2024-02-29", got[0].String())
	assert.Equal(t, "2024-03-29", got[1].String())
	assert.Equal(t, "2024-04-29", got[2].String())

	assert.Empty(t, Occurrences(NoRule(), dates.MustParse("2024-01-31"), 3))
}
