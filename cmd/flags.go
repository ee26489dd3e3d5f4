package cmd

import (
	"flag"
	"fmt"
	"strings"

	"github.com/nibzard/tasker/internal/recurrence"
	"github.com/nibzard/tasker/internal/task"
	"github.com/nibzard/tasker/internal/utils"
)

var ruleFlagNames = []string{"repeat", "interval", "days", "day", "until", "count"}

// ruleFlags are the recurrence options shared by add, edit and template add.
type ruleFlags struct {
	repeat   string
	interval int
	days     string
	day      int
	until    string
	count    int
}

func (r *ruleFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&r.repeat, "repeat", "", "Recurrence: none|daily|weekly|biweekly|monthly|quarterly|yearly|custom")
	fs.IntVar(&r.interval, "interval", 1, "Repeat every N units")
	fs.StringVar(&r.days, "days", "", "Custom recurrence weekdays, e.g. mon,wed,fri")
	fs.IntVar(&r.day, "day", 0, "Custom recurrence day of month (1-31)")
	fs.StringVar(&r.until, "until", "", "Recorded end date of the recurrence (YYYY-MM-DD)")
	fs.IntVar(&r.count, "count", 0, "Recorded maximum number of occurrences")
}

// changed reports whether any recurrence flag was given.
func (r *ruleFlags) changed(set map[string]bool) bool {
	for _, name := range ruleFlagNames {
		if set[name] {
			return true
		}
	}
	return false
}

// build returns the rule described by the flags. Weekdays or a day of month
// imply a custom rule.
func (r *ruleFlags) build() (recurrence.Rule, error) {
	typ, err := recurrence.ParseType(r.repeat)
	if err != nil {
		return recurrence.Rule{}, err
	}
	if r.interval < 1 {
		return recurrence.Rule{}, fmt.Errorf("interval must be at least 1, got %d", r.interval)
	}

	var rule recurrence.Rule
	switch {
	case r.days != "":
		if typ != recurrence.None && typ != recurrence.Custom {
			return recurrence.Rule{}, fmt.Errorf("-days needs -repeat custom, got %s", typ)
		}
		days, err := recurrence.ParseWeekdays(r.days)
		if err != nil {
			return recurrence.Rule{}, err
		}
		rule = recurrence.OnWeekdays(days...)
	case r.day != 0:
		if typ != recurrence.None && typ != recurrence.Custom {
			return recurrence.Rule{}, fmt.Errorf("-day needs -repeat custom, got %s", typ)
		}
		rule = recurrence.OnDayOfMonth(r.day, r.interval)
	case typ == recurrence.Custom:
		return recurrence.Rule{}, fmt.Errorf("custom recurrence needs -days or -day")
	default:
		rule = recurrence.Every(typ, r.interval)
	}

	if r.until != "" {
		if err := task.ValidateDate(r.until); err != nil {
			return recurrence.Rule{}, fmt.Errorf("until: %w", err)
		}
		rule.EndDate = r.until
	}
	if r.count < 0 {
		return recurrence.Rule{}, fmt.Errorf("count must not be negative")
	}
	rule.MaxOccurrences = r.count
	if err := rule.Validate(); err != nil {
		return recurrence.Rule{}, err
	}
	return rule, nil
}

// parseTags splits a comma separated tag list and rejects invalid tags.
func parseTags(s string) ([]string, error) {
	tags := utils.SplitList(s)
	for _, tag := range tags {
		if !task.IsValidTag(tag) {
			return nil, fmt.Errorf("invalid tag %q: %w", tag, task.ErrInvalidTag)
		}
	}
	return tags, nil
}

// listFlag collects a repeatable string flag.
type listFlag []string

func (l *listFlag) String() string {
	return strings.Join(*l, ", ")
}

func (l *listFlag) Set(v string) error {
	*l = append(*l, v)
	return nil
}
