package task

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/nibzard/tasker/internal/dates"
)

var (
	ErrEmptyDescription = errors.New("description must not be empty")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidPriority  = errors.New("priority must be between 1 and 5")
	ErrInvalidTag       = errors.New("tags may contain only letters, digits and underscores")
	ErrInvalidRule      = errors.New("invalid recurrence rule")
)

// ValidationError reports which field of a task failed validation.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsValidTag reports whether tag is non-empty and made of letters, digits
// and underscores.
func IsValidTag(tag string) bool {
	if tag == "" {
		return false
	}
	for _, r := range tag {
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// ValidateDate checks s is a strict ISO date in the supported range.
func ValidateDate(s string) error {
	if _, err := dates.Parse(s); err != nil {
		return &ValidationError{Field: "dueDate", Err: fmt.Errorf("%w: %v", ErrInvalidDate, err)}
	}
	return nil
}

// Validate checks the fields of t and of its subtasks.
func Validate(t *Task) error {
	if strings.TrimSpace(t.Description) == "" {
		return &ValidationError{Field: "description", Err: ErrEmptyDescription}
	}
	if err := ValidateDate(t.DueDate); err != nil {
		return err
	}
	if t.Priority < MinPriority || t.Priority > MaxPriority {
		return &ValidationError{Field: "priority", Err: fmt.Errorf("%w, got %d", ErrInvalidPriority, t.Priority)}
	}
	for _, tag := range t.Tags {
		if !IsValidTag(tag) {
			return &ValidationError{Field: "tags", Err: fmt.Errorf("%w: %q", ErrInvalidTag, tag)}
		}
	}
	if err := t.Recurrence.Validate(); err != nil {
		return &ValidationError{Field: "recurrenceRule", Err: fmt.Errorf("%w: %v", ErrInvalidRule, err)}
	}
	if t.Recurrence.EndDate != "" && !dates.IsValid(t.Recurrence.EndDate) {
		return &ValidationError{Field: "recurrenceRule.endDate", Err: ErrInvalidDate}
	}
	for i := range t.Subtasks {
		if err := Validate(&t.Subtasks[i]); err != nil {
			var ve *ValidationError
			if errors.As(err, &ve) {
				return &ValidationError{Field: fmt.Sprintf("subtasks[%d].%s", i, ve.Field), Err: ve.Err}
			}
			return err
		}
	}
	return nil
}

// SanitizeInput trims s and collapses internal runs of whitespace.
func SanitizeInput(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Truncate shortens s to at most max runes, ending in "..." when cut.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
