// Package export renders task lists as Markdown, CSV, iCalendar or HTML.
package export

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nibzard/tasker/internal/dates"
	"github.com/nibzard/tasker/internal/task"
)

// Format is an export format.
type Format string

const (
	Markdown Format = "markdown"
	CSV      Format = "csv"
	ICS      Format = "ics"
	HTML     Format = "html"
)

// ErrUnknownFormat is returned by ParseFormat for an unsupported name.
var ErrUnknownFormat = errors.New("unknown export format")

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{Markdown, CSV, ICS, HTML}
}

// ParseFormat parses a format name. "md", "ical" and "htm" are accepted as
// aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "markdown", "md":
		return Markdown, nil
	case "csv":
		return CSV, nil
	case "ics", "ical", "icalendar":
		return ICS, nil
	case "html", "htm":
		return HTML, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownFormat)
}

// Extension returns the file extension for f, including the dot.
func (f Format) Extension() string {
	switch f {
	case Markdown:
		return ".md"
	case CSV:
		return ".csv"
	case ICS:
		return ".ics"
	case HTML:
		return ".html"
	}
	return ""
}

// Options controls an export.
type Options struct {
	// StoreID makes ICS UIDs unique across stores.
	StoreID string
	// Today decides which tasks are overdue. Zero means the local day of Now.
	Today dates.Date
	// Now stamps the export. Zero means time.Now().
	Now time.Time
	// Title heads Markdown and HTML output. Empty means "Tasks".
	Title string
}

func (o Options) withDefaults() Options {
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	if o.Today.IsZero() {
		o.Today = dates.Today(o.Now)
	}
	if o.Title == "" {
		o.Title = "Tasks"
	}
	if o.StoreID == "" {
		o.StoreID = "local"
	}
	return o
}

// Write renders tasks to w in format f.
func Write(w io.Writer, f Format, tasks []task.Task, opts Options) error {
	opts = opts.withDefaults()
	switch f {
	case Markdown:
		return writeMarkdown(w, tasks, opts)
	case CSV:
		return writeCSV(w, tasks)
	case ICS:
		return writeICS(w, tasks, opts)
	case HTML:
		return writeHTML(w, tasks, opts)
	}
	return fmt.Errorf("%q: %w", string(f), ErrUnknownFormat)
}

func statusLabel(t *task.Task) string {
	if t.Completed {
		return "completed"
	}
	return "pending"
}
