// Package timeutil provides date-window helpers for the intro session tracker.
// Sessions are dated (not timestamped), statistics windows are inclusive on
// both ends, and either bound may be absent. All comparisons happen on
// day-truncated UTC values so the behavior does not depend on server timezone.
// No external dependencies - uses only standard library.
package timeutil

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for session dates and window bounds.
const DateLayout = "2006-01-02"

// Day truncates a time to midnight UTC of the same calendar day.
func Day(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// Date creates a day-truncated UTC time for the given calendar date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a day-truncated UTC time.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("timeutil: invalid date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate formats a time as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// Window is an inclusive date window. A nil bound means unbounded on
// that side.
type Window struct {
	From *time.Time
	To   *time.Time
}

// NewWindow builds a window from optional bounds, truncating both to days.
func NewWindow(from, to *time.Time) Window {
	w := Window{}
	if from != nil {
		d := Day(*from)
		w.From = &d
	}
	if to != nil {
		d := Day(*to)
		w.To = &d
	}
	return w
}

// Unbounded returns a window covering all time.
func Unbounded() Window {
	return Window{}
}

// IsValid reports whether From <= To (always true for half-open or
// unbounded windows).
func (w Window) IsValid() bool {
	if w.From == nil || w.To == nil {
		return true
	}
	return !w.From.After(*w.To)
}

// Contains reports whether a date falls inside the window, inclusive on
// both ends.
func (w Window) Contains(t time.Time) bool {
	d := Day(t)
	if w.From != nil && d.Before(*w.From) {
		return false
	}
	if w.To != nil && d.After(*w.To) {
		return false
	}
	return true
}

// String renders the window for logs, with "*" for an open side.
func (w Window) String() string {
	from, to := "*", "*"
	if w.From != nil {
		from = FormatDate(*w.From)
	}
	if w.To != nil {
		to = FormatDate(*w.To)
	}
	return fmt.Sprintf("[%s, %s]", from, to)
}

// MonthsBefore returns the date n calendar months before t, day-truncated.
// Used for inactivity cutoffs ("not led in N months").
func MonthsBefore(t time.Time, n int) time.Time {
	return Day(t).AddDate(0, -n, 0)
}

// TrailingMonths returns a window covering the n calendar months ending
// at now, inclusive. Used as the default statistics window.
func TrailingMonths(now time.Time, n int) Window {
	to := Day(now)
	from := MonthsBefore(now, n)
	return Window{From: &from, To: &to}
}
