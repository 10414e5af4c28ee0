package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/mtlprog/taskflow/internal/domain"
)

// DisplayDateLayout is the calendar format used for due dates more than a week away.
const DisplayDateLayout = "Jan 2, 2006"

// urgentWithinDays marks upcoming due dates as urgent when at most this many days away.
const urgentWithinDays = 3

// labelledWithinDays is the horizon for relative "In N days" labels.
const labelledWithinDays = 7

// Tone is the display color family of a due-date label.
type Tone string

const (
	ToneAccent  Tone = "accent"
	ToneWarning Tone = "warning"
	ToneDanger  Tone = "danger"
	ToneNeutral Tone = "neutral"
)

// DueLabel is the urgency classification of a due date.
type DueLabel struct {
	Text    string
	Urgent  bool
	Overdue bool
	Tone    Tone
}

// inputLayouts are the accepted due-date input formats, tried in order.
var inputLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.DateOnly,
}

// ParseDueDate parses a due-date string. Layouts without an offset are read in loc.
// An empty (or blank) string means no due date and returns nil.
func ParseDueDate(s string, loc *time.Location) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if loc == nil {
		loc = time.UTC
	}

	for _, layout := range inputLayouts {
		t, err := time.ParseInLocation(layout, s, loc)
		if err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrInvalidDate, s)
}

// ClassifyDueDate maps a due date to its display label relative to now.
// Returns nil when there is no due date.
//
// Differences are counted in calendar days in now's location, so a due time
// 23 hours ahead that falls on the next date is "Tomorrow".
func ClassifyDueDate(due *time.Time, now time.Time) *DueLabel {
	if due == nil {
		return nil
	}

	diff := calendarDaysBetween(now, due.In(now.Location()))

	switch {
	case diff == 0:
		return &DueLabel{Text: "Today", Urgent: true, Tone: ToneAccent}
	case diff == 1:
		return &DueLabel{Text: "Tomorrow", Urgent: true, Tone: ToneWarning}
	case diff == -1:
		return &DueLabel{Text: "Yesterday", Urgent: true, Overdue: true, Tone: ToneDanger}
	case diff < 0:
		return &DueLabel{
			Text:    fmt.Sprintf("%d %s overdue", -diff, pluralDays(-diff)),
			Urgent:  true,
			Overdue: true,
			Tone:    ToneDanger,
		}
	case diff <= labelledWithinDays:
		return &DueLabel{
			Text:   fmt.Sprintf("In %d %s", diff, pluralDays(diff)),
			Urgent: diff <= urgentWithinDays,
			Tone:   ToneWarning,
		}
	default:
		return &DueLabel{Text: due.In(now.Location()).Format(DisplayDateLayout), Tone: ToneNeutral}
	}
}

// ClassifyDueDateString parses s and classifies it. Unparsable input returns ErrInvalidDate.
func ClassifyDueDateString(s string, now time.Time) (*DueLabel, error) {
	due, err := ParseDueDate(s, now.Location())
	if err != nil {
		return nil, err
	}
	return ClassifyDueDate(due, now), nil
}

// IsOverdue reports whether due falls on a calendar day before now's.
// A task due earlier today is not overdue.
func IsOverdue(due *time.Time, now time.Time) bool {
	if due == nil {
		return false
	}
	return calendarDaysBetween(now, due.In(now.Location())) < 0
}

// calendarDaysBetween returns the number of calendar days from a to b.
// Both dates are compared by their wall-clock date, so DST shifts do not matter.
func calendarDaysBetween(a, b time.Time) int {
	return int(civilDate(b).Sub(civilDate(a)).Hours() / 24)
}

func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func pluralDays(n int) string {
	if n == 1 {
		return "day"
	}
	return "days"
}
