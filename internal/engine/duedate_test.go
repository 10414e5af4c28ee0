package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtlprog/taskflow/internal/domain"
	"github.com/mtlprog/taskflow/internal/engine"
)

// Monday afternoon.
var refNow = time.Date(2026, 10, 19, 15, 0, 0, 0, time.UTC)

func at(year int, month time.Month, day, hour, minute int) *time.Time {
	t := time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
	return &t
}

func TestClassifyDueDate(t *testing.T) {
	tests := []struct {
		name    string
		due     *time.Time
		text    string
		urgent  bool
		overdue bool
		tone    engine.Tone
	}{
		{"earlier today", at(2026, 10, 19, 8, 0), "Today", true, false, engine.ToneAccent},
		{"later today", at(2026, 10, 19, 23, 59), "Today", true, false, engine.ToneAccent},
		{"under a day ahead on next date", at(2026, 10, 20, 14, 0), "Tomorrow", true, false, engine.ToneWarning},
		{"yesterday", at(2026, 10, 18, 12, 0), "Yesterday", true, true, engine.ToneDanger},
		{"three days ago", at(2026, 10, 16, 15, 0), "3 days overdue", true, true, engine.ToneDanger},
		{"months ago", at(2026, 7, 19, 9, 0), "92 days overdue", true, true, engine.ToneDanger},
		{"in two days", at(2026, 10, 21, 9, 0), "In 2 days", true, false, engine.ToneWarning},
		{"in three days", at(2026, 10, 22, 9, 0), "In 3 days", true, false, engine.ToneWarning},
		{"in four days", at(2026, 10, 23, 9, 0), "In 4 days", false, false, engine.ToneWarning},
		{"in seven days", at(2026, 10, 26, 23, 0), "In 7 days", false, false, engine.ToneWarning},
		{"beyond a week", at(2026, 10, 27, 0, 0), "Oct 27, 2026", false, false, engine.ToneNeutral},
		{"next year", at(2027, 1, 5, 12, 0), "Jan 5, 2027", false, false, engine.ToneNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.ClassifyDueDate(tt.due, refNow)
			require.NotNil(t, got)
			assert.Equal(t, tt.text, got.Text)
			assert.Equal(t, tt.urgent, got.Urgent)
			assert.Equal(t, tt.overdue, got.Overdue)
			assert.Equal(t, tt.tone, got.Tone)
		})
	}
}

func TestClassifyDueDate_NoDueDate(t *testing.T) {
	assert.Nil(t, engine.ClassifyDueDate(nil, refNow))
}

func TestClassifyDueDate_CalendarDaysNotElapsedHours(t *testing.T) {
	lateEvening := time.Date(2026, 10, 19, 23, 30, 0, 0, time.UTC)
	shortlyAfterMidnight := at(2026, 10, 20, 0, 10)

	got := engine.ClassifyDueDate(shortlyAfterMidnight, lateEvening)
	require.NotNil(t, got)
	assert.Equal(t, "Tomorrow", got.Text)
}

func TestClassifyDueDate_UsesNowLocation(t *testing.T) {
	est := time.FixedZone("EST", -5*60*60)
	now := time.Date(2026, 10, 19, 10, 0, 0, 0, est)
	// 21:00 local on the same date, already the next date in UTC.
	due := at(2026, 10, 20, 2, 0)

	got := engine.ClassifyDueDate(due, now)
	require.NotNil(t, got)
	assert.Equal(t, "Today", got.Text)
}

func TestParseDueDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2026-10-20T09:30:00Z", time.Date(2026, 10, 20, 9, 30, 0, 0, time.UTC)},
		{"2026-10-20T09:30:00+02:00", time.Date(2026, 10, 20, 7, 30, 0, 0, time.UTC)},
		{"2026-10-20T09:30", time.Date(2026, 10, 20, 9, 30, 0, 0, time.UTC)},
		{"2026-10-20", time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := engine.ParseDueDate(tt.in, time.UTC)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.True(t, tt.want.Equal(*got), "got %s", got)
		})
	}
}

func TestParseDueDate_Empty(t *testing.T) {
	got, err := engine.ParseDueDate("  ", time.UTC)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestParseDueDate_Invalid(t *testing.T) {
	for _, in := range []string{"tomorrow", "2026-13-01", "20/10/2026"} {
		_, err := engine.ParseDueDate(in, time.UTC)
		assert.ErrorIs(t, err, domain.ErrInvalidDate, in)
	}
}

func TestClassifyDueDateString(t *testing.T) {
	got, err := engine.ClassifyDueDateString("2026-10-20", refNow)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Tomorrow", got.Text)
	assert.False(t, got.Overdue)

	_, err = engine.ClassifyDueDateString("not a date", refNow)
	assert.ErrorIs(t, err, domain.ErrInvalidDate)
}

func TestIsOverdue(t *testing.T) {
	assert.False(t, engine.IsOverdue(nil, refNow))
	assert.False(t, engine.IsOverdue(at(2026, 10, 19, 1, 0), refNow), "earlier today is not overdue")
	assert.True(t, engine.IsOverdue(at(2026, 10, 18, 23, 59), refNow))
	assert.False(t, engine.IsOverdue(at(2026, 10, 25, 0, 0), refNow))
}
