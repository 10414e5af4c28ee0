package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtlprog/taskflow/internal/domain"
	"github.com/mtlprog/taskflow/internal/engine"
)

func fixtureTasks() []domain.Task {
	base := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	doneAt := base.Add(48 * time.Hour)
	return []domain.Task{
		{ID: 1, Title: "Prepare quarterly report", Description: "Numbers for Q3", Priority: domain.PriorityHigh, Category: "Work", CreatedAt: base},
		{ID: 2, Title: "Buy groceries", Priority: domain.PriorityLow, Category: "Shopping", Completed: true, CompletedAt: &doneAt, CreatedAt: base.Add(time.Hour)},
		{ID: 3, Title: "Dentist appointment", Description: "Call to REPORT insurance", Priority: domain.PriorityMedium, Category: "Health", CreatedAt: base.Add(2 * time.Hour)},
		{ID: 4, Title: "Fix login bug", Priority: domain.PriorityHigh, Category: "Work", Completed: true, CompletedAt: &doneAt, CreatedAt: base.Add(3 * time.Hour)},
		{ID: 5, Title: "Plan vacation", Priority: domain.PriorityMedium, Category: "work", CreatedAt: base.Add(4 * time.Hour)},
	}
}

func ids(tasks []domain.Task) []int64 {
	out := make([]int64, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestFilterTasks(t *testing.T) {
	tests := []struct {
		name     string
		criteria engine.Criteria
		want     []int64
	}{
		{"defaults are identity", engine.DefaultCriteria(), []int64{1, 2, 3, 4, 5}},
		{"zero value is identity", engine.Criteria{}, []int64{1, 2, 3, 4, 5}},
		{"active", engine.Criteria{Status: engine.StatusActive}, []int64{1, 3, 5}},
		{"completed", engine.Criteria{Status: engine.StatusCompleted, Priority: "all", Category: "all"}, []int64{2, 4}},
		{"priority", engine.Criteria{Priority: "high"}, []int64{1, 4}},
		{"category is case sensitive", engine.Criteria{Category: "Work"}, []int64{1, 4}},
		{"search title case-insensitive", engine.Criteria{Search: "REPORT"}, []int64{1, 3}},
		{"search description", engine.Criteria{Search: "q3"}, []int64{1}},
		{"search without match", engine.Criteria{Search: "zebra"}, []int64{}},
		{"all predicates combine with AND", engine.Criteria{Status: engine.StatusActive, Priority: "high", Category: "Work", Search: "report"}, []int64{1}},
		{"completed and high", engine.Criteria{Status: engine.StatusCompleted, Priority: "high"}, []int64{4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := engine.FilterTasks(fixtureTasks(), tt.criteria)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestFilterTasks_EmptyCollection(t *testing.T) {
	got, err := engine.FilterTasks(nil, engine.Criteria{Status: engine.StatusCompleted, Search: "x"})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFilterTasks_RejectsUnknownValues(t *testing.T) {
	_, err := engine.FilterTasks(fixtureTasks(), engine.Criteria{Status: "done"})
	assert.ErrorIs(t, err, domain.ErrInvalidFilter)

	_, err = engine.FilterTasks(fixtureTasks(), engine.Criteria{Priority: "urgent"})
	assert.ErrorIs(t, err, domain.ErrInvalidFilter)
}

func TestFilterTasks_SubsetAndIdempotent(t *testing.T) {
	tasks := fixtureTasks()
	criteria := []engine.Criteria{
		engine.DefaultCriteria(),
		{Status: engine.StatusActive},
		{Status: engine.StatusCompleted, Priority: "low"},
		{Category: "Work", Search: "o"},
		{Search: "nothing matches this"},
	}

	for _, c := range criteria {
		once, err := engine.FilterTasks(tasks, c)
		require.NoError(t, err)

		seen := make(map[int64]bool)
		for _, got := range once {
			assert.False(t, seen[got.ID], "duplicate task %d", got.ID)
			seen[got.ID] = true
			assert.Contains(t, tasks, got)
		}

		twice, err := engine.FilterTasks(once, c)
		require.NoError(t, err)
		assert.Equal(t, once, twice)
	}
}

func TestFilterTasks_DoesNotMutateInput(t *testing.T) {
	tasks := fixtureTasks()
	before := fixtureTasks()

	_, err := engine.FilterTasks(tasks, engine.Criteria{Status: engine.StatusActive})
	require.NoError(t, err)
	assert.Equal(t, before, tasks)
}

func TestCriteria_IsDefault(t *testing.T) {
	assert.True(t, engine.DefaultCriteria().IsDefault())
	assert.True(t, engine.Criteria{}.IsDefault())
	assert.False(t, engine.Criteria{Search: "a"}.IsDefault())
	assert.False(t, engine.Criteria{Category: "Work"}.IsDefault())
}
