package static_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtlprog/taskflow/internal/static"
)

func TestCategories(t *testing.T) {
	cats, err := static.Categories()
	require.NoError(t, err)
	require.NotEmpty(t, cats)

	seen := make(map[string]bool)
	for _, c := range cats {
		assert.NotEmpty(t, c.Name)
		assert.NotEmpty(t, c.Color)
		assert.False(t, seen[c.Name], "duplicate category %q", c.Name)
		seen[c.Name] = true
	}
}

func TestTasks(t *testing.T) {
	now := time.Date(2026, 10, 19, 15, 0, 0, 0, time.UTC)

	tasks, err := static.Tasks(now)
	require.NoError(t, err)
	require.NotEmpty(t, tasks)

	for _, task := range tasks {
		assert.NotEmpty(t, task.Title)
		assert.True(t, task.Priority.IsValid())
		assert.Equal(t, task.Completed, task.CompletedAt != nil, task.Title)
		assert.True(t, task.CreatedAt.Before(now))
	}

	first := tasks[0]
	require.NotNil(t, first.DueDate)
	assert.Equal(t, time.Date(2026, 10, 20, 17, 0, 0, 0, time.UTC), *first.DueDate)
}

func TestTasks_CategoriesExist(t *testing.T) {
	cats, err := static.Categories()
	require.NoError(t, err)
	tasks, err := static.Tasks(time.Now())
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, c := range cats {
		names[c.Name] = true
	}
	for _, task := range tasks {
		assert.True(t, names[task.Category], "task %q has unknown category %q", task.Title, task.Category)
	}
}
