// Package static holds the fixture data embedded into the binary.
package static

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mtlprog/taskflow/internal/domain"
)

//go:embed categories.json
var categoriesJSON []byte

//go:embed tasks.json
var tasksJSON []byte

// SeedCategory is a category fixture.
type SeedCategory struct {
	Name      string `json:"name"`
	Color     string `json:"color"`
	TaskCount int    `json:"task_count"`
}

// SeedTask is a task fixture. Due dates are stored relative to the seeding day
// so a fresh store always shows a mix of overdue, urgent and distant tasks.
type SeedTask struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueInDays   *int   `json:"due_in_days"`
	Priority    string `json:"priority"`
	Category    string `json:"category"`
	Completed   bool   `json:"completed"`
}

// Categories decodes the category fixtures.
func Categories() ([]SeedCategory, error) {
	var out []SeedCategory
	if err := json.Unmarshal(categoriesJSON, &out); err != nil {
		return nil, fmt.Errorf("decode category fixtures: %w", err)
	}
	return out, nil
}

// Tasks decodes the task fixtures and resolves them against now.
// Completed fixtures are stamped as completed at now.
func Tasks(now time.Time) ([]domain.Task, error) {
	var seeds []SeedTask
	if err := json.Unmarshal(tasksJSON, &seeds); err != nil {
		return nil, fmt.Errorf("decode task fixtures: %w", err)
	}

	tasks := make([]domain.Task, 0, len(seeds))
	for i, s := range seeds {
		priority, err := domain.ParsePriority(s.Priority)
		if err != nil {
			return nil, fmt.Errorf("task fixture %d: %w", i, err)
		}

		t := domain.NewTask(domain.TaskDraft{
			Title:       s.Title,
			Description: s.Description,
			DueDate:     dueAt(now, s.DueInDays),
			Priority:    priority,
			Category:    s.Category,
		}, now.Add(-time.Duration(len(seeds)-i)*time.Hour))

		if s.Completed {
			t = t.Apply(domain.TaskPatch{Completed: &s.Completed}, now)
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// dueAt returns 17:00 on the day offset days from now, in now's location.
func dueAt(now time.Time, offset *int) *time.Time {
	if offset == nil {
		return nil
	}
	y, m, d := now.Date()
	due := time.Date(y, m, d+*offset, 17, 0, 0, 0, now.Location())
	return &due
}
