package service

import (
	"time"

	"github.com/mtlprog/taskflow/internal/domain"
	"github.com/mtlprog/taskflow/internal/engine"
)

// DefaultCategoryColor is used for tasks whose category is unset or unknown.
const DefaultCategoryColor = "#6B7280"

// TaskView is a task decorated for display: its due-date label relative to now
// and the color of the category it names.
type TaskView struct {
	domain.Task
	Due           *engine.DueLabel
	CategoryColor string
}

// colorIndex resolves category names to colors, falling back to a default.
type colorIndex struct {
	colors   map[string]string
	fallback string
}

func newColorIndex(categories []domain.Category, fallback string) colorIndex {
	colors := make(map[string]string, len(categories))
	for _, c := range categories {
		colors[c.Name] = c.Color
	}
	return colorIndex{colors: colors, fallback: fallback}
}

func (ci colorIndex) lookup(name string) string {
	if color, ok := ci.colors[name]; ok && color != "" {
		return color
	}
	return ci.fallback
}

// decorate builds the views for tasks, keeping their order.
func decorate(tasks []domain.Task, colors colorIndex, now time.Time) []TaskView {
	views := make([]TaskView, len(tasks))
	for i := range tasks {
		views[i] = TaskView{
			Task:          tasks[i],
			Due:           engine.ClassifyDueDate(tasks[i].DueDate, now),
			CategoryColor: colors.lookup(tasks[i].Category),
		}
	}
	return views
}
