package engine

import (
	"math"
	"time"

	"github.com/mtlprog/taskflow/internal/domain"
)

// Stats summarizes a task collection.
type Stats struct {
	Total          int
	Active         int
	Completed      int
	CompletionRate int // percent, rounded to the nearest integer
}

// ComputeStats counts tasks by completion state. An empty collection yields all zeros.
func ComputeStats(tasks []domain.Task) Stats {
	completed := 0
	for i := range tasks {
		if tasks[i].Completed {
			completed++
		}
	}

	total := len(tasks)
	return Stats{
		Total:          total,
		Active:         total - completed,
		Completed:      completed,
		CompletionRate: completionRate(completed, total),
	}
}

func completionRate(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) * 100 / float64(total)))
}

// StatusGroups splits tasks by completion state.
type StatusGroups struct {
	Active    []domain.Task
	Completed []domain.Task
}

// GroupByStatus partitions tasks into active and completed, keeping input order.
func GroupByStatus(tasks []domain.Task) StatusGroups {
	groups := StatusGroups{
		Active:    []domain.Task{},
		Completed: []domain.Task{},
	}
	for _, t := range tasks {
		if t.Completed {
			groups.Completed = append(groups.Completed, t)
		} else {
			groups.Active = append(groups.Active, t)
		}
	}
	return groups
}

// CountByCategory counts tasks per category name. Tasks without a category are skipped.
func CountByCategory(tasks []domain.Task) map[string]int {
	counts := make(map[string]int)
	for i := range tasks {
		if name := tasks[i].Category; name != "" {
			counts[name]++
		}
	}
	return counts
}

// CountOverdue counts incomplete tasks whose due date lies on a day before now.
func CountOverdue(tasks []domain.Task, now time.Time) int {
	n := 0
	for i := range tasks {
		if !tasks[i].Completed && IsOverdue(tasks[i].DueDate, now) {
			n++
		}
	}
	return n
}
