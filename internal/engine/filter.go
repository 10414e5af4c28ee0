// Package engine holds the pure task query functions: filtering, sorting,
// due-date classification and statistics. Nothing here performs I/O or keeps state.
package engine

import (
	"fmt"
	"strings"

	"github.com/mtlprog/taskflow/internal/domain"
)

// All is the wildcard value for every enum criterion.
const All = "all"

// StatusFilter selects tasks by completion state.
type StatusFilter string

const (
	StatusAll       StatusFilter = All
	StatusActive    StatusFilter = "active"
	StatusCompleted StatusFilter = "completed"
)

// Criteria is a combination of task predicates. All predicates must hold.
// An empty Status, Priority or Category is treated as "all".
type Criteria struct {
	Status   StatusFilter
	Priority string // "all" or a domain.Priority value
	Category string // "all" or an exact category name
	Search   string
}

// DefaultCriteria returns criteria that match every task.
func DefaultCriteria() Criteria {
	return Criteria{Status: StatusAll, Priority: All, Category: All}
}

// IsDefault reports whether no predicate is active.
func (c Criteria) IsDefault() bool {
	return isAll(string(c.Status)) && isAll(c.Priority) && isAll(c.Category) && c.Search == ""
}

// Validate rejects unrecognized status or priority values.
func (c Criteria) Validate() error {
	switch c.Status {
	case "", StatusAll, StatusActive, StatusCompleted:
	default:
		return fmt.Errorf("%w: status %q", domain.ErrInvalidFilter, c.Status)
	}
	if !isAll(c.Priority) && !domain.Priority(c.Priority).IsValid() {
		return fmt.Errorf("%w: priority %q", domain.ErrInvalidFilter, c.Priority)
	}
	return nil
}

// Match reports whether a single task satisfies every predicate.
// c must already be valid.
func (c Criteria) Match(t *domain.Task) bool {
	switch c.Status {
	case StatusActive:
		if t.Completed {
			return false
		}
	case StatusCompleted:
		if !t.Completed {
			return false
		}
	}

	if !isAll(c.Priority) && string(t.Priority) != c.Priority {
		return false
	}

	if !isAll(c.Category) && t.Category != c.Category {
		return false
	}

	if c.Search != "" {
		needle := strings.ToLower(c.Search)
		inTitle := strings.Contains(strings.ToLower(t.Title), needle)
		inDescription := t.HasDescription() && strings.Contains(strings.ToLower(t.Description), needle)
		if !inTitle && !inDescription {
			return false
		}
	}

	return true
}

// FilterTasks returns the tasks matching c, in input order.
// The input slice is not modified.
func FilterTasks(tasks []domain.Task, c Criteria) ([]domain.Task, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	result := make([]domain.Task, 0, len(tasks))
	for i := range tasks {
		if c.Match(&tasks[i]) {
			result = append(result, tasks[i])
		}
	}
	return result, nil
}

func isAll(v string) bool {
	return v == "" || v == All
}
