package domain

import (
	"strings"
	"time"
)

// Priority represents the priority level of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// IsValid checks if the priority is one of the allowed values.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// Rank returns the ordering weight of the priority: high 3, medium 2, low 1.
// Unknown priorities rank 0 and sort after every known one.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// ParsePriority converts user input to a Priority.
// An empty string yields the default medium priority.
func ParsePriority(s string) (Priority, error) {
	if s == "" {
		return PriorityMedium, nil
	}
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", ErrInvalidPriority
	}
	return p, nil
}

// Task represents a user-created unit of work.
type Task struct {
	ID          int64
	Title       string
	Description string // empty means no description
	DueDate     *time.Time
	Priority    Priority
	Category    string // soft reference to Category.Name
	Completed   bool
	CreatedAt   time.Time
	CompletedAt *time.Time // set iff Completed
}

// HasDescription reports whether the task carries a description.
func (t *Task) HasDescription() bool {
	return t.Description != ""
}

// TaskDraft holds the fields supplied when creating a task.
// New tasks always start incomplete.
type TaskDraft struct {
	Title       string
	Description string
	DueDate     *time.Time
	Priority    Priority
	Category    string
}

// NewTask builds the record a store persists for a draft.
// The store assigns ID.
func NewTask(d TaskDraft, now time.Time) Task {
	return Task{
		Title:       d.Title,
		Description: d.Description,
		DueDate:     d.DueDate,
		Priority:    d.Priority,
		Category:    d.Category,
		CreatedAt:   now,
	}
}

// TaskPatch is a partial update. Nil fields are left unchanged.
// ClearDueDate removes the deadline and wins over DueDate.
type TaskPatch struct {
	Title        *string
	Description  *string
	DueDate      *time.Time
	ClearDueDate bool
	Priority     *Priority
	Category     *string
	Completed    *bool
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.DueDate == nil && !p.ClearDueDate &&
		p.Priority == nil && p.Category == nil && p.Completed == nil
}

// Apply returns a copy of t with the patch applied.
//
// CompletedAt follows the completion flag: a false->true flip stamps it with now,
// a true->false flip clears it, and every other change leaves it as it was.
// Stores persist the returned value in a single write.
func (t Task) Apply(p TaskPatch, now time.Time) Task {
	out := t

	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.ClearDueDate {
		out.DueDate = nil
	} else if p.DueDate != nil {
		due := *p.DueDate
		out.DueDate = &due
	}
	if p.Priority != nil {
		out.Priority = *p.Priority
	}
	if p.Category != nil {
		out.Category = *p.Category
	}

	if p.Completed != nil && *p.Completed != t.Completed {
		out.Completed = *p.Completed
		if out.Completed {
			stamp := now
			out.CompletedAt = &stamp
		} else {
			out.CompletedAt = nil
		}
	}

	return out
}
