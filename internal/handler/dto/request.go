package dto

import (
	"time"

	"github.com/mtlprog/taskflow/internal/domain"
	"github.com/mtlprog/taskflow/internal/engine"
)

// CreateTaskRequest represents the request body for POST /tasks.
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	DueDate     string `json:"due_date,omitempty"` // RFC 3339, "2006-01-02T15:04" or "2006-01-02"
	Priority    string `json:"priority,omitempty"` // low, medium (default), high
	Category    string `json:"category,omitempty"`
}

// ToDraft converts the request into a task draft. Dates without an offset are read in loc.
func (r CreateTaskRequest) ToDraft(loc *time.Location) (domain.TaskDraft, error) {
	due, err := engine.ParseDueDate(r.DueDate, loc)
	if err != nil {
		return domain.TaskDraft{}, err
	}
	priority, err := domain.ParsePriority(r.Priority)
	if err != nil {
		return domain.TaskDraft{}, err
	}
	return domain.TaskDraft{
		Title:       r.Title,
		Description: r.Description,
		DueDate:     due,
		Priority:    priority,
		Category:    r.Category,
	}, nil
}

// UpdateTaskRequest represents the request body for PATCH /tasks/{id}.
// Omitted fields are left unchanged; an empty due_date removes the deadline.
type UpdateTaskRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	DueDate     *string `json:"due_date,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	Category    *string `json:"category,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

// ToPatch converts the request into a task patch.
func (r UpdateTaskRequest) ToPatch(loc *time.Location) (domain.TaskPatch, error) {
	patch := domain.TaskPatch{
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		Completed:   r.Completed,
	}

	if r.DueDate != nil {
		due, err := engine.ParseDueDate(*r.DueDate, loc)
		if err != nil {
			return domain.TaskPatch{}, err
		}
		if due == nil {
			patch.ClearDueDate = true
		} else {
			patch.DueDate = due
		}
	}

	if r.Priority != nil {
		if *r.Priority == "" {
			return domain.TaskPatch{}, domain.ErrInvalidPriority
		}
		p, err := domain.ParsePriority(*r.Priority)
		if err != nil {
			return domain.TaskPatch{}, err
		}
		patch.Priority = &p
	}

	return patch, nil
}

// CreateCategoryRequest represents the request body for POST /categories.
type CreateCategoryRequest struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// UpdateCategoryRequest represents the request body for PATCH /categories/{id}.
type UpdateCategoryRequest struct {
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
}

// ToPatch converts the request into a category patch.
func (r UpdateCategoryRequest) ToPatch() domain.CategoryPatch {
	return domain.CategoryPatch{Name: r.Name, Color: r.Color}
}

// ListTasksQuery represents query parameters for GET /tasks.
type ListTasksQuery struct {
	Status   string // ?status=all|active|completed
	Priority string // ?priority=all|low|medium|high
	Category string // ?category=all|<name>
	Search   string // ?search=milk
	Sort     string // ?sort=priority|dueDate|alphabetical|created
}

// Criteria returns the engine criteria for the query.
func (q ListTasksQuery) Criteria() engine.Criteria {
	return engine.Criteria{
		Status:   engine.StatusFilter(q.Status),
		Priority: q.Priority,
		Category: q.Category,
		Search:   q.Search,
	}
}
