package dto

import (
	"time"

	"github.com/mtlprog/taskflow/internal/domain"
	"github.com/mtlprog/taskflow/internal/engine"
	"github.com/mtlprog/taskflow/internal/service"
)

// DueLabelResponse is the urgency classification of a task's due date.
type DueLabelResponse struct {
	Text    string `json:"text"`
	Urgent  bool   `json:"urgent"`
	Overdue bool   `json:"overdue"`
	Tone    string `json:"tone"`
}

// TaskResponse represents a task with its display decorations.
type TaskResponse struct {
	ID            int64             `json:"id"`
	Title         string            `json:"title"`
	Description   string            `json:"description,omitempty"`
	DueDate       *time.Time        `json:"due_date"`
	Due           *DueLabelResponse `json:"due"`
	Priority      string            `json:"priority"`
	Category      string            `json:"category"`
	CategoryColor string            `json:"category_color"`
	Completed     bool              `json:"completed"`
	CreatedAt     time.Time         `json:"created_at"`
	CompletedAt   *time.Time        `json:"completed_at"`
}

// TasksListResponse represents the response for GET /tasks.
type TasksListResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	Total int            `json:"total"`
}

// StatsResponse represents the response for GET /stats.
type StatsResponse struct {
	Total          int `json:"total"`
	Active         int `json:"active"`
	Completed      int `json:"completed"`
	CompletionRate int `json:"completion_rate"`
	Overdue        int `json:"overdue"`
}

// CategoryResponse represents a category.
type CategoryResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	TaskCount int    `json:"task_count"`
}

// CategoriesListResponse represents the response for GET /categories.
type CategoriesListResponse struct {
	Categories []CategoryResponse `json:"categories"`
}

// ClearCompletedResponse represents the response for DELETE /tasks/completed.
type ClearCompletedResponse struct {
	Deleted int64 `json:"deleted"`
}

// ToDueLabelResponse converts an engine label. A nil label yields nil.
func ToDueLabelResponse(l *engine.DueLabel) *DueLabelResponse {
	if l == nil {
		return nil
	}
	return &DueLabelResponse{
		Text:    l.Text,
		Urgent:  l.Urgent,
		Overdue: l.Overdue,
		Tone:    string(l.Tone),
	}
}

// ToTaskResponse converts a decorated task.
func ToTaskResponse(v service.TaskView) TaskResponse {
	return TaskResponse{
		ID:            v.ID,
		Title:         v.Title,
		Description:   v.Description,
		DueDate:       v.DueDate,
		Due:           ToDueLabelResponse(v.Due),
		Priority:      string(v.Priority),
		Category:      v.Category,
		CategoryColor: v.CategoryColor,
		Completed:     v.Completed,
		CreatedAt:     v.CreatedAt,
		CompletedAt:   v.CompletedAt,
	}
}

// ToTasksListResponse converts a task list.
func ToTasksListResponse(views []service.TaskView) TasksListResponse {
	tasks := make([]TaskResponse, len(views))
	for i, v := range views {
		tasks[i] = ToTaskResponse(v)
	}
	return TasksListResponse{Tasks: tasks, Total: len(tasks)}
}

// ToStatsResponse converts a stats report.
func ToStatsResponse(r service.StatsReport) StatsResponse {
	return StatsResponse{
		Total:          r.Total,
		Active:         r.Active,
		Completed:      r.Completed,
		CompletionRate: r.CompletionRate,
		Overdue:        r.Overdue,
	}
}

// ToCategoryResponse converts a category.
func ToCategoryResponse(c domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		Color:     c.Color,
		TaskCount: c.TaskCount,
	}
}

// ToCategoriesListResponse converts a category list.
func ToCategoriesListResponse(categories []domain.Category) CategoriesListResponse {
	out := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		out[i] = ToCategoryResponse(c)
	}
	return CategoriesListResponse{Categories: out}
}
