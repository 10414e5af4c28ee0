package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mtlprog/taskflow/internal/domain"
	"github.com/mtlprog/taskflow/internal/engine"
)

// TaskService composes a store with the query engine.
type TaskService struct {
	tasks        TaskStore
	categories   CategoryStore
	validator    *Validator
	now          func() time.Time
	defaultColor string
}

// Option configures a TaskService.
type Option func(*TaskService)

// WithClock overrides the clock used for due-date labels and overdue counts.
func WithClock(now func() time.Time) Option {
	return func(s *TaskService) {
		s.now = now
	}
}

// WithDefaultCategoryColor overrides the color shown for unknown categories.
func WithDefaultCategoryColor(color string) Option {
	return func(s *TaskService) {
		s.defaultColor = color
	}
}

// NewTaskService creates a new TaskService.
func NewTaskService(tasks TaskStore, categories CategoryStore, opts ...Option) *TaskService {
	s := &TaskService{
		tasks:        tasks,
		categories:   categories,
		validator:    NewValidator(),
		now:          time.Now,
		defaultColor: DefaultCategoryColor,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListQuery selects and orders the tasks returned by ListTasks.
type ListQuery struct {
	Criteria engine.Criteria
	Sort     engine.SortKey
}

// StatsReport is the aggregate view of the current task snapshot.
type StatsReport struct {
	engine.Stats
	Overdue int
}

// Snapshot is the full content of both stores, tasks decorated and in store order.
type Snapshot struct {
	Tasks      []TaskView
	Categories []domain.Category
}

// Ping reports store health when the task store supports it.
func (s *TaskService) Ping(ctx context.Context) error {
	if p, ok := s.tasks.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// ListTasks returns the filtered, sorted and decorated task list.
// Invalid criteria or sort keys fail before the store is read.
func (s *TaskService) ListTasks(ctx context.Context, q ListQuery) ([]TaskView, error) {
	if err := q.Criteria.Validate(); err != nil {
		return nil, err
	}
	if _, err := engine.ParseSortKey(string(q.Sort)); err != nil {
		return nil, err
	}

	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return nil, err
	}

	filtered, err := engine.FilterTasks(tasks, q.Criteria)
	if err != nil {
		return nil, err
	}
	sorted, err := engine.SortTasks(filtered, q.Sort)
	if err != nil {
		return nil, err
	}

	colors, err := s.colorIndex(ctx)
	if err != nil {
		return nil, err
	}

	return decorate(sorted, colors, s.now()), nil
}

// GetTask returns a single decorated task.
func (s *TaskService) GetTask(ctx context.Context, id int64) (TaskView, error) {
	task, err := s.tasks.Get(ctx, id)
	if err != nil {
		return TaskView{}, err
	}
	return s.Decorate(ctx, task)
}

// Decorate attaches the due-date label and category color to a task.
func (s *TaskService) Decorate(ctx context.Context, task domain.Task) (TaskView, error) {
	colors, err := s.colorIndex(ctx)
	if err != nil {
		return TaskView{}, err
	}

	return decorate([]domain.Task{task}, colors, s.now())[0], nil
}

// CreateTask validates the draft and stores a new incomplete task.
func (s *TaskService) CreateTask(ctx context.Context, draft domain.TaskDraft) (domain.Task, error) {
	draft, err := s.validator.Draft(draft)
	if err != nil {
		return domain.Task{}, err
	}

	task, err := s.tasks.Create(ctx, draft)
	if err != nil {
		return domain.Task{}, err
	}

	s.adjustTaskCount(ctx, task.Category, 1)

	slog.Info("task created",
		"task_id", task.ID,
		"priority", task.Priority,
		"category", task.Category,
	)

	return task, nil
}

// UpdateTask applies a partial update. Completion changes follow domain.Task.Apply.
func (s *TaskService) UpdateTask(ctx context.Context, id int64, patch domain.TaskPatch) (domain.Task, error) {
	patch, err := s.validator.Patch(patch)
	if err != nil {
		return domain.Task{}, err
	}

	var before domain.Task
	if patch.Category != nil {
		if before, err = s.tasks.Get(ctx, id); err != nil {
			return domain.Task{}, err
		}
	}

	task, err := s.tasks.Update(ctx, id, patch)
	if err != nil {
		return domain.Task{}, err
	}

	if patch.Category != nil && before.Category != task.Category {
		s.adjustTaskCount(ctx, before.Category, -1)
		s.adjustTaskCount(ctx, task.Category, 1)
	}

	slog.Info("task updated", "task_id", task.ID, "completed", task.Completed)

	return task, nil
}

// SetCompleted marks a task complete or incomplete.
func (s *TaskService) SetCompleted(ctx context.Context, id int64, completed bool) (domain.Task, error) {
	return s.UpdateTask(ctx, id, domain.TaskPatch{Completed: &completed})
}

// ToggleComplete flips a task's completion state.
func (s *TaskService) ToggleComplete(ctx context.Context, id int64) (domain.Task, error) {
	task, err := s.tasks.Get(ctx, id)
	if err != nil {
		return domain.Task{}, err
	}
	return s.SetCompleted(ctx, id, !task.Completed)
}

// DeleteTask removes a task and decrements its category counter.
func (s *TaskService) DeleteTask(ctx context.Context, id int64) error {
	task, err := s.tasks.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.tasks.Delete(ctx, id); err != nil {
		return err
	}

	s.adjustTaskCount(ctx, task.Category, -1)

	slog.Info("task deleted", "task_id", id)

	return nil
}

// ClearCompleted removes every completed task and returns how many were removed.
func (s *TaskService) ClearCompleted(ctx context.Context) (int64, error) {
	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return 0, err
	}
	perCategory := engine.CountByCategory(engine.GroupByStatus(tasks).Completed)

	n, err := s.tasks.DeleteCompleted(ctx)
	if err != nil {
		return 0, err
	}

	for name, count := range perCategory {
		s.adjustTaskCount(ctx, name, -count)
	}

	slog.Info("completed tasks cleared", "count", n)

	return n, nil
}

// Stats computes the aggregate statistics of the current snapshot.
func (s *TaskService) Stats(ctx context.Context) (StatsReport, error) {
	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return StatsReport{}, err
	}

	return StatsReport{
		Stats:   engine.ComputeStats(tasks),
		Overdue: engine.CountOverdue(tasks, s.now()),
	}, nil
}

// Snapshot returns every task and category as stored.
func (s *TaskService) Snapshot(ctx context.Context) (Snapshot, error) {
	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	categories, err := s.categories.ListCategories(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	colors := newColorIndex(categories, s.defaultColor)
	return Snapshot{
		Tasks:      decorate(tasks, colors, s.now()),
		Categories: categories,
	}, nil
}

func (s *TaskService) colorIndex(ctx context.Context) (colorIndex, error) {
	categories, err := s.categories.ListCategories(ctx)
	if err != nil {
		return colorIndex{}, fmt.Errorf("resolve category colors: %w", err)
	}
	return newColorIndex(categories, s.defaultColor), nil
}

// adjustTaskCount updates the advisory category counter.
// Failures are logged and never fail the task operation.
func (s *TaskService) adjustTaskCount(ctx context.Context, category string, delta int) {
	if category == "" || delta == 0 {
		return
	}
	if err := s.categories.AdjustTaskCount(ctx, category, delta); err != nil {
		slog.Warn("failed to adjust category task count",
			"category", category,
			"delta", delta,
			"error", err,
		)
	}
}
