package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mtlprog/taskflow/internal/domain"
)

// taskColumns is the shared list of columns for task queries.
var taskColumns = []string{
	"id", "title", "description", "due_date", "priority",
	"category", "completed", "created_at", "completed_at",
}

// TaskRepository handles database operations for tasks.
type TaskRepository struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// TaskOption configures a TaskRepository.
type TaskOption func(*TaskRepository)

// WithClock overrides the clock used for created_at and completed_at stamps.
func WithClock(now func() time.Time) TaskOption {
	return func(r *TaskRepository) {
		r.now = now
	}
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool, opts ...TaskOption) *TaskRepository {
	r := &TaskRepository{pool: pool, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Ping checks database connectivity.
func (r *TaskRepository) Ping(ctx context.Context) error {
	return domain.NewStoreError("ping", r.pool.Ping(ctx))
}

// scanTask scans a single row into a Task struct.
func scanTask(row pgx.Row) (domain.Task, error) {
	var task domain.Task
	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.DueDate,
		&task.Priority,
		&task.Category,
		&task.Completed,
		&task.CreatedAt,
		&task.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Task{}, domain.ErrTaskNotFound
		}
		return domain.Task{}, fmt.Errorf("scan task: %w", err)
	}
	return task, nil
}

// scanTasks scans multiple rows into a slice of Task structs.
func scanTasks(rows pgx.Rows) ([]domain.Task, error) {
	defer rows.Close()

	tasks := []domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return tasks, nil
}

// List retrieves all tasks ordered by ID.
func (r *TaskRepository) List(ctx context.Context) ([]domain.Task, error) {
	query, args, err := psql.
		Select(taskColumns...).
		From("tasks").
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, domain.NewStoreError("list tasks", fmt.Errorf("build List query: %w", err))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.NewStoreError("list tasks", fmt.Errorf("query tasks: %w", err))
	}

	tasks, err := scanTasks(rows)
	if err != nil {
		return nil, domain.NewStoreError("list tasks", err)
	}
	return tasks, nil
}

// Get retrieves a task by ID.
func (r *TaskRepository) Get(ctx context.Context, id int64) (domain.Task, error) {
	query, args, err := psql.
		Select(taskColumns...).
		From("tasks").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return domain.Task{}, domain.NewStoreError("get task", fmt.Errorf("build Get query for task %d: %w", id, err))
	}

	task, err := scanTask(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return domain.Task{}, domain.NewStoreError("get task", err)
	}
	return task, nil
}

// getForUpdate retrieves a task by ID with FOR UPDATE lock (within transaction).
func (r *TaskRepository) getForUpdate(ctx context.Context, tx pgx.Tx, id int64) (domain.Task, error) {
	query, args, err := psql.
		Select(taskColumns...).
		From("tasks").
		Where(sq.Eq{"id": id}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return domain.Task{}, fmt.Errorf("build getForUpdate query for task %d: %w", id, err)
	}

	return scanTask(tx.QueryRow(ctx, query, args...))
}

// Create inserts a new incomplete task.
// Returns the created task with ID and CreatedAt populated.
func (r *TaskRepository) Create(ctx context.Context, draft domain.TaskDraft) (domain.Task, error) {
	task := domain.NewTask(draft, r.now())

	query, args, err := psql.
		Insert("tasks").
		Columns("title", "description", "due_date", "priority", "category", "completed", "created_at").
		Values(
			task.Title,
			task.Description,
			task.DueDate,
			task.Priority,
			task.Category,
			task.Completed,
			task.CreatedAt,
		).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return domain.Task{}, domain.NewStoreError("create task", fmt.Errorf("build Create query for task: %w", err))
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&task.ID, &task.CreatedAt); err != nil {
		return domain.Task{}, domain.NewStoreError("create task", fmt.Errorf("create task: %w", err))
	}
	return task, nil
}

// Update applies a patch under a row lock and persists the result with one UPDATE,
// so completed and completed_at always change together.
func (r *TaskRepository) Update(ctx context.Context, id int64, patch domain.TaskPatch) (domain.Task, error) {
	task, err := r.update(ctx, id, patch)
	if err != nil {
		return domain.Task{}, domain.NewStoreError("update task", err)
	}
	return task, nil
}

func (r *TaskRepository) update(ctx context.Context, id int64, patch domain.TaskPatch) (domain.Task, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Task{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	current, err := r.getForUpdate(ctx, tx, id)
	if err != nil {
		return domain.Task{}, err
	}

	next := current.Apply(patch, r.now())

	query, args, err := psql.
		Update("tasks").
		Set("title", next.Title).
		Set("description", next.Description).
		Set("due_date", next.DueDate).
		Set("priority", next.Priority).
		Set("category", next.Category).
		Set("completed", next.Completed).
		Set("completed_at", next.CompletedAt).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(taskColumns, ", ")).
		ToSql()
	if err != nil {
		return domain.Task{}, fmt.Errorf("build Update query for task %d: %w", id, err)
	}

	stored, err := scanTask(tx.QueryRow(ctx, query, args...))
	if err != nil {
		return domain.Task{}, fmt.Errorf("update task %d: %w", id, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Task{}, fmt.Errorf("commit transaction: %w", err)
	}
	return stored, nil
}

// Delete removes a task by ID.
func (r *TaskRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := psql.
		Delete("tasks").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return domain.NewStoreError("delete task", fmt.Errorf("build Delete query for task %d: %w", id, err))
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return domain.NewStoreError("delete task", fmt.Errorf("delete task: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return domain.NewStoreError("delete task", domain.ErrTaskNotFound)
	}
	return nil
}

// DeleteCompleted removes every completed task and returns how many were removed.
func (r *TaskRepository) DeleteCompleted(ctx context.Context) (int64, error) {
	query, args, err := psql.
		Delete("tasks").
		Where(sq.Eq{"completed": true}).
		ToSql()
	if err != nil {
		return 0, domain.NewStoreError("delete completed tasks", fmt.Errorf("build DeleteCompleted query: %w", err))
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, domain.NewStoreError("delete completed tasks", fmt.Errorf("delete completed tasks: %w", err))
	}
	return tag.RowsAffected(), nil
}
