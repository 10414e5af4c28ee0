package localstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/mtlprog/taskflow/internal/domain"
)

var taskColumns = []string{
	"id", "title", "description", "due_date", "priority",
	"category", "completed", "created_at", "completed_at",
}

func scanTask(row rowScanner) (domain.Task, error) {
	var (
		task        domain.Task
		dueDate     sql.NullString
		createdAt   string
		completedAt sql.NullString
	)
	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&dueDate,
		&task.Priority,
		&task.Category,
		&task.Completed,
		&createdAt,
		&completedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Task{}, domain.ErrTaskNotFound
		}
		return domain.Task{}, fmt.Errorf("scan task: %w", err)
	}

	if task.DueDate, err = parseNullTime(dueDate); err != nil {
		return domain.Task{}, err
	}
	if task.CompletedAt, err = parseNullTime(completedAt); err != nil {
		return domain.Task{}, err
	}
	if task.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return domain.Task{}, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	return task, nil
}

// List returns every task ordered by ID.
func (s *Store) List(ctx context.Context) ([]domain.Task, error) {
	query, args, err := sqlb.
		Select(taskColumns...).
		From("tasks").
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, domain.NewStoreError("list tasks", fmt.Errorf("build query: %w", err))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.NewStoreError("list tasks", err)
	}
	defer rows.Close()

	tasks := []domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, domain.NewStoreError("list tasks", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStoreError("list tasks", fmt.Errorf("iterate rows: %w", err))
	}
	return tasks, nil
}

// Get returns the task with the given ID.
func (s *Store) Get(ctx context.Context, id int64) (domain.Task, error) {
	task, err := getTask(ctx, s.db, id)
	if err != nil {
		return domain.Task{}, domain.NewStoreError("get task", err)
	}
	return task, nil
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getTask(ctx context.Context, q queryRower, id int64) (domain.Task, error) {
	query, args, err := sqlb.
		Select(taskColumns...).
		From("tasks").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return domain.Task{}, fmt.Errorf("build get task query: %w", err)
	}
	return scanTask(q.QueryRowContext(ctx, query, args...))
}

// Create inserts a new, incomplete task and returns it with ID and CreatedAt set.
func (s *Store) Create(ctx context.Context, draft domain.TaskDraft) (domain.Task, error) {
	task := domain.NewTask(draft, s.now())
	if err := insertTask(ctx, s.db, &task); err != nil {
		return domain.Task{}, domain.NewStoreError("create task", err)
	}
	return task, nil
}

// insertTask writes task and sets its ID.
func insertTask(ctx context.Context, q queryRower, task *domain.Task) error {
	query, args, err := sqlb.
		Insert("tasks").
		Columns("title", "description", "due_date", "priority", "category", "completed", "created_at", "completed_at").
		Values(
			task.Title,
			task.Description,
			formatNullTime(task.DueDate),
			string(task.Priority),
			task.Category,
			task.Completed,
			formatTime(task.CreatedAt),
			formatNullTime(task.CompletedAt),
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert task query: %w", err)
	}

	if err := q.QueryRowContext(ctx, query, args...).Scan(&task.ID); err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

// Update applies patch to the task in one transaction and returns the stored result.
// Completion state and its timestamp are written by the same statement.
func (s *Store) Update(ctx context.Context, id int64, patch domain.TaskPatch) (domain.Task, error) {
	task, err := s.update(ctx, id, patch)
	if err != nil {
		return domain.Task{}, domain.NewStoreError("update task", err)
	}
	return task, nil
}

func (s *Store) update(ctx context.Context, id int64, patch domain.TaskPatch) (domain.Task, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Task{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(tx)

	current, err := getTask(ctx, tx, id)
	if err != nil {
		return domain.Task{}, err
	}

	next := current.Apply(patch, s.now())

	query, args, err := sqlb.
		Update("tasks").
		Set("title", next.Title).
		Set("description", next.Description).
		Set("due_date", formatNullTime(next.DueDate)).
		Set("priority", string(next.Priority)).
		Set("category", next.Category).
		Set("completed", next.Completed).
		Set("completed_at", formatNullTime(next.CompletedAt)).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return domain.Task{}, fmt.Errorf("build update task query: %w", err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return domain.Task{}, fmt.Errorf("update task %d: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return domain.Task{}, fmt.Errorf("commit transaction: %w", err)
	}
	return next, nil
}

// Delete removes a task.
func (s *Store) Delete(ctx context.Context, id int64) error {
	query, args, err := sqlb.
		Delete("tasks").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return domain.NewStoreError("delete task", fmt.Errorf("build query: %w", err))
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return domain.NewStoreError("delete task", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.NewStoreError("delete task", err)
	}
	if n == 0 {
		return domain.NewStoreError("delete task", domain.ErrTaskNotFound)
	}
	return nil
}

// DeleteCompleted removes every completed task and returns how many were removed.
func (s *Store) DeleteCompleted(ctx context.Context) (int64, error) {
	query, args, err := sqlb.
		Delete("tasks").
		Where(sq.Eq{"completed": true}).
		ToSql()
	if err != nil {
		return 0, domain.NewStoreError("delete completed tasks", fmt.Errorf("build query: %w", err))
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, domain.NewStoreError("delete completed tasks", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, domain.NewStoreError("delete completed tasks", err)
	}
	return n, nil
}
