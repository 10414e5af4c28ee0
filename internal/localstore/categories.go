package localstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/mtlprog/taskflow/internal/domain"
)

var categoryColumns = []string{"id", "name", "color", "task_count"}

func scanCategory(row rowScanner) (domain.Category, error) {
	var c domain.Category
	if err := row.Scan(&c.ID, &c.Name, &c.Color, &c.TaskCount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Category{}, domain.ErrCategoryNotFound
		}
		return domain.Category{}, fmt.Errorf("scan category: %w", err)
	}
	return c, nil
}

// ListCategories returns every category ordered by ID.
func (s *Store) ListCategories(ctx context.Context) ([]domain.Category, error) {
	query, args, err := sqlb.
		Select(categoryColumns...).
		From("categories").
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, domain.NewStoreError("list categories", fmt.Errorf("build query: %w", err))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.NewStoreError("list categories", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, domain.NewStoreError("list categories", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStoreError("list categories", fmt.Errorf("iterate rows: %w", err))
	}
	return categories, nil
}

// GetCategory returns the category with the given ID.
func (s *Store) GetCategory(ctx context.Context, id int64) (domain.Category, error) {
	c, err := getCategory(ctx, s.db, id)
	if err != nil {
		return domain.Category{}, domain.NewStoreError("get category", err)
	}
	return c, nil
}

func getCategory(ctx context.Context, q queryRower, id int64) (domain.Category, error) {
	query, args, err := sqlb.
		Select(categoryColumns...).
		From("categories").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return domain.Category{}, fmt.Errorf("build get category query: %w", err)
	}
	return scanCategory(q.QueryRowContext(ctx, query, args...))
}

// CreateCategory inserts a category with a zero task count.
// A duplicate name fails with ErrCategoryExists.
func (s *Store) CreateCategory(ctx context.Context, name, color string) (domain.Category, error) {
	query, args, err := sqlb.
		Insert("categories").
		Columns("name", "color").
		Values(name, color).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return domain.Category{}, domain.NewStoreError("create category", fmt.Errorf("build query: %w", err))
	}

	c := domain.Category{Name: name, Color: color}
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&c.ID); err != nil {
		if isUniqueViolation(err) {
			return domain.Category{}, domain.NewStoreError("create category", fmt.Errorf("%w: %q", domain.ErrCategoryExists, name))
		}
		return domain.Category{}, domain.NewStoreError("create category", err)
	}
	return c, nil
}

// UpdateCategory renames or recolors a category. Tasks keep the name they were saved with.
func (s *Store) UpdateCategory(ctx context.Context, id int64, patch domain.CategoryPatch) (domain.Category, error) {
	c, err := s.updateCategory(ctx, id, patch)
	if err != nil {
		return domain.Category{}, domain.NewStoreError("update category", err)
	}
	return c, nil
}

func (s *Store) updateCategory(ctx context.Context, id int64, patch domain.CategoryPatch) (domain.Category, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Category{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(tx)

	current, err := getCategory(ctx, tx, id)
	if err != nil {
		return domain.Category{}, err
	}
	next := current.Apply(patch)

	query, args, err := sqlb.
		Update("categories").
		Set("name", next.Name).
		Set("color", next.Color).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return domain.Category{}, fmt.Errorf("build update category query: %w", err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return domain.Category{}, fmt.Errorf("%w: %q", domain.ErrCategoryExists, next.Name)
		}
		return domain.Category{}, fmt.Errorf("update category %d: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return domain.Category{}, fmt.Errorf("commit transaction: %w", err)
	}
	return next, nil
}

// DeleteCategory removes a category. Tasks referencing it keep the dangling name.
func (s *Store) DeleteCategory(ctx context.Context, id int64) error {
	query, args, err := sqlb.
		Delete("categories").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return domain.NewStoreError("delete category", fmt.Errorf("build query: %w", err))
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return domain.NewStoreError("delete category", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.NewStoreError("delete category", err)
	}
	if n == 0 {
		return domain.NewStoreError("delete category", domain.ErrCategoryNotFound)
	}
	return nil
}

// AdjustTaskCount adds delta to the named category's counter, never going below zero.
// An unknown name is ignored.
func (s *Store) AdjustTaskCount(ctx context.Context, name string, delta int) error {
	query, args, err := sqlb.
		Update("categories").
		Set("task_count", sq.Expr("MAX(task_count + ?, 0)", delta)).
		Where(sq.Eq{"name": name}).
		ToSql()
	if err != nil {
		return domain.NewStoreError("adjust task count", fmt.Errorf("build query: %w", err))
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return domain.NewStoreError("adjust task count", err)
	}
	return nil
}
