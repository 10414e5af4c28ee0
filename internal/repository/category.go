package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mtlprog/taskflow/internal/domain"
)

var categoryColumns = []string{"id", "name", "color", "task_count"}

// CategoryRepository handles database operations for categories.
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

func scanCategory(row pgx.Row) (domain.Category, error) {
	var c domain.Category
	if err := row.Scan(&c.ID, &c.Name, &c.Color, &c.TaskCount); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Category{}, domain.ErrCategoryNotFound
		}
		return domain.Category{}, fmt.Errorf("scan category: %w", err)
	}
	return c, nil
}

// ListCategories retrieves all categories ordered by ID.
func (r *CategoryRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	query, args, err := psql.
		Select(categoryColumns...).
		From("categories").
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, domain.NewStoreError("list categories", fmt.Errorf("build ListCategories query: %w", err))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.NewStoreError("list categories", fmt.Errorf("query categories: %w", err))
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

// GetCategory retrieves a category by ID.
func (r *CategoryRepository) GetCategory(ctx context.Context, id int64) (domain.Category, error) {
	query, args, err := psql.
		Select(categoryColumns...).
		From("categories").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return domain.Category{}, domain.NewStoreError("get category", fmt.Errorf("build GetCategory query for category %d: %w", id, err))
	}

	c, err := scanCategory(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return domain.Category{}, domain.NewStoreError("get category", err)
	}
	return c, nil
}

// CreateCategory inserts a category. A duplicate name fails with ErrCategoryExists.
func (r *CategoryRepository) CreateCategory(ctx context.Context, name, color string) (domain.Category, error) {
	query, args, err := psql.
		Insert("categories").
		Columns("name", "color").
		Values(name, color).
		Suffix("RETURNING " + strings.Join(categoryColumns, ", ")).
		ToSql()
	if err != nil {
		return domain.Category{}, domain.NewStoreError("create category", fmt.Errorf("build CreateCategory query: %w", err))
	}

	c, err := scanCategory(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if isUniqueViolation(err) {
			err = fmt.Errorf("%w: %q", domain.ErrCategoryExists, name)
		}
		return domain.Category{}, domain.NewStoreError("create category", err)
	}
	return c, nil
}

// UpdateCategory renames or recolors a category. Tasks keep the name they were saved with.
func (r *CategoryRepository) UpdateCategory(ctx context.Context, id int64, patch domain.CategoryPatch) (domain.Category, error) {
	c, err := r.updateCategory(ctx, id, patch)
	if err != nil {
		return domain.Category{}, domain.NewStoreError("update category", err)
	}
	return c, nil
}

func (r *CategoryRepository) updateCategory(ctx context.Context, id int64, patch domain.CategoryPatch) (domain.Category, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Category{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	query, args, err := psql.
		Select(categoryColumns...).
		From("categories").
		Where(sq.Eq{"id": id}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return domain.Category{}, fmt.Errorf("build select query for category %d: %w", id, err)
	}

	current, err := scanCategory(tx.QueryRow(ctx, query, args...))
	if err != nil {
		return domain.Category{}, err
	}
	next := current.Apply(patch)

	query, args, err = psql.
		Update("categories").
		Set("name", next.Name).
		Set("color", next.Color).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return domain.Category{}, fmt.Errorf("build update query for category %d: %w", id, err)
	}

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return domain.Category{}, fmt.Errorf("%w: %q", domain.ErrCategoryExists, next.Name)
		}
		return domain.Category{}, fmt.Errorf("update category %d: %w", id, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Category{}, fmt.Errorf("commit transaction: %w", err)
	}
	return next, nil
}

// DeleteCategory removes a category. Tasks referencing it keep the dangling name.
func (r *CategoryRepository) DeleteCategory(ctx context.Context, id int64) error {
	query, args, err := psql.
		Delete("categories").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return domain.NewStoreError("delete category", fmt.Errorf("build DeleteCategory query for category %d: %w", id, err))
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return domain.NewStoreError("delete category", fmt.Errorf("delete category: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return domain.NewStoreError("delete category", domain.ErrCategoryNotFound)
	}
	return nil
}

// AdjustTaskCount adds delta to the named category's counter, never going below zero.
// An unknown name is ignored.
func (r *CategoryRepository) AdjustTaskCount(ctx context.Context, name string, delta int) error {
	query, args, err := psql.
		Update("categories").
		Set("task_count", sq.Expr("GREATEST(task_count + ?, 0)", delta)).
		Where(sq.Eq{"name": name}).
		ToSql()
	if err != nil {
		return domain.NewStoreError("adjust task count", fmt.Errorf("build AdjustTaskCount query: %w", err))
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return domain.NewStoreError("adjust task count", fmt.Errorf("adjust task count for %q: %w", name, err))
	}
	return nil
}
