package service

import (
	"context"
	"log/slog"

	"github.com/mtlprog/taskflow/internal/domain"
	"github.com/mtlprog/taskflow/internal/engine"
)

// ListCategories returns all categories. With recount set, each TaskCount is
// recomputed from the task snapshot and drifted counters are corrected in the store.
func (s *TaskService) ListCategories(ctx context.Context, recount bool) ([]domain.Category, error) {
	categories, err := s.categories.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	if !recount {
		return categories, nil
	}

	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return nil, err
	}
	counts := engine.CountByCategory(tasks)

	for i := range categories {
		actual := counts[categories[i].Name]
		if drift := actual - categories[i].TaskCount; drift != 0 {
			s.adjustTaskCount(ctx, categories[i].Name, drift)
			slog.Info("category count corrected",
				"category", categories[i].Name,
				"stored", categories[i].TaskCount,
				"actual", actual,
			)
			categories[i].TaskCount = actual
		}
	}
	return categories, nil
}

// GetCategory returns a category by ID.
func (s *TaskService) GetCategory(ctx context.Context, id int64) (domain.Category, error) {
	return s.categories.GetCategory(ctx, id)
}

// CreateCategory adds a category. An empty color falls back to the default category color.
func (s *TaskService) CreateCategory(ctx context.Context, name, color string) (domain.Category, error) {
	name, err := s.validator.CategoryName(name)
	if err != nil {
		return domain.Category{}, err
	}
	if color == "" {
		color = s.defaultColor
	}

	c, err := s.categories.CreateCategory(ctx, name, color)
	if err != nil {
		return domain.Category{}, err
	}

	slog.Info("category created", "category_id", c.ID, "name", c.Name)

	return c, nil
}

// UpdateCategory renames or recolors a category. Tasks are not rewritten,
// so a rename leaves existing tasks pointing at the old name.
func (s *TaskService) UpdateCategory(ctx context.Context, id int64, patch domain.CategoryPatch) (domain.Category, error) {
	if patch.Name != nil {
		name, err := s.validator.CategoryName(*patch.Name)
		if err != nil {
			return domain.Category{}, err
		}
		patch.Name = &name
	}

	c, err := s.categories.UpdateCategory(ctx, id, patch)
	if err != nil {
		return domain.Category{}, err
	}

	slog.Info("category updated", "category_id", c.ID, "name", c.Name)

	return c, nil
}

// DeleteCategory removes a category. Its tasks keep the dangling name.
func (s *TaskService) DeleteCategory(ctx context.Context, id int64) error {
	if err := s.categories.DeleteCategory(ctx, id); err != nil {
		return err
	}

	slog.Info("category deleted", "category_id", id)

	return nil
}
