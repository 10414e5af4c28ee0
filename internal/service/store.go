package service

import (
	"context"

	"github.com/mtlprog/taskflow/internal/domain"
)

// TaskStore persists tasks. Every failure is a *domain.StoreError.
type TaskStore interface {
	List(ctx context.Context) ([]domain.Task, error)
	Get(ctx context.Context, id int64) (domain.Task, error)
	Create(ctx context.Context, draft domain.TaskDraft) (domain.Task, error)
	Update(ctx context.Context, id int64, patch domain.TaskPatch) (domain.Task, error)
	Delete(ctx context.Context, id int64) error
	DeleteCompleted(ctx context.Context) (int64, error)
}

// CategoryStore persists categories. Every failure is a *domain.StoreError.
type CategoryStore interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetCategory(ctx context.Context, id int64) (domain.Category, error)
	CreateCategory(ctx context.Context, name, color string) (domain.Category, error)
	UpdateCategory(ctx context.Context, id int64, patch domain.CategoryPatch) (domain.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
	AdjustTaskCount(ctx context.Context, name string, delta int) error
}

// Pinger is implemented by stores that can report their health.
type Pinger interface {
	Ping(ctx context.Context) error
}
