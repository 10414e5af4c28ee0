package repository_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"

	"github.com/mtlprog/taskflow/internal/database"
	"github.com/mtlprog/taskflow/internal/domain"
	"github.com/mtlprog/taskflow/internal/repository"
)

// RepositoryTestSuite runs the store contract against PostgreSQL.
type RepositoryTestSuite struct {
	suite.Suite
	pool       *pgxpool.Pool
	tasks      *repository.TaskRepository
	categories *repository.CategoryRepository
	now        time.Time
}

func TestRepositoryTestSuite(t *testing.T) {
	if os.Getenv("DATABASE_URL") == "" {
		t.Skip("DATABASE_URL not set")
	}
	suite.Run(t, new(RepositoryTestSuite))
}

// SetupSuite runs once before all tests.
func (s *RepositoryTestSuite) SetupSuite() {
	ctx := context.Background()

	db, err := database.New(ctx, os.Getenv("DATABASE_URL"))
	s.Require().NoError(err, "failed to connect to database")
	s.pool = db.Pool()

	s.Require().NoError(database.RunMigrations(ctx, s.pool), "failed to run migrations")

	s.now = time.Date(2026, 10, 19, 15, 0, 0, 0, time.UTC)
	s.tasks = repository.NewTaskRepository(s.pool, repository.WithClock(func() time.Time { return s.now }))
	s.categories = repository.NewCategoryRepository(s.pool)
}

// SetupTest runs before each test.
func (s *RepositoryTestSuite) SetupTest() {
	_, err := s.pool.Exec(context.Background(), "TRUNCATE tasks, categories RESTART IDENTITY")
	s.Require().NoError(err, "failed to truncate tables")
	s.now = time.Date(2026, 10, 19, 15, 0, 0, 0, time.UTC)
}

// TearDownSuite runs once after all tests.
func (s *RepositoryTestSuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *RepositoryTestSuite) createTask(title string) domain.Task {
	task, err := s.tasks.Create(context.Background(), domain.TaskDraft{
		Title:    title,
		Priority: domain.PriorityMedium,
		Category: "Work",
	})
	s.Require().NoError(err)
	return task
}

func (s *RepositoryTestSuite) TestCreateAndGet() {
	ctx := context.Background()
	due := time.Date(2026, 10, 21, 9, 30, 0, 0, time.UTC)

	created, err := s.tasks.Create(ctx, domain.TaskDraft{
		Title:    "Write report",
		DueDate:  &due,
		Priority: domain.PriorityHigh,
	})
	s.Require().NoError(err)
	s.Positive(created.ID)

	got, err := s.tasks.Get(ctx, created.ID)
	s.Require().NoError(err)
	s.Equal("Write report", got.Title)
	s.Equal(domain.PriorityHigh, got.Priority)
	s.Require().NotNil(got.DueDate)
	s.True(got.DueDate.Equal(due))
	s.False(got.Completed)
	s.Nil(got.CompletedAt)
}

func (s *RepositoryTestSuite) TestGet_NotFound() {
	_, err := s.tasks.Get(context.Background(), 12345)
	s.ErrorIs(err, domain.ErrTaskNotFound)
	s.True(domain.IsStoreError(err))
}

func (s *RepositoryTestSuite) TestUpdate_CompletionRule() {
	ctx := context.Background()
	task := s.createTask("toggle")

	done := true
	completed, err := s.tasks.Update(ctx, task.ID, domain.TaskPatch{Completed: &done})
	s.Require().NoError(err)
	s.True(completed.Completed)
	s.Require().NotNil(completed.CompletedAt)
	s.True(completed.CompletedAt.Equal(s.now))

	s.now = s.now.Add(time.Hour)
	title := "renamed"
	renamed, err := s.tasks.Update(ctx, task.ID, domain.TaskPatch{Title: &title})
	s.Require().NoError(err)
	s.Require().NotNil(renamed.CompletedAt)
	s.True(renamed.CompletedAt.Equal(*completed.CompletedAt))

	undone := false
	reopened, err := s.tasks.Update(ctx, task.ID, domain.TaskPatch{Completed: &undone})
	s.Require().NoError(err)
	s.False(reopened.Completed)
	s.Nil(reopened.CompletedAt)
}

// TestUpdate_ConcurrentToggles checks the CHECK constraint never trips under contention.
func (s *RepositoryTestSuite) TestUpdate_ConcurrentToggles() {
	ctx := context.Background()
	task := s.createTask("contended")

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(done bool) {
			defer wg.Done()
			_, err := s.tasks.Update(ctx, task.ID, domain.TaskPatch{Completed: &done})
			errs <- err
		}(i%2 == 0)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		s.NoError(err)
	}

	got, err := s.tasks.Get(ctx, task.ID)
	s.Require().NoError(err)
	s.Equal(got.Completed, got.CompletedAt != nil)
}

func (s *RepositoryTestSuite) TestDeleteAndDeleteCompleted() {
	ctx := context.Background()
	a := s.createTask("a")
	b := s.createTask("b")
	s.createTask("c")

	done := true
	_, err := s.tasks.Update(ctx, a.ID, domain.TaskPatch{Completed: &done})
	s.Require().NoError(err)

	n, err := s.tasks.DeleteCompleted(ctx)
	s.Require().NoError(err)
	s.Equal(int64(1), n)

	s.Require().NoError(s.tasks.Delete(ctx, b.ID))
	s.ErrorIs(s.tasks.Delete(ctx, b.ID), domain.ErrTaskNotFound)

	tasks, err := s.tasks.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(tasks, 1)
	s.Equal("c", tasks[0].Title)
}

func (s *RepositoryTestSuite) TestCategories() {
	ctx := context.Background()

	work, err := s.categories.CreateCategory(ctx, "Work", "#5B47E0")
	s.Require().NoError(err)
	s.Zero(work.TaskCount)

	_, err = s.categories.CreateCategory(ctx, "Work", "#000000")
	s.ErrorIs(err, domain.ErrCategoryExists)

	s.Require().NoError(s.categories.AdjustTaskCount(ctx, "Work", 1))
	s.Require().NoError(s.categories.AdjustTaskCount(ctx, "Work", -3))

	got, err := s.categories.GetCategory(ctx, work.ID)
	s.Require().NoError(err)
	s.Zero(got.TaskCount)

	name := "Office"
	renamed, err := s.categories.UpdateCategory(ctx, work.ID, domain.CategoryPatch{Name: &name})
	s.Require().NoError(err)
	s.Equal("Office", renamed.Name)

	list, err := s.categories.ListCategories(ctx)
	s.Require().NoError(err)
	s.Len(list, 1)

	s.Require().NoError(s.categories.DeleteCategory(ctx, work.ID))
	s.ErrorIs(s.categories.DeleteCategory(ctx, work.ID), domain.ErrCategoryNotFound)
}
