package localstore_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mtlprog/taskflow/internal/database"
	"github.com/mtlprog/taskflow/internal/domain"
	"github.com/mtlprog/taskflow/internal/localstore"
)

type StoreTestSuite struct {
	suite.Suite
	db    *sql.DB
	store *localstore.Store
	now   time.Time
}

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func (s *StoreTestSuite) SetupTest() {
	ctx := context.Background()

	db, err := database.OpenSQLite(ctx, filepath.Join(s.T().TempDir(), "tasks.db"))
	s.Require().NoError(err)
	s.Require().NoError(database.RunSQLiteMigrations(ctx, db))

	s.db = db
	s.now = time.Date(2026, 10, 19, 15, 0, 0, 0, time.UTC)
	s.store = localstore.New(db, localstore.WithClock(func() time.Time { return s.now }))
}

func (s *StoreTestSuite) TearDownTest() {
	if s.db != nil {
		s.db.Close()
	}
}

func (s *StoreTestSuite) createTask(title string) domain.Task {
	task, err := s.store.Create(context.Background(), domain.TaskDraft{
		Title:    title,
		Priority: domain.PriorityMedium,
		Category: "Work",
	})
	s.Require().NoError(err)
	return task
}

func (s *StoreTestSuite) TestCreateAndGet() {
	ctx := context.Background()
	due := time.Date(2026, 10, 21, 9, 30, 0, 0, time.UTC)

	created, err := s.store.Create(ctx, domain.TaskDraft{
		Title:       "Write report",
		Description: "Q3 numbers",
		DueDate:     &due,
		Priority:    domain.PriorityHigh,
		Category:    "Work",
	})
	s.Require().NoError(err)
	s.Positive(created.ID)
	s.False(created.Completed)
	s.Nil(created.CompletedAt)
	s.True(created.CreatedAt.Equal(s.now))

	got, err := s.store.Get(ctx, created.ID)
	s.Require().NoError(err)
	s.Equal("Write report", got.Title)
	s.Equal("Q3 numbers", got.Description)
	s.Equal(domain.PriorityHigh, got.Priority)
	s.Equal("Work", got.Category)
	s.Require().NotNil(got.DueDate)
	s.True(got.DueDate.Equal(due))
	s.True(got.CreatedAt.Equal(s.now))
}

func (s *StoreTestSuite) TestGet_NotFound() {
	_, err := s.store.Get(context.Background(), 999)
	s.ErrorIs(err, domain.ErrTaskNotFound)
	s.True(domain.IsStoreError(err))
}

func (s *StoreTestSuite) TestList() {
	s.createTask("first")
	s.createTask("second")

	tasks, err := s.store.List(context.Background())
	s.Require().NoError(err)
	s.Require().Len(tasks, 2)
	s.Equal("first", tasks[0].Title)
	s.Equal("second", tasks[1].Title)
}

func (s *StoreTestSuite) TestList_Empty() {
	tasks, err := s.store.List(context.Background())
	s.Require().NoError(err)
	s.NotNil(tasks)
	s.Empty(tasks)
}

func (s *StoreTestSuite) TestUpdate_CompletionStampsAndClears() {
	ctx := context.Background()
	task := s.createTask("toggle me")

	done := true
	s.now = s.now.Add(time.Hour)
	completed, err := s.store.Update(ctx, task.ID, domain.TaskPatch{Completed: &done})
	s.Require().NoError(err)
	s.True(completed.Completed)
	s.Require().NotNil(completed.CompletedAt)
	s.True(completed.CompletedAt.Equal(s.now))

	stored, err := s.store.Get(ctx, task.ID)
	s.Require().NoError(err)
	s.True(stored.Completed)
	s.Require().NotNil(stored.CompletedAt)
	s.True(stored.CompletedAt.Equal(s.now))

	undone := false
	reopened, err := s.store.Update(ctx, task.ID, domain.TaskPatch{Completed: &undone})
	s.Require().NoError(err)
	s.False(reopened.Completed)
	s.Nil(reopened.CompletedAt)

	stored, err = s.store.Get(ctx, task.ID)
	s.Require().NoError(err)
	s.False(stored.Completed)
	s.Nil(stored.CompletedAt)
}

func (s *StoreTestSuite) TestUpdate_OtherFieldsKeepCompletedAt() {
	ctx := context.Background()
	task := s.createTask("keep stamp")

	done := true
	completed, err := s.store.Update(ctx, task.ID, domain.TaskPatch{Completed: &done})
	s.Require().NoError(err)
	stamp := *completed.CompletedAt

	s.now = s.now.Add(24 * time.Hour)
	title := "renamed"
	renamed, err := s.store.Update(ctx, task.ID, domain.TaskPatch{Title: &title})
	s.Require().NoError(err)
	s.Equal("renamed", renamed.Title)
	s.Require().NotNil(renamed.CompletedAt)
	s.True(renamed.CompletedAt.Equal(stamp))
}

func (s *StoreTestSuite) TestUpdate_ClearDueDate() {
	ctx := context.Background()
	due := s.now.Add(48 * time.Hour)
	task, err := s.store.Create(ctx, domain.TaskDraft{Title: "due", Priority: domain.PriorityLow, DueDate: &due})
	s.Require().NoError(err)

	updated, err := s.store.Update(ctx, task.ID, domain.TaskPatch{ClearDueDate: true})
	s.Require().NoError(err)
	s.Nil(updated.DueDate)

	stored, err := s.store.Get(ctx, task.ID)
	s.Require().NoError(err)
	s.Nil(stored.DueDate)
}

func (s *StoreTestSuite) TestUpdate_NotFound() {
	title := "x"
	_, err := s.store.Update(context.Background(), 42, domain.TaskPatch{Title: &title})
	s.ErrorIs(err, domain.ErrTaskNotFound)
}

func (s *StoreTestSuite) TestDelete() {
	ctx := context.Background()
	task := s.createTask("gone")

	s.Require().NoError(s.store.Delete(ctx, task.ID))

	_, err := s.store.Get(ctx, task.ID)
	s.ErrorIs(err, domain.ErrTaskNotFound)

	err = s.store.Delete(ctx, task.ID)
	s.ErrorIs(err, domain.ErrTaskNotFound)
}

func (s *StoreTestSuite) TestDeleteCompleted() {
	ctx := context.Background()
	a := s.createTask("a")
	s.createTask("b")
	c := s.createTask("c")

	done := true
	for _, id := range []int64{a.ID, c.ID} {
		_, err := s.store.Update(ctx, id, domain.TaskPatch{Completed: &done})
		s.Require().NoError(err)
	}

	n, err := s.store.DeleteCompleted(ctx)
	s.Require().NoError(err)
	s.Equal(int64(2), n)

	tasks, err := s.store.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(tasks, 1)
	s.Equal("b", tasks[0].Title)

	n, err = s.store.DeleteCompleted(ctx)
	s.Require().NoError(err)
	s.Zero(n)
}

func (s *StoreTestSuite) TestCategories_CRUD() {
	ctx := context.Background()

	work, err := s.store.CreateCategory(ctx, "Work", "#5B47E0")
	s.Require().NoError(err)
	s.Positive(work.ID)
	s.Zero(work.TaskCount)

	_, err = s.store.CreateCategory(ctx, "Work", "#000000")
	s.ErrorIs(err, domain.ErrCategoryExists)
	s.True(domain.IsStoreError(err))

	color := "#111111"
	updated, err := s.store.UpdateCategory(ctx, work.ID, domain.CategoryPatch{Color: &color})
	s.Require().NoError(err)
	s.Equal("Work", updated.Name)
	s.Equal("#111111", updated.Color)

	got, err := s.store.GetCategory(ctx, work.ID)
	s.Require().NoError(err)
	s.Equal(updated, got)

	s.Require().NoError(s.store.DeleteCategory(ctx, work.ID))
	_, err = s.store.GetCategory(ctx, work.ID)
	s.ErrorIs(err, domain.ErrCategoryNotFound)
	s.ErrorIs(s.store.DeleteCategory(ctx, work.ID), domain.ErrCategoryNotFound)
}

func (s *StoreTestSuite) TestUpdateCategory_RenameConflict() {
	ctx := context.Background()
	_, err := s.store.CreateCategory(ctx, "Work", "#5B47E0")
	s.Require().NoError(err)
	home, err := s.store.CreateCategory(ctx, "Home", "#8B7FE8")
	s.Require().NoError(err)

	name := "Work"
	_, err = s.store.UpdateCategory(ctx, home.ID, domain.CategoryPatch{Name: &name})
	s.ErrorIs(err, domain.ErrCategoryExists)
}

func (s *StoreTestSuite) TestAdjustTaskCount_FloorsAtZero() {
	ctx := context.Background()
	c, err := s.store.CreateCategory(ctx, "Work", "#5B47E0")
	s.Require().NoError(err)

	s.Require().NoError(s.store.AdjustTaskCount(ctx, "Work", 2))
	s.Require().NoError(s.store.AdjustTaskCount(ctx, "Work", -5))
	s.Require().NoError(s.store.AdjustTaskCount(ctx, "Missing", 1))

	got, err := s.store.GetCategory(ctx, c.ID)
	s.Require().NoError(err)
	s.Zero(got.TaskCount)

	s.Require().NoError(s.store.AdjustTaskCount(ctx, "Work", 1))
	got, err = s.store.GetCategory(ctx, c.ID)
	s.Require().NoError(err)
	s.Equal(1, got.TaskCount)
}

func (s *StoreTestSuite) TestSeed() {
	ctx := context.Background()

	seeded, err := s.store.Seed(ctx)
	s.Require().NoError(err)
	s.True(seeded)

	tasks, err := s.store.List(ctx)
	s.Require().NoError(err)
	s.NotEmpty(tasks)
	for _, task := range tasks {
		s.Equal(task.Completed, task.CompletedAt != nil, task.Title)
	}

	categories, err := s.store.ListCategories(ctx)
	s.Require().NoError(err)
	s.NotEmpty(categories)

	seeded, err = s.store.Seed(ctx)
	s.Require().NoError(err)
	s.False(seeded)

	again, err := s.store.List(ctx)
	s.Require().NoError(err)
	s.Len(again, len(tasks))
}

func (s *StoreTestSuite) TestSeed_SkipsNonEmptyStore() {
	s.createTask("mine")

	seeded, err := s.store.Seed(context.Background())
	s.Require().NoError(err)
	s.False(seeded)
}

func (s *StoreTestSuite) TestPing() {
	s.NoError(s.store.Ping(context.Background()))
}
