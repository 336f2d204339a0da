package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"

	"taskflow/internal/core/domain"
	"taskflow/internal/core/service"
)

// fakeTodoRepo is an in-memory repository used to pin service behavior
// without a database.
type fakeTodoRepo struct {
	todos     map[uuid.UUID]domain.Todo
	listTotal int
	lastFrom  time.Time
	lastTo    time.Time
}

func newFakeTodoRepo() *fakeTodoRepo {
	return &fakeTodoRepo{todos: map[uuid.UUID]domain.Todo{}}
}

func (f *fakeTodoRepo) List(ctx context.Context, filter domain.ListFilter) ([]domain.Todo, int, error) {
	items := []domain.Todo{}

	for _, todo := range f.todos {
		items = append(items, todo)
	}

	total := f.listTotal

	if total == 0 {
		total = len(items)
	}

	return items, total, nil
}

func (f *fakeTodoRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Todo, error) {
	todo, ok := f.todos[id]

	if !ok {
		return domain.Todo{}, domain.ErrNotFound
	}

	return todo, nil
}

func (f *fakeTodoRepo) Create(ctx context.Context, todo domain.Todo) (domain.Todo, error) {
	f.todos[todo.ID] = todo
	return todo, nil
}

func (f *fakeTodoRepo) Update(ctx context.Context, todo domain.Todo) (domain.Todo, error) {
	if _, ok := f.todos[todo.ID]; !ok {
		return domain.Todo{}, domain.ErrNotFound
	}

	f.todos[todo.ID] = todo
	return todo, nil
}

func (f *fakeTodoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.todos[id]; !ok {
		return domain.ErrNotFound
	}

	delete(f.todos, id)
	return nil
}

func (f *fakeTodoRepo) CountByCompletion(ctx context.Context) (int, int, error) {
	total := 0
	completed := 0

	for _, todo := range f.todos {
		total++

		if todo.IsCompleted {
			completed++
		}
	}

	return total, completed, nil
}

func (f *fakeTodoRepo) CreatedBetween(ctx context.Context, from, to time.Time) ([]domain.Todo, error) {
	f.lastFrom = from
	f.lastTo = to

	items := []domain.Todo{}

	for _, todo := range f.todos {
		createdAt := todo.CreatedAt.UTC()

		if !createdAt.Before(from) && createdAt.Before(to) {
			items = append(items, todo)
		}
	}

	return items, nil
}

func (f *fakeTodoRepo) DeleteAll(ctx context.Context) error {
	f.todos = map[uuid.UUID]domain.Todo{}
	return nil
}

func (f *fakeTodoRepo) BulkInsert(ctx context.Context, todos []domain.Todo) error {
	for _, todo := range todos {
		f.todos[todo.ID] = todo
	}

	return nil
}

type TodoServiceSuite struct {
	suite.Suite
	repo *fakeTodoRepo
	svc  *service.TodoService
}

// Wednesday, fixed so week buckets are predictable.
var fixedNow = time.Date(2026, time.August, 26, 15, 30, 0, 0, time.UTC)

func (s *TodoServiceSuite) SetupTest() {
	s.repo = newFakeTodoRepo()
	s.svc = service.NewTodoService(s.repo, nil).WithClock(func() time.Time { return fixedNow })
}

func TestTodoServiceSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(TodoServiceSuite))
}

func (s *TodoServiceSuite) seedTodo(title string, completed bool, createdAt time.Time) domain.Todo {
	todo := domain.Todo{
		ID:          uuid.New(),
		Title:       title,
		IsCompleted: completed,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}

	s.repo.todos[todo.ID] = todo
	return todo
}

func (s *TodoServiceSuite) TestCurrentWeekWindow_MidWeek() {
	start, end := service.CurrentWeekWindow(fixedNow)

	Expect(start).To(Equal(time.Date(2026, time.August, 23, 0, 0, 0, 0, time.UTC)))
	Expect(end).To(Equal(time.Date(2026, time.August, 30, 0, 0, 0, 0, time.UTC)))
}

func (s *TodoServiceSuite) TestCurrentWeekWindow_OnSunday() {
	sunday := time.Date(2026, time.August, 23, 8, 0, 0, 0, time.UTC)

	start, end := service.CurrentWeekWindow(sunday)

	Expect(start).To(Equal(time.Date(2026, time.August, 23, 0, 0, 0, 0, time.UTC)))
	Expect(end).To(Equal(time.Date(2026, time.August, 30, 0, 0, 0, 0, time.UTC)))
}

func (s *TodoServiceSuite) TestSummary_PendingIsTotalMinusCompleted() {
	s.seedTodo("a", true, fixedNow)
	s.seedTodo("b", false, fixedNow)
	s.seedTodo("c", false, fixedNow)

	summary, err := s.svc.Summary(context.Background())

	Expect(err).To(BeNil())
	Expect(summary.TotalCount).To(Equal(3))
	Expect(summary.CompletedCount).To(Equal(1))
	Expect(summary.PendingCount).To(Equal(2))
}

func (s *TodoServiceSuite) TestSummary_Empty() {
	summary, err := s.svc.Summary(context.Background())

	Expect(err).To(BeNil())
	Expect(summary.TotalCount).To(Equal(0))
	Expect(summary.CompletedCount).To(Equal(0))
	Expect(summary.PendingCount).To(Equal(0))
}

func (s *TodoServiceSuite) TestList_TotalPages() {
	s.repo.listTotal = 25

	data, err := s.svc.List(context.Background(), domain.ListFilter{Page: 1, PageSize: 10})

	Expect(err).To(BeNil())
	Expect(data.TotalCount).To(Equal(25))
	Expect(data.TotalPages).To(Equal(3))
	Expect(data.Page).To(Equal(1))
	Expect(data.PageSize).To(Equal(10))
}

func (s *TodoServiceSuite) TestList_EmptyHasZeroPages() {
	data, err := s.svc.List(context.Background(), domain.ListFilter{})

	Expect(err).To(BeNil())
	Expect(data.TotalPages).To(Equal(0))
	Expect(data.Items).To(BeEmpty())
}

func (s *TodoServiceSuite) TestWeeklySummary_BucketsByWeekday() {
	s.seedTodo("sun", false, time.Date(2026, time.August, 23, 10, 0, 0, 0, time.UTC))
	s.seedTodo("mon", true, time.Date(2026, time.August, 24, 9, 0, 0, 0, time.UTC))
	s.seedTodo("wed-1", false, time.Date(2026, time.August, 26, 8, 0, 0, 0, time.UTC))
	s.seedTodo("wed-2", true, time.Date(2026, time.August, 26, 12, 0, 0, 0, time.UTC))

	// Last week, must not appear.
	s.seedTodo("old", true, time.Date(2026, time.August, 20, 8, 0, 0, 0, time.UTC))

	weekly, err := s.svc.WeeklySummary(context.Background())

	Expect(err).To(BeNil())
	Expect(weekly.Sunday.Total).To(Equal(1))
	Expect(weekly.Sunday.Completed).To(Equal(0))
	Expect(weekly.Monday.Total).To(Equal(1))
	Expect(weekly.Monday.Completed).To(Equal(1))
	Expect(weekly.Wednesday.Total).To(Equal(2))
	Expect(weekly.Wednesday.Completed).To(Equal(1))
	Expect(weekly.Thursday.Total).To(Equal(0))
	Expect(weekly.Saturday.Total).To(Equal(0))
}

func (s *TodoServiceSuite) TestWeeklySummary_QueriesCurrentWindow() {
	_, err := s.svc.WeeklySummary(context.Background())

	Expect(err).To(BeNil())
	Expect(s.repo.lastFrom).To(Equal(time.Date(2026, time.August, 23, 0, 0, 0, 0, time.UTC)))
	Expect(s.repo.lastTo).To(Equal(time.Date(2026, time.August, 30, 0, 0, 0, 0, time.UTC)))
}

func (s *TodoServiceSuite) TestCreate_SetsDefaults() {
	created, err := s.svc.Create(context.Background(), domain.Todo{
		Title:       "New task",
		Priority:    domain.PriorityHigh,
		IsCompleted: true, // must be ignored
	})

	Expect(err).To(BeNil())
	Expect(created.ID).NotTo(Equal(uuid.Nil))
	Expect(created.IsCompleted).To(BeFalse())
	Expect(created.Priority).To(Equal(domain.PriorityHigh))
	Expect(created.CreatedAt).To(Equal(fixedNow))
	Expect(created.UpdatedAt).To(Equal(fixedNow))
}

func (s *TodoServiceSuite) TestUpdate_ReplacesFieldsKeepsCreatedAt() {
	createdAt := fixedNow.AddDate(0, 0, -3)
	todo := s.seedTodo("before", false, createdAt)

	updated, err := s.svc.Update(context.Background(), todo.ID, domain.Todo{
		Title:       "after",
		Description: "changed",
		Priority:    domain.PriorityMedium,
		IsCompleted: true,
	})

	Expect(err).To(BeNil())
	Expect(updated.Title).To(Equal("after"))
	Expect(updated.Description).To(Equal("changed"))
	Expect(updated.IsCompleted).To(BeTrue())
	Expect(updated.CreatedAt).To(Equal(createdAt))
	Expect(updated.UpdatedAt).To(Equal(fixedNow))
}

func (s *TodoServiceSuite) TestUpdate_NotFound() {
	_, err := s.svc.Update(context.Background(), uuid.New(), domain.Todo{Title: "x"})

	Expect(err).To(MatchError(domain.ErrNotFound))
}

func (s *TodoServiceSuite) TestToggle_FlipsOnlyCompletion() {
	todo := s.seedTodo("task", false, fixedNow.AddDate(0, 0, -1))

	toggled, err := s.svc.Toggle(context.Background(), todo.ID)

	Expect(err).To(BeNil())
	Expect(toggled.IsCompleted).To(BeTrue())
	Expect(toggled.Title).To(Equal("task"))

	again, err := s.svc.Toggle(context.Background(), todo.ID)

	Expect(err).To(BeNil())
	Expect(again.IsCompleted).To(BeFalse())
}

func (s *TodoServiceSuite) TestToggle_NotFound() {
	_, err := s.svc.Toggle(context.Background(), uuid.New())

	Expect(err).To(MatchError(domain.ErrNotFound))
}

func (s *TodoServiceSuite) TestDelete_NotFound() {
	err := s.svc.Delete(context.Background(), uuid.New())

	Expect(err).To(MatchError(domain.ErrNotFound))
}
