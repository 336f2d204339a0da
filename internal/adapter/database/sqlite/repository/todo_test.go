package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"

	"taskflow/internal/adapter/database/sqlite/repository"
	"taskflow/internal/core/domain"
	"taskflow/internal/core/port"
	. "taskflow/pkg/test"
	"taskflow/pkg/test/factory"
)

type TodoRepositorySuite struct {
	suite.Suite
	Repo port.TodoRepository
}

var ctx = context.Background()

func (s *TodoRepositorySuite) SetupTest() {
	db := InitTestDB()

	s.Repo = repository.NewTodoRepository(db)
}

func TestTodoRepositorySuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(TodoRepositorySuite))
}

func (s *TodoRepositorySuite) create(custom map[string]any) domain.Todo {
	todo, err := s.Repo.Create(ctx, factory.NewTodo(custom))

	Expect(err).To(BeNil())

	return todo
}

func (s *TodoRepositorySuite) TestList_Empty() {
	todos, total, err := s.Repo.List(ctx, domain.ListFilter{}.Normalize())

	Expect(err).To(BeNil())
	Expect(todos).To(BeEmpty())
	Expect(total).To(Equal(0))
}

func (s *TodoRepositorySuite) TestCreate_RoundTrips() {
	dueDate := time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)

	todo := s.create(map[string]any{
		"Title":       "Buy groceries",
		"Description": "Milk and bread",
		"Priority":    domain.PriorityHigh,
		"DueDate":     &dueDate,
	})

	Expect(todo.Title).To(Equal("Buy groceries"))
	Expect(todo.Description).To(Equal("Milk and bread"))
	Expect(todo.Priority).To(Equal(domain.PriorityHigh))
	Expect(todo.IsCompleted).To(BeFalse())
	Expect(todo.DueDate).NotTo(BeNil())
}

func (s *TodoRepositorySuite) TestGetByID_NotFound() {
	_, err := s.Repo.GetByID(ctx, uuid.New())

	Expect(err).To(MatchError(domain.ErrNotFound))
}

func (s *TodoRepositorySuite) TestList_FiltersAreConjunctive() {
	s.create(map[string]any{"Title": "high done", "Priority": domain.PriorityHigh, "IsCompleted": true})
	s.create(map[string]any{"Title": "high open", "Priority": domain.PriorityHigh, "IsCompleted": false})
	s.create(map[string]any{"Title": "low done", "Priority": domain.PriorityLow, "IsCompleted": true})

	completed := true
	high := domain.PriorityHigh

	todos, total, err := s.Repo.List(ctx, domain.ListFilter{
		IsCompleted: &completed,
		Priority:    &high,
	}.Normalize())

	Expect(err).To(BeNil())
	Expect(total).To(Equal(1))
	Expect(todos).To(HaveLen(1))
	Expect(todos[0].Title).To(Equal("high done"))
}

func (s *TodoRepositorySuite) TestList_SearchIsCaseInsensitive() {
	s.create(map[string]any{"Title": "Review Pull Request"})
	s.create(map[string]any{"Title": "Write docs"})

	todos, total, err := s.Repo.List(ctx, domain.ListFilter{Search: "pull"}.Normalize())

	Expect(err).To(BeNil())
	Expect(total).To(Equal(1))
	Expect(todos[0].Title).To(Equal("Review Pull Request"))
}

func (s *TodoRepositorySuite) TestList_SortByTitleAscending() {
	s.create(map[string]any{"Title": "C task"})
	s.create(map[string]any{"Title": "A task"})
	s.create(map[string]any{"Title": "B task"})

	todos, _, err := s.Repo.List(ctx, domain.ListFilter{
		SortBy:    "title",
		SortOrder: "asc",
	}.Normalize())

	Expect(err).To(BeNil())
	Expect(todos).To(HaveLen(3))
	Expect(todos[0].Title).To(Equal("A task"))
	Expect(todos[1].Title).To(Equal("B task"))
	Expect(todos[2].Title).To(Equal("C task"))
}

func (s *TodoRepositorySuite) TestList_DefaultSortNewestFirst() {
	old := time.Now().UTC().AddDate(0, 0, -2)
	recent := time.Now().UTC()

	s.create(map[string]any{"Title": "older", "CreatedAt": old, "UpdatedAt": old})
	s.create(map[string]any{"Title": "newer", "CreatedAt": recent, "UpdatedAt": recent})

	todos, _, err := s.Repo.List(ctx, domain.ListFilter{}.Normalize())

	Expect(err).To(BeNil())
	Expect(todos[0].Title).To(Equal("newer"))
	Expect(todos[1].Title).To(Equal("older"))
}

func (s *TodoRepositorySuite) TestList_PaginationCountsFilteredSet() {
	for i := 0; i < 12; i++ {
		s.create(map[string]any{"IsCompleted": i%2 == 0})
	}

	completed := true

	todos, total, err := s.Repo.List(ctx, domain.ListFilter{
		Page:        1,
		PageSize:    4,
		IsCompleted: &completed,
	}.Normalize())

	Expect(err).To(BeNil())
	Expect(total).To(Equal(6))
	Expect(todos).To(HaveLen(4))

	todos, total, err = s.Repo.List(ctx, domain.ListFilter{
		Page:        2,
		PageSize:    4,
		IsCompleted: &completed,
	}.Normalize())

	Expect(err).To(BeNil())
	Expect(total).To(Equal(6))
	Expect(todos).To(HaveLen(2))
}

func (s *TodoRepositorySuite) TestUpdate_PersistsChanges() {
	todo := s.create(map[string]any{"Title": "before"})

	todo.Title = "after"
	todo.IsCompleted = true
	todo.Priority = domain.PriorityMedium

	updated, err := s.Repo.Update(ctx, todo)

	Expect(err).To(BeNil())
	Expect(updated.Title).To(Equal("after"))
	Expect(updated.IsCompleted).To(BeTrue())
	Expect(updated.Priority).To(Equal(domain.PriorityMedium))
}

func (s *TodoRepositorySuite) TestUpdate_NotFound() {
	ghost := factory.NewTodo(map[string]any{"Title": "ghost"})

	_, err := s.Repo.Update(ctx, ghost)

	Expect(err).To(MatchError(domain.ErrNotFound))
}

func (s *TodoRepositorySuite) TestDelete_RemovesRow() {
	todo := s.create(map[string]any{"Title": "to delete"})

	err := s.Repo.Delete(ctx, todo.ID)

	Expect(err).To(BeNil())

	_, err = s.Repo.GetByID(ctx, todo.ID)

	Expect(err).To(MatchError(domain.ErrNotFound))
}

func (s *TodoRepositorySuite) TestDelete_NotFound() {
	err := s.Repo.Delete(ctx, uuid.New())

	Expect(err).To(MatchError(domain.ErrNotFound))
}

func (s *TodoRepositorySuite) TestCountByCompletion() {
	s.create(map[string]any{"IsCompleted": true})
	s.create(map[string]any{"IsCompleted": false})
	s.create(map[string]any{"IsCompleted": false})

	total, completed, err := s.Repo.CountByCompletion(ctx)

	Expect(err).To(BeNil())
	Expect(total).To(Equal(3))
	Expect(completed).To(Equal(1))
}

func (s *TodoRepositorySuite) TestCreatedBetween_WindowIsHalfOpen() {
	from := time.Date(2026, time.August, 23, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.August, 30, 0, 0, 0, 0, time.UTC)

	inside := from.Add(2 * time.Hour)
	boundary := to
	before := from.Add(-time.Minute)

	s.create(map[string]any{"Title": "inside", "CreatedAt": inside, "UpdatedAt": inside})
	s.create(map[string]any{"Title": "boundary", "CreatedAt": boundary, "UpdatedAt": boundary})
	s.create(map[string]any{"Title": "before", "CreatedAt": before, "UpdatedAt": before})

	todos, err := s.Repo.CreatedBetween(ctx, from, to)

	Expect(err).To(BeNil())
	Expect(todos).To(HaveLen(1))
	Expect(todos[0].Title).To(Equal("inside"))
}

func (s *TodoRepositorySuite) TestBulkInsertAndDeleteAll() {
	todos := []domain.Todo{
		factory.NewTodo(map[string]any{"Title": "one"}),
		factory.NewTodo(map[string]any{"Title": "two"}),
	}

	err := s.Repo.BulkInsert(ctx, todos)

	Expect(err).To(BeNil())

	_, total, err := s.Repo.List(ctx, domain.ListFilter{}.Normalize())

	Expect(err).To(BeNil())
	Expect(total).To(Equal(2))

	err = s.Repo.DeleteAll(ctx)

	Expect(err).To(BeNil())

	_, total, _ = s.Repo.List(ctx, domain.ListFilter{}.Normalize())

	Expect(total).To(Equal(0))
}
