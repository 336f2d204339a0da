package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"taskflow/internal/core/domain"
	"taskflow/internal/core/model/response"
)

type TodoRepository interface {
	// List returns the requested page of the filtered set plus the
	// total filtered count.
	List(ctx context.Context, filter domain.ListFilter) ([]domain.Todo, int, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Todo, error)
	Create(ctx context.Context, todo domain.Todo) (domain.Todo, error)
	Update(ctx context.Context, todo domain.Todo) (domain.Todo, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountByCompletion(ctx context.Context) (total int, completed int, err error)
	CreatedBetween(ctx context.Context, from, to time.Time) ([]domain.Todo, error)

	// Dev/test tooling.
	DeleteAll(ctx context.Context) error
	BulkInsert(ctx context.Context, todos []domain.Todo) error
}

type TodoService interface {
	List(ctx context.Context, filter domain.ListFilter) (response.PagedResponse[response.TodoResponse], error)
	GetByID(ctx context.Context, id uuid.UUID) (response.TodoResponse, error)
	Summary(ctx context.Context) (response.SummaryResponse, error)
	WeeklySummary(ctx context.Context) (response.WeeklySummaryResponse, error)
	Create(ctx context.Context, todo domain.Todo) (domain.Todo, error)
	Update(ctx context.Context, id uuid.UUID, todo domain.Todo) (domain.Todo, error)
	Toggle(ctx context.Context, id uuid.UUID) (domain.Todo, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
