package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"taskflow/internal/core/domain"
	"taskflow/internal/core/model/response"
	"taskflow/internal/core/port"
	tel "taskflow/internal/core/telemetry"
)

type TodoService struct {
	repo      port.TodoRepository
	telemetry port.Telemetry
	now       func() time.Time
}

func NewTodoService(repo port.TodoRepository, telemetry port.Telemetry) *TodoService {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &TodoService{
		repo:      repo,
		telemetry: telemetry,
		now:       time.Now,
	}
}

// WithClock replaces the time source. Tests use it to pin the week window.
func (ts *TodoService) WithClock(now func() time.Time) *TodoService {
	ts.now = now
	return ts
}

// CurrentWeekWindow returns [Sunday 00:00:00, next Sunday 00:00:00) in
// UTC for the week containing now. UTC is the authoritative timezone for
// all day bucketing; the client package uses the same window.
func CurrentWeekWindow(now time.Time) (time.Time, time.Time) {
	now = now.UTC()

	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	start := midnight.AddDate(0, 0, -int(now.Weekday()))

	return start, start.AddDate(0, 0, 7)
}

func (ts *TodoService) List(ctx context.Context, filter domain.ListFilter) (response.PagedResponse[response.TodoResponse], error) {
	filter = filter.Normalize()

	todos, totalCount, err := ts.repo.List(ctx, filter)

	if err != nil {
		slog.Error("List query failed", "error", err)
		return response.PagedResponse[response.TodoResponse]{}, err
	}

	items := make([]response.TodoResponse, 0, len(todos))

	for _, todo := range todos {
		items = append(items, response.NewTodoResponse(todo))
	}

	totalPages := 0

	if totalCount > 0 {
		totalPages = (totalCount + filter.PageSize - 1) / filter.PageSize
	}

	return response.PagedResponse[response.TodoResponse]{
		Items:      items,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalCount: totalCount,
		TotalPages: totalPages,
	}, nil
}

func (ts *TodoService) GetByID(ctx context.Context, id uuid.UUID) (response.TodoResponse, error) {
	todo, err := ts.repo.GetByID(ctx, id)

	if err != nil {
		return response.TodoResponse{}, err
	}

	return response.NewTodoResponse(todo), nil
}

func (ts *TodoService) Summary(ctx context.Context) (response.SummaryResponse, error) {
	total, completed, err := ts.repo.CountByCompletion(ctx)

	if err != nil {
		slog.Error("Summary counts failed", "error", err)
		return response.SummaryResponse{}, err
	}

	return response.SummaryResponse{
		TotalCount:     total,
		CompletedCount: completed,
		PendingCount:   total - completed,
	}, nil
}

func (ts *TodoService) WeeklySummary(ctx context.Context) (response.WeeklySummaryResponse, error) {
	start, end := CurrentWeekWindow(ts.now())

	todos, err := ts.repo.CreatedBetween(ctx, start, end)

	if err != nil {
		slog.Error("Weekly summary query failed", "error", err)
		return response.WeeklySummaryResponse{}, err
	}

	var days [7]response.DaySummary

	for _, todo := range todos {
		day := todo.CreatedAt.UTC().Weekday()

		days[day].Total++

		if todo.IsCompleted {
			days[day].Completed++
		}
	}

	return response.WeeklySummaryResponse{
		Sunday:    days[time.Sunday],
		Monday:    days[time.Monday],
		Tuesday:   days[time.Tuesday],
		Wednesday: days[time.Wednesday],
		Thursday:  days[time.Thursday],
		Friday:    days[time.Friday],
		Saturday:  days[time.Saturday],
	}, nil
}

func (ts *TodoService) Create(ctx context.Context, todo domain.Todo) (domain.Todo, error) {
	ctx, span := ts.telemetry.StartServiceSpan(ctx, "todo", "Create", map[string]interface{}{
		"todo.title": todo.Title,
	})
	defer span.End()

	now := ts.now().UTC()

	newTodo := domain.Todo{
		ID:          uuid.New(),
		Title:       todo.Title,
		Description: todo.Description,
		Priority:    todo.Priority,
		DueDate:     todo.DueDate,
		IsCompleted: false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := ts.repo.Create(ctx, newTodo)

	if err != nil {
		span.RecordError(err)
		slog.Error("Repository create failed", "error", err, "title", newTodo.Title)
		return domain.Todo{}, err
	}

	ts.telemetry.RecordBusinessEvent(ctx, "created", "todo", created.ID.String(), map[string]interface{}{
		"priority": created.Priority.String(),
	})

	return created, nil
}

// Update replaces every mutable field wholesale; it is not a partial
// patch. CreatedAt is preserved from the stored row.
func (ts *TodoService) Update(ctx context.Context, id uuid.UUID, todo domain.Todo) (domain.Todo, error) {
	current, err := ts.repo.GetByID(ctx, id)

	if err != nil {
		return domain.Todo{}, err
	}

	current.Title = todo.Title
	current.Description = todo.Description
	current.Priority = todo.Priority
	current.DueDate = todo.DueDate
	current.IsCompleted = todo.IsCompleted
	current.UpdatedAt = ts.now().UTC()

	updated, err := ts.repo.Update(ctx, current)

	if err != nil {
		slog.Error("Repository update failed", "error", err, "id", id)
		return domain.Todo{}, err
	}

	return updated, nil
}

func (ts *TodoService) Toggle(ctx context.Context, id uuid.UUID) (domain.Todo, error) {
	current, err := ts.repo.GetByID(ctx, id)

	if err != nil {
		return domain.Todo{}, err
	}

	current.IsCompleted = !current.IsCompleted
	current.UpdatedAt = ts.now().UTC()

	updated, err := ts.repo.Update(ctx, current)

	if err != nil {
		slog.Error("Repository toggle failed", "error", err, "id", id)
		return domain.Todo{}, err
	}

	ts.telemetry.RecordBusinessEvent(ctx, "toggled", "todo", updated.ID.String(), map[string]interface{}{
		"is_completed": updated.IsCompleted,
	})

	return updated, nil
}

func (ts *TodoService) Delete(ctx context.Context, id uuid.UUID) error {
	err := ts.repo.Delete(ctx, id)

	if err != nil {
		return err
	}

	ts.telemetry.RecordBusinessEvent(ctx, "deleted", "todo", id.String(), nil)

	return nil
}
