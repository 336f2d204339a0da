package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"taskflow/internal/adapter/database/sqlite"
	"taskflow/internal/core/domain"
	"taskflow/internal/core/port"
	"taskflow/internal/core/telemetry"
)

var sortColumnNames = map[string]string{
	"title":     "title",
	"duedate":   "due_date",
	"priority":  "priority",
	"createdat": "created_at",
}

type TodoRepository struct {
	db        *sqlite.DB
	scanner   *sqlite.Scanner
	telemetry port.Telemetry
}

func NewTodoRepository(db *sqlite.DB) *TodoRepository {
	return &TodoRepository{
		db:        db,
		scanner:   sqlite.NewScanner(),
		telemetry: telemetry.NewNoOpProbe(),
	}
}

func (r *TodoRepository) WithTelemetry(probe port.Telemetry) *TodoRepository {
	r.telemetry = probe
	return r
}

func (r *TodoRepository) applyFilter(builder squirrel.SelectBuilder, filter domain.ListFilter) squirrel.SelectBuilder {
	if filter.IsCompleted != nil {
		builder = builder.Where(squirrel.Eq{"is_completed": *filter.IsCompleted})
	}

	if filter.Priority != nil {
		builder = builder.Where(squirrel.Eq{"priority": int(*filter.Priority)})
	}

	if filter.Search != "" {
		builder = builder.Where(squirrel.Like{"LOWER(title)": "%" + strings.ToLower(filter.Search) + "%"})
	}

	return builder
}

func (r *TodoRepository) List(ctx context.Context, filter domain.ListFilter) ([]domain.Todo, int, error) {
	ctx, span := r.telemetry.StartRepositorySpan(ctx, "list", "todo", map[string]interface{}{
		"page":      filter.Page,
		"page_size": filter.PageSize,
	})
	defer span.End()

	start := time.Now()

	countQuery := r.applyFilter(r.db.QueryBuilder.Select("COUNT(*)").From("todos"), filter)

	countSQL, countArgs, err := countQuery.ToSql()
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		r.telemetry.RecordRepositoryOperation(ctx, "list", "todo", time.Since(start), err)
		return nil, 0, err
	}

	orderColumn := sortColumnNames[filter.SortBy]

	if orderColumn == "" {
		orderColumn = "created_at"
	}

	direction := "DESC"

	if filter.SortOrder == "asc" {
		direction = "ASC"
	}

	query := r.applyFilter(r.db.QueryBuilder.Select("*").From("todos"), filter).
		OrderBy(orderColumn+" "+direction, "id ASC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64((filter.Page - 1) * filter.PageSize))

	querySQL, queryArgs, err := query.ToSql()
	if err != nil {
		return nil, 0, err
	}

	r.telemetry.RecordRepositoryQuery(ctx, "list", "todo", querySQL, queryArgs)

	rows, err := r.db.QueryContext(ctx, querySQL, queryArgs...)
	if err != nil {
		r.telemetry.RecordRepositoryOperation(ctx, "list", "todo", time.Since(start), err)
		return nil, 0, err
	}
	defer rows.Close()

	var todos []domain.Todo
	if err := r.scanner.ScanRowsToSlice(rows, &todos); err != nil {
		r.telemetry.RecordRepositoryOperation(ctx, "list", "todo", time.Since(start), err)
		return nil, 0, err
	}

	r.telemetry.RecordRepositoryOperation(ctx, "list", "todo", time.Since(start), nil)

	return todos, total, nil
}

func (r *TodoRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Todo, error) {
	ctx, span := r.telemetry.StartRepositorySpan(ctx, "get_by_id", "todo", map[string]interface{}{
		"todo.id": id.String(),
	})
	defer span.End()

	query := r.db.QueryBuilder.Select("*").
		From("todos").
		Where(squirrel.Eq{"id": id.String()})

	querySQL, queryArgs, err := query.ToSql()
	if err != nil {
		return domain.Todo{}, err
	}

	rows, err := r.db.QueryContext(ctx, querySQL, queryArgs...)
	if err != nil {
		return domain.Todo{}, err
	}
	defer rows.Close()

	var todo domain.Todo
	if err := r.scanner.ScanRowToStruct(rows, &todo); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Todo{}, domain.ErrNotFound
		}

		return domain.Todo{}, err
	}

	return todo, nil
}

func (r *TodoRepository) Create(ctx context.Context, todo domain.Todo) (domain.Todo, error) {
	ctx, span := r.telemetry.StartRepositorySpan(ctx, "create", "todo", map[string]interface{}{
		"todo.id": todo.ID.String(),
	})
	defer span.End()

	start := time.Now()

	query := r.db.QueryBuilder.Insert("todos").SetMap(todo.ToMap())

	querySQL, queryArgs, err := query.ToSql()
	if err != nil {
		return domain.Todo{}, err
	}

	r.telemetry.RecordRepositoryQuery(ctx, "create", "todo", querySQL, queryArgs)

	if _, err := r.db.ExecContext(ctx, querySQL, queryArgs...); err != nil {
		r.telemetry.RecordRepositoryOperation(ctx, "create", "todo", time.Since(start), err)
		return domain.Todo{}, err
	}

	r.telemetry.RecordRepositoryOperation(ctx, "create", "todo", time.Since(start), nil)

	return r.GetByID(ctx, todo.ID)
}

func (r *TodoRepository) Update(ctx context.Context, todo domain.Todo) (domain.Todo, error) {
	ctx, span := r.telemetry.StartRepositorySpan(ctx, "update", "todo", map[string]interface{}{
		"todo.id": todo.ID.String(),
	})
	defer span.End()

	start := time.Now()

	values := todo.ToMap()
	delete(values, "id")
	delete(values, "created_at")

	query := r.db.QueryBuilder.Update("todos").
		SetMap(values).
		Where(squirrel.Eq{"id": todo.ID.String()})

	querySQL, queryArgs, err := query.ToSql()
	if err != nil {
		return domain.Todo{}, err
	}

	r.telemetry.RecordRepositoryQuery(ctx, "update", "todo", querySQL, queryArgs)

	result, err := r.db.ExecContext(ctx, querySQL, queryArgs...)
	if err != nil {
		r.telemetry.RecordRepositoryOperation(ctx, "update", "todo", time.Since(start), err)
		return domain.Todo{}, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return domain.Todo{}, err
	}

	if affected == 0 {
		return domain.Todo{}, domain.ErrNotFound
	}

	r.telemetry.RecordRepositoryOperation(ctx, "update", "todo", time.Since(start), nil)

	return r.GetByID(ctx, todo.ID)
}

func (r *TodoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := r.telemetry.StartRepositorySpan(ctx, "delete", "todo", map[string]interface{}{
		"todo.id": id.String(),
	})
	defer span.End()

	start := time.Now()

	query := r.db.QueryBuilder.Delete("todos").Where(squirrel.Eq{"id": id.String()})

	querySQL, queryArgs, err := query.ToSql()
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, querySQL, queryArgs...)
	if err != nil {
		r.telemetry.RecordRepositoryOperation(ctx, "delete", "todo", time.Since(start), err)
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 0 {
		return domain.ErrNotFound
	}

	r.telemetry.RecordRepositoryOperation(ctx, "delete", "todo", time.Since(start), nil)

	return nil
}

func (r *TodoRepository) CountByCompletion(ctx context.Context) (int, int, error) {
	ctx, span := r.telemetry.StartRepositorySpan(ctx, "count_by_completion", "todo", nil)
	defer span.End()

	query := r.db.QueryBuilder.Select(
		"COUNT(*)",
		"COUNT(CASE WHEN is_completed THEN 1 END)",
	).From("todos")

	querySQL, queryArgs, err := query.ToSql()
	if err != nil {
		return 0, 0, err
	}

	var total, completed int
	if err := r.db.QueryRowContext(ctx, querySQL, queryArgs...).Scan(&total, &completed); err != nil {
		return 0, 0, err
	}

	return total, completed, nil
}

func (r *TodoRepository) CreatedBetween(ctx context.Context, from, to time.Time) ([]domain.Todo, error) {
	ctx, span := r.telemetry.StartRepositorySpan(ctx, "created_between", "todo", map[string]interface{}{
		"from": from.Format(time.RFC3339),
		"to":   to.Format(time.RFC3339),
	})
	defer span.End()

	query := r.db.QueryBuilder.Select("*").
		From("todos").
		Where(squirrel.GtOrEq{"created_at": from}).
		Where(squirrel.Lt{"created_at": to}).
		OrderBy("created_at ASC", "id ASC")

	querySQL, queryArgs, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, querySQL, queryArgs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var todos []domain.Todo
	if err := r.scanner.ScanRowsToSlice(rows, &todos); err != nil {
		return nil, err
	}

	return todos, nil
}

func (r *TodoRepository) DeleteAll(ctx context.Context) error {
	ctx, span := r.telemetry.StartRepositorySpan(ctx, "delete_all", "todo", nil)
	defer span.End()

	query := r.db.QueryBuilder.Delete("todos")

	querySQL, queryArgs, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, querySQL, queryArgs...)
	return err
}

func (r *TodoRepository) BulkInsert(ctx context.Context, todos []domain.Todo) error {
	if len(todos) == 0 {
		return nil
	}

	ctx, span := r.telemetry.StartRepositorySpan(ctx, "bulk_insert", "todo", map[string]interface{}{
		"count": len(todos),
	})
	defer span.End()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, todo := range todos {
		query := r.db.QueryBuilder.Insert("todos").SetMap(todo.ToMap())

		querySQL, queryArgs, err := query.ToSql()
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, querySQL, queryArgs...); err != nil {
			return err
		}
	}

	return tx.Commit()
}
