package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"taskflow/internal/adapter/database/postgres"
	"taskflow/internal/core/domain"
	"taskflow/internal/core/port"
)

var sortColumnNames = map[string]string{
	"title":     "title",
	"duedate":   "due_date",
	"priority":  "priority",
	"createdat": "created_at",
}

type TodoRepository struct {
	db *postgres.DB
}

func NewTodoRepository(db *postgres.DB) port.TodoRepository {
	return &TodoRepository{db: db}
}

func scanTodo(row pgx.Row) (domain.Todo, error) {
	var todo domain.Todo
	var id string
	var priority int

	err := row.Scan(&id, &todo.Title, &todo.Description, &priority, &todo.IsCompleted, &todo.DueDate, &todo.CreatedAt, &todo.UpdatedAt)

	if err != nil {
		return domain.Todo{}, err
	}

	todo.ID, err = uuid.Parse(id)

	if err != nil {
		return domain.Todo{}, err
	}

	todo.Priority = domain.Priority(priority)

	return todo, nil
}

const todoColumns = "id, title, description, priority, is_completed, due_date, created_at, updated_at"

func (tr *TodoRepository) applyFilter(builder sq.SelectBuilder, filter domain.ListFilter) sq.SelectBuilder {
	if filter.IsCompleted != nil {
		builder = builder.Where(sq.Eq{"is_completed": *filter.IsCompleted})
	}

	if filter.Priority != nil {
		builder = builder.Where(sq.Eq{"priority": int(*filter.Priority)})
	}

	if filter.Search != "" {
		builder = builder.Where(sq.Like{"LOWER(title)": "%" + strings.ToLower(filter.Search) + "%"})
	}

	return builder
}

func (tr *TodoRepository) List(ctx context.Context, filter domain.ListFilter) ([]domain.Todo, int, error) {
	countQuery := tr.applyFilter(tr.db.QueryBuilder.Select("COUNT(*)").From("todos"), filter)

	countSQL, countArgs, err := countQuery.ToSql()

	if err != nil {
		return nil, 0, err
	}

	var total int

	if err := tr.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
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

	query := tr.applyFilter(tr.db.QueryBuilder.Select(todoColumns).From("todos"), filter).
		OrderBy(orderColumn+" "+direction, "id ASC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64((filter.Page - 1) * filter.PageSize))

	querySQL, queryArgs, err := query.ToSql()

	if err != nil {
		return nil, 0, err
	}

	rows, err := tr.db.Query(ctx, querySQL, queryArgs...)

	if err != nil {
		return nil, 0, err
	}

	defer rows.Close()

	todos := []domain.Todo{}

	for rows.Next() {
		todo, err := scanTodo(rows)

		if err != nil {
			return nil, 0, err
		}

		todos = append(todos, todo)
	}

	return todos, total, rows.Err()
}

func (tr *TodoRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Todo, error) {
	query := tr.db.QueryBuilder.Select(todoColumns).
		From("todos").
		Where(sq.Eq{"id": id.String()}).
		Limit(1)

	querySQL, queryArgs, err := query.ToSql()

	if err != nil {
		return domain.Todo{}, err
	}

	todo, err := scanTodo(tr.db.QueryRow(ctx, querySQL, queryArgs...))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Todo{}, domain.ErrNotFound
		}

		return domain.Todo{}, err
	}

	return todo, nil
}

func (tr *TodoRepository) Create(ctx context.Context, todo domain.Todo) (domain.Todo, error) {
	query := tr.db.QueryBuilder.Insert("todos").SetMap(todo.ToMap())

	querySQL, queryArgs, err := query.ToSql()

	if err != nil {
		return domain.Todo{}, err
	}

	if _, err := tr.db.Exec(ctx, querySQL, queryArgs...); err != nil {
		return domain.Todo{}, err
	}

	return tr.GetByID(ctx, todo.ID)
}

func (tr *TodoRepository) Update(ctx context.Context, todo domain.Todo) (domain.Todo, error) {
	values := todo.ToMap()
	delete(values, "id")
	delete(values, "created_at")

	query := tr.db.QueryBuilder.Update("todos").
		SetMap(values).
		Where(sq.Eq{"id": todo.ID.String()})

	querySQL, queryArgs, err := query.ToSql()

	if err != nil {
		return domain.Todo{}, err
	}

	result, err := tr.db.Exec(ctx, querySQL, queryArgs...)

	if err != nil {
		return domain.Todo{}, err
	}

	if result.RowsAffected() == 0 {
		return domain.Todo{}, domain.ErrNotFound
	}

	return tr.GetByID(ctx, todo.ID)
}

func (tr *TodoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := tr.db.QueryBuilder.Delete("todos").Where(sq.Eq{"id": id.String()})

	querySQL, queryArgs, err := query.ToSql()

	if err != nil {
		return err
	}

	result, err := tr.db.Exec(ctx, querySQL, queryArgs...)

	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (tr *TodoRepository) CountByCompletion(ctx context.Context) (int, int, error) {
	query := tr.db.QueryBuilder.Select(
		"COUNT(*)",
		"COUNT(CASE WHEN is_completed THEN 1 END)",
	).From("todos")

	querySQL, queryArgs, err := query.ToSql()

	if err != nil {
		return 0, 0, err
	}

	var total, completed int

	if err := tr.db.QueryRow(ctx, querySQL, queryArgs...).Scan(&total, &completed); err != nil {
		return 0, 0, err
	}

	return total, completed, nil
}

func (tr *TodoRepository) CreatedBetween(ctx context.Context, from, to time.Time) ([]domain.Todo, error) {
	query := tr.db.QueryBuilder.Select(todoColumns).
		From("todos").
		Where(sq.GtOrEq{"created_at": from}).
		Where(sq.Lt{"created_at": to}).
		OrderBy("created_at ASC", "id ASC")

	querySQL, queryArgs, err := query.ToSql()

	if err != nil {
		return nil, err
	}

	rows, err := tr.db.Query(ctx, querySQL, queryArgs...)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	todos := []domain.Todo{}

	for rows.Next() {
		todo, err := scanTodo(rows)

		if err != nil {
			return nil, err
		}

		todos = append(todos, todo)
	}

	return todos, rows.Err()
}

func (tr *TodoRepository) DeleteAll(ctx context.Context) error {
	query := tr.db.QueryBuilder.Delete("todos")

	querySQL, queryArgs, err := query.ToSql()

	if err != nil {
		return err
	}

	_, err = tr.db.Exec(ctx, querySQL, queryArgs...)
	return err
}

func (tr *TodoRepository) BulkInsert(ctx context.Context, todos []domain.Todo) error {
	if len(todos) == 0 {
		return nil
	}

	tx, err := tr.db.Begin(ctx)

	if err != nil {
		return err
	}

	defer tx.Rollback(ctx)

	for _, todo := range todos {
		query := tr.db.QueryBuilder.Insert("todos").SetMap(todo.ToMap())

		querySQL, queryArgs, err := query.ToSql()

		if err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, querySQL, queryArgs...); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
