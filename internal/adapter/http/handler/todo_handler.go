package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"taskflow/internal/adapter/http/helper"
	"taskflow/internal/adapter/http/validation"
	"taskflow/internal/core/domain"
	"taskflow/internal/core/model/request"
	"taskflow/internal/core/port"
	"taskflow/pkg/logging"
	"taskflow/pkg/tracing"
)

type TodoHandler struct {
	svc    port.TodoService
	Logger *logging.LokiLogger
}

func NewTodoHandler(svc port.TodoService, logger *logging.LokiLogger) *TodoHandler {
	return &TodoHandler{
		svc:    svc,
		Logger: logger,
	}
}

func (t *TodoHandler) ListTodos(c *gin.Context) {
	ctx, span := tracing.CreateChildSpan(c.Request.Context(), "handler.todo.ListTodos", []attribute.KeyValue{
		attribute.String("handler.operation", "ListTodos"),
		attribute.String("handler.method", c.Request.Method),
		attribute.String("handler.path", c.FullPath()),
	})

	defer span.End()

	var params request.ListTodosParams

	if err := c.ShouldBindQuery(&params); err != nil {
		helper.SendBadRequestError(c, "query", "Invalid query parameters")
		return
	}

	filter := domain.ListFilter{
		Page:        params.Page,
		PageSize:    params.PageSize,
		IsCompleted: params.IsCompleted,
		Search:      params.Search,
		SortBy:      params.SortBy,
		SortOrder:   params.SortOrder,
	}

	if params.Priority != nil && *params.Priority != "" {
		priority, err := domain.ParsePriority(*params.Priority)

		if err != nil {
			helper.SendBadRequestError(c, "priority", err.Error())
			return
		}

		filter.Priority = &priority
	}

	span.SetAttributes(
		attribute.Int("todo.page", params.Page),
		attribute.Int("todo.page_size", params.PageSize),
	)

	data, err := t.svc.List(ctx, filter)

	if err != nil {
		tracing.AddSpanError(span, err)

		t.Logger.Logger.Ctx(ctx).Error("Failed to list todos", zap.Error(err))

		helper.SendInternalError(c, "Error listing todos")
		return
	}

	c.JSON(http.StatusOK, data)
}

func (t *TodoHandler) GetTodo(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := uuid.Parse(c.Param("id"))

	if err != nil {
		helper.SendBadRequestError(c, "id", "Invalid todo id")
		return
	}

	data, err := t.svc.GetByID(ctx, id)

	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helper.SendNotFoundError(c, "Todo not found")
			return
		}

		t.Logger.Logger.Ctx(ctx).Error("Failed to get todo", zap.Error(err), zap.String("id", id.String()))

		helper.SendInternalError(c, "Error getting todo")
		return
	}

	c.JSON(http.StatusOK, data)
}

func (t *TodoHandler) GetSummary(c *gin.Context) {
	ctx, span := tracing.CreateChildSpan(c.Request.Context(), "handler.todo.GetSummary", []attribute.KeyValue{
		attribute.String("handler.operation", "GetSummary"),
	})

	defer span.End()

	data, err := t.svc.Summary(ctx)

	if err != nil {
		tracing.AddSpanError(span, err)

		t.Logger.Logger.Ctx(ctx).Error("Failed to get summary", zap.Error(err))

		helper.SendInternalError(c, "Error getting summary")
		return
	}

	c.JSON(http.StatusOK, data)
}

func (t *TodoHandler) GetWeeklySummary(c *gin.Context) {
	ctx, span := tracing.CreateChildSpan(c.Request.Context(), "handler.todo.GetWeeklySummary", []attribute.KeyValue{
		attribute.String("handler.operation", "GetWeeklySummary"),
	})

	defer span.End()

	data, err := t.svc.WeeklySummary(ctx)

	if err != nil {
		tracing.AddSpanError(span, err)

		t.Logger.Logger.Ctx(ctx).Error("Failed to get weekly summary", zap.Error(err))

		helper.SendInternalError(c, "Error getting weekly summary")
		return
	}

	c.JSON(http.StatusOK, data)
}

func (t *TodoHandler) CreateTodo(c *gin.Context) {
	ctx := c.Request.Context()

	var params request.CreateTodoRequest

	if err := c.ShouldBindJSON(&params); err != nil {
		helper.SendBadRequestError(c, "request", "Invalid request body")
		return
	}

	todo, ok := t.todoFromRequest(c, params.Title, params.Description, params.Priority, params.DueDate)

	if !ok {
		return
	}

	created, err := t.svc.Create(ctx, todo)

	if err != nil {
		t.Logger.Logger.Ctx(ctx).Error("Failed to create todo", zap.Error(err), zap.String("title", todo.Title))

		helper.SendInternalError(c, "Error creating todo")
		return
	}

	data, err := t.svc.GetByID(ctx, created.ID)

	if err != nil {
		helper.SendInternalError(c, "Error creating todo")
		return
	}

	c.JSON(http.StatusCreated, data)
}

func (t *TodoHandler) UpdateTodo(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := uuid.Parse(c.Param("id"))

	if err != nil {
		helper.SendBadRequestError(c, "id", "Invalid todo id")
		return
	}

	var params request.UpdateTodoRequest

	if err := c.ShouldBindJSON(&params); err != nil {
		helper.SendBadRequestError(c, "request", "Invalid request body")
		return
	}

	todo, ok := t.todoFromRequest(c, params.Title, params.Description, params.Priority, params.DueDate)

	if !ok {
		return
	}

	todo.IsCompleted = params.IsCompleted

	updated, err := t.svc.Update(ctx, id, todo)

	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helper.SendNotFoundError(c, "Todo not found")
			return
		}

		t.Logger.Logger.Ctx(ctx).Error("Failed to update todo", zap.Error(err), zap.String("id", id.String()))

		helper.SendInternalError(c, "Error updating todo")
		return
	}

	data, err := t.svc.GetByID(ctx, updated.ID)

	if err != nil {
		helper.SendInternalError(c, "Error updating todo")
		return
	}

	c.JSON(http.StatusOK, data)
}

func (t *TodoHandler) ToggleTodo(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := uuid.Parse(c.Param("id"))

	if err != nil {
		helper.SendBadRequestError(c, "id", "Invalid todo id")
		return
	}

	toggled, err := t.svc.Toggle(ctx, id)

	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helper.SendNotFoundError(c, "Todo not found")
			return
		}

		t.Logger.Logger.Ctx(ctx).Error("Failed to toggle todo", zap.Error(err), zap.String("id", id.String()))

		helper.SendInternalError(c, "Error toggling todo")
		return
	}

	data, err := t.svc.GetByID(ctx, toggled.ID)

	if err != nil {
		helper.SendInternalError(c, "Error toggling todo")
		return
	}

	c.JSON(http.StatusOK, data)
}

func (t *TodoHandler) DeleteTodo(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := uuid.Parse(c.Param("id"))

	if err != nil {
		helper.SendBadRequestError(c, "id", "Invalid todo id")
		return
	}

	if err := t.svc.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helper.SendNotFoundError(c, "Todo not found")
			return
		}

		t.Logger.Logger.Ctx(ctx).Error("Failed to delete todo", zap.Error(err), zap.String("id", id.String()))

		helper.SendInternalError(c, "Error deleting todo")
		return
	}

	c.Status(http.StatusNoContent)
}

// todoFromRequest validates and converts the shared create/update fields.
// A false return means an error response was already written.
func (t *TodoHandler) todoFromRequest(c *gin.Context, title, description, priority string, dueDate *time.Time) (domain.Todo, bool) {
	todo := domain.Todo{
		Title:       title,
		Description: description,
		DueDate:     dueDate,
	}

	if priority != "" {
		parsed, err := domain.ParsePriority(priority)

		if err != nil {
			helper.SendBadRequestError(c, "priority", err.Error())
			return domain.Todo{}, false
		}

		todo.Priority = parsed
	}

	if err := validation.Validator.Struct(todo); err != nil {
		helper.SendValidationError(c, err)
		return domain.Todo{}, false
	}

	return todo, true
}
