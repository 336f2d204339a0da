package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskflow/internal/adapter/http/helper"
	"taskflow/internal/core/domain"
	"taskflow/internal/core/model/request"
	"taskflow/internal/core/model/response"
	"taskflow/internal/core/port"
	"taskflow/internal/seed"
	"taskflow/pkg/logging"
)

// DevToolsHandler backs the seed and e2e reset endpoints. Only mounted
// outside production.
type DevToolsHandler struct {
	repo        port.TodoRepository
	Logger      *logging.LokiLogger
	environment string
}

func NewDevToolsHandler(repo port.TodoRepository, logger *logging.LokiLogger, environment string) *DevToolsHandler {
	return &DevToolsHandler{
		repo:        repo,
		Logger:      logger,
		environment: environment,
	}
}

func (d *DevToolsHandler) SeedDatabase(c *gin.Context) {
	ctx := c.Request.Context()

	count, err := strconv.Atoi(c.DefaultQuery("count", "50"))

	if err != nil || count < 1 || count > 1000 {
		helper.SendBadRequestError(c, "count", "count must be between 1 and 1000")
		return
	}

	if err := d.repo.DeleteAll(ctx); err != nil {
		d.Logger.Logger.Ctx(ctx).Error("Failed to clear todos before seeding", zap.Error(err))
		helper.SendInternalError(c, "Error seeding database")
		return
	}

	todos := seed.Generate(count, time.Now())

	if err := d.repo.BulkInsert(ctx, todos); err != nil {
		d.Logger.Logger.Ctx(ctx).Error("Failed to insert seed todos", zap.Error(err))
		helper.SendInternalError(c, "Error seeding database")
		return
	}

	d.Logger.InfoWithTrace(ctx, "Database seeded", zap.Int("count", len(todos)))

	c.JSON(http.StatusOK, response.MessageResponse{
		Message: "Database seeded",
		Count:   len(todos),
	})
}

type resetRequest struct {
	Todos []request.SeedTodoRequest `json:"todos"`
}

// ResetDatabase replaces the whole table with the todos the caller
// provides. E2e suites use it to pin a known state.
func (d *DevToolsHandler) ResetDatabase(c *gin.Context) {
	ctx := c.Request.Context()

	var params resetRequest

	if err := c.ShouldBindJSON(&params); err != nil {
		helper.SendBadRequestError(c, "request", "Invalid request body")
		return
	}

	todos := make([]domain.Todo, 0, len(params.Todos))
	now := time.Now().UTC()

	for _, item := range params.Todos {
		todo := domain.Todo{
			ID:          uuid.New(),
			Title:       item.Title,
			Description: item.Description,
			IsCompleted: item.IsCompleted,
			DueDate:     item.DueDate,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if item.ID != "" {
			id, err := uuid.Parse(item.ID)

			if err != nil {
				helper.SendBadRequestError(c, "id", "Invalid todo id: "+item.ID)
				return
			}

			todo.ID = id
		}

		if item.Priority != "" {
			priority, err := domain.ParsePriority(item.Priority)

			if err != nil {
				helper.SendBadRequestError(c, "priority", err.Error())
				return
			}

			todo.Priority = priority
		}

		if item.CreatedAt != nil {
			todo.CreatedAt = item.CreatedAt.UTC()
		}

		if item.UpdatedAt != nil {
			todo.UpdatedAt = item.UpdatedAt.UTC()
		} else {
			todo.UpdatedAt = todo.CreatedAt
		}

		todos = append(todos, todo)
	}

	if err := d.repo.DeleteAll(ctx); err != nil {
		d.Logger.Logger.Ctx(ctx).Error("Failed to clear todos on reset", zap.Error(err))
		helper.SendInternalError(c, "Error resetting database")
		return
	}

	if err := d.repo.BulkInsert(ctx, todos); err != nil {
		d.Logger.Logger.Ctx(ctx).Error("Failed to insert todos on reset", zap.Error(err))
		helper.SendInternalError(c, "Error resetting database")
		return
	}

	c.JSON(http.StatusOK, response.MessageResponse{
		Message: "Database reset",
		Count:   len(todos),
	})
}

func (d *DevToolsHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"environment": d.environment,
	})
}
