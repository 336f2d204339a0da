package http

import (
	"taskflow/internal/adapter/http/handler"
	"taskflow/internal/core/port"
	"taskflow/internal/core/service"
	"taskflow/pkg/logging"
)

type Container struct {
	TodoRepo port.TodoRepository

	TodoUseCase port.TodoService

	TodoHandler     *handler.TodoHandler
	DevToolsHandler *handler.DevToolsHandler
}

func NewContainer(todoRepo port.TodoRepository, probe port.Telemetry, logger *logging.LokiLogger, environment string) *Container {
	todoSvc := service.NewTodoService(todoRepo, probe)

	todoHandler := handler.NewTodoHandler(todoSvc, logger)
	devHandler := handler.NewDevToolsHandler(todoRepo, logger, environment)

	return &Container{
		TodoRepo:    todoRepo,
		TodoUseCase: todoSvc,

		TodoHandler:     todoHandler,
		DevToolsHandler: devHandler,
	}
}
