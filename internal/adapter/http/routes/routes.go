package routes

import (
	"github.com/gin-gonic/gin"

	"taskflow/internal/adapter/http/handler"
	"taskflow/internal/adapter/http/middleware"
	"taskflow/internal/core/telemetry"
	"taskflow/pkg/config"
	"taskflow/pkg/logging"
	pkgresponse "taskflow/pkg/response"
)

type HandlersConfig struct {
	TodoHandler     *handler.TodoHandler
	DevToolsHandler *handler.DevToolsHandler
}

func SetupRouterWithConfig(handlers HandlersConfig, metrics *telemetry.AppMetrics, logger *logging.LokiLogger, cfg *config.AppConfig, responseCache *pkgresponse.ResponseCache) *gin.Engine {
	if gin.Mode() == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	middleware.SetupGinMiddlewareWithConfig(router, "taskflow", metrics, logger, cfg, responseCache)

	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.CORSAllowedOrigin))

	setupTodoRoutes(router, handlers.TodoHandler)

	if cfg.DevEndpointsEnabled && handlers.DevToolsHandler != nil {
		setupDevRoutes(router, handlers.DevToolsHandler)
	}

	return router
}

func setupTodoRoutes(router *gin.Engine, todoHandler *handler.TodoHandler) {
	api := router.Group("/api")
	{
		api.GET("/todos", todoHandler.ListTodos)
		api.GET("/todos/summary", todoHandler.GetSummary)
		api.GET("/todos/summary/weekly", todoHandler.GetWeeklySummary)
		api.GET("/todos/:id", todoHandler.GetTodo)
		api.POST("/todos", todoHandler.CreateTodo)
		api.PUT("/todos/:id", todoHandler.UpdateTodo)
		api.PATCH("/todos/:id/toggle", todoHandler.ToggleTodo)
		api.DELETE("/todos/:id", todoHandler.DeleteTodo)
	}
}

func setupDevRoutes(router *gin.Engine, devHandler *handler.DevToolsHandler) {
	api := router.Group("/api")
	{
		api.POST("/seed", devHandler.SeedDatabase)
		api.POST("/test/reset", devHandler.ResetDatabase)
		api.GET("/test/health", devHandler.Health)
	}
}

// SetupRouterForTests mounts every route with no telemetry, cache or
// logging middleware.
func SetupRouterForTests(handlers HandlersConfig) *gin.Engine {
	if gin.Mode() == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware("*"))

	setupTodoRoutes(router, handlers.TodoHandler)

	if handlers.DevToolsHandler != nil {
		setupDevRoutes(router, handlers.DevToolsHandler)
	}

	return router
}
