package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"

	"taskflow/internal/adapter/database/sqlite/repository"
	"taskflow/internal/adapter/http/handler"
	"taskflow/internal/adapter/http/routes"
	"taskflow/internal/core/domain"
	"taskflow/internal/core/model/response"
	"taskflow/internal/core/port"
	"taskflow/internal/core/service"
	"taskflow/pkg/logging"
	. "taskflow/pkg/test"
	"taskflow/pkg/test/factory"
)

type TodoHandlerSuite struct {
	suite.Suite
	Repo   port.TodoRepository
	Router *gin.Engine
}

var ctx = context.Background()

func (s *TodoHandlerSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	db := InitTestDB()
	s.Repo = repository.NewTodoRepository(db)

	logger, err := logging.NewLokiLogger("taskflow-test", "")

	Expect(err).To(BeNil())

	todoSvc := service.NewTodoService(s.Repo, nil)
	todoHandler := handler.NewTodoHandler(todoSvc, logger)
	devHandler := handler.NewDevToolsHandler(s.Repo, logger, "test")

	s.Router = routes.SetupRouterForTests(routes.HandlersConfig{
		TodoHandler:     todoHandler,
		DevToolsHandler: devHandler,
	})
}

func TestTodoHandlerSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(TodoHandlerSuite))
}

func (s *TodoHandlerSuite) request(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request

	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)

	return w
}

func (s *TodoHandlerSuite) seedTodo(custom map[string]any) domain.Todo {
	todo, err := s.Repo.Create(ctx, factory.NewTodo(custom))

	Expect(err).To(BeNil())

	return todo
}

func (s *TodoHandlerSuite) TestCreateTodo_Success() {
	w := s.request(http.MethodPost, "/api/todos", `{"title":"Write tests","priority":"High"}`)

	Expect(w.Code).To(Equal(http.StatusCreated))

	var created response.TodoResponse
	Expect(json.Unmarshal(w.Body.Bytes(), &created)).To(Succeed())

	Expect(created.ID).NotTo(Equal(uuid.Nil))
	Expect(created.Title).To(Equal("Write tests"))
	Expect(created.Priority).To(Equal(domain.PriorityHigh))
	Expect(created.IsCompleted).To(BeFalse())
}

func (s *TodoHandlerSuite) TestCreateTodo_MissingTitle() {
	w := s.request(http.MethodPost, "/api/todos", `{"description":"no title"}`)

	Expect(w.Code).To(Equal(http.StatusBadRequest))

	var body response.ErrorResponse
	Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(Succeed())

	Expect(body.Error.Code).To(Equal("VALIDATION_ERROR"))
	Expect(body.Error.Errors[0].Field).To(Equal("title"))
}

func (s *TodoHandlerSuite) TestCreateTodo_TitleTooLong() {
	long := strings.Repeat("x", 201)

	w := s.request(http.MethodPost, "/api/todos", `{"title":"`+long+`"}`)

	Expect(w.Code).To(Equal(http.StatusBadRequest))
}

func (s *TodoHandlerSuite) TestCreateTodo_InvalidPriority() {
	w := s.request(http.MethodPost, "/api/todos", `{"title":"ok","priority":"urgent"}`)

	Expect(w.Code).To(Equal(http.StatusBadRequest))

	var body response.ErrorResponse
	Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(Succeed())

	Expect(body.Error.Errors[0].Field).To(Equal("priority"))
}

func (s *TodoHandlerSuite) TestGetTodo_Success() {
	todo := s.seedTodo(map[string]any{"Title": "Find me"})

	w := s.request(http.MethodGet, "/api/todos/"+todo.ID.String(), "")

	Expect(w.Code).To(Equal(http.StatusOK))

	var got response.TodoResponse
	Expect(json.Unmarshal(w.Body.Bytes(), &got)).To(Succeed())

	Expect(got.ID).To(Equal(todo.ID))
	Expect(got.Title).To(Equal("Find me"))
}

func (s *TodoHandlerSuite) TestGetTodo_NotFound() {
	w := s.request(http.MethodGet, "/api/todos/"+uuid.NewString(), "")

	Expect(w.Code).To(Equal(http.StatusNotFound))
}

func (s *TodoHandlerSuite) TestGetTodo_InvalidID() {
	w := s.request(http.MethodGet, "/api/todos/not-a-uuid", "")

	Expect(w.Code).To(Equal(http.StatusBadRequest))
}

func (s *TodoHandlerSuite) TestListTodos_FiltersAndPaginates() {
	for i := 0; i < 15; i++ {
		s.seedTodo(map[string]any{"IsCompleted": i < 6})
	}

	w := s.request(http.MethodGet, "/api/todos?isCompleted=true&pageSize=5", "")

	Expect(w.Code).To(Equal(http.StatusOK))

	var page response.PagedResponse[response.TodoResponse]
	Expect(json.Unmarshal(w.Body.Bytes(), &page)).To(Succeed())

	Expect(page.TotalCount).To(Equal(6))
	Expect(page.TotalPages).To(Equal(2))
	Expect(page.Items).To(HaveLen(5))
}

func (s *TodoHandlerSuite) TestListTodos_InvalidPriority() {
	w := s.request(http.MethodGet, "/api/todos?priority=critical", "")

	Expect(w.Code).To(Equal(http.StatusBadRequest))
}

func (s *TodoHandlerSuite) TestSummary() {
	s.seedTodo(map[string]any{"IsCompleted": true})
	s.seedTodo(map[string]any{"IsCompleted": false})
	s.seedTodo(map[string]any{"IsCompleted": false})

	w := s.request(http.MethodGet, "/api/todos/summary", "")

	Expect(w.Code).To(Equal(http.StatusOK))

	var summary response.SummaryResponse
	Expect(json.Unmarshal(w.Body.Bytes(), &summary)).To(Succeed())

	Expect(summary.TotalCount).To(Equal(3))
	Expect(summary.CompletedCount).To(Equal(1))
	Expect(summary.PendingCount).To(Equal(2))
}

func (s *TodoHandlerSuite) TestWeeklySummary_HasAllSevenDays() {
	now := time.Now().UTC()
	s.seedTodo(map[string]any{"CreatedAt": now, "UpdatedAt": now})

	w := s.request(http.MethodGet, "/api/todos/summary/weekly", "")

	Expect(w.Code).To(Equal(http.StatusOK))

	var weekly map[string]response.DaySummary
	Expect(json.Unmarshal(w.Body.Bytes(), &weekly)).To(Succeed())

	Expect(weekly).To(HaveLen(7))
	Expect(weekly).To(HaveKey("sunday"))
	Expect(weekly).To(HaveKey("saturday"))
}

func (s *TodoHandlerSuite) TestUpdateTodo_Success() {
	todo := s.seedTodo(map[string]any{"Title": "before"})

	w := s.request(http.MethodPut, "/api/todos/"+todo.ID.String(),
		`{"title":"after","priority":"Medium","isCompleted":true}`)

	Expect(w.Code).To(Equal(http.StatusOK))

	var updated response.TodoResponse
	Expect(json.Unmarshal(w.Body.Bytes(), &updated)).To(Succeed())

	Expect(updated.Title).To(Equal("after"))
	Expect(updated.Priority).To(Equal(domain.PriorityMedium))
	Expect(updated.IsCompleted).To(BeTrue())
}

func (s *TodoHandlerSuite) TestUpdateTodo_NotFound() {
	w := s.request(http.MethodPut, "/api/todos/"+uuid.NewString(), `{"title":"x"}`)

	Expect(w.Code).To(Equal(http.StatusNotFound))
}

func (s *TodoHandlerSuite) TestToggleTodo() {
	todo := s.seedTodo(map[string]any{"IsCompleted": false})

	w := s.request(http.MethodPatch, "/api/todos/"+todo.ID.String()+"/toggle", "")

	Expect(w.Code).To(Equal(http.StatusOK))

	var toggled response.TodoResponse
	Expect(json.Unmarshal(w.Body.Bytes(), &toggled)).To(Succeed())

	Expect(toggled.IsCompleted).To(BeTrue())
}

func (s *TodoHandlerSuite) TestToggleTodo_NotFound() {
	w := s.request(http.MethodPatch, "/api/todos/"+uuid.NewString()+"/toggle", "")

	Expect(w.Code).To(Equal(http.StatusNotFound))
}

func (s *TodoHandlerSuite) TestDeleteTodo() {
	todo := s.seedTodo(nil)

	w := s.request(http.MethodDelete, "/api/todos/"+todo.ID.String(), "")

	Expect(w.Code).To(Equal(http.StatusNoContent))

	w = s.request(http.MethodDelete, "/api/todos/"+todo.ID.String(), "")

	Expect(w.Code).To(Equal(http.StatusNotFound))
}

func (s *TodoHandlerSuite) TestSeedEndpoint() {
	w := s.request(http.MethodPost, "/api/seed?count=20", "")

	Expect(w.Code).To(Equal(http.StatusOK))

	var msg response.MessageResponse
	Expect(json.Unmarshal(w.Body.Bytes(), &msg)).To(Succeed())

	Expect(msg.Count).To(Equal(20))

	_, total, err := s.Repo.List(ctx, domain.ListFilter{}.Normalize())

	Expect(err).To(BeNil())
	Expect(total).To(Equal(20))
}

func (s *TodoHandlerSuite) TestResetEndpoint_ReplacesState() {
	s.seedTodo(map[string]any{"Title": "stale"})

	w := s.request(http.MethodPost, "/api/test/reset",
		`{"todos":[{"title":"pinned","priority":"High","isCompleted":true}]}`)

	Expect(w.Code).To(Equal(http.StatusOK))

	todos, total, err := s.Repo.List(ctx, domain.ListFilter{}.Normalize())

	Expect(err).To(BeNil())
	Expect(total).To(Equal(1))
	Expect(todos[0].Title).To(Equal("pinned"))
	Expect(todos[0].IsCompleted).To(BeTrue())
	Expect(todos[0].Priority).To(Equal(domain.PriorityHigh))
}

func (s *TodoHandlerSuite) TestHealthEndpoint() {
	w := s.request(http.MethodGet, "/api/test/health", "")

	Expect(w.Code).To(Equal(http.StatusOK))

	var body map[string]string
	Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(Succeed())

	Expect(body["status"]).To(Equal("ok"))
	Expect(body["environment"]).To(Equal("test"))
}
