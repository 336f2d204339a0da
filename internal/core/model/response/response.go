package response

import (
	"time"

	"github.com/google/uuid"

	"taskflow/internal/core/domain"
)

type TodoResponse struct {
	ID          uuid.UUID       `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Priority    domain.Priority `json:"priority"`
	IsCompleted bool            `json:"isCompleted"`
	DueDate     *time.Time      `json:"dueDate,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func NewTodoResponse(todo domain.Todo) TodoResponse {
	return TodoResponse{
		ID:          todo.ID,
		Title:       todo.Title,
		Description: todo.Description,
		Priority:    todo.Priority,
		IsCompleted: todo.IsCompleted,
		DueDate:     todo.DueDate,
		CreatedAt:   todo.CreatedAt,
		UpdatedAt:   todo.UpdatedAt,
	}
}

type PagedResponse[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalCount int `json:"totalCount"`
	TotalPages int `json:"totalPages"`
}

type SummaryResponse struct {
	TotalCount     int `json:"totalCount"`
	CompletedCount int `json:"completedCount"`
	PendingCount   int `json:"pendingCount"`
}

type DaySummary struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
}

type WeeklySummaryResponse struct {
	Sunday    DaySummary `json:"sunday"`
	Monday    DaySummary `json:"monday"`
	Tuesday   DaySummary `json:"tuesday"`
	Wednesday DaySummary `json:"wednesday"`
	Thursday  DaySummary `json:"thursday"`
	Friday    DaySummary `json:"friday"`
	Saturday  DaySummary `json:"saturday"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ResponseError struct {
	Code    string            `json:"code"`
	Errors  []ValidationError `json:"errors"`
	Details any               `json:"details,omitempty"`
}

type ErrorResponse struct {
	Error ResponseError `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count,omitempty"`
}
