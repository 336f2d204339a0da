package request

import "time"

type CreateTodoRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"dueDate"`
}

type UpdateTodoRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"dueDate"`
	IsCompleted bool       `json:"isCompleted"`
}

type ListTodosParams struct {
	Page        int     `form:"page,default=1"`
	PageSize    int     `form:"pageSize,default=10"`
	IsCompleted *bool   `form:"isCompleted"`
	Priority    *string `form:"priority"`
	Search      string  `form:"search"`
	SortBy      string  `form:"sortBy"`
	SortOrder   string  `form:"sortOrder,default=desc"`
}

// SeedTodoRequest is the wire shape accepted by the e2e reset endpoint.
type SeedTodoRequest struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	IsCompleted bool       `json:"isCompleted"`
	DueDate     *time.Time `json:"dueDate"`
	CreatedAt   *time.Time `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt"`
}
