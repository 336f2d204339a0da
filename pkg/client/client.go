package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"taskflow/internal/core/domain"
	"taskflow/internal/core/model/request"
	"taskflow/internal/core/model/response"
)

// Client is a typed HTTP client for the todos API. Base URL should
// include the /api prefix, e.g. http://localhost:8080/api.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// APIError carries the response status plus the server error envelope.
type APIError struct {
	StatusCode int
	Body       response.ErrorResponse
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status %d code %s", e.StatusCode, e.Body.Error.Code)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.StatusCode == http.StatusNotFound
}

// ListOptions mirrors the query parameters of GET /todos.
type ListOptions struct {
	Page        int
	PageSize    int
	IsCompleted *bool
	Priority    *domain.Priority
	Search      string
	SortBy      string
	SortOrder   string
}

func (o ListOptions) query() string {
	values := url.Values{}

	if o.Page > 0 {
		values.Set("page", strconv.Itoa(o.Page))
	}

	if o.PageSize > 0 {
		values.Set("pageSize", strconv.Itoa(o.PageSize))
	}

	if o.IsCompleted != nil {
		values.Set("isCompleted", strconv.FormatBool(*o.IsCompleted))
	}

	if o.Priority != nil {
		values.Set("priority", o.Priority.String())
	}

	if o.Search != "" {
		values.Set("search", o.Search)
	}

	if o.SortBy != "" {
		values.Set("sortBy", o.SortBy)
	}

	if o.SortOrder != "" {
		values.Set("sortOrder", o.SortOrder)
	}

	return values.Encode()
}

func (c *Client) List(ctx context.Context, opts ListOptions) (response.PagedResponse[response.TodoResponse], error) {
	path := "/todos"

	if query := opts.query(); query != "" {
		path += "?" + query
	}

	var result response.PagedResponse[response.TodoResponse]

	err := c.do(ctx, http.MethodGet, path, nil, &result)
	return result, err
}

func (c *Client) Get(ctx context.Context, id uuid.UUID) (response.TodoResponse, error) {
	var result response.TodoResponse

	err := c.do(ctx, http.MethodGet, "/todos/"+id.String(), nil, &result)
	return result, err
}

func (c *Client) Create(ctx context.Context, req request.CreateTodoRequest) (response.TodoResponse, error) {
	var result response.TodoResponse

	err := c.do(ctx, http.MethodPost, "/todos", req, &result)
	return result, err
}

func (c *Client) Update(ctx context.Context, id uuid.UUID, req request.UpdateTodoRequest) (response.TodoResponse, error) {
	var result response.TodoResponse

	err := c.do(ctx, http.MethodPut, "/todos/"+id.String(), req, &result)
	return result, err
}

func (c *Client) Toggle(ctx context.Context, id uuid.UUID) (response.TodoResponse, error) {
	var result response.TodoResponse

	err := c.do(ctx, http.MethodPatch, "/todos/"+id.String()+"/toggle", nil, &result)
	return result, err
}

func (c *Client) Delete(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/todos/"+id.String(), nil, nil)
}

// Summary fetches /todos/summary and normalizes the payload regardless
// of the field casing the server uses.
func (c *Client) Summary(ctx context.Context) (Summary, error) {
	var raw json.RawMessage

	if err := c.do(ctx, http.MethodGet, "/todos/summary", nil, &raw); err != nil {
		return Summary{}, err
	}

	return NormalizeSummary(raw), nil
}

func (c *Client) WeeklySummary(ctx context.Context) (WeeklySummary, error) {
	var raw json.RawMessage

	if err := c.do(ctx, http.MethodGet, "/todos/summary/weekly", nil, &raw); err != nil {
		return WeeklySummary{}, err
	}

	return NormalizeWeeklySummary(raw), nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader

	if body != nil {
		data, err := json.Marshal(body)

		if err != nil {
			return err
		}

		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)

	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)

	if err != nil {
		return err
	}

	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr.Body)

		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
