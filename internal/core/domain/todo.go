package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when an operation targets an id that does not
// exist. Callers treat it as normal control flow, not a failure.
var ErrNotFound = errors.New("todo not found")

type Priority int

const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
)

type Todo struct {
	ID          uuid.UUID
	Title       string   `validate:"required,max=200"`
	Description string   `validate:"max=1000"`
	Priority    Priority `validate:"min=0,max=2"`
	IsCompleted bool
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (t *Todo) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"id":           t.ID.String(),
		"title":        t.Title,
		"description":  t.Description,
		"priority":     int(t.Priority),
		"is_completed": t.IsCompleted,
		"due_date":     t.DueDate,
		"created_at":   t.CreatedAt,
		"updated_at":   t.UpdatedAt,
	}
}

func (p Priority) Valid() bool {
	return p >= PriorityLow && p <= PriorityHigh
}

func (p Priority) String() string {
	switch p {
	case PriorityMedium:
		return "Medium"
	case PriorityHigh:
		return "High"
	default:
		return "Low"
	}
}

func ParsePriority(value string) (Priority, error) {
	switch strings.ToLower(value) {
	case "low":
		return PriorityLow, nil
	case "medium":
		return PriorityMedium, nil
	case "high":
		return PriorityHigh, nil
	default:
		return -1, fmt.Errorf("invalid priority: %s", value)
	}
}

func (p Priority) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.String() + `"`), nil
}

func (p *Priority) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)

	parsed, err := ParsePriority(raw)

	if err != nil {
		return err
	}

	*p = parsed
	return nil
}

// ListFilter carries every predicate the list endpoint accepts. Nil
// pointer fields mean "not filtered"; filters combine with AND.
type ListFilter struct {
	Page        int
	PageSize    int
	IsCompleted *bool
	Priority    *Priority
	Search      string
	SortBy      string
	SortOrder   string
}

var sortColumns = map[string]bool{
	"title":     true,
	"duedate":   true,
	"priority":  true,
	"createdat": true,
}

// Normalize applies the documented defaults: page 1, pageSize 10, sort
// by createdAt descending.
func (f ListFilter) Normalize() ListFilter {
	if f.Page < 1 {
		f.Page = 1
	}

	if f.PageSize < 1 {
		f.PageSize = 10
	}

	f.SortBy = strings.ToLower(f.SortBy)

	if !sortColumns[f.SortBy] {
		f.SortBy = "createdat"
	}

	if strings.ToLower(f.SortOrder) == "asc" {
		f.SortOrder = "asc"
	} else {
		f.SortOrder = "desc"
	}

	return f
}
