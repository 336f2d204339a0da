package factory

import (
	"time"

	fab "github.com/Goldziher/fabricator"
	"github.com/google/uuid"

	"taskflow/internal/core/domain"
)

// NewTodo builds a todo with generated fields. ID and timestamps are
// always set unless the caller overrides them.
func NewTodo(customData ...map[string]any) domain.Todo {
	instance := fab.New(domain.Todo{})

	defaults := map[string]any{
		"ID":          uuid.New(),
		"Priority":    domain.PriorityLow,
		"IsCompleted": false,
		"DueDate":     (*time.Time)(nil),
		"CreatedAt":   time.Now().UTC(),
		"UpdatedAt":   time.Now().UTC(),
	}

	for _, data := range customData {
		for key, value := range data {
			defaults[key] = value
		}
	}

	return instance.Build(defaults)
}
