package seed

import (
	"math/rand"
	"time"

	"github.com/google/uuid"

	"taskflow/internal/core/domain"
)

// Deterministic seed so every environment gets the same dataset.
const randomSeed = 42

var sampleTitles = []string{
	"Review pull request",
	"Write project proposal",
	"Update documentation",
	"Fix login page bug",
	"Prepare sprint demo",
	"Refactor payment module",
	"Schedule team retro",
	"Audit npm dependencies",
	"Design onboarding flow",
	"Migrate staging database",
	"Investigate slow queries",
	"Set up CI pipeline",
	"Answer support tickets",
	"Plan quarterly roadmap",
	"Clean up feature flags",
	"Benchmark API endpoints",
	"Renew TLS certificates",
	"Draft release notes",
	"Pair on search feature",
	"Archive stale branches",
}

var sampleDescriptions = []string{
	"Carry over from last sprint.",
	"Blocked until design sign off.",
	"Should take less than an hour.",
	"Needs input from the platform team.",
	"",
	"Double check edge cases before closing.",
	"",
	"Customer reported this twice this week.",
}

// Generate produces count todos spread over the past ten days with a
// fixed priority mix: roughly 20% high, 35% medium, 45% low, and 40%
// completed overall.
func Generate(count int, now time.Time) []domain.Todo {
	r := rand.New(rand.NewSource(randomSeed))
	now = now.UTC()

	todos := make([]domain.Todo, 0, count)

	for i := 0; i < count; i++ {
		createdAt := now.
			AddDate(0, 0, -r.Intn(10)).
			Add(-time.Duration(r.Intn(24)) * time.Hour).
			Add(-time.Duration(r.Intn(60)) * time.Minute)

		todo := domain.Todo{
			ID:          uuid.New(),
			Title:       sampleTitles[r.Intn(len(sampleTitles))],
			Description: sampleDescriptions[r.Intn(len(sampleDescriptions))],
			Priority:    randomPriority(r),
			IsCompleted: r.Float64() < 0.40,
			CreatedAt:   createdAt,
			UpdatedAt:   createdAt,
		}

		if r.Float64() < 0.5 {
			dueDate := createdAt.AddDate(0, 0, 1+r.Intn(14))
			todo.DueDate = &dueDate
		}

		todos = append(todos, todo)
	}

	return todos
}

func randomPriority(r *rand.Rand) domain.Priority {
	roll := r.Float64()

	switch {
	case roll < 0.20:
		return domain.PriorityHigh
	case roll < 0.55:
		return domain.PriorityMedium
	default:
		return domain.PriorityLow
	}
}
