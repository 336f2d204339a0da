package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"taskflow/internal/core/model/request"
	"taskflow/internal/core/model/response"
	"taskflow/internal/core/service"
	"taskflow/pkg/client"
)

// State is the client-side mirror of the server data. Counters follow
// every mutation locally so the UI never waits for a summary refetch.
type State struct {
	Todos       []response.TodoResponse
	Page        int
	PageSize    int
	TotalCount  int
	HasMore     bool
	Loading     bool
	LoadingMore bool
	Summary     client.Summary
	Weekly      client.WeeklySummary
}

// Store synchronizes local state with the API, applying mutations
// optimistically and rolling back on failure. Safe for concurrent use.
type Store struct {
	mu    sync.Mutex
	api   *client.Client
	state State
	now   func() time.Time
}

func New(api *client.Client, pageSize int) *Store {
	if pageSize < 1 {
		pageSize = 10
	}

	return &Store{
		api: api,
		state: State{
			Todos:    []response.TodoResponse{},
			Page:     1,
			PageSize: pageSize,
		},
		now: time.Now,
	}
}

// WithClock replaces the time source used for weekly bucketing.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshot()
}

func (s *Store) snapshot() State {
	copied := s.state
	copied.Todos = append([]response.TodoResponse(nil), s.state.Todos...)
	return copied
}

// Load fetches the first page plus both summaries.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()

	if s.state.Loading {
		s.mu.Unlock()
		return nil
	}

	s.state.Loading = true
	pageSize := s.state.PageSize
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.state.Loading = false
		s.mu.Unlock()
	}()

	page, err := s.api.List(ctx, client.ListOptions{Page: 1, PageSize: pageSize})

	if err != nil {
		return err
	}

	summary, err := s.api.Summary(ctx)

	if err != nil {
		return err
	}

	weekly, err := s.api.WeeklySummary(ctx)

	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Todos = page.Items
	s.state.Page = page.Page
	s.state.TotalCount = page.TotalCount
	s.state.HasMore = page.Page < page.TotalPages
	s.state.Summary = summary
	s.state.Weekly = weekly

	return nil
}

// LoadMore appends the next page. Gated so overlapping calls and calls
// past the last page are no-ops.
func (s *Store) LoadMore(ctx context.Context) error {
	s.mu.Lock()

	if s.state.LoadingMore || !s.state.HasMore {
		s.mu.Unlock()
		return nil
	}

	s.state.LoadingMore = true
	nextPage := s.state.Page + 1
	pageSize := s.state.PageSize
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.state.LoadingMore = false
		s.mu.Unlock()
	}()

	page, err := s.api.List(ctx, client.ListOptions{Page: nextPage, PageSize: pageSize})

	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Todos = append(s.state.Todos, page.Items...)
	s.state.Page = page.Page
	s.state.TotalCount = page.TotalCount
	s.state.HasMore = page.Page < page.TotalPages

	return nil
}

// Add creates the todo on the server, then folds the confirmed item
// into local state.
func (s *Store) Add(ctx context.Context, req request.CreateTodoRequest) (response.TodoResponse, error) {
	created, err := s.api.Create(ctx, req)

	if err != nil {
		return response.TodoResponse{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.applyAdd(created)

	return created, nil
}

// Update replaces the todo on the server and reconciles counters from
// the completion delta.
func (s *Store) Update(ctx context.Context, id uuid.UUID, req request.UpdateTodoRequest) (response.TodoResponse, error) {
	updated, err := s.api.Update(ctx, id, req)

	if err != nil {
		return response.TodoResponse{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.applyUpdate(updated)

	return updated, nil
}

// Toggle flips completion locally first, then confirms with the server.
// On failure the previous state is restored.
func (s *Store) Toggle(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()

	index := s.indexOf(id)

	if index < 0 {
		s.mu.Unlock()

		_, err := s.api.Toggle(ctx, id)
		return err
	}

	previous := s.snapshot()

	toggled := s.state.Todos[index]
	toggled.IsCompleted = !toggled.IsCompleted
	toggled.UpdatedAt = s.now()
	s.applyUpdate(toggled)
	s.mu.Unlock()

	confirmed, err := s.api.Toggle(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.state = previous
		return err
	}

	if index := s.indexOf(id); index >= 0 {
		s.state.Todos[index] = confirmed
	}

	return nil
}

// Delete removes the todo locally first. On failure the item and every
// counter are restored from the snapshot.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()

	previous := s.snapshot()
	s.applyRemove(id)
	s.mu.Unlock()

	err := s.api.Delete(ctx, id)

	if err != nil && !client.IsNotFound(err) {
		s.mu.Lock()
		s.state = previous
		s.mu.Unlock()

		return err
	}

	return nil
}

// PriorityTasks returns up to five incomplete todos ordered high to low.
func (s *Store) PriorityTasks() []response.TodoResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := make([]response.TodoResponse, 0, len(s.state.Todos))

	for _, todo := range s.state.Todos {
		if !todo.IsCompleted {
			tasks = append(tasks, todo)
		}
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].Priority > tasks[j].Priority
	})

	if len(tasks) > 5 {
		tasks = tasks[:5]
	}

	return tasks
}

func (s *Store) indexOf(id uuid.UUID) int {
	for i, todo := range s.state.Todos {
		if todo.ID == id {
			return i
		}
	}

	return -1
}

func (s *Store) applyAdd(todo response.TodoResponse) {
	todos := append([]response.TodoResponse{todo}, s.state.Todos...)

	if len(todos) > s.state.PageSize {
		todos = todos[:s.state.PageSize]
	}

	s.state.Todos = todos
	s.state.TotalCount++
	s.state.HasMore = len(s.state.Todos) < s.state.TotalCount

	s.state.Summary.Total++

	if todo.IsCompleted {
		s.state.Summary.Completed++
	} else {
		s.state.Summary.Pending++
	}

	s.recomputeProgress()
	s.adjustWeekly(todo, +1)
}

func (s *Store) applyUpdate(todo response.TodoResponse) {
	index := s.indexOf(todo.ID)

	if index < 0 {
		return
	}

	previous := s.state.Todos[index]
	s.state.Todos[index] = todo

	if previous.IsCompleted != todo.IsCompleted {
		if todo.IsCompleted {
			s.state.Summary.Completed++
			s.state.Summary.Pending = clamp(s.state.Summary.Pending - 1)
		} else {
			s.state.Summary.Pending++
			s.state.Summary.Completed = clamp(s.state.Summary.Completed - 1)
		}

		s.recomputeProgress()

		if day, in := s.weekday(todo); in {
			if todo.IsCompleted {
				s.state.Weekly.Days[day].Completed++
			} else {
				s.state.Weekly.Days[day].Completed = clamp(s.state.Weekly.Days[day].Completed - 1)
			}
		}
	}
}

func (s *Store) applyRemove(id uuid.UUID) {
	index := s.indexOf(id)

	if index < 0 {
		return
	}

	removed := s.state.Todos[index]

	s.state.Todos = append(s.state.Todos[:index], s.state.Todos[index+1:]...)
	s.state.TotalCount = clamp(s.state.TotalCount - 1)
	s.state.HasMore = len(s.state.Todos) < s.state.TotalCount

	s.state.Summary.Total = clamp(s.state.Summary.Total - 1)

	if removed.IsCompleted {
		s.state.Summary.Completed = clamp(s.state.Summary.Completed - 1)
	} else {
		s.state.Summary.Pending = clamp(s.state.Summary.Pending - 1)
	}

	s.recomputeProgress()
	s.adjustWeekly(removed, -1)
}

// adjustWeekly moves the day bucket when the todo was created inside
// the current UTC week.
func (s *Store) adjustWeekly(todo response.TodoResponse, delta int) {
	day, in := s.weekday(todo)

	if !in {
		return
	}

	s.state.Weekly.Days[day].Total = clamp(s.state.Weekly.Days[day].Total + delta)

	if todo.IsCompleted {
		s.state.Weekly.Days[day].Completed = clamp(s.state.Weekly.Days[day].Completed + delta)
	}
}

func (s *Store) weekday(todo response.TodoResponse) (time.Weekday, bool) {
	start, end := service.CurrentWeekWindow(s.now())
	createdAt := todo.CreatedAt.UTC()

	if createdAt.Before(start) || !createdAt.Before(end) {
		return 0, false
	}

	return createdAt.Weekday(), true
}

func (s *Store) recomputeProgress() {
	if s.state.Summary.Total > 0 {
		s.state.Summary.Progress = float64(s.state.Summary.Completed) / float64(s.state.Summary.Total)
	} else {
		s.state.Summary.Progress = 0
	}
}

func clamp(value int) int {
	if value < 0 {
		return 0
	}

	return value
}
