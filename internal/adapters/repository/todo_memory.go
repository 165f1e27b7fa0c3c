package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/todolist/core/internal/application/query"
	"github.com/todolist/core/internal/domain/entities"
	"github.com/todolist/core/internal/ports"
)

// TodoMemoryRepository is a process-local todo store. It is an explicitly
// constructed instance injected where needed, never a lazily initialized
// global. Useful for development and as the reference implementation under
// test.
type TodoMemoryRepository struct {
	mu         sync.RWMutex
	todos      map[uuid.UUID]*entities.Todo
	hardDelete bool
}

// NewTodoMemoryRepository creates a new in-memory todo repository.
func NewTodoMemoryRepository(hardDelete bool) *TodoMemoryRepository {
	return &TodoMemoryRepository{
		todos:      make(map[uuid.UUID]*entities.Todo),
		hardDelete: hardDelete,
	}
}

func (r *TodoMemoryRepository) Create(ctx context.Context, todo *entities.Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *todo
	r.todos[todo.ID] = &stored
	return nil
}

func (r *TodoMemoryRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*entities.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	todo, exists := r.todos[id]
	if !exists || todo.OwnerID != ownerID || todo.IsDeleted() {
		return nil, entities.ErrTodoNotFound
	}

	found := *todo
	return &found, nil
}

func (r *TodoMemoryRepository) Update(ctx context.Context, todo *entities.Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.todos[todo.ID]
	if !exists || existing.OwnerID != todo.OwnerID || existing.IsDeleted() {
		return entities.ErrTodoNotFound
	}

	stored := *todo
	r.todos[todo.ID] = &stored
	return nil
}

func (r *TodoMemoryRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.todos[id]
	if !exists || existing.OwnerID != ownerID || existing.IsDeleted() {
		return entities.ErrTodoNotFound
	}

	if r.hardDelete {
		delete(r.todos, id)
		return nil
	}

	now := time.Now().UTC()
	existing.DeletedAt = &now
	existing.UpdatedAt = now
	return nil
}

// List applies the plan's predicates and ordering, returning up to limit+1
// matches so the caller can detect a further page. The filter semantics are
// the same ones the Postgres driver runs as SQL.
func (r *TodoMemoryRepository) List(ctx context.Context, plan *query.Plan) ([]*entities.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*entities.Todo
	for _, todo := range r.todos {
		if plan.Matches(todo) && plan.AfterCursor(todo) {
			found := *todo
			matched = append(matched, &found)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		return query.Less(matched[i], matched[j])
	})

	if len(matched) > plan.Limit+1 {
		matched = matched[:plan.Limit+1]
	}

	return matched, nil
}

func (r *TodoMemoryRepository) Count(ctx context.Context, plan *query.Plan) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := 0
	for _, todo := range r.todos {
		if plan.Matches(todo) {
			total++
		}
	}

	return total, nil
}

var _ ports.TodoRepository = (*TodoMemoryRepository)(nil)
