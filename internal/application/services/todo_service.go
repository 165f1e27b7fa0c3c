package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/todolist/core/internal/application/query"
	"github.com/todolist/core/internal/domain/entities"
	"github.com/todolist/core/internal/infrastructure/logger"
	"github.com/todolist/core/internal/ports"
)

// TodoService handles todo operations for the authenticated owner. The owner
// id comes from the access boundary and is trusted as given; every repository
// call is scoped by it.
type TodoService struct {
	todoRepo ports.TodoRepository
	logger   *logger.Logger
}

// NewTodoService creates a new todo service.
func NewTodoService(todoRepo ports.TodoRepository, logger *logger.Logger) *TodoService {
	return &TodoService{
		todoRepo: todoRepo,
		logger:   logger,
	}
}

// Create validates and stores a new todo.
func (s *TodoService) Create(ctx context.Context, ownerID uuid.UUID, req ports.CreateTodoRequest) (*entities.Todo, error) {
	todo, err := entities.NewTodo(ownerID, req.Text)
	if err != nil {
		return nil, err
	}

	if err := s.todoRepo.Create(ctx, todo); err != nil {
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}

	s.logger.Info("Todo created", "todo_id", todo.ID, "owner_id", ownerID)

	return todo, nil
}

// Get retrieves a single todo owned by ownerID.
func (s *TodoService) Get(ctx context.Context, ownerID, id uuid.UUID) (*entities.Todo, error) {
	return s.todoRepo.GetByID(ctx, ownerID, id)
}

// Update applies a partial field set. UpdatedAt always moves; CompletedAt
// only moves when the completion state actually changes.
func (s *TodoService) Update(ctx context.Context, ownerID, id uuid.UUID, req ports.UpdateTodoRequest) (*entities.Todo, error) {
	todo, err := s.todoRepo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if req.Text != nil {
		normalized, err := entities.NormalizeText(*req.Text)
		if err != nil {
			return nil, err
		}
		todo.Text = normalized
	}

	now := time.Now().UTC()
	if req.Completed != nil {
		todo.SetCompleted(*req.Completed, now)
	}
	todo.UpdatedAt = now

	if err := s.todoRepo.Update(ctx, todo); err != nil {
		return nil, err
	}

	return todo, nil
}

// Toggle flips the completion state.
func (s *TodoService) Toggle(ctx context.Context, ownerID, id uuid.UUID) (*entities.Todo, error) {
	todo, err := s.todoRepo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	todo.Toggle(now)
	todo.UpdatedAt = now

	if err := s.todoRepo.Update(ctx, todo); err != nil {
		return nil, err
	}

	return todo, nil
}

// Delete removes the todo from all further reads. Deleting an already-deleted
// todo reports not found rather than succeeding silently.
func (s *TodoService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := s.todoRepo.Delete(ctx, ownerID, id); err != nil {
		return err
	}

	s.logger.Info("Todo deleted", "todo_id", id, "owner_id", ownerID)

	return nil
}

// List returns one page of the owner's todos plus the total match count
// across all pages.
func (s *TodoService) List(ctx context.Context, ownerID uuid.UUID, params query.Params) (*ports.TodoListResponse, error) {
	plan, err := query.Compose(ownerID, params)
	if err != nil {
		return nil, err
	}

	total, err := s.todoRepo.Count(ctx, plan)
	if err != nil {
		return nil, fmt.Errorf("failed to count todos: %w", err)
	}

	todos, err := s.todoRepo.List(ctx, plan)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}

	items, nextCursor := query.Page(todos, plan.Limit)
	if items == nil {
		items = []*entities.Todo{}
	}

	return &ports.TodoListResponse{
		Items:      items,
		NextCursor: nextCursor,
		TotalCount: total,
	}, nil
}
