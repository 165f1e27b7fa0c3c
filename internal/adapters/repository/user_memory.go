package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/todolist/core/internal/domain/entities"
	"github.com/todolist/core/internal/ports"
)

// UserMemoryRepository is a process-local user store backing the memory and
// file storage drivers.
type UserMemoryRepository struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]*entities.User
	byEmail map[string]uuid.UUID
}

// NewUserMemoryRepository creates a new in-memory user repository.
func NewUserMemoryRepository() *UserMemoryRepository {
	return &UserMemoryRepository{
		byID:    make(map[uuid.UUID]*entities.User),
		byEmail: make(map[string]uuid.UUID),
	}
}

func (r *UserMemoryRepository) Create(ctx context.Context, user *entities.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[user.Email]; exists {
		return entities.ErrEmailExists
	}

	stored := *user
	r.byID[user.ID] = &stored
	r.byEmail[user.Email] = user.ID
	return nil
}

func (r *UserMemoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, exists := r.byID[id]
	if !exists {
		return nil, entities.ErrUserNotFound
	}

	found := *user
	return &found, nil
}

func (r *UserMemoryRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.byEmail[email]
	if !exists {
		return nil, entities.ErrUserNotFound
	}

	found := *r.byID[id]
	return &found, nil
}

func (r *UserMemoryRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user, exists := r.byID[id]; exists {
		user.LastLoginAt = &at
		user.UpdatedAt = at
	}
	return nil
}

func (r *UserMemoryRepository) UpsertExternal(ctx context.Context, user *entities.User) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, exists := r.byID[user.ID]; exists {
		found := *existing
		return &found, nil
	}

	// The email may already belong to a locally registered account.
	if _, exists := r.byEmail[user.Email]; exists {
		return nil, entities.ErrEmailExists
	}

	stored := *user
	r.byID[user.ID] = &stored
	r.byEmail[user.Email] = user.ID

	found := stored
	return &found, nil
}

var _ ports.UserRepository = (*UserMemoryRepository)(nil)
