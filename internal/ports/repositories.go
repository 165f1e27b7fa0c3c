package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/todolist/core/internal/application/query"
	"github.com/todolist/core/internal/domain/entities"
)

// TodoRepository defines the interface for todo data operations. Every read
// and write is scoped by owner: a todo that exists but belongs to someone
// else behaves exactly like one that does not exist.
type TodoRepository interface {
	Create(ctx context.Context, todo *entities.Todo) error
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*entities.Todo, error)
	Update(ctx context.Context, todo *entities.Todo) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	List(ctx context.Context, plan *query.Plan) ([]*entities.Todo, error)
	Count(ctx context.Context, plan *query.Plan) (int, error)
}

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	// UpsertExternal provisions a local record for a remotely authenticated
	// identity. It is idempotent: repeat calls for the same id return the
	// existing record unchanged. A new id carrying an already-registered
	// email fails with ErrEmailExists.
	UpsertExternal(ctx context.Context, user *entities.User) (*entities.User, error)
}
