package ports

import (
	"github.com/todolist/core/internal/domain/entities"
)

// CreateTodoRequest is the payload for creating a todo.
type CreateTodoRequest struct {
	Text string `json:"text" validate:"required"`
}

// UpdateTodoRequest is the payload for a partial or full todo update. Nil
// fields are left untouched.
type UpdateTodoRequest struct {
	Text      *string `json:"text,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// TodoListResponse is one page of todos plus pagination metadata. TotalCount
// covers all matching rows, not just the rows after the cursor.
type TodoListResponse struct {
	Items      []*entities.Todo `json:"items"`
	NextCursor *string          `json:"next_cursor"`
	TotalCount int              `json:"total_count"`
}

// RegisterRequest is the payload for account registration.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// LoginRequest is the payload for password login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned after a successful register or login.
type AuthResponse struct {
	User        *entities.User `json:"user"`
	AccessToken string         `json:"access_token"`
	TokenType   string         `json:"token_type"`
	ExpiresIn   int64          `json:"expires_in"`
}
