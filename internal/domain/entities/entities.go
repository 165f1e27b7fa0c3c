package entities

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrTodoNotFound       = errors.New("todo not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCursor      = errors.New("invalid cursor")
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
)

// MaxTextLength is the longest allowed todo text after trimming.
const MaxTextLength = 500

// ValidationError reports a field that failed input validation.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Status filters a todo list by completion state.
type Status string

const (
	StatusAll       Status = "all"
	StatusCompleted Status = "completed"
	StatusRemaining Status = "remaining"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusAll, StatusCompleted, StatusRemaining, "":
		return true
	default:
		return false
	}
}

// Todo represents a single to-do item owned by one user.
type Todo struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	OwnerID     uuid.UUID  `json:"-" db:"owner_id"`
	Text        string     `json:"text" db:"text"`
	Completed   bool       `json:"completed" db:"completed"`
	Order       int        `json:"-" db:"display_order"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
	CompletedAt *time.Time `json:"completed_at" db:"completed_at"`
	DeletedAt   *time.Time `json:"-" db:"deleted_at"`
}

// NormalizeText trims the text and enforces the non-blank and length rules.
func NormalizeText(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", &ValidationError{Field: "text", Message: "must not be empty or whitespace only"}
	}
	if utf8.RuneCountInString(trimmed) > MaxTextLength {
		return "", &ValidationError{Field: "text", Message: fmt.Sprintf("must be at most %d characters", MaxTextLength)}
	}
	return trimmed, nil
}

// NewTodo builds a todo for the given owner with a time-ordered id.
func NewTodo(ownerID uuid.UUID, text string) (*Todo, error) {
	normalized, err := NormalizeText(text)
	if err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate todo id: %w", err)
	}

	now := time.Now().UTC()
	return &Todo{
		ID:        id,
		OwnerID:   ownerID,
		Text:      normalized,
		Completed: false,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// SetCompleted changes the completion state. CompletedAt only moves when the
// state actually flips, so re-setting an already-completed todo leaves it
// untouched.
func (t *Todo) SetCompleted(completed bool, now time.Time) {
	if t.Completed == completed {
		return
	}
	t.Completed = completed
	if completed {
		at := now
		t.CompletedAt = &at
	} else {
		t.CompletedAt = nil
	}
}

// Toggle flips the completion state.
func (t *Todo) Toggle(now time.Time) {
	t.SetCompleted(!t.Completed, now)
}

// IsDeleted reports whether the todo has been soft-deleted.
func (t *Todo) IsDeleted() bool {
	return t.DeletedAt != nil
}

// MatchesStatus reports whether the todo passes the given status filter.
func (t *Todo) MatchesStatus(status Status) bool {
	switch status {
	case StatusCompleted:
		return t.Completed
	case StatusRemaining:
		return !t.Completed
	default:
		return true
	}
}

// MatchesSearch reports a case-insensitive substring match on the text.
// An empty search matches everything.
func (t *Todo) MatchesSearch(search string) bool {
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(t.Text), strings.ToLower(search))
}

// User represents an account in the identity store.
type User struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
	LastLoginAt  *time.Time `json:"last_login_at" db:"last_login_at"`
}
