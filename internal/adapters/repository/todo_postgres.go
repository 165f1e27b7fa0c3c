package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/todolist/core/internal/application/query"
	"github.com/todolist/core/internal/domain/entities"
	"github.com/todolist/core/internal/ports"
)

// TodoPostgresRepository implements the todo repository against Postgres.
type TodoPostgresRepository struct {
	db         *sqlx.DB
	hardDelete bool
}

// NewTodoPostgresRepository creates a new Postgres-backed todo repository.
// With hardDelete set, Delete removes rows instead of marking deleted_at.
func NewTodoPostgresRepository(db *sqlx.DB, hardDelete bool) ports.TodoRepository {
	return &TodoPostgresRepository{db: db, hardDelete: hardDelete}
}

// Create inserts a new todo row.
func (r *TodoPostgresRepository) Create(ctx context.Context, todo *entities.Todo) error {
	query := `
		INSERT INTO todos (id, owner_id, text, completed, display_order, created_at, updated_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		todo.ID,
		todo.OwnerID,
		todo.Text,
		todo.Completed,
		todo.Order,
		todo.CreatedAt,
		todo.UpdatedAt,
		todo.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("create todo: %w", err)
	}

	return nil
}

// GetByID retrieves a live todo owned by ownerID. A row that belongs to
// another owner or has been soft-deleted reads as not found.
func (r *TodoPostgresRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*entities.Todo, error) {
	query := `
		SELECT id, owner_id, text, completed, display_order, created_at, updated_at, completed_at, deleted_at
		FROM todos
		WHERE id = $1 AND owner_id = $2 AND deleted_at IS NULL`

	var todo entities.Todo
	err := r.db.GetContext(ctx, &todo, query, id, ownerID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrTodoNotFound
		}
		return nil, fmt.Errorf("get todo by id: %w", err)
	}

	return &todo, nil
}

// Update writes back the mutable fields in a single statement, so a
// concurrent reader never observes a partially applied change.
func (r *TodoPostgresRepository) Update(ctx context.Context, todo *entities.Todo) error {
	query := `
		UPDATE todos
		SET text = $3, completed = $4, display_order = $5, updated_at = $6, completed_at = $7
		WHERE id = $1 AND owner_id = $2 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query,
		todo.ID,
		todo.OwnerID,
		todo.Text,
		todo.Completed,
		todo.Order,
		todo.UpdatedAt,
		todo.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("update todo: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update todo rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return entities.ErrTodoNotFound
	}

	return nil
}

// Delete soft-deletes (or, in hard-delete mode, removes) the todo. Deleting
// an already-deleted todo reports not found.
func (r *TodoPostgresRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	var result sql.Result
	var err error

	if r.hardDelete {
		result, err = r.db.ExecContext(ctx,
			`DELETE FROM todos WHERE id = $1 AND owner_id = $2 AND deleted_at IS NULL`,
			id, ownerID)
	} else {
		now := time.Now().UTC()
		result, err = r.db.ExecContext(ctx,
			`UPDATE todos SET deleted_at = $3, updated_at = $3 WHERE id = $1 AND owner_id = $2 AND deleted_at IS NULL`,
			id, ownerID, now)
	}
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete todo rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return entities.ErrTodoNotFound
	}

	return nil
}

// List executes the plan's page query. It returns up to limit+1 rows; the
// caller trims the page and derives the next cursor.
func (r *TodoPostgresRepository) List(ctx context.Context, plan *query.Plan) ([]*entities.Todo, error) {
	sqlQuery, args := plan.SelectSQL()

	var todos []*entities.Todo
	if err := r.db.SelectContext(ctx, &todos, sqlQuery, args...); err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}

	return todos, nil
}

// Count executes the plan's total-count query.
func (r *TodoPostgresRepository) Count(ctx context.Context, plan *query.Plan) (int, error) {
	sqlQuery, args := plan.CountSQL()

	var total int
	if err := r.db.GetContext(ctx, &total, sqlQuery, args...); err != nil {
		return 0, fmt.Errorf("count todos: %w", err)
	}

	return total, nil
}
