package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/todolist/core/internal/application/query"
	"github.com/todolist/core/internal/domain/entities"
	"github.com/todolist/core/internal/ports"
)

// TodoFileRepository persists todos in a single JSON file. Every mutation
// rewrites the file through a temp file and an atomic rename, so a crash
// mid-write never leaves a corrupt database behind.
type TodoFileRepository struct {
	mu         sync.Mutex
	path       string
	hardDelete bool
}

// fileRecord is the on-disk shape of a todo. The entity hides owner_id and
// deleted_at from API responses, but the file needs them all.
type fileRecord struct {
	ID          uuid.UUID  `json:"id"`
	OwnerID     uuid.UUID  `json:"owner_id"`
	Text        string     `json:"text"`
	Completed   bool       `json:"completed"`
	Order       int        `json:"order"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at"`
	DeletedAt   *time.Time `json:"deleted_at"`
}

func toRecord(t *entities.Todo) fileRecord {
	return fileRecord{
		ID:          t.ID,
		OwnerID:     t.OwnerID,
		Text:        t.Text,
		Completed:   t.Completed,
		Order:       t.Order,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		CompletedAt: t.CompletedAt,
		DeletedAt:   t.DeletedAt,
	}
}

func (r fileRecord) toTodo() *entities.Todo {
	return &entities.Todo{
		ID:          r.ID,
		OwnerID:     r.OwnerID,
		Text:        r.Text,
		Completed:   r.Completed,
		Order:       r.Order,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		CompletedAt: r.CompletedAt,
		DeletedAt:   r.DeletedAt,
	}
}

// NewTodoFileRepository creates a file-backed todo repository at path.
func NewTodoFileRepository(path string, hardDelete bool) (*TodoFileRepository, error) {
	repo := &TodoFileRepository{path: path, hardDelete: hardDelete}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := repo.save(nil); err != nil {
			return nil, fmt.Errorf("initialize todo file: %w", err)
		}
	}

	return repo, nil
}

// load reads the whole database. Callers must hold the mutex.
func (r *TodoFileRepository) load() ([]fileRecord, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read todo file: %w", err)
	}

	var records []fileRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode todo file: %w", err)
	}

	return records, nil
}

// save rewrites the whole database atomically. Callers must hold the mutex.
func (r *TodoFileRepository) save(records []fileRecord) error {
	if records == nil {
		records = []fileRecord{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode todo file: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".todos-*.json")
	if err != nil {
		return fmt.Errorf("create temp todo file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp todo file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp todo file: %w", err)
	}

	if err := os.Rename(tmp.Name(), r.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace todo file: %w", err)
	}

	return nil
}

func (r *TodoFileRepository) Create(ctx context.Context, todo *entities.Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load()
	if err != nil {
		return err
	}

	records = append(records, toRecord(todo))
	return r.save(records)
}

func (r *TodoFileRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*entities.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load()
	if err != nil {
		return nil, err
	}

	for _, record := range records {
		if record.ID == id && record.OwnerID == ownerID && record.DeletedAt == nil {
			return record.toTodo(), nil
		}
	}

	return nil, entities.ErrTodoNotFound
}

func (r *TodoFileRepository) Update(ctx context.Context, todo *entities.Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load()
	if err != nil {
		return err
	}

	for i, record := range records {
		if record.ID == todo.ID && record.OwnerID == todo.OwnerID && record.DeletedAt == nil {
			records[i] = toRecord(todo)
			return r.save(records)
		}
	}

	return entities.ErrTodoNotFound
}

func (r *TodoFileRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load()
	if err != nil {
		return err
	}

	for i, record := range records {
		if record.ID != id || record.OwnerID != ownerID || record.DeletedAt != nil {
			continue
		}

		if r.hardDelete {
			records = append(records[:i], records[i+1:]...)
		} else {
			now := time.Now().UTC()
			records[i].DeletedAt = &now
			records[i].UpdatedAt = now
		}
		return r.save(records)
	}

	return entities.ErrTodoNotFound
}

func (r *TodoFileRepository) List(ctx context.Context, plan *query.Plan) ([]*entities.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load()
	if err != nil {
		return nil, err
	}

	var matched []*entities.Todo
	for _, record := range records {
		todo := record.toTodo()
		if plan.Matches(todo) && plan.AfterCursor(todo) {
			matched = append(matched, todo)
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

func (r *TodoFileRepository) Count(ctx context.Context, plan *query.Plan) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load()
	if err != nil {
		return 0, err
	}

	total := 0
	for _, record := range records {
		if plan.Matches(record.toTodo()) {
			total++
		}
	}

	return total, nil
}

var _ ports.TodoRepository = (*TodoFileRepository)(nil)
