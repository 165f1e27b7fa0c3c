package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/todolist/core/internal/application/query"
	"github.com/todolist/core/internal/domain/entities"
	"github.com/todolist/core/internal/ports"
)

func mustCreate(t *testing.T, repo ports.TodoRepository, ownerID uuid.UUID, text string) *entities.Todo {
	t.Helper()

	todo, err := entities.NewTodo(ownerID, text)
	if err != nil {
		t.Fatalf("NewTodo(%q): %v", text, err)
	}
	if err := repo.Create(context.Background(), todo); err != nil {
		t.Fatalf("Create(%q): %v", text, err)
	}
	return todo
}

func mustPlan(t *testing.T, ownerID uuid.UUID, params query.Params) *query.Plan {
	t.Helper()

	plan, err := query.Compose(ownerID, params)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	return plan
}

func TestMemoryCreateAndGet(t *testing.T) {
	repo := NewTodoMemoryRepository(false)
	ownerID := uuid.New()
	ctx := context.Background()

	created := mustCreate(t, repo, ownerID, "Buy milk")

	got, err := repo.GetByID(ctx, ownerID, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Text != "Buy milk" || got.ID != created.ID {
		t.Errorf("got %+v, want the created todo", got)
	}

	// Mutating the returned copy must not leak into the store.
	got.Text = "changed"
	again, err := repo.GetByID(ctx, ownerID, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if again.Text != "Buy milk" {
		t.Error("store returned a shared pointer instead of a copy")
	}
}

func TestMemoryGetUnknownID(t *testing.T) {
	repo := NewTodoMemoryRepository(false)

	_, err := repo.GetByID(context.Background(), uuid.New(), uuid.New())
	if err != entities.ErrTodoNotFound {
		t.Errorf("err = %v, want ErrTodoNotFound", err)
	}
}

func TestMemoryOwnerIsolation(t *testing.T) {
	repo := NewTodoMemoryRepository(false)
	ctx := context.Background()

	alice := uuid.New()
	bob := uuid.New()
	todo := mustCreate(t, repo, alice, "Alice's secret")

	// Another owner sees not-found, never a permission error.
	if _, err := repo.GetByID(ctx, bob, todo.ID); err != entities.ErrTodoNotFound {
		t.Errorf("cross-owner Get: err = %v, want ErrTodoNotFound", err)
	}
	if err := repo.Delete(ctx, bob, todo.ID); err != entities.ErrTodoNotFound {
		t.Errorf("cross-owner Delete: err = %v, want ErrTodoNotFound", err)
	}

	stolen := *todo
	stolen.OwnerID = bob
	if err := repo.Update(ctx, &stolen); err != entities.ErrTodoNotFound {
		t.Errorf("cross-owner Update: err = %v, want ErrTodoNotFound", err)
	}

	todos, err := repo.List(ctx, mustPlan(t, bob, query.Params{}))
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(todos) != 0 {
		t.Errorf("bob sees %d todos, want 0", len(todos))
	}
}

func TestMemoryUpdate(t *testing.T) {
	repo := NewTodoMemoryRepository(false)
	ownerID := uuid.New()
	ctx := context.Background()

	todo := mustCreate(t, repo, ownerID, "Buy milk")
	todo.Text = "Buy oat milk"
	todo.SetCompleted(true, time.Now().UTC())

	if err := repo.Update(ctx, todo); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := repo.GetByID(ctx, ownerID, todo.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Text != "Buy oat milk" || !got.Completed || got.CompletedAt == nil {
		t.Errorf("update not persisted: %+v", got)
	}
}

func TestMemorySoftDelete(t *testing.T) {
	repo := NewTodoMemoryRepository(false)
	ownerID := uuid.New()
	ctx := context.Background()

	todo := mustCreate(t, repo, ownerID, "Buy milk")

	if err := repo.Delete(ctx, ownerID, todo.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := repo.GetByID(ctx, ownerID, todo.ID); err != entities.ErrTodoNotFound {
		t.Errorf("Get after delete: err = %v, want ErrTodoNotFound", err)
	}

	// Deleting again reports not found rather than succeeding.
	if err := repo.Delete(ctx, ownerID, todo.ID); err != entities.ErrTodoNotFound {
		t.Errorf("double delete: err = %v, want ErrTodoNotFound", err)
	}

	total, err := repo.Count(ctx, mustPlan(t, ownerID, query.Params{}))
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if total != 0 {
		t.Errorf("Count = %d after delete, want 0", total)
	}
}

func TestMemoryHardDelete(t *testing.T) {
	repo := NewTodoMemoryRepository(true)
	ownerID := uuid.New()
	ctx := context.Background()

	todo := mustCreate(t, repo, ownerID, "Buy milk")

	if err := repo.Delete(ctx, ownerID, todo.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, ownerID, todo.ID); err != entities.ErrTodoNotFound {
		t.Errorf("Get after hard delete: err = %v, want ErrTodoNotFound", err)
	}
	if err := repo.Delete(ctx, ownerID, todo.ID); err != entities.ErrTodoNotFound {
		t.Errorf("double hard delete: err = %v, want ErrTodoNotFound", err)
	}
}

func TestMemoryListFilters(t *testing.T) {
	repo := NewTodoMemoryRepository(false)
	ownerID := uuid.New()
	ctx := context.Background()

	milk := mustCreate(t, repo, ownerID, "Buy milk")
	mustCreate(t, repo, ownerID, "Walk dog")
	bills := mustCreate(t, repo, ownerID, "Pay bills")

	bills.SetCompleted(true, time.Now().UTC())
	if err := repo.Update(ctx, bills); err != nil {
		t.Fatalf("Update: %v", err)
	}

	t.Run("all", func(t *testing.T) {
		todos, err := repo.List(ctx, mustPlan(t, ownerID, query.Params{}))
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(todos) != 3 {
			t.Errorf("len = %d, want 3", len(todos))
		}
	})

	t.Run("completed", func(t *testing.T) {
		todos, err := repo.List(ctx, mustPlan(t, ownerID, query.Params{Status: entities.StatusCompleted}))
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(todos) != 1 || todos[0].ID != bills.ID {
			t.Errorf("completed filter returned %d todos", len(todos))
		}
	})

	t.Run("remaining", func(t *testing.T) {
		todos, err := repo.List(ctx, mustPlan(t, ownerID, query.Params{Status: entities.StatusRemaining}))
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(todos) != 2 {
			t.Errorf("remaining filter returned %d todos, want 2", len(todos))
		}
	})

	t.Run("search is case-insensitive", func(t *testing.T) {
		todos, err := repo.List(ctx, mustPlan(t, ownerID, query.Params{Search: "MILK"}))
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(todos) != 1 || todos[0].ID != milk.ID {
			t.Errorf("search returned %d todos", len(todos))
		}
	})

	t.Run("search and status combine", func(t *testing.T) {
		todos, err := repo.List(ctx, mustPlan(t, ownerID, query.Params{Search: "milk", Status: entities.StatusCompleted}))
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(todos) != 0 {
			t.Errorf("combined filter returned %d todos, want 0", len(todos))
		}
	})
}

func TestMemoryListOrdering(t *testing.T) {
	repo := NewTodoMemoryRepository(false)
	ownerID := uuid.New()
	ctx := context.Background()

	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		todo, err := entities.NewTodo(ownerID, "item")
		if err != nil {
			t.Fatal(err)
		}
		todo.CreatedAt = base.Add(time.Duration(i) * time.Second)
		if err := repo.Create(ctx, todo); err != nil {
			t.Fatal(err)
		}
	}

	todos, err := repo.List(ctx, mustPlan(t, ownerID, query.Params{}))
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	for i := 1; i < len(todos); i++ {
		if todos[i].CreatedAt.After(todos[i-1].CreatedAt) {
			t.Fatalf("todos not in newest-first order at index %d", i)
		}
	}
}

// Walks every page of a large set, including rows created in the same
// instant, and verifies each todo shows up exactly once.
func TestMemoryPaginationWalk(t *testing.T) {
	repo := NewTodoMemoryRepository(false)
	ownerID := uuid.New()
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	const total = 23

	created := make(map[uuid.UUID]bool, total)
	for i := 0; i < total; i++ {
		todo, err := entities.NewTodo(ownerID, "item")
		if err != nil {
			t.Fatal(err)
		}
		// Three rows per instant forces the id tie-break.
		todo.CreatedAt = base.Add(time.Duration(i/3) * time.Second)
		if err := repo.Create(ctx, todo); err != nil {
			t.Fatal(err)
		}
		created[todo.ID] = true
	}

	seen := make(map[uuid.UUID]bool)
	cursor := ""
	pages := 0

	for {
		plan := mustPlan(t, ownerID, query.Params{Limit: 5, Cursor: cursor})
		todos, err := repo.List(ctx, plan)
		if err != nil {
			t.Fatalf("List page %d: %v", pages, err)
		}

		page, next := query.Page(todos, plan.Limit)
		for _, todo := range page {
			if seen[todo.ID] {
				t.Fatalf("todo %s appeared twice", todo.ID)
			}
			seen[todo.ID] = true
		}

		pages++
		if pages > total {
			t.Fatal("pagination did not terminate")
		}
		if next == nil {
			break
		}
		cursor = *next
	}

	if len(seen) != total {
		t.Errorf("walk saw %d todos, want %d", len(seen), total)
	}
	for id := range created {
		if !seen[id] {
			t.Errorf("todo %s never appeared", id)
		}
	}
}

func TestMemoryCountIgnoresCursor(t *testing.T) {
	repo := NewTodoMemoryRepository(false)
	ownerID := uuid.New()
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		mustCreate(t, repo, ownerID, "item")
	}

	plan := mustPlan(t, ownerID, query.Params{Limit: 3})
	todos, err := repo.List(ctx, plan)
	if err != nil {
		t.Fatal(err)
	}
	_, next := query.Page(todos, plan.Limit)
	if next == nil {
		t.Fatal("expected a second page")
	}

	plan2 := mustPlan(t, ownerID, query.Params{Limit: 3, Cursor: *next})
	count, err := repo.Count(ctx, plan2)
	if err != nil {
		t.Fatal(err)
	}
	if count != 7 {
		t.Errorf("Count = %d with cursor, want 7", count)
	}
}
