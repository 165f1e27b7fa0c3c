package entities

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "plain text", input: "Buy milk", want: "Buy milk"},
		{name: "trims surrounding whitespace", input: "  Walk dog \t\n", want: "Walk dog"},
		{name: "empty", input: "", wantErr: true},
		{name: "whitespace only", input: "   \t\n  ", wantErr: true},
		{name: "exactly max length", input: strings.Repeat("a", MaxTextLength), want: strings.Repeat("a", MaxTextLength)},
		{name: "over max length", input: strings.Repeat("a", MaxTextLength+1), wantErr: true},
		{name: "multibyte text counted in characters", input: strings.Repeat("世", 300), want: strings.Repeat("世", 300)},
		{name: "multibyte at max length", input: strings.Repeat("世", MaxTextLength), want: strings.Repeat("世", MaxTextLength)},
		{name: "multibyte over max length", input: strings.Repeat("世", MaxTextLength+1), wantErr: true},
		{name: "whitespace padding does not count", input: "  " + strings.Repeat("a", MaxTextLength) + "  ", want: strings.Repeat("a", MaxTextLength)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeText(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NormalizeText(%q) expected error, got %q", tt.input, got)
				}
				if !IsValidation(err) {
					t.Errorf("NormalizeText(%q) error = %v, want validation error", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeText(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewTodo(t *testing.T) {
	ownerID := uuid.New()

	todo, err := NewTodo(ownerID, "  Buy milk  ")
	if err != nil {
		t.Fatalf("NewTodo: %v", err)
	}

	if todo.ID == uuid.Nil {
		t.Error("expected a generated id")
	}
	if todo.OwnerID != ownerID {
		t.Errorf("OwnerID = %s, want %s", todo.OwnerID, ownerID)
	}
	if todo.Text != "Buy milk" {
		t.Errorf("Text = %q, want trimmed %q", todo.Text, "Buy milk")
	}
	if todo.Completed {
		t.Error("new todo should not be completed")
	}
	if todo.CompletedAt != nil {
		t.Error("new todo should have nil CompletedAt")
	}
	if todo.CreatedAt.IsZero() || !todo.CreatedAt.Equal(todo.UpdatedAt) {
		t.Error("CreatedAt and UpdatedAt should be set and equal")
	}
}

func TestNewTodoRejectsBlankText(t *testing.T) {
	if _, err := NewTodo(uuid.New(), "   "); err == nil {
		t.Fatal("expected error for whitespace-only text")
	}
}

func TestNewTodoIDsAreTimeOrdered(t *testing.T) {
	ownerID := uuid.New()

	first, err := NewTodo(ownerID, "first")
	if err != nil {
		t.Fatal(err)
	}
	time.Sleep(2 * time.Millisecond)
	second, err := NewTodo(ownerID, "second")
	if err != nil {
		t.Fatal(err)
	}

	if first.ID.String() >= second.ID.String() {
		t.Errorf("expected %s < %s", first.ID, second.ID)
	}
}

func TestSetCompleted(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	later := now.Add(time.Hour)

	todo := &Todo{Text: "x"}

	todo.SetCompleted(true, now)
	if !todo.Completed {
		t.Fatal("expected completed")
	}
	if todo.CompletedAt == nil || !todo.CompletedAt.Equal(now) {
		t.Fatalf("CompletedAt = %v, want %v", todo.CompletedAt, now)
	}

	// Setting completed again must not move the timestamp.
	todo.SetCompleted(true, later)
	if !todo.CompletedAt.Equal(now) {
		t.Errorf("CompletedAt moved on no-op update: %v", todo.CompletedAt)
	}

	todo.SetCompleted(false, later)
	if todo.Completed {
		t.Error("expected not completed")
	}
	if todo.CompletedAt != nil {
		t.Errorf("CompletedAt should be cleared, got %v", todo.CompletedAt)
	}
}

func TestToggleIsSelfInverse(t *testing.T) {
	now := time.Now().UTC()
	todo := &Todo{Text: "x"}

	todo.Toggle(now)
	if !todo.Completed || todo.CompletedAt == nil {
		t.Fatal("first toggle should complete the todo")
	}

	todo.Toggle(now.Add(time.Minute))
	if todo.Completed || todo.CompletedAt != nil {
		t.Fatal("second toggle should return to the initial state")
	}
}

func TestStatusIsValid(t *testing.T) {
	valid := []Status{StatusAll, StatusCompleted, StatusRemaining, ""}
	for _, s := range valid {
		if !s.IsValid() {
			t.Errorf("Status(%q).IsValid() = false, want true", s)
		}
	}
	for _, s := range []Status{"done", "ALL", "pending"} {
		if s.IsValid() {
			t.Errorf("Status(%q).IsValid() = true, want false", s)
		}
	}
}

func TestMatchesStatus(t *testing.T) {
	done := &Todo{Completed: true}
	open := &Todo{Completed: false}

	if !done.MatchesStatus(StatusAll) || !open.MatchesStatus(StatusAll) {
		t.Error("StatusAll should match everything")
	}
	if !done.MatchesStatus("") || !open.MatchesStatus("") {
		t.Error("empty status should match everything")
	}
	if !done.MatchesStatus(StatusCompleted) || open.MatchesStatus(StatusCompleted) {
		t.Error("StatusCompleted should match only completed todos")
	}
	if done.MatchesStatus(StatusRemaining) || !open.MatchesStatus(StatusRemaining) {
		t.Error("StatusRemaining should match only open todos")
	}
}

func TestMatchesSearch(t *testing.T) {
	todo := &Todo{Text: "Buy Milk"}

	tests := []struct {
		search string
		want   bool
	}{
		{"", true},
		{"milk", true},
		{"MILK", true},
		{"uy mi", true},
		{"Buy Milk", true},
		{"bread", false},
	}

	for _, tt := range tests {
		if got := todo.MatchesSearch(tt.search); got != tt.want {
			t.Errorf("MatchesSearch(%q) = %v, want %v", tt.search, got, tt.want)
		}
	}
}

func TestIsDeleted(t *testing.T) {
	todo := &Todo{}
	if todo.IsDeleted() {
		t.Error("fresh todo should not be deleted")
	}

	now := time.Now().UTC()
	todo.DeletedAt = &now
	if !todo.IsDeleted() {
		t.Error("todo with DeletedAt should be deleted")
	}
}
