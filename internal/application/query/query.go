// Package query translates caller-supplied list parameters into a
// deterministic, owner-scoped query plan shared by every storage driver.
package query

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/todolist/core/internal/domain/entities"
)

const (
	// DefaultLimit is the page size used when the caller supplies none.
	DefaultLimit = 20
	// MaxLimit caps the page size.
	MaxLimit = 100
	// MaxSearchLength caps the search term.
	MaxSearchLength = 100
)

// Params carries the raw filter and pagination inputs from the caller.
type Params struct {
	Search string
	Status entities.Status
	Cursor string
	Limit  int
}

// Cursor is a keyset pagination position. ID is uuid.Nil for legacy
// timestamp-only cursors; emitted cursors always carry the id tie-break so
// rows created in the same instant never repeat or vanish across pages.
type Cursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

// ParseCursor decodes a cursor token. The accepted forms are an RFC 3339
// timestamp, optionally followed by "|" and the id of the last seen row.
// An empty token means "first page". Anything else is ErrInvalidCursor.
func ParseCursor(raw string) (*Cursor, error) {
	if raw == "" {
		return nil, nil
	}

	parts := strings.SplitN(raw, "|", 2)
	createdAt, err := time.Parse(time.RFC3339Nano, parts[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %q", entities.ErrInvalidCursor, raw)
	}

	cursor := &Cursor{CreatedAt: createdAt}
	if len(parts) == 2 {
		id, err := uuid.Parse(parts[1])
		if err != nil {
			return nil, fmt.Errorf("%w: %q", entities.ErrInvalidCursor, raw)
		}
		cursor.ID = id
	}

	return cursor, nil
}

// String encodes the cursor in the form emitted to callers.
func (c *Cursor) String() string {
	return c.CreatedAt.UTC().Format(time.RFC3339Nano) + "|" + c.ID.String()
}

// Plan is a validated, normalized query over one owner's todos. It is a pure
// value: the SQL builders and the in-memory predicates below implement the
// same filter semantics.
type Plan struct {
	OwnerID uuid.UUID
	Search  string
	Status  entities.Status
	Cursor  *Cursor
	Limit   int
}

// Compose validates the raw params and produces a plan scoped to ownerID.
func Compose(ownerID uuid.UUID, params Params) (*Plan, error) {
	if utf8.RuneCountInString(params.Search) > MaxSearchLength {
		return nil, &entities.ValidationError{
			Field:   "search",
			Message: fmt.Sprintf("must be at most %d characters", MaxSearchLength),
		}
	}

	if !params.Status.IsValid() {
		return nil, &entities.ValidationError{
			Field:   "status",
			Message: "must be one of: all, completed, remaining",
		}
	}

	cursor, err := ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit < 1 {
		limit = 1
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return &Plan{
		OwnerID: ownerID,
		Search:  strings.TrimSpace(params.Search),
		Status:  params.Status,
		Cursor:  cursor,
		Limit:   limit,
	}, nil
}

// conditions builds the WHERE clause shared by the select and count queries.
// The cursor restriction is only appended when withCursor is set, because the
// total count ignores the pagination position.
func (p *Plan) conditions(withCursor bool) ([]string, []interface{}) {
	conditions := []string{"owner_id = $1", "deleted_at IS NULL"}
	args := []interface{}{p.OwnerID}
	argIndex := 2

	if p.Search != "" {
		conditions = append(conditions, fmt.Sprintf("text ILIKE $%d", argIndex))
		args = append(args, "%"+p.Search+"%")
		argIndex++
	}

	switch p.Status {
	case entities.StatusCompleted:
		conditions = append(conditions, "completed = TRUE")
	case entities.StatusRemaining:
		conditions = append(conditions, "completed = FALSE")
	}

	if withCursor && p.Cursor != nil {
		if p.Cursor.ID == uuid.Nil {
			conditions = append(conditions, fmt.Sprintf("created_at < $%d", argIndex))
			args = append(args, p.Cursor.CreatedAt)
		} else {
			conditions = append(conditions, fmt.Sprintf(
				"(created_at < $%d OR (created_at = $%d AND id < $%d))",
				argIndex, argIndex, argIndex+1,
			))
			args = append(args, p.Cursor.CreatedAt, p.Cursor.ID)
		}
	}

	return conditions, args
}

// SelectSQL returns the page query. It fetches Limit+1 rows so the caller can
// detect whether another page exists.
func (p *Plan) SelectSQL() (string, []interface{}) {
	conditions, args := p.conditions(true)

	query := fmt.Sprintf(`
		SELECT id, owner_id, text, completed, display_order, created_at, updated_at, completed_at, deleted_at
		FROM todos
		WHERE %s
		ORDER BY created_at DESC, id DESC
		LIMIT %d`,
		strings.Join(conditions, " AND "), p.Limit+1)

	return query, args
}

// CountSQL returns the total-count query over the same filters, excluding the
// cursor restriction.
func (p *Plan) CountSQL() (string, []interface{}) {
	conditions, args := p.conditions(false)

	query := fmt.Sprintf("SELECT COUNT(*) FROM todos WHERE %s", strings.Join(conditions, " AND "))
	return query, args
}

// Matches applies the base, search and status predicates to a todo. It is the
// in-memory equivalent of CountSQL's WHERE clause.
func (p *Plan) Matches(t *entities.Todo) bool {
	if t.OwnerID != p.OwnerID || t.IsDeleted() {
		return false
	}
	return t.MatchesStatus(p.Status) && t.MatchesSearch(p.Search)
}

// AfterCursor reports whether the todo falls strictly after the pagination
// position in (created_at DESC, id DESC) order.
func (p *Plan) AfterCursor(t *entities.Todo) bool {
	if p.Cursor == nil {
		return true
	}
	if t.CreatedAt.Before(p.Cursor.CreatedAt) {
		return true
	}
	if p.Cursor.ID == uuid.Nil {
		return false
	}
	return t.CreatedAt.Equal(p.Cursor.CreatedAt) && less(t.ID, p.Cursor.ID)
}

// Less orders todos newest-first with the id tie-break.
func Less(a, b *entities.Todo) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return less(b.ID, a.ID)
}

func less(a, b uuid.UUID) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// Page trims an over-fetched result down to the page size and derives the
// next cursor from the last retained row. A nil cursor means end of results.
func Page(todos []*entities.Todo, limit int) ([]*entities.Todo, *string) {
	if len(todos) <= limit {
		return todos, nil
	}

	page := todos[:limit]
	last := page[len(page)-1]
	token := (&Cursor{CreatedAt: last.CreatedAt, ID: last.ID}).String()
	return page, &token
}
