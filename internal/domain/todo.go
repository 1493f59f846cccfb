package domain

import (
	"time"

	"github.com/google/uuid"
)

// Todo is the stored representation of a todo item
type Todo struct {
	ID          uuid.UUID `db:"id"`
	Title       string    `db:"title"`
	Description *string   `db:"description"`
	Completed   bool      `db:"completed"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// TodoFilter narrows a listing. Empty Query and nil Completed mean "don't filter".
type TodoFilter struct {
	Query     string
	Completed *bool
}

// CreateTodoInput is the validated-on-write payload of a create request
type CreateTodoInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

// UpdateTodoInput carries only the fields the caller supplied
type UpdateTodoInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

// Empty reports whether no field was supplied
func (in UpdateTodoInput) Empty() bool {
	return in.Title == nil && in.Description == nil && in.Completed == nil
}

// TodoPatch is an update as handed to storage: nil fields stay unchanged,
// UpdatedAt is always written.
type TodoPatch struct {
	Title       *string
	Description *string
	Completed   *bool
	UpdatedAt   time.Time
}

// Apply applies the patch to t in place. updated_at never moves backwards
// and always advances past its previous value.
func (p TodoPatch) Apply(t *Todo) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		d := *p.Description
		t.Description = &d
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	next := p.UpdatedAt
	if !next.After(t.UpdatedAt) {
		next = t.UpdatedAt.Add(time.Microsecond)
	}
	t.UpdatedAt = next
}
