package handlers

import (
	"context"

	"todo_api/internal/domain"
	"todo_api/internal/http/respond"

	"github.com/google/uuid"
)

// TodoService is the business layer the todo handlers call into
type TodoService interface {
	List(ctx context.Context, f domain.TodoFilter) ([]*domain.Todo, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Todo, error)
	Create(ctx context.Context, in domain.CreateTodoInput) (*domain.Todo, error)
	Update(ctx context.Context, id uuid.UUID, in domain.UpdateTodoInput) (*domain.Todo, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type Handler struct {
	Todos TodoService
	resp  *respond.Responder
}

func NewHandler(todos TodoService, resp *respond.Responder) *Handler {
	if resp == nil {
		resp = respond.New(false)
	}
	return &Handler{Todos: todos, resp: resp}
}

// todoID parses the :id path parameter. A malformed id cannot name a stored
// todo, so it is reported as not found.
func todoID(c interface{ Param(string) string }) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, domain.ErrNotFound
	}
	return id, nil
}
