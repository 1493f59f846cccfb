package service

import (
	"time"

	"todo_api/internal/domain"
)

// isoMicros is ISO-8601 in UTC at the store's microsecond resolution
const isoMicros = "2006-01-02T15:04:05.000000Z"

// TodoView is the wire representation of a todo
type TodoView struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Completed   bool    `json:"completed"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

func NewTodoView(t *domain.Todo) TodoView {
	return TodoView{
		ID:          t.ID.String(),
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		CreatedAt:   formatTime(t.CreatedAt),
		UpdatedAt:   formatTime(t.UpdatedAt),
	}
}

// NewTodoViews never returns nil so an empty listing encodes as []
func NewTodoViews(ts []*domain.Todo) []TodoView {
	out := make([]TodoView, 0, len(ts))
	for _, t := range ts {
		out = append(out, NewTodoView(t))
	}
	return out
}

func formatTime(t time.Time) string {
	return t.UTC().Format(isoMicros)
}
