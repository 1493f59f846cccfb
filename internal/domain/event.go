package domain

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventTodoCreated EventType = "todo.created"
	EventTodoUpdated EventType = "todo.updated"
	EventTodoDeleted EventType = "todo.deleted"
)

// TodoEvent describes a committed mutation. Todo is nil for deletions.
type TodoEvent struct {
	Type   EventType
	TodoID uuid.UUID
	Todo   *Todo
	At     time.Time
}
