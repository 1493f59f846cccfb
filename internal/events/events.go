package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"todo_api/internal/domain"
	"todo_api/internal/service"
)

// Message is the JSON envelope shared by every event sink
type Message struct {
	Type   domain.EventType  `json:"type"`
	TodoID string            `json:"todoId"`
	Todo   *service.TodoView `json:"todo,omitempty"`
	At     string            `json:"at"`
}

func NewMessage(ev domain.TodoEvent) Message {
	m := Message{
		Type:   ev.Type,
		TodoID: ev.TodoID.String(),
		At:     ev.At.UTC().Format(time.RFC3339Nano),
	}
	if ev.Todo != nil {
		v := service.NewTodoView(ev.Todo)
		m.Todo = &v
	}
	return m
}

// Encode renders ev as the JSON envelope
func Encode(ev domain.TodoEvent) ([]byte, error) {
	return json.Marshal(NewMessage(ev))
}

// Fanout publishes to every sink and joins their errors
type Fanout []service.Publisher

func (f Fanout) Publish(ctx context.Context, ev domain.TodoEvent) error {
	var errs []error
	for _, p := range f {
		if err := p.Publish(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
