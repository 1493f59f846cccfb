package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"todo_api/internal/domain"
	"todo_api/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type funcPublisher func(context.Context, domain.TodoEvent) error

func (f funcPublisher) Publish(ctx context.Context, ev domain.TodoEvent) error { return f(ctx, ev) }

func TestEncodeDeletedEvent(t *testing.T) {
	id := uuid.New()
	at := time.Date(2026, 10, 1, 9, 30, 0, 0, time.UTC)

	b, err := Encode(domain.TodoEvent{Type: domain.EventTodoDeleted, TodoID: id, At: at})
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, "todo.deleted", got["type"])
	assert.Equal(t, id.String(), got["todoId"])
	assert.Equal(t, "2026-10-01T09:30:00Z", got["at"])
	assert.NotContains(t, got, "todo")
}

func TestEncodeCarriesTodoView(t *testing.T) {
	todo := &domain.Todo{ID: uuid.New(), Title: "a", CreatedAt: time.Now(), UpdatedAt: time.Now()}

	m := NewMessage(domain.TodoEvent{Type: domain.EventTodoCreated, TodoID: todo.ID, Todo: todo, At: time.Now()})
	require.NotNil(t, m.Todo)
	assert.Equal(t, service.NewTodoView(todo), *m.Todo)
}

func TestFanoutPublishesToAllAndJoinsErrors(t *testing.T) {
	errA := errors.New("a failed")
	calls := 0
	f := Fanout{
		funcPublisher(func(context.Context, domain.TodoEvent) error { calls++; return errA }),
		funcPublisher(func(context.Context, domain.TodoEvent) error { calls++; return nil }),
	}

	err := f.Publish(context.Background(), domain.TodoEvent{Type: domain.EventTodoUpdated})
	assert.ErrorIs(t, err, errA)
	assert.Equal(t, 2, calls)

	assert.NoError(t, Fanout{}.Publish(context.Background(), domain.TodoEvent{}))
}
