package events

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"todo_api/internal/domain"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Integration-style test: runs only if KAFKA_BROKERS env is set.
func TestKafkaPublisherIntegration(t *testing.T) {
	brokers := os.Getenv("KAFKA_BROKERS")
	if brokers == "" {
		t.Skip("KAFKA_BROKERS not set; skipping integration test")
	}
	topic := "todo-events-test-" + uuid.NewString()[:8]

	p := NewKafkaPublisher(strings.Split(brokers, ","), topic)
	defer p.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	id := uuid.New()
	require.NoError(t, p.Publish(ctx, domain.TodoEvent{Type: domain.EventTodoDeleted, TodoID: id, At: time.Now()}))

	r := kafka.NewReader(kafka.ReaderConfig{Brokers: strings.Split(brokers, ","), Topic: topic})
	defer r.Close()

	msg, err := r.ReadMessage(ctx)
	require.NoError(t, err)
	assert.Equal(t, id.String(), string(msg.Key))

	var got Message
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, domain.EventTodoDeleted, got.Type)
	assert.Equal(t, id.String(), got.TodoID)
}
