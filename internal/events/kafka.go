package events

import (
	"context"
	"fmt"

	"todo_api/internal/domain"

	"github.com/segmentio/kafka-go"
)

// KafkaPublisher writes one message per event, keyed by todo id so all
// events of a todo land on the same partition
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			AllowAutoTopicCreation: true,
		},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, ev domain.TodoEvent) error {
	value, err := Encode(ev)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(ev.TodoID.String()),
		Value: value,
		Time:  ev.At,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(ev.Type)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka write: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
