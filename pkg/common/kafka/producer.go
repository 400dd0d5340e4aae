package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/healthsense/predictor/pkg/common/logger"
	"github.com/healthsense/predictor/pkg/common/models"
	"github.com/segmentio/kafka-go"
)

const (
	HeaderEventType = "event-type"
	HeaderService   = "service"
)

// Producer publishes service lifecycle events such as artifacts.loaded.
// Events describe the process, never a request.
type Producer struct {
	writer *kafka.Writer
}

// NewProducer writes synchronously, one message per batch.
func NewProducer(brokers []string, topic string) *Producer {
	return &Producer{writer: &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		BatchSize:              1,
		WriteTimeout:           5 * time.Second,
	}}
}

func NewEvent(eventType string, source string, data map[string]interface{}) models.Event {
	return models.Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    source,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
}

// Message encodes event keyed by its source service, so one service's events
// stay ordered on a single partition.
func Message(event models.Event) (kafka.Message, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encoding %s event: %w", event.Type, err)
	}
	return kafka.Message{
		Key:   []byte(event.Source),
		Value: body,
		Time:  event.Timestamp,
		Headers: []kafka.Header{
			{Key: HeaderEventType, Value: []byte(event.Type)},
			{Key: HeaderService, Value: []byte(event.Source)},
		},
	}, nil
}

func (p *Producer) PublishEvent(ctx context.Context, eventType string, source string, data map[string]interface{}) error {
	event := NewEvent(eventType, source, data)
	msg, err := Message(event)
	if err != nil {
		return err
	}

	log := logger.Log.WithFields(map[string]interface{}{
		"event_id":   event.ID,
		"event_type": eventType,
		"topic":      p.writer.Topic,
	})
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publishing %s event: %w", eventType, err)
	}
	log.Info("Lifecycle event published")
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
