package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"ballotbox/contexts/elections/election-engine/ports"

	"github.com/segmentio/kafka-go"
)

// Kafka is the broker adapter fed by the outbox relay. Messages are keyed by
// the envelope partition key so per-election ordering survives partitioning.
type Kafka struct {
	writer *kafka.Writer
	logger *slog.Logger
}

func NewKafka(brokers []string, logger *slog.Logger) (*Kafka, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers are required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		// Per-message topic: the relay routes each envelope by event type.
		AllowAutoTopicCreation: true,
	}
	return &Kafka{
		writer: writer,
		logger: logger,
	}, nil
}

func (k *Kafka) Publish(ctx context.Context, topic string, event ports.EventEnvelope) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", event.EventID, err)
	}
	message := kafka.Message{
		Topic: topic,
		Key:   []byte(event.PartitionKey),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(event.EventID)},
			{Key: "event_type", Value: []byte(event.EventType)},
		},
	}
	if err := k.writer.WriteMessages(ctx, message); err != nil {
		k.logger.Error("kafka publish failed",
			"event", "kafka_publish_failed",
			"module", "internal/platform/messaging",
			"layer", "platform",
			"topic", topic,
			"event_id", event.EventID,
			"error", err.Error(),
		)
		return err
	}

	k.logger.Info("event published",
		"event", "kafka_publish",
		"module", "internal/platform/messaging",
		"layer", "platform",
		"topic", topic,
		"event_id", event.EventID,
		"event_type", event.EventType,
	)
	return nil
}

func (k *Kafka) Close() error {
	return k.writer.Close()
}

var _ ports.EventPublisher = (*Kafka)(nil)
