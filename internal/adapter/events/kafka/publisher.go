package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"ledger-gateway/internal/core/ports"

	"github.com/segmentio/kafka-go"
)

// Publisher implements ports.EventPublisher on a Kafka topic. Callers treat
// publish failures as log-and-continue; the ledger write has already
// committed by the time an event is emitted.
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher creates a Kafka-backed event publisher.
func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

// Publish emits one ledger event, keyed by batch id so events for the same
// batch stay ordered within a partition.
func (p *Publisher) Publish(ctx context.Context, ev ports.LedgerEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal ledger event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.BatchID.String()),
		Value: data,
	})
	if err != nil {
		return fmt.Errorf("write ledger event: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

// NopPublisher is the stand-in when event publishing is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, ports.LedgerEvent) error { return nil }
func (NopPublisher) Close() error                                     { return nil }
