package repository

import (
	"context"

	"StockTiming/internal/domain/models"
	pkgkafka "StockTiming/pkg/kafka"
)

// KafkaSignalPublisher implements EventPublisher over a Kafka topic. Events
// are keyed by symbol so per-symbol ordering survives partitioning.
type KafkaSignalPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaSignalPublisher(producer *pkgkafka.Producer, topic string) *KafkaSignalPublisher {
	return &KafkaSignalPublisher{producer: producer, topic: topic}
}

func (p *KafkaSignalPublisher) Publish(ctx context.Context, event models.SignalEvent) error {
	return p.producer.Publish(ctx, p.topic, []byte(event.Signal.Symbol), event)
}

func (p *KafkaSignalPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
