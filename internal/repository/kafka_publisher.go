package repository

import (
	"context"

	"PumpScan/internal/domain/models"
	domrepo "PumpScan/internal/domain/repository"
	pkgkafka "PumpScan/pkg/kafka"
)

// KafkaSignalPublisher fans published signals out to a Kafka topic,
// keyed by pair so consumers see per-pair ordering.
type KafkaSignalPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaSignalPublisher creates a Kafka-backed signal publisher.
func NewKafkaSignalPublisher(producer *pkgkafka.Producer, topic string) domrepo.SignalPublisher {
	return &KafkaSignalPublisher{producer: producer, topic: topic}
}

func (p *KafkaSignalPublisher) Publish(ctx context.Context, sig *models.Signal) error {
	return p.producer.Publish(ctx, p.topic, []byte(sig.Pair), sig)
}

func (p *KafkaSignalPublisher) Close() error {
	return p.producer.Close()
}
