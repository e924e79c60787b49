package middleware

import (
	"context"

	"PumpScan/internal/domain/models"
	domrepo "PumpScan/internal/domain/repository"
)

// PublisherSink adapts a SignalPublisher (e.g. the Kafka producer) to
// the pipeline Sink interface.
type PublisherSink struct {
	name string
	pub  domrepo.SignalPublisher
}

func NewPublisherSink(name string, pub domrepo.SignalPublisher) *PublisherSink {
	return &PublisherSink{name: name, pub: pub}
}

func (s *PublisherSink) Name() string { return s.name }

func (s *PublisherSink) Deliver(ctx context.Context, sig *models.Signal) error {
	return s.pub.Publish(ctx, sig)
}
