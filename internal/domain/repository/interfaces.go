package repository

import (
	"context"

	"PumpScan/internal/domain/models"
)

// HistoryStore keeps a bounded rolling window of samples per pair.
// Single writer (the scan loop), concurrent readers.
type HistoryStore interface {
	// Append adds a sample for pair, evicting the oldest when full.
	Append(pair string, s models.Sample)
	// Snapshot returns a copy of the pair's samples, oldest first.
	Snapshot(pair string) []models.Sample
	// Previous returns the most recent sample for pair, if any.
	Previous(pair string) (models.Sample, bool)
	// Len returns the number of retained samples for pair.
	Len(pair string) int
}

// SignalStore is the bounded, newest-first collection of published signals.
type SignalStore interface {
	Push(sig *models.Signal)
	// List returns signals newest first; the slice is a copy.
	List() []*models.Signal
	Len() int
}

// MarketFeed fetches the upstream summary payload for all pairs.
// A failed fetch returns an error the caller treats as "no data".
type MarketFeed interface {
	Summaries(ctx context.Context) (*models.Summaries, error)
}

// OrderBookSource fetches the order book for one pair.
type OrderBookSource interface {
	Depth(ctx context.Context, pair string) (*models.Depth, error)
}

// SignalPublisher fans a published signal out to an external system.
type SignalPublisher interface {
	Publish(ctx context.Context, sig *models.Signal) error
	Close() error
}

// Metrics abstracts the metrics recorder.
type Metrics interface {
	RecordCycle(seconds float64)
	RecordPairScanned()
	RecordSignal(mode string)
	RecordError(kind string)
	RecordLastPrice(pair string, price float64)
	RecordLatency(op string, seconds float64)
}
