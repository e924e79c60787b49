package repository

import (
	"sync"

	"PumpScan/internal/domain/models"
	domrepo "PumpScan/internal/domain/repository"
)

// SignalLog is the bounded, newest-first store of published signals.
// One writer (the scan loop), concurrent readers (the query surface).
type SignalLog struct {
	mu       sync.RWMutex
	capacity int
	items    []*models.Signal // index 0 is newest
}

// NewSignalLog creates a signal store with the given capacity.
func NewSignalLog(capacity int) *SignalLog {
	if capacity < 1 {
		capacity = 1
	}
	return &SignalLog{
		capacity: capacity,
		items:    make([]*models.Signal, 0, capacity),
	}
}

var _ domrepo.SignalStore = (*SignalLog)(nil)

// Push inserts sig at the front, evicting the oldest when full.
func (l *SignalLog) Push(sig *models.Signal) {
	if sig == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.items) == l.capacity {
		copy(l.items[1:], l.items[:len(l.items)-1])
		l.items[0] = sig
		return
	}
	l.items = append(l.items, nil)
	copy(l.items[1:], l.items[:len(l.items)-1])
	l.items[0] = sig
}

// List returns the stored signals newest first. Signals are immutable, so
// sharing the pointers is safe; the slice itself is a copy.
func (l *SignalLog) List() []*models.Signal {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]*models.Signal, len(l.items))
	copy(out, l.items)
	return out
}

// Len returns the number of stored signals.
func (l *SignalLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}
