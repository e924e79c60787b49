package repository

import (
	"sync"

	"PumpScan/internal/domain/models"
	domrepo "PumpScan/internal/domain/repository"
)

// RollingHistory is a bounded per-pair sample window. Appending beyond
// capacity evicts the oldest sample. Sequences are created lazily on first
// observation and live for the process lifetime.
type RollingHistory struct {
	mu       sync.RWMutex
	capacity int
	windows  map[string][]models.Sample
}

// NewRollingHistory creates a history store with the given window capacity.
func NewRollingHistory(capacity int) *RollingHistory {
	if capacity < 2 {
		capacity = 2
	}
	return &RollingHistory{
		capacity: capacity,
		windows:  make(map[string][]models.Sample),
	}
}

var _ domrepo.HistoryStore = (*RollingHistory)(nil)

// Append adds a sample, evicting the oldest when the window is full.
func (h *RollingHistory) Append(pair string, s models.Sample) {
	h.mu.Lock()
	defer h.mu.Unlock()

	w, ok := h.windows[pair]
	if !ok {
		w = make([]models.Sample, 0, h.capacity)
	}
	if len(w) == h.capacity {
		copy(w, w[1:])
		w[len(w)-1] = s
	} else {
		w = append(w, s)
	}
	h.windows[pair] = w
}

// Snapshot returns a copy of the pair's window, oldest first.
func (h *RollingHistory) Snapshot(pair string) []models.Sample {
	h.mu.RLock()
	defer h.mu.RUnlock()

	w := h.windows[pair]
	if len(w) == 0 {
		return nil
	}
	out := make([]models.Sample, len(w))
	copy(out, w)
	return out
}

// Previous returns the most recent sample for pair, if any.
func (h *RollingHistory) Previous(pair string) (models.Sample, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	w := h.windows[pair]
	if len(w) == 0 {
		return models.Sample{}, false
	}
	return w[len(w)-1], true
}

// Len returns the number of retained samples for pair.
func (h *RollingHistory) Len(pair string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.windows[pair])
}
