package repository

import (
	"sync"
	"testing"

	"PumpScan/internal/domain/models"
)

func sample(last float64) models.Sample {
	return models.Sample{Last: last, VolIDR: 1_000_000, VolBuy: 500_000, VolSell: 500_000}
}

func TestRollingHistoryCapacity(t *testing.T) {
	h := NewRollingHistory(5)
	for i := 1; i <= 8; i++ {
		h.Append("btcidr", sample(float64(i)))
	}
	snap := h.Snapshot("btcidr")
	if len(snap) != 5 {
		t.Fatalf("len = %d, want 5", len(snap))
	}
	// appends 1..8 into capacity 5: the oldest 3 were evicted
	for i, s := range snap {
		if want := float64(i + 4); s.Last != want {
			t.Fatalf("snap[%d].Last = %v, want %v", i, s.Last, want)
		}
	}
}

func TestRollingHistoryEmptyPair(t *testing.T) {
	h := NewRollingHistory(5)
	if snap := h.Snapshot("xyzidr"); snap != nil {
		t.Fatalf("snapshot of unknown pair = %v, want nil", snap)
	}
	if got := h.Len("xyzidr"); got != 0 {
		t.Fatalf("len of unknown pair = %d, want 0", got)
	}
}

func TestRollingHistoryPrevious(t *testing.T) {
	h := NewRollingHistory(5)
	if _, ok := h.Previous("btcidr"); ok {
		t.Fatalf("previous of unknown pair should report absence")
	}
	h.Append("btcidr", sample(1))
	h.Append("btcidr", sample(2))
	prev, ok := h.Previous("btcidr")
	if !ok || prev.Last != 2 {
		t.Fatalf("previous = %v ok=%v, want last appended sample", prev, ok)
	}
}

func TestRollingHistorySnapshotIsolated(t *testing.T) {
	h := NewRollingHistory(5)
	h.Append("a", sample(1))
	snap := h.Snapshot("a")
	snap[0] = sample(99)
	if got := h.Snapshot("a")[0].Last; got != 1 {
		t.Fatalf("snapshot mutation leaked into store: %v", got)
	}
}

func TestRollingHistoryConcurrentReadWrite(t *testing.T) {
	h := NewRollingHistory(40)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			h.Append("ethidr", sample(float64(i)))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			snap := h.Snapshot("ethidr")
			if len(snap) > 40 {
				t.Errorf("window exceeded capacity: %d", len(snap))
				return
			}
		}
	}()
	wg.Wait()
}
