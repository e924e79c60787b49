package util

import (
	"math"
	"testing"
)

func TestRoundTo(t *testing.T) {
	if got := RoundTo(1.23456789, 6); got != 1.234568 {
		t.Fatalf("unexpected %v", got)
	}
	if got := RoundTo(14.25, 1); got != 14.3 {
		t.Fatalf("unexpected %v", got)
	}
}

func TestRoundPrice(t *testing.T) {
	if got := RoundPrice(107.892); got != 108 {
		t.Fatalf("unexpected %v", got)
	}
}

func TestSampleStdDev(t *testing.T) {
	xs := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	got := SampleStdDev(xs)
	want := 2.13808993529939 // sqrt(32/7)
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("got %v want %v", got, want)
	}
	if SampleStdDev([]float64{1}) != 0 {
		t.Fatalf("expected 0 for single value")
	}
}

func TestMeanEmpty(t *testing.T) {
	if Mean(nil) != 0 {
		t.Fatalf("expected 0 for empty slice")
	}
}
