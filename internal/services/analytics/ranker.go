package analytics

import (
	"math"

	"PumpScan/internal/domain/models"
)

// Ranker scores collected candidates and selects the single winner for
// a pair in one cycle.
type Ranker struct {
	threshold float64
}

func NewRanker(threshold float64) *Ranker {
	return &Ranker{threshold: threshold}
}

// Priority computes the ranking score for one candidate.
func (r *Ranker) Priority(c models.Candidate, now models.Sample, ind models.Indicators) float64 {
	p := float64(c.Score) + math.Abs(c.Ghost)*0.15

	if now.VolIDR > ind.VolSMA*2.5 {
		p += 5
	}

	switch {
	case ind.RSI < 35:
		p += 5
	case ind.RSI < 50:
		p += 2
	case ind.RSI > 70:
		p -= 4
	}

	if ind.UpperBand != nil && now.Last > *ind.UpperBand {
		p += 8
	}
	if ind.BandWidth < 5 {
		p += 5
	}

	return p
}

// Best returns the highest-priority candidate, scanning in generation
// order so the earliest of equal maxima wins. The boolean is false when
// there are no candidates or the winner falls below the publish
// threshold.
func (r *Ranker) Best(cands []models.Candidate, now models.Sample, ind models.Indicators) (models.Candidate, float64, bool) {
	if len(cands) == 0 {
		return models.Candidate{}, 0, false
	}

	best := cands[0]
	bestP := r.Priority(cands[0], now, ind)
	for _, c := range cands[1:] {
		if p := r.Priority(c, now, ind); p > bestP {
			best = c
			bestP = p
		}
	}

	if bestP < r.threshold {
		return models.Candidate{}, 0, false
	}
	return best, bestP, true
}
