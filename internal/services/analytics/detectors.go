package analytics

import (
	"PumpScan/internal/domain/models"
	"PumpScan/pkg/config"
	"PumpScan/pkg/util"
)

// DetectorSet evaluates every detection heuristic against one pair's
// current sample, previous sample, and indicator snapshot. Detectors
// run unconditionally; several can fire for the same pair in one cycle.
type DetectorSet struct {
	cfg *config.Config
}

func NewDetectorSet(cfg *config.Config) *DetectorSet {
	return &DetectorSet{cfg: cfg}
}

// ScoreSignal computes the integer base score for a detection.
func ScoreSignal(now, prev models.Sample) int {
	score := 0
	if now.Last > prev.Last*1.01 {
		score += 2
	}
	if now.Last > prev.Last*1.03 {
		score += 4
	}
	if now.VolBuy > now.VolSell*1.4 {
		score += 3
	}
	if now.Last < 200 {
		score += 2
	}
	return score
}

// CalcLevels derives take-profit and stop-loss prices from an entry
// using the multipliers configured for the given levels mode.
func (d *DetectorSet) CalcLevels(entry float64, levelsMode string) (tp, sl float64) {
	lp := d.cfg.LevelsFor(levelsMode)
	return util.RoundTo(entry*lp.TP, 6), util.RoundTo(entry*lp.SL, 6)
}

func (d *DetectorSet) candidate(mode, pair string, entry float64, levelsMode string, score int) models.Candidate {
	entry = util.RoundPrice(entry)
	tp, sl := d.CalcLevels(entry, levelsMode)
	return models.Candidate{Mode: mode, Pair: pair, Entry: entry, TP: tp, SL: sl, Score: score}
}

// Detect runs all detectors in their fixed order and collects every
// candidate that fired. Ghost imbalance is attached later, once per
// pair, by the caller.
func (d *DetectorSet) Detect(pair string, now, prev models.Sample, ind models.Indicators) []models.Candidate {
	score := ScoreSignal(now, prev)
	var out []models.Candidate

	// scalper: small push on doubled volume
	if now.Last > prev.Last*1.008 && now.VolIDR > ind.VolSMA*2.0 {
		out = append(out, d.candidate(models.ModeScalper, pair, now.Last*0.999, "scalper", score))
	}

	// micro_pump: sharp push on tripled volume
	if now.Last > prev.Last*1.035 && now.VolIDR > ind.VolSMA*3.0 {
		out = append(out, d.candidate(models.ModeMicroPump, pair, now.Last*0.995, "normal", score))
	}

	// breakout: close above the upper band while the bands are tight
	if ind.UpperBand != nil && now.Last > *ind.UpperBand && ind.BandWidth < 10 {
		out = append(out, d.candidate(models.ModeBreakout, pair, now.Last, "normal", score))
	}

	// accumulation: buy-side dominance with rising turnover
	if now.VolBuy > now.VolSell*1.7 && now.VolIDR > prev.VolIDR*1.3 {
		out = append(out, d.candidate(models.ModeAccumulation, pair, now.Last, "ghost", score))
	}

	// rebound: hard drop from the previous sample, or close below the lower band
	if prev.Last > now.Last*1.07 || (ind.LowerBand != nil && now.Last < *ind.LowerBand) {
		out = append(out, d.candidate(models.ModeRebound, pair, now.Last, "normal", score))
	}

	// lowcap: cheap pair on quadrupled volume
	if now.Last < 200 && now.VolIDR > ind.VolSMA*4.0 {
		out = append(out, d.candidate(models.ModeLowcap, pair, now.Last, "ghost", score))
	}

	return out
}
