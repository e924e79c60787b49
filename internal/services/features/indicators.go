package features

import (
	"PumpScan/internal/domain/models"
	"PumpScan/pkg/util"
)

const (
	// NeutralRSI is reported while the window is too short to smooth.
	NeutralRSI = 50.0

	// WideBandSentinel is the band width reported when the bands are not
	// yet defined, keeping the "tight squeeze" checks from firing early.
	WideBandSentinel = 100.0
)

// RSI computes Wilder-smoothed RSI over the closing prices of samples.
// With fewer than period+1 samples it returns NeutralRSI; with zero
// average loss it returns 100.
func RSI(samples []models.Sample, period int) float64 {
	if period < 1 || len(samples) < period+1 {
		return NeutralRSI
	}

	avgGain := 0.0
	avgLoss := 0.0
	for i := 1; i <= period; i++ {
		delta := samples[i].Last - samples[i-1].Last
		if delta > 0 {
			avgGain += delta
		} else {
			avgLoss -= delta
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	for i := period + 1; i < len(samples); i++ {
		delta := samples[i].Last - samples[i-1].Last
		gain, loss := 0.0, 0.0
		if delta > 0 {
			gain = delta
		} else {
			loss = -delta
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}

	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// BollingerBands computes the middle/upper/lower bands over the last
// period closing prices with the given standard-deviation multiplier.
// All three are nil until at least period samples exist.
func BollingerBands(samples []models.Sample, period int, mult float64) (middle, upper, lower *float64) {
	if period < 2 || len(samples) < period {
		return nil, nil, nil
	}

	closes := make([]float64, period)
	for i, s := range samples[len(samples)-period:] {
		closes[i] = s.Last
	}
	m := util.Mean(closes)
	sd := util.SampleStdDev(closes)
	u := m + mult*sd
	l := m - mult*sd
	return &m, &u, &l
}

// VolumeSMA averages the traded volume over the last period samples.
// With fewer samples it averages what is available; with none it
// returns 1 so volume ratios stay finite.
func VolumeSMA(samples []models.Sample, period int) float64 {
	if len(samples) == 0 {
		return 1
	}
	n := period
	if n > len(samples) {
		n = len(samples)
	}
	sum := 0.0
	for _, s := range samples[len(samples)-n:] {
		sum += s.VolIDR
	}
	return sum / float64(n)
}

// BandWidth expresses the band spread as a percentage of the middle
// band. Undefined bands (or a zero middle) report WideBandSentinel.
func BandWidth(middle, upper, lower *float64) float64 {
	if middle == nil || upper == nil || lower == nil || *middle == 0 {
		return WideBandSentinel
	}
	return (*upper - *lower) / *middle * 100
}

// Compute evaluates the full indicator set for one pair's window.
func Compute(samples []models.Sample, rsiPeriod, bandPeriod int, bandMult float64, volPeriod int) models.Indicators {
	middle, upper, lower := BollingerBands(samples, bandPeriod, bandMult)
	return models.Indicators{
		RSI:        RSI(samples, rsiPeriod),
		MiddleBand: middle,
		UpperBand:  upper,
		LowerBand:  lower,
		VolSMA:     VolumeSMA(samples, volPeriod),
		BandWidth:  BandWidth(middle, upper, lower),
	}
}
