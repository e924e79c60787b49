package models

// Indicators is the per-pair, per-cycle derived snapshot. Band fields are
// nil until enough history exists. Recomputed fresh every cycle; never stored.
type Indicators struct {
	RSI        float64
	MiddleBand *float64
	UpperBand  *float64
	LowerBand  *float64
	VolSMA     float64
	BandWidth  float64 // percent spread of bands; 100 when bands undefined
}

// BandsDefined reports whether all three Bollinger bands were computed.
func (i Indicators) BandsDefined() bool {
	return i.MiddleBand != nil && i.UpperBand != nil && i.LowerBand != nil
}
