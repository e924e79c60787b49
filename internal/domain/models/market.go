package models

import (
	"bytes"
	"fmt"
	"strconv"
)

// FlexFloat decodes JSON numbers that the upstream feed serves either as
// numbers or as quoted strings.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(bytes.TrimSpace(b), `"`)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return fmt.Errorf("parse numeric %q: %w", b, err)
	}
	*f = FlexFloat(v)
	return nil
}

// TickerEntry is one pair's entry in the upstream summaries payload.
type TickerEntry struct {
	Last    FlexFloat  `json:"last"`
	VolIDR  FlexFloat  `json:"vol_idr"`
	VolBuy  *FlexFloat `json:"vol_buy,omitempty"`
	VolSell *FlexFloat `json:"vol_sell,omitempty"`
}

// Summaries is the upstream feed summary object keyed by pair.
type Summaries struct {
	Tickers map[string]TickerEntry `json:"tickers"`
}

// Depth is the upstream order-book payload: buy/sell arrays of
// [price, volume] rows.
type Depth struct {
	Buy  [][]FlexFloat `json:"buy"`
	Sell [][]FlexFloat `json:"sell"`
}

// Sample is one immutable per-cycle observation for a pair.
// VolBuy/VolSell default to half of VolIDR when the feed omits them,
// which keeps every buy/sell ratio test neutral.
type Sample struct {
	Last    float64
	VolIDR  float64
	VolBuy  float64
	VolSell float64
}

// SampleFromTicker validates a ticker entry and builds a Sample.
func SampleFromTicker(t TickerEntry) (Sample, error) {
	last := float64(t.Last)
	volIDR := float64(t.VolIDR)
	if last <= 0 {
		return Sample{}, fmt.Errorf("non-positive last price %v", last)
	}
	if volIDR < 0 {
		return Sample{}, fmt.Errorf("negative traded volume %v", volIDR)
	}

	volBuy := volIDR * 0.5
	volSell := volIDR * 0.5
	if t.VolBuy != nil {
		volBuy = float64(*t.VolBuy)
	}
	if t.VolSell != nil {
		volSell = float64(*t.VolSell)
	}

	return Sample{Last: last, VolIDR: volIDR, VolBuy: volBuy, VolSell: volSell}, nil
}
