package models

// Detector mode tags.
const (
	ModeScalper      = "scalper"
	ModeMicroPump    = "micro_pump"
	ModeBreakout     = "breakout"
	ModeAccumulation = "accumulation"
	ModeRebound      = "rebound"
	ModeLowcap       = "lowcap"
)

// Candidate is an ephemeral detection draft produced by one detector.
// It lives within a single scan cycle and is discarded after ranking.
type Candidate struct {
	Mode  string
	Pair  string
	Entry float64
	TP    float64
	SL    float64
	Score int
	Ghost float64
}

// Signal is the published record served by the query surface.
// Immutable once created. News is a reserved stub field: no news source
// is integrated, it is always false.
type Signal struct {
	ID         string  `json:"id"`
	Mode       string  `json:"mode"`
	Pair       string  `json:"pair"`
	Time       string  `json:"time"` // HH:MM:SS, UTC
	Entry      float64 `json:"entry"`
	TP         float64 `json:"tp"`
	SL         float64 `json:"sl"`
	Priority   float64 `json:"priority"`
	Ghost      float64 `json:"ghost"`
	News       bool    `json:"news"`
	RSI        float64 `json:"rsi"`
	Volatility float64 `json:"volatility"`
}
