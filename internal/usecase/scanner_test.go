package usecase

import (
	"context"
	"fmt"
	"testing"

	"PumpScan/internal/domain/models"
	"PumpScan/internal/repository"
	"PumpScan/internal/services/analytics"
	"PumpScan/pkg/config"
	applogger "PumpScan/pkg/logger"
)

type fakeFeed struct {
	payload *models.Summaries
	err     error
}

func (f *fakeFeed) Summaries(_ context.Context) (*models.Summaries, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.payload, nil
}

type fakeGhost struct {
	value float64
	calls int
}

func (g *fakeGhost) Imbalance(_ context.Context, _ string) float64 {
	g.calls++
	return g.value
}

type noopMetrics struct{}

func (noopMetrics) RecordCycle(float64) {}
func (noopMetrics) RecordPairScanned() {}
func (noopMetrics) RecordSignal(string) {}
func (noopMetrics) RecordError(string) {}
func (noopMetrics) RecordLastPrice(string, float64) {}
func (noopMetrics) RecordLatency(string, float64) {}

func ticker(last, volIDR float64) models.TickerEntry {
	return models.TickerEntry{Last: models.FlexFloat(last), VolIDR: models.FlexFloat(volIDR)}
}

func tickerSplit(last, volIDR, volBuy, volSell float64) models.TickerEntry {
	b := models.FlexFloat(volBuy)
	s := models.FlexFloat(volSell)
	e := ticker(last, volIDR)
	e.VolBuy = &b
	e.VolSell = &s
	return e
}

func summaries(tickers map[string]models.TickerEntry) *models.Summaries {
	return &models.Summaries{Tickers: tickers}
}

type harness struct {
	scanner *Scanner
	feed    *fakeFeed
	ghost   *fakeGhost
	history *repository.RollingHistory
	store   *repository.SignalLog
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cfg, err := config.Default()
	if err != nil {
		t.Fatalf("default config: %v", err)
	}
	cfg.Scanner.Workers = 1

	log, err := applogger.New(&applogger.Config{Level: "error", Format: "console", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}

	feed := &fakeFeed{}
	ghost := &fakeGhost{}
	history := repository.NewRollingHistory(cfg.Scanner.HistoryWindow)
	store := repository.NewSignalLog(cfg.Scanner.MaxSignals)

	s := NewScanner(
		cfg,
		feed,
		history,
		store,
		analytics.NewDetectorSet(cfg),
		analytics.NewRanker(cfg.Scanner.PublishThreshold),
		ghost,
		nil,
		noopMetrics{},
		log,
	)
	return &harness{scanner: s, feed: feed, ghost: ghost, history: history, store: store}
}

func TestScanOnceQuietFeedProducesNoSignal(t *testing.T) {
	h := newHarness(t)
	payload := summaries(map[string]models.TickerEntry{
		"btcidr": ticker(950_000_000, 5_000_000_000),
		"ethidr": ticker(45_000_000, 2_000_000_000),
	})
	h.feed.payload = payload

	// identical feed twice: no movement, nothing fires
	h.scanner.ScanOnce(context.Background())
	h.scanner.ScanOnce(context.Background())

	if got := h.store.Len(); got != 0 {
		t.Fatalf("stored signals = %d, want 0", got)
	}
	if h.history.Len("btcidr") != 2 {
		t.Fatalf("history len = %d, want 2", h.history.Len("btcidr"))
	}
}

func TestScanOncePumpPublishesSignal(t *testing.T) {
	h := newHarness(t)
	h.ghost.value = 40

	h.feed.payload = summaries(map[string]models.TickerEntry{
		"tokoidr": ticker(1000, 10_000_000),
	})
	h.scanner.ScanOnce(context.Background())
	if h.store.Len() != 0 {
		t.Fatalf("first observation must only seed history")
	}

	// +8% on 4.5x volume: scalper and micro_pump both fire
	h.feed.payload = summaries(map[string]models.TickerEntry{
		"tokoidr": ticker(1080, 45_000_000),
	})
	h.scanner.ScanOnce(context.Background())

	list := h.store.List()
	if len(list) != 1 {
		t.Fatalf("stored signals = %d, want 1", len(list))
	}
	sig := list[0]
	if sig.Pair != "tokoidr" {
		t.Fatalf("pair = %s, want tokoidr", sig.Pair)
	}
	// ranker is indifferent between the two candidates; scalper came first
	if sig.Mode != models.ModeScalper {
		t.Fatalf("mode = %s, want scalper", sig.Mode)
	}
	if sig.Entry != 1079 { // 1080 * 0.999 = 1078.92, rounded
		t.Fatalf("entry = %v, want 1079", sig.Entry)
	}
	if sig.TP != 1116.765 || sig.SL != 1070.368 {
		t.Fatalf("levels = %v/%v, want 1116.765/1070.368", sig.TP, sig.SL)
	}
	if sig.Ghost != 40 {
		t.Fatalf("ghost = %v, want 40", sig.Ghost)
	}
	if sig.News {
		t.Fatalf("news must always be false")
	}
	if sig.ID == "" || sig.Time == "" {
		t.Fatalf("signal missing id or time: %+v", sig)
	}
	if h.ghost.calls != 1 {
		t.Fatalf("ghost lookups = %d, want 1 per triggering pair", h.ghost.calls)
	}
}

func TestScanOnceFeedFailureSkipsCycle(t *testing.T) {
	h := newHarness(t)
	h.feed.payload = summaries(map[string]models.TickerEntry{
		"btcidr": ticker(1000, 10_000_000),
	})
	h.scanner.ScanOnce(context.Background())

	h.feed.err = fmt.Errorf("upstream down")
	h.scanner.ScanOnce(context.Background())

	// history untouched by the failed cycle
	if got := h.history.Len("btcidr"); got != 1 {
		t.Fatalf("history len = %d, want 1", got)
	}
	if h.store.Len() != 0 {
		t.Fatalf("failed cycle must not emit signals")
	}
}

func TestScanOnceFiltersAndFloors(t *testing.T) {
	h := newHarness(t)
	h.feed.payload = summaries(map[string]models.TickerEntry{
		"btcusdt": ticker(60_000, 10_000_000), // wrong quote currency
		"dustidr": ticker(100, 500_000),       // below the volume floor
		"btcidr":  ticker(1000, 10_000_000),
	})
	h.scanner.ScanOnce(context.Background())

	if h.history.Len("btcusdt") != 0 {
		t.Fatalf("non-quote pair must be ignored")
	}
	if h.history.Len("dustidr") != 0 {
		t.Fatalf("below-floor pair must not touch history")
	}
	if h.history.Len("btcidr") != 1 {
		t.Fatalf("quote pair above floor must be recorded")
	}
}

func TestScanOnceMalformedPairIsIsolated(t *testing.T) {
	h := newHarness(t)
	bad := models.TickerEntry{Last: 0, VolIDR: models.FlexFloat(10_000_000)}
	h.feed.payload = summaries(map[string]models.TickerEntry{
		"badidr": bad,
		"okidr":  ticker(1000, 10_000_000),
	})
	h.scanner.ScanOnce(context.Background())

	if h.history.Len("badidr") != 0 {
		t.Fatalf("malformed ticker must be skipped")
	}
	if h.history.Len("okidr") != 1 {
		t.Fatalf("healthy pair must survive a sibling failure")
	}
}

func TestRepeatedPumpsRespectStoreCap(t *testing.T) {
	h := newHarness(t)
	h.ghost.value = 0

	// a low-price pair under sustained buy pressure keeps the base score
	// high enough to clear the publish threshold on nearly every cycle
	price := 1.0
	vol := 10_000_000.0
	feedOne := func() {
		h.feed.payload = summaries(map[string]models.TickerEntry{
			"capidr": tickerSplit(price, vol, vol*0.8, vol*0.2),
		})
		h.scanner.ScanOnce(context.Background())
	}
	feedOne()

	for i := 0; i < 25; i++ {
		price *= 1.08
		vol *= 1.5
		feedOne()
	}

	if got := h.store.Len(); got != h.scanner.cfg.Scanner.MaxSignals {
		t.Fatalf("stored signals = %d, want %d", got, h.scanner.cfg.Scanner.MaxSignals)
	}
	list := h.store.List()
	for i := 1; i < len(list); i++ {
		if list[i-1].ID == list[i].ID {
			t.Fatalf("adjacent signals share an id")
		}
	}
}

func TestStatusTracksCycles(t *testing.T) {
	h := newHarness(t)
	h.feed.payload = summaries(map[string]models.TickerEntry{"btcidr": ticker(1000, 10_000_000)})

	if st := h.scanner.Status(); st.Cycles != 0 {
		t.Fatalf("cycles before run = %d, want 0", st.Cycles)
	}
	h.scanner.ScanOnce(context.Background())
	h.scanner.ScanOnce(context.Background())
	st := h.scanner.Status()
	if st.Cycles != 2 {
		t.Fatalf("cycles = %d, want 2", st.Cycles)
	}
	if st.LastCycle.IsZero() {
		t.Fatalf("last cycle timestamp not set")
	}
	if st.PairsScanned != 2 {
		t.Fatalf("pairs scanned = %d, want 2", st.PairsScanned)
	}
}
