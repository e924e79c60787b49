package usecase

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"PumpScan/internal/domain/models"
	drepo "PumpScan/internal/domain/repository"
	mid "PumpScan/internal/middleware"
	"PumpScan/internal/services/analytics"
	"PumpScan/internal/services/features"
	"PumpScan/pkg/config"
	applogger "PumpScan/pkg/logger"
	"PumpScan/pkg/util"
)

// GhostSource resolves the order-book imbalance for a pair.
type GhostSource interface {
	Imbalance(ctx context.Context, pair string) float64
}

// Scanner runs the polling scan loop: fetch the market summary, process
// every quote-currency pair against its rolling history, and publish at
// most one signal per pair per cycle. It is the only writer to the
// history and signal stores.
type Scanner struct {
	cfg       *config.Config
	feed      drepo.MarketFeed
	history   drepo.HistoryStore
	store     drepo.SignalStore
	detectors *analytics.DetectorSet
	ranker    *analytics.Ranker
	ghost     GhostSource
	pipe      *mid.SignalPipeline
	metrics   drepo.Metrics
	log       *applogger.Logger

	mu        sync.RWMutex
	cycles    uint64
	lastCycle time.Time

	pairsScanned atomic.Uint64
}

// Status is a point-in-time snapshot of loop progress for health checks.
type Status struct {
	Cycles       uint64    `json:"cycles"`
	LastCycle    time.Time `json:"last_cycle"`
	PairsScanned uint64    `json:"pairs_scanned"`
	Signals      int       `json:"signals"`
}

func NewScanner(
	cfg *config.Config,
	feed drepo.MarketFeed,
	history drepo.HistoryStore,
	store drepo.SignalStore,
	detectors *analytics.DetectorSet,
	ranker *analytics.Ranker,
	ghost GhostSource,
	pipe *mid.SignalPipeline,
	metrics drepo.Metrics,
	log *applogger.Logger,
) *Scanner {
	return &Scanner{
		cfg:       cfg,
		feed:      feed,
		history:   history,
		store:     store,
		detectors: detectors,
		ranker:    ranker,
		ghost:     ghost,
		pipe:      pipe,
		metrics:   metrics,
		log:       log,
	}
}

// Run executes scan cycles until ctx is cancelled.
func (s *Scanner) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Scanner.PollInterval)
	defer ticker.Stop()

	for {
		s.ScanOnce(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Status reports loop progress.
func (s *Scanner) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Status{
		Cycles:       s.cycles,
		LastCycle:    s.lastCycle,
		PairsScanned: s.pairsScanned.Load(),
		Signals:      s.store.Len(),
	}
}

type pairJob struct {
	pair  string
	entry models.TickerEntry
}

// ScanOnce performs a single cycle. A failed summary fetch skips the
// cycle entirely; per-pair failures never abort the remaining pairs.
func (s *Scanner) ScanOnce(ctx context.Context) {
	start := time.Now()

	sums, err := s.feed.Summaries(ctx)
	if err != nil {
		s.metrics.RecordError("feed_fetch")
		s.log.Warn("summary fetch failed, skipping cycle", applogger.Error(err))
		return
	}
	if sums == nil || len(sums.Tickers) == 0 {
		s.log.Warn("summary payload empty, skipping cycle")
		return
	}

	suffix := s.cfg.Scanner.QuoteSuffix
	jobs := make(chan pairJob)
	var wg sync.WaitGroup
	for i := 0; i < s.cfg.Scanner.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				s.processPair(ctx, job.pair, job.entry)
			}
		}()
	}
	for pair, entry := range sums.Tickers {
		if !strings.HasSuffix(pair, suffix) {
			continue
		}
		jobs <- pairJob{pair: pair, entry: entry}
	}
	close(jobs)
	wg.Wait()

	elapsed := time.Since(start)
	s.metrics.RecordCycle(elapsed.Seconds())

	s.mu.Lock()
	s.cycles++
	s.lastCycle = time.Now()
	s.mu.Unlock()

	s.log.Debug("cycle complete",
		applogger.Duration("elapsed", elapsed),
		applogger.Int("stored_signals", s.store.Len()),
	)
}

func (s *Scanner) processPair(ctx context.Context, pair string, entry models.TickerEntry) {
	defer func() {
		if r := recover(); r != nil {
			s.metrics.RecordError("pair_panic")
			s.log.Error("pair processing panicked",
				applogger.String("pair", pair),
				applogger.Any("panic", r),
			)
		}
	}()

	sample, err := models.SampleFromTicker(entry)
	if err != nil {
		s.metrics.RecordError("parse")
		s.log.Debug("skipping malformed ticker", applogger.String("pair", pair), applogger.Error(err))
		return
	}
	if sample.VolIDR < s.cfg.Scanner.MinVolume {
		return
	}

	s.pairsScanned.Add(1)
	s.metrics.RecordPairScanned()
	s.metrics.RecordLastPrice(pair, sample.Last)

	// indicators consume the window as it stood before this observation,
	// so the current sample is compared against history, not against itself
	window := s.history.Snapshot(pair)
	prev, seeded := s.history.Previous(pair)
	s.history.Append(pair, sample)
	if !seeded {
		// first observation seeds history only
		return
	}

	ind := features.Compute(
		window,
		s.cfg.Indicators.RSIPeriod,
		s.cfg.Indicators.BandPeriod,
		s.cfg.Indicators.BandStdDev,
		s.cfg.Indicators.VolumeSMAPeriod,
	)

	cands := s.detectors.Detect(pair, sample, prev, ind)
	if len(cands) == 0 {
		return
	}

	// one book lookup per triggering pair, shared by every candidate
	ghost := s.ghost.Imbalance(ctx, pair)
	for i := range cands {
		cands[i].Ghost = ghost
	}

	best, priority, ok := s.ranker.Best(cands, sample, ind)
	if !ok {
		return
	}

	sig := &models.Signal{
		ID:         uuid.NewString(),
		Mode:       best.Mode,
		Pair:       best.Pair,
		Time:       util.ClockUTC(time.Now()),
		Entry:      best.Entry,
		TP:         best.TP,
		SL:         best.SL,
		Priority:   util.RoundTo(priority, 1),
		Ghost:      util.RoundTo(ghost, 1),
		News:       false,
		RSI:        util.RoundTo(ind.RSI, 1),
		Volatility: util.RoundTo(ind.BandWidth, 1),
	}

	s.store.Push(sig)
	s.metrics.RecordSignal(sig.Mode)
	if s.pipe != nil {
		s.pipe.Publish(sig)
	}

	s.log.Info("signal published",
		applogger.String("pair", sig.Pair),
		applogger.String("mode", sig.Mode),
		applogger.Float64("priority", sig.Priority),
		applogger.Float64("entry", sig.Entry),
	)
}
