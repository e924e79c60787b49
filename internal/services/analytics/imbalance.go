package analytics

import (
	"context"
	"errors"
	"time"

	"PumpScan/internal/domain/models"
	drepo "PumpScan/internal/domain/repository"
	"PumpScan/internal/service/ratelimit"
	"PumpScan/pkg/cache"
	applogger "PumpScan/pkg/logger"
	"PumpScan/pkg/util"
)

// ComputeImbalance expresses buy-side pressure from the top `levels`
// rows of each book side: (sumBid − sumAsk) / (sumBid + sumAsk) × 100,
// rounded to one decimal. An empty book or zero total volume yields 0.
func ComputeImbalance(depth *models.Depth, levels int) float64 {
	if depth == nil {
		return 0
	}

	sumSide := func(rows [][]models.FlexFloat) float64 {
		n := levels
		if n > len(rows) {
			n = len(rows)
		}
		sum := 0.0
		for _, row := range rows[:n] {
			if len(row) < 2 {
				continue
			}
			sum += float64(row[1])
		}
		return sum
	}

	bid := sumSide(depth.Buy)
	ask := sumSide(depth.Sell)
	total := bid + ask
	if total == 0 {
		return 0
	}
	return util.RoundTo((bid-ask)/total*100, 1)
}

// GhostFetcher resolves the order-book imbalance for a pair, at most
// once per cycle per pair: results are cached with a short TTL and the
// upstream depth endpoint is shielded by a token bucket. Every failure
// path degrades to 0 so detection never stalls on the book.
type GhostFetcher struct {
	source  drepo.OrderBookSource
	cache   cache.Service
	limiter *ratelimit.Limiter
	metrics drepo.Metrics
	log     *applogger.Logger

	levels int
	ttl    time.Duration
	rps    float64
}

func NewGhostFetcher(
	source drepo.OrderBookSource,
	c cache.Service,
	limiter *ratelimit.Limiter,
	metrics drepo.Metrics,
	log *applogger.Logger,
	levels int,
	ttl time.Duration,
	rps float64,
) *GhostFetcher {
	return &GhostFetcher{
		source:  source,
		cache:   c,
		limiter: limiter,
		metrics: metrics,
		log:     log,
		levels:  levels,
		ttl:     ttl,
		rps:     rps,
	}
}

// Imbalance returns the cached or freshly computed imbalance for pair.
func (g *GhostFetcher) Imbalance(ctx context.Context, pair string) float64 {
	key := cache.GenerateKey("ghost", pair)

	var cached float64
	if err := g.cache.Get(ctx, key, &cached); err == nil {
		return cached
	} else if !errors.Is(err, cache.ErrCacheMiss) && g.log != nil {
		g.log.Debug("ghost cache read failed", applogger.String("pair", pair), applogger.Error(err))
	}

	if !g.limiter.Allow("depth", g.rps, g.rps) {
		if g.metrics != nil {
			g.metrics.RecordError("depth_throttled")
		}
		return 0
	}

	start := time.Now()
	depth, err := g.source.Depth(ctx, pair)
	if g.metrics != nil {
		g.metrics.RecordLatency("depth", time.Since(start).Seconds())
	}
	if err != nil {
		if g.metrics != nil {
			g.metrics.RecordError("depth_fetch")
		}
		if g.log != nil {
			g.log.Warn("order book fetch failed", applogger.String("pair", pair), applogger.Error(err))
		}
		return 0
	}

	imb := ComputeImbalance(depth, g.levels)
	if err := g.cache.Set(ctx, key, imb, g.ttl); err != nil && g.log != nil {
		g.log.Debug("ghost cache write failed", applogger.String("pair", pair), applogger.Error(err))
	}
	return imb
}
