package di

import (
	"fmt"
	"time"

	"PumpScan/internal/domain/repository"
	"PumpScan/internal/handler/api"
	mid "PumpScan/internal/middleware"
	internalrepo "PumpScan/internal/repository"
	"PumpScan/internal/service/indodax"
	"PumpScan/internal/service/ratelimit"
	"PumpScan/internal/services/analytics"
	"PumpScan/internal/usecase"
	"PumpScan/pkg/cache"
	"PumpScan/pkg/config"
	xhttp "PumpScan/pkg/http"
	pkgkafka "PumpScan/pkg/kafka"
	applogger "PumpScan/pkg/logger"
	"PumpScan/pkg/metrics"
	"PumpScan/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideKafkaProducer creates a Kafka producer, or nil when Kafka
// fan-out is disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideGhostCache creates the order-book imbalance cache backend.
func ProvideGhostCache(cfg *config.Config) (cache.Service, error) {
	switch cfg.OrderbookCache.Backend {
	case "redis":
		return cache.NewRedisCache(
			cache.WithRedisHost(cfg.OrderbookCache.Redis.Host),
			cache.WithRedisPort(cfg.OrderbookCache.Redis.Port),
			cache.WithRedisPassword(cfg.OrderbookCache.Redis.Password),
			cache.WithRedisDB(cfg.OrderbookCache.Redis.DB),
			cache.WithRedisPrefix(cfg.OrderbookCache.Redis.Prefix),
		)
	case "layered":
		rc, err := cache.NewRedisCache(
			cache.WithRedisHost(cfg.OrderbookCache.Redis.Host),
			cache.WithRedisPort(cfg.OrderbookCache.Redis.Port),
			cache.WithRedisPassword(cfg.OrderbookCache.Redis.Password),
			cache.WithRedisDB(cfg.OrderbookCache.Redis.DB),
			cache.WithRedisPrefix(cfg.OrderbookCache.Redis.Prefix),
		)
		if err != nil {
			return nil, err
		}
		return cache.NewLayeredCache(rc), nil
	default:
		return cache.NewMemoryCache(), nil
	}
}

// ProvideIndodaxClient creates the upstream market data client.
func ProvideIndodaxClient(cfg *config.Config, l *applogger.Logger) *indodax.Client {
	return indodax.New(
		cfg.Indodax.BaseURL,
		cfg.Indodax.UserAgent,
		cfg.Indodax.Timeout,
		cfg.Indodax.Retries,
		cfg.Indodax.RetryBackoff,
		l,
	)
}

// ProvideMarketFeed exposes the client as the summaries feed.
func ProvideMarketFeed(c *indodax.Client) repository.MarketFeed { return c }

// ProvideHistory creates the rolling per-pair history store.
func ProvideHistory(cfg *config.Config) repository.HistoryStore {
	return internalrepo.NewRollingHistory(cfg.Scanner.HistoryWindow)
}

// ProvideSignalStore creates the bounded signal store.
func ProvideSignalStore(cfg *config.Config) repository.SignalStore {
	return internalrepo.NewSignalLog(cfg.Scanner.MaxSignals)
}

// ProvideDetectorSet creates the detector set.
func ProvideDetectorSet(cfg *config.Config) *analytics.DetectorSet {
	return analytics.NewDetectorSet(cfg)
}

// ProvideRanker creates the candidate ranker.
func ProvideRanker(cfg *config.Config) *analytics.Ranker {
	return analytics.NewRanker(cfg.Scanner.PublishThreshold)
}

// ProvideGhostFetcher creates the cached, rate-limited imbalance source.
func ProvideGhostFetcher(
	client *indodax.Client,
	c cache.Service,
	m repository.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
) *analytics.GhostFetcher {
	return analytics.NewGhostFetcher(
		client,
		c,
		ratelimit.New(),
		m,
		l,
		cfg.Indodax.DepthLevels,
		cfg.OrderbookCache.TTL,
		cfg.Indodax.DepthRPS,
	)
}

// ProvideStreamHub creates the WebSocket broadcast hub, or nil when the
// live stream is disabled.
func ProvideStreamHub(cfg *config.Config, l *applogger.Logger) *api.StreamHub {
	if !cfg.Stream.Enabled {
		return nil
	}
	return api.NewStreamHub(l)
}

// ProvidePipeline assembles the fan-out pipeline from the enabled sinks.
func ProvidePipeline(
	cfg *config.Config,
	m repository.Metrics,
	l *applogger.Logger,
	producer *pkgkafka.Producer,
	stream *api.StreamHub,
) *mid.SignalPipeline {
	var sinks []mid.Sink
	if producer != nil {
		pub := internalrepo.NewKafkaSignalPublisher(producer, cfg.Kafka.Topic)
		sinks = append(sinks, mid.NewPublisherSink("kafka", pub))
	}
	if stream != nil {
		sinks = append(sinks, stream)
	}
	return mid.NewSignalPipeline(m, l, sinks, mid.WithBufferSize(cfg.Stream.BufferSize))
}

// ProvideScanner creates the scan loop use case.
func ProvideScanner(
	cfg *config.Config,
	feed repository.MarketFeed,
	history repository.HistoryStore,
	store repository.SignalStore,
	detectors *analytics.DetectorSet,
	ranker *analytics.Ranker,
	ghost *analytics.GhostFetcher,
	pipe *mid.SignalPipeline,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.Scanner {
	return usecase.NewScanner(cfg, feed, history, store, detectors, ranker, ghost, pipe, m, l)
}

// ProvideHandler creates the HTTP handler registering the query surface.
// Health reports the loop stalled after three missed poll intervals.
func ProvideHandler(
	cfg *config.Config,
	l *applogger.Logger,
	store repository.SignalStore,
	scanner *usecase.Scanner,
	stream *api.StreamHub,
) xhttp.Handler {
	return api.NewSignalsHandler(l, store, scanner, stream, 3*cfg.Scanner.PollInterval)
}

// ProvideApp creates the application server. When Kafka is enabled the
// log collector is attached so repeated warnings ship as aggregated
// batches instead of flooding the log topic.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	scanner *usecase.Scanner,
	pipe *mid.SignalPipeline,
	handler xhttp.Handler,
	stream *api.StreamHub,
	producer *pkgkafka.Producer,
	ghostCache cache.Service,
) *server.App {
	if producer != nil && cfg.Kafka.LogTopic != "" {
		l.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          cfg.Kafka.LogTopic,
			Publisher:      producer,
		})
		l.Info("log collector attached",
			applogger.String("topic", cfg.Kafka.LogTopic),
			applogger.Strings("brokers", cfg.Kafka.Brokers),
		)
	}
	return server.New(cfg, l, scanner, pipe, handler, stream, producer, ghostCache)
}
