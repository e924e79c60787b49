package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"PumpScan/internal/handler/api"
	mid "PumpScan/internal/middleware"
	"PumpScan/internal/usecase"
	"PumpScan/pkg/cache"
	"PumpScan/pkg/config"
	xhttp "PumpScan/pkg/http"
	pkgkafka "PumpScan/pkg/kafka"
	applogger "PumpScan/pkg/logger"
)

// App ties the scan loop, the fan-out pipeline, and the HTTP surface
// into one lifecycle: Run starts everything and blocks until a
// termination signal, then tears the pieces down in reverse order.
type App struct {
	cfg        *config.Config
	logger     *applogger.Logger
	scanner    *usecase.Scanner
	pipe       *mid.SignalPipeline
	handler    xhttp.Handler
	stream     *api.StreamHub
	producer   *pkgkafka.Producer
	ghostCache cache.Service
	httpServer *xhttp.Server
}

// New creates the application. producer, stream, and ghostCache may be
// nil when the matching feature is disabled.
func New(
	cfg *config.Config,
	logger *applogger.Logger,
	scanner *usecase.Scanner,
	pipe *mid.SignalPipeline,
	handler xhttp.Handler,
	stream *api.StreamHub,
	producer *pkgkafka.Producer,
	ghostCache cache.Service,
) *App {
	return &App{
		cfg:        cfg,
		logger:     logger,
		scanner:    scanner,
		pipe:       pipe,
		handler:    handler,
		stream:     stream,
		producer:   producer,
		ghostCache: ghostCache,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metricsPath := ""
	if a.cfg.Metrics.Enabled {
		metricsPath = a.cfg.Metrics.Path
	}
	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithMetricsPath(metricsPath),
		xhttp.WithMetricsLogger(a.logger),
	)

	a.pipe.Start(ctx)
	go a.scanner.Run(ctx)
	a.logger.Info("scanner started",
		applogger.Duration("poll_interval", a.cfg.Scanner.PollInterval),
		applogger.String("quote_suffix", a.cfg.Scanner.QuoteSuffix),
	)

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}
	a.logger.Info("http server started",
		applogger.Int("port", a.cfg.Server.Port),
		applogger.Bool("stream", a.cfg.Stream.Enabled),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	cancel()
	return a.shutdown()
}

func (a *App) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	a.pipe.Stop()
	if a.stream != nil {
		a.stream.Close()
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Warn("kafka producer close error", applogger.Error(err))
		}
	}
	if a.ghostCache != nil {
		if err := a.ghostCache.Close(); err != nil {
			a.logger.Warn("cache close error", applogger.Error(err))
		}
	}

	a.logger.RemoveCollector()
	a.logger.Info("shutdown complete")
	return nil
}
