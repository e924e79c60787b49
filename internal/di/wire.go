//go:build wireinject
// +build wireinject

package di

import (
	"PumpScan/pkg/config"
	"PumpScan/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideKafkaProducer,
		ProvideGhostCache,
		ProvideIndodaxClient,

		// Repositories
		ProvideMarketFeed,
		ProvideHistory,
		ProvideSignalStore,

		// Detection services
		ProvideDetectorSet,
		ProvideRanker,
		ProvideGhostFetcher,

		// Fan-out
		ProvideStreamHub,
		ProvidePipeline,

		// Use cases and surface
		ProvideScanner,
		ProvideHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
