//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"StockTiming/pkg/config"
	"StockTiming/pkg/server"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideCache,
		ProvideStores,
		ProvideClickHouseClient,
		ProvideKafkaProducer,

		// Quote sources and advisor
		ProvideQuoteSource,
		ProvideSyntheticSource,
		ProvideAdvisor,

		// Repositories and publishers
		ProvideSignalArchive,
		ProvideHub,
		ProvidePublishers,
		ProvideTransport,

		// Use cases
		ProvideRegistry,
		ProvideHistory,
		ProvideScorer,
		ProvideDispatcher,
		ProvideGates,
		ProvideMonitor,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
