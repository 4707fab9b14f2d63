//go:build wireinject
// +build wireinject

package di

import (
	"TradeFire/pkg/config"
	"TradeFire/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure
		ProvideCache,
		ProvideReportStore,
		ProvideReportPublisher,
		ProvideSubscriberRegistry,
		ProvideProfileStore,
		ProvideSenders,

		// Use cases
		ProvideDispatcher,
		ProvideAlertPipeline,
		ProvideKafkaSignalsHandler,

		// Transport
		ProvideAlertsHandler,
		ProvideHTTPServer,
		ProvideKafkaConsumer,

		ProvideApp,
	)
	return &server.App{}, nil
}
