//go:build wireinject
// +build wireinject

package di

import (
	"MacroBoard/pkg/config"
	"MacroBoard/pkg/server"

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
		ProvideHTTPClient,

		// Data sources
		ProvideSources,
		ProvideTTLs,

		// Use cases
		ProvideBoard,
		ProvideDashboard,
		ProvideRefresher,

		// HTTP surface
		ProvideStreamHub,
		ProvideHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
