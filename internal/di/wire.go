//go:build wireinject
// +build wireinject

package di

import (
	"Hikari/internal/usecase"
	"Hikari/pkg/config"
	"Hikari/pkg/server"

	"github.com/google/wire"
)

var observabilitySet = wire.NewSet(
	ProvideLogger,
	ProvideRegistry,
	ProvideMetrics,
)

var dashboardSet = wire.NewSet(
	ProvideSnapshotSource,
	ProvideEventPublisher,
	ProvideDashboardLoader,
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		observabilitySet,
		dashboardSet,

		// Infrastructure clients
		ProvideCache,
		ProvideHoldingsBackend,

		// Use cases
		ProvideStore,
		ProvideFetcher,
		ProvideScheduler,
		ProvideHoldingsSync,

		// Application server
		ProvideHTTPServer,
		ProvideApp,
	)
	return &server.App{}, nil
}

// InitializeDashboard wires the dashboard loader alone for the terminal and
// snapshot commands.
func InitializeDashboard(cfg *config.Config) (*usecase.DashboardLoader, error) {
	wire.Build(
		observabilitySet,
		dashboardSet,
	)
	return &usecase.DashboardLoader{}, nil
}
