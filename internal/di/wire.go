//go:build wireinject
// +build wireinject

package di

import (
	"CurveScout/pkg/config"
	"CurveScout/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure
		ProvideSnapshotStore,
		ProvideRedisClient,
		ProvideCacheService,
		ProvideRunCache,
		ProvidePublisher,
		ProvideCommentator,

		// Engine
		ProvideGenerator,
		ProvideRunner,

		// Queue and HTTP
		ProvideQueue,
		ProvideDispatcher,
		ProvideHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
