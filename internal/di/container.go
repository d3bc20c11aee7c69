// Package di provides dependency injection configuration for the cellar server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/cellarapp/cellar-server/internal/auth"
	"github.com/cellarapp/cellar-server/internal/config"
	"github.com/cellarapp/cellar-server/internal/di/providers"
	"github.com/cellarapp/cellar-server/internal/logger"
	"github.com/cellarapp/cellar-server/internal/media/labels"
	"github.com/cellarapp/cellar-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Storage layer
	do.Provide(injector, providers.ProvideLabelStorage)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)

	// Business services
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideShelfService)
	do.Provide(injector, providers.ProvideBottleService)
	do.Provide(injector, providers.ProvideHistoryService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services, triggering lazy initialization in
// dependency order.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[providers.AuthKey](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*labels.Storage](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)

	_ = do.MustInvoke[*service.AuthService](injector)
	_ = do.MustInvoke[*service.ShelfService](injector)
	_ = do.MustInvoke[*service.BottleService](injector)
	_ = do.MustInvoke[*service.HistoryService](injector)

	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
