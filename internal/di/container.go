// Package di provides dependency injection configuration for the Clockwork server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/clockworkapp/clockwork-server/internal/auth"
	"github.com/clockworkapp/clockwork-server/internal/config"
	"github.com/clockworkapp/clockwork-server/internal/di/providers"
	"github.com/clockworkapp/clockwork-server/internal/logger"
	"github.com/clockworkapp/clockwork-server/internal/service"
	"github.com/clockworkapp/clockwork-server/internal/validation"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)
	do.Provide(injector, providers.ProvideValidator)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)

	// Business services
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideTimerService)
	do.Provide(injector, providers.ProvideRecordService)
	do.Provide(injector, providers.ProvideStatsService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle
// management. This triggers lazy initialization of everything the server
// needs to answer requests.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[providers.AuthKey](injector)
	_ = do.MustInvoke[*validation.Validator](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)

	_ = do.MustInvoke[*service.AuthService](injector)
	_ = do.MustInvoke[*service.TimerService](injector)
	_ = do.MustInvoke[*service.RecordService](injector)
	_ = do.MustInvoke[*service.StatsService](injector)

	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
