// Package di provides dependency injection configuration for the StashIt server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/stashitapp/stashit-server/internal/config"
	"github.com/stashitapp/stashit-server/internal/di/providers"
	"github.com/stashitapp/stashit-server/internal/logger"
	"github.com/stashitapp/stashit-server/internal/query"
	"github.com/stashitapp/stashit-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Storage layer
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideSearchIndex)

	// Business services
	do.Provide(injector, providers.ProvideItemService)
	do.Provide(injector, providers.ProvideTagService)
	do.Provide(injector, providers.ProvideQueryEngine)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	// Invoke core services to trigger initialization
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)

	// Business services
	_ = do.MustInvoke[*service.ItemService](injector)
	_ = do.MustInvoke[*service.TagService](injector)
	_ = do.MustInvoke[*query.Engine](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	// Trigger search reindex if the index is empty but items exist
	providers.TriggerSearchReindexIfNeeded(injector)

	return nil
}
