package providers

import (
	"github.com/samber/do/v2"

	"github.com/stashitapp/stashit-server/internal/config"
	"github.com/stashitapp/stashit-server/internal/logger"
	"github.com/stashitapp/stashit-server/internal/query"
	"github.com/stashitapp/stashit-server/internal/service"
)

// ProvideItemService provides the item service.
func ProvideItemService(i do.Injector) (*service.ItemService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewItemService(storeHandle.Store, indexHandle.Index, log.Logger), nil
}

// ProvideTagService provides the tag service.
func ProvideTagService(i do.Injector) (*service.TagService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewTagService(storeHandle.Store, log.Logger), nil
}

// ProvideQueryEngine provides the listing and smart view query engine.
func ProvideQueryEngine(i do.Injector) (*query.Engine, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return query.NewEngine(query.Options{
		Store:             storeHandle.Store,
		Search:            indexHandle.Index,
		RecentlyAddedDays: cfg.Query.RecentlyAddedDays,
		Logger:            log.Logger,
	}), nil
}
