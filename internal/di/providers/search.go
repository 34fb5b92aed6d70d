package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/stashitapp/stashit-server/internal/config"
	"github.com/stashitapp/stashit-server/internal/logger"
	"github.com/stashitapp/stashit-server/internal/search"
	"github.com/stashitapp/stashit-server/internal/service"
)

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.Index
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the Bleve search index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.NewIndex(search.Options{
		DataPath: cfg.Storage.DataPath,
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}

	docCount, _ := index.DocCount()
	log.Info("Search index initialized", "documents", docCount)

	return &SearchIndexHandle{Index: index}, nil
}

// TriggerSearchReindexIfNeeded rebuilds the search index when it is empty
// but the store holds items. Should be called after all services are wired.
func TriggerSearchReindexIfNeeded(i do.Injector) {
	itemService := do.MustInvoke[*service.ItemService](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	docCount, _ := indexHandle.DocCount()
	if docCount > 0 {
		return
	}

	ctx := context.Background()
	items, err := storeHandle.ListItems(ctx)
	if err != nil || len(items) == 0 {
		return
	}

	log.Info("Search index is empty but items exist, triggering initial reindex",
		"item_count", len(items),
	)

	go func() {
		reindexCtx := context.Background()
		if err := itemService.ReindexAll(reindexCtx); err != nil {
			log.Error("Initial search reindex failed", "error", err)
		} else {
			count, _ := indexHandle.DocCount()
			log.Info("Initial search reindex completed", "documents", count)
		}
	}()
}
