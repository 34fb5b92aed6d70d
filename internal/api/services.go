package api

import (
	"github.com/stashitapp/stashit-server/internal/query"
	"github.com/stashitapp/stashit-server/internal/search"
	"github.com/stashitapp/stashit-server/internal/service"
	"github.com/stashitapp/stashit-server/internal/store"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Items *service.ItemService
	Tags  *service.TagService
	Query *query.Engine

	// Raw handles used only by the health endpoint.
	Store  *store.Store
	Search *search.Index
}
