package service

import (
	"context"
	"log/slog"
	"slices"

	"github.com/stashitapp/stashit-server/internal/domain"
	apperrors "github.com/stashitapp/stashit-server/internal/errors"
	"github.com/stashitapp/stashit-server/internal/store"
)

// TagService exposes read access to tags. Tag creation and deletion happen
// implicitly through item saves, so there are no tag mutations here.
type TagService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewTagService creates a new tag service.
func NewTagService(store *store.Store, logger *slog.Logger) *TagService {
	return &TagService{store: store, logger: logger}
}

// ListTags returns all tags sorted by name.
func (s *TagService) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	return s.store.ListTags(ctx)
}

// ItemsForTag returns the items carrying the named tag, in store order.
// An unknown tag name yields a not-found error.
func (s *TagService) ItemsForTag(ctx context.Context, name string) ([]*domain.Item, error) {
	ids, err := s.store.GetItemIDsForTag(ctx, name)
	if err != nil {
		return nil, err
	}

	items := make([]*domain.Item, 0, len(ids))
	for _, itemID := range ids {
		item, err := s.store.GetItem(ctx, itemID)
		if err != nil {
			if apperrors.Is(err, store.ErrItemNotFound) {
				// Index entry outlived the item; skip rather than fail the
				// whole listing.
				s.logger.Warn("tag index references missing item", "tag", name, "item_id", itemID)
				continue
			}
			return nil, err
		}
		items = append(items, item)
	}

	slices.SortStableFunc(items, func(a, b *domain.Item) int {
		switch {
		case a.Seq < b.Seq:
			return -1
		case a.Seq > b.Seq:
			return 1
		default:
			return 0
		}
	})
	return items, nil
}
