// Package service provides the business logic layer over the item store:
// validation, ID allocation, tag reconciliation, and search index upkeep.
package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/stashitapp/stashit-server/internal/domain"
	apperrors "github.com/stashitapp/stashit-server/internal/errors"
	"github.com/stashitapp/stashit-server/internal/id"
	"github.com/stashitapp/stashit-server/internal/search"
	"github.com/stashitapp/stashit-server/internal/store"
	"github.com/stashitapp/stashit-server/internal/validation"
)

// ItemService orchestrates item mutations. All writes go through here so the
// search index stays in step with the store.
type ItemService struct {
	store     *store.Store
	search    *search.Index
	validator *validation.Validator
	logger    *slog.Logger
}

// NewItemService creates a new item service.
func NewItemService(store *store.Store, search *search.Index, logger *slog.Logger) *ItemService {
	return &ItemService{
		store:     store,
		search:    search,
		validator: validation.New(),
		logger:    logger,
	}
}

// CreateItemInput holds the caller-supplied fields for a new item.
type CreateItemInput struct {
	Title     string          `json:"title" validate:"required,max=500"`
	Category  domain.Category `json:"category" validate:"required,category"`
	SourceURL string          `json:"source_url" validate:"omitempty,url"`
	ImageURL  string          `json:"image_url" validate:"omitempty,url"`
	Notes     string          `json:"notes"`
	Tags      []string        `json:"tags"`
}

// UpdateItemInput holds the editable fields of an item. Nil pointers leave
// the field unchanged; Tags nil leaves tag associations unchanged.
type UpdateItemInput struct {
	Title     *string          `json:"title" validate:"omitempty,max=500"`
	Category  *domain.Category `json:"category" validate:"omitempty,category"`
	SourceURL *string          `json:"source_url" validate:"omitempty,url"`
	ImageURL  *string          `json:"image_url" validate:"omitempty,url"`
	Notes     *string          `json:"notes"`
	Tags      []string         `json:"tags"`
}

// CreateItem validates the input, persists the item, attaches its tags, and
// indexes it for search.
func (s *ItemService) CreateItem(ctx context.Context, input CreateItemInput) (*domain.Item, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.Validation("title must not be empty")
	}
	tags, err := normalizeTagNames(input.Tags)
	if err != nil {
		return nil, err
	}

	item := domain.NewItem(title, input.Category, strings.TrimSpace(input.SourceURL))
	item.ImageURL = strings.TrimSpace(input.ImageURL)
	item.Notes = input.Notes

	itemID, err := id.Generate("item")
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "generate item id")
	}
	item.ID = itemID

	item.SetTags(tags)

	if err := s.store.CreateItem(ctx, item); err != nil {
		return nil, err
	}
	if len(tags) > 0 {
		if err := s.store.ReconcileItemTags(ctx, item.ID, tags); err != nil {
			return nil, err
		}
	}

	s.indexItem(item)

	s.logger.Info("item created",
		"id", item.ID,
		"title", item.Title,
		"category", item.Category,
	)
	return item, nil
}

// GetItem fetches a single item by ID.
func (s *ItemService) GetItem(ctx context.Context, itemID string) (*domain.Item, error) {
	return s.store.GetItem(ctx, itemID)
}

// ListItems returns all items in store order.
func (s *ItemService) ListItems(ctx context.Context) ([]*domain.Item, error) {
	return s.store.ListItems(ctx)
}

// UpdateItem applies the given edits to an item. Updating an item that does
// not exist is a no-op and returns (nil, nil).
func (s *ItemService) UpdateItem(ctx context.Context, itemID string, input UpdateItemInput) (*domain.Item, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	item, err := s.store.GetItem(ctx, itemID)
	if err != nil {
		if apperrors.Is(err, store.ErrItemNotFound) {
			s.logger.Debug("update for missing item ignored", "id", itemID)
			return nil, nil
		}
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, apperrors.Validation("title must not be empty")
		}
		item.Title = title
	}
	if input.Category != nil {
		item.Category = *input.Category
	}
	if input.SourceURL != nil {
		item.SourceURL = strings.TrimSpace(*input.SourceURL)
	}
	if input.ImageURL != nil {
		item.ImageURL = strings.TrimSpace(*input.ImageURL)
	}
	if input.Notes != nil {
		item.Notes = *input.Notes
	}

	var tags []string
	if input.Tags != nil {
		tags, err = normalizeTagNames(input.Tags)
		if err != nil {
			return nil, err
		}
		if err := s.store.ReconcileItemTags(ctx, item.ID, tags); err != nil {
			return nil, err
		}
		item.SetTags(tags)
	}

	if err := s.store.UpdateItem(ctx, item); err != nil {
		return nil, err
	}

	s.indexItem(item)

	s.logger.Info("item updated", "id", item.ID, "title", item.Title)
	return item, nil
}

// DeleteItem removes an item, its tag associations, and its search document.
// Deleting a missing item is a no-op.
func (s *ItemService) DeleteItem(ctx context.Context, itemID string) error {
	if err := s.store.DeleteItem(ctx, itemID); err != nil {
		return err
	}
	if err := s.search.DeleteDocument(itemID); err != nil {
		// The store is the source of truth; a stale search document only
		// surfaces until the next reindex.
		s.logger.Warn("failed to remove item from search index", "id", itemID, "error", err)
	}
	return nil
}

// ToggleFlag flips one of the item's flags, treating an absent key as false.
func (s *ItemService) ToggleFlag(ctx context.Context, itemID, key string) (*domain.Item, error) {
	if strings.TrimSpace(key) == "" {
		return nil, apperrors.Validation("flag key must not be empty")
	}
	item, err := s.store.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	item.ToggleFlag(key)
	if err := s.store.UpdateItem(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("flag toggled",
		"id", item.ID,
		"key", key,
		"value", item.Flag(key),
	)
	return item, nil
}

// ToggleFavorite flips the item's favorite marker.
func (s *ItemService) ToggleFavorite(ctx context.Context, itemID string) (*domain.Item, error) {
	item, err := s.store.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	item.IsFavorite = !item.IsFavorite
	if err := s.store.UpdateItem(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("favorite toggled", "id", item.ID, "favorite", item.IsFavorite)
	return item, nil
}

// SetRating stores a rating value under the given metadata key.
func (s *ItemService) SetRating(ctx context.Context, itemID, key string, value int) (*domain.Item, error) {
	if key == "" {
		key = domain.FlagRating
	}
	if value < 0 || value > 5 {
		return nil, apperrors.Validationf("rating must be between 0 and 5, got %d", value)
	}

	item, err := s.store.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	item.SetRating(key, value)
	if err := s.store.UpdateItem(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("rating set", "id", item.ID, "key", key, "value", value)
	return item, nil
}

// ReindexAll rebuilds the search index from the store. Used at startup when
// the index was recreated and on demand.
func (s *ItemService) ReindexAll(ctx context.Context) error {
	s.logger.Info("starting full reindex")

	if err := s.search.Rebuild(); err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternal, "rebuild index")
	}

	items, err := s.store.ListItems(ctx)
	if err != nil {
		return err
	}

	docs := make([]*search.Document, 0, len(items))
	for _, item := range items {
		docs = append(docs, search.DocumentFromItem(item))
	}
	if len(docs) > 0 {
		if err := s.search.IndexDocuments(docs); err != nil {
			return apperrors.Wrap(err, apperrors.CodeInternal, "index items")
		}
	}

	s.logger.Info("reindex complete", "count", len(docs))
	return nil
}

// indexItem keeps the search document in step with a persisted item.
func (s *ItemService) indexItem(item *domain.Item) {
	if err := s.search.IndexDocument(search.DocumentFromItem(item)); err != nil {
		s.logger.Warn("failed to index item", "id", item.ID, "error", err)
	}
}

// normalizeTagNames trims each name and rejects names that trim to nothing.
// Order is preserved; de-duplication happens in the store reconciliation.
func normalizeTagNames(names []string) ([]string, error) {
	out := make([]string, 0, len(names))
	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			return nil, apperrors.Validation("tag names must not be empty")
		}
		out = append(out, trimmed)
	}
	return out, nil
}
