package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"log/slog"
	"sort"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/stashitapp/stashit-server/internal/domain"
	apperrors "github.com/stashitapp/stashit-server/internal/errors"
)

// Key prefixes for item storage.
const (
	itemPrefix           = "item:"               // item:{id} → Item JSON
	itemByCategoryPrefix = "idx:items:category:" // idx:items:category:{category}:{itemID} → empty
)

// Item errors.
var (
	ErrItemNotFound = errors.New("item not found")
	ErrItemExists   = errors.New("item already exists")
)

// CreateItem persists a new item and assigns its creation-order sequence
// number. The item's ID must already be set.
func (s *Store) CreateItem(ctx context.Context, item *domain.Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := []byte(itemPrefix + item.ID)

	exists, err := s.exists(key)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeStorage, "check item exists")
	}
	if exists {
		return ErrItemExists
	}

	seq, err := s.nextSeq()
	if err != nil {
		return err
	}
	item.Seq = seq
	item.EnsureMaps()

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := setInTxn(txn, key, item); err != nil {
			return err
		}
		return txn.Set(categoryIndexKey(item.Category, item.ID), []byte{})
	})
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeStorage, "create item")
	}

	if s.logger != nil {
		s.logger.LogAttrs(ctx, slog.LevelInfo, "item created",
			slog.String("id", item.ID),
			slog.String("title", item.Title),
			slog.String("category", item.Category.String()),
		)
	}
	return nil
}

// GetItem retrieves an item by ID.
func (s *Store) GetItem(ctx context.Context, id string) (*domain.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var item domain.Item
	err := s.db.View(func(txn *badger.Txn) error {
		return getInTxn(txn, []byte(itemPrefix+id), &item)
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, apperrors.Wrap(err, apperrors.CodeStorage, "get item")
	}

	item.EnsureMaps()
	return &item, nil
}

// UpdateItem persists in-place mutations to an existing item, moving the
// category index entry when the category changed. Updating an item that is
// no longer in the store is a no-op, supporting idempotent retry.
func (s *Store) UpdateItem(ctx context.Context, item *domain.Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := []byte(itemPrefix + item.ID)

	err := s.db.Update(func(txn *badger.Txn) error {
		var old domain.Item
		err := getInTxn(txn, key, &old)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil // Already gone, nothing to update.
		}
		if err != nil {
			return err
		}

		// DateAdded and Seq are immutable after creation.
		item.DateAdded = old.DateAdded
		item.Seq = old.Seq
		item.Touch()

		if old.Category != item.Category {
			if err := txn.Delete(categoryIndexKey(old.Category, item.ID)); err != nil {
				return err
			}
			if err := txn.Set(categoryIndexKey(item.Category, item.ID), []byte{}); err != nil {
				return err
			}
		}

		return setInTxn(txn, key, item)
	})
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeStorage, "update item")
	}
	return nil
}

// DeleteItem removes an item, its category index entry, and every tag
// association it held. Tags whose reference set becomes empty are deleted in
// the same transaction. Deleting an already-deleted item is a no-op.
func (s *Store) DeleteItem(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		key := []byte(itemPrefix + id)

		var item domain.Item
		err := getInTxn(txn, key, &item)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil // Idempotent.
		}
		if err != nil {
			return err
		}

		if err := txn.Delete(key); err != nil {
			return err
		}
		if err := txn.Delete(categoryIndexKey(item.Category, id)); err != nil {
			return err
		}

		// Detach from every tag; reclaim tags this item was the last owner of.
		tagIDs, err := tagIDsForItemInTxn(txn, id)
		if err != nil {
			return err
		}
		for _, tagID := range tagIDs {
			if err := s.removeTagFromItemInTxn(txn, id, tagID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeStorage, "delete item")
	}

	if s.logger != nil {
		s.logger.LogAttrs(ctx, slog.LevelInfo, "item deleted", slog.String("id", id))
	}
	return nil
}

// ListItems returns all items in store order (creation order).
func (s *Store) ListItems(ctx context.Context) ([]*domain.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := []byte(itemPrefix)
	var items []*domain.Item

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchSize = 100

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var item domain.Item
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &item)
			})
			if err != nil {
				continue
			}
			item.EnsureMaps()
			items = append(items, &item)
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeStorage, "list items")
	}

	sortByStoreOrder(items)
	return items, nil
}

// ListItemsByCategory returns all items with the given category in store order.
func (s *Store) ListItemsByCategory(ctx context.Context, category domain.Category) ([]*domain.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := []byte(itemByCategoryPrefix + category.String() + ":")
	var ids []string

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := string(it.Item().Key())
			ids = append(ids, strings.TrimPrefix(key, string(prefix)))
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeStorage, "list items by category")
	}

	items := make([]*domain.Item, 0, len(ids))
	for _, id := range ids {
		item, err := s.GetItem(ctx, id)
		if err != nil {
			continue // Skip dangling index entries.
		}
		items = append(items, item)
	}

	sortByStoreOrder(items)
	return items, nil
}

// categoryIndexKey builds the category index key for an item.
func categoryIndexKey(category domain.Category, itemID string) []byte {
	return []byte(itemByCategoryPrefix + category.String() + ":" + itemID)
}

// sortByStoreOrder sorts items by creation order. Badger iterates keys
// lexicographically by random ID, so store order must be restored explicitly.
func sortByStoreOrder(items []*domain.Item) {
	sort.Slice(items, func(i, j int) bool {
		return items[i].Seq < items[j].Seq
	})
}
