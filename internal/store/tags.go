package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/stashitapp/stashit-server/internal/domain"
	apperrors "github.com/stashitapp/stashit-server/internal/errors"
	"github.com/stashitapp/stashit-server/internal/id"
)

// Key prefixes for tag storage.
// The trimmed name (case-sensitive) is the tag's natural identity.
const (
	tagPrefix       = "tag:"            // tag:{id} → Tag JSON
	tagByNamePrefix = "idx:tags:name:"  // idx:tags:name:{name} → tagID
	tagItemsPrefix  = "idx:tags:items:" // idx:tags:items:{tagID}:{itemID} → empty
	itemTagsPrefix  = "idx:items:tags:" // idx:items:tags:{itemID}:{tagID} → empty
)

// ErrTagNotFound is returned when no tag matches a lookup.
var ErrTagNotFound = errors.New("tag not found")

// GetTagByID retrieves a tag by ID.
func (s *Store) GetTagByID(ctx context.Context, tagID string) (*domain.Tag, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var t domain.Tag
	err := s.db.View(func(txn *badger.Txn) error {
		return getInTxn(txn, []byte(tagPrefix+tagID), &t)
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, apperrors.Wrap(err, apperrors.CodeStorage, "get tag")
	}
	return &t, nil
}

// GetTagByName retrieves a tag by its exact name.
func (s *Store) GetTagByName(ctx context.Context, name string) (*domain.Tag, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var tagID string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(tagByNamePrefix + name))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			tagID = string(val)
			return nil
		})
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, apperrors.Wrap(err, apperrors.CodeStorage, "get tag by name")
	}

	return s.GetTagByID(ctx, tagID)
}

// ListTags returns all tags ordered by name.
func (s *Store) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := []byte(tagPrefix)
	var tags []*domain.Tag

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchSize = 100

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var t domain.Tag
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &t)
			})
			if err != nil {
				continue
			}
			tags = append(tags, &t)
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeStorage, "list tags")
	}

	sort.Slice(tags, func(i, j int) bool {
		return tags[i].Name < tags[j].Name
	})
	return tags, nil
}

// GetTagsForItem returns all tags on an item, ordered by name.
func (s *Store) GetTagsForItem(ctx context.Context, itemID string) ([]*domain.Tag, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var tagIDs []string
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		tagIDs, err = tagIDsForItemInTxn(txn, itemID)
		return err
	})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeStorage, "get tags for item")
	}

	tags := make([]*domain.Tag, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		t, err := s.GetTagByID(ctx, tagID)
		if err != nil {
			continue // Skip dangling index entries.
		}
		tags = append(tags, t)
	}

	sort.Slice(tags, func(i, j int) bool {
		return tags[i].Name < tags[j].Name
	})
	return tags, nil
}

// GetItemIDsForTag returns all item IDs carrying the tag with the given name.
func (s *Store) GetItemIDsForTag(ctx context.Context, name string) ([]string, error) {
	t, err := s.GetTagByName(ctx, name)
	if err != nil {
		return nil, err
	}

	prefix := tagItemsPrefix + t.ID + ":"
	var itemIDs []string

	err = s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
			key := string(it.Item().Key())
			itemIDs = append(itemIDs, strings.TrimPrefix(key, prefix))
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeStorage, "get items for tag")
	}
	return itemIDs, nil
}

// ReconcileItemTags brings the tag graph in line with the desired tag names
// for an item: names not yet associated are attached (creating tags as
// needed), associations no longer desired are detached, and tags left with an
// empty reference set are deleted - all in one transaction.
//
// Names must already be trimmed and non-empty; the service layer validates
// raw input before calling this.
func (s *Store) ReconcileItemTags(ctx context.Context, itemID string, desired []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		currentIDs, err := tagIDsForItemInTxn(txn, itemID)
		if err != nil {
			return err
		}

		// Map current tag IDs to names.
		currentByName := make(map[string]string, len(currentIDs)) // name → tagID
		for _, tagID := range currentIDs {
			var t domain.Tag
			if err := getInTxn(txn, []byte(tagPrefix+tagID), &t); err != nil {
				if errors.Is(err, badger.ErrKeyNotFound) {
					continue
				}
				return err
			}
			currentByName[t.Name] = tagID
		}

		wanted := make(map[string]bool, len(desired))
		for _, name := range desired {
			wanted[name] = true
		}

		// Attach missing associations.
		for _, name := range desired {
			if _, ok := currentByName[name]; ok {
				continue
			}
			tagID, err := s.findOrCreateTagInTxn(txn, name)
			if err != nil {
				return err
			}
			if err := s.addTagToItemInTxn(txn, itemID, tagID); err != nil {
				return err
			}
		}

		// Detach associations no longer desired, reclaiming orphans.
		for name, tagID := range currentByName {
			if wanted[name] {
				continue
			}
			if err := s.removeTagFromItemInTxn(txn, itemID, tagID); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeStorage, "reconcile item tags")
	}
	return nil
}

// findOrCreateTagInTxn resolves a name to an existing tag ID or creates a new tag.
func (s *Store) findOrCreateTagInTxn(txn *badger.Txn, name string) (string, error) {
	nameKey := []byte(tagByNamePrefix + name)

	item, err := txn.Get(nameKey)
	if err == nil {
		var tagID string
		err := item.Value(func(val []byte) error {
			tagID = string(val)
			return nil
		})
		return tagID, err
	}
	if !errors.Is(err, badger.ErrKeyNotFound) {
		return "", err
	}

	tagID, err := id.Generate("tag")
	if err != nil {
		return "", err
	}

	now := time.Now()
	t := &domain.Tag{
		ID:        tagID,
		Name:      name,
		ItemCount: 0,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := setInTxn(txn, []byte(tagPrefix+tagID), t); err != nil {
		return "", err
	}
	if err := txn.Set(nameKey, []byte(tagID)); err != nil {
		return "", err
	}
	return tagID, nil
}

// addTagToItemInTxn creates both association index entries and increments the
// tag's item count. Idempotent.
func (s *Store) addTagToItemInTxn(txn *badger.Txn, itemID, tagID string) error {
	tiKey := []byte(tagItemsPrefix + tagID + ":" + itemID)
	if _, err := txn.Get(tiKey); err == nil {
		return nil // Already associated.
	} else if !errors.Is(err, badger.ErrKeyNotFound) {
		return err
	}

	if err := txn.Set(tiKey, []byte{}); err != nil {
		return err
	}
	if err := txn.Set([]byte(itemTagsPrefix+itemID+":"+tagID), []byte{}); err != nil {
		return err
	}
	return s.updateTagItemCountInTxn(txn, tagID, 1)
}

// removeTagFromItemInTxn deletes both association index entries, decrements
// the tag's item count, and deletes the tag entirely when no references
// remain. Idempotent.
func (s *Store) removeTagFromItemInTxn(txn *badger.Txn, itemID, tagID string) error {
	tiKey := []byte(tagItemsPrefix + tagID + ":" + itemID)
	if _, err := txn.Get(tiKey); errors.Is(err, badger.ErrKeyNotFound) {
		return nil // Not associated.
	} else if err != nil {
		return err
	}

	if err := txn.Delete(tiKey); err != nil {
		return err
	}
	if err := txn.Delete([]byte(itemTagsPrefix + itemID + ":" + tagID)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
		return err
	}
	return s.updateTagItemCountInTxn(txn, tagID, -1)
}

// updateTagItemCountInTxn adjusts a tag's reference count. A tag whose count
// reaches zero is reclaimed immediately: unused tags must not pollute the
// tag list.
func (s *Store) updateTagItemCountInTxn(txn *badger.Txn, tagID string, delta int) error {
	key := []byte(tagPrefix + tagID)

	var t domain.Tag
	if err := getInTxn(txn, key, &t); err != nil {
		return err
	}

	t.ItemCount += delta
	if t.ItemCount <= 0 {
		if err := txn.Delete(key); err != nil {
			return err
		}
		if err := txn.Delete([]byte(tagByNamePrefix + t.Name)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return nil
	}

	t.Touch()
	return setInTxn(txn, key, &t)
}

// tagIDsForItemInTxn lists the tag IDs associated with an item.
func tagIDsForItemInTxn(txn *badger.Txn, itemID string) ([]string, error) {
	prefix := itemTagsPrefix + itemID + ":"

	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefix)
	opts.PrefetchValues = false

	it := txn.NewIterator(opts)
	defer it.Close()

	var tagIDs []string
	for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
		key := string(it.Item().Key())
		tagIDs = append(tagIDs, strings.TrimPrefix(key, prefix))
	}
	return tagIDs, nil
}
