// Package store persists items and tags in an embedded Badger database.
//
// Entities are JSON-encoded under key prefixes; relationships and lookups use
// secondary index keys (see items.go and tags.go). The store is the only
// writer of persisted state: queries read through it and never mutate.
package store

import (
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	apperrors "github.com/stashitapp/stashit-server/internal/errors"
)

// Store wraps a Badger database instance.
//
// All mutations run inside single Badger update transactions, so item state
// and tag index state change atomically: tag reclamation can never observe a
// half-deleted item.
type Store struct {
	db     *badger.DB
	seq    *badger.Sequence
	logger *slog.Logger
}

// seqKey names the persisted counter that assigns creation order to items.
const seqKey = "seq:items"

// New creates a new Store instance at the given database path.
func New(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Ensure writes are synced to disk to prevent corruption on crashes
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeStorage, "open badger db")
	}

	seq, err := db.GetSequence([]byte(seqKey), 64)
	if err != nil {
		_ = db.Close()
		return nil, apperrors.Wrap(err, apperrors.CodeStorage, "open item sequence")
	}

	store := &Store{
		db:     db,
		seq:    seq,
		logger: logger,
	}

	if logger != nil {
		logger.Info("badger database opened", "path", path)
	}

	return store, nil
}

// Close gracefully closes the database connection.
func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("closing database connection")
	}
	if err := s.seq.Release(); err != nil {
		return errors.Join(err, s.db.Close())
	}
	return s.db.Close()
}

// nextSeq allocates the next creation-order number.
func (s *Store) nextSeq() (uint64, error) {
	n, err := s.seq.Next()
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.CodeStorage, "allocate sequence number")
	}
	return n, nil
}

// Helper methods for database operations.

// getInTxn reads and decodes a JSON value within an existing transaction.
func getInTxn(txn *badger.Txn, key []byte, dest any) error {
	item, err := txn.Get(key)
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, dest)
	})
}

// setInTxn encodes and stores a JSON value within an existing transaction.
func setInTxn(txn *badger.Txn, key []byte, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal value: %w", err)
	}
	return txn.Set(key, data)
}

// exists checks if a key exists.
func (s *Store) exists(key []byte) (bool, error) {
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		return err
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
