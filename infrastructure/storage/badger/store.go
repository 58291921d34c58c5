// Package badger provides a BadgerDB-backed run snapshot store, so an
// interrupted run's last-known-good state survives the process.
package badger

import (
	"context"
	"encoding/json"
	"errors"
	"sort"

	"github.com/dgraph-io/badger/v4"

	"github.com/felixgeelhaar/workflow-go/domain/workflow"
)

// keyPrefix namespaces run snapshots inside the database.
const keyPrefix = "run:"

// Store is a BadgerDB-backed implementation of workflow.Store.
type Store struct {
	db *badger.DB
}

// Config configures the store.
type Config struct {
	// Dir is the database directory. Required unless InMemory is set.
	Dir string

	// InMemory runs without a directory, for tests.
	InMemory bool
}

// NewStore opens the database and returns the store. Close must be called
// when the store is no longer needed.
func NewStore(cfg Config) (*Store, error) {
	opts := badger.DefaultOptions(cfg.Dir).WithLogger(nil)
	if cfg.InMemory {
		opts = opts.WithInMemory(true).WithDir("").WithValueDir("")
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// NewStoreFromDB wraps an existing database.
func NewStoreFromDB(db *badger.DB) *Store {
	return &Store{db: db}
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func runKey(runID string) []byte {
	return []byte(keyPrefix + runID)
}

// Save stores or overwrites the snapshot for a run.
func (s *Store) Save(ctx context.Context, runID string, state *workflow.State) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if runID == "" {
		return workflow.ErrInvalidRunID
	}

	data, err := json.Marshal(state)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(runKey(runID), data)
	})
}

// Load retrieves the latest snapshot for a run.
func (s *Store) Load(ctx context.Context, runID string) (*workflow.State, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if runID == "" {
		return nil, workflow.ErrInvalidRunID
	}

	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(runKey(runID))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, workflow.ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}

	var state workflow.State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// List returns all known run IDs in lexical order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var ids []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(keyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			ids = append(ids, string(it.Item().Key()[len(prefix):]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(ids)
	return ids, nil
}

// Delete removes the snapshot for a run.
func (s *Store) Delete(ctx context.Context, runID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if runID == "" {
		return workflow.ErrInvalidRunID
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(runKey(runID)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return workflow.ErrRunNotFound
			}
			return err
		}
		return txn.Delete(runKey(runID))
	})
}
