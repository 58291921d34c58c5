// Package memory provides an in-memory run snapshot store.
package memory

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/felixgeelhaar/workflow-go/domain/workflow"
)

// Store is an in-memory implementation of workflow.Store. Snapshots are
// stored as serialized bytes so callers never share backing arrays with the
// store.
type Store struct {
	runs map[string][]byte
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{runs: make(map[string][]byte)}
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

	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[runID] = data
	return nil
}

// Load retrieves the latest snapshot for a run.
func (s *Store) Load(ctx context.Context, runID string) (*workflow.State, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if runID == "" {
		return nil, workflow.ErrInvalidRunID
	}

	s.mu.RLock()
	data, ok := s.runs[runID]
	s.mu.RUnlock()
	if !ok {
		return nil, workflow.ErrRunNotFound
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

	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.runs))
	for id := range s.runs {
		ids = append(ids, id)
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

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.runs[runID]; !ok {
		return workflow.ErrRunNotFound
	}
	delete(s.runs, runID)
	return nil
}
