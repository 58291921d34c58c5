package workflow

import (
	"context"
	"errors"
)

// Store errors.
var (
	// ErrRunNotFound indicates no snapshot exists for the run ID.
	ErrRunNotFound = errors.New("run not found")

	// ErrInvalidRunID indicates the run ID is empty or invalid.
	ErrInvalidRunID = errors.New("invalid run ID")
)

// Store persists run snapshots keyed by run ID. The loop driver saves the
// last-known-good state after every accepted turn; the engine itself owns no
// durable state.
type Store interface {
	// Save stores or overwrites the snapshot for a run.
	Save(ctx context.Context, runID string, state *State) error

	// Load retrieves the latest snapshot for a run.
	Load(ctx context.Context, runID string) (*State, error)

	// List returns all known run IDs in lexical order.
	List(ctx context.Context) ([]string, error)

	// Delete removes the snapshot for a run.
	Delete(ctx context.Context, runID string) error
}
