// Package store persists the declarative deployment state between runs.
package store

import (
	"context"
	"errors"

	"github.com/forgectl/forge/pkg/types"
)

// ErrNotFound is returned when no state has been saved yet.
var ErrNotFound = errors.New("state not found")

// Store persists the deployment state. Implementations must return a deep
// enough copy that callers can mutate the result freely.
type Store interface {
	// Open prepares the backing storage at the given path.
	Open(path string) error

	// Close releases the backing storage.
	Close() error

	// GetState loads the saved state, or ErrNotFound when none exists.
	GetState(ctx context.Context) (*types.State, error)

	// SaveState writes the state, replacing any previous one.
	SaveState(ctx context.Context, state *types.State) error
}
