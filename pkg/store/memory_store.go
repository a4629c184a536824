package store

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/forgectl/forge/pkg/types"
)

// Validate that MemoryStore implements the Store interface
var _ Store = &MemoryStore{}

// MemoryStore is an in-memory Store for tests. It round-trips through json so
// it behaves like the durable store with respect to copying.
type MemoryStore struct {
	mu   sync.RWMutex
	data []byte
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Open implements Store.
func (s *MemoryStore) Open(path string) error { return nil }

// Close implements Store.
func (s *MemoryStore) Close() error { return nil }

// GetState implements Store.
func (s *MemoryStore) GetState(ctx context.Context) (*types.State, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.data == nil {
		return nil, ErrNotFound
	}
	var state types.State
	if err := json.Unmarshal(s.data, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// SaveState implements Store.
func (s *MemoryStore) SaveState(ctx context.Context, state *types.State) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	state.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
	return nil
}
