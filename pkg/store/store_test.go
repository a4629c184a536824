package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgectl/forge/pkg/log"
	"github.com/forgectl/forge/pkg/types"
)

func testStores(t *testing.T) map[string]Store {
	t.Helper()

	badgerStore := NewBadgerStore(log.Nop())
	require.NoError(t, badgerStore.Open(t.TempDir()))
	t.Cleanup(func() { badgerStore.Close() })

	return map[string]Store{
		"badger": badgerStore,
		"memory": NewMemoryStore(),
	}
}

func TestStateRoundTrip(t *testing.T) {
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := s.GetState(ctx)
			assert.Equal(t, ErrNotFound, err)

			state := types.DefaultState()
			state.TLSEmail = "ops@acme.dev"
			state.Service(types.ServiceOllama).Enabled = true
			require.NoError(t, s.SaveState(ctx, state))
			assert.False(t, state.UpdatedAt.IsZero())

			loaded, err := s.GetState(ctx)
			require.NoError(t, err)
			assert.Equal(t, "ops@acme.dev", loaded.TLSEmail)
			assert.True(t, loaded.Service(types.ServiceOllama).Enabled)
			assert.Equal(t, state.RoutingMode, loaded.RoutingMode)
		})
	}
}

func TestSaveStateReplaces(t *testing.T) {
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			first := types.DefaultState()
			first.BaseDomain = "old.acme.dev"
			require.NoError(t, s.SaveState(ctx, first))

			second := types.DefaultState()
			second.BaseDomain = "new.acme.dev"
			require.NoError(t, s.SaveState(ctx, second))

			loaded, err := s.GetState(ctx)
			require.NoError(t, err)
			assert.Equal(t, "new.acme.dev", loaded.BaseDomain)
		})
	}
}

func TestStoreHonorsContext(t *testing.T) {
	s := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.GetState(ctx)
	assert.Error(t, err)
	assert.Error(t, s.SaveState(ctx, types.DefaultState()))
}

func TestLoadedStateIsACopy(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.SaveState(ctx, types.DefaultState()))

	first, err := s.GetState(ctx)
	require.NoError(t, err)
	first.Service(types.ServiceN8N).Enabled = false

	second, err := s.GetState(ctx)
	require.NoError(t, err)
	assert.True(t, second.Service(types.ServiceN8N).Enabled, "mutating a loaded state must not leak into the store")
}
