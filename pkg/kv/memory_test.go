package kv_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flaggly/flaggly/pkg/kv"
)

func TestMemoryVersioning(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := kv.NewMemory()

	t.Run("missing key", func(t *testing.T) {
		_, _, err := store.Get(ctx, "absent")
		require.ErrorIs(t, err, kv.ErrNotFound)
	})

	t.Run("create requires version zero", func(t *testing.T) {
		require.ErrorIs(t, store.Put(ctx, "doc", []byte(`{}`), 7), kv.ErrVersionMismatch)
		require.NoError(t, store.Put(ctx, "doc", []byte(`{"a":1}`), 0))

		data, version, err := store.Get(ctx, "doc")
		require.NoError(t, err)
		assert.Equal(t, []byte(`{"a":1}`), data)
		assert.Equal(t, int64(1), version)
	})

	t.Run("stale version rejected", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "doc", []byte(`{"a":2}`), 1))
		require.ErrorIs(t, store.Put(ctx, "doc", []byte(`{"a":3}`), 1), kv.ErrVersionMismatch)

		data, version, err := store.Get(ctx, "doc")
		require.NoError(t, err)
		assert.Equal(t, []byte(`{"a":2}`), data)
		assert.Equal(t, int64(2), version)
	})

	t.Run("returned value is a copy", func(t *testing.T) {
		data, _, err := store.Get(ctx, "doc")
		require.NoError(t, err)
		data[0] = 'X'
		fresh, _, err := store.Get(ctx, "doc")
		require.NoError(t, err)
		assert.Equal(t, byte('{'), fresh[0])
	})
}

func TestMemoryConcurrentWritersOneWins(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := kv.NewMemory()
	require.NoError(t, store.Put(ctx, "doc", []byte("base"), 0))

	const writers = 16
	var wg sync.WaitGroup
	wins := make(chan int, writers)
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if store.Put(ctx, "doc", []byte("update"), 1) == nil {
				wins <- i
			}
		}()
	}
	wg.Wait()
	close(wins)

	count := 0
	for range wins {
		count++
	}
	assert.Equal(t, 1, count, "exactly one conditional writer may win")
}
