package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestMemoryStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()

	require.NoError(t, storage.Set(ctx, "k", payload{Name: "a", Count: 2}, time.Minute))

	var got payload
	require.NoError(t, storage.Get(ctx, "k", &got))
	assert.Equal(t, payload{Name: "a", Count: 2}, got)

	require.NoError(t, storage.Delete(ctx, "k"))
	assert.ErrorIs(t, storage.Get(ctx, "k", &got), ErrNotFound)
}

func TestMemoryStorageMissingKey(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()

	var got payload
	assert.ErrorIs(t, storage.Get(ctx, "absent", &got), ErrNotFound)
	assert.ErrorIs(t, storage.Delete(ctx, "absent"), ErrNotFound)
}

func TestMemoryStorageExpiry(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()

	require.NoError(t, storage.Set(ctx, "k", payload{Name: "a"}, time.Millisecond))
	time.Sleep(20 * time.Millisecond)

	var got payload
	assert.ErrorIs(t, storage.Get(ctx, "k", &got), ErrNotFound)
}

func TestStorePrefixIsolation(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	first := New[string](storage, "a:")
	second := New[string](storage, "b:")

	require.NoError(t, first.Set(ctx, "token", "one", time.Minute))
	require.NoError(t, second.Set(ctx, "token", "two", time.Minute))

	got, err := first.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, "one", got)

	got, err = second.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, "two", got)
}

func TestStoreRemove(t *testing.T) {
	ctx := context.Background()
	tokens := New[payload](NewMemoryStorage(), "t:")

	require.NoError(t, tokens.Set(ctx, "k", payload{Name: "a"}, time.Minute))

	got, err := tokens.Remove(ctx, "k")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "a", got.Name)

	// removing a missing key is not an error
	got, err = tokens.Remove(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, got)
}
