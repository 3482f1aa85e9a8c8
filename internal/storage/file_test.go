package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	c := context.Background()
	store, err := NewFileStore(c, t.TempDir())
	require.NoError(t, err)

	_, err = store.Get(c, "cart")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(c, "cart", `{"items":[]}`))
	value, err := store.Get(c, "cart")
	require.NoError(t, err)
	assert.Equal(t, `{"items":[]}`, value)

	require.NoError(t, store.Set(c, "cart", `{"items":[{"book_id":"1"}]}`))
	value, err = store.Get(c, "cart")
	require.NoError(t, err)
	assert.Equal(t, `{"items":[{"book_id":"1"}]}`, value)

	require.NoError(t, store.Remove(c, "cart"))
	_, err = store.Get(c, "cart")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStoreRemoveMissingIsNoop(t *testing.T) {
	c := context.Background()
	store, err := NewFileStore(c, t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, store.Remove(c, "orders"))
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	c := context.Background()
	store := NewMemoryStore()

	_, err := store.Get(c, "session")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(c, "session", "token"))
	value, err := store.Get(c, "session")
	require.NoError(t, err)
	assert.Equal(t, "token", value)

	require.NoError(t, store.Remove(c, "session"))
	_, err = store.Get(c, "session")
	assert.ErrorIs(t, err, ErrNotFound)
}
