package store

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/bookstore/internal/common/constants"
	"github.com/Alturino/bookstore/internal/storage"
)

func testBook(id string, price int64) *Book {
	return &Book{
		Id:     id,
		Title:  "title-" + id,
		Author: "author-" + id,
		Price:  decimal.NewFromInt(price),
	}
}

func TestAddItemMergesExistingLine(t *testing.T) {
	c := context.Background()
	cart := New(c, storage.NewMemoryStore())

	cart.AddItem(c, testBook("A", 300), 1)
	cart.AddItem(c, testBook("A", 300), 1)

	snapshot := cart.Snapshot()
	require.Len(t, snapshot.Items, 1)
	assert.Equal(t, int32(2), snapshot.Items[0].Quantity)
	assert.Equal(t, int32(2), snapshot.TotalItems)
	assert.True(t, snapshot.Subtotal.Equal(decimal.NewFromInt(600)),
		"subtotal = %s", snapshot.Subtotal)
}

func TestAddItemNilBookIsNoop(t *testing.T) {
	c := context.Background()
	cart := New(c, storage.NewMemoryStore())

	cart.AddItem(c, nil, 3)

	assert.Empty(t, cart.Snapshot().Items)
}

func TestAddItemQuantityBelowOneDefaultsToOne(t *testing.T) {
	c := context.Background()
	cart := New(c, storage.NewMemoryStore())

	cart.AddItem(c, testBook("A", 100), 0)

	snapshot := cart.Snapshot()
	require.Len(t, snapshot.Items, 1)
	assert.Equal(t, int32(1), snapshot.Items[0].Quantity)
}

func TestSubtotalInvariantUnderMutations(t *testing.T) {
	c := context.Background()
	cart := New(c, storage.NewMemoryStore())

	expect := func(total int64, items int32) {
		t.Helper()
		snapshot := cart.Snapshot()
		assert.Equal(t, items, snapshot.TotalItems)
		assert.True(t, snapshot.Subtotal.Equal(decimal.NewFromInt(total)),
			"subtotal = %s, want %d", snapshot.Subtotal, total)
	}

	cart.AddItem(c, testBook("A", 100), 2)
	expect(200, 2)
	cart.AddItem(c, testBook("B", 50), 1)
	expect(250, 3)
	cart.UpdateQuantity(c, "A", 5)
	expect(550, 6)
	cart.RemoveItem(c, "B")
	expect(500, 5)
	cart.RemoveItem(c, "missing")
	expect(500, 5)
	cart.UpdateQuantity(c, "missing", 3)
	expect(500, 5)
}

func TestUpdateQuantityFloor(t *testing.T) {
	tests := []struct {
		name     string
		quantity int32
	}{
		{name: "zero is rejected", quantity: 0},
		{name: "negative is rejected", quantity: -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := context.Background()
			cart := New(c, storage.NewMemoryStore())
			cart.AddItem(c, testBook("A", 100), 2)

			cart.UpdateQuantity(c, "A", tt.quantity)

			snapshot := cart.Snapshot()
			require.Len(t, snapshot.Items, 1)
			assert.Equal(t, int32(2), snapshot.Items[0].Quantity)
		})
	}
}

func TestInsertionOrderPreserved(t *testing.T) {
	c := context.Background()
	cart := New(c, storage.NewMemoryStore())

	cart.AddItem(c, testBook("B", 10), 1)
	cart.AddItem(c, testBook("A", 20), 1)
	cart.AddItem(c, testBook("C", 30), 1)
	cart.AddItem(c, testBook("A", 20), 1)

	snapshot := cart.Snapshot()
	require.Len(t, snapshot.Items, 3)
	assert.Equal(t, "B", snapshot.Items[0].BookId)
	assert.Equal(t, "A", snapshot.Items[1].BookId)
	assert.Equal(t, "C", snapshot.Items[2].BookId)
}

func TestCartSurvivesReload(t *testing.T) {
	c := context.Background()
	store := storage.NewMemoryStore()

	cart := New(c, store)
	cart.AddItem(c, testBook("A", 300), 2)

	reloaded := New(c, store)
	snapshot := reloaded.Snapshot()
	require.Len(t, snapshot.Items, 1)
	assert.Equal(t, "A", snapshot.Items[0].BookId)
	assert.Equal(t, int32(2), snapshot.Items[0].Quantity)
	assert.True(t, snapshot.Subtotal.Equal(decimal.NewFromInt(600)))
	assert.True(t, snapshot.Items[0].PriceSnapshot.Equal(decimal.NewFromInt(300)))
}

func TestClearThenReloadYieldsEmptyCart(t *testing.T) {
	c := context.Background()
	store := storage.NewMemoryStore()

	cart := New(c, store)
	cart.AddItem(c, testBook("A", 300), 1)
	cart.Clear(c)

	_, err := store.Get(c, constants.STORAGE_KEY_CART)
	assert.ErrorIs(t, err, storage.ErrNotFound, "clear removes the record entirely")

	reloaded := New(c, store)
	assert.Empty(t, reloaded.Snapshot().Items)
	assert.True(t, reloaded.Snapshot().Subtotal.IsZero())
}

func TestCorruptPersistedCartSelfHeals(t *testing.T) {
	c := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(c, constants.STORAGE_KEY_CART, "{not json"))

	cart := New(c, store)

	assert.Empty(t, cart.Snapshot().Items)
	_, err := store.Get(c, constants.STORAGE_KEY_CART)
	assert.ErrorIs(t, err, storage.ErrNotFound, "corrupt record is discarded")
}

func TestSnapshotIsACopy(t *testing.T) {
	c := context.Background()
	cart := New(c, storage.NewMemoryStore())
	cart.AddItem(c, testBook("A", 100), 1)

	snapshot := cart.Snapshot()
	snapshot.Items[0].Quantity = 99

	assert.Equal(t, int32(1), cart.Snapshot().Items[0].Quantity)
}
