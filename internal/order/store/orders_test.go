package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/bookstore/internal/common/constants"
	commonErrors "github.com/Alturino/bookstore/internal/common/errors"
	"github.com/Alturino/bookstore/internal/storage"
	"github.com/Alturino/bookstore/order/pkg/response"
)

func newOrder(orderNumber string) response.Order {
	now := time.Now()
	return response.Order{
		Id:          uuid.NewString(),
		OrderNumber: orderNumber,
		Status:      response.StatusPending,
		Origin:      response.OriginLocal,
		Items: []response.OrderItem{
			{
				BookId:   uuid.NewString(),
				Title:    "Godan",
				Author:   "Munshi Premchand",
				Price:    decimal.NewFromInt(299),
				Quantity: 1,
			},
		},
		TotalAmount: decimal.NewFromInt(349),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestAppendThenListRoundTrip(t *testing.T) {
	t.Parallel()

	c := context.Background()
	orderStore := NewLocalOrderStore(storage.NewMemoryStore())

	first := newOrder("ORD-000001")
	second := newOrder("ORD-000002")
	require.NoError(t, orderStore.Append(c, first))
	require.NoError(t, orderStore.Append(c, second))

	orders, err := orderStore.List(c)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, first.Id, orders[0].Id)
	assert.Equal(t, second.Id, orders[1].Id)
	assert.Equal(t, response.StatusPending, orders[0].Status)
	assert.Equal(t, response.OriginLocal, orders[0].Origin)
}

func TestListWithoutRecordYieldsEmpty(t *testing.T) {
	t.Parallel()

	orders, err := NewLocalOrderStore(storage.NewMemoryStore()).List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestCorruptOrdersRecordSelfHeals(t *testing.T) {
	t.Parallel()

	c := context.Background()
	memory := storage.NewMemoryStore()
	require.NoError(t, memory.Set(c, constants.STORAGE_KEY_ORDERS, "{not json"))

	orderStore := NewLocalOrderStore(memory)
	orders, err := orderStore.List(c)
	require.NoError(t, err)
	assert.Empty(t, orders)

	_, err = memory.Get(c, constants.STORAGE_KEY_ORDERS)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestFindByIdMatchesIdAndOrderNumber(t *testing.T) {
	t.Parallel()

	c := context.Background()
	orderStore := NewLocalOrderStore(storage.NewMemoryStore())

	order := newOrder("ORD-314159")
	require.NoError(t, orderStore.Append(c, order))

	byId, err := orderStore.FindById(c, order.Id)
	require.NoError(t, err)
	assert.Equal(t, order.OrderNumber, byId.OrderNumber)

	byNumber, err := orderStore.FindById(c, "ORD-314159")
	require.NoError(t, err)
	assert.Equal(t, order.Id, byNumber.Id)

	_, err = orderStore.FindById(c, uuid.NewString())
	assert.True(t, errors.Is(err, commonErrors.ErrOrderNotFound))
}

func TestNewOrderNumberFormat(t *testing.T) {
	t.Parallel()

	pattern := regexp.MustCompile(`^ORD-\d{6}$`)
	for i := 0; i < 50; i++ {
		assert.Regexp(t, pattern, NewOrderNumber())
	}
}
