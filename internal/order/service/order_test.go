package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonErrors "github.com/Alturino/bookstore/internal/common/errors"
	"github.com/Alturino/bookstore/internal/order/client"
	"github.com/Alturino/bookstore/internal/order/store"
	"github.com/Alturino/bookstore/internal/storage"
	"github.com/Alturino/bookstore/order/pkg/response"
)

func remoteOrder(orderNumber string, createdAt time.Time) response.Order {
	return response.Order{
		Id:          uuid.NewString(),
		OrderNumber: orderNumber,
		Status:      response.StatusProcessing,
		TotalAmount: decimal.NewFromInt(299),
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
}

func localOrder(orderNumber string, createdAt time.Time) response.Order {
	return response.Order{
		Id:          uuid.NewString(),
		OrderNumber: orderNumber,
		Status:      response.StatusPending,
		Origin:      response.OriginLocal,
		TotalAmount: decimal.NewFromInt(349),
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
}

func TestFindByCustomerMergesRemoteAndLocal(t *testing.T) {
	t.Parallel()

	c := context.Background()
	now := time.Now()

	remote := remoteOrder("20240101-0001", now.Add(-time.Hour))
	server := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/orders", r.URL.Path)
			require.NoError(t, json.NewEncoder(w).Encode([]response.Order{remote}))
		}),
	)
	defer server.Close()

	local := store.NewLocalOrderStore(storage.NewMemoryStore())
	require.NoError(t, local.Append(c, localOrder("ORD-000042", now)))

	orderService := NewOrderService(client.NewOrderClient(server.URL, time.Second), local)
	orders, err := orderService.FindByCustomer(c, uuid.NewString())
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "ORD-000042", orders[0].OrderNumber)
	assert.Equal(t, response.OriginLocal, orders[0].Origin)
	assert.Equal(t, "20240101-0001", orders[1].OrderNumber)
	assert.Equal(t, response.OriginRemote, orders[1].Origin)
}

func TestFindByCustomerToleratesRemoteOutage(t *testing.T) {
	t.Parallel()

	c := context.Background()
	server := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}),
	)
	defer server.Close()

	local := store.NewLocalOrderStore(storage.NewMemoryStore())
	require.NoError(t, local.Append(c, localOrder("ORD-000007", time.Now())))

	orderService := NewOrderService(client.NewOrderClient(server.URL, time.Second), local)
	orders, err := orderService.FindByCustomer(c, uuid.NewString())
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "ORD-000007", orders[0].OrderNumber)
}

func TestFindByCustomerSkipsRemoteForGuests(t *testing.T) {
	t.Parallel()

	c := context.Background()
	called := false
	server := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}),
	)
	defer server.Close()

	local := store.NewLocalOrderStore(storage.NewMemoryStore())
	require.NoError(t, local.Append(c, localOrder("ORD-000011", time.Now())))

	orderService := NewOrderService(client.NewOrderClient(server.URL, time.Second), local)
	orders, err := orderService.FindByCustomer(c, "")
	require.NoError(t, err)
	assert.Len(t, orders, 1)
	assert.False(t, called)
}

func TestFindByIdPrefersLocalThenMerged(t *testing.T) {
	t.Parallel()

	c := context.Background()
	now := time.Now()

	remote := remoteOrder("20240101-0002", now.Add(-time.Minute))
	server := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewEncoder(w).Encode([]response.Order{remote}))
		}),
	)
	defer server.Close()

	local := store.NewLocalOrderStore(storage.NewMemoryStore())
	fallback := localOrder("ORD-000099", now)
	require.NoError(t, local.Append(c, fallback))

	orderService := NewOrderService(client.NewOrderClient(server.URL, time.Second), local)

	found, err := orderService.FindById(c, uuid.NewString(), fallback.Id)
	require.NoError(t, err)
	assert.Equal(t, response.OriginLocal, found.Origin)

	found, err = orderService.FindById(c, uuid.NewString(), remote.Id)
	require.NoError(t, err)
	assert.Equal(t, response.OriginRemote, found.Origin)

	_, err = orderService.FindById(c, uuid.NewString(), uuid.NewString())
	assert.ErrorIs(t, err, commonErrors.ErrOrderNotFound)
}
