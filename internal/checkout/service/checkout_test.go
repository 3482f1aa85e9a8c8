package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/bookstore/checkout/pkg/request"
	cartStore "github.com/Alturino/bookstore/internal/cart/store"
	commonErrors "github.com/Alturino/bookstore/internal/common/errors"
	"github.com/Alturino/bookstore/internal/storage"
	orderRequest "github.com/Alturino/bookstore/order/pkg/request"
	orderResponse "github.com/Alturino/bookstore/order/pkg/response"
)

type fakeSubmitter struct {
	mu       sync.Mutex
	err      error
	requests []orderRequest.CreateOrder
	release  chan struct{}
}

func (f *fakeSubmitter) Create(
	c context.Context,
	param orderRequest.CreateOrder,
) (orderResponse.Order, error) {
	f.mu.Lock()
	f.requests = append(f.requests, param)
	f.mu.Unlock()
	if f.release != nil {
		<-f.release
	}
	if f.err != nil {
		return orderResponse.Order{}, f.err
	}
	return orderResponse.Order{
		Id:          uuid.NewString(),
		OrderNumber: "20240101-0001",
		Status:      orderResponse.StatusProcessing,
		Origin:      orderResponse.OriginRemote,
		TotalAmount: param.TotalAmount,
	}, nil
}

type fakeAppender struct {
	err    error
	orders []orderResponse.Order
}

func (f *fakeAppender) Append(c context.Context, order orderResponse.Order) error {
	if f.err != nil {
		return f.err
	}
	f.orders = append(f.orders, order)
	return nil
}

type fakeProfiles struct {
	profile Profile
	ok      bool
}

func (f fakeProfiles) Profile(c context.Context) (Profile, bool) {
	return f.profile, f.ok
}

func seededCart(t *testing.T, prices ...int64) *cartStore.CartStore {
	t.Helper()
	c := context.Background()
	cart := cartStore.New(c, storage.NewMemoryStore())
	for i, price := range prices {
		cart.AddItem(c, &cartStore.Book{
			Id:    uuid.NewString(),
			Title: "Godan",
			Price: decimal.NewFromInt(price),
		}, int32(i+1))
	}
	return cart
}

func TestShippingCostThreshold(t *testing.T) {
	t.Parallel()

	tests := []struct {
		subtotal int64
		want     int64
	}{
		{subtotal: 499, want: 50},
		{subtotal: 500, want: 50},
		{subtotal: 501, want: 0},
	}
	for _, test := range tests {
		got := ShippingCost(decimal.NewFromInt(test.subtotal))
		assert.True(
			t,
			got.Equal(decimal.NewFromInt(test.want)),
			"subtotal=%d want=%d got=%s",
			test.subtotal,
			test.want,
			got,
		)
	}
}

func TestCheckoutSubmitsRemoteAndClearsCart(t *testing.T) {
	t.Parallel()

	c := context.Background()
	cart := seededCart(t, 299)
	submitter := &fakeSubmitter{}
	appender := &fakeAppender{}
	checkout := NewCheckoutService(cart, submitter, appender, fakeProfiles{})

	confirmation, err := checkout.Checkout(c, request.Checkout{
		FullName: "Devdas Mukherjee",
		Email:    "devdas@example.com",
		Address:  "12 College Street, Calcutta",
	})
	require.NoError(t, err)

	assert.Equal(t, orderResponse.OriginRemote, confirmation.Origin)
	assert.True(t, confirmation.Subtotal.Equal(decimal.NewFromInt(299)))
	assert.True(t, confirmation.ShippingCost.Equal(decimal.NewFromInt(50)))
	assert.True(t, confirmation.TotalAmount.Equal(decimal.NewFromInt(349)))
	assert.Empty(t, confirmation.Warnings)
	assert.Empty(t, appender.orders)
	assert.Empty(t, cart.Snapshot().Items)
	assert.Equal(t, StateSucceeded, checkout.State())

	require.Len(t, submitter.requests, 1)
	assert.True(t, submitter.requests[0].TotalAmount.Equal(decimal.NewFromInt(349)))
}

func TestCheckoutFreeShippingAboveThreshold(t *testing.T) {
	t.Parallel()

	cart := seededCart(t, 501)
	checkout := NewCheckoutService(cart, &fakeSubmitter{}, &fakeAppender{}, fakeProfiles{})

	confirmation, err := checkout.Checkout(context.Background(), request.Checkout{
		FullName: "Devdas Mukherjee",
		Email:    "devdas@example.com",
		Address:  "12 College Street, Calcutta",
	})
	require.NoError(t, err)
	assert.True(t, confirmation.ShippingCost.IsZero())
	assert.True(t, confirmation.TotalAmount.Equal(decimal.NewFromInt(501)))
}

func TestCheckoutFallsBackToLocalOrder(t *testing.T) {
	t.Parallel()

	c := context.Background()
	cart := seededCart(t, 299)
	submitter := &fakeSubmitter{err: errors.New("connection refused")}
	appender := &fakeAppender{}
	checkout := NewCheckoutService(cart, submitter, appender, fakeProfiles{})

	confirmation, err := checkout.Checkout(c, request.Checkout{
		FullName: "Devdas Mukherjee",
		Email:    "devdas@example.com",
		Address:  "12 College Street, Calcutta",
	})
	require.NoError(t, err)

	assert.Equal(t, orderResponse.OriginLocal, confirmation.Origin)
	assert.Regexp(t, `^ORD-\d{6}$`, confirmation.OrderNumber)
	assert.Empty(t, cart.Snapshot().Items)

	require.Len(t, appender.orders, 1)
	order := appender.orders[0]
	assert.Equal(t, orderResponse.StatusPending, order.Status)
	assert.Equal(t, orderResponse.OriginLocal, order.Origin)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Godan", order.Items[0].Title)
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(349)))
}

func TestCheckoutMergedReAddFreeShippingFallback(t *testing.T) {
	t.Parallel()

	c := context.Background()
	cart := cartStore.New(c, storage.NewMemoryStore())
	godan := &cartStore.Book{
		Id:    uuid.NewString(),
		Title: "Godan",
		Price: decimal.NewFromInt(300),
	}
	cart.AddItem(c, godan, 1)
	cart.AddItem(c, godan, 1)

	snapshot := cart.Snapshot()
	require.Len(t, snapshot.Items, 1)
	assert.EqualValues(t, 2, snapshot.Items[0].Quantity)
	require.True(t, snapshot.Subtotal.Equal(decimal.NewFromInt(600)))

	submitter := &fakeSubmitter{err: errors.New("connection refused")}
	appender := &fakeAppender{}
	checkout := NewCheckoutService(cart, submitter, appender, fakeProfiles{})

	confirmation, err := checkout.Checkout(c, request.Checkout{
		FullName: "Devdas Mukherjee",
		Email:    "devdas@example.com",
		Address:  "12 College Street, Calcutta",
	})
	require.NoError(t, err)

	assert.True(t, confirmation.ShippingCost.IsZero())
	assert.True(t, confirmation.TotalAmount.Equal(decimal.NewFromInt(600)))
	assert.Regexp(t, `^ORD-\d{6}$`, confirmation.OrderNumber)
	assert.Equal(t, orderResponse.OriginLocal, confirmation.Origin)

	require.Len(t, appender.orders, 1)
	assert.Equal(t, orderResponse.StatusPending, appender.orders[0].Status)
	assert.Empty(t, cart.Snapshot().Items)
}

func TestCheckoutTotalFailurePreservesCart(t *testing.T) {
	t.Parallel()

	c := context.Background()
	cart := seededCart(t, 299)
	submitter := &fakeSubmitter{err: errors.New("connection refused")}
	appender := &fakeAppender{err: errors.New("storage full")}
	checkout := NewCheckoutService(cart, submitter, appender, fakeProfiles{})

	_, err := checkout.Checkout(c, request.Checkout{
		FullName: "Devdas Mukherjee",
		Email:    "devdas@example.com",
		Address:  "12 College Street, Calcutta",
	})
	require.ErrorIs(t, err, commonErrors.ErrCheckoutFailed)

	assert.Len(t, cart.Snapshot().Items, 1)
	assert.Equal(t, StateFailed, checkout.State())
}

func TestCheckoutRefusesEmptyCart(t *testing.T) {
	t.Parallel()

	cart := cartStore.New(context.Background(), storage.NewMemoryStore())
	submitter := &fakeSubmitter{}
	checkout := NewCheckoutService(cart, submitter, &fakeAppender{}, fakeProfiles{})

	_, err := checkout.Checkout(context.Background(), request.Checkout{
		FullName: "Devdas Mukherjee",
		Email:    "devdas@example.com",
	})
	require.ErrorIs(t, err, commonErrors.ErrEmptyCart)
	assert.Empty(t, submitter.requests)
}

func TestCheckoutRejectsConcurrentSubmission(t *testing.T) {
	t.Parallel()

	c := context.Background()
	cart := seededCart(t, 299)
	release := make(chan struct{})
	submitter := &fakeSubmitter{release: release}
	checkout := NewCheckoutService(cart, submitter, &fakeAppender{}, fakeProfiles{})

	firstDone := make(chan error, 1)
	go func() {
		_, err := checkout.Checkout(c, request.Checkout{
			FullName: "Devdas Mukherjee",
			Email:    "devdas@example.com",
			Address:  "12 College Street, Calcutta",
		})
		firstDone <- err
	}()

	require.Eventually(t, func() bool {
		submitter.mu.Lock()
		defer submitter.mu.Unlock()
		return len(submitter.requests) == 1
	}, 2*time.Second, time.Millisecond)

	_, err := checkout.Checkout(c, request.Checkout{
		FullName: "Parvati Chakraborty",
		Email:    "parvati@example.com",
	})
	require.ErrorIs(t, err, commonErrors.ErrCheckoutInFlight)

	close(release)
	require.NoError(t, <-firstDone)
}

func TestCheckoutWarnsOnEmptyAddress(t *testing.T) {
	t.Parallel()

	cart := seededCart(t, 299)
	checkout := NewCheckoutService(cart, &fakeSubmitter{}, &fakeAppender{}, fakeProfiles{})

	confirmation, err := checkout.Checkout(context.Background(), request.Checkout{
		FullName: "Devdas Mukherjee",
		Email:    "devdas@example.com",
	})
	require.NoError(t, err)
	require.Len(t, confirmation.Warnings, 1)
	assert.Contains(t, confirmation.Warnings[0], "address")
}

func TestPrefillUsesProfile(t *testing.T) {
	t.Parallel()

	cart := seededCart(t, 299)
	profiles := fakeProfiles{
		profile: Profile{
			CustomerId: uuid.NewString(),
			FullName:   "Devdas Mukherjee",
			Email:      "devdas@example.com",
			Address:    "12 College Street, Calcutta",
		},
		ok: true,
	}
	checkout := NewCheckoutService(cart, &fakeSubmitter{}, &fakeAppender{}, profiles)

	prefill := checkout.Prefill(context.Background())
	assert.Equal(t, "Devdas Mukherjee", prefill.FullName)
	assert.Equal(t, "devdas@example.com", prefill.Email)
	assert.Equal(t, "12 College Street, Calcutta", prefill.Address)

	guest := NewCheckoutService(cart, &fakeSubmitter{}, &fakeAppender{}, fakeProfiles{})
	assert.Empty(t, guest.Prefill(context.Background()))
}
