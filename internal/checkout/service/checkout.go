package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Alturino/bookstore/checkout/pkg/request"
	"github.com/Alturino/bookstore/checkout/pkg/response"
	cartStore "github.com/Alturino/bookstore/internal/cart/store"
	"github.com/Alturino/bookstore/internal/checkout/otel"
	commonErrors "github.com/Alturino/bookstore/internal/common/errors"
	"github.com/Alturino/bookstore/internal/log"
	orderStore "github.com/Alturino/bookstore/internal/order/store"
	orderRequest "github.com/Alturino/bookstore/order/pkg/request"
	orderResponse "github.com/Alturino/bookstore/order/pkg/response"
)

type State string

const (
	StateIdle       State = "IDLE"
	StateValidating State = "VALIDATING"
	StateSubmitting State = "SUBMITTING"
	StateSucceeded  State = "SUCCEEDED"
	StateFailed     State = "FAILED"
)

// freeShippingThreshold is exclusive. A subtotal exactly at the threshold
// still pays the flat rate.
var (
	freeShippingThreshold = decimal.NewFromInt(500)
	flatShippingRate      = decimal.NewFromInt(50)
)

// ShippingCost returns the shipping charge for a cart subtotal.
func ShippingCost(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThan(freeShippingThreshold) {
		return decimal.Zero
	}
	return flatShippingRate
}

type OrderSubmitter interface {
	Create(c context.Context, param orderRequest.CreateOrder) (orderResponse.Order, error)
}

type LocalOrderAppender interface {
	Append(c context.Context, order orderResponse.Order) error
}

// Profile carries the signed-in customer's prefill data. A zero Profile
// means the checkout runs as guest.
type Profile struct {
	CustomerId string
	FullName   string
	Email      string
	Address    string
}

type ProfileProvider interface {
	Profile(c context.Context) (Profile, bool)
}

// CheckoutService drives a cart through submission. Only one checkout may be
// in flight at a time; pricing is recomputed from the live cart snapshot at
// submission, never from figures the caller supplies.
type CheckoutService struct {
	cart    *cartStore.CartStore
	remote  OrderSubmitter
	local   LocalOrderAppender
	profile ProfileProvider

	inFlight atomic.Bool
	mu       sync.Mutex
	state    State
}

func NewCheckoutService(
	cart *cartStore.CartStore,
	remote OrderSubmitter,
	local LocalOrderAppender,
	profile ProfileProvider,
) *CheckoutService {
	return &CheckoutService{
		cart:    cart,
		remote:  remote,
		local:   local,
		profile: profile,
		state:   StateIdle,
	}
}

func (s *CheckoutService) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *CheckoutService) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// Prefill returns the form defaults for the current session. Guests get an
// empty form.
func (s *CheckoutService) Prefill(c context.Context) request.Checkout {
	c, span := otel.Tracer.Start(c, "CheckoutService Prefill")
	defer span.End()

	profile, ok := s.profile.Profile(c)
	if !ok {
		return request.Checkout{}
	}
	return request.Checkout{
		FullName: profile.FullName,
		Email:    profile.Email,
		Address:  profile.Address,
	}
}

func (s *CheckoutService) Checkout(
	c context.Context,
	param request.Checkout,
) (response.Confirmation, error) {
	c, span := otel.Tracer.Start(c, "CheckoutService Checkout")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CheckoutService Checkout").
		Logger()

	if !s.inFlight.CompareAndSwap(false, true) {
		err := commonErrors.ErrCheckoutInFlight
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Confirmation{}, err
	}
	defer s.inFlight.Store(false)

	s.setState(StateValidating)
	logger = logger.With().Str(log.KeyProcess, "validating checkout").Logger()
	logger.Info().Msg("validating checkout")
	snapshot := s.cart.Snapshot()
	if len(snapshot.Items) == 0 {
		s.setState(StateFailed)
		err := commonErrors.ErrEmptyCart
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Confirmation{}, err
	}
	warnings := []string{}
	if param.Address == "" {
		warnings = append(warnings, "shipping address is empty, the order may need a follow up")
	}
	logger.Info().Msg("validated checkout")

	subtotal := snapshot.Subtotal
	shippingCost := ShippingCost(subtotal)
	totalAmount := subtotal.Add(shippingCost)
	logger = logger.With().
		Str(log.KeySubtotal, subtotal.String()).
		Str(log.KeyShippingCost, shippingCost.String()).
		Str(log.KeyTotalAmount, totalAmount.String()).
		Int32(log.KeyTotalItems, snapshot.TotalItems).
		Logger()

	customerId := ""
	if profile, ok := s.profile.Profile(c); ok {
		customerId = profile.CustomerId
	}

	s.setState(StateSubmitting)
	logger = logger.With().Str(log.KeyProcess, "submitting order").Logger()
	logger.Info().Msg("submitting order to order-service")
	c = logger.WithContext(c)
	order, err := s.remote.Create(c, createOrderFrom(param, customerId, snapshot, totalAmount))
	if err != nil {
		err = fmt.Errorf("failed submitting order to order-service with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())

		logger.Info().Msg("persisting order locally")
		order = localOrderFrom(param, customerId, snapshot, totalAmount)
		if localErr := s.local.Append(c, order); localErr != nil {
			s.setState(StateFailed)
			err = fmt.Errorf(
				"%w: remote error=%v, local error=%v",
				commonErrors.ErrCheckoutFailed,
				err,
				localErr,
			)
			commonErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Confirmation{}, err
		}
		logger.Info().Msg("persisted order locally")
	}
	logger = logger.With().
		Str(log.KeyOrderID, order.Id).
		Str(log.KeyOrderNumber, order.OrderNumber).
		Str(log.KeyOrderOrigin, string(order.Origin)).
		Logger()
	logger.Info().Msg("submitted order")

	logger = logger.With().Str(log.KeyProcess, "clearing cart").Logger()
	logger.Info().Msg("clearing cart")
	s.cart.Clear(c)
	logger.Info().Msg("cleared cart")

	s.setState(StateSucceeded)
	return response.Confirmation{
		OrderId:      order.Id,
		OrderNumber:  order.OrderNumber,
		Origin:       order.Origin,
		Subtotal:     subtotal,
		ShippingCost: shippingCost,
		TotalAmount:  totalAmount,
		Warnings:     warnings,
	}, nil
}

func createOrderFrom(
	param request.Checkout,
	customerId string,
	snapshot cartStore.Snapshot,
	totalAmount decimal.Decimal,
) orderRequest.CreateOrder {
	items := make([]orderRequest.LineItem, 0, len(snapshot.Items))
	for _, item := range snapshot.Items {
		items = append(items, orderRequest.LineItem{
			BookId:   item.BookId,
			Price:    item.PriceSnapshot,
			Quantity: item.Quantity,
		})
	}
	return orderRequest.CreateOrder{
		CustomerId:      customerId,
		ShippingAddress: param.Address,
		Notes:           param.Notes,
		TotalAmount:     totalAmount,
		LineItems:       items,
	}
}

func localOrderFrom(
	param request.Checkout,
	customerId string,
	snapshot cartStore.Snapshot,
	totalAmount decimal.Decimal,
) orderResponse.Order {
	items := make([]orderResponse.OrderItem, 0, len(snapshot.Items))
	for _, item := range snapshot.Items {
		items = append(items, orderResponse.OrderItem{
			BookId:   item.BookId,
			Title:    item.Title,
			Author:   item.Author,
			ImageUrl: item.ImageUrl,
			Isbn:     item.Isbn,
			Price:    item.PriceSnapshot,
			Quantity: item.Quantity,
		})
	}
	now := time.Now()
	return orderResponse.Order{
		Id:          uuid.NewString(),
		OrderNumber: orderStore.NewOrderNumber(),
		Customer: orderResponse.Customer{
			Id:    customerId,
			Name:  param.FullName,
			Email: param.Email,
		},
		Items:           items,
		ShippingAddress: param.Address,
		Notes:           param.Notes,
		Status:          orderResponse.StatusPending,
		Origin:          orderResponse.OriginLocal,
		TotalAmount:     totalAmount,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}
