package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	commonErrors "github.com/Alturino/bookstore/internal/common/errors"
	"github.com/Alturino/bookstore/internal/log"
	"github.com/Alturino/bookstore/internal/order/client"
	"github.com/Alturino/bookstore/internal/order/otel"
	"github.com/Alturino/bookstore/internal/order/store"
	"github.com/Alturino/bookstore/order/pkg/response"
)

// OrderService merges the remote order history with locally persisted
// fallback orders. A remote outage degrades the history to local orders only
// instead of failing the whole listing.
type OrderService struct {
	client *client.OrderClient
	local  *store.LocalOrderStore
}

func NewOrderService(orderClient *client.OrderClient, local *store.LocalOrderStore) *OrderService {
	return &OrderService{client: orderClient, local: local}
}

func (s *OrderService) FindByCustomer(
	c context.Context,
	customerId string,
) ([]response.Order, error) {
	c, span := otel.Tracer.Start(c, "OrderService FindByCustomer")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService FindByCustomer").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "listing local orders").Logger()
	logger.Info().Msg("listing local orders")
	orders, err := s.local.List(c)
	if err != nil {
		err = fmt.Errorf("failed listing local orders with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msgf("listed %d local orders", len(orders))

	if customerId != "" {
		logger = logger.With().Str(log.KeyProcess, "listing remote orders").Logger()
		logger.Info().Msg("listing remote orders")
		remote, err := s.client.FindByCustomer(c, customerId)
		if err != nil {
			err = fmt.Errorf("failed listing remote orders with error=%w", err)
			commonErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
		} else {
			logger.Info().Msgf("listed %d remote orders", len(remote))
			orders = append(orders, remote...)
		}
	}

	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})

	return orders, nil
}

func (s *OrderService) FindById(
	c context.Context,
	customerId string,
	orderId string,
) (response.Order, error) {
	c, span := otel.Tracer.Start(c, "OrderService FindById")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService FindById").
		Str(log.KeyOrderID, orderId).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding order").Logger()
	logger.Info().Msg("finding order in local store")
	order, err := s.local.FindById(c, orderId)
	if err == nil {
		logger.Info().Msg("found order in local store")
		return order, nil
	}

	logger.Info().Msg("finding order in merged history")
	orders, err := s.FindByCustomer(c, customerId)
	if err != nil {
		err = fmt.Errorf("failed finding order=%s with error=%w", orderId, err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	for _, order := range orders {
		if order.Id == orderId || order.OrderNumber == orderId {
			logger.Info().Msg("found order in merged history")
			return order, nil
		}
	}

	err = fmt.Errorf("failed finding order=%s with error=%w", orderId, commonErrors.ErrOrderNotFound)
	commonErrors.HandleError(err, span)
	logger.Error().Err(err).Msg(err.Error())
	return response.Order{}, commonErrors.ErrOrderNotFound
}
