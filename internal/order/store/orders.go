package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/Alturino/bookstore/internal/common/constants"
	commonErrors "github.com/Alturino/bookstore/internal/common/errors"
	"github.com/Alturino/bookstore/internal/log"
	"github.com/Alturino/bookstore/internal/order/otel"
	"github.com/Alturino/bookstore/internal/storage"
	"github.com/Alturino/bookstore/order/pkg/response"
)

// LocalOrderStore keeps the fallback order list in durable client storage.
// Orders land here only when the remote submission fails; they carry
// origin=local and are invisible to the remote system. The list is a single
// record updated read-modify-write, last writer wins.
type LocalOrderStore struct {
	storage storage.Store
}

func NewLocalOrderStore(store storage.Store) *LocalOrderStore {
	return &LocalOrderStore{storage: store}
}

// NewOrderNumber returns a locally generated order reference. The ORD- prefix
// keeps it distinguishable from server-assigned identifiers.
func NewOrderNumber() string {
	return fmt.Sprintf("ORD-%06d", rand.Intn(1000000))
}

func (s *LocalOrderStore) List(c context.Context) ([]response.Order, error) {
	c, span := otel.Tracer.Start(c, "LocalOrderStore List")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "LocalOrderStore List").
		Str(log.KeyStorageKey, constants.STORAGE_KEY_ORDERS).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "reading persisted orders").Logger()
	logger.Info().Msg("reading persisted orders")
	raw, err := s.storage.Get(c, constants.STORAGE_KEY_ORDERS)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			logger.Info().Msg("no persisted orders found")
			return []response.Order{}, nil
		}
		err = fmt.Errorf("failed reading persisted orders with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msg("read persisted orders")

	logger = logger.With().Str(log.KeyProcess, "unmarshaling persisted orders").Logger()
	orders := []response.Order{}
	err = json.Unmarshal([]byte(raw), &orders)
	if err != nil {
		err = fmt.Errorf("failed unmarshaling persisted orders with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())

		logger = logger.With().Str(log.KeyProcess, "discarding corrupt orders").Logger()
		logger.Info().Msg("discarding corrupt orders record")
		if err := s.storage.Remove(c, constants.STORAGE_KEY_ORDERS); err != nil {
			err = fmt.Errorf("failed discarding corrupt orders record with error=%w", err)
			commonErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
		}
		return []response.Order{}, nil
	}
	logger.Info().Msgf("unmarshaled %d persisted orders", len(orders))

	return orders, nil
}

func (s *LocalOrderStore) Append(c context.Context, order response.Order) error {
	c, span := otel.Tracer.Start(c, "LocalOrderStore Append")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "LocalOrderStore Append").
		Str(log.KeyOrderID, order.Id).
		Str(log.KeyOrderNumber, order.OrderNumber).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "appending order to persisted list").Logger()
	logger.Info().Msg("appending order to persisted list")
	orders, err := s.List(c)
	if err != nil {
		err = fmt.Errorf("failed reading persisted orders with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	orders = append(orders, order)

	raw, err := json.Marshal(orders)
	if err != nil {
		err = fmt.Errorf("failed marshaling orders with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	err = s.storage.Set(c, constants.STORAGE_KEY_ORDERS, string(raw))
	if err != nil {
		err = fmt.Errorf("failed persisting orders with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("appended order to persisted list")

	return nil
}

func (s *LocalOrderStore) FindById(c context.Context, orderId string) (response.Order, error) {
	c, span := otel.Tracer.Start(c, "LocalOrderStore FindById")
	defer span.End()

	orders, err := s.List(c)
	if err != nil {
		return response.Order{}, err
	}
	for _, order := range orders {
		if order.Id == orderId || order.OrderNumber == orderId {
			return order, nil
		}
	}
	return response.Order{}, commonErrors.ErrOrderNotFound
}
