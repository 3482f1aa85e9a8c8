package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	commonErrors "github.com/Alturino/bookstore/internal/common/errors"
	commonHttp "github.com/Alturino/bookstore/internal/common/http"
	"github.com/Alturino/bookstore/internal/log"
	"github.com/Alturino/bookstore/internal/order/otel"
	"github.com/Alturino/bookstore/order/pkg/request"
	"github.com/Alturino/bookstore/order/pkg/response"
)

// OrderClient submits orders to and reads order history from the backing
// order service. Every call is bounded by the configured timeout; a timeout
// is reported like any other failure so callers can fall back.
type OrderClient struct {
	baseUrl string
	timeout time.Duration
}

func NewOrderClient(baseUrl string, timeout time.Duration) *OrderClient {
	return &OrderClient{baseUrl: baseUrl, timeout: timeout}
}

func (t *OrderClient) Create(
	c context.Context,
	param request.CreateOrder,
) (response.Order, error) {
	c, span := otel.Tracer.Start(c, "OrderClient Create")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderClient Create").
		Logger()

	c, cancel := context.WithTimeout(c, t.timeout)
	defer cancel()

	logger = logger.With().Str(log.KeyProcess, "marshaling order payload").Logger()
	logger.Info().Msg("marshaling order payload")
	payload, err := json.Marshal(param)
	if err != nil {
		err = fmt.Errorf("failed marshaling order payload with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Info().Msg("marshaled order payload")

	logger = logger.With().Str(log.KeyProcess, "sending order to order-service").Logger()
	logger.Info().Msg("sending order to order-service")
	req, err := http.NewRequestWithContext(
		c,
		http.MethodPost,
		t.baseUrl+"/orders",
		bytes.NewBuffer(payload),
	)
	if err != nil {
		err = fmt.Errorf("failed creating request to order-service with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	req.Header.Add(commonHttp.KEY_HEADER_CONTENT_TYPE, commonHttp.VALUE_HEADER_APPLICATION_JSON)
	req.Header.Add(commonHttp.KEY_HEADER_REQUEST_ID, log.RequestIDFromContext(c))
	resp, err := otelhttp.DefaultClient.Do(req)
	if err != nil {
		err = fmt.Errorf("failed sending order to order-service with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	defer resp.Body.Close()
	logger.Info().Msg("sent order to order-service")

	logger = logger.With().Str(log.KeyProcess, "decoding order response").Logger()
	logger.Info().Msg("decoding order response")
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		err = fmt.Errorf("order service returned status code=%d", resp.StatusCode)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	order := response.Order{}
	err = json.NewDecoder(resp.Body).Decode(&order)
	if err != nil {
		err = fmt.Errorf("failed decoding order response with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	order.Origin = response.OriginRemote
	logger = logger.With().Str(log.KeyOrderID, order.Id).Logger()
	logger.Info().Msg("decoded order response")

	return order, nil
}

func (t *OrderClient) FindByCustomer(
	c context.Context,
	customerId string,
) ([]response.Order, error) {
	c, span := otel.Tracer.Start(c, "OrderClient FindByCustomer")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderClient FindByCustomer").
		Str(log.KeyUserID, customerId).
		Logger()

	c, cancel := context.WithTimeout(c, t.timeout)
	defer cancel()

	logger = logger.With().Str(log.KeyProcess, "finding orders in order-service").Logger()
	logger.Info().Msg("finding orders in order-service")
	query := url.Values{}
	query.Set("customer_id", customerId)
	req, err := http.NewRequestWithContext(
		c,
		http.MethodGet,
		t.baseUrl+"/orders?"+query.Encode(),
		nil,
	)
	if err != nil {
		err = fmt.Errorf("failed creating request to order-service with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	req.Header.Add(commonHttp.KEY_HEADER_REQUEST_ID, log.RequestIDFromContext(c))
	resp, err := otelhttp.DefaultClient.Do(req)
	if err != nil {
		err = fmt.Errorf("failed finding orders in order-service with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		err = fmt.Errorf("order service returned status code=%d", resp.StatusCode)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	orders := []response.Order{}
	err = json.NewDecoder(resp.Body).Decode(&orders)
	if err != nil {
		err = fmt.Errorf("failed decoding orders response with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	for i := range orders {
		orders[i].Origin = response.OriginRemote
	}
	logger.Info().Msgf("found %d orders in order-service", len(orders))

	return orders, nil
}
