package controller

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/bookstore/internal/common"
	commonErrors "github.com/Alturino/bookstore/internal/common/errors"
	commonHttp "github.com/Alturino/bookstore/internal/common/http"
	"github.com/Alturino/bookstore/internal/log"
	"github.com/Alturino/bookstore/internal/order/otel"
	"github.com/Alturino/bookstore/internal/order/service"
)

type OrderController struct {
	service *service.OrderService
}

func AttachOrderController(mux *mux.Router, service *service.OrderService) {
	controller := OrderController{service: service}

	router := mux.PathPrefix("/orders").Subrouter()
	router.HandleFunc("", controller.FindByCustomer).Methods(http.MethodGet)
	router.HandleFunc("/{orderId}", controller.FindById).Methods(http.MethodGet)
}

// customerIdFromRequest resolves the caller identity from the session token.
// Guests get an empty id and see local orders only.
func customerIdFromRequest(r *http.Request) string {
	token := common.JwtTokenFromContext(r.Context())
	if token == nil {
		return ""
	}
	userId, err := common.UserIdFromToken(token)
	if err != nil {
		return ""
	}
	return userId.String()
}

func (t OrderController) FindByCustomer(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController FindByCustomer")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderController FindByCustomer").
		Logger()

	customerId := customerIdFromRequest(r)

	logger = logger.With().Str(log.KeyProcess, "listing orders").Logger()
	logger.Info().Msg("listing orders")
	c = logger.WithContext(c)
	orders, err := t.service.FindByCustomer(c, customerId)
	if err != nil {
		err = fmt.Errorf("failed listing orders with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusInternalServerError,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msgf("listed %d orders", len(orders))

	commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "order history",
		"data": map[string]interface{}{
			"orders": orders,
		},
	})
}

func (t OrderController) FindById(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController FindById")
	defer span.End()

	orderId := mux.Vars(r)["orderId"]
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderController FindById").
		Str(log.KeyOrderID, orderId).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding order").Logger()
	logger.Info().Msg("finding order")
	c = logger.WithContext(c)
	order, err := t.service.FindById(c, customerIdFromRequest(r), orderId)
	if err != nil {
		err = fmt.Errorf("failed finding order=%s with error=%w", orderId, err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		statusCode := http.StatusInternalServerError
		if errors.Is(err, commonErrors.ErrOrderNotFound) {
			statusCode = http.StatusNotFound
		}
		commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": statusCode,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("found order")

	commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    fmt.Sprintf("order=%s", orderId),
		"data": map[string]interface{}{
			"order": order,
		},
	})
}
