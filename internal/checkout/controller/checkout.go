package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/bookstore/checkout/pkg/request"
	"github.com/Alturino/bookstore/internal/checkout/otel"
	"github.com/Alturino/bookstore/internal/checkout/service"
	commonErrors "github.com/Alturino/bookstore/internal/common/errors"
	commonHttp "github.com/Alturino/bookstore/internal/common/http"
	"github.com/Alturino/bookstore/internal/log"
)

type CheckoutController struct {
	service *service.CheckoutService
}

func AttachCheckoutController(mux *mux.Router, service *service.CheckoutService) {
	controller := CheckoutController{service: service}

	router := mux.PathPrefix("/checkout").Subrouter()
	router.HandleFunc("", controller.Prefill).Methods(http.MethodGet)
	router.HandleFunc("", controller.Checkout).Methods(http.MethodPost)
}

func (t CheckoutController) Prefill(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CheckoutController Prefill")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CheckoutController Prefill").
		Str(log.KeyProcess, "prefilling checkout form").
		Logger()

	logger.Info().Msg("prefilling checkout form")
	c = logger.WithContext(c)
	prefill := t.service.Prefill(c)
	logger.Info().Msg("prefilled checkout form")

	commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "checkout form defaults",
		"data": map[string]interface{}{
			"checkout": prefill,
		},
	})
}

func (t CheckoutController) Checkout(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CheckoutController Checkout")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CheckoutController Checkout").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding requestbody").Logger()
	logger.Info().Msg("decoding requestbody")
	reqBody := request.Checkout{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("decoded request body")

	logger = logger.With().Str(log.KeyProcess, "validating requestbody").Logger()
	logger.Info().Msg("validating request body")
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.StructCtx(c, reqBody); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("validated request body")

	logger = logger.With().Str(log.KeyProcess, "submitting checkout").Logger()
	logger.Info().Msg("submitting checkout")
	c = logger.WithContext(c)
	confirmation, err := t.service.Checkout(c, reqBody)
	if err != nil {
		err = fmt.Errorf("failed submitting checkout with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		statusCode := http.StatusInternalServerError
		switch {
		case errors.Is(err, commonErrors.ErrEmptyCart):
			statusCode = http.StatusBadRequest
		case errors.Is(err, commonErrors.ErrCheckoutInFlight):
			statusCode = http.StatusConflict
		case errors.Is(err, commonErrors.ErrCheckoutFailed):
			statusCode = http.StatusBadGateway
		}
		commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": statusCode,
			"message":    err.Error(),
		})
		return
	}
	logger = logger.With().
		Str(log.KeyOrderID, confirmation.OrderId).
		Str(log.KeyOrderNumber, confirmation.OrderNumber).
		Logger()
	logger.Info().Msg("submitted checkout")

	commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusCreated,
		"message":    fmt.Sprintf("order=%s placed", confirmation.OrderNumber),
		"data": map[string]interface{}{
			"confirmation": confirmation,
		},
	})
}
