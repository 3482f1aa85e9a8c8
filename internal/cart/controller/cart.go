package controller

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/bookstore/cart/pkg/request"
	"github.com/Alturino/bookstore/cart/pkg/response"
	"github.com/Alturino/bookstore/internal/cart/otel"
	"github.com/Alturino/bookstore/internal/cart/store"
	commonErrors "github.com/Alturino/bookstore/internal/common/errors"
	commonHttp "github.com/Alturino/bookstore/internal/common/http"
	"github.com/Alturino/bookstore/internal/log"
)

type CartController struct {
	store *store.CartStore
}

func AttachCartController(mux *mux.Router, store *store.CartStore) {
	controller := CartController{store: store}

	router := mux.PathPrefix("/cart").Subrouter()
	router.HandleFunc("", controller.GetCart).Methods(http.MethodGet)
	router.HandleFunc("", controller.ClearCart).Methods(http.MethodDelete)
	router.HandleFunc("/items", controller.AddItem).Methods(http.MethodPost)
	router.HandleFunc("/items/{bookId}", controller.UpdateQuantity).Methods(http.MethodPut)
	router.HandleFunc("/items/{bookId}", controller.RemoveItem).Methods(http.MethodDelete)
}

func (t CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController GetCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController GetCart").
		Logger()

	logger.Info().Msg("taking cart snapshot")
	snapshot := t.store.Snapshot()
	logger = logger.With().Int32(log.KeyTotalItems, snapshot.TotalItems).Logger()
	logger.Info().Msg("took cart snapshot")

	commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "cart snapshot",
		"data": map[string]interface{}{
			"cart": response.FromSnapshot(snapshot),
		},
	})
}

func (t CartController) AddItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController AddItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController AddItem").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding requestbody").Logger()
	logger.Info().Msg("decoding requestbody")
	reqBody := request.AddItem{}
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

	logger = logger.With().
		Str(log.KeyProcess, "adding item to cart").
		Str(log.KeyBookID, reqBody.BookId).
		Logger()
	logger.Info().Msg("adding item to cart")
	c = logger.WithContext(c)
	t.store.AddItem(c, &store.Book{
		Id:       reqBody.BookId,
		Title:    reqBody.Title,
		Author:   reqBody.Author,
		ImageUrl: reqBody.ImageUrl,
		Isbn:     reqBody.Isbn,
		Price:    reqBody.Price,
	}, reqBody.Quantity)
	logger.Info().Msg("added item to cart")

	commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    fmt.Sprintf("added bookId=%s to cart", reqBody.BookId),
		"data": map[string]interface{}{
			"cart": response.FromSnapshot(t.store.Snapshot()),
		},
	})
}

func (t CartController) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController UpdateQuantity")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController UpdateQuantity").
		Logger()

	pathValues := mux.Vars(r)
	bookId := pathValues["bookId"]
	logger = logger.With().
		Str(log.KeyBookID, bookId).
		Any(log.KeyPathValues, pathValues).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding requestbody").Logger()
	logger.Info().Msg("decoding requestbody")
	reqBody := request.UpdateQuantity{}
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

	logger = logger.With().
		Str(log.KeyProcess, "updating quantity").
		Int32(log.KeyQuantity, reqBody.Quantity).
		Logger()
	logger.Info().Msg("updating quantity")
	c = logger.WithContext(c)
	t.store.UpdateQuantity(c, bookId, reqBody.Quantity)
	logger.Info().Msg("updated quantity")

	commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    fmt.Sprintf("updated quantity of bookId=%s", bookId),
		"data": map[string]interface{}{
			"cart": response.FromSnapshot(t.store.Snapshot()),
		},
	})
}

func (t CartController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController RemoveItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController RemoveItem").
		Logger()

	bookId := mux.Vars(r)["bookId"]
	logger = logger.With().
		Str(log.KeyBookID, bookId).
		Str(log.KeyProcess, "removing item").
		Logger()

	logger.Info().Msg("removing item")
	c = logger.WithContext(c)
	t.store.RemoveItem(c, bookId)
	logger.Info().Msg("removed item")

	commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    fmt.Sprintf("removed bookId=%s from cart", bookId),
		"data": map[string]interface{}{
			"cart": response.FromSnapshot(t.store.Snapshot()),
		},
	})
}

func (t CartController) ClearCart(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController ClearCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController ClearCart").
		Str(log.KeyProcess, "clearing cart").
		Logger()

	logger.Info().Msg("clearing cart")
	c = logger.WithContext(c)
	t.store.Clear(c)
	logger.Info().Msg("cleared cart")

	commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "cleared cart",
		"data": map[string]interface{}{
			"cart": response.FromSnapshot(t.store.Snapshot()),
		},
	})
}
