package controller

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/bookstore/internal/catalog/otel"
	"github.com/Alturino/bookstore/internal/catalog/service"
	commonErrors "github.com/Alturino/bookstore/internal/common/errors"
	commonHttp "github.com/Alturino/bookstore/internal/common/http"
	"github.com/Alturino/bookstore/internal/log"
)

type CatalogController struct {
	service *service.CatalogService
}

func AttachCatalogController(mux *mux.Router, service *service.CatalogService) {
	controller := CatalogController{service: service}

	router := mux.PathPrefix("/books").Subrouter()
	router.HandleFunc("", controller.ListBooks).Methods(http.MethodGet)
	router.HandleFunc("/search", controller.SearchBooks).Methods(http.MethodGet)
	router.HandleFunc("/{bookId}", controller.FindBookById).Methods(http.MethodGet)
}

func pageParams(r *http.Request) (page int, pageSize int) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 0 {
		page = 0
	}
	pageSize, err = strconv.Atoi(r.URL.Query().Get("size"))
	if err != nil || pageSize < 1 {
		pageSize = 12
	}
	return page, pageSize
}

func (t CatalogController) ListBooks(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CatalogController ListBooks")
	defer span.End()

	page, pageSize := pageParams(r)
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CatalogController ListBooks").
		Int(log.KeyPage, page).
		Int(log.KeyPageSize, pageSize).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "listing books").Logger()
	logger.Info().Msg("listing books")
	c = logger.WithContext(c)
	result, err := t.service.List(c, page, pageSize)
	if err != nil {
		err = fmt.Errorf("failed listing books with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadGateway,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("listed books")

	commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "listed books",
		"data": map[string]interface{}{
			"page": result,
		},
	})
}

func (t CatalogController) SearchBooks(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CatalogController SearchBooks")
	defer span.End()

	page, pageSize := pageParams(r)
	query := r.URL.Query().Get("query")
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CatalogController SearchBooks").
		Str(log.KeyQuery, query).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "searching books").Logger()
	logger.Info().Msg("searching books")
	c = logger.WithContext(c)
	result, err := t.service.Search(c, query, page, pageSize)
	if err != nil {
		err = fmt.Errorf("failed searching books with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadGateway,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("searched books")

	commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    fmt.Sprintf("searched books with query=%s", query),
		"data": map[string]interface{}{
			"page": result,
		},
	})
}

func (t CatalogController) FindBookById(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CatalogController FindBookById")
	defer span.End()

	bookId := mux.Vars(r)["bookId"]
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CatalogController FindBookById").
		Str(log.KeyBookID, bookId).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding book").Logger()
	logger.Info().Msg("finding book")
	c = logger.WithContext(c)
	book, err := t.service.FindById(c, bookId)
	if err != nil {
		err = fmt.Errorf("failed finding bookId=%s with error=%w", bookId, err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusNotFound,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("found book")

	commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    fmt.Sprintf("bookId=%s found", bookId),
		"data": map[string]interface{}{
			"book": book,
		},
	})
}
