package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Alturino/bookstore/catalog/pkg/response"
	"github.com/Alturino/bookstore/internal/catalog/client"
	"github.com/Alturino/bookstore/internal/catalog/otel"
	commonErrors "github.com/Alturino/bookstore/internal/common/errors"
	"github.com/Alturino/bookstore/internal/log"
)

// CatalogService serves book browsing. It prefers the remote catalog and
// falls back to the built-in shelf when the remote is unreachable, so the
// storefront keeps working offline.
type CatalogService struct {
	client *client.CatalogClient
}

func NewCatalogService(client *client.CatalogClient) *CatalogService {
	return &CatalogService{client: client}
}

func (s *CatalogService) List(c context.Context, page int, pageSize int) (response.Page, error) {
	c, span := otel.Tracer.Start(c, "CatalogService List")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CatalogService List").
		Int(log.KeyPage, page).
		Int(log.KeyPageSize, pageSize).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "listing books from catalog-service").Logger()
	logger.Info().Msg("listing books from catalog-service")
	result, err := s.client.List(c, page, pageSize)
	if err != nil {
		err = fmt.Errorf("failed listing books from catalog-service with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())

		logger = logger.With().Str(log.KeyProcess, "listing books from fallback shelf").Logger()
		logger.Info().Msg("listing books from fallback shelf")
		return paginate(fallbackShelf(), page, pageSize), nil
	}
	logger.Info().Msg("listed books from catalog-service")

	return result, nil
}

func (s *CatalogService) Search(
	c context.Context,
	query string,
	page int,
	pageSize int,
) (response.Page, error) {
	c, span := otel.Tracer.Start(c, "CatalogService Search")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CatalogService Search").
		Str(log.KeyQuery, query).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "searching books in catalog-service").Logger()
	logger.Info().Msg("searching books in catalog-service")
	result, err := s.client.Search(c, query, page, pageSize)
	if err != nil {
		err = fmt.Errorf("failed searching books in catalog-service with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())

		logger = logger.With().Str(log.KeyProcess, "searching fallback shelf").Logger()
		logger.Info().Msg("searching fallback shelf")
		matched := []response.Book{}
		needle := strings.ToLower(query)
		for _, book := range fallbackShelf() {
			if strings.Contains(strings.ToLower(book.Title), needle) ||
				strings.Contains(strings.ToLower(book.Author), needle) {
				matched = append(matched, book)
			}
		}
		return paginate(matched, page, pageSize), nil
	}
	logger.Info().Msg("searched books in catalog-service")

	return result, nil
}

func (s *CatalogService) FindById(c context.Context, bookId string) (response.Book, error) {
	c, span := otel.Tracer.Start(c, "CatalogService FindById")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CatalogService FindById").
		Str(log.KeyBookID, bookId).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding book in catalog-service").Logger()
	logger.Info().Msg("finding book in catalog-service")
	book, err := s.client.FindById(c, bookId)
	if err != nil {
		err = fmt.Errorf("failed finding bookId=%s in catalog-service with error=%w", bookId, err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())

		logger = logger.With().Str(log.KeyProcess, "finding book in fallback shelf").Logger()
		logger.Info().Msg("finding book in fallback shelf")
		for _, fallback := range fallbackShelf() {
			if fallback.Id == bookId {
				return fallback, nil
			}
		}
		return response.Book{}, commonErrors.ErrBookNotFound
	}
	logger.Info().Msg("found book in catalog-service")

	return book, nil
}

func paginate(books []response.Book, page int, pageSize int) response.Page {
	if page < 0 {
		page = 0
	}
	if pageSize < 1 {
		pageSize = len(books)
	}
	start := page * pageSize
	if start > len(books) {
		start = len(books)
	}
	end := start + pageSize
	if end > len(books) {
		end = len(books)
	}
	return response.Page{
		Books:      books[start:end],
		Page:       page,
		PageSize:   pageSize,
		TotalBooks: len(books),
	}
}
