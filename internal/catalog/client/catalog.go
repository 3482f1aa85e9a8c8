package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Alturino/bookstore/catalog/pkg/response"
	"github.com/Alturino/bookstore/internal/catalog/otel"
	commonErrors "github.com/Alturino/bookstore/internal/common/errors"
	commonHttp "github.com/Alturino/bookstore/internal/common/http"
	"github.com/Alturino/bookstore/internal/log"
)

// CatalogClient talks to the backing catalog REST service. Callers are
// expected to handle its failures; offline fallback lives in the service
// layer, not here.
type CatalogClient struct {
	baseUrl string
}

func NewCatalogClient(baseUrl string) *CatalogClient {
	return &CatalogClient{baseUrl: baseUrl}
}

func (t *CatalogClient) get(c context.Context, path string, out interface{}) error {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CatalogClient get").
		Str(log.KeyRequestURL, t.baseUrl+path).
		Logger()

	req, err := http.NewRequestWithContext(c, http.MethodGet, t.baseUrl+path, nil)
	if err != nil {
		err = fmt.Errorf("failed creating request to catalog-service with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	req.Header.Add(commonHttp.KEY_HEADER_REQUEST_ID, log.RequestIDFromContext(c))

	resp, err := otelhttp.DefaultClient.Do(req)
	if err != nil {
		err = fmt.Errorf("failed calling catalog-service with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return commonErrors.ErrBookNotFound
	}
	if resp.StatusCode != http.StatusOK {
		err = fmt.Errorf("catalog service returned status code=%d", resp.StatusCode)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}

	err = json.NewDecoder(resp.Body).Decode(out)
	if err != nil {
		err = fmt.Errorf("failed decoding catalog response with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	return nil
}

func (t *CatalogClient) List(c context.Context, page int, pageSize int) (response.Page, error) {
	c, span := otel.Tracer.Start(c, "CatalogClient List")
	defer span.End()

	result := response.Page{}
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("size", strconv.Itoa(pageSize))
	err := t.get(c, "/books?"+query.Encode(), &result)
	if err != nil {
		err = fmt.Errorf("failed listing books with error=%w", err)
		commonErrors.HandleError(err, span)
		return response.Page{}, err
	}
	return result, nil
}

func (t *CatalogClient) Search(
	c context.Context,
	searchQuery string,
	page int,
	pageSize int,
) (response.Page, error) {
	c, span := otel.Tracer.Start(c, "CatalogClient Search")
	defer span.End()

	result := response.Page{}
	query := url.Values{}
	query.Set("query", searchQuery)
	query.Set("page", strconv.Itoa(page))
	query.Set("size", strconv.Itoa(pageSize))
	err := t.get(c, "/books/search?"+query.Encode(), &result)
	if err != nil {
		err = fmt.Errorf("failed searching books with error=%w", err)
		commonErrors.HandleError(err, span)
		return response.Page{}, err
	}
	return result, nil
}

func (t *CatalogClient) FindById(c context.Context, bookId string) (response.Book, error) {
	c, span := otel.Tracer.Start(c, "CatalogClient FindById")
	defer span.End()

	result := response.Book{}
	err := t.get(c, "/books/"+url.PathEscape(bookId), &result)
	if err != nil {
		err = fmt.Errorf("failed finding bookId=%s with error=%w", bookId, err)
		commonErrors.HandleError(err, span)
		return response.Book{}, err
	}
	return result, nil
}
