package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/bookstore/catalog/pkg/response"
	commonErrors "github.com/Alturino/bookstore/internal/common/errors"
)

func TestCatalogClientFindById(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/books/42", r.URL.Path)
			json.NewEncoder(w).Encode(response.Book{
				Id:     "42",
				Title:  "Godan",
				Author: "Munshi Premchand",
				Price:  decimal.NewFromInt(299),
			})
		}),
	)
	defer server.Close()

	client := NewCatalogClient(server.URL)
	book, err := client.FindById(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, "42", book.Id)
	assert.Equal(t, "Godan", book.Title)
	assert.True(t, book.Price.Equal(decimal.NewFromInt(299)))
}

func TestCatalogClientFindByIdNotFound(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}),
	)
	defer server.Close()

	client := NewCatalogClient(server.URL)
	_, err := client.FindById(context.Background(), "missing")
	assert.ErrorIs(t, err, commonErrors.ErrBookNotFound)
}

func TestCatalogClientList(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/books", r.URL.Path)
			assert.Equal(t, "1", r.URL.Query().Get("page"))
			assert.Equal(t, "12", r.URL.Query().Get("size"))
			json.NewEncoder(w).Encode(response.Page{
				Books:      []response.Book{{Id: "1", Title: "Godan"}},
				Page:       1,
				PageSize:   12,
				TotalBooks: 13,
			})
		}),
	)
	defer server.Close()

	client := NewCatalogClient(server.URL)
	page, err := client.List(context.Background(), 1, 12)
	require.NoError(t, err)
	require.Len(t, page.Books, 1)
	assert.Equal(t, 13, page.TotalBooks)
}

func TestCatalogClientRemoteDown(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	client := NewCatalogClient(server.URL)
	_, err := client.List(context.Background(), 0, 12)
	assert.Error(t, err)
}
