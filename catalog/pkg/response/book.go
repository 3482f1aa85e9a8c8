package response

import (
	"github.com/shopspring/decimal"
)

type Book struct {
	Id          string          `json:"id"`
	Title       string          `json:"title"`
	Author      string          `json:"author"`
	Description string          `json:"description,omitempty"`
	ImageUrl    string          `json:"image_url,omitempty"`
	Isbn        string          `json:"isbn,omitempty"`
	Language    string          `json:"language,omitempty"`
	Genre       string          `json:"genre,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       int32           `json:"stock"`
}

type Page struct {
	Books      []Book `json:"books"`
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
	TotalBooks int    `json:"total_books"`
}
