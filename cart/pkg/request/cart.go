package request

import (
	"github.com/shopspring/decimal"
)

type AddItem struct {
	BookId   string          `validate:"required"       json:"book_id"`
	Title    string          `validate:"required"       json:"title"`
	Author   string          `validate:"required"       json:"author"`
	ImageUrl string          `                          json:"image_url"`
	Isbn     string          `                          json:"isbn"`
	Price    decimal.Decimal `validate:"required"       json:"price"`
	Quantity int32           `validate:"omitempty,gte=1" json:"quantity"`
}

type UpdateQuantity struct {
	Quantity int32 `validate:"required,gte=1" json:"quantity"`
}
