package request

import (
	"github.com/shopspring/decimal"
)

// CreateOrder is the submission payload sent to the order service. CustomerId
// is empty for guest checkout.
type CreateOrder struct {
	CustomerId      string          `                        json:"customer_id,omitempty"`
	ShippingAddress string          `                        json:"shipping_address"`
	Notes           string          `                        json:"notes,omitempty"`
	TotalAmount     decimal.Decimal `validate:"required"     json:"total_amount"`
	LineItems       []LineItem      `validate:"required,gt=0" json:"line_items"`
}

type LineItem struct {
	BookId   string          `validate:"required"       json:"book_id"`
	Price    decimal.Decimal `validate:"required"       json:"price"`
	Quantity int32           `validate:"required,gte=1" json:"quantity"`
}
