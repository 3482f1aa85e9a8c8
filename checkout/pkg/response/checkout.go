package response

import (
	"github.com/shopspring/decimal"

	orderResponse "github.com/Alturino/bookstore/order/pkg/response"
)

// Confirmation reports the outcome of a completed checkout. Warnings carry
// soft validation notices that did not block the submission.
type Confirmation struct {
	OrderId      string               `json:"order_id"`
	OrderNumber  string               `json:"order_number"`
	Origin       orderResponse.Origin `json:"origin"`
	Subtotal     decimal.Decimal      `json:"subtotal"`
	ShippingCost decimal.Decimal      `json:"shipping_cost"`
	TotalAmount  decimal.Decimal      `json:"total_amount"`
	Warnings     []string             `json:"warnings,omitempty"`
}
