package response

import (
	"github.com/shopspring/decimal"

	"github.com/Alturino/bookstore/internal/cart/store"
)

type Cart struct {
	Items      []store.LineItem `json:"items"`
	TotalItems int32            `json:"total_items"`
	Subtotal   decimal.Decimal  `json:"subtotal"`
}

func FromSnapshot(snapshot store.Snapshot) Cart {
	items := snapshot.Items
	if items == nil {
		items = []store.LineItem{}
	}
	return Cart{
		Items:      items,
		TotalItems: snapshot.TotalItems,
		Subtotal:   snapshot.Subtotal,
	}
}
