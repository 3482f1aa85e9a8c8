package response

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusShipped    Status = "SHIPPED"
	StatusDelivered  Status = "DELIVERED"
	StatusCancelled  Status = "CANCELLED"
)

// Origin marks where an order record lives. Fallback orders are invisible to
// the remote system; tagging them keeps the divergence observable for a later
// reconciliation pass.
type Origin string

const (
	OriginRemote Origin = "remote"
	OriginLocal  Origin = "local"
)

type Customer struct {
	Id    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Order struct {
	Id              string          `json:"id"`
	OrderNumber     string          `json:"order_number"`
	Customer        Customer        `json:"customer"`
	Items           []OrderItem     `json:"items"`
	ShippingAddress string          `json:"shipping_address"`
	Notes           string          `json:"notes,omitempty"`
	TrackingNumber  string          `json:"tracking_number,omitempty"`
	Status          Status          `json:"status"`
	Origin          Origin          `json:"origin"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// OrderItem carries a denormalized snapshot of the cart line so the order can
// be displayed without the catalog.
type OrderItem struct {
	BookId   string          `json:"book_id"`
	Title    string          `json:"title"`
	Author   string          `json:"author"`
	ImageUrl string          `json:"image_url,omitempty"`
	Isbn     string          `json:"isbn,omitempty"`
	Price    decimal.Decimal `json:"price"`
	Quantity int32           `json:"quantity"`
}
