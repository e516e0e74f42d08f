package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

type Order struct {
	ID              int64           `json:"id" db:"id"`
	OrderNumber     string          `json:"order_number" db:"order_number"`
	CustomerName    string          `json:"customer_name" db:"customer_name"`
	CustomerEmail   string          `json:"customer_email" db:"customer_email"`
	CustomerPhone   string          `json:"customer_phone" db:"customer_phone"`
	ShippingAddress string          `json:"shipping_address" db:"shipping_address"`
	TotalAmount     decimal.Decimal `json:"total_amount" db:"total_amount"`
	PaymentMethod   string          `json:"payment_method" db:"payment_method"`
	Notes           *string         `json:"notes" db:"notes"`
	Status          string          `json:"status" db:"status"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`

	Items []*OrderItem `json:"items,omitempty" db:"-"`
}

// CanTransitionTo reports whether a status change is allowed. The lifecycle
// is pending -> paid -> shipped -> delivered, with cancellation permitted
// from any non-terminal status.
func (o *Order) CanTransitionTo(status string) bool {
	if o.Status == OrderStatusDelivered || o.Status == OrderStatusCancelled {
		return false
	}
	if status == OrderStatusCancelled {
		return true
	}
	switch o.Status {
	case OrderStatusPending:
		return status == OrderStatusPaid
	case OrderStatusPaid:
		return status == OrderStatusShipped
	case OrderStatusShipped:
		return status == OrderStatusDelivered
	}
	return false
}

// PlaceOrderRequest is the storefront checkout payload.
type PlaceOrderRequest struct {
	CustomerName    string             `json:"customer_name"`
	CustomerEmail   string             `json:"customer_email"`
	CustomerPhone   string             `json:"customer_phone"`
	ShippingAddress string             `json:"shipping_address"`
	Items           []PlaceOrderItem   `json:"items"`
	PaymentMethod   string             `json:"payment_method"`
	Notes           *string            `json:"notes"`
}

type PlaceOrderItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}
