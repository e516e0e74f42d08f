package models

import "github.com/shopspring/decimal"

// OrderItem is a priced snapshot of one product inside one order.
// PriceAtPurchase is frozen at placement time and never follows later
// catalog price changes. ProductName and ProductImage are joined from the
// current catalog for display only.
type OrderItem struct {
	ID              int64           `json:"id" db:"id"`
	OrderID         int64           `json:"order_id" db:"order_id"`
	ProductID       int64           `json:"product_id" db:"product_id"`
	Quantity        int             `json:"quantity" db:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase" db:"price_at_purchase"`

	ProductName  string `json:"product_name" db:"-"`
	ProductImage string `json:"product_image" db:"-"`
}

// Subtotal returns quantity x price_at_purchase.
func (i *OrderItem) Subtotal() decimal.Decimal {
	return i.PriceAtPurchase.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
