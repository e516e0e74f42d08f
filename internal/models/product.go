package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID            int64           `json:"id" db:"id"`
	CategoryID    *int64          `json:"category_id" db:"category_id"`
	Name          string          `json:"name" db:"name"`
	Slug          string          `json:"slug" db:"slug"`
	Description   string          `json:"description" db:"description"`
	Brand         string          `json:"brand" db:"brand"`
	ScentNotes    string          `json:"scent_notes" db:"scent_notes"`
	VolumeML      int             `json:"volume_ml" db:"volume_ml"`
	Price         decimal.Decimal `json:"price" db:"price"`
	StockQuantity int             `json:"stock_quantity" db:"stock_quantity"`
	IsActive      bool            `json:"is_active" db:"is_active"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`

	Images []*ProductImage `json:"images,omitempty" db:"-"`
}

// ProductUpdate carries optional fields for partial product updates.
// Nil pointers leave the stored value untouched.
type ProductUpdate struct {
	CategoryID  *int64           `json:"category_id"`
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Brand       *string          `json:"brand"`
	ScentNotes  *string          `json:"scent_notes"`
	VolumeML    *int             `json:"volume_ml"`
	Price       *decimal.Decimal `json:"price"`
	IsActive    *bool            `json:"is_active"`
}
