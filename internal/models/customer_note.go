package models

import (
	"time"

	"github.com/google/uuid"
)

// CustomerNote is an internal CRM note keyed by customer email, authored by
// a back-office user. Never exposed on storefront routes.
type CustomerNote struct {
	ID            int64     `json:"id" db:"id"`
	CustomerEmail string    `json:"customer_email" db:"customer_email"`
	AuthorID      uuid.UUID `json:"author_id" db:"author_id"`
	Note          string    `json:"note" db:"note"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}
