package models

import "time"

// ProductImage references an object stored in MinIO. ObjectName is the
// bucket-relative key; presigned URLs are resolved at the handler layer.
type ProductImage struct {
	ID         int64     `json:"id" db:"id"`
	ProductID  int64     `json:"product_id" db:"product_id"`
	ObjectName string    `json:"object_name" db:"object_name"`
	IsPrimary  bool      `json:"is_primary" db:"is_primary"`
	SortOrder  int       `json:"sort_order" db:"sort_order"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
