package services

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// orderNumberPrefix brands every human-facing order code.
const orderNumberPrefix = "PF"

// NewOrderNumber produces a human-readable order code from the low digits of
// the current epoch milliseconds plus a four-digit random suffix, e.g.
// PF573619428107. Collisions are possible under bursty load; the unique
// index on orders.order_number is the actual guarantee, and PlaceOrder
// retries with a fresh number on a uniqueness violation.
func NewOrderNumber() string {
	millis := time.Now().UnixMilli() % 100000000
	suffix := rand.IntN(10000)
	return fmt.Sprintf("%s%08d%04d", orderNumberPrefix, millis, suffix)
}
