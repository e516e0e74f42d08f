package repositories

import (
	"context"

	"scentlab/internal/models"
	"scentlab/pkg/database"

	"github.com/jackc/pgx/v5"
)

type OrderItemRepository interface {
	Create(ctx context.Context, item *models.OrderItem) error
	ListByOrderID(ctx context.Context, orderID int64) ([]*models.OrderItem, error)

	WithTx(tx pgx.Tx) OrderItemRepository
}

type orderItemRepo struct {
	db database.Querier
}

func NewOrderItemRepository(db database.Querier) OrderItemRepository {
	return &orderItemRepo{db: db}
}

func (r *orderItemRepo) WithTx(tx pgx.Tx) OrderItemRepository {
	return &orderItemRepo{db: tx}
}

func (r *orderItemRepo) Create(ctx context.Context, item *models.OrderItem) error {
	query := `
		INSERT INTO order_items (order_id, product_id, quantity, price_at_purchase)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	return r.db.QueryRow(ctx, query, item.OrderID, item.ProductID, item.Quantity, item.PriceAtPurchase).Scan(&item.ID)
}

// ListByOrderID returns the order's items joined to the current product name
// and primary image for display. price_at_purchase stays the frozen value
// recorded at placement.
func (r *orderItemRepo) ListByOrderID(ctx context.Context, orderID int64) ([]*models.OrderItem, error) {
	query := `
		SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.price_at_purchase,
		       p.name,
		       COALESCE((
		           SELECT pi.object_name FROM product_images pi
		           WHERE pi.product_id = p.id AND pi.is_primary = true
		           ORDER BY pi.sort_order ASC LIMIT 1
		       ), '')
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = $1
		ORDER BY oi.id ASC
	`
	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.OrderItem
	for rows.Next() {
		item := &models.OrderItem{}
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.PriceAtPurchase, &item.ProductName, &item.ProductImage); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
