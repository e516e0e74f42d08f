package repositories

import (
	"context"
	"errors"
	"fmt"

	"scentlab/internal/models"
	"scentlab/pkg/database"

	"github.com/jackc/pgx/v5"
)

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id int64) (*models.Order, error)
	GetByNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	ListByEmail(ctx context.Context, email string) ([]*models.Order, error)
	List(ctx context.Context, status string, limit, offset int) ([]*models.Order, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	CountByStatus(ctx context.Context) (map[string]int, error)
	RevenueSince(ctx context.Context, since string) (string, error)

	WithTx(tx pgx.Tx) OrderRepository
}

type orderRepo struct {
	db database.Querier
}

func NewOrderRepository(db database.Querier) OrderRepository {
	return &orderRepo{db: db}
}

func (r *orderRepo) WithTx(tx pgx.Tx) OrderRepository {
	return &orderRepo{db: tx}
}

const orderColumns = `id, order_number, customer_name, customer_email, customer_phone, shipping_address, total_amount, payment_method, notes, status, created_at, updated_at`

func scanOrder(row pgx.Row) (*models.Order, error) {
	order := &models.Order{}
	err := row.Scan(&order.ID, &order.OrderNumber, &order.CustomerName, &order.CustomerEmail, &order.CustomerPhone, &order.ShippingAddress, &order.TotalAmount, &order.PaymentMethod, &order.Notes, &order.Status, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepo) Create(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO orders (order_number, customer_name, customer_email, customer_phone, shipping_address, total_amount, payment_method, notes, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRow(ctx, query, order.OrderNumber, order.CustomerName, order.CustomerEmail, order.CustomerPhone, order.ShippingAddress, order.TotalAmount, order.PaymentMethod, order.Notes, order.Status).
		Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
}

func (r *orderRepo) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE id = $1`, orderColumns)
	order, err := scanOrder(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return order, err
}

func (r *orderRepo) GetByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE order_number = $1`, orderColumns)
	order, err := scanOrder(r.db.QueryRow(ctx, query, orderNumber))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return order, err
}

func (r *orderRepo) ListByEmail(ctx context.Context, email string) ([]*models.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE customer_email = $1 ORDER BY created_at DESC`, orderColumns)
	rows, err := r.db.Query(ctx, query, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func (r *orderRepo) List(ctx context.Context, status string, limit, offset int) ([]*models.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders`, orderColumns)
	args := []interface{}{}
	if status != "" {
		args = append(args, status)
		query += " WHERE status = $1"
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))
	args = append(args, offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	query := `UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.Exec(ctx, query, status, id)
	return err
}

func (r *orderRepo) CountByStatus(ctx context.Context) (map[string]int, error) {
	query := `SELECT status, COUNT(*) FROM orders GROUP BY status`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

// RevenueSince sums non-cancelled order totals from the given date
// (YYYY-MM-DD). The sum is returned as a string to keep numeric precision.
func (r *orderRepo) RevenueSince(ctx context.Context, since string) (string, error) {
	query := `
		SELECT COALESCE(SUM(total_amount), 0)::text
		FROM orders
		WHERE status != 'cancelled' AND created_at >= $1::date
	`
	var revenue string
	err := r.db.QueryRow(ctx, query, since).Scan(&revenue)
	return revenue, err
}
