package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"scentlab/internal/models"
	"scentlab/pkg/database"

	"github.com/jackc/pgx/v5"
)

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	GetBySlug(ctx context.Context, slug string) (*models.Product, error)
	GetActiveByID(ctx context.Context, id int64) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Deactivate(ctx context.Context, id int64) error
	List(ctx context.Context, activeOnly bool, categoryID *int64, limit, offset int) ([]*models.Product, error)
	DecrementStock(ctx context.Context, id int64, quantity int) (bool, error)
	IncrementStock(ctx context.Context, id int64, quantity int) error
	ListLowStock(ctx context.Context, threshold int) ([]*models.Product, error)

	WithTx(tx pgx.Tx) ProductRepository
}

type productRepo struct {
	db database.Querier
}

func NewProductRepository(db database.Querier) ProductRepository {
	return &productRepo{db: db}
}

// WithTx returns a copy of the repository bound to the transaction.
func (r *productRepo) WithTx(tx pgx.Tx) ProductRepository {
	return &productRepo{db: tx}
}

const productColumns = `id, category_id, name, slug, description, brand, scent_notes, volume_ml, price, stock_quantity, is_active, created_at, updated_at`

func scanProduct(row pgx.Row) (*models.Product, error) {
	product := &models.Product{}
	err := row.Scan(&product.ID, &product.CategoryID, &product.Name, &product.Slug, &product.Description, &product.Brand, &product.ScentNotes, &product.VolumeML, &product.Price, &product.StockQuantity, &product.IsActive, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (r *productRepo) Create(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (category_id, name, slug, description, brand, scent_notes, volume_ml, price, stock_quantity, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRow(ctx, query, product.CategoryID, product.Name, product.Slug, product.Description, product.Brand, product.ScentNotes, product.VolumeML, product.Price, product.StockQuantity, product.IsActive).
		Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
}

func (r *productRepo) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)
	product, err := scanProduct(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return product, err
}

func (r *productRepo) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE slug = $1 AND is_active = true`, productColumns)
	product, err := scanProduct(r.db.QueryRow(ctx, query, slug))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return product, err
}

// GetActiveByID is the catalog lookup used during order placement. Absent
// and inactive products are both reported as (nil, nil), not as errors.
func (r *productRepo) GetActiveByID(ctx context.Context, id int64) (*models.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1 AND is_active = true`, productColumns)
	product, err := scanProduct(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return product, err
}

func (r *productRepo) Update(ctx context.Context, product *models.Product) error {
	query := `
		UPDATE products
		SET category_id = $1, name = $2, slug = $3, description = $4, brand = $5, scent_notes = $6, volume_ml = $7, price = $8, is_active = $9, updated_at = NOW()
		WHERE id = $10
	`
	_, err := r.db.Exec(ctx, query, product.CategoryID, product.Name, product.Slug, product.Description, product.Brand, product.ScentNotes, product.VolumeML, product.Price, product.IsActive, product.ID)
	return err
}

// Deactivate soft-deletes a product. Rows are never removed because order
// items keep a foreign key to them.
func (r *productRepo) Deactivate(ctx context.Context, id int64) error {
	query := `UPDATE products SET is_active = false, updated_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *productRepo) List(ctx context.Context, activeOnly bool, categoryID *int64, limit, offset int) ([]*models.Product, error) {
	var conditions []string
	args := []interface{}{}
	if activeOnly {
		conditions = append(conditions, "is_active = true")
	}
	if categoryID != nil {
		args = append(args, *categoryID)
		conditions = append(conditions, fmt.Sprintf("category_id = $%d", len(args)))
	}
	query := fmt.Sprintf(`SELECT %s FROM products`, productColumns)
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
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

	var products []*models.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

// DecrementStock debits stock as a single conditional statement. The
// stock_quantity >= $2 guard makes the debit safe under concurrent
// placements; a false return means another transaction won the race.
func (r *productRepo) DecrementStock(ctx context.Context, id int64, quantity int) (bool, error) {
	query := `
		UPDATE products
		SET stock_quantity = stock_quantity - $2, updated_at = NOW()
		WHERE id = $1 AND stock_quantity >= $2
	`
	tag, err := r.db.Exec(ctx, query, id, quantity)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *productRepo) IncrementStock(ctx context.Context, id int64, quantity int) error {
	query := `UPDATE products SET stock_quantity = stock_quantity + $2, updated_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id, quantity)
	return err
}

func (r *productRepo) ListLowStock(ctx context.Context, threshold int) ([]*models.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE is_active = true AND stock_quantity <= $1 ORDER BY stock_quantity ASC`, productColumns)
	rows, err := r.db.Query(ctx, query, threshold)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}
