package testhelpers

import (
	"context"
	"fmt"
	"os"
	"testing"

	"scentlab/internal/common"
	"scentlab/internal/models"
	"scentlab/pkg/database"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// TestDB holds the database connection for testing
type TestDB struct {
	Pool    *pgxpool.Pool
	Cleanup func() error
}

// SetupTestDB creates a pooled connection for testing. It goes through
// database.NewPool so the pool carries the same decimal codec the
// application pool does.
func SetupTestDB(t *testing.T, connString string) *TestDB {
	t.Helper()

	if connString == "" {
		connString = os.Getenv("TEST_DATABASE_URL")
		if connString == "" {
			connString = "host=localhost port=5432 user=postgres password=postgres dbname=scentlab_test sslmode=disable"
		}
	}

	pool, err := database.NewPool(context.Background(), connString)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	return &TestDB{
		Pool: pool,
		Cleanup: func() error {
			pool.Close()
			return nil
		},
	}
}

// SetupTestCategory creates a test category for testing
func SetupTestCategory(t *testing.T, db *TestDB, name string) int64 {
	t.Helper()

	query := `
		INSERT INTO categories (name, slug, description, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id
	`
	var id int64
	err := db.Pool.QueryRow(context.Background(), query, name, slugFor(name), "Test category").Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test category: %v", err)
	}
	return id
}

// SetupTestProduct creates an active test product with the given stock
func SetupTestProduct(t *testing.T, db *TestDB, categoryID *int64, name string, price string, stock int) *models.Product {
	t.Helper()

	product := &models.Product{
		CategoryID:    categoryID,
		Name:          name,
		Slug:          slugFor(name),
		Description:   "Test product description",
		Brand:         "Scentlab",
		ScentNotes:    "amber, sandalwood",
		VolumeML:      100,
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
		IsActive:      true,
	}

	query := `
		INSERT INTO products (category_id, name, slug, description, brand, scent_notes, volume_ml, price, stock_quantity, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	err := db.Pool.QueryRow(context.Background(), query,
		product.CategoryID, product.Name, product.Slug, product.Description, product.Brand,
		product.ScentNotes, product.VolumeML, product.Price, product.StockQuantity, product.IsActive).
		Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		t.Fatalf("Failed to create test product: %v", err)
	}

	return product
}

// StockQuantity reads back the current stock for a product
func StockQuantity(t *testing.T, db *TestDB, productID int64) int {
	t.Helper()

	var stock int
	err := db.Pool.QueryRow(context.Background(), `SELECT stock_quantity FROM products WHERE id = $1`, productID).Scan(&stock)
	if err != nil {
		t.Fatalf("Failed to read stock for product %d: %v", productID, err)
	}
	return stock
}

// TruncateOrders clears order data between tests
func TruncateOrders(t *testing.T, db *TestDB) {
	t.Helper()

	if _, err := db.Pool.Exec(context.Background(), `TRUNCATE order_items, orders RESTART IDENTITY`); err != nil {
		t.Fatalf("Failed to truncate orders: %v", err)
	}
}

var slugSeq int

// slugFor derives a collision-free slug so parallel test runs never trip
// the unique index.
func slugFor(name string) string {
	slugSeq++
	return fmt.Sprintf("%s-%d-%d", common.Slugify(name), os.Getpid(), slugSeq)
}
