package testhelpers

import (
	"context"
	"errors"
	"os"
	"testing"

	"scentlab/internal/common"
	"scentlab/internal/models"
	"scentlab/internal/repositories"
	"scentlab/internal/services"
	"scentlab/pkg/database"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func placeOrderRequest(items []models.PlaceOrderItem) *models.PlaceOrderRequest {
	return &models.PlaceOrderRequest{
		CustomerName:    "Asha Nair",
		CustomerEmail:   "asha@example.com",
		CustomerPhone:   "9876543210",
		ShippingAddress: "14 Marine Drive, Kochi, Kerala 682031",
		Items:           items,
	}
}

func countRows(t *testing.T, db *TestDB, table string) int {
	t.Helper()

	var n int
	if err := db.Pool.QueryRow(context.Background(), "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return n
}

func TestOrderPlacementAgainstDatabase(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	if os.Getenv("TEST_DATABASE_URL") == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	testDB := SetupTestDB(t, "")
	defer testDB.Cleanup()

	categoryID := SetupTestCategory(t, testDB, "Oud")

	txm := database.NewTxManager(testDB.Pool)
	productRepo := repositories.NewProductRepository(testDB.Pool)
	orderRepo := repositories.NewOrderRepository(testDB.Pool)
	orderItemRepo := repositories.NewOrderItemRepository(testDB.Pool)
	service := services.NewOrderService(txm, orderRepo, orderItemRepo, productRepo)

	t.Run("WithinTxCommits", func(t *testing.T) {
		product := SetupTestProduct(t, testDB, &categoryID, "Oud Royale 100ml", "99.00", 10)

		err := txm.WithinTx(context.Background(), func(ctx context.Context, tx pgx.Tx) error {
			debited, err := productRepo.WithTx(tx).DecrementStock(ctx, product.ID, 4)
			require.NoError(t, err)
			require.True(t, debited)
			return nil
		})
		require.NoError(t, err)

		assert.Equal(t, 6, StockQuantity(t, testDB, product.ID))
	})

	t.Run("WithinTxRollsBackOnError", func(t *testing.T) {
		product := SetupTestProduct(t, testDB, &categoryID, "Oud Intense 100ml", "99.00", 10)

		boom := errors.New("unit of work failed")
		err := txm.WithinTx(context.Background(), func(ctx context.Context, tx pgx.Tx) error {
			debited, err := productRepo.WithTx(tx).DecrementStock(ctx, product.ID, 4)
			require.NoError(t, err)
			require.True(t, debited)
			return boom
		})
		assert.ErrorIs(t, err, boom)

		// The debit ran inside the aborted transaction, so the committed
		// row never changed.
		assert.Equal(t, 10, StockQuantity(t, testDB, product.ID))
	})

	t.Run("PlaceOrderCommitsOrderItemsAndDebit", func(t *testing.T) {
		TruncateOrders(t, testDB)
		product := SetupTestProduct(t, testDB, &categoryID, "Amber Oud 100ml", "120.50", 5)

		placed, err := service.PlaceOrder(context.Background(),
			placeOrderRequest([]models.PlaceOrderItem{{ProductID: product.ID, Quantity: 2}}))
		require.NoError(t, err)
		require.NotNil(t, placed)

		assert.True(t, placed.TotalAmount.Equal(decimal.RequireFromString("241.00")),
			"total %s", placed.TotalAmount)
		assert.Equal(t, models.OrderStatusPending, placed.Status)
		require.Len(t, placed.Items, 1)
		assert.True(t, placed.Items[0].PriceAtPurchase.Equal(decimal.RequireFromString("120.50")))

		stored, err := orderRepo.GetByNumber(context.Background(), placed.OrderNumber)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, 1, countRows(t, testDB, "order_items"))
		assert.Equal(t, 3, StockQuantity(t, testDB, product.ID))
	})

	t.Run("PlaceOrderRollsBackOnUnknownProduct", func(t *testing.T) {
		TruncateOrders(t, testDB)
		product := SetupTestProduct(t, testDB, &categoryID, "Rose Attar 50ml", "59.00", 5)

		_, err := service.PlaceOrder(context.Background(),
			placeOrderRequest([]models.PlaceOrderItem{
				{ProductID: product.ID, Quantity: 1},
				{ProductID: 999999999, Quantity: 1},
			}))

		var appErr *common.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "PRODUCT_NOT_FOUND", appErr.Code)

		assert.Equal(t, 0, countRows(t, testDB, "orders"))
		assert.Equal(t, 0, countRows(t, testDB, "order_items"))
		assert.Equal(t, 5, StockQuantity(t, testDB, product.ID))
	})

	t.Run("PlaceOrderRollsBackOnFailedDebit", func(t *testing.T) {
		TruncateOrders(t, testDB)
		product := SetupTestProduct(t, testDB, &categoryID, "Vetiver Noir 100ml", "80.00", 3)

		// Both lines pass the availability read against stock 3; the second
		// debit trips the stock guard after the first already committed its
		// write inside the transaction.
		_, err := service.PlaceOrder(context.Background(),
			placeOrderRequest([]models.PlaceOrderItem{
				{ProductID: product.ID, Quantity: 2},
				{ProductID: product.ID, Quantity: 2},
			}))

		var appErr *common.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "INSUFFICIENT_STOCK", appErr.Code)

		assert.Equal(t, 0, countRows(t, testDB, "orders"))
		assert.Equal(t, 0, countRows(t, testDB, "order_items"))
		assert.Equal(t, 3, StockQuantity(t, testDB, product.ID))
	})
}
