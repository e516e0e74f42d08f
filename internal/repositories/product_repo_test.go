package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type ProductRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    ProductRepository
	context context.Context
}

func (suite *ProductRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewProductRepository(mock)
	suite.context = context.Background()
}

func (suite *ProductRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestProductRepoTestSuite(t *testing.T) {
	suite.Run(t, new(ProductRepoTestSuite))
}

func productRows() *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows([]string{
		"id", "category_id", "name", "slug", "description", "brand", "scent_notes",
		"volume_ml", "price", "stock_quantity", "is_active", "created_at", "updated_at",
	}).AddRow(
		int64(1), (*int64)(nil), "Amber Oud", "amber-oud", "Warm amber", "Scentlab", "amber, oud",
		100, decimal.RequireFromString("120.50"), 10, true, now, now,
	)
}

func (suite *ProductRepoTestSuite) TestGetActiveByID_Found() {
	suite.mock.ExpectQuery(`SELECT .+ FROM products WHERE id = \$1 AND is_active = true`).
		WithArgs(int64(1)).
		WillReturnRows(productRows())

	product, err := suite.repo.GetActiveByID(suite.context, 1)

	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), product)
	assert.Equal(suite.T(), "Amber Oud", product.Name)
	assert.True(suite.T(), product.Price.Equal(decimal.RequireFromString("120.50")))
	assert.Equal(suite.T(), 10, product.StockQuantity)
}

func (suite *ProductRepoTestSuite) TestGetActiveByID_NotFoundIsNilNil() {
	suite.mock.ExpectQuery(`SELECT .+ FROM products WHERE id = \$1 AND is_active = true`).
		WithArgs(int64(42)).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	product, err := suite.repo.GetActiveByID(suite.context, 42)

	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), product)
}

func (suite *ProductRepoTestSuite) TestDecrementStock_Debited() {
	suite.mock.ExpectExec(`UPDATE products\s+SET stock_quantity = stock_quantity - \$2`).
		WithArgs(int64(1), 2).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	debited, err := suite.repo.DecrementStock(suite.context, 1, 2)

	assert.NoError(suite.T(), err)
	assert.True(suite.T(), debited)
}

func (suite *ProductRepoTestSuite) TestDecrementStock_GuardRejectsOverdraw() {
	// stock_quantity >= $2 filtered the row out, so nothing was updated.
	suite.mock.ExpectExec(`UPDATE products\s+SET stock_quantity = stock_quantity - \$2`).
		WithArgs(int64(1), 100).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	debited, err := suite.repo.DecrementStock(suite.context, 1, 100)

	assert.NoError(suite.T(), err)
	assert.False(suite.T(), debited)
}

func (suite *ProductRepoTestSuite) TestDecrementStock_QueryError() {
	suite.mock.ExpectExec(`UPDATE products\s+SET stock_quantity = stock_quantity - \$2`).
		WithArgs(int64(1), 2).
		WillReturnError(errors.New("connection reset"))

	debited, err := suite.repo.DecrementStock(suite.context, 1, 2)

	assert.Error(suite.T(), err)
	assert.False(suite.T(), debited)
}

func (suite *ProductRepoTestSuite) TestIncrementStock() {
	suite.mock.ExpectExec(`UPDATE products SET stock_quantity = stock_quantity \+ \$2`).
		WithArgs(int64(1), 3).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.IncrementStock(suite.context, 1, 3)

	assert.NoError(suite.T(), err)
}

func (suite *ProductRepoTestSuite) TestDeactivate() {
	suite.mock.ExpectExec(`UPDATE products SET is_active = false`).
		WithArgs(int64(1)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.Deactivate(suite.context, 1)

	assert.NoError(suite.T(), err)
}

func (suite *ProductRepoTestSuite) TestList_FiltersByCategoryAndActive() {
	categoryID := int64(2)
	suite.mock.ExpectQuery(`SELECT .+ FROM products WHERE is_active = true AND category_id = \$1 ORDER BY created_at DESC LIMIT \$2 OFFSET \$3`).
		WithArgs(categoryID, 20, 0).
		WillReturnRows(productRows())

	products, err := suite.repo.List(suite.context, true, &categoryID, 20, 0)

	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), products, 1)
}
