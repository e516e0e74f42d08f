package services

import (
	"context"
	"testing"
	"time"

	"scentlab/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockProductImageRepository struct {
	mock.Mock
}

func (m *MockProductImageRepository) Create(ctx context.Context, image *models.ProductImage) error {
	args := m.Called(ctx, image)
	return args.Error(0)
}

func (m *MockProductImageRepository) ListByProductID(ctx context.Context, productID int64) ([]*models.ProductImage, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).([]*models.ProductImage), args.Error(1)
}

func (m *MockProductImageRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductImageRepository) ClearPrimary(ctx context.Context, productID int64) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetProduct(ctx context.Context, slug string) (*models.Product, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockCacheService) SetProduct(ctx context.Context, product *models.Product, ttl time.Duration) error {
	args := m.Called(ctx, product, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteProduct(ctx context.Context, slug string) error {
	args := m.Called(ctx, slug)
	return args.Error(0)
}

func (m *MockCacheService) InvalidateProducts(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCacheService) GetBlogPost(ctx context.Context, slug string) (*models.BlogPost, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BlogPost), args.Error(1)
}

func (m *MockCacheService) SetBlogPost(ctx context.Context, post *models.BlogPost, ttl time.Duration) error {
	args := m.Called(ctx, post, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteBlogPost(ctx context.Context, slug string) error {
	args := m.Called(ctx, slug)
	return args.Error(0)
}

func (m *MockCacheService) GetDashboardStats(ctx context.Context) (map[string]interface{}, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]interface{}), args.Error(1)
}

func (m *MockCacheService) SetDashboardStats(ctx context.Context, stats map[string]interface{}, ttl time.Duration) error {
	args := m.Called(ctx, stats, ttl)
	return args.Error(0)
}

type ProductServiceTestSuite struct {
	suite.Suite
	mockProductRepo *MockProductRepository
	mockImageRepo   *MockProductImageRepository
	mockCache       *MockCacheService
	service         ProductServiceInterface
}

func (suite *ProductServiceTestSuite) SetupTest() {
	suite.mockProductRepo = &MockProductRepository{}
	suite.mockImageRepo = &MockProductImageRepository{}
	suite.mockCache = &MockCacheService{}
	suite.service = NewProductService(suite.mockProductRepo, suite.mockImageRepo, suite.mockCache)
}

func (suite *ProductServiceTestSuite) TearDownTest() {
	suite.mockProductRepo.AssertExpectations(suite.T())
	suite.mockImageRepo.AssertExpectations(suite.T())
	suite.mockCache.AssertExpectations(suite.T())
}

func TestProductServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ProductServiceTestSuite))
}

func (suite *ProductServiceTestSuite) TestCreate_DerivesSlug() {
	product := &models.Product{
		Name:  "Amber Oud 100ml",
		Price: decimal.RequireFromString("120.50"),
	}

	suite.mockProductRepo.On("Create", mock.Anything, product).Return(nil).Once()

	err := suite.service.Create(context.Background(), product)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "amber-oud-100ml", product.Slug)
	assert.True(suite.T(), product.IsActive)
}

func (suite *ProductServiceTestSuite) TestCreate_RejectsNegativePrice() {
	product := &models.Product{
		Name:  "Amber Oud",
		Price: decimal.RequireFromString("-1"),
	}

	err := suite.service.Create(context.Background(), product)

	assert.Error(suite.T(), err)
}

func (suite *ProductServiceTestSuite) TestGetBySlug_CacheHitSkipsDatabase() {
	cached := testProduct(1, "Amber Oud", "120.50", 10)
	suite.mockCache.On("GetProduct", mock.Anything, "amber-oud").Return(cached, nil).Once()

	product, err := suite.service.GetBySlug(context.Background(), "amber-oud")

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), cached, product)
	suite.mockProductRepo.AssertNotCalled(suite.T(), "GetBySlug", mock.Anything, mock.Anything)
}

func (suite *ProductServiceTestSuite) TestGetBySlug_CacheMissLoadsAndCaches() {
	product := testProduct(1, "Amber Oud", "120.50", 10)
	images := []*models.ProductImage{{ID: 1, ProductID: 1, ObjectName: "products/1/a.jpg", IsPrimary: true}}

	suite.mockCache.On("GetProduct", mock.Anything, "amber-oud").Return(nil, nil).Once()
	suite.mockProductRepo.On("GetBySlug", mock.Anything, "amber-oud").Return(product, nil).Once()
	suite.mockImageRepo.On("ListByProductID", mock.Anything, int64(1)).Return(images, nil).Once()
	suite.mockCache.On("SetProduct", mock.Anything, product, productCacheTTL).Return(nil).Once()

	got, err := suite.service.GetBySlug(context.Background(), "amber-oud")

	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), got.Images, 1)
}

func (suite *ProductServiceTestSuite) TestGetBySlug_NotFound() {
	suite.mockCache.On("GetProduct", mock.Anything, "nope").Return(nil, nil).Once()
	suite.mockProductRepo.On("GetBySlug", mock.Anything, "nope").Return(nil, nil).Once()

	product, err := suite.service.GetBySlug(context.Background(), "nope")

	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), product)
}

func (suite *ProductServiceTestSuite) TestUpdate_AppliesOnlyProvidedFields() {
	existing := testProduct(1, "Amber Oud", "120.50", 10)
	existing.Brand = "Scentlab"

	newPrice := decimal.RequireFromString("99.00")
	update := &models.ProductUpdate{Price: &newPrice}

	suite.mockProductRepo.On("GetByID", mock.Anything, int64(1)).Return(existing, nil).Once()
	suite.mockProductRepo.On("Update", mock.Anything, mock.AnythingOfType("*models.Product")).Return(nil).Run(func(args mock.Arguments) {
		updated := args.Get(1).(*models.Product)
		assert.True(suite.T(), updated.Price.Equal(newPrice))
		assert.Equal(suite.T(), "Amber Oud", updated.Name)
		assert.Equal(suite.T(), "Scentlab", updated.Brand)
	}).Once()
	suite.mockCache.On("InvalidateProducts", mock.Anything).Return(nil).Once()

	updated, err := suite.service.Update(context.Background(), 1, update)

	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), updated)
}

func (suite *ProductServiceTestSuite) TestUpdate_UnknownProductIsNilNil() {
	suite.mockProductRepo.On("GetByID", mock.Anything, int64(99)).Return(nil, nil).Once()

	updated, err := suite.service.Update(context.Background(), 99, &models.ProductUpdate{})

	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), updated)
}

func (suite *ProductServiceTestSuite) TestAdjustStock_PositiveDelta() {
	suite.mockProductRepo.On("IncrementStock", mock.Anything, int64(1), 5).Return(nil).Once()
	suite.mockCache.On("InvalidateProducts", mock.Anything).Return(nil).Once()

	err := suite.service.AdjustStock(context.Background(), 1, 5)

	assert.NoError(suite.T(), err)
}

func (suite *ProductServiceTestSuite) TestAdjustStock_NegativeDeltaUsesGuardedDebit() {
	suite.mockProductRepo.On("DecrementStock", mock.Anything, int64(1), 3).Return(true, nil).Once()
	suite.mockCache.On("InvalidateProducts", mock.Anything).Return(nil).Once()

	err := suite.service.AdjustStock(context.Background(), 1, -3)

	assert.NoError(suite.T(), err)
}

func (suite *ProductServiceTestSuite) TestAdjustStock_RejectsUnderflow() {
	suite.mockProductRepo.On("DecrementStock", mock.Anything, int64(1), 100).Return(false, nil).Once()

	err := suite.service.AdjustStock(context.Background(), 1, -100)

	assert.Error(suite.T(), err)
}

func (suite *ProductServiceTestSuite) TestAddImage_PrimaryClearsPrevious() {
	image := &models.ProductImage{ProductID: 1, ObjectName: "products/1/b.jpg", IsPrimary: true}

	suite.mockImageRepo.On("ClearPrimary", mock.Anything, int64(1)).Return(nil).Once()
	suite.mockImageRepo.On("Create", mock.Anything, image).Return(nil).Once()
	suite.mockCache.On("InvalidateProducts", mock.Anything).Return(nil).Once()

	err := suite.service.AddImage(context.Background(), image)

	assert.NoError(suite.T(), err)
}
