package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"scentlab/internal/common"
	"scentlab/internal/models"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) PlaceOrder(ctx context.Context, req *models.PlaceOrderRequest) (*models.Order, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderService) GetByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderService) ListByEmail(ctx context.Context, email string) ([]*models.Order, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Order), args.Error(1)
}

func (m *MockOrderService) List(ctx context.Context, status string, limit, offset int) ([]*models.Order, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Order), args.Error(1)
}

func (m *MockOrderService) UpdateStatus(ctx context.Context, orderID int64, status string) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

type MockMinioService struct {
	mock.Mock
}

func (m *MockMinioService) UploadImage(ctx context.Context, bucketName, objectName, contentType string, reader io.Reader, objectSize int64) error {
	args := m.Called(ctx, bucketName, objectName, contentType, reader, objectSize)
	return args.Error(0)
}

func (m *MockMinioService) GetPresignedURL(bucketName, objectName string, expiry time.Duration) (string, error) {
	args := m.Called(bucketName, objectName, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockMinioService) DeleteImage(ctx context.Context, bucketName, objectName string) error {
	args := m.Called(ctx, bucketName, objectName)
	return args.Error(0)
}

func (m *MockMinioService) EnsureBucketExists(ctx context.Context, bucketName string) error {
	args := m.Called(ctx, bucketName)
	return args.Error(0)
}

const placeOrderBody = `{
	"customer_name": "Asha Nair",
	"customer_email": "asha@example.com",
	"customer_phone": "9876543210",
	"shipping_address": "14 Rose Garden Lane, Kochi 682001",
	"items": [{"product_id": 1, "quantity": 2}]
}`

func newOrderHandlersTest() (*OrderHandlers, *MockOrderService, *MockMinioService) {
	orderSvc := &MockOrderService{}
	minioSvc := &MockMinioService{}
	return NewOrderHandlers(orderSvc, minioSvc, "scentlab-images"), orderSvc, minioSvc
}

func jsonRequest(method, target, body string) (*http.Request, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req, httptest.NewRecorder()
}

func TestPlaceOrderHandler_Created(t *testing.T) {
	h, orderSvc, _ := newOrderHandlersTest()
	e := echo.New()

	placed := &models.Order{
		ID:          7,
		OrderNumber: "PF123456780001",
		TotalAmount: decimal.RequireFromString("241.00"),
		Status:      models.OrderStatusPending,
	}
	orderSvc.On("PlaceOrder", mock.Anything, mock.AnythingOfType("*models.PlaceOrderRequest")).Return(placed, nil).Once()

	req, rec := jsonRequest(http.MethodPost, "/v1/orders", placeOrderBody)
	c := e.NewContext(req, rec)

	assert.NoError(t, h.PlaceOrder(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]json.RawMessage
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp, "message")
	assert.Contains(t, resp, "order")

	var order models.Order
	assert.NoError(t, json.Unmarshal(resp["order"], &order))
	assert.Equal(t, "PF123456780001", order.OrderNumber)

	orderSvc.AssertExpectations(t)
}

func TestPlaceOrderHandler_ValidationFailure(t *testing.T) {
	h, orderSvc, _ := newOrderHandlersTest()
	e := echo.New()

	body := `{"customer_name": "A", "customer_email": "bad", "items": []}`
	req, rec := jsonRequest(http.MethodPost, "/v1/orders", body)
	c := e.NewContext(req, rec)

	assert.NoError(t, h.PlaceOrder(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Errors []string `json:"errors"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Errors)

	orderSvc.AssertNotCalled(t, "PlaceOrder", mock.Anything, mock.Anything)
}

func TestPlaceOrderHandler_MalformedJSON(t *testing.T) {
	h, orderSvc, _ := newOrderHandlersTest()
	e := echo.New()

	req, rec := jsonRequest(http.MethodPost, "/v1/orders", `{not json`)
	c := e.NewContext(req, rec)

	assert.NoError(t, h.PlaceOrder(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	orderSvc.AssertNotCalled(t, "PlaceOrder", mock.Anything, mock.Anything)
}

func TestPlaceOrderHandler_BusinessFailure(t *testing.T) {
	h, orderSvc, _ := newOrderHandlersTest()
	e := echo.New()

	orderSvc.On("PlaceOrder", mock.Anything, mock.Anything).
		Return(nil, common.NewInsufficientStockError("Amber Oud", 5, 2)).Once()

	req, rec := jsonRequest(http.MethodPost, "/v1/orders", placeOrderBody)
	c := e.NewContext(req, rec)

	assert.NoError(t, h.PlaceOrder(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]string
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "Amber Oud")

	orderSvc.AssertExpectations(t)
}

func TestPlaceOrderHandler_InfrastructureFailure(t *testing.T) {
	h, orderSvc, _ := newOrderHandlersTest()
	e := echo.New()

	orderSvc.On("PlaceOrder", mock.Anything, mock.Anything).
		Return(nil, errors.New("pq: deadlock detected")).Once()

	req, rec := jsonRequest(http.MethodPost, "/v1/orders", placeOrderBody)
	c := e.NewContext(req, rec)

	assert.NoError(t, h.PlaceOrder(c))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	// Internal detail must not leak to the client.
	assert.NotContains(t, rec.Body.String(), "deadlock")

	orderSvc.AssertExpectations(t)
}

func TestGetOrderHandler_Found(t *testing.T) {
	h, orderSvc, minioSvc := newOrderHandlersTest()
	e := echo.New()

	order := &models.Order{
		ID:          7,
		OrderNumber: "PF123456780001",
		Items: []*models.OrderItem{
			{ProductID: 1, Quantity: 2, ProductName: "Amber Oud", ProductImage: "products/1/a.jpg"},
		},
	}
	orderSvc.On("GetByNumber", mock.Anything, "PF123456780001").Return(order, nil).Once()
	minioSvc.On("GetPresignedURL", "scentlab-images", "products/1/a.jpg", imageURLExpiry).
		Return("https://minio.local/scentlab-images/products/1/a.jpg?sig=x", nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/v1/orders/PF123456780001", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("orderNumber")
	c.SetParamValues("PF123456780001")

	assert.NoError(t, h.GetOrder(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "https://minio.local/")

	orderSvc.AssertExpectations(t)
	minioSvc.AssertExpectations(t)
}

func TestGetOrderHandler_NotFound(t *testing.T) {
	h, orderSvc, _ := newOrderHandlersTest()
	e := echo.New()

	orderSvc.On("GetByNumber", mock.Anything, "PF000000000000").Return(nil, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/v1/orders/PF000000000000", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("orderNumber")
	c.SetParamValues("PF000000000000")

	assert.NoError(t, h.GetOrder(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListOrdersHandler_RequiresEmail(t *testing.T) {
	h, _, _ := newOrderHandlersTest()
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/v1/orders", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	assert.NoError(t, h.ListOrders(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListOrdersHandler_EmptyResultIsEmptyArray(t *testing.T) {
	h, orderSvc, _ := newOrderHandlersTest()
	e := echo.New()

	orderSvc.On("ListByEmail", mock.Anything, "asha@example.com").Return([]*models.Order(nil), nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/v1/orders?email=asha%40example.com", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	assert.NoError(t, h.ListOrders(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"orders": []}`, rec.Body.String())
}

func TestAdminListOrdersHandler_RejectsUnknownStatus(t *testing.T) {
	h, _, _ := newOrderHandlersTest()
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/v1/admin/orders?status=bogus", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	assert.NoError(t, h.AdminListOrders(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminUpdateOrderStatusHandler_Success(t *testing.T) {
	h, orderSvc, _ := newOrderHandlersTest()
	e := echo.New()

	orderSvc.On("UpdateStatus", mock.Anything, int64(7), models.OrderStatusPaid).Return(nil).Once()

	req, rec := jsonRequest(http.MethodPut, "/v1/admin/orders/7/status", `{"status": "paid"}`)
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("7")

	assert.NoError(t, h.AdminUpdateOrderStatus(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	orderSvc.AssertExpectations(t)
}

func TestAdminUpdateOrderStatusHandler_InvalidTransition(t *testing.T) {
	h, orderSvc, _ := newOrderHandlersTest()
	e := echo.New()

	orderSvc.On("UpdateStatus", mock.Anything, int64(7), models.OrderStatusPaid).
		Return(common.NewInvalidTransitionError(models.OrderStatusDelivered, models.OrderStatusPaid)).Once()

	req, rec := jsonRequest(http.MethodPut, "/v1/admin/orders/7/status", `{"status": "paid"}`)
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("7")

	assert.NoError(t, h.AdminUpdateOrderStatus(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAdminUpdateOrderStatusHandler_BadID(t *testing.T) {
	h, _, _ := newOrderHandlersTest()
	e := echo.New()

	req, rec := jsonRequest(http.MethodPut, "/v1/admin/orders/abc/status", `{"status": "paid"}`)
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("abc")

	assert.NoError(t, h.AdminUpdateOrderStatus(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
