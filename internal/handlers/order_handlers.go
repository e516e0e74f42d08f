package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"scentlab/internal/common"
	"scentlab/internal/models"
	"scentlab/internal/services"

	"github.com/labstack/echo/v4"
)

const imageURLExpiry = 1 * time.Hour

// OrderHandlers handles HTTP requests for orders.
type OrderHandlers struct {
	orderService services.OrderServiceInterface
	minioSvc     services.MinioService
	imageBucket  string
}

// NewOrderHandlers creates a new order handlers instance.
func NewOrderHandlers(orderService services.OrderServiceInterface, minioSvc services.MinioService, imageBucket string) *OrderHandlers {
	return &OrderHandlers{
		orderService: orderService,
		minioSvc:     minioSvc,
		imageBucket:  imageBucket,
	}
}

// PlaceOrder handles POST /orders.
func (h *OrderHandlers) PlaceOrder(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.PlaceOrderRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	if validationErrs := services.ValidatePlaceOrderRequest(&req); len(validationErrs) > 0 {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{"errors": validationErrs})
	}

	order, err := h.orderService.PlaceOrder(ctx, &req)
	if err != nil {
		var appErr *common.AppError
		if errors.As(err, &appErr) {
			return c.JSON(appErr.Status, map[string]string{"error": appErr.Message})
		}
		log.Printf("ERROR: order placement failed: %v", err)
		return common.SendServerError(c, "Failed to place order")
	}

	h.resolveImageURLs(order)

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Order placed successfully",
		"order":   order,
	})
}

// GetOrder handles GET /orders/:orderNumber.
func (h *OrderHandlers) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	orderNumber := c.Param("orderNumber")

	order, err := h.orderService.GetByNumber(ctx, orderNumber)
	if err != nil {
		log.Printf("ERROR: order lookup failed for %s: %v", orderNumber, err)
		return common.SendServerError(c, "Failed to retrieve order")
	}
	if order == nil {
		return common.SendNotFoundError(c, "Order")
	}

	h.resolveImageURLs(order)
	return c.JSON(http.StatusOK, order)
}

// ListOrders handles GET /orders?email=.
func (h *OrderHandlers) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()

	email := c.QueryParam("email")
	if err := common.ValidateEmail(email, "email"); err != nil {
		return common.SendValidationError(c, "email", err.Error())
	}

	orders, err := h.orderService.ListByEmail(ctx, email)
	if err != nil {
		log.Printf("ERROR: order list failed for %s: %v", email, err)
		return common.SendServerError(c, "Failed to retrieve orders")
	}
	if orders == nil {
		orders = []*models.Order{}
	}

	for _, order := range orders {
		h.resolveImageURLs(order)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"orders": orders})
}

// AdminListOrders handles GET /admin/orders with status filter + pagination.
func (h *OrderHandlers) AdminListOrders(c echo.Context) error {
	ctx := c.Request().Context()

	status := c.QueryParam("status")
	if status != "" {
		if err := common.ValidateOrderStatus(status); err != nil {
			return common.SendValidationError(c, "status", err.Error())
		}
	}

	limit, offset := parsePagination(c)
	orders, err := h.orderService.List(ctx, status, limit, offset)
	if err != nil {
		log.Printf("ERROR: admin order list failed: %v", err)
		return common.SendServerError(c, "Failed to retrieve orders")
	}
	if orders == nil {
		orders = []*models.Order{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"orders": orders})
}

// AdminUpdateOrderStatus handles PUT /admin/orders/:id/status.
func (h *OrderHandlers) AdminUpdateOrderStatus(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || orderID < 1 {
		return common.SendClientError(c, "Invalid order id")
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := common.ValidateOrderStatus(req.Status); err != nil {
		return common.SendValidationError(c, "status", err.Error())
	}

	if err := h.orderService.UpdateStatus(ctx, orderID, req.Status); err != nil {
		var appErr *common.AppError
		if errors.As(err, &appErr) {
			return c.JSON(appErr.Status, map[string]string{"error": appErr.Message})
		}
		log.Printf("ERROR: order status update failed for %d: %v", orderID, err)
		return common.SendServerError(c, "Failed to update order status")
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Order status updated"})
}

// resolveImageURLs swaps stored object names for presigned GET URLs. A
// failed presign leaves the raw object name blank rather than failing the
// whole response.
func (h *OrderHandlers) resolveImageURLs(order *models.Order) {
	for _, item := range order.Items {
		if item.ProductImage == "" {
			continue
		}
		url, err := h.minioSvc.GetPresignedURL(h.imageBucket, item.ProductImage, imageURLExpiry)
		if err != nil {
			log.Printf("WARN: presign failed for %s: %v", item.ProductImage, err)
			item.ProductImage = ""
			continue
		}
		item.ProductImage = url
	}
}

func parsePagination(c echo.Context) (limit, offset int) {
	limit = 50
	offset = 0
	if v := c.QueryParam("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= 200 {
			limit = parsed
		}
	}
	if v := c.QueryParam("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	return limit, offset
}
