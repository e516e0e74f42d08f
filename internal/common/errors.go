package common

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// AppError is a business-rule violation carrying an HTTP status hint. It
// crosses the transaction boundary unchanged so the HTTP layer can tell
// client-actionable failures apart from infrastructure faults.
type AppError struct {
	Code    string
	Message string
	Status  int
}

func (e *AppError) Error() string {
	return e.Message
}

func NewProductNotFoundError(productID int64) *AppError {
	return &AppError{
		Code:    "PRODUCT_NOT_FOUND",
		Message: fmt.Sprintf("Product with ID %d not found", productID),
		Status:  http.StatusBadRequest,
	}
}

func NewInsufficientStockError(productName string, requested, available int) *AppError {
	return &AppError{
		Code:    "INSUFFICIENT_STOCK",
		Message: fmt.Sprintf("Insufficient stock for product: %s (requested %d, available %d)", productName, requested, available),
		Status:  http.StatusBadRequest,
	}
}

func NewInvalidTransitionError(from, to string) *AppError {
	return &AppError{
		Code:    "INVALID_STATUS_TRANSITION",
		Message: fmt.Sprintf("cannot change order status from %s to %s", from, to),
		Status:  http.StatusConflict,
	}
}

// ErrorResponse is the standard error envelope for back-office routes.
type ErrorResponse struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error"`
}

func CreateErrorResponse(code, message string, details map[string]string) *ErrorResponse {
	var resp ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	resp.Error.Details = details
	return &resp
}

// SendValidationError sends a single-field validation error response.
func SendValidationError(c echo.Context, field, message string) error {
	return c.JSON(http.StatusBadRequest, CreateErrorResponse("VALIDATION_ERROR", "Validation failed", map[string]string{field: message}))
}

// SendClientError sends a client error response.
func SendClientError(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, CreateErrorResponse("CLIENT_ERROR", message, nil))
}

// SendServerError sends a server error response.
func SendServerError(c echo.Context, message string) error {
	return c.JSON(http.StatusInternalServerError, CreateErrorResponse("SERVER_ERROR", message, nil))
}

// SendNotFoundError sends a not found error response.
func SendNotFoundError(c echo.Context, resource string) error {
	return c.JSON(http.StatusNotFound, CreateErrorResponse("NOT_FOUND", fmt.Sprintf("%s not found", resource), nil))
}

// SendUnauthorizedError sends an unauthorized error response.
func SendUnauthorizedError(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, CreateErrorResponse("UNAUTHORIZED", "Unauthorized access", nil))
}
