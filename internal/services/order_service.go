package services

import (
	"context"
	"fmt"
	"log"

	"scentlab/internal/common"
	"scentlab/internal/models"
	"scentlab/internal/repositories"
	"scentlab/pkg/database"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// OrderServiceInterface defines the order operations exposed to handlers.
type OrderServiceInterface interface {
	PlaceOrder(ctx context.Context, req *models.PlaceOrderRequest) (*models.Order, error)
	GetByNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	ListByEmail(ctx context.Context, email string) ([]*models.Order, error)
	List(ctx context.Context, status string, limit, offset int) ([]*models.Order, error)
	UpdateStatus(ctx context.Context, orderID int64, status string) error
}

// maxPlaceAttempts bounds order-number regeneration when an insert hits the
// order_number unique index.
const maxPlaceAttempts = 3

type orderService struct {
	txm           database.TxManager
	orderRepo     repositories.OrderRepository
	orderItemRepo repositories.OrderItemRepository
	productRepo   repositories.ProductRepository
}

// NewOrderService creates a new order service instance.
func NewOrderService(txm database.TxManager, orderRepo repositories.OrderRepository, orderItemRepo repositories.OrderItemRepository, productRepo repositories.ProductRepository) OrderServiceInterface {
	return &orderService{
		txm:           txm,
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
		productRepo:   productRepo,
	}
}

// ValidatePlaceOrderRequest checks the request shape before any transaction
// is opened. It returns one message per failed field.
func ValidatePlaceOrderRequest(req *models.PlaceOrderRequest) []string {
	var errs []string
	if err := common.ValidateStringLength(req.CustomerName, "customer_name", 2, 255); err != nil {
		errs = append(errs, err.Error())
	}
	if err := common.ValidateEmail(req.CustomerEmail, "customer_email"); err != nil {
		errs = append(errs, err.Error())
	}
	if err := common.ValidateStringLength(req.CustomerPhone, "customer_phone", 10, 20); err != nil {
		errs = append(errs, err.Error())
	}
	if err := common.ValidateStringLength(req.ShippingAddress, "shipping_address", 10, 0); err != nil {
		errs = append(errs, err.Error())
	}
	if len(req.Items) == 0 {
		errs = append(errs, "items must contain at least one entry")
	}
	for i, item := range req.Items {
		if item.ProductID < 1 {
			errs = append(errs, fmt.Sprintf("items[%d].product_id must be a positive integer", i))
		}
		if item.Quantity < 1 {
			errs = append(errs, fmt.Sprintf("items[%d].quantity must be a positive integer", i))
		}
	}
	if err := common.ValidateOptionalString(req.Notes, "notes", 2000); err != nil {
		errs = append(errs, err.Error())
	}
	return errs
}

// PlaceOrder validates every line item against the live catalog, snapshots
// prices, creates the order with its items and debits stock, all inside one
// transaction. Any failure rolls the whole unit back and surfaces the
// original error; a duplicate order number retries with a fresh one.
func (s *orderService) PlaceOrder(ctx context.Context, req *models.PlaceOrderRequest) (*models.Order, error) {
	if req.PaymentMethod == "" {
		req.PaymentMethod = "qr_code"
	}

	var placed *models.Order
	var err error
	for attempt := 1; attempt <= maxPlaceAttempts; attempt++ {
		orderNumber := NewOrderNumber()
		placed, err = s.placeOnce(ctx, req, orderNumber)
		if err == nil {
			return placed, nil
		}
		if !database.IsUniqueViolation(err, "orders_order_number_key") {
			return nil, err
		}
		log.Printf("WARN: order number collision on %s (attempt %d), regenerating", orderNumber, attempt)
	}
	return nil, err
}

func (s *orderService) placeOnce(ctx context.Context, req *models.PlaceOrderRequest, orderNumber string) (*models.Order, error) {
	var placed *models.Order

	err := s.txm.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		products := s.productRepo.WithTx(tx)
		orders := s.orderRepo.WithTx(tx)
		orderItems := s.orderItemRepo.WithTx(tx)

		totalAmount := decimal.Zero
		validated := make([]*models.OrderItem, 0, len(req.Items))

		for _, item := range req.Items {
			product, err := products.GetActiveByID(ctx, item.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return common.NewProductNotFoundError(item.ProductID)
			}
			if product.StockQuantity < item.Quantity {
				return common.NewInsufficientStockError(product.Name, item.Quantity, product.StockQuantity)
			}

			// Price snapshot: frozen at placement, never follows later
			// catalog price changes.
			validated = append(validated, &models.OrderItem{
				ProductID:       product.ID,
				Quantity:        item.Quantity,
				PriceAtPurchase: product.Price,
				ProductName:     product.Name,
			})
			totalAmount = totalAmount.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}

		order := &models.Order{
			OrderNumber:     orderNumber,
			CustomerName:    req.CustomerName,
			CustomerEmail:   req.CustomerEmail,
			CustomerPhone:   req.CustomerPhone,
			ShippingAddress: req.ShippingAddress,
			TotalAmount:     totalAmount,
			PaymentMethod:   req.PaymentMethod,
			Notes:           req.Notes,
			Status:          models.OrderStatusPending,
		}
		if err := orders.Create(ctx, order); err != nil {
			return err
		}

		for _, item := range validated {
			item.OrderID = order.ID
			if err := orderItems.Create(ctx, item); err != nil {
				return err
			}
			// The conditional debit re-checks availability at write time;
			// a zero row count means a concurrent placement drained the
			// stock after our read.
			debited, err := products.DecrementStock(ctx, item.ProductID, item.Quantity)
			if err != nil {
				return err
			}
			if !debited {
				// The earlier read is stale at this point; re-read so the
				// error reports what is actually left.
				fresh, err := products.GetActiveByID(ctx, item.ProductID)
				if err != nil {
					return err
				}
				available := 0
				if fresh != nil {
					available = fresh.StockQuantity
				}
				return common.NewInsufficientStockError(item.ProductName, item.Quantity, available)
			}
		}

		// Re-read for canonical stored values.
		fresh, err := orders.GetByNumber(ctx, orderNumber)
		if err != nil {
			return err
		}
		items, err := orderItems.ListByOrderID(ctx, fresh.ID)
		if err != nil {
			return err
		}
		fresh.Items = items
		placed = fresh
		return nil
	})
	if err != nil {
		return nil, err
	}
	return placed, nil
}

// GetByNumber retrieves an order with its line items, or nil when no such
// order number exists.
func (s *orderService) GetByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	order, err := s.orderRepo.GetByNumber(ctx, orderNumber)
	if err != nil || order == nil {
		return nil, err
	}
	items, err := s.orderItemRepo.ListByOrderID(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

// ListByEmail returns a customer's orders newest first, items attached.
func (s *orderService) ListByEmail(ctx context.Context, email string) ([]*models.Order, error) {
	orders, err := s.orderRepo.ListByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	for _, order := range orders {
		items, err := s.orderItemRepo.ListByOrderID(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		order.Items = items
	}
	return orders, nil
}

func (s *orderService) List(ctx context.Context, status string, limit, offset int) ([]*models.Order, error) {
	return s.orderRepo.List(ctx, status, limit, offset)
}

// UpdateStatus applies an admin status transition. Cancelling an order that
// has not shipped restores the debited stock inside the same transaction.
func (s *orderService) UpdateStatus(ctx context.Context, orderID int64, status string) error {
	return s.txm.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		orders := s.orderRepo.WithTx(tx)
		products := s.productRepo.WithTx(tx)
		orderItems := s.orderItemRepo.WithTx(tx)

		order, err := orders.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return &common.AppError{Code: "ORDER_NOT_FOUND", Message: "order not found", Status: 404}
		}
		if !order.CanTransitionTo(status) {
			return common.NewInvalidTransitionError(order.Status, status)
		}

		if status == models.OrderStatusCancelled &&
			(order.Status == models.OrderStatusPending || order.Status == models.OrderStatusPaid) {
			items, err := orderItems.ListByOrderID(ctx, order.ID)
			if err != nil {
				return err
			}
			for _, item := range items {
				if err := products.IncrementStock(ctx, item.ProductID, item.Quantity); err != nil {
					return err
				}
			}
		}

		return orders.UpdateStatus(ctx, order.ID, status)
	})
}
