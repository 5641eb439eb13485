package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"storefront/common/logger"
	"storefront/models"
	"storefront/repository"
)

type CheckoutItem struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

type CheckoutRequest struct {
	Items         []CheckoutItem `json:"items" binding:"required,dive"`
	PaymentMethod string         `json:"payment_method"`
}

// CheckoutService turns a client-held cart into an order. The whole
// validate-decrement-create sequence runs inside one database transaction
// with row-level locks on the products, so a failing line item leaves no
// partial stock decrements and concurrent checkouts cannot drive stock
// negative.
type CheckoutService struct {
	tx     repository.TxRunner
	orders repository.OrderRepository
}

func NewCheckoutService(tx repository.TxRunner, orders repository.OrderRepository) *CheckoutService {
	return &CheckoutService{
		tx:     tx,
		orders: orders,
	}
}

// Checkout validates the cart against live stock, decrements stock,
// and creates a pending order with price snapshots on every line item.
func (s *CheckoutService) Checkout(ctx context.Context, userID uuid.UUID, req *CheckoutRequest) (*models.Order, *ServiceError) {
	if len(req.Items) == 0 {
		return nil, &ServiceError{StatusCode: http.StatusBadRequest, Message: "Cart is empty"}
	}
	if req.PaymentMethod == "" {
		return nil, &ServiceError{StatusCode: http.StatusBadRequest, Message: "Payment method is required"}
	}

	var created *models.Order

	err := s.tx.RunInTx(ctx, func(products repository.ProductRepository, orders repository.OrderRepository) error {
		total := decimal.Zero
		items := make([]models.OrderItem, 0, len(req.Items))

		for _, item := range req.Items {
			product, err := products.FindByIDForUpdate(ctx, item.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &ServiceError{
						StatusCode: http.StatusNotFound,
						Message:    fmt.Sprintf("Product %s not found", item.ProductID),
					}
				}
				return err
			}

			if product.Stock < item.Quantity {
				return &ServiceError{
					StatusCode: http.StatusBadRequest,
					Message:    fmt.Sprintf("Insufficient stock for %s", product.Name),
				}
			}

			if err := products.DecrementStock(ctx, product.ID, item.Quantity); err != nil {
				return err
			}

			total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
			items = append(items, models.OrderItem{
				ProductID: product.ID,
				Quantity:  item.Quantity,
				Price:     product.Price,
			})
		}

		order := &models.Order{
			ID:            uuid.New(),
			UserID:        userID,
			Total:         total,
			Status:        models.StatusPending,
			PaymentMethod: req.PaymentMethod,
			OrderItems:    items,
		}

		if err := orders.Create(ctx, order); err != nil {
			return err
		}

		created = order
		return nil
	})
	if err != nil {
		var svcErr *ServiceError
		if errors.As(err, &svcErr) {
			return nil, svcErr
		}
		logger.Error(ctx, "Checkout failed", err, zap.String("user_id", userID.String()))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to create order"}
	}

	// Reload with user, items and product details attached.
	full, err := s.orders.FindByID(ctx, created.ID)
	if err != nil {
		logger.Warn(ctx, "Failed to reload created order", zap.Error(err), zap.String("order_id", created.ID.String()))
		return created, nil
	}

	logger.Info(ctx, "Order created",
		zap.String("order_id", created.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("total", created.Total.StringFixed(2)),
	)
	return full, nil
}
