package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"storefront/common/logger"
	"storefront/models"
	"storefront/notifier"
	"storefront/repository"
)

type OrderListResponse struct {
	Orders []models.Order `json:"orders"`
	Meta   MetaData       `json:"meta"`
}

// OrderService handles order listing, status updates, deletion and the
// notification relay. Notification failures never fail the enclosing
// operation.
type OrderService struct {
	orders    repository.OrderRepository
	publisher notifier.Publisher // nil when the relay is not configured
}

func NewOrderService(orders repository.OrderRepository, publisher notifier.Publisher) *OrderService {
	return &OrderService{
		orders:    orders,
		publisher: publisher,
	}
}

// GetUserOrders retrieves paginated orders for a specific user
func (s *OrderService) GetUserOrders(ctx context.Context, userID uuid.UUID, page, limit int) (*OrderListResponse, *ServiceError) {
	orders, total, err := s.orders.FindByUserID(ctx, userID, page, limit)
	if err != nil {
		logger.Error(ctx, "Failed to fetch orders", err, zap.String("user_id", userID.String()))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to fetch orders"}
	}

	return &OrderListResponse{
		Orders: orders,
		Meta:   buildMeta(page, limit, total),
	}, nil
}

// GetAllOrders retrieves paginated orders for all users (admin only)
func (s *OrderService) GetAllOrders(ctx context.Context, page, limit int) (*OrderListResponse, *ServiceError) {
	orders, total, err := s.orders.FindAll(ctx, page, limit)
	if err != nil {
		logger.Error(ctx, "Failed to fetch orders", err)
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to fetch orders"}
	}

	return &OrderListResponse{
		Orders: orders,
		Meta:   buildMeta(page, limit, total),
	}, nil
}

// GetOrderByID returns one order. Admins can read any order; users only
// their own.
func (s *OrderService) GetOrderByID(ctx context.Context, userID uuid.UUID, role string, orderID uuid.UUID) (*models.Order, *ServiceError) {
	var order *models.Order
	var err error

	if role == models.RoleAdmin {
		order, err = s.orders.FindByID(ctx, orderID)
	} else {
		order, err = s.orders.FindByIDAndUserID(ctx, orderID, userID)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ServiceError{StatusCode: http.StatusNotFound, Message: "Order not found"}
		}
		logger.Error(ctx, "Failed to fetch order", err, zap.String("order_id", orderID.String()))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to fetch order"}
	}

	return order, nil
}

// UpdateStatus sets an order's status (admin only) and mirrors the new
// state to the notification channel. Any status may be set from any other
// status; forward-only progression is not enforced.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) (*models.Order, *ServiceError) {
	if !models.ValidStatus(status) {
		return nil, &ServiceError{StatusCode: http.StatusBadRequest, Message: fmt.Sprintf("Unknown status %q", status)}
	}

	if err := s.orders.UpdateStatus(ctx, orderID, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ServiceError{StatusCode: http.StatusNotFound, Message: "Order not found"}
		}
		logger.Error(ctx, "Failed to update order status", err, zap.String("order_id", orderID.String()))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to update order"}
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		logger.Error(ctx, "Failed to reload order", err, zap.String("order_id", orderID.String()))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to update order"}
	}

	s.publishLatest(ctx, order, notifier.EventStatusUpdate)

	return order, nil
}

// SendReceipt publishes an order receipt to the notification channel and
// stores the resulting message id. Owners and admins may trigger it.
func (s *OrderService) SendReceipt(ctx context.Context, userID uuid.UUID, role string, orderID uuid.UUID) *ServiceError {
	order, svcErr := s.GetOrderByID(ctx, userID, role, orderID)
	if svcErr != nil {
		return svcErr
	}

	// Receipts may be resent; the stored id always tracks the latest
	// message, so retract the previous one first.
	s.publishLatest(ctx, order, notifier.EventReceipt)
	return nil
}

// Delete removes an order and its line items (admin only)
func (s *OrderService) Delete(ctx context.Context, orderID uuid.UUID) *ServiceError {
	if err := s.orders.Delete(ctx, orderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ServiceError{StatusCode: http.StatusNotFound, Message: "Order not found"}
		}
		logger.Error(ctx, "Failed to delete order", err, zap.String("order_id", orderID.String()))
		return &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to delete order"}
	}
	return nil
}

// publishLatest mirrors the order to the external channel: the previously
// stored message is deleted best-effort, a fresh message is sent, and the
// new message id is persisted. Every failure is logged and swallowed.
func (s *OrderService) publishLatest(ctx context.Context, order *models.Order, event notifier.Event) {
	if s.publisher == nil {
		logger.Info(ctx, "Telegram relay not configured, skipping notification",
			zap.String("order_id", order.ID.String()))
		return
	}

	if order.TelegramMessageID != "" {
		if err := s.publisher.Retract(ctx, order.TelegramMessageID); err != nil {
			logger.Warn(ctx, "Failed to delete previous telegram message",
				zap.Error(err),
				zap.String("order_id", order.ID.String()),
				zap.String("message_id", order.TelegramMessageID),
			)
		}
	}

	messageID, err := s.publisher.Publish(ctx, order, event)
	if err != nil {
		logger.Error(ctx, "Failed to send telegram notification", err,
			zap.String("order_id", order.ID.String()))
		return
	}

	if err := s.orders.SetTelegramMessageID(ctx, order.ID, messageID); err != nil {
		logger.Error(ctx, "Failed to store telegram message ID", err,
			zap.String("order_id", order.ID.String()),
			zap.String("message_id", messageID),
		)
		return
	}
	order.TelegramMessageID = messageID

	logger.Info(ctx, "Order notification sent",
		zap.String("order_id", order.ID.String()),
		zap.String("message_id", messageID),
		zap.String("event", string(event)),
	)
}
