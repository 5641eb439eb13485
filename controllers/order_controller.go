package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "storefront/common/errors"
	"storefront/middleware"
	"storefront/models"
	"storefront/services"
)

type OrderController struct {
	checkoutService *services.CheckoutService
	orderService    *services.OrderService
}

func NewOrderController(checkoutService *services.CheckoutService, orderService *services.OrderService) *OrderController {
	return &OrderController{
		checkoutService: checkoutService,
		orderService:    orderService,
	}
}

// CreateOrder handles checkout: the client-held cart is submitted here and
// validated against live stock for the first time.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		fail(c, apperrors.ErrUnauthorized)
		return
	}

	var req services.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBinding(c, err)
		return
	}

	order, svcErr := oc.checkoutService.Checkout(c, userID, &req)
	if svcErr != nil {
		failService(c, svcErr)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"order": order})
}

// GetOrders returns the caller's orders; admins see all orders.
func (oc *OrderController) GetOrders(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		fail(c, apperrors.ErrUnauthorized)
		return
	}

	page, limit := parsePaginationParams(c)

	var result *services.OrderListResponse
	var svcErr *services.ServiceError
	if middleware.GetRole(c) == models.RoleAdmin {
		result, svcErr = oc.orderService.GetAllOrders(c, page, limit)
	} else {
		result, svcErr = oc.orderService.GetUserOrders(c, userID, page, limit)
	}
	if svcErr != nil {
		failService(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetOrderByID returns a specific order for the authenticated user
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		fail(c, apperrors.ErrUnauthorized)
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, apperrors.New(http.StatusBadRequest, "Invalid order ID format", err))
		return
	}

	order, svcErr := oc.orderService.GetOrderByID(c, userID, middleware.GetRole(c), orderID)
	if svcErr != nil {
		failService(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateOrderStatus sets an order's status (admin only)
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, apperrors.New(http.StatusBadRequest, "Invalid order ID format", err))
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBinding(c, err)
		return
	}

	order, svcErr := oc.orderService.UpdateStatus(c, orderID, req.Status)
	if svcErr != nil {
		failService(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// SendReceipt publishes the order receipt to the notification channel
func (oc *OrderController) SendReceipt(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		fail(c, apperrors.ErrUnauthorized)
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, apperrors.New(http.StatusBadRequest, "Invalid order ID format", err))
		return
	}

	if svcErr := oc.orderService.SendReceipt(c, userID, middleware.GetRole(c), orderID); svcErr != nil {
		failService(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Receipt sent"})
}

// DeleteOrder removes an order and its line items (admin only)
func (oc *OrderController) DeleteOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, apperrors.New(http.StatusBadRequest, "Invalid order ID format", err))
		return
	}

	if svcErr := oc.orderService.Delete(c, orderID); svcErr != nil {
		failService(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order deleted successfully"})
}
