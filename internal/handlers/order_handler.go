package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"homemart/internal/middleware"
	"homemart/internal/models"
	"homemart/internal/services"
)

// OrderHandler handles the staff order endpoints.
type OrderHandler struct {
	service *services.OrderService
	logger  *zap.Logger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers the order routes behind the given middleware.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, mw ...fiber.Handler) {
	orderRoutes := router.Group("/orders", mw...)
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Patch("/:id/status", h.HandleUpdateOrderStatus)
	orderRoutes.Patch("/:id/payment-status", h.HandleUpdatePaymentStatus)
}

// HandleGetOrders retrieves all orders, newest first.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	orders, err := h.service.GetAllOrders(c.UserContext())
	if err != nil {
		return errorResponse(c, h.logger, "Could not retrieve orders", err)
	}
	return c.JSON(orders)
}

// HandleGetOrderByID retrieves a single order by its display id.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	order, err := h.service.GetOrderByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return errorResponse(c, h.logger, "Could not retrieve order", err)
	}
	return c.JSON(order)
}

type statusUpdate struct {
	Status string `json:"status"`
}

// HandleUpdateOrderStatus updates the fulfilment status of an order.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	orderID := c.Params("id")
	var body statusUpdate
	if err := c.BodyParser(&body); err != nil {
		return badBody(c, err)
	}

	if err := h.service.UpdateOrderStatus(c.UserContext(), orderID, models.OrderStatus(body.Status)); err != nil {
		return errorResponse(c, h.logger, "Could not update order status", err)
	}

	h.logger.Info("Order status updated", zap.String("order_id", orderID), zap.String("status", body.Status),
		zap.String("by", middleware.StaffUsername(c)))
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Order %s status updated successfully to %s", orderID, body.Status),
	})
}

// HandleUpdatePaymentStatus updates the payment status of an order.
func (h *OrderHandler) HandleUpdatePaymentStatus(c *fiber.Ctx) error {
	orderID := c.Params("id")
	var body statusUpdate
	if err := c.BodyParser(&body); err != nil {
		return badBody(c, err)
	}

	if err := h.service.UpdatePaymentStatus(c.UserContext(), orderID, models.PaymentStatus(body.Status)); err != nil {
		return errorResponse(c, h.logger, "Could not update payment status", err)
	}

	h.logger.Info("Payment status updated", zap.String("order_id", orderID), zap.String("payment_status", body.Status),
		zap.String("by", middleware.StaffUsername(c)))
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Order %s payment status updated successfully to %s", orderID, body.Status),
	})
}
