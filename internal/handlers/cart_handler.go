package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"homemart/internal/models"
	"homemart/internal/services"
)

// CartHandler serves the shopper cart and checkout.
type CartHandler struct {
	carts    *services.CartService
	orders   *services.OrderService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(carts *services.CartService, orders *services.OrderService, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		carts:    carts,
		orders:   orders,
		validate: models.NewValidator(),
		logger:   logger,
	}
}

// RegisterRoutes registers the cart routes.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/carts")
	cartRoutes.Post("/", h.HandleNewCart)
	cartRoutes.Get("/:cartId", h.HandleGetCart)
	cartRoutes.Delete("/:cartId", h.HandleClearCart)
	cartRoutes.Post("/:cartId/items", h.HandleAddItem)
	cartRoutes.Delete("/:cartId/items/:key", h.HandleRemoveItem)
	cartRoutes.Post("/:cartId/checkout", h.HandleCheckout)
}

// CartResponse is the cart as returned to the storefront.
type CartResponse struct {
	ID    string            `json:"id"`
	Items []models.CartItem `json:"items"`
	Count int               `json:"count"`
	Total decimal.Decimal   `json:"total"`
}

func newCartResponse(id string, c *models.Cart) CartResponse {
	items := c.Items
	if items == nil {
		items = []models.CartItem{}
	}
	return CartResponse{
		ID:    id,
		Items: items,
		Count: c.Count(),
		Total: c.Total(),
	}
}

// AddItemRequest is the body of an add-to-cart call. Variant is empty for
// products sold without variants.
type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Variant   string `json:"variant"`
}

func (h *CartHandler) HandleNewCart(c *fiber.Ctx) error {
	id := h.carts.NewCartID()
	return c.Status(fiber.StatusCreated).JSON(newCartResponse(id, &models.Cart{ID: id}))
}

func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	id := c.Params("cartId")
	cart, err := h.carts.GetCart(c.UserContext(), id)
	if err != nil {
		return errorResponse(c, h.logger, "Could not retrieve cart", err)
	}
	return c.JSON(newCartResponse(id, cart))
}

// HandleAddItem adds one unit of a product or variant to the cart.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return errorResponse(c, h.logger, "Validation failed", err)
	}

	id := c.Params("cartId")
	cart, err := h.carts.AddToCart(c.UserContext(), id, req.ProductID, req.Variant)
	if err != nil {
		return errorResponse(c, h.logger, "Could not add item to cart", err)
	}
	return c.JSON(newCartResponse(id, cart))
}

// HandleRemoveItem takes one unit of the line out of the cart.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	id := c.Params("cartId")
	cart, err := h.carts.RemoveFromCart(c.UserContext(), id, c.Params("key"))
	if err != nil {
		return errorResponse(c, h.logger, "Could not remove item from cart", err)
	}
	return c.JSON(newCartResponse(id, cart))
}

func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	if err := h.carts.ClearCart(c.UserContext(), c.Params("cartId")); err != nil {
		return errorResponse(c, h.logger, "Could not clear cart", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleCheckout places an order for the cart's lines.
func (h *CartHandler) HandleCheckout(c *fiber.Ctx) error {
	var customer models.Customer
	if err := c.BodyParser(&customer); err != nil {
		return badBody(c, err)
	}

	order, err := h.orders.Checkout(c.UserContext(), c.Params("cartId"), customer)
	if err != nil {
		return errorResponse(c, h.logger, "Checkout failed", err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}
