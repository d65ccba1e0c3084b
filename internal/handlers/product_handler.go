package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"homemart/internal/middleware"
	"homemart/internal/models"
	"homemart/internal/services"
)

// ProductHandler serves the public catalog and the staff product endpoints.
type ProductHandler struct {
	service *services.ProductService
	logger  *zap.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterCatalogRoutes registers the public product grid.
func (h *ProductHandler) RegisterCatalogRoutes(router fiber.Router) {
	catalog := router.Group("/catalog")
	catalog.Get("/", h.HandleListCatalog)
	catalog.Get("/:id", h.HandleGetCatalogProduct)
}

// RegisterRoutes registers the staff product routes behind the given
// middleware.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, mw ...fiber.Handler) {
	productRoutes := router.Group("/products", mw...)
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// HandleListCatalog returns the active products.
func (h *ProductHandler) HandleListCatalog(c *fiber.Ctx) error {
	grid, err := h.service.ListActiveProducts(c.UserContext())
	if err != nil {
		return errorResponse(c, h.logger, "Could not load catalog", err)
	}
	return c.JSON(grid)
}

func (h *ProductHandler) HandleGetCatalogProduct(c *fiber.Ctx) error {
	product, err := h.service.GetCatalogProduct(c.UserContext(), c.Params("id"))
	if err != nil {
		return errorResponse(c, h.logger, "Could not retrieve product", err)
	}
	return c.JSON(product)
}

// HandleGetProducts returns every product, including inactive ones.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts(c.UserContext())
	if err != nil {
		return errorResponse(c, h.logger, "Could not retrieve products", err)
	}
	return c.JSON(products)
}

func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	product, err := h.service.GetProductByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return errorResponse(c, h.logger, "Could not retrieve product", err)
	}
	return c.JSON(product)
}

// HandleCreateProduct creates a product from the request body.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return badBody(c, err)
	}

	if err := h.service.CreateProduct(c.UserContext(), &product); err != nil {
		return errorResponse(c, h.logger, "Could not create product", err)
	}

	h.logger.Info("Product created", zap.String("product_id", product.ID), zap.String("name", product.Name),
		zap.String("by", middleware.StaffUsername(c)))
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct replaces the product's fields and variants.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return badBody(c, err)
	}
	product.ID = c.Params("id")

	if err := h.service.UpdateProduct(c.UserContext(), &product); err != nil {
		return errorResponse(c, h.logger, "Could not update product", err)
	}

	updated, err := h.service.GetProductByID(c.UserContext(), product.ID)
	if err != nil {
		return errorResponse(c, h.logger, "Could not retrieve product", err)
	}
	return c.JSON(updated)
}

func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.DeleteProduct(c.UserContext(), id); err != nil {
		return errorResponse(c, h.logger, "Could not delete product", err)
	}
	h.logger.Info("Product deleted", zap.String("product_id", id), zap.String("by", middleware.StaffUsername(c)))
	return c.JSON(fiber.Map{
		"message": "Product " + id + " deleted successfully",
	})
}
