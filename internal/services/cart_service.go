package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"homemart/internal/cart"
	"homemart/internal/database"
	"homemart/internal/models"
	"homemart/internal/repositories"
)

// CartService manages shopper carts. Prices and stock limits are always
// taken from the catalog, never from the client.
type CartService struct {
	carts    cart.Store
	products repositories.ProductRepository
	logger   *zap.Logger
}

// NewCartService creates a new CartService.
func NewCartService(carts cart.Store, products repositories.ProductRepository, logger *zap.Logger) *CartService {
	return &CartService{
		carts:    carts,
		products: products,
		logger:   logger,
	}
}

// NewCartID mints an id for a new cart.
func (s *CartService) NewCartID() string {
	return uuid.New().String()
}

// GetCart returns the cart; unknown ids give an empty cart.
func (s *CartService) GetCart(ctx context.Context, cartID string) (*models.Cart, error) {
	return s.carts.Get(ctx, cartID)
}

// AddToCart adds one unit of a product, or of one of its variants, to the
// cart. The line's price and max stock are refreshed from the catalog.
func (s *CartService) AddToCart(ctx context.Context, cartID, productID, variantName string) (*models.Cart, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.Active {
		return nil, fmt.Errorf("product %s: %w", productID, ErrProductInactive)
	}

	snapshot, err := lineSnapshot(product, variantName)
	if err != nil {
		return nil, err
	}

	c, err := s.carts.Update(ctx, cartID, func(c *models.Cart) error {
		_, err := c.Add(snapshot)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("add %s to cart %s: %w", snapshot.Key, cartID, err)
	}

	s.logger.Debug("Added to cart",
		zap.String("cart_id", cartID),
		zap.String("key", snapshot.Key),
		zap.Int("items", c.Count()))
	return c, nil
}

func lineSnapshot(product *models.Product, variantName string) (models.CartItem, error) {
	item := models.CartItem{
		Key:       models.CartKey(product.ID, variantName),
		ProductID: product.ID,
		Name:      product.Name,
		Image:     product.Image,
	}

	if variantName == "" {
		if product.HasVariants() {
			return item, fmt.Errorf("product %s must be bought through a variant: %w", product.ID, database.ErrVariantNotFound)
		}
		item.Price = product.Price
		item.MaxStock = product.Stock
		return item, nil
	}

	v, ok := product.FindVariant(variantName)
	if !ok {
		return item, fmt.Errorf("variant %q of product %s: %w", variantName, product.ID, database.ErrVariantNotFound)
	}
	item.IsVariant = true
	item.VariantName = v.Name
	item.Price = v.Price
	item.MaxStock = v.Stock
	return item, nil
}

// RemoveFromCart takes one unit of the line out of the cart.
func (s *CartService) RemoveFromCart(ctx context.Context, cartID, key string) (*models.Cart, error) {
	return s.carts.Update(ctx, cartID, func(c *models.Cart) error {
		c.Remove(key)
		return nil
	})
}

// ClearCart drops the cart.
func (s *CartService) ClearCart(ctx context.Context, cartID string) error {
	return s.carts.Delete(ctx, cartID)
}
