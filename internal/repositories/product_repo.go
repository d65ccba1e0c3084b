package repositories

import (
	"context"

	"homemart/internal/models"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	ListActive(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
	// DecrementStock takes qty units from a plain product. It never drives
	// stock below zero.
	DecrementStock(ctx context.Context, id string, qty int) error
	// DecrementVariantStock takes qty units from one variant of a product.
	DecrementVariantStock(ctx context.Context, id, variant string, qty int) error
}
