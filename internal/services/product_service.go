package services

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"homemart/internal/database"
	"homemart/internal/models"
	"homemart/internal/repositories"
)

// ProductService handles catalog reads and staff product management.
type ProductService struct {
	repo     repositories.ProductRepository
	validate *validator.Validate
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo:     repo,
		validate: models.NewValidator(),
	}
}

// ListActiveProducts returns the product grid: active products with their
// display price and stock flag.
func (s *ProductService) ListActiveProducts(ctx context.Context) ([]models.CatalogProduct, error) {
	products, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	grid := make([]models.CatalogProduct, 0, len(products))
	for _, p := range products {
		grid = append(grid, models.NewCatalogProduct(p))
	}
	return grid, nil
}

// GetCatalogProduct returns a single active product. Inactive products
// are reported as not found.
func (s *ProductService) GetCatalogProduct(ctx context.Context, id string) (*models.CatalogProduct, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.Active {
		return nil, fmt.Errorf("product with ID %s: %w", id, database.ErrProductNotFound)
	}
	view := models.NewCatalogProduct(*p)
	return &view, nil
}

// GetAllProducts retrieves all products, active or not.
func (s *ProductService) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	return s.repo.GetAll(ctx)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateProduct validates and stores a new product.
func (s *ProductService) CreateProduct(ctx context.Context, product *models.Product) error {
	if err := s.validateProduct(product); err != nil {
		return err
	}
	return s.repo.Create(ctx, product)
}

// UpdateProduct validates and saves an existing product.
func (s *ProductService) UpdateProduct(ctx context.Context, product *models.Product) error {
	if err := s.validateProduct(product); err != nil {
		return err
	}
	return s.repo.Update(ctx, product)
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *ProductService) validateProduct(product *models.Product) error {
	if err := s.validate.Struct(product); err != nil {
		return err
	}
	seen := make(map[string]bool, len(product.Variants))
	for _, v := range product.Variants {
		if seen[v.Name] {
			return fmt.Errorf("variant %q: %w", v.Name, ErrDuplicateVariant)
		}
		seen[v.Name] = true
	}
	return nil
}
