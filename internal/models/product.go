package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a catalog item. Products with variants sell only
// through their variants; Price and Stock then describe the base item.
type Product struct {
	ID          string          `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,max=36"`
	Name        string          `json:"name" gorm:"type:varchar(100)" validate:"required,min=3,max=100"`
	Description string          `json:"description" validate:"omitempty,max=500"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric(12,2)" validate:"gte=0"`
	Stock       int             `json:"stock" validate:"gte=0"`
	Image       string          `json:"image" validate:"omitempty,url"`
	Category    string          `json:"category" gorm:"index;type:varchar(100)"`
	Active      bool            `json:"active" gorm:"index"`
	Variants    []Variant       `json:"variants,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" validate:"dive"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Variant is a purchasable option of a product with its own price and stock.
type Variant struct {
	ID        uint            `json:"-" gorm:"primaryKey"`
	ProductID string          `json:"-" gorm:"type:varchar(36);uniqueIndex:idx_variant_product_name"`
	Name      string          `json:"name" gorm:"type:varchar(100);uniqueIndex:idx_variant_product_name" validate:"required,max=100"`
	Price     decimal.Decimal `json:"price" gorm:"type:numeric(12,2)" validate:"gt=0"`
	Stock     int             `json:"stock" validate:"gte=0"`
}

// HasVariants reports whether the product is sold through variants.
func (p *Product) HasVariants() bool {
	return len(p.Variants) > 0
}

// FindVariant returns the variant with the given name.
func (p *Product) FindVariant(name string) (*Variant, bool) {
	for i := range p.Variants {
		if p.Variants[i].Name == name {
			return &p.Variants[i], true
		}
	}
	return nil, false
}

// DisplayPrice is the price shown on the product grid: the cheapest
// variant for products with variants, the product price otherwise.
func (p *Product) DisplayPrice() decimal.Decimal {
	if !p.HasVariants() {
		return p.Price
	}
	lowest := p.Variants[0].Price
	for _, v := range p.Variants[1:] {
		if v.Price.LessThan(lowest) {
			lowest = v.Price
		}
	}
	return lowest
}

// InStock reports whether anything of the product can still be bought.
func (p *Product) InStock() bool {
	if !p.HasVariants() {
		return p.Stock > 0
	}
	for _, v := range p.Variants {
		if v.Stock > 0 {
			return true
		}
	}
	return false
}

// CatalogProduct is the product grid view of a product.
type CatalogProduct struct {
	Product
	DisplayPrice decimal.Decimal `json:"display_price"`
	FromPrice    bool            `json:"from_price"`
	InStock      bool            `json:"in_stock"`
}

// NewCatalogProduct derives the grid view of p.
func NewCatalogProduct(p Product) CatalogProduct {
	return CatalogProduct{
		Product:      p,
		DisplayPrice: p.DisplayPrice(),
		FromPrice:    p.HasVariants(),
		InStock:      p.InStock(),
	}
}
