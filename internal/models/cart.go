package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrMaxStockReached is returned when a line already holds all the stock
// that was available when it was last refreshed.
var ErrMaxStockReached = errors.New("max stock reached")

// CartItem is a cart line. Key identifies the line: the product id, or
// "<product id>-<variant name>" for variants.
type CartItem struct {
	Key         string          `json:"cart_id"`
	ProductID   string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Quantity    int             `json:"quantity"`
	MaxStock    int             `json:"max_stock"`
	IsVariant   bool            `json:"is_variant"`
	VariantName string          `json:"variant_name,omitempty"`
}

// CartKey builds the line key for a product and an optional variant.
func CartKey(productID, variantName string) string {
	if variantName == "" {
		return productID
	}
	return productID + "-" + variantName
}

// Cart is a shopper's cart. Items keep insertion order.
type Cart struct {
	ID        string     `json:"id"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Find returns the index of the line with the given key, or -1.
func (c *Cart) Find(key string) int {
	for i := range c.Items {
		if c.Items[i].Key == key {
			return i
		}
	}
	return -1
}

// Add adds one unit of snapshot to the cart. The price, image and
// max stock of an existing line are refreshed from snapshot. Adding fails
// with ErrMaxStockReached once the line quantity reaches the max stock.
func (c *Cart) Add(snapshot CartItem) (*CartItem, error) {
	idx := c.Find(snapshot.Key)
	current := 0
	if idx >= 0 {
		current = c.Items[idx].Quantity
	}
	if current >= snapshot.MaxStock {
		return nil, ErrMaxStockReached
	}

	snapshot.Quantity = current + 1
	if idx >= 0 {
		c.Items[idx] = snapshot
		return &c.Items[idx], nil
	}
	c.Items = append(c.Items, snapshot)
	return &c.Items[len(c.Items)-1], nil
}

// Remove takes one unit of the line with the given key out of the cart,
// dropping the line when its last unit goes. Unknown keys are ignored.
func (c *Cart) Remove(key string) {
	idx := c.Find(key)
	if idx < 0 {
		return
	}
	if c.Items[idx].Quantity > 1 {
		c.Items[idx].Quantity--
		return
	}
	c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
}

// Total is the sum of price times quantity over all lines.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// Count is the number of units in the cart.
func (c *Cart) Count() int {
	n := 0
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
