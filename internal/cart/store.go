// Package cart keeps shopper carts in a key/value store.
package cart

import (
	"context"

	"homemart/internal/models"
)

// Store persists carts by id. Get on an unknown id returns an empty cart.
type Store interface {
	Get(ctx context.Context, cartID string) (*models.Cart, error)
	// Update loads the cart, applies fn and saves the result atomically
	// with respect to other updates of the same cart. If fn returns an
	// error nothing is saved. An unknown cart that fn leaves empty is not
	// stored.
	Update(ctx context.Context, cartID string, fn func(c *models.Cart) error) (*models.Cart, error)
	// Take atomically removes the cart and returns what it held. Of two
	// concurrent Takes of the same cart, at most one sees its items.
	Take(ctx context.Context, cartID string) (*models.Cart, error)
	Delete(ctx context.Context, cartID string) error
}
