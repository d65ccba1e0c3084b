package cart

import (
	"context"
	"sync"
	"time"

	"homemart/internal/models"
)

// MemoryStore is an in-memory implementation of Store.
type MemoryStore struct {
	carts map[string]models.Cart
	mu    sync.RWMutex
	now   func() time.Time
}

// NewMemoryStore creates a new instance of MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		carts: make(map[string]models.Cart),
		now:   time.Now,
	}
}

// Get returns a copy of the cart.
func (s *MemoryStore) Get(_ context.Context, cartID string) (*models.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c := s.load(cartID)
	return &c, nil
}

// Update applies fn under the store lock.
func (s *MemoryStore) Update(_ context.Context, cartID string, fn func(c *models.Cart) error) (*models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, known := s.carts[cartID]
	c := s.load(cartID)
	if err := fn(&c); err != nil {
		return nil, err
	}
	if !known && c.IsEmpty() {
		return &c, nil
	}
	c.UpdatedAt = s.now()

	s.carts[cartID] = copyCart(c)
	return &c, nil
}

// Take removes the cart under the store lock and returns it.
func (s *MemoryStore) Take(_ context.Context, cartID string) (*models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.load(cartID)
	delete(s.carts, cartID)
	return &c, nil
}

// Delete removes the cart.
func (s *MemoryStore) Delete(_ context.Context, cartID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, cartID)
	return nil
}

func (s *MemoryStore) load(cartID string) models.Cart {
	c, ok := s.carts[cartID]
	if !ok {
		return models.Cart{ID: cartID, Items: []models.CartItem{}}
	}
	return copyCart(c)
}

// copyCart detaches the item slice so callers never alias stored state.
func copyCart(c models.Cart) models.Cart {
	items := make([]models.CartItem, len(c.Items))
	copy(items, c.Items)
	c.Items = items
	return c
}
