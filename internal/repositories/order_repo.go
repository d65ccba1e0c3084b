package repositories

import (
	"context"

	"homemart/internal/models"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	GetAll(ctx context.Context) ([]models.Order, error)
	GetByID(ctx context.Context, id string) (*models.Order, error)
	Create(ctx context.Context, order *models.Order) error
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error
	UpdatePaymentStatus(ctx context.Context, id string, status models.PaymentStatus) error
}

// CounterRepository mints per-day sequence numbers.
type CounterRepository interface {
	// Next increments the counter of day and returns the new value. The
	// first call for a day returns 1.
	Next(ctx context.Context, day string) (int, error)
}
