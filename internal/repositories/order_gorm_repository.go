package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"homemart/internal/database"
	"homemart/internal/models"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{db: db}
}

func (r *GORMOrderRepository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("id")
	})
}

// GetAll returns every order, newest first.
func (r *GORMOrderRepository) GetAll(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := r.withItems(ctx).Order("created_at DESC").Order("id DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get all orders: %w", err)
	}
	return orders, nil
}

// GetByID returns an order by its display id.
func (r *GORMOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := r.withItems(ctx).First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order with ID %s: %w", id, database.ErrOrderNotFound)
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return &order, nil
}

// Create writes the order and its items.
func (r *GORMOrderRepository) Create(ctx context.Context, order *models.Order) error {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order %s: %w", order.ID, err)
	}
	return nil
}

// UpdateStatus sets the fulfilment status of an order.
func (r *GORMOrderRepository) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error {
	return r.updateColumn(ctx, id, "status", status)
}

// UpdatePaymentStatus sets the payment status of an order.
func (r *GORMOrderRepository) UpdatePaymentStatus(ctx context.Context, id string, status models.PaymentStatus) error {
	return r.updateColumn(ctx, id, "payment_status", status)
}

func (r *GORMOrderRepository) updateColumn(ctx context.Context, id, column string, value interface{}) error {
	res := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Updates(map[string]interface{}{
		column:       value,
		"updated_at": time.Now(),
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update %s of order %s: %w", column, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order with ID %s not found for %s update: %w", id, column, database.ErrOrderNotFound)
	}
	return nil
}

// GORMCounterRepository is a GORM implementation of CounterRepository.
type GORMCounterRepository struct {
	db *gorm.DB
}

// NewGORMCounterRepository creates a new instance of GORMCounterRepository.
func NewGORMCounterRepository(db *gorm.DB) *GORMCounterRepository {
	return &GORMCounterRepository{db: db}
}

// Next performs an insert-or-increment on the day's row and reads it back.
// The upsert holds the row lock until the surrounding transaction ends, so
// concurrent callers serialize on it.
func (r *GORMCounterRepository) Next(ctx context.Context, day string) (int, error) {
	db := r.db.WithContext(ctx)

	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "day"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"last_seq":   gorm.Expr("daily_counters.last_seq + 1"),
			"updated_at": time.Now(),
		}),
	}).Create(&models.DailyCounter{Day: day, LastSeq: 1}).Error
	if err != nil {
		return 0, fmt.Errorf("failed to bump counter for %s: %w", day, err)
	}

	var counter models.DailyCounter
	if err := db.First(&counter, "day = ?", day).Error; err != nil {
		return 0, fmt.Errorf("failed to read counter for %s: %w", day, err)
	}
	return counter.LastSeq, nil
}
