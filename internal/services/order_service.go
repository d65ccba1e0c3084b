package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"homemart/internal/cart"
	"homemart/internal/config"
	"homemart/internal/models"
	"homemart/internal/repositories"
)

const restoreTimeout = 5 * time.Second

// OrderService runs checkout and order administration.
type OrderService struct {
	store     repositories.Store
	carts     cart.Store
	publisher OrderEventPublisher
	cfg       config.OrderConfig
	logger    *zap.Logger
	validate  *validator.Validate
	now       func() time.Time
}

// NewOrderService creates a new OrderService. publisher may be nil, in
// which case no order events are sent.
func NewOrderService(store repositories.Store, carts cart.Store, publisher OrderEventPublisher, cfg config.OrderConfig, logger *zap.Logger) *OrderService {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &OrderService{
		store:     store,
		carts:     carts,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger,
		validate:  models.NewValidator(),
		now:       time.Now,
	}
}

// SetClock replaces the time source used to stamp and number orders.
func (s *OrderService) SetClock(now func() time.Time) {
	s.now = now
}

// Checkout turns the cart into an order. The daily sequence number, the
// order document and every stock decrement commit together: when any line
// lacks stock nothing is written and no sequence number is consumed.
//
// The cart is taken out of the store before the transaction starts, so a
// repeated checkout of the same cart finds it empty and fails with
// ErrEmptyCart. If the order cannot be placed the lines are put back.
func (s *OrderService) Checkout(ctx context.Context, cartID string, customer models.Customer) (*models.Order, error) {
	if err := s.validate.Struct(customer); err != nil {
		return nil, err
	}

	c, err := s.carts.Take(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, fmt.Errorf("cart %s: %w", cartID, ErrEmptyCart)
	}

	order, err := s.PlaceOrder(ctx, c, customer)
	if err != nil {
		s.restoreCart(cartID, c)
		return nil, err
	}
	return order, nil
}

// restoreCart puts the lines of a taken cart back. Lines the shopper added
// again in the meantime are kept as they are.
func (s *OrderService) restoreCart(cartID string, taken *models.Cart) {
	// Restore even when the request context is already cancelled.
	ctx, cancel := context.WithTimeout(context.Background(), restoreTimeout)
	defer cancel()

	_, err := s.carts.Update(ctx, cartID, func(c *models.Cart) error {
		for _, line := range taken.Items {
			if c.Find(line.Key) < 0 {
				c.Items = append(c.Items, line)
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to restore cart after failed checkout",
			zap.String("cart_id", cartID), zap.Int("lines", len(taken.Items)), zap.Error(err))
	}
}

// PlaceOrder writes an order for the lines of c inside one retried
// transaction.
func (s *OrderService) PlaceOrder(ctx context.Context, c *models.Cart, customer models.Customer) (*models.Order, error) {
	createdAt := s.now()
	day := DayKey(createdAt, s.cfg.Location)

	var placed *models.Order
	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		seq, err := tx.Counters().Next(ctx, day)
		if err != nil {
			return err
		}

		order := s.buildOrder(c, customer, createdAt)
		order.ID = FormatOrderID(s.cfg.IDPrefix, day, seq)

		if err := tx.Orders().Create(ctx, order); err != nil {
			return err
		}

		for _, item := range c.Items {
			if item.IsVariant {
				err = tx.Products().DecrementVariantStock(ctx, item.ProductID, item.VariantName, item.Quantity)
			} else {
				err = tx.Products().DecrementStock(ctx, item.ProductID, item.Quantity)
			}
			if err != nil {
				return fmt.Errorf("order %s line %s: %w", order.ID, item.Key, err)
			}
		}

		placed = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Order placed",
		zap.String("order_id", placed.ID),
		zap.String("total", placed.Total.StringFixed(2)),
		zap.Int("lines", len(placed.Items)))

	s.publishCreated(placed)
	return placed, nil
}

func (s *OrderService) buildOrder(c *models.Cart, customer models.Customer, createdAt time.Time) *models.Order {
	items := make([]models.OrderItem, 0, len(c.Items))
	for _, line := range c.Items {
		items = append(items, models.OrderItem{
			CartID:      line.Key,
			ProductID:   line.ProductID,
			Name:        line.Name,
			Image:       line.Image,
			IsVariant:   line.IsVariant,
			VariantName: line.VariantName,
			Price:       line.Price,
			Quantity:    line.Quantity,
		})
	}

	return &models.Order{
		Items:         items,
		Client:        customer.Name,
		Phone:         customer.Phone,
		Address:       customer.Address,
		Method:        s.cfg.Method,
		Status:        models.OrderStatusReceived,
		PaymentStatus: models.PaymentStatusPending,
		Total:         c.Total(),
		BoxID:         s.cfg.BoxID,
		IsDelivery:    true,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}
}

func (s *OrderService) publishCreated(order *models.Order) {
	if s.publisher == nil {
		s.logger.Debug("No event publisher configured, skipping order event", zap.String("order_id", order.ID))
		return
	}
	if err := s.publisher.PublishOrderCreated(NewOrderCreatedEvent(order)); err != nil {
		s.logger.Warn("Failed to publish order created event", zap.String("order_id", order.ID), zap.Error(err))
	}
}

// GetAllOrders retrieves all orders, newest first.
func (s *OrderService) GetAllOrders(ctx context.Context) ([]models.Order, error) {
	return s.store.Orders().GetAll(ctx)
}

// GetOrderByID retrieves a single order by its display id.
func (s *OrderService) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	return s.store.Orders().GetByID(ctx, id)
}

// UpdateOrderStatus updates the fulfilment status of an order.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) error {
	if !status.Valid() {
		return fmt.Errorf("order status %q: %w", status, ErrInvalidStatus)
	}
	if err := s.store.Orders().UpdateStatus(ctx, id, status); err != nil {
		return fmt.Errorf("failed to update order status for order %s: %w", id, err)
	}
	return nil
}

// UpdatePaymentStatus updates the payment status of an order.
func (s *OrderService) UpdatePaymentStatus(ctx context.Context, id string, status models.PaymentStatus) error {
	if !status.Valid() {
		return fmt.Errorf("payment status %q: %w", status, ErrInvalidStatus)
	}
	if err := s.store.Orders().UpdatePaymentStatus(ctx, id, status); err != nil {
		return fmt.Errorf("failed to update payment status for order %s: %w", id, err)
	}
	return nil
}
