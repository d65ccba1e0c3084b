package services

import (
	"time"

	"github.com/shopspring/decimal"

	"homemart/internal/models"
)

// OrderEventPublisher publishes order lifecycle events.
type OrderEventPublisher interface {
	PublishOrderCreated(event interface{}) error
}

// OrderCreatedEvent is published once a web order is committed.
type OrderCreatedEvent struct {
	Type      string             `json:"type"`
	OrderID   string             `json:"order_id"`
	Client    string             `json:"client"`
	Phone     string             `json:"phone"`
	Address   string             `json:"address"`
	Total     decimal.Decimal    `json:"total"`
	Items     []models.OrderItem `json:"items"`
	CreatedAt time.Time          `json:"created_at"`
}

// EventTypeOrderCreated tags OrderCreatedEvent payloads.
const EventTypeOrderCreated = "order.created"

// NewOrderCreatedEvent builds the event for order.
func NewOrderCreatedEvent(order *models.Order) OrderCreatedEvent {
	return OrderCreatedEvent{
		Type:      EventTypeOrderCreated,
		OrderID:   order.ID,
		Client:    order.Client,
		Phone:     order.Phone,
		Address:   order.Address,
		Total:     order.Total,
		Items:     order.Items,
		CreatedAt: order.CreatedAt,
	}
}
