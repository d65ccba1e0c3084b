package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	OrderStatusReceived  OrderStatus = "recibido"
	OrderStatusPreparing OrderStatus = "preparando"
	OrderStatusOnTheWay  OrderStatus = "en_camino"
	OrderStatusDelivered OrderStatus = "entregado"
	OrderStatusCancelled OrderStatus = "cancelado"
)

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusReceived, OrderStatusPreparing, OrderStatusOnTheWay, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// PaymentStatus is the payment state of an order.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pendiente"
	PaymentStatusPaid     PaymentStatus = "pagado"
	PaymentStatusRefunded PaymentStatus = "reembolsado"
)

// Valid reports whether s is a known payment status.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusRefunded:
		return true
	}
	return false
}

// OrderItem is a cart line copied into an order.
type OrderItem struct {
	ID          uint            `json:"-" gorm:"primaryKey"`
	OrderID     string          `json:"-" gorm:"type:varchar(32);index"`
	CartID      string          `json:"cart_id"`
	ProductID   string          `json:"product_id" gorm:"type:varchar(36)"`
	Name        string          `json:"name"`
	Image       string          `json:"image"`
	IsVariant   bool            `json:"is_variant"`
	VariantName string          `json:"variant_name,omitempty"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric(12,2)"` // Price at the time of order
	Quantity    int             `json:"qty"`
}

// Subtotal is price times quantity.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Customer holds the checkout form.
type Customer struct {
	Name    string `json:"name" validate:"required,max=120"`
	Phone   string `json:"phone" validate:"required,max=40"`
	Address string `json:"address" validate:"required,max=500"`
}

// Order represents a web order. ID is the human readable display id
// (PREFIX-YYYYMMDD-NNN).
type Order struct {
	ID            string          `json:"id" gorm:"primaryKey;type:varchar(32)"`
	Items         []OrderItem     `json:"cart" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Client        string          `json:"client"`
	Phone         string          `json:"phone"`
	Address       string          `json:"address"`
	Method        string          `json:"method"`
	Status        OrderStatus     `json:"status" gorm:"type:varchar(20);index"`
	PaymentStatus PaymentStatus   `json:"payment_status" gorm:"type:varchar(20)"`
	Total         decimal.Decimal `json:"total" gorm:"type:numeric(12,2)"`
	BoxID         string          `json:"box_id" gorm:"type:varchar(20)"`
	IsDelivery    bool            `json:"is_delivery"`
	CreatedAt     time.Time       `json:"created_at" gorm:"index"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// DailyCounter stores the last order sequence number used on a day.
type DailyCounter struct {
	Day       string    `gorm:"primaryKey;type:varchar(8)"` // YYYYMMDD
	LastSeq   int       `gorm:"not null"`
	UpdatedAt time.Time
}
