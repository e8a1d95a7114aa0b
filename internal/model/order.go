package model

import (
	"time"

	"github.com/google/uuid"
)

// Order status values.
const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// Order represents a customer order.
type Order struct {
	ID               uuid.UUID `json:"id" db:"id"`
	UserID           string    `json:"userId" db:"user_id"`
	Status           string    `json:"status" db:"status"`
	PaymentConfirmed bool      `json:"paymentConfirmed" db:"payment_confirmed"`
	IdempotencyKey   string    `json:"-" db:"idempotency_key"`
	CreatedAt        time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time `json:"updatedAt" db:"updated_at"`
}

// OrderItem represents a line item in an order.
type OrderItem struct {
	ID        uuid.UUID `json:"-" db:"id"`
	OrderID   uuid.UUID `json:"-" db:"order_id"`
	ProductID string    `json:"productId" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	ImageRef  string    `json:"imageRef,omitempty" db:"image_ref"`
}

// OrderUpdate carries the mutable order fields for a partial update.
type OrderUpdate struct {
	Status           *string `json:"status,omitempty"`
	PaymentConfirmed *bool   `json:"paymentConfirmed,omitempty"`
}

// OrderResponse represents the response payload for an order.
type OrderResponse struct {
	ID               uuid.UUID   `json:"id"`
	UserID           string      `json:"userId"`
	Status           string      `json:"status"`
	PaymentConfirmed bool        `json:"paymentConfirmed"`
	Items            []OrderItem `json:"items"`
	Vinyls           []Vinyl     `json:"vinyls,omitempty"`
	CreatedAt        time.Time   `json:"createdAt"`
}

// ValidStatus reports whether s is a known order status.
func ValidStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}
