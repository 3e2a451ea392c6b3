package domain

import "time"

// DomainEvent is the base interface for all domain events
type DomainEvent interface {
	EventType() string
	OccurredAt() time.Time
}

// OrderCreatedEvent is emitted when a new order is placed
type OrderCreatedEvent struct {
	OrderID     string    `json:"orderId"`
	OrderNumber int64     `json:"orderNumber"`
	SellerID    string    `json:"sellerId"`
	CustomerID  string    `json:"customerId"`
	TotalPrice  float64   `json:"totalPrice"`
	ItemCount   int       `json:"itemCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (e *OrderCreatedEvent) EventType() string     { return "order.created" }
func (e *OrderCreatedEvent) OccurredAt() time.Time { return e.CreatedAt }

// OrderStatusChangedEvent is emitted when an order moves between states
type OrderStatusChangedEvent struct {
	OrderID     string    `json:"orderId"`
	OrderNumber int64     `json:"orderNumber"`
	SellerID    string    `json:"sellerId"`
	OldStatus   Status    `json:"oldStatus"`
	NewStatus   Status    `json:"newStatus"`
	ChangedAt   time.Time `json:"changedAt"`
}

func (e *OrderStatusChangedEvent) EventType() string     { return "order.status_changed" }
func (e *OrderStatusChangedEvent) OccurredAt() time.Time { return e.ChangedAt }
