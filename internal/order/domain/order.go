package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Errors for the Order aggregate
var (
	ErrOrderNotFound          = errors.New("order not found")
	ErrInvalidStatus          = errors.New("invalid order status")
	ErrInvalidTransition      = errors.New("invalid order status transition")
	ErrEmptyOrder             = errors.New("order must contain at least one item")
	ErrMixedSellerItems       = errors.New("order items must belong to a single seller")
	ErrInvalidQuantity        = errors.New("item quantity must be at least 1")
	ErrNotOrderOwner          = errors.New("order belongs to a different seller")
	ErrConcurrentModification = errors.New("order was modified concurrently")
	ErrInvalidPagination      = errors.New("page and pageSize must be positive")
)

// Status represents the order lifecycle state
type Status string

const (
	StatusPending    Status = "Pending"
	StatusProcessing Status = "Processing"
	StatusShipped    Status = "Shipped"
	StatusDelivered  Status = "Delivered"
	StatusCancelled  Status = "Cancelled"
)

// IsValid checks if the status is a known lifecycle state
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// transitions is the single source of truth for the order state machine.
// A status maps to the set of statuses it may move to.
var transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped},
	StatusShipped:    {StatusDelivered},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

// CanTransitionTo reports whether a move from s to target is allowed.
// Self-transitions are never allowed.
func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// AllowedTransitions returns the statuses s may move to
func (s Status) AllowedTransitions() []Status {
	return transitions[s]
}

// ParseStatus converts a string into a Status, rejecting unknown values
func ParseStatus(value string) (Status, error) {
	s := Status(value)
	if !s.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, value)
	}
	return s, nil
}

// LineItem is an immutable snapshot of a purchased product variant.
// Name, image and unit price are captured at order time so later
// catalog edits do not rewrite history.
type LineItem struct {
	ProductID string  `bson:"productId" json:"productId"`
	Name      string  `bson:"name" json:"name"`
	Image     string  `bson:"image,omitempty" json:"image,omitempty"`
	Size      string  `bson:"size,omitempty" json:"size,omitempty"`
	Color     string  `bson:"color,omitempty" json:"color,omitempty"`
	Quantity  int     `bson:"quantity" json:"quantity"`
	UnitPrice float64 `bson:"unitPrice" json:"unitPrice"`
}

// Subtotal returns the line total
func (i LineItem) Subtotal() float64 {
	return i.UnitPrice * float64(i.Quantity)
}

// Address is a shipping address snapshot
type Address struct {
	FullName   string `bson:"fullName" json:"fullName"`
	Line1      string `bson:"line1" json:"line1"`
	Line2      string `bson:"line2,omitempty" json:"line2,omitempty"`
	City       string `bson:"city" json:"city"`
	State      string `bson:"state" json:"state"`
	PostalCode string `bson:"postalCode" json:"postalCode"`
	Phone      string `bson:"phone,omitempty" json:"phone,omitempty"`
}

// Order is the aggregate root for the order lifecycle
type Order struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderID     string             `bson:"orderId" json:"orderId"`
	OrderNumber int64              `bson:"orderNumber" json:"orderNumber"`
	SellerID    string             `bson:"sellerId" json:"sellerId"`
	CustomerID  string             `bson:"customerId" json:"customerId"`

	Items      []LineItem `bson:"items" json:"items"`
	TotalPrice float64    `bson:"totalPrice" json:"totalPrice"`

	Status        Status  `bson:"status" json:"status"`
	PaymentMethod string  `bson:"paymentMethod" json:"paymentMethod"`
	ShippingAddress Address `bson:"shippingAddress" json:"shippingAddress"`

	// Read marks whether the seller has seen this order
	Read bool `bson:"read" json:"read"`

	CreatedAt   time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time  `bson:"updatedAt" json:"updatedAt"`
	DeliveredAt *time.Time `bson:"deliveredAt,omitempty" json:"deliveredAt,omitempty"`
	CancelledAt *time.Time `bson:"cancelledAt,omitempty" json:"cancelledAt,omitempty"`

	// Domain events (not persisted)
	domainEvents []DomainEvent `bson:"-" json:"-"`
}

// NewOrder creates a new Order aggregate in the Pending state.
// All items must belong to sellerID and carry a positive quantity.
func NewOrder(sellerID, customerID, paymentMethod string, orderNumber int64, items []LineItem, address Address) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}

	total := 0.0
	for _, item := range items {
		if item.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
		total += item.Subtotal()
	}

	now := time.Now().UTC()
	orderID := fmt.Sprintf("ORD-%s", uuid.New().String()[:8])

	order := &Order{
		ID:              primitive.NewObjectID(),
		OrderID:         orderID,
		OrderNumber:     orderNumber,
		SellerID:        sellerID,
		CustomerID:      customerID,
		Items:           items,
		TotalPrice:      total,
		Status:          StatusPending,
		PaymentMethod:   paymentMethod,
		ShippingAddress: address,
		Read:            false,
		CreatedAt:       now,
		UpdatedAt:       now,
		domainEvents:    make([]DomainEvent, 0),
	}

	order.addDomainEvent(&OrderCreatedEvent{
		OrderID:     orderID,
		OrderNumber: orderNumber,
		SellerID:    sellerID,
		CustomerID:  customerID,
		TotalPrice:  total,
		ItemCount:   len(items),
		CreatedAt:   now,
	})

	return order, nil
}

// TransitionTo moves the order to the requested status, enforcing the
// state machine. The previous status is recorded on the emitted event.
func (o *Order) TransitionTo(target Status) error {
	if !target.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, target)
	}

	if !o.Status.CanTransitionTo(target) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, target)
	}

	previous := o.Status
	now := time.Now().UTC()

	o.Status = target
	o.UpdatedAt = now

	switch target {
	case StatusDelivered:
		o.DeliveredAt = &now
	case StatusCancelled:
		o.CancelledAt = &now
	}

	o.addDomainEvent(&OrderStatusChangedEvent{
		OrderID:     o.OrderID,
		OrderNumber: o.OrderNumber,
		SellerID:    o.SellerID,
		OldStatus:   previous,
		NewStatus:   target,
		ChangedAt:   now,
	})

	return nil
}

// MarkRead marks the order as seen by the seller. Idempotent.
func (o *Order) MarkRead() {
	if o.Read {
		return
	}
	o.Read = true
	o.UpdatedAt = time.Now().UTC()
}

// BelongsTo reports whether the order is owned by sellerID
func (o *Order) BelongsTo(sellerID string) bool {
	return o.SellerID == sellerID
}

// DomainEvents returns the accumulated domain events
func (o *Order) DomainEvents() []DomainEvent {
	return o.domainEvents
}

// ClearDomainEvents clears the accumulated domain events
func (o *Order) ClearDomainEvents() {
	o.domainEvents = make([]DomainEvent, 0)
}

func (o *Order) addDomainEvent(event DomainEvent) {
	if o.domainEvents == nil {
		o.domainEvents = make([]DomainEvent, 0)
	}
	o.domainEvents = append(o.domainEvents, event)
}
