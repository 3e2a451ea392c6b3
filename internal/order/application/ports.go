package application

import (
	"context"

	"github.com/marketplace/seller-portal/internal/order/domain"
)

// CatalogGateway resolves requested items against the product catalog.
// Reserve snapshots name, image and unit price, decrements stock and
// rejects the whole batch when any variant is out of stock or the
// items span more than one seller. ConfirmReservation delivers the
// reservation's deferred depletion notifications and must only be
// called once the order is committed.
type CatalogGateway interface {
	Reserve(ctx context.Context, items []RequestedItem) (*Reservation, error)
	ConfirmReservation(ctx context.Context, reservation *Reservation)
}

// Reservation is the outcome of a successful catalog reservation
type Reservation struct {
	SellerID string
	Items    []domain.LineItem
	Depleted []DepletedVariant
}

// DepletedVariant is a variant the reservation drained to zero
type DepletedVariant struct {
	ProductID string
	Size      string
	Color     string
}

// Sequencer issues monotonically increasing order numbers
type Sequencer interface {
	NextOrderNumber(ctx context.Context) (int64, error)
}

// Transactor runs a function inside a storage transaction. The context
// passed to fn must be used for every repository call inside it.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
