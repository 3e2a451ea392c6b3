package domain

import (
	"context"
	"time"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// Save persists a new order
	Save(ctx context.Context, order *Order) error

	// FindByOrderID retrieves an order by its OrderID
	FindByOrderID(ctx context.Context, orderID string) (*Order, error)

	// FindBySeller retrieves a seller's orders matching the filter,
	// newest first
	FindBySeller(ctx context.Context, sellerID string, filter OrderFilter, pagination Pagination) ([]*Order, error)

	// CountBySeller returns the number of orders matching the filter
	CountBySeller(ctx context.Context, sellerID string, filter OrderFilter) (int64, error)

	// UpdateStatus atomically moves an order from expected to target.
	// It returns ErrConcurrentModification when the stored status no
	// longer matches expected, so a lost update is never silently
	// applied. The updated order is returned on success.
	UpdateStatus(ctx context.Context, orderID string, expected, target Status) (*Order, error)

	// MarkRead sets the read flag. The updated order is returned;
	// marking an already-read order is a no-op success.
	MarkRead(ctx context.Context, orderID string) (*Order, error)

	// Stats aggregates the seller dashboard statistics. dayStart is
	// the inclusive lower bound used for the today-orders count.
	Stats(ctx context.Context, sellerID string, dayStart time.Time) (*SellerStats, error)
}

// OrderFilter represents filter options for querying orders
type OrderFilter struct {
	Status *Status
	Unread *bool
}

const maxPageSize = 100

// Pagination represents pagination options
type Pagination struct {
	Page     int64
	PageSize int64
}

// DefaultPagination returns default pagination options
func DefaultPagination() Pagination {
	return Pagination{
		Page:     1,
		PageSize: 20,
	}
}

// Validate rejects non-positive paging values. Pages beyond the last
// one are fine, they just come back empty.
func (p Pagination) Validate() error {
	if p.Page < 1 || p.PageSize < 1 {
		return ErrInvalidPagination
	}
	return nil
}

// Normalize caps oversized page sizes
func (p *Pagination) Normalize() {
	if p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}
}

// Skip returns the number of documents to skip
func (p Pagination) Skip() int64 {
	return (p.Page - 1) * p.PageSize
}

// Limit returns the maximum number of documents to return
func (p Pagination) Limit() int64 {
	return p.PageSize
}

// SellerStats is the dashboard aggregation for a single seller.
// StatusCounts always carries all five statuses, zero-filled.
type SellerStats struct {
	StatusCounts     map[Status]int64 `json:"statusCounts"`
	TodayOrdersCount int64            `json:"todayOrdersCount"`
	UnreadOrdersCount int64           `json:"unreadOrdersCount"`
	TotalRevenue     float64          `json:"totalRevenue"`
}

// NewSellerStats returns a zero-filled stats value
func NewSellerStats() *SellerStats {
	return &SellerStats{
		StatusCounts: map[Status]int64{
			StatusPending:    0,
			StatusProcessing: 0,
			StatusShipped:    0,
			StatusDelivered:  0,
			StatusCancelled:  0,
		},
	}
}

// TotalOrders returns the sum of all status counts
func (s *SellerStats) TotalOrders() int64 {
	var total int64
	for _, count := range s.StatusCounts {
		total += count
	}
	return total
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	// Publish publishes a domain event
	Publish(ctx context.Context, event DomainEvent) error

	// PublishAll publishes multiple domain events
	PublishAll(ctx context.Context, events []DomainEvent) error
}
