package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testItems() []LineItem {
	return []LineItem{
		{ProductID: "PRD-aaaa1111", Name: "Cotton Shirt", Size: "M", Color: "Blue", Quantity: 2, UnitPrice: 100},
		{ProductID: "PRD-bbbb2222", Name: "Linen Scarf", Size: "One", Color: "Red", Quantity: 1, UnitPrice: 50},
	}
}

func testAddress() Address {
	return Address{FullName: "A Customer", Line1: "12 Market Road", City: "Pune", State: "MH", PostalCode: "411001"}
}

func newTestOrder(t *testing.T) *Order {
	t.Helper()
	order, err := NewOrder("SLR-seller01", "CUST-1", "cod", 42, testItems(), testAddress())
	require.NoError(t, err)
	return order
}

func TestStatus_IsValid(t *testing.T) {
	tests := []struct {
		name   string
		status Status
		want   bool
	}{
		{"Pending is valid", StatusPending, true},
		{"Processing is valid", StatusProcessing, true},
		{"Shipped is valid", StatusShipped, true},
		{"Delivered is valid", StatusDelivered, true},
		{"Cancelled is valid", StatusCancelled, true},
		{"lowercase is invalid", Status("pending"), false},
		{"unknown is invalid", Status("Archived"), false},
		{"empty is invalid", Status(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.IsValid())
		})
	}
}

func TestStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from Status
		to   Status
		want bool
	}{
		{"pending to processing", StatusPending, StatusProcessing, true},
		{"pending to cancelled", StatusPending, StatusCancelled, true},
		{"processing to shipped", StatusProcessing, StatusShipped, true},
		{"shipped to delivered", StatusShipped, StatusDelivered, true},
		{"pending to shipped skips processing", StatusPending, StatusShipped, false},
		{"pending to delivered", StatusPending, StatusDelivered, false},
		{"processing to delivered skips shipped", StatusProcessing, StatusDelivered, false},
		{"processing to cancelled", StatusProcessing, StatusCancelled, false},
		{"shipped to cancelled", StatusShipped, StatusCancelled, false},
		{"delivered is terminal", StatusDelivered, StatusPending, false},
		{"delivered to delivered", StatusDelivered, StatusDelivered, false},
		{"cancelled is terminal", StatusCancelled, StatusPending, false},
		{"cancelled to cancelled", StatusCancelled, StatusCancelled, false},
		{"self transition rejected", StatusPending, StatusPending, false},
		{"backwards rejected", StatusShipped, StatusProcessing, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.True(t, StatusDelivered.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusProcessing.IsTerminal())
	assert.False(t, StatusShipped.IsTerminal())
}

func TestParseStatus(t *testing.T) {
	status, err := ParseStatus("Shipped")
	require.NoError(t, err)
	assert.Equal(t, StatusShipped, status)

	_, err = ParseStatus("shipped")
	assert.Error(t, err)

	_, err = ParseStatus("")
	assert.Error(t, err)
}

func TestNewOrder(t *testing.T) {
	order := newTestOrder(t)

	assert.NotEmpty(t, order.OrderID)
	assert.Equal(t, "ORD-", order.OrderID[:4])
	assert.Equal(t, int64(42), order.OrderNumber)
	assert.Equal(t, StatusPending, order.Status)
	assert.Equal(t, 250.0, order.TotalPrice)
	assert.False(t, order.Read)
	assert.Nil(t, order.DeliveredAt)
	assert.Nil(t, order.CancelledAt)

	events := order.DomainEvents()
	require.Len(t, events, 1)
	created, ok := events[0].(*OrderCreatedEvent)
	require.True(t, ok)
	assert.Equal(t, order.OrderID, created.OrderID)
	assert.Equal(t, int64(42), created.OrderNumber)
	assert.Equal(t, "SLR-seller01", created.SellerID)
	assert.Equal(t, 250.0, created.TotalPrice)
	assert.Equal(t, 2, created.ItemCount)
}

func TestNewOrder_Validation(t *testing.T) {
	_, err := NewOrder("SLR-seller01", "CUST-1", "cod", 1, nil, testAddress())
	assert.ErrorIs(t, err, ErrEmptyOrder)

	items := testItems()
	items[0].Quantity = 0
	_, err = NewOrder("SLR-seller01", "CUST-1", "cod", 1, items, testAddress())
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestOrder_TransitionTo(t *testing.T) {
	order := newTestOrder(t)
	order.ClearDomainEvents()

	require.NoError(t, order.TransitionTo(StatusProcessing))
	assert.Equal(t, StatusProcessing, order.Status)

	events := order.DomainEvents()
	require.Len(t, events, 1)
	changed, ok := events[0].(*OrderStatusChangedEvent)
	require.True(t, ok)
	assert.Equal(t, StatusPending, changed.OldStatus)
	assert.Equal(t, StatusProcessing, changed.NewStatus)

	require.NoError(t, order.TransitionTo(StatusShipped))
	require.NoError(t, order.TransitionTo(StatusDelivered))
	assert.NotNil(t, order.DeliveredAt)
}

func TestOrder_TransitionTo_Rejected(t *testing.T) {
	order := newTestOrder(t)
	order.ClearDomainEvents()

	err := order.TransitionTo(StatusDelivered)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, StatusPending, order.Status)
	assert.Empty(t, order.DomainEvents())

	err = order.TransitionTo(StatusPending)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestOrder_TransitionTo_TerminalImmutability(t *testing.T) {
	order := newTestOrder(t)
	require.NoError(t, order.TransitionTo(StatusCancelled))
	assert.NotNil(t, order.CancelledAt)

	// Re-requesting the terminal status is still an invalid transition
	err := order.TransitionTo(StatusCancelled)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	err = order.TransitionTo(StatusProcessing)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, StatusCancelled, order.Status)
}

func TestOrder_MarkRead_Idempotent(t *testing.T) {
	order := newTestOrder(t)
	assert.False(t, order.Read)

	order.MarkRead()
	assert.True(t, order.Read)
	first := order.UpdatedAt

	order.MarkRead()
	assert.True(t, order.Read)
	assert.Equal(t, first, order.UpdatedAt)
}

func TestOrder_BelongsTo(t *testing.T) {
	order := newTestOrder(t)
	assert.True(t, order.BelongsTo("SLR-seller01"))
	assert.False(t, order.BelongsTo("SLR-other"))
}

func TestLineItem_Subtotal(t *testing.T) {
	item := LineItem{Quantity: 3, UnitPrice: 19.99}
	assert.InDelta(t, 59.97, item.Subtotal(), 0.001)
}

func TestNewSellerStats_ZeroFilled(t *testing.T) {
	stats := NewSellerStats()
	require.Len(t, stats.StatusCounts, 5)
	for _, status := range []Status{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled} {
		count, ok := stats.StatusCounts[status]
		assert.True(t, ok)
		assert.Zero(t, count)
	}
	assert.Zero(t, stats.TotalOrders())
}

func TestPagination_Validate(t *testing.T) {
	tests := []struct {
		name     string
		page     int64
		pageSize int64
		valid    bool
	}{
		{"defaults", 1, 20, true},
		{"large page", 500, 20, true},
		{"zero page", 0, 20, false},
		{"negative page", -3, 20, false},
		{"zero pageSize", 1, 0, false},
		{"negative pageSize", 1, -10, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Pagination{Page: tt.page, PageSize: tt.pageSize}.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidPagination)
			}
		})
	}
}

func TestPagination_NormalizeCapsPageSize(t *testing.T) {
	p := Pagination{Page: 1, PageSize: 9999}
	p.Normalize()
	assert.Equal(t, int64(100), p.PageSize)
}
