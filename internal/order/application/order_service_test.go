package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketplace/seller-portal/internal/order/domain"
	apperrors "github.com/marketplace/seller-portal/pkg/errors"
	"github.com/marketplace/seller-portal/pkg/logging"
)

type mockOrderRepo struct {
	saveFn         func(context.Context, *domain.Order) error
	findByIDFn     func(context.Context, string) (*domain.Order, error)
	findBySellerFn func(context.Context, string, domain.OrderFilter, domain.Pagination) ([]*domain.Order, error)
	countFn        func(context.Context, string, domain.OrderFilter) (int64, error)
	updateStatusFn func(context.Context, string, domain.Status, domain.Status) (*domain.Order, error)
	markReadFn     func(context.Context, string) (*domain.Order, error)
	statsFn        func(context.Context, string, time.Time) (*domain.SellerStats, error)

	lastSaved *domain.Order
}

func (m *mockOrderRepo) Save(ctx context.Context, order *domain.Order) error {
	m.lastSaved = order
	if m.saveFn != nil {
		return m.saveFn(ctx, order)
	}
	return nil
}

func (m *mockOrderRepo) FindByOrderID(ctx context.Context, orderID string) (*domain.Order, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, orderID)
	}
	return nil, nil
}

func (m *mockOrderRepo) FindBySeller(ctx context.Context, sellerID string, filter domain.OrderFilter, pagination domain.Pagination) ([]*domain.Order, error) {
	if m.findBySellerFn != nil {
		return m.findBySellerFn(ctx, sellerID, filter, pagination)
	}
	return nil, nil
}

func (m *mockOrderRepo) CountBySeller(ctx context.Context, sellerID string, filter domain.OrderFilter) (int64, error) {
	if m.countFn != nil {
		return m.countFn(ctx, sellerID, filter)
	}
	return 0, nil
}

func (m *mockOrderRepo) UpdateStatus(ctx context.Context, orderID string, expected, target domain.Status) (*domain.Order, error) {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, orderID, expected, target)
	}
	return nil, nil
}

func (m *mockOrderRepo) MarkRead(ctx context.Context, orderID string) (*domain.Order, error) {
	if m.markReadFn != nil {
		return m.markReadFn(ctx, orderID)
	}
	return nil, nil
}

func (m *mockOrderRepo) Stats(ctx context.Context, sellerID string, dayStart time.Time) (*domain.SellerStats, error) {
	if m.statsFn != nil {
		return m.statsFn(ctx, sellerID, dayStart)
	}
	return domain.NewSellerStats(), nil
}

type mockPublisher struct {
	published []domain.DomainEvent
	failWith  error
}

func (m *mockPublisher) Publish(ctx context.Context, event domain.DomainEvent) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.published = append(m.published, event)
	return nil
}

func (m *mockPublisher) PublishAll(ctx context.Context, events []domain.DomainEvent) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.published = append(m.published, events...)
	return nil
}

type mockCatalog struct {
	reserveFn func(context.Context, []RequestedItem) (*Reservation, error)
	confirmed []*Reservation
}

func (m *mockCatalog) ConfirmReservation(ctx context.Context, reservation *Reservation) {
	m.confirmed = append(m.confirmed, reservation)
}

func (m *mockCatalog) Reserve(ctx context.Context, items []RequestedItem) (*Reservation, error) {
	if m.reserveFn != nil {
		return m.reserveFn(ctx, items)
	}
	return &Reservation{
		SellerID: "SLR-seller01",
		Items: []domain.LineItem{
			{ProductID: "PRD-aaaa1111", Name: "Cotton Shirt", Size: "M", Color: "Blue", Quantity: 2, UnitPrice: 100},
			{ProductID: "PRD-bbbb2222", Name: "Linen Scarf", Size: "One", Color: "Red", Quantity: 1, UnitPrice: 50},
		},
	}, nil
}

type mockSequencer struct {
	next int64
	err  error
}

func (m *mockSequencer) NextOrderNumber(ctx context.Context) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.next++
	return m.next, nil
}

type mockTransactor struct{}

func (m *mockTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func testLogger() *logging.Logger {
	cfg := logging.DefaultConfig("seller-portal-test")
	cfg.Level = logging.LevelError
	return logging.New(cfg)
}

func newService(repo *mockOrderRepo, publisher *mockPublisher, catalog *mockCatalog) *OrderApplicationService {
	return NewOrderApplicationService(repo, publisher, catalog, &mockSequencer{}, &mockTransactor{}, testLogger(), nil)
}

func createOrderCommand() CreateOrderCommand {
	return CreateOrderCommand{
		CustomerID:    "CUST-1",
		PaymentMethod: "cod",
		Items: []RequestedItem{
			{ProductID: "PRD-aaaa1111", Size: "M", Color: "Blue", Quantity: 2},
			{ProductID: "PRD-bbbb2222", Size: "One", Color: "Red", Quantity: 1},
		},
		ShippingAddress: ShippingAddress{
			FullName:   "A Customer",
			Line1:      "12 Market Road",
			City:       "Pune",
			State:      "MH",
			PostalCode: "411001",
		},
	}
}

func storedOrder(t *testing.T, sellerID string) *domain.Order {
	t.Helper()
	order, err := domain.NewOrder(sellerID, "CUST-1", "cod", 7, []domain.LineItem{
		{ProductID: "PRD-aaaa1111", Name: "Cotton Shirt", Size: "M", Color: "Blue", Quantity: 2, UnitPrice: 100},
		{ProductID: "PRD-bbbb2222", Name: "Linen Scarf", Size: "One", Color: "Red", Quantity: 1, UnitPrice: 50},
	}, domain.Address{FullName: "A Customer", Line1: "12 Market Road", City: "Pune", State: "MH", PostalCode: "411001"})
	require.NoError(t, err)
	order.ClearDomainEvents()
	return order
}

func TestCreateOrder(t *testing.T) {
	repo := &mockOrderRepo{}
	publisher := &mockPublisher{}
	service := newService(repo, publisher, &mockCatalog{})

	dto, err := service.CreateOrder(context.Background(), createOrderCommand())
	require.NoError(t, err)
	require.NotNil(t, dto)

	assert.Equal(t, "SLR-seller01", dto.SellerID)
	assert.Equal(t, string(domain.StatusPending), dto.Status)
	assert.Equal(t, 250.0, dto.TotalPrice)
	assert.Equal(t, int64(1), dto.OrderNumber)
	assert.False(t, dto.Read)

	require.NotNil(t, repo.lastSaved)
	require.Len(t, publisher.published, 1)
	created, ok := publisher.published[0].(*domain.OrderCreatedEvent)
	require.True(t, ok)
	assert.Equal(t, dto.OrderID, created.OrderID)
	assert.Equal(t, 250.0, created.TotalPrice)
}

func TestCreateOrderEmptyItems(t *testing.T) {
	service := newService(&mockOrderRepo{}, &mockPublisher{}, &mockCatalog{})

	_, err := service.CreateOrder(context.Background(), CreateOrderCommand{CustomerID: "CUST-1", PaymentMethod: "cod"})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.HTTPStatus)
}

func TestCreateOrderReservationFails(t *testing.T) {
	repo := &mockOrderRepo{}
	catalog := &mockCatalog{
		reserveFn: func(ctx context.Context, items []RequestedItem) (*Reservation, error) {
			return nil, apperrors.ErrValidation("insufficient stock for product PRD-aaaa1111 (M/Blue)")
		},
	}
	service := newService(repo, &mockPublisher{}, catalog)

	_, err := service.CreateOrder(context.Background(), createOrderCommand())
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.HTTPStatus)
	assert.Nil(t, repo.lastSaved)
}

func TestCreateOrderConfirmsReservationAfterCommit(t *testing.T) {
	catalog := &mockCatalog{
		reserveFn: func(ctx context.Context, items []RequestedItem) (*Reservation, error) {
			return &Reservation{
				SellerID: "SLR-seller01",
				Items: []domain.LineItem{
					{ProductID: "PRD-aaaa1111", Name: "Cotton Shirt", Size: "M", Color: "Blue", Quantity: 2, UnitPrice: 100},
				},
				Depleted: []DepletedVariant{{ProductID: "PRD-aaaa1111", Size: "M", Color: "Blue"}},
			}, nil
		},
	}
	service := newService(&mockOrderRepo{}, &mockPublisher{}, catalog)

	_, err := service.CreateOrder(context.Background(), createOrderCommand())
	require.NoError(t, err)

	require.Len(t, catalog.confirmed, 1)
	require.Len(t, catalog.confirmed[0].Depleted, 1)
	assert.Equal(t, "PRD-aaaa1111", catalog.confirmed[0].Depleted[0].ProductID)
}

func TestCreateOrderRolledBackReservationIsNotConfirmed(t *testing.T) {
	repo := &mockOrderRepo{
		saveFn: func(ctx context.Context, order *domain.Order) error {
			return errors.New("write conflict")
		},
	}
	catalog := &mockCatalog{
		reserveFn: func(ctx context.Context, items []RequestedItem) (*Reservation, error) {
			return &Reservation{
				SellerID: "SLR-seller01",
				Items: []domain.LineItem{
					{ProductID: "PRD-aaaa1111", Name: "Cotton Shirt", Size: "M", Color: "Blue", Quantity: 2, UnitPrice: 100},
				},
				Depleted: []DepletedVariant{{ProductID: "PRD-aaaa1111", Size: "M", Color: "Blue"}},
			}, nil
		},
	}
	service := newService(repo, &mockPublisher{}, catalog)

	_, err := service.CreateOrder(context.Background(), createOrderCommand())
	require.Error(t, err)
	assert.Empty(t, catalog.confirmed)
}

func TestCreateOrderPublishFailureDoesNotFailRequest(t *testing.T) {
	repo := &mockOrderRepo{}
	publisher := &mockPublisher{failWith: errors.New("broker down")}
	service := newService(repo, publisher, &mockCatalog{})

	dto, err := service.CreateOrder(context.Background(), createOrderCommand())
	require.NoError(t, err)
	assert.NotNil(t, dto)
}

func TestGetOrder(t *testing.T) {
	order := storedOrder(t, "SLR-seller01")
	repo := &mockOrderRepo{
		findByIDFn: func(ctx context.Context, orderID string) (*domain.Order, error) {
			return order, nil
		},
	}
	service := newService(repo, &mockPublisher{}, &mockCatalog{})

	dto, err := service.GetOrder(context.Background(), GetOrderQuery{OrderID: order.OrderID, ActorSellerID: "SLR-seller01"})
	require.NoError(t, err)
	assert.Equal(t, order.OrderID, dto.OrderID)
}

func TestGetOrderNotFound(t *testing.T) {
	service := newService(&mockOrderRepo{}, &mockPublisher{}, &mockCatalog{})

	_, err := service.GetOrder(context.Background(), GetOrderQuery{OrderID: "ORD-missing1", ActorSellerID: "SLR-seller01"})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.HTTPStatus)
}

func TestGetOrderForbidden(t *testing.T) {
	order := storedOrder(t, "SLR-owner")
	repo := &mockOrderRepo{
		findByIDFn: func(ctx context.Context, orderID string) (*domain.Order, error) {
			return order, nil
		},
	}
	service := newService(repo, &mockPublisher{}, &mockCatalog{})

	_, err := service.GetOrder(context.Background(), GetOrderQuery{OrderID: order.OrderID, ActorSellerID: "SLR-intruder"})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 403, appErr.HTTPStatus)
}

func TestListSellerOrdersInvalidStatus(t *testing.T) {
	service := newService(&mockOrderRepo{}, &mockPublisher{}, &mockCatalog{})

	bad := "pending"
	_, err := service.ListSellerOrders(context.Background(), ListOrdersQuery{SellerID: "SLR-seller01", Status: &bad})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.HTTPStatus)
}

func TestListSellerOrdersRejectsNonPositivePagination(t *testing.T) {
	listCalled := false
	repo := &mockOrderRepo{
		findBySellerFn: func(ctx context.Context, sellerID string, filter domain.OrderFilter, pagination domain.Pagination) ([]*domain.Order, error) {
			listCalled = true
			return nil, nil
		},
	}
	service := newService(repo, &mockPublisher{}, &mockCatalog{})

	for _, query := range []ListOrdersQuery{
		{SellerID: "SLR-seller01", Page: -3, PageSize: -10},
		{SellerID: "SLR-seller01", Page: 0, PageSize: 20},
		{SellerID: "SLR-seller01", Page: 1, PageSize: 0},
	} {
		_, err := service.ListSellerOrders(context.Background(), query)
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, 400, appErr.HTTPStatus)
	}
	assert.False(t, listCalled)
}

func TestListSellerOrdersCapsPageSize(t *testing.T) {
	var seen domain.Pagination
	repo := &mockOrderRepo{
		findBySellerFn: func(ctx context.Context, sellerID string, filter domain.OrderFilter, pagination domain.Pagination) ([]*domain.Order, error) {
			seen = pagination
			return nil, nil
		},
	}
	service := newService(repo, &mockPublisher{}, &mockCatalog{})

	resp, err := service.ListSellerOrders(context.Background(), ListOrdersQuery{SellerID: "SLR-seller01", Page: 1, PageSize: 9999})
	require.NoError(t, err)
	assert.Equal(t, int64(100), seen.PageSize)
	assert.Empty(t, resp.Orders)
}

func TestListSellerOrdersPageBeyondEndIsEmpty(t *testing.T) {
	repo := &mockOrderRepo{
		findBySellerFn: func(ctx context.Context, sellerID string, filter domain.OrderFilter, pagination domain.Pagination) ([]*domain.Order, error) {
			return nil, nil
		},
		countFn: func(ctx context.Context, sellerID string, filter domain.OrderFilter) (int64, error) {
			return 3, nil
		},
	}
	service := newService(repo, &mockPublisher{}, &mockCatalog{})

	resp, err := service.ListSellerOrders(context.Background(), ListOrdersQuery{SellerID: "SLR-seller01", Page: 50, PageSize: 20})
	require.NoError(t, err)
	assert.Empty(t, resp.Orders)
	assert.Equal(t, int64(3), resp.Total)
}

func TestRequestStatusChange(t *testing.T) {
	order := storedOrder(t, "SLR-seller01")
	updated := storedOrder(t, "SLR-seller01")
	updated.OrderID = order.OrderID
	updated.Status = domain.StatusProcessing

	repo := &mockOrderRepo{
		findByIDFn: func(ctx context.Context, orderID string) (*domain.Order, error) {
			return order, nil
		},
		updateStatusFn: func(ctx context.Context, orderID string, expected, target domain.Status) (*domain.Order, error) {
			assert.Equal(t, domain.StatusPending, expected)
			assert.Equal(t, domain.StatusProcessing, target)
			return updated, nil
		},
	}
	publisher := &mockPublisher{}
	service := newService(repo, publisher, &mockCatalog{})

	dto, err := service.RequestStatusChange(context.Background(), ChangeStatusCommand{
		OrderID:       order.OrderID,
		ActorSellerID: "SLR-seller01",
		Status:        "Processing",
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusProcessing), dto.Status)

	require.Len(t, publisher.published, 1)
	changed, ok := publisher.published[0].(*domain.OrderStatusChangedEvent)
	require.True(t, ok)
	assert.Equal(t, domain.StatusPending, changed.OldStatus)
	assert.Equal(t, domain.StatusProcessing, changed.NewStatus)
}

func TestRequestStatusChangeInvalidTransition(t *testing.T) {
	order := storedOrder(t, "SLR-seller01")
	repo := &mockOrderRepo{
		findByIDFn: func(ctx context.Context, orderID string) (*domain.Order, error) {
			return order, nil
		},
	}
	service := newService(repo, &mockPublisher{}, &mockCatalog{})

	_, err := service.RequestStatusChange(context.Background(), ChangeStatusCommand{
		OrderID:       order.OrderID,
		ActorSellerID: "SLR-seller01",
		Status:        "Delivered",
	})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.HTTPStatus)
	assert.Equal(t, "INVALID_TRANSITION", appErr.Code)
	assert.Equal(t, "Pending", appErr.Details["currentStatus"])
	assert.Equal(t, "Delivered", appErr.Details["requestedStatus"])
}

func TestRequestStatusChangeTerminalOrder(t *testing.T) {
	order := storedOrder(t, "SLR-seller01")
	order.Status = domain.StatusCancelled

	repo := &mockOrderRepo{
		findByIDFn: func(ctx context.Context, orderID string) (*domain.Order, error) {
			return order, nil
		},
	}
	service := newService(repo, &mockPublisher{}, &mockCatalog{})

	// Re-requesting the terminal status is rejected like any other transition
	_, err := service.RequestStatusChange(context.Background(), ChangeStatusCommand{
		OrderID:       order.OrderID,
		ActorSellerID: "SLR-seller01",
		Status:        "Cancelled",
	})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "INVALID_TRANSITION", appErr.Code)
}

func TestRequestStatusChangeForbiddenDoesNotMutate(t *testing.T) {
	order := storedOrder(t, "SLR-owner")
	updateCalled := false
	repo := &mockOrderRepo{
		findByIDFn: func(ctx context.Context, orderID string) (*domain.Order, error) {
			return order, nil
		},
		updateStatusFn: func(ctx context.Context, orderID string, expected, target domain.Status) (*domain.Order, error) {
			updateCalled = true
			return nil, nil
		},
	}
	service := newService(repo, &mockPublisher{}, &mockCatalog{})

	_, err := service.RequestStatusChange(context.Background(), ChangeStatusCommand{
		OrderID:       order.OrderID,
		ActorSellerID: "SLR-intruder",
		Status:        "Processing",
	})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 403, appErr.HTTPStatus)
	assert.False(t, updateCalled)
	assert.Equal(t, domain.StatusPending, order.Status)
}

func TestRequestStatusChangeConcurrentConflict(t *testing.T) {
	order := storedOrder(t, "SLR-seller01")
	repo := &mockOrderRepo{
		findByIDFn: func(ctx context.Context, orderID string) (*domain.Order, error) {
			return order, nil
		},
		updateStatusFn: func(ctx context.Context, orderID string, expected, target domain.Status) (*domain.Order, error) {
			return nil, domain.ErrConcurrentModification
		},
	}
	service := newService(repo, &mockPublisher{}, &mockCatalog{})

	_, err := service.RequestStatusChange(context.Background(), ChangeStatusCommand{
		OrderID:       order.OrderID,
		ActorSellerID: "SLR-seller01",
		Status:        "Processing",
	})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 409, appErr.HTTPStatus)
}

func TestMarkOrderRead(t *testing.T) {
	order := storedOrder(t, "SLR-seller01")
	marked := storedOrder(t, "SLR-seller01")
	marked.OrderID = order.OrderID
	marked.Read = true

	markCalls := 0
	repo := &mockOrderRepo{
		findByIDFn: func(ctx context.Context, orderID string) (*domain.Order, error) {
			return order, nil
		},
		markReadFn: func(ctx context.Context, orderID string) (*domain.Order, error) {
			markCalls++
			return marked, nil
		},
	}
	service := newService(repo, &mockPublisher{}, &mockCatalog{})

	dto, err := service.MarkOrderRead(context.Background(), MarkReadCommand{OrderID: order.OrderID, ActorSellerID: "SLR-seller01"})
	require.NoError(t, err)
	assert.True(t, dto.Read)
	assert.Equal(t, 1, markCalls)

	// Second call sees an already-read order and skips the write
	order.Read = true
	dto, err = service.MarkOrderRead(context.Background(), MarkReadCommand{OrderID: order.OrderID, ActorSellerID: "SLR-seller01"})
	require.NoError(t, err)
	assert.True(t, dto.Read)
	assert.Equal(t, 1, markCalls)
}

func TestGetSellerStatistics(t *testing.T) {
	repo := &mockOrderRepo{
		statsFn: func(ctx context.Context, sellerID string, dayStart time.Time) (*domain.SellerStats, error) {
			assert.Equal(t, 0, dayStart.Hour())
			assert.Equal(t, 0, dayStart.Minute())

			stats := domain.NewSellerStats()
			stats.StatusCounts[domain.StatusPending] = 2
			stats.StatusCounts[domain.StatusDelivered] = 1
			stats.StatusCounts[domain.StatusCancelled] = 1
			stats.TodayOrdersCount = 2
			stats.UnreadOrdersCount = 1
			// Pending 2x100 plus delivered 1x50; the cancelled order's
			// total is excluded from revenue
			stats.TotalRevenue = 250
			return stats, nil
		},
	}
	service := newService(repo, &mockPublisher{}, &mockCatalog{})

	dto, err := service.GetSellerStatistics(context.Background(), "SLR-seller01")
	require.NoError(t, err)

	require.Len(t, dto.StatusCounts, 5)
	assert.Equal(t, int64(2), dto.StatusCounts["Pending"])
	assert.Equal(t, int64(0), dto.StatusCounts["Shipped"])
	assert.Equal(t, int64(2), dto.TodayOrdersCount)
	assert.Equal(t, int64(1), dto.UnreadOrdersCount)
	assert.Equal(t, 250.0, dto.TotalRevenue)
}
