package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/marketplace/seller-portal/internal/order/domain"
	apperrors "github.com/marketplace/seller-portal/pkg/errors"
	"github.com/marketplace/seller-portal/pkg/logging"
	"github.com/marketplace/seller-portal/pkg/metrics"
)

// OrderApplicationService handles order lifecycle use cases
type OrderApplicationService struct {
	orderRepo  domain.OrderRepository
	publisher  domain.EventPublisher
	catalog    CatalogGateway
	sequencer  Sequencer
	transactor Transactor
	logger     *logging.Logger
	metrics    *metrics.Metrics
}

// NewOrderApplicationService creates a new OrderApplicationService
func NewOrderApplicationService(
	orderRepo domain.OrderRepository,
	publisher domain.EventPublisher,
	catalog CatalogGateway,
	sequencer Sequencer,
	transactor Transactor,
	logger *logging.Logger,
	m *metrics.Metrics,
) *OrderApplicationService {
	return &OrderApplicationService{
		orderRepo:  orderRepo,
		publisher:  publisher,
		catalog:    catalog,
		sequencer:  sequencer,
		transactor: transactor,
		logger:     logger,
		metrics:    m,
	}
}

// CreateOrder places a new order. Stock is reserved and the order is
// written in one transaction so a failed insert never leaks a decrement.
func (s *OrderApplicationService) CreateOrder(ctx context.Context, cmd CreateOrderCommand) (*OrderDTO, error) {
	if len(cmd.Items) == 0 {
		return nil, apperrors.ErrValidation("order must contain at least one item")
	}

	orderNumber, err := s.sequencer.NextOrderNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate order number: %w", err)
	}

	var (
		order       *domain.Order
		reservation *Reservation
	)
	err = s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		reservation, err = s.catalog.Reserve(txCtx, cmd.Items)
		if err != nil {
			return err
		}

		order, err = domain.NewOrder(
			reservation.SellerID,
			cmd.CustomerID,
			cmd.PaymentMethod,
			orderNumber,
			reservation.Items,
			domain.Address{
				FullName:   cmd.ShippingAddress.FullName,
				Line1:      cmd.ShippingAddress.Line1,
				Line2:      cmd.ShippingAddress.Line2,
				City:       cmd.ShippingAddress.City,
				State:      cmd.ShippingAddress.State,
				PostalCode: cmd.ShippingAddress.PostalCode,
				Phone:      cmd.ShippingAddress.Phone,
			},
		)
		if err != nil {
			return apperrors.ErrValidation(err.Error())
		}

		return s.orderRepo.Save(txCtx, order)
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		s.logger.WithContext(ctx).WithError(err).Error("Failed to create order")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.catalog.ConfirmReservation(ctx, reservation)

	s.publishEvents(ctx, order)
	if s.metrics != nil {
		s.metrics.RecordOrderCreated(order.PaymentMethod)
	}

	s.logger.WithContext(ctx).Info("Order created",
		"orderId", order.OrderID,
		"orderNumber", order.OrderNumber,
		"sellerId", order.SellerID,
		"totalPrice", order.TotalPrice,
	)

	return ToOrderDTO(order), nil
}

// GetOrder retrieves a single order, enforcing seller ownership
func (s *OrderApplicationService) GetOrder(ctx context.Context, query GetOrderQuery) (*OrderDTO, error) {
	order, err := s.findOwnedOrder(ctx, query.OrderID, query.ActorSellerID)
	if err != nil {
		return nil, err
	}
	return ToOrderDTO(order), nil
}

// ListSellerOrders retrieves a paginated list of the seller's orders,
// newest first, optionally filtered by status or read flag
func (s *OrderApplicationService) ListSellerOrders(ctx context.Context, query ListOrdersQuery) (*OrderListResponse, error) {
	pagination := domain.Pagination{
		Page:     query.Page,
		PageSize: query.PageSize,
	}
	if err := pagination.Validate(); err != nil {
		return nil, apperrors.ErrValidation(err.Error())
	}
	pagination.Normalize()

	filter := domain.OrderFilter{Unread: query.Unread}
	if query.Status != nil && *query.Status != "" {
		status, err := domain.ParseStatus(*query.Status)
		if err != nil {
			return nil, apperrors.ErrValidation(err.Error())
		}
		filter.Status = &status
	}

	total, err := s.orderRepo.CountBySeller(ctx, query.SellerID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	orders, err := s.orderRepo.FindBySeller(ctx, query.SellerID, filter, pagination)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	dtos := make([]*OrderDTO, 0, len(orders))
	for _, order := range orders {
		dtos = append(dtos, ToOrderDTO(order))
	}

	return &OrderListResponse{
		Orders:   dtos,
		Total:    total,
		Page:     pagination.Page,
		PageSize: pagination.PageSize,
	}, nil
}

// RequestStatusChange moves an order to the requested status on behalf
// of the owning seller. The write is conditional on the status observed
// here, so two racing transitions cannot both win.
func (s *OrderApplicationService) RequestStatusChange(ctx context.Context, cmd ChangeStatusCommand) (*OrderDTO, error) {
	target, err := domain.ParseStatus(cmd.Status)
	if err != nil {
		return nil, apperrors.ErrValidation(err.Error())
	}

	order, err := s.findOwnedOrder(ctx, cmd.OrderID, cmd.ActorSellerID)
	if err != nil {
		return nil, err
	}

	current := order.Status
	if !current.CanTransitionTo(target) {
		if s.metrics != nil {
			s.metrics.RecordOrderTransition(string(current), string(target), false)
		}
		return nil, apperrors.ErrInvalidTransition(string(current), string(target))
	}

	updated, err := s.orderRepo.UpdateStatus(ctx, cmd.OrderID, current, target)
	if err != nil {
		if errors.Is(err, domain.ErrConcurrentModification) {
			if s.metrics != nil {
				s.metrics.RecordOrderTransition(string(current), string(target), false)
			}
			return nil, apperrors.ErrConflict("order status changed concurrently, retry with fresh state")
		}
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordOrderTransition(string(current), string(target), true)
	}

	s.publishEvent(ctx, &domain.OrderStatusChangedEvent{
		OrderID:     updated.OrderID,
		OrderNumber: updated.OrderNumber,
		SellerID:    updated.SellerID,
		OldStatus:   current,
		NewStatus:   target,
		ChangedAt:   updated.UpdatedAt,
	})

	s.logger.WithContext(ctx).Info("Order status changed",
		"orderId", updated.OrderID,
		"oldStatus", string(current),
		"newStatus", string(target),
	)

	return ToOrderDTO(updated), nil
}

// MarkOrderRead marks an order as seen by the owning seller. Calling
// it on an already-read order is a no-op success.
func (s *OrderApplicationService) MarkOrderRead(ctx context.Context, cmd MarkReadCommand) (*OrderDTO, error) {
	order, err := s.findOwnedOrder(ctx, cmd.OrderID, cmd.ActorSellerID)
	if err != nil {
		return nil, err
	}

	if order.Read {
		return ToOrderDTO(order), nil
	}

	updated, err := s.orderRepo.MarkRead(ctx, cmd.OrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to mark order read: %w", err)
	}

	return ToOrderDTO(updated), nil
}

// GetSellerStatistics aggregates the dashboard numbers for a seller.
// "Today" is bounded by the server's local midnight.
func (s *OrderApplicationService) GetSellerStatistics(ctx context.Context, sellerID string) (*StatsDTO, error) {
	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	stats, err := s.orderRepo.Stats(ctx, sellerID, dayStart)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate order stats: %w", err)
	}

	return ToStatsDTO(stats), nil
}

// findOwnedOrder loads an order and verifies ownership without mutating it
func (s *OrderApplicationService) findOwnedOrder(ctx context.Context, orderID, actorSellerID string) (*domain.Order, error) {
	order, err := s.orderRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if order == nil {
		return nil, apperrors.ErrNotFoundWithID("order", orderID)
	}
	if !order.BelongsTo(actorSellerID) {
		s.logger.WithContext(ctx).Warn("Order access denied",
			"orderId", orderID,
			"actorSellerId", actorSellerID,
		)
		return nil, apperrors.ErrForbidden("order belongs to a different seller")
	}
	return order, nil
}

// publishEvents hands the aggregate's accumulated events to the fan-out.
// Delivery is best-effort; failures are logged, never propagated.
func (s *OrderApplicationService) publishEvents(ctx context.Context, order *domain.Order) {
	events := order.DomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.publisher.PublishAll(ctx, events); err != nil {
		s.logger.WithContext(ctx).WithError(err).Warn("Failed to publish order events",
			"orderId", order.OrderID,
		)
	}
	order.ClearDomainEvents()
}

func (s *OrderApplicationService) publishEvent(ctx context.Context, event domain.DomainEvent) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WithContext(ctx).WithError(err).Warn("Failed to publish order event",
			"eventType", event.EventType(),
		)
	}
}
