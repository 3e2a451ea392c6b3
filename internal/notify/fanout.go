package notify

import (
	"context"
	"time"

	"github.com/sony/gobreaker"

	orderdomain "github.com/marketplace/seller-portal/internal/order/domain"
	"github.com/marketplace/seller-portal/pkg/cloudevents"
	"github.com/marketplace/seller-portal/pkg/kafka"
	"github.com/marketplace/seller-portal/pkg/logging"
	"github.com/marketplace/seller-portal/pkg/metrics"
)

const breakerName = "kafka-publisher"

// KafkaPublisher is the broker-facing side of the fan-out
type KafkaPublisher interface {
	PublishEvent(ctx context.Context, topic string, event *cloudevents.CloudEvent) error
}

// Fanout delivers order domain events to Kafka and to in-process
// subscribers. It implements the order context's EventPublisher.
// Delivery is best effort: failures are logged and swallowed so a
// broker outage never fails the request that raised the event.
type Fanout struct {
	registry  *SubscriptionRegistry
	publisher KafkaPublisher
	breaker   *gobreaker.CircuitBreaker
	logger    *logging.Logger
	metrics   *metrics.Metrics
}

// NewFanout creates a Fanout. publisher may be nil when Kafka is
// disabled; broadcasting to subscribers still works.
func NewFanout(registry *SubscriptionRegistry, publisher KafkaPublisher, logger *logging.Logger, m *metrics.Metrics) *Fanout {
	f := &Fanout{
		registry:  registry,
		publisher: publisher,
		logger:    logger.WithComponent("notify-fanout"),
		metrics:   m,
	}

	f.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			m.SetCircuitBreakerState(name, int(to))
			if to == gobreaker.StateOpen {
				m.RecordCircuitBreakerTrip(name)
			}
			f.logger.Warn("Circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})

	return f
}

// Publish delivers a single domain event
func (f *Fanout) Publish(ctx context.Context, event orderdomain.DomainEvent) error {
	switch e := event.(type) {
	case *orderdomain.OrderCreatedEvent:
		f.deliverOrderCreated(ctx, e)
	case *orderdomain.OrderStatusChangedEvent:
		f.deliverStatusChanged(ctx, e)
	default:
		f.logger.Warn("Unknown domain event type", "eventType", event.EventType())
	}
	return nil
}

// PublishAll delivers multiple domain events
func (f *Fanout) PublishAll(ctx context.Context, events []orderdomain.DomainEvent) error {
	for _, event := range events {
		_ = f.Publish(ctx, event)
	}
	return nil
}

func (f *Fanout) deliverOrderCreated(ctx context.Context, e *orderdomain.OrderCreatedEvent) {
	f.registry.Broadcast(Notification{
		Event:       e.EventType(),
		OrderID:     e.OrderID,
		OrderNumber: e.OrderNumber,
		SellerID:    e.SellerID,
		TotalPrice:  e.TotalPrice,
		Timestamp:   e.CreatedAt,
	})

	event := cloudevents.NewCloudEvent(cloudevents.OrderCreated, cloudevents.SourceOrders, e.OrderID,
		cloudevents.OrderCreatedData{
			OrderID:     e.OrderID,
			OrderNumber: e.OrderNumber,
			SellerID:    e.SellerID,
			CustomerID:  e.CustomerID,
			TotalPrice:  e.TotalPrice,
			ItemCount:   e.ItemCount,
			CreatedAt:   e.CreatedAt,
		})
	event.SellerID = e.SellerID
	event.OrderID = e.OrderID

	f.publishToKafka(ctx, kafka.Topics.OrdersEvents, event)
}

func (f *Fanout) deliverStatusChanged(ctx context.Context, e *orderdomain.OrderStatusChangedEvent) {
	f.registry.Broadcast(Notification{
		Event:       e.EventType(),
		OrderID:     e.OrderID,
		OrderNumber: e.OrderNumber,
		SellerID:    e.SellerID,
		OldStatus:   string(e.OldStatus),
		NewStatus:   string(e.NewStatus),
		Timestamp:   e.ChangedAt,
	})

	event := cloudevents.NewCloudEvent(cloudevents.OrderStatusChanged, cloudevents.SourceOrders, e.OrderID,
		cloudevents.OrderStatusChangedData{
			OrderID:     e.OrderID,
			OrderNumber: e.OrderNumber,
			SellerID:    e.SellerID,
			OldStatus:   string(e.OldStatus),
			NewStatus:   string(e.NewStatus),
			ChangedAt:   e.ChangedAt,
		})
	event.SellerID = e.SellerID
	event.OrderID = e.OrderID

	f.publishToKafka(ctx, kafka.Topics.OrdersEvents, event)
}

// publishToKafka sends through the circuit breaker and swallows any
// failure
func (f *Fanout) publishToKafka(ctx context.Context, topic string, event *cloudevents.CloudEvent) {
	if f.publisher == nil {
		return
	}

	start := time.Now()
	_, err := f.breaker.Execute(func() (interface{}, error) {
		return nil, f.publisher.PublishEvent(ctx, topic, event)
	})
	f.metrics.RecordKafkaPublish(topic, event.Type, err == nil, time.Since(start))

	if err != nil {
		f.logger.WithContext(ctx).Warn("Event publish failed",
			"topic", topic,
			"eventType", event.Type,
			"eventId", event.ID,
			"error", err.Error(),
		)
	}
}
