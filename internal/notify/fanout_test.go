package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderdomain "github.com/marketplace/seller-portal/internal/order/domain"
	"github.com/marketplace/seller-portal/pkg/cloudevents"
)

type mockKafkaPublisher struct {
	published []*cloudevents.CloudEvent
	topics    []string
	failWith  error
}

func (m *mockKafkaPublisher) PublishEvent(ctx context.Context, topic string, event *cloudevents.CloudEvent) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.published = append(m.published, event)
	m.topics = append(m.topics, topic)
	return nil
}

func createdEvent() *orderdomain.OrderCreatedEvent {
	return &orderdomain.OrderCreatedEvent{
		OrderID:     "ORD-abc12345",
		OrderNumber: 7,
		SellerID:    "SLR-seller01",
		CustomerID:  "CUST-1",
		TotalPrice:  250.0,
		ItemCount:   2,
		CreatedAt:   time.Now().UTC(),
	}
}

func TestFanoutPublishOrderCreated(t *testing.T) {
	registry := newTestRegistry(4)
	defer registry.Close()
	sub := registry.Subscribe("SLR-seller01")

	publisher := &mockKafkaPublisher{}
	fanout := NewFanout(registry, publisher, testLogger(), testMetrics())

	require.NoError(t, fanout.Publish(context.Background(), createdEvent()))

	select {
	case n := <-sub.C:
		assert.Equal(t, "order.created", n.Event)
		assert.Equal(t, 250.0, n.TotalPrice)
	case <-time.After(time.Second):
		t.Fatal("expected a broadcast notification")
	}

	require.Len(t, publisher.published, 1)
	event := publisher.published[0]
	assert.Equal(t, cloudevents.OrderCreated, event.Type)
	assert.Equal(t, "SLR-seller01", event.SellerID)
	assert.Equal(t, "ORD-abc12345", event.OrderID)
}

func TestFanoutPublishStatusChanged(t *testing.T) {
	registry := newTestRegistry(4)
	defer registry.Close()
	sub := registry.Subscribe("SLR-seller01")

	publisher := &mockKafkaPublisher{}
	fanout := NewFanout(registry, publisher, testLogger(), testMetrics())

	require.NoError(t, fanout.Publish(context.Background(), &orderdomain.OrderStatusChangedEvent{
		OrderID:     "ORD-abc12345",
		OrderNumber: 7,
		SellerID:    "SLR-seller01",
		OldStatus:   orderdomain.StatusPending,
		NewStatus:   orderdomain.StatusProcessing,
		ChangedAt:   time.Now().UTC(),
	}))

	select {
	case n := <-sub.C:
		assert.Equal(t, "order.status_changed", n.Event)
		assert.Equal(t, "Pending", n.OldStatus)
		assert.Equal(t, "Processing", n.NewStatus)
	case <-time.After(time.Second):
		t.Fatal("expected a broadcast notification")
	}

	require.Len(t, publisher.published, 1)
	assert.Equal(t, cloudevents.OrderStatusChanged, publisher.published[0].Type)
}

func TestFanoutSwallowsKafkaFailure(t *testing.T) {
	registry := newTestRegistry(4)
	defer registry.Close()
	sub := registry.Subscribe("SLR-seller01")

	publisher := &mockKafkaPublisher{failWith: errors.New("broker unreachable")}
	fanout := NewFanout(registry, publisher, testLogger(), testMetrics())

	require.NoError(t, fanout.Publish(context.Background(), createdEvent()))

	// Subscribers still get the notification when Kafka is down.
	select {
	case <-sub.C:
	case <-time.After(time.Second):
		t.Fatal("expected a broadcast notification despite publish failure")
	}
}

func TestFanoutNilPublisher(t *testing.T) {
	registry := newTestRegistry(4)
	defer registry.Close()
	sub := registry.Subscribe("SLR-seller01")

	fanout := NewFanout(registry, nil, testLogger(), testMetrics())

	require.NoError(t, fanout.Publish(context.Background(), createdEvent()))

	select {
	case <-sub.C:
	case <-time.After(time.Second):
		t.Fatal("expected a broadcast notification")
	}
}

func TestFanoutBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	registry := newTestRegistry(4)
	defer registry.Close()

	publisher := &mockKafkaPublisher{failWith: errors.New("broker unreachable")}
	fanout := NewFanout(registry, publisher, testLogger(), testMetrics())

	for i := 0; i < 6; i++ {
		require.NoError(t, fanout.Publish(context.Background(), createdEvent()))
	}

	// Once open, the breaker short-circuits and the publisher is no
	// longer invoked.
	publisher.failWith = nil
	require.NoError(t, fanout.Publish(context.Background(), createdEvent()))
	assert.Empty(t, publisher.published)
}
