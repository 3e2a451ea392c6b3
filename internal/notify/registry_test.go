package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketplace/seller-portal/pkg/logging"
	"github.com/marketplace/seller-portal/pkg/metrics"
)

func testLogger() *logging.Logger {
	cfg := logging.DefaultConfig("seller-portal-test")
	cfg.Level = logging.LevelError
	return logging.New(cfg)
}

func testMetrics() *metrics.Metrics {
	return metrics.New(metrics.DefaultConfig("seller-portal-test"))
}

func newTestRegistry(bufferSize int) *SubscriptionRegistry {
	return NewSubscriptionRegistry(bufferSize, testLogger(), testMetrics())
}

func TestSubscribeAndBroadcast(t *testing.T) {
	registry := newTestRegistry(4)
	defer registry.Close()

	sub := registry.Subscribe("SLR-seller01")
	require.Equal(t, 1, registry.SubscriberCount("SLR-seller01"))

	registry.Broadcast(Notification{
		Event:       "order.created",
		OrderID:     "ORD-abc12345",
		OrderNumber: 7,
		SellerID:    "SLR-seller01",
		TotalPrice:  250.0,
		Timestamp:   time.Now().UTC(),
	})

	select {
	case n := <-sub.C:
		assert.Equal(t, "order.created", n.Event)
		assert.Equal(t, "ORD-abc12345", n.OrderID)
		assert.Equal(t, int64(7), n.OrderNumber)
	case <-time.After(time.Second):
		t.Fatal("expected a notification")
	}
}

func TestBroadcastOnlyReachesOwningSeller(t *testing.T) {
	registry := newTestRegistry(4)
	defer registry.Close()

	owner := registry.Subscribe("SLR-seller01")
	other := registry.Subscribe("SLR-seller02")

	registry.Broadcast(Notification{Event: "order.created", SellerID: "SLR-seller01"})

	select {
	case <-owner.C:
	case <-time.After(time.Second):
		t.Fatal("owner should receive the notification")
	}

	select {
	case n := <-other.C:
		t.Fatalf("unexpected notification for other seller: %+v", n)
	default:
	}
}

func TestBroadcastDropsWhenBufferFull(t *testing.T) {
	registry := newTestRegistry(2)
	defer registry.Close()

	sub := registry.Subscribe("SLR-seller01")

	// Two fill the buffer, the third must drop without blocking.
	for i := 0; i < 3; i++ {
		registry.Broadcast(Notification{Event: "order.created", SellerID: "SLR-seller01"})
	}

	received := 0
	for {
		select {
		case <-sub.C:
			received++
			continue
		default:
		}
		break
	}
	assert.Equal(t, 2, received)
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	registry := newTestRegistry(4)
	defer registry.Close()

	sub := registry.Subscribe("SLR-seller01")
	registry.Unsubscribe(sub)

	assert.Equal(t, 0, registry.SubscriberCount("SLR-seller01"))

	_, open := <-sub.C
	assert.False(t, open)

	// Double unsubscribe is a no-op.
	registry.Unsubscribe(sub)
	registry.Unsubscribe(nil)
}

func TestBroadcastAfterUnsubscribeDoesNotPanic(t *testing.T) {
	registry := newTestRegistry(4)
	defer registry.Close()

	sub := registry.Subscribe("SLR-seller01")
	registry.Unsubscribe(sub)

	registry.Broadcast(Notification{Event: "order.created", SellerID: "SLR-seller01"})
}

func TestCloseUnsubscribesEveryone(t *testing.T) {
	registry := newTestRegistry(4)

	first := registry.Subscribe("SLR-seller01")
	second := registry.Subscribe("SLR-seller02")

	registry.Close()

	_, open := <-first.C
	assert.False(t, open)
	_, open = <-second.C
	assert.False(t, open)
	assert.Equal(t, 0, registry.SubscriberCount("SLR-seller01"))
}
