package notify

import (
	"strconv"
	"sync"
	"time"

	"github.com/marketplace/seller-portal/pkg/logging"
	"github.com/marketplace/seller-portal/pkg/metrics"
)

// Notification is the payload delivered to in-process subscribers
type Notification struct {
	Event       string    `json:"event"`
	OrderID     string    `json:"orderId"`
	OrderNumber int64     `json:"orderNumber"`
	SellerID    string    `json:"sellerId"`
	OldStatus   string    `json:"oldStatus,omitempty"`
	NewStatus   string    `json:"newStatus,omitempty"`
	TotalPrice  float64   `json:"totalPrice,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Subscription is a live feed of a seller's order notifications.
// The channel is closed on Unsubscribe.
type Subscription struct {
	ID       string
	SellerID string
	C        <-chan Notification

	ch chan Notification
}

// SubscriptionRegistry tracks per-seller notification subscribers.
// Delivery is non-blocking: a subscriber whose buffer is full misses
// the notification.
type SubscriptionRegistry struct {
	mu          sync.RWMutex
	subscribers map[string]map[string]*Subscription
	bufferSize  int
	nextID      int64

	logger  *logging.Logger
	metrics *metrics.Metrics
}

// NewSubscriptionRegistry creates a registry with the given
// per-subscriber buffer size
func NewSubscriptionRegistry(bufferSize int, logger *logging.Logger, m *metrics.Metrics) *SubscriptionRegistry {
	if bufferSize < 1 {
		bufferSize = 16
	}
	return &SubscriptionRegistry{
		subscribers: make(map[string]map[string]*Subscription),
		bufferSize:  bufferSize,
		logger:      logger.WithComponent("notify-registry"),
		metrics:     m,
	}
}

// Subscribe registers a new subscriber for the seller's notifications
func (r *SubscriptionRegistry) Subscribe(sellerID string) *Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	ch := make(chan Notification, r.bufferSize)
	sub := &Subscription{
		ID:       subscriptionID(r.nextID),
		SellerID: sellerID,
		C:        ch,
		ch:       ch,
	}

	if r.subscribers[sellerID] == nil {
		r.subscribers[sellerID] = make(map[string]*Subscription)
	}
	r.subscribers[sellerID][sub.ID] = sub

	r.logger.Debug("Subscriber added", "sellerId", sellerID, "subscriptionId", sub.ID)
	return sub
}

// Unsubscribe removes a subscriber and closes its channel. Safe to
// call with an already removed subscription.
func (r *SubscriptionRegistry) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	sellerSubs, ok := r.subscribers[sub.SellerID]
	if !ok {
		return
	}
	if _, ok := sellerSubs[sub.ID]; !ok {
		return
	}

	delete(sellerSubs, sub.ID)
	if len(sellerSubs) == 0 {
		delete(r.subscribers, sub.SellerID)
	}
	close(sub.ch)

	r.logger.Debug("Subscriber removed", "sellerId", sub.SellerID, "subscriptionId", sub.ID)
}

// Broadcast delivers a notification to every subscriber of the
// owning seller. Never blocks; full buffers drop.
func (r *SubscriptionRegistry) Broadcast(notification Notification) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, sub := range r.subscribers[notification.SellerID] {
		select {
		case sub.ch <- notification:
			r.metrics.RecordNotificationSent(notification.Event)
		default:
			r.metrics.RecordNotificationDropped(notification.Event)
			r.logger.Warn("Notification dropped, subscriber buffer full",
				"sellerId", notification.SellerID,
				"subscriptionId", sub.ID,
				"event", notification.Event,
			)
		}
	}
}

// SubscriberCount returns the number of live subscribers for a seller
func (r *SubscriptionRegistry) SubscriberCount(sellerID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subscribers[sellerID])
}

// Close unsubscribes everyone
func (r *SubscriptionRegistry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for sellerID, sellerSubs := range r.subscribers {
		for _, sub := range sellerSubs {
			close(sub.ch)
		}
		delete(r.subscribers, sellerID)
	}
}

func subscriptionID(n int64) string {
	return "sub-" + strconv.FormatInt(n, 10)
}
