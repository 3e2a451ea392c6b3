package cloudevents

import (
	"time"

	"github.com/google/uuid"
)

// EventType constants for marketplace domain events
const (
	// Order events
	OrderCreated       = "marketplace.order.created"
	OrderStatusChanged = "marketplace.order.status-changed"
	OrderRead          = "marketplace.order.read"

	// Seller events
	SellerRegistered    = "marketplace.seller.registered"
	SellerProfileUpdate = "marketplace.seller.profile-updated"

	// Catalog events
	ProductCreated = "marketplace.product.created"
	ProductUpdated = "marketplace.product.updated"
	ProductDeleted = "marketplace.product.deleted"
	StockDepleted  = "marketplace.product.stock-depleted"
)

// Source constants for event sources
const (
	SourceOrders  = "/marketplace/orders"
	SourceSellers = "/marketplace/sellers"
	SourceCatalog = "/marketplace/catalog"
)

// CloudEvent represents a CloudEvents v1.0 compliant event envelope
type CloudEvent struct {
	SpecVersion     string      `json:"specversion"`
	Type            string      `json:"type"`
	Source          string      `json:"source"`
	Subject         string      `json:"subject,omitempty"`
	ID              string      `json:"id"`
	Time            time.Time   `json:"time"`
	DataContentType string      `json:"datacontenttype"`
	Data            interface{} `json:"data"`

	// Marketplace extensions
	CorrelationID string `json:"mpcorrelationid,omitempty"`
	SellerID      string `json:"mpsellerid,omitempty"`
	OrderID       string `json:"mporderid,omitempty"`

	// W3C Trace Context
	TraceParent string `json:"traceparent,omitempty"`
	TraceState  string `json:"tracestate,omitempty"`
}

// NewCloudEvent creates a CloudEvent with the v1.0 envelope populated
func NewCloudEvent(eventType, source, subject string, data interface{}) *CloudEvent {
	return &CloudEvent{
		SpecVersion:     "1.0",
		Type:            eventType,
		Source:          source,
		Subject:         subject,
		ID:              uuid.New().String(),
		Time:            time.Now().UTC(),
		DataContentType: "application/json",
		Data:            data,
	}
}

// OrderCreatedData represents the data payload for OrderCreated
type OrderCreatedData struct {
	OrderID     string    `json:"orderId"`
	OrderNumber int64     `json:"orderNumber"`
	SellerID    string    `json:"sellerId"`
	CustomerID  string    `json:"customerId"`
	TotalPrice  float64   `json:"totalPrice"`
	ItemCount   int       `json:"itemCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

// OrderStatusChangedData represents the data payload for OrderStatusChanged
type OrderStatusChangedData struct {
	OrderID     string    `json:"orderId"`
	OrderNumber int64     `json:"orderNumber"`
	SellerID    string    `json:"sellerId"`
	OldStatus   string    `json:"oldStatus"`
	NewStatus   string    `json:"newStatus"`
	ChangedAt   time.Time `json:"changedAt"`
}

// SellerRegisteredData represents the data payload for SellerRegistered
type SellerRegisteredData struct {
	SellerID string `json:"sellerId"`
	Email    string `json:"email"`
	ShopName string `json:"shopName"`
}

// StockDepletedData represents the data payload for StockDepleted
type StockDepletedData struct {
	ProductID string `json:"productId"`
	SellerID  string `json:"sellerId"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}
