package notify

import (
	"context"

	sellerdomain "github.com/marketplace/seller-portal/internal/seller/domain"
	"github.com/marketplace/seller-portal/pkg/cloudevents"
	"github.com/marketplace/seller-portal/pkg/kafka"
	"github.com/marketplace/seller-portal/pkg/logging"
	"github.com/marketplace/seller-portal/pkg/metrics"
)

// SellerEventPublisher forwards seller domain events to the sellers
// topic. Best effort, same as the order fan-out.
type SellerEventPublisher struct {
	fanout *Fanout
	logger *logging.Logger
}

// NewSellerEventPublisher creates a new SellerEventPublisher
func NewSellerEventPublisher(fanout *Fanout, logger *logging.Logger) *SellerEventPublisher {
	return &SellerEventPublisher{
		fanout: fanout,
		logger: logger.WithComponent("seller-events"),
	}
}

// PublishAll delivers seller domain events to Kafka
func (p *SellerEventPublisher) PublishAll(ctx context.Context, events []sellerdomain.DomainEvent) error {
	for _, event := range events {
		switch e := event.(type) {
		case *sellerdomain.SellerRegisteredEvent:
			ce := cloudevents.NewCloudEvent(cloudevents.SellerRegistered, cloudevents.SourceSellers, e.SellerID,
				cloudevents.SellerRegisteredData{
					SellerID: e.SellerID,
					Email:    e.Email,
					ShopName: e.ShopName,
				})
			ce.SellerID = e.SellerID
			p.fanout.publishToKafka(ctx, kafka.Topics.SellersEvents, ce)
		case *sellerdomain.SellerProfileUpdatedEvent:
			ce := cloudevents.NewCloudEvent(cloudevents.SellerProfileUpdate, cloudevents.SourceSellers, e.SellerID,
				map[string]interface{}{
					"sellerId":  e.SellerID,
					"updatedAt": e.UpdatedAt,
				})
			ce.SellerID = e.SellerID
			p.fanout.publishToKafka(ctx, kafka.Topics.SellersEvents, ce)
		default:
			p.logger.Warn("Unknown seller event type", "eventType", event.EventType())
		}
	}
	return nil
}

// StockDepletedNotifier publishes a catalog event when a variant's
// stock reaches zero
type StockDepletedNotifier struct {
	fanout  *Fanout
	metrics *metrics.Metrics
}

// NewStockDepletedNotifier creates a new StockDepletedNotifier
func NewStockDepletedNotifier(fanout *Fanout, m *metrics.Metrics) *StockDepletedNotifier {
	return &StockDepletedNotifier{fanout: fanout, metrics: m}
}

// NotifyStockDepleted publishes the depletion, best effort
func (n *StockDepletedNotifier) NotifyStockDepleted(ctx context.Context, productID, sellerID, size, color string) {
	ce := cloudevents.NewCloudEvent(cloudevents.StockDepleted, cloudevents.SourceCatalog, productID,
		cloudevents.StockDepletedData{
			ProductID: productID,
			SellerID:  sellerID,
			Size:      size,
			Color:     color,
		})
	ce.SellerID = sellerID

	n.fanout.publishToKafka(ctx, kafka.Topics.CatalogEvents, ce)
}
