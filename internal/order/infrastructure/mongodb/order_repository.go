package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/marketplace/seller-portal/internal/order/domain"
	pkgmongo "github.com/marketplace/seller-portal/pkg/mongodb"
)

const ordersCollection = "orders"

// OrderRepository implements domain.OrderRepository using MongoDB
type OrderRepository struct {
	collection *pkgmongo.InstrumentedCollection
	client     *pkgmongo.InstrumentedClient
}

// NewOrderRepository creates a new OrderRepository and ensures indexes
func NewOrderRepository(client *pkgmongo.InstrumentedClient) *OrderRepository {
	collection := client.Collection(ordersCollection)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "orderId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "orderNumber", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		// Seller listing, newest first
		{
			Keys: bson.D{
				{Key: "sellerId", Value: 1},
				{Key: "status", Value: 1},
				{Key: "createdAt", Value: -1},
			},
		},
		// Unread badge lookup
		{
			Keys: bson.D{
				{Key: "sellerId", Value: 1},
				{Key: "read", Value: 1},
			},
		},
	}

	_, _ = collection.Underlying().Indexes().CreateMany(ctx, indexes)

	return &OrderRepository{
		collection: collection,
		client:     client,
	}
}

// Save persists a new order
func (r *OrderRepository) Save(ctx context.Context, order *domain.Order) error {
	if _, err := r.collection.InsertOne(ctx, order); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("order %s already exists: %w", order.OrderID, err)
		}
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

// FindByOrderID retrieves an order by its OrderID. Returns nil when absent.
func (r *OrderRepository) FindByOrderID(ctx context.Context, orderID string) (*domain.Order, error) {
	var order domain.Order
	err := r.collection.FindOne(ctx, bson.M{"orderId": orderID}).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find order: %w", err)
	}
	return &order, nil
}

// FindBySeller retrieves a seller's orders matching the filter, newest first
func (r *OrderRepository) FindBySeller(ctx context.Context, sellerID string, filter domain.OrderFilter, pagination domain.Pagination) ([]*domain.Order, error) {
	query := buildSellerFilter(sellerID, filter)

	opts := options.Find().
		SetSort(pkgmongo.SortDescending("createdAt")).
		SetSkip(pagination.Skip()).
		SetLimit(pagination.Limit())

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer cursor.Close(ctx)

	orders := make([]*domain.Order, 0)
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}
	return orders, nil
}

// CountBySeller returns the number of orders matching the filter
func (r *OrderRepository) CountBySeller(ctx context.Context, sellerID string, filter domain.OrderFilter) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, buildSellerFilter(sellerID, filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return count, nil
}

// UpdateStatus atomically moves an order from expected to target. The
// filter carries the expected status, so a concurrent transition makes
// this a no-match instead of a lost update.
func (r *OrderRepository) UpdateStatus(ctx context.Context, orderID string, expected, target domain.Status) (*domain.Order, error) {
	now := time.Now().UTC()

	set := bson.M{
		"status":    target,
		"updatedAt": now,
	}
	switch target {
	case domain.StatusDelivered:
		set["deliveredAt"] = now
	case domain.StatusCancelled:
		set["cancelledAt"] = now
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated domain.Order
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"orderId": orderID, "status": expected},
		bson.M{"$set": set},
		opts,
	).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Either the order vanished or someone else moved it first
			existing, findErr := r.FindByOrderID(ctx, orderID)
			if findErr != nil {
				return nil, findErr
			}
			if existing == nil {
				return nil, domain.ErrOrderNotFound
			}
			return nil, domain.ErrConcurrentModification
		}
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	return &updated, nil
}

// MarkRead sets the read flag and returns the updated order
func (r *OrderRepository) MarkRead(ctx context.Context, orderID string) (*domain.Order, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated domain.Order
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"orderId": orderID},
		pkgmongo.BuildUpdateWithTimestamp(bson.M{"read": true}),
		opts,
	).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to mark order read: %w", err)
	}

	return &updated, nil
}

// statsResult mirrors the $facet aggregation output
type statsResult struct {
	StatusCounts []struct {
		Status domain.Status `bson:"_id"`
		Count  int64         `bson:"count"`
	} `bson:"statusCounts"`
	Today []struct {
		Count int64 `bson:"count"`
	} `bson:"today"`
	Unread []struct {
		Count int64 `bson:"count"`
	} `bson:"unread"`
	Revenue []struct {
		Total float64 `bson:"total"`
	} `bson:"revenue"`
}

// Stats aggregates the seller dashboard statistics in a single
// aggregation so all numbers reflect the same snapshot
func (r *OrderRepository) Stats(ctx context.Context, sellerID string, dayStart time.Time) (*domain.SellerStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"sellerId": sellerID}}},
		{{Key: "$facet", Value: bson.M{
			"statusCounts": bson.A{
				bson.M{"$group": bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}},
			},
			"today": bson.A{
				bson.M{"$match": bson.M{"createdAt": bson.M{"$gte": dayStart.UTC()}}},
				bson.M{"$count": "count"},
			},
			"unread": bson.A{
				bson.M{"$match": bson.M{"read": false}},
				bson.M{"$count": "count"},
			},
			"revenue": bson.A{
				bson.M{"$match": bson.M{"status": bson.M{"$ne": domain.StatusCancelled}}},
				bson.M{"$group": bson.M{"_id": nil, "total": bson.M{"$sum": "$totalPrice"}}},
			},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate order stats: %w", err)
	}
	defer cursor.Close(ctx)

	var results []statsResult
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode order stats: %w", err)
	}

	stats := domain.NewSellerStats()
	if len(results) == 0 {
		return stats, nil
	}

	result := results[0]
	for _, entry := range result.StatusCounts {
		if _, ok := stats.StatusCounts[entry.Status]; ok {
			stats.StatusCounts[entry.Status] = entry.Count
		}
	}
	if len(result.Today) > 0 {
		stats.TodayOrdersCount = result.Today[0].Count
	}
	if len(result.Unread) > 0 {
		stats.UnreadOrdersCount = result.Unread[0].Count
	}
	if len(result.Revenue) > 0 {
		stats.TotalRevenue = result.Revenue[0].Total
	}

	return stats, nil
}

// NextOrderNumber issues the next sequential order number
func (r *OrderRepository) NextOrderNumber(ctx context.Context) (int64, error) {
	return r.client.NextSequence(ctx, "orderNumber")
}

func buildSellerFilter(sellerID string, filter domain.OrderFilter) bson.M {
	query := bson.M{"sellerId": sellerID}
	if filter.Status != nil {
		query["status"] = *filter.Status
	}
	if filter.Unread != nil {
		query["read"] = !*filter.Unread
	}
	return query
}
