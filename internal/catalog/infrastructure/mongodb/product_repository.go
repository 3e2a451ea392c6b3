package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/marketplace/seller-portal/internal/catalog/domain"
	pkgmongo "github.com/marketplace/seller-portal/pkg/mongodb"
)

const productsCollection = "products"

// ProductRepository implements domain.ProductRepository using MongoDB
type ProductRepository struct {
	collection *pkgmongo.InstrumentedCollection
}

// NewProductRepository creates a new ProductRepository and ensures indexes
func NewProductRepository(client *pkgmongo.InstrumentedClient) *ProductRepository {
	collection := client.Collection(productsCollection)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "productId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		// Seller catalog listing, newest first
		{
			Keys: bson.D{
				{Key: "sellerId", Value: 1},
				{Key: "isActive", Value: 1},
				{Key: "createdAt", Value: -1},
			},
		},
	}

	_, _ = collection.Underlying().Indexes().CreateMany(ctx, indexes)

	return &ProductRepository{collection: collection}
}

// Save persists a new product
func (r *ProductRepository) Save(ctx context.Context, product *domain.Product) error {
	if _, err := r.collection.InsertOne(ctx, product); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("product %s already exists: %w", product.ProductID, err)
		}
		return fmt.Errorf("failed to insert product: %w", err)
	}
	return nil
}

// Update replaces the mutable fields of a product
func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	product.UpdatedAt = time.Now().UTC()

	update := bson.M{"$set": bson.M{
		"name":        product.Name,
		"description": product.Description,
		"category":    product.Category,
		"price":       product.Price,
		"images":      product.Images,
		"variants":    product.Variants,
		"isActive":    product.IsActive,
		"updatedAt":   product.UpdatedAt,
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"productId": product.ProductID}, update)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// FindByProductID retrieves a product by its identifier. Returns nil when absent.
func (r *ProductRepository) FindByProductID(ctx context.Context, productID string) (*domain.Product, error) {
	var product domain.Product
	err := r.collection.FindOne(ctx, bson.M{"productId": productID}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return &product, nil
}

// FindBySeller lists a seller's active products, newest first
func (r *ProductRepository) FindBySeller(ctx context.Context, sellerID string, pagination domain.Pagination) ([]*domain.Product, error) {
	opts := options.Find().
		SetSort(pkgmongo.SortDescending("createdAt")).
		SetSkip(pagination.Skip()).
		SetLimit(pagination.Limit())

	cursor, err := r.collection.Find(ctx, bson.M{"sellerId": sellerID, "isActive": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer cursor.Close(ctx)

	products := make([]*domain.Product, 0)
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

// CountBySeller counts a seller's active products
func (r *ProductRepository) CountBySeller(ctx context.Context, sellerID string) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"sellerId": sellerID, "isActive": true})
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

// DecrementStock atomically decrements a variant's stock. The filter
// only matches when the variant still holds at least qty units, so
// concurrent checkouts cannot take the same units twice.
func (r *ProductRepository) DecrementStock(ctx context.Context, productID, size, color string, qty int64) (int64, error) {
	filter := bson.M{
		"productId": productID,
		"isActive":  true,
		"variants": bson.M{"$elemMatch": bson.M{
			"size":  size,
			"color": color,
			"stock": bson.M{"$gte": qty},
		}},
	}
	update := bson.M{
		"$inc": bson.M{"variants.$.stock": -qty},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated domain.Product
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, r.classifyDecrementMiss(ctx, productID, size, color)
		}
		return 0, fmt.Errorf("failed to decrement stock: %w", err)
	}

	if variant, ok := updated.Variant(size, color); ok {
		return variant.Stock, nil
	}
	return 0, domain.ErrVariantNotFound
}

// classifyDecrementMiss distinguishes a missing product, a missing
// variant, and plain insufficient stock after a conditional update
// found nothing to match
func (r *ProductRepository) classifyDecrementMiss(ctx context.Context, productID, size, color string) error {
	product, err := r.FindByProductID(ctx, productID)
	if err != nil {
		return err
	}
	if product == nil || !product.IsActive {
		return domain.ErrProductNotFound
	}
	if _, ok := product.Variant(size, color); !ok {
		return domain.ErrVariantNotFound
	}
	return domain.ErrInsufficientStock
}

// SoftDelete marks a product inactive
func (r *ProductRepository) SoftDelete(ctx context.Context, productID string) error {
	update := bson.M{"$set": bson.M{"isActive": false, "updatedAt": time.Now().UTC()}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"productId": productID}, update)
	if err != nil {
		return fmt.Errorf("failed to soft delete product: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}
