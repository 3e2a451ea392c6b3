package mongodb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/marketplace/seller-portal/internal/seller/domain"
	pkgmongo "github.com/marketplace/seller-portal/pkg/mongodb"
)

const sellersCollection = "sellers"

// SellerRepository implements domain.SellerRepository using MongoDB
type SellerRepository struct {
	collection *pkgmongo.InstrumentedCollection
}

// NewSellerRepository creates a new SellerRepository and ensures indexes
func NewSellerRepository(client *pkgmongo.InstrumentedClient) *SellerRepository {
	collection := client.Collection(sellersCollection)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "sellerId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "mobileNumber", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		// Nearby-shop queries
		{
			Keys: bson.D{{Key: "shop.location", Value: "2dsphere"}},
		},
	}

	_, _ = collection.Underlying().Indexes().CreateMany(ctx, indexes)

	return &SellerRepository{collection: collection}
}

// Save persists a new seller. Unique index violations are translated
// to the matching domain error.
func (r *SellerRepository) Save(ctx context.Context, seller *domain.Seller) error {
	if _, err := r.collection.InsertOne(ctx, seller); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return duplicateKeyError(err)
		}
		return fmt.Errorf("failed to insert seller: %w", err)
	}
	return nil
}

// Update replaces the stored seller document
func (r *SellerRepository) Update(ctx context.Context, seller *domain.Seller) error {
	update := bson.M{"$set": bson.M{
		"firstName":    seller.FirstName,
		"mobileNumber": seller.MobileNumber,
		"shop":         seller.Shop,
		"bankDetails":  seller.BankDetails,
		"isVerified":   seller.IsVerified,
		"isActive":     seller.IsActive,
		"updatedAt":    seller.UpdatedAt,
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"sellerId": seller.SellerID}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return duplicateKeyError(err)
		}
		return fmt.Errorf("failed to update seller: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrSellerNotFound
	}
	return nil
}

// FindBySellerID retrieves a seller by its public identifier.
// Returns nil when absent.
func (r *SellerRepository) FindBySellerID(ctx context.Context, sellerID string) (*domain.Seller, error) {
	var seller domain.Seller
	err := r.collection.FindOne(ctx, bson.M{"sellerId": sellerID}).Decode(&seller)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find seller: %w", err)
	}
	return &seller, nil
}

// FindByEmail retrieves a seller by normalized email. Returns nil when absent.
func (r *SellerRepository) FindByEmail(ctx context.Context, email string) (*domain.Seller, error) {
	var seller domain.Seller
	err := r.collection.FindOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))}).Decode(&seller)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find seller by email: %w", err)
	}
	return &seller, nil
}

// ExistsByMobile reports whether a seller with the mobile number exists
func (r *SellerRepository) ExistsByMobile(ctx context.Context, mobileNumber string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"mobileNumber": mobileNumber})
	if err != nil {
		return false, fmt.Errorf("failed to count sellers: %w", err)
	}
	return count > 0, nil
}

// duplicateKeyError inspects the write error to decide which unique
// constraint was violated
func duplicateKeyError(err error) error {
	msg := err.Error()
	if strings.Contains(msg, "mobileNumber") {
		return domain.ErrDuplicateMobile
	}
	return domain.ErrDuplicateEmail
}
