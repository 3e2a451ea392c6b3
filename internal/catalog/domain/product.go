package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrVariantNotFound   = errors.New("variant not found")
	ErrInsufficientStock = errors.New("insufficient stock for variant")
	ErrNotProductOwner   = errors.New("product belongs to a different seller")
	ErrNoVariants        = errors.New("product must have at least one variant")
	ErrInvalidPrice      = errors.New("price must be positive")
	ErrInvalidStock      = errors.New("variant stock cannot be negative")
	ErrInvalidPagination = errors.New("page and pageSize must be positive")
)

// Variant is a sellable size/color combination with its own stock
type Variant struct {
	Size  string `bson:"size" json:"size"`
	Color string `bson:"color" json:"color"`
	Stock int64  `bson:"stock" json:"stock"`
}

// Matches reports whether the variant is the given size/color combination
func (v Variant) Matches(size, color string) bool {
	return strings.EqualFold(v.Size, size) && strings.EqualFold(v.Color, color)
}

// Product is the aggregate root for a catalog listing
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ProductID   string             `bson:"productId" json:"productId"`
	SellerID    string             `bson:"sellerId" json:"sellerId"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Category    string             `bson:"category" json:"category"`
	Price       float64            `bson:"price" json:"price"`
	Images      []string           `bson:"images" json:"images"`
	Variants    []Variant          `bson:"variants" json:"variants"`
	IsActive    bool               `bson:"isActive" json:"isActive"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// GenerateProductID creates a new product identifier
func GenerateProductID() string {
	return "PRD-" + uuid.New().String()[:8]
}

// NewProduct creates an active product listing
func NewProduct(sellerID, name, description, category string, price float64, images []string, variants []Variant) (*Product, error) {
	if price <= 0 {
		return nil, ErrInvalidPrice
	}
	if len(variants) == 0 {
		return nil, ErrNoVariants
	}
	for _, v := range variants {
		if v.Stock < 0 {
			return nil, ErrInvalidStock
		}
	}
	if images == nil {
		images = []string{}
	}

	now := time.Now().UTC()
	return &Product{
		ProductID:   GenerateProductID(),
		SellerID:    sellerID,
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		Category:    category,
		Price:       price,
		Images:      images,
		Variants:    variants,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Variant returns the variant matching size and color
func (p *Product) Variant(size, color string) (*Variant, bool) {
	for i := range p.Variants {
		if p.Variants[i].Matches(size, color) {
			return &p.Variants[i], true
		}
	}
	return nil, false
}

// MainImage returns the first product image, if any
func (p *Product) MainImage() string {
	if len(p.Images) > 0 {
		return p.Images[0]
	}
	return ""
}

// TotalStock sums the stock across all variants
func (p *Product) TotalStock() int64 {
	var total int64
	for _, v := range p.Variants {
		total += v.Stock
	}
	return total
}

// BelongsTo reports whether the product is owned by the given seller
func (p *Product) BelongsTo(sellerID string) bool {
	return p.SellerID == sellerID
}

// Deactivate soft-deletes the listing
func (p *Product) Deactivate() {
	p.IsActive = false
	p.UpdatedAt = time.Now().UTC()
}
