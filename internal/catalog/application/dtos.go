package application

import (
	"time"

	"github.com/marketplace/seller-portal/internal/catalog/domain"
)

// ProductDTO is the API representation of a catalog listing
type ProductDTO struct {
	ProductID   string           `json:"productId"`
	SellerID    string           `json:"sellerId"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Category    string           `json:"category"`
	Price       float64          `json:"price"`
	Images      []string         `json:"images"`
	Variants    []domain.Variant `json:"variants"`
	TotalStock  int64            `json:"totalStock"`
	IsActive    bool             `json:"isActive"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// ProductListResponse is a paginated product listing
type ProductListResponse struct {
	Products []*ProductDTO `json:"products"`
	Total    int64         `json:"total"`
	Page     int64         `json:"page"`
	PageSize int64         `json:"pageSize"`
}

// ReservedLine is a priced snapshot of one reserved item
type ReservedLine struct {
	ProductID string
	Name      string
	Image     string
	Size      string
	Color     string
	Quantity  int64
	UnitPrice float64
}

// Reservation is the outcome of reserving stock for an order.
// Depleted lists the variants the reservation drained to zero; the
// notifications for them are held back until ConfirmReservation.
type Reservation struct {
	SellerID string
	Lines    []ReservedLine
	Depleted []DepletedVariant
}

// DepletedVariant identifies a variant whose stock reached zero
type DepletedVariant struct {
	ProductID string
	Size      string
	Color     string
}

// ToProductDTO maps a domain product to its API representation
func ToProductDTO(product *domain.Product) *ProductDTO {
	images := product.Images
	if images == nil {
		images = []string{}
	}
	return &ProductDTO{
		ProductID:   product.ProductID,
		SellerID:    product.SellerID,
		Name:        product.Name,
		Description: product.Description,
		Category:    product.Category,
		Price:       product.Price,
		Images:      images,
		Variants:    product.Variants,
		TotalStock:  product.TotalStock(),
		IsActive:    product.IsActive,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}
