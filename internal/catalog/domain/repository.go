package domain

import "context"

// ProductRepository provides persistence for catalog products
type ProductRepository interface {
	// Save persists a new product
	Save(ctx context.Context, product *Product) error

	// Update replaces the mutable fields of a product
	Update(ctx context.Context, product *Product) error

	// FindByProductID returns nil, nil when no product matches
	FindByProductID(ctx context.Context, productID string) (*Product, error)

	// FindBySeller lists a seller's active products, newest first
	FindBySeller(ctx context.Context, sellerID string, pagination Pagination) ([]*Product, error)

	// CountBySeller counts a seller's active products
	CountBySeller(ctx context.Context, sellerID string) (int64, error)

	// DecrementStock atomically decrements a variant's stock and
	// returns the remaining units. The decrement only applies when
	// the variant holds at least qty units; otherwise
	// ErrInsufficientStock is returned and nothing changes.
	// ErrProductNotFound or ErrVariantNotFound when the product or
	// variant is absent.
	DecrementStock(ctx context.Context, productID, size, color string, qty int64) (int64, error)

	// SoftDelete marks a product inactive
	SoftDelete(ctx context.Context, productID string) error
}

const maxPageSize = 100

// Pagination bounds list queries
type Pagination struct {
	Page     int64
	PageSize int64
}

// Validate rejects non-positive paging values
func (p Pagination) Validate() error {
	if p.Page < 1 || p.PageSize < 1 {
		return ErrInvalidPagination
	}
	return nil
}

// Normalize caps oversized page sizes
func (p Pagination) Normalize() Pagination {
	if p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}
	return p
}

// Skip returns the number of documents to skip
func (p Pagination) Skip() int64 {
	return (p.Page - 1) * p.PageSize
}

// Limit returns the page size
func (p Pagination) Limit() int64 {
	return p.PageSize
}
