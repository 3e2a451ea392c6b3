package domain

import "context"

// SellerRepository provides persistence for seller accounts
type SellerRepository interface {
	// Save persists a new seller. Returns ErrDuplicateEmail or
	// ErrDuplicateMobile when a unique index rejects the insert.
	Save(ctx context.Context, seller *Seller) error

	// Update replaces the stored seller document
	Update(ctx context.Context, seller *Seller) error

	// FindBySellerID returns nil, nil when no seller matches
	FindBySellerID(ctx context.Context, sellerID string) (*Seller, error)

	// FindByEmail looks up a seller by normalized email.
	// Returns nil, nil when no seller matches.
	FindByEmail(ctx context.Context, email string) (*Seller, error)

	// ExistsByMobile reports whether a seller with the given
	// mobile number already exists
	ExistsByMobile(ctx context.Context, mobileNumber string) (bool, error)
}
