package application

import (
	"context"
	"fmt"

	"github.com/marketplace/seller-portal/internal/catalog/domain"
	apperrors "github.com/marketplace/seller-portal/pkg/errors"
	"github.com/marketplace/seller-portal/pkg/logging"
)

// StockNotifier is told when a variant's stock reaches zero
type StockNotifier interface {
	NotifyStockDepleted(ctx context.Context, productID, sellerID, size, color string)
}

// CatalogApplicationService orchestrates product catalog use cases
type CatalogApplicationService struct {
	repo     domain.ProductRepository
	notifier StockNotifier
	logger   *logging.Logger
}

// NewCatalogApplicationService creates a new CatalogApplicationService
func NewCatalogApplicationService(
	repo domain.ProductRepository,
	notifier StockNotifier,
	logger *logging.Logger,
) *CatalogApplicationService {
	return &CatalogApplicationService{
		repo:     repo,
		notifier: notifier,
		logger:   logger.WithComponent("catalog-service"),
	}
}

// CreateProduct creates a new catalog listing for the seller
func (s *CatalogApplicationService) CreateProduct(ctx context.Context, cmd CreateProductCommand) (*ProductDTO, error) {
	log := s.logger.WithContext(ctx)

	variants := make([]domain.Variant, 0, len(cmd.Variants))
	for _, v := range cmd.Variants {
		variants = append(variants, domain.Variant{Size: v.Size, Color: v.Color, Stock: v.Stock})
	}

	product, err := domain.NewProduct(cmd.SellerID, cmd.Name, cmd.Description, cmd.Category, cmd.Price, cmd.Images, variants)
	if err != nil {
		return nil, apperrors.ErrValidation(err.Error())
	}

	if err := s.repo.Save(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to save product: %w", err)
	}

	log.Info("Product created",
		"productId", product.ProductID,
		"sellerId", product.SellerID,
		"variants", len(product.Variants),
	)

	return ToProductDTO(product), nil
}

// GetProduct returns a product owned by the seller
func (s *CatalogApplicationService) GetProduct(ctx context.Context, productID, sellerID string) (*ProductDTO, error) {
	product, err := s.findOwnedProduct(ctx, productID, sellerID)
	if err != nil {
		return nil, err
	}
	return ToProductDTO(product), nil
}

// ListProducts returns a page of the seller's active products
func (s *CatalogApplicationService) ListProducts(ctx context.Context, query ListProductsQuery) (*ProductListResponse, error) {
	pagination := domain.Pagination{Page: query.Page, PageSize: query.PageSize}
	if err := pagination.Validate(); err != nil {
		return nil, apperrors.ErrValidation(err.Error())
	}
	pagination = pagination.Normalize()

	total, err := s.repo.CountBySeller(ctx, query.SellerID)
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	products, err := s.repo.FindBySeller(ctx, query.SellerID, pagination)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	dtos := make([]*ProductDTO, 0, len(products))
	for _, p := range products {
		dtos = append(dtos, ToProductDTO(p))
	}

	return &ProductListResponse{
		Products: dtos,
		Total:    total,
		Page:     pagination.Page,
		PageSize: pagination.PageSize,
	}, nil
}

// UpdateProduct merges the non-nil fields of the command into the listing
func (s *CatalogApplicationService) UpdateProduct(ctx context.Context, cmd UpdateProductCommand) (*ProductDTO, error) {
	log := s.logger.WithContext(ctx)

	product, err := s.findOwnedProduct(ctx, cmd.ProductID, cmd.SellerID)
	if err != nil {
		return nil, err
	}

	if cmd.Name != nil {
		product.Name = *cmd.Name
	}
	if cmd.Description != nil {
		product.Description = *cmd.Description
	}
	if cmd.Category != nil {
		product.Category = *cmd.Category
	}
	if cmd.Price != nil {
		if *cmd.Price <= 0 {
			return nil, apperrors.ErrValidation("price must be positive")
		}
		product.Price = *cmd.Price
	}
	if cmd.Images != nil {
		product.Images = *cmd.Images
	}
	if cmd.Variants != nil {
		if len(*cmd.Variants) == 0 {
			return nil, apperrors.ErrValidation("product must have at least one variant")
		}
		variants := make([]domain.Variant, 0, len(*cmd.Variants))
		for _, v := range *cmd.Variants {
			if v.Stock < 0 {
				return nil, apperrors.ErrValidation("variant stock cannot be negative")
			}
			variants = append(variants, domain.Variant{Size: v.Size, Color: v.Color, Stock: v.Stock})
		}
		product.Variants = variants
	}
	if cmd.IsActive != nil {
		product.IsActive = *cmd.IsActive
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	log.Info("Product updated", "productId", product.ProductID)
	return ToProductDTO(product), nil
}

// DeleteProduct soft-deletes a listing
func (s *CatalogApplicationService) DeleteProduct(ctx context.Context, productID, sellerID string) error {
	log := s.logger.WithContext(ctx)

	if _, err := s.findOwnedProduct(ctx, productID, sellerID); err != nil {
		return err
	}

	if err := s.repo.SoftDelete(ctx, productID); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	log.Info("Product deleted", "productId", productID)
	return nil
}

// Reserve snapshots prices and decrements stock for each requested
// item. All items must belong to the same seller. Callers run this
// inside the order-creation transaction so a later failure rolls the
// decrements back; variants that hit zero are recorded on the
// reservation and announced by ConfirmReservation once the
// transaction has committed.
func (s *CatalogApplicationService) Reserve(ctx context.Context, items []ReserveItem) (*Reservation, error) {
	if len(items) == 0 {
		return nil, apperrors.ErrValidation("nothing to reserve")
	}

	reservation := &Reservation{Lines: make([]ReservedLine, 0, len(items))}

	for _, item := range items {
		product, err := s.repo.FindByProductID(ctx, item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("failed to load product: %w", err)
		}
		if product == nil || !product.IsActive {
			return nil, apperrors.ErrNotFoundWithID("product", item.ProductID)
		}

		if reservation.SellerID == "" {
			reservation.SellerID = product.SellerID
		} else if reservation.SellerID != product.SellerID {
			return nil, apperrors.ErrValidation("all order items must belong to the same seller")
		}

		variant, ok := product.Variant(item.Size, item.Color)
		if !ok {
			return nil, apperrors.ErrValidation(
				fmt.Sprintf("product %s has no %s/%s variant", item.ProductID, item.Size, item.Color))
		}

		// The lookup is case-insensitive, the storage filter is not.
		// Decrement and snapshot under the stored spelling.
		remaining, err := s.repo.DecrementStock(ctx, item.ProductID, variant.Size, variant.Color, item.Quantity)
		if err != nil {
			switch err {
			case domain.ErrInsufficientStock:
				return nil, apperrors.ErrValidation(
					fmt.Sprintf("insufficient stock for product %s (%s/%s)", item.ProductID, variant.Size, variant.Color))
			case domain.ErrProductNotFound, domain.ErrVariantNotFound:
				return nil, apperrors.ErrNotFoundWithID("product", item.ProductID)
			}
			return nil, fmt.Errorf("failed to reserve stock: %w", err)
		}

		if remaining == 0 {
			reservation.Depleted = append(reservation.Depleted, DepletedVariant{
				ProductID: product.ProductID,
				Size:      variant.Size,
				Color:     variant.Color,
			})
		}

		reservation.Lines = append(reservation.Lines, ReservedLine{
			ProductID: product.ProductID,
			Name:      product.Name,
			Image:     product.MainImage(),
			Size:      variant.Size,
			Color:     variant.Color,
			Quantity:  item.Quantity,
			UnitPrice: product.Price,
		})
	}

	return reservation, nil
}

// ConfirmReservation fires the stock-depletion notifications recorded
// during Reserve. Call it only after the surrounding transaction has
// committed, so a rollback never announces stock that was restored.
func (s *CatalogApplicationService) ConfirmReservation(ctx context.Context, reservation *Reservation) {
	if reservation == nil || s.notifier == nil {
		return
	}
	for _, depleted := range reservation.Depleted {
		s.notifier.NotifyStockDepleted(ctx, depleted.ProductID, reservation.SellerID, depleted.Size, depleted.Color)
	}
}

func (s *CatalogApplicationService) findOwnedProduct(ctx context.Context, productID, sellerID string) (*domain.Product, error) {
	product, err := s.repo.FindByProductID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if product == nil || !product.IsActive {
		return nil, apperrors.ErrNotFoundWithID("product", productID)
	}
	if !product.BelongsTo(sellerID) {
		s.logger.WithContext(ctx).Warn("Product access denied",
			"productId", productID,
			"actorSellerId", sellerID,
		)
		return nil, apperrors.ErrForbidden("product belongs to a different seller")
	}
	return product, nil
}
