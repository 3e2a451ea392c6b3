package application

import (
	"context"
	"fmt"

	"github.com/marketplace/seller-portal/internal/seller/domain"
	apperrors "github.com/marketplace/seller-portal/pkg/errors"
	"github.com/marketplace/seller-portal/pkg/logging"
)

// EventPublisher publishes seller domain events to interested parties
type EventPublisher interface {
	PublishAll(ctx context.Context, events []domain.DomainEvent) error
}

// SellerApplicationService orchestrates seller account use cases
type SellerApplicationService struct {
	repo      domain.SellerRepository
	publisher EventPublisher
	logger    *logging.Logger
}

// NewSellerApplicationService creates a new SellerApplicationService
func NewSellerApplicationService(
	repo domain.SellerRepository,
	publisher EventPublisher,
	logger *logging.Logger,
) *SellerApplicationService {
	return &SellerApplicationService{
		repo:      repo,
		publisher: publisher,
		logger:    logger.WithComponent("seller-service"),
	}
}

// Register creates a new seller account. Duplicate email or mobile
// number is a conflict.
func (s *SellerApplicationService) Register(ctx context.Context, cmd RegisterSellerCommand) (*SellerDTO, error) {
	log := s.logger.WithContext(ctx)

	existing, err := s.repo.FindByEmail(ctx, cmd.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, apperrors.ErrConflict("email already registered")
	}

	taken, err := s.repo.ExistsByMobile(ctx, cmd.MobileNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to check mobile number: %w", err)
	}
	if taken {
		return nil, apperrors.ErrConflict("mobile number already registered")
	}

	seller, err := domain.NewSeller(cmd.FirstName, cmd.Email, cmd.MobileNumber, toShop(cmd.Shop), toBankDetails(cmd.BankDetails))
	if err != nil {
		return nil, apperrors.ErrValidation(err.Error())
	}

	if err := s.repo.Save(ctx, seller); err != nil {
		// The unique indexes are the arbiter under concurrent registration
		switch err {
		case domain.ErrDuplicateEmail:
			return nil, apperrors.ErrConflict("email already registered")
		case domain.ErrDuplicateMobile:
			return nil, apperrors.ErrConflict("mobile number already registered")
		}
		return nil, fmt.Errorf("failed to save seller: %w", err)
	}

	log.Info("Seller registered",
		"sellerId", seller.SellerID,
		"shopName", seller.Shop.Name,
		"category", seller.Shop.Category,
	)

	s.publishEvents(ctx, seller)
	return ToSellerDTO(seller), nil
}

// GetProfile returns the seller's own profile
func (s *SellerApplicationService) GetProfile(ctx context.Context, sellerID string) (*SellerDTO, error) {
	seller, err := s.findSeller(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	return ToSellerDTO(seller), nil
}

// UpdateProfile merges the non-nil fields of the command into the
// seller's profile
func (s *SellerApplicationService) UpdateProfile(ctx context.Context, cmd UpdateProfileCommand) (*SellerDTO, error) {
	log := s.logger.WithContext(ctx)

	seller, err := s.findSeller(ctx, cmd.SellerID)
	if err != nil {
		return nil, err
	}

	if cmd.MobileNumber != nil && *cmd.MobileNumber != seller.MobileNumber {
		taken, err := s.repo.ExistsByMobile(ctx, *cmd.MobileNumber)
		if err != nil {
			return nil, fmt.Errorf("failed to check mobile number: %w", err)
		}
		if taken {
			return nil, apperrors.ErrConflict("mobile number already registered")
		}
	}

	if err := seller.ApplyUpdate(toProfileUpdate(cmd)); err != nil {
		return nil, apperrors.ErrValidation(err.Error())
	}

	if err := s.repo.Update(ctx, seller); err != nil {
		return nil, fmt.Errorf("failed to update seller: %w", err)
	}

	log.Info("Seller profile updated", "sellerId", seller.SellerID)

	s.publishEvents(ctx, seller)
	return ToSellerDTO(seller), nil
}

// AddShopImages appends image URLs to the shop profile
func (s *SellerApplicationService) AddShopImages(ctx context.Context, cmd AddShopImagesCommand) (*SellerDTO, error) {
	log := s.logger.WithContext(ctx)

	seller, err := s.findSeller(ctx, cmd.SellerID)
	if err != nil {
		return nil, err
	}

	if err := seller.AddShopImages(cmd.Images); err != nil {
		return nil, apperrors.ErrValidation(err.Error())
	}

	if err := s.repo.Update(ctx, seller); err != nil {
		return nil, fmt.Errorf("failed to update seller: %w", err)
	}

	log.Info("Shop images added",
		"sellerId", seller.SellerID,
		"added", len(cmd.Images),
		"total", len(seller.Shop.Images),
	)

	return ToSellerDTO(seller), nil
}

// Deactivate marks the seller account inactive
func (s *SellerApplicationService) Deactivate(ctx context.Context, sellerID string) error {
	log := s.logger.WithContext(ctx)

	seller, err := s.findSeller(ctx, sellerID)
	if err != nil {
		return err
	}

	seller.Deactivate()
	if err := s.repo.Update(ctx, seller); err != nil {
		return fmt.Errorf("failed to deactivate seller: %w", err)
	}

	log.Info("Seller deactivated", "sellerId", sellerID)
	return nil
}

// ValidateSeller implements middleware.SellerValidator. It confirms
// the seller exists and is active.
func (s *SellerApplicationService) ValidateActiveSeller(ctx context.Context, sellerID string) error {
	seller, err := s.repo.FindBySellerID(ctx, sellerID)
	if err != nil {
		return fmt.Errorf("failed to load seller: %w", err)
	}
	if seller == nil {
		return domain.ErrSellerNotFound
	}
	if !seller.IsActive {
		return domain.ErrSellerInactive
	}
	return nil
}

func (s *SellerApplicationService) findSeller(ctx context.Context, sellerID string) (*domain.Seller, error) {
	seller, err := s.repo.FindBySellerID(ctx, sellerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load seller: %w", err)
	}
	if seller == nil {
		return nil, apperrors.ErrNotFoundWithID("seller", sellerID)
	}
	return seller, nil
}

func (s *SellerApplicationService) publishEvents(ctx context.Context, seller *domain.Seller) {
	events := seller.DomainEvents()
	if len(events) == 0 || s.publisher == nil {
		return
	}
	if err := s.publisher.PublishAll(ctx, events); err != nil {
		s.logger.WithContext(ctx).Warn("Failed to publish seller events",
			"sellerId", seller.SellerID,
			"error", err.Error(),
		)
	}
	seller.ClearDomainEvents()
}

func toShop(input ShopInput) domain.Shop {
	shop := domain.Shop{
		Name:        input.Name,
		Address:     input.Address,
		GSTNumber:   input.GSTNumber,
		Category:    domain.ShopCategory(input.Category),
		OpenTime:    input.OpenTime,
		CloseTime:   input.CloseTime,
		WorkingDays: input.WorkingDays,
		Description: input.Description,
		Images:      []string{},
	}
	if input.Phone != nil {
		shop.Phone = domain.ShopPhone{Main: input.Phone.Main, Alternate: input.Phone.Alternate}
	}
	if input.Location != nil && len(input.Location.Coordinates) == 2 {
		shop.Location = domain.NewGeoPoint(input.Location.Coordinates[0], input.Location.Coordinates[1])
	}
	return shop
}

func toBankDetails(input *BankDetailsInput) domain.BankDetails {
	if input == nil {
		return domain.BankDetails{}
	}
	return domain.BankDetails{
		AccountNumber: input.AccountNumber,
		IFSCCode:      input.IFSCCode,
		BankName:      input.BankName,
		AccountType:   domain.AccountType(input.AccountType),
	}
}

func toProfileUpdate(cmd UpdateProfileCommand) domain.ProfileUpdate {
	update := domain.ProfileUpdate{
		FirstName:    cmd.FirstName,
		MobileNumber: cmd.MobileNumber,
	}
	if cmd.BankDetails != nil {
		bank := toBankDetails(cmd.BankDetails)
		update.BankDetails = &bank
	}
	if cmd.Shop != nil {
		shopUpdate := &domain.ShopUpdate{
			Name:        cmd.Shop.Name,
			Address:     cmd.Shop.Address,
			GSTNumber:   cmd.Shop.GSTNumber,
			OpenTime:    cmd.Shop.OpenTime,
			CloseTime:   cmd.Shop.CloseTime,
			WorkingDays: cmd.Shop.WorkingDays,
			MainImage:   cmd.Shop.MainImage,
			Description: cmd.Shop.Description,
		}
		if cmd.Shop.Category != nil {
			category := domain.ShopCategory(*cmd.Shop.Category)
			shopUpdate.Category = &category
		}
		if cmd.Shop.Phone != nil {
			shopUpdate.Phone = &domain.ShopPhone{Main: cmd.Shop.Phone.Main, Alternate: cmd.Shop.Phone.Alternate}
		}
		if cmd.Shop.Location != nil && len(cmd.Shop.Location.Coordinates) == 2 {
			point := domain.NewGeoPoint(cmd.Shop.Location.Coordinates[0], cmd.Shop.Location.Coordinates[1])
			shopUpdate.Location = &point
		}
		update.Shop = shopUpdate
	}
	return update
}
