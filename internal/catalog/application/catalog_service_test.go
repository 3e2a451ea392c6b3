package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketplace/seller-portal/internal/catalog/domain"
	apperrors "github.com/marketplace/seller-portal/pkg/errors"
	"github.com/marketplace/seller-portal/pkg/logging"
)

type mockProductRepo struct {
	saveFn       func(context.Context, *domain.Product) error
	updateFn     func(context.Context, *domain.Product) error
	findByIDFn   func(context.Context, string) (*domain.Product, error)
	findFn       func(context.Context, string, domain.Pagination) ([]*domain.Product, error)
	countFn      func(context.Context, string) (int64, error)
	decrementFn  func(context.Context, string, string, string, int64) (int64, error)
	softDeleteFn func(context.Context, string) error

	lastSaved *domain.Product
}

func (m *mockProductRepo) Save(ctx context.Context, product *domain.Product) error {
	m.lastSaved = product
	if m.saveFn != nil {
		return m.saveFn(ctx, product)
	}
	return nil
}

func (m *mockProductRepo) Update(ctx context.Context, product *domain.Product) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, product)
	}
	return nil
}

func (m *mockProductRepo) FindByProductID(ctx context.Context, productID string) (*domain.Product, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, productID)
	}
	return nil, nil
}

func (m *mockProductRepo) FindBySeller(ctx context.Context, sellerID string, pagination domain.Pagination) ([]*domain.Product, error) {
	if m.findFn != nil {
		return m.findFn(ctx, sellerID, pagination)
	}
	return nil, nil
}

func (m *mockProductRepo) CountBySeller(ctx context.Context, sellerID string) (int64, error) {
	if m.countFn != nil {
		return m.countFn(ctx, sellerID)
	}
	return 0, nil
}

func (m *mockProductRepo) DecrementStock(ctx context.Context, productID, size, color string, qty int64) (int64, error) {
	if m.decrementFn != nil {
		return m.decrementFn(ctx, productID, size, color, qty)
	}
	return 1, nil
}

func (m *mockProductRepo) SoftDelete(ctx context.Context, productID string) error {
	if m.softDeleteFn != nil {
		return m.softDeleteFn(ctx, productID)
	}
	return nil
}

type mockStockNotifier struct {
	depleted []string
}

func (m *mockStockNotifier) NotifyStockDepleted(ctx context.Context, productID, sellerID, size, color string) {
	m.depleted = append(m.depleted, productID)
}

func testLogger() *logging.Logger {
	cfg := logging.DefaultConfig("seller-portal-test")
	cfg.Level = logging.LevelError
	return logging.New(cfg)
}

func catalogProduct(t *testing.T, sellerID string) *domain.Product {
	t.Helper()
	product, err := domain.NewProduct(sellerID, "Cotton Shirt", "Everyday cotton shirt", "Men", 499.0,
		[]string{"https://cdn.example.com/shirt.jpg"},
		[]domain.Variant{{Size: "M", Color: "Blue", Stock: 5}})
	require.NoError(t, err)
	return product
}

func TestCreateProduct(t *testing.T) {
	repo := &mockProductRepo{}
	service := NewCatalogApplicationService(repo, nil, testLogger())

	dto, err := service.CreateProduct(context.Background(), CreateProductCommand{
		SellerID: "SLR-seller01",
		Name:     "Cotton Shirt",
		Category: "Men",
		Price:    499.0,
		Variants: []VariantInput{{Size: "M", Color: "Blue", Stock: 5}},
	})
	require.NoError(t, err)
	assert.Equal(t, "PRD-", dto.ProductID[:4])
	assert.Equal(t, int64(5), dto.TotalStock)
	assert.NotNil(t, repo.lastSaved)
}

func TestCreateProductInvalidPrice(t *testing.T) {
	service := NewCatalogApplicationService(&mockProductRepo{}, nil, testLogger())

	_, err := service.CreateProduct(context.Background(), CreateProductCommand{
		SellerID: "SLR-seller01",
		Name:     "Cotton Shirt",
		Category: "Men",
		Price:    0,
		Variants: []VariantInput{{Size: "M", Color: "Blue", Stock: 5}},
	})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.HTTPStatus)
}

func TestGetProductForbidden(t *testing.T) {
	product := catalogProduct(t, "SLR-owner")
	repo := &mockProductRepo{
		findByIDFn: func(ctx context.Context, productID string) (*domain.Product, error) {
			return product, nil
		},
	}
	service := NewCatalogApplicationService(repo, nil, testLogger())

	_, err := service.GetProduct(context.Background(), product.ProductID, "SLR-intruder")
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 403, appErr.HTTPStatus)
}

func TestGetProductSoftDeletedIsNotFound(t *testing.T) {
	product := catalogProduct(t, "SLR-seller01")
	product.Deactivate()
	repo := &mockProductRepo{
		findByIDFn: func(ctx context.Context, productID string) (*domain.Product, error) {
			return product, nil
		},
	}
	service := NewCatalogApplicationService(repo, nil, testLogger())

	_, err := service.GetProduct(context.Background(), product.ProductID, "SLR-seller01")
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.HTTPStatus)
}

func TestReserve(t *testing.T) {
	product := catalogProduct(t, "SLR-seller01")
	repo := &mockProductRepo{
		findByIDFn: func(ctx context.Context, productID string) (*domain.Product, error) {
			return product, nil
		},
		decrementFn: func(ctx context.Context, productID, size, color string, qty int64) (int64, error) {
			assert.Equal(t, int64(2), qty)
			return 3, nil
		},
	}
	service := NewCatalogApplicationService(repo, nil, testLogger())

	reservation, err := service.Reserve(context.Background(), []ReserveItem{
		{ProductID: product.ProductID, Size: "M", Color: "Blue", Quantity: 2},
	})
	require.NoError(t, err)

	assert.Equal(t, "SLR-seller01", reservation.SellerID)
	require.Len(t, reservation.Lines, 1)
	line := reservation.Lines[0]
	assert.Equal(t, "Cotton Shirt", line.Name)
	assert.Equal(t, "https://cdn.example.com/shirt.jpg", line.Image)
	assert.Equal(t, 499.0, line.UnitPrice)
}

func TestReserveMixedSellersRejected(t *testing.T) {
	first := catalogProduct(t, "SLR-seller01")
	second := catalogProduct(t, "SLR-seller02")
	repo := &mockProductRepo{
		findByIDFn: func(ctx context.Context, productID string) (*domain.Product, error) {
			if productID == first.ProductID {
				return first, nil
			}
			return second, nil
		},
	}
	service := NewCatalogApplicationService(repo, nil, testLogger())

	_, err := service.Reserve(context.Background(), []ReserveItem{
		{ProductID: first.ProductID, Size: "M", Color: "Blue", Quantity: 1},
		{ProductID: second.ProductID, Size: "M", Color: "Blue", Quantity: 1},
	})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.HTTPStatus)
}

func TestReserveInsufficientStock(t *testing.T) {
	product := catalogProduct(t, "SLR-seller01")
	repo := &mockProductRepo{
		findByIDFn: func(ctx context.Context, productID string) (*domain.Product, error) {
			return product, nil
		},
		decrementFn: func(ctx context.Context, productID, size, color string, qty int64) (int64, error) {
			return 0, domain.ErrInsufficientStock
		},
	}
	service := NewCatalogApplicationService(repo, nil, testLogger())

	_, err := service.Reserve(context.Background(), []ReserveItem{
		{ProductID: product.ProductID, Size: "M", Color: "Blue", Quantity: 99},
	})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.HTTPStatus)
}

func TestReserveUnknownVariant(t *testing.T) {
	product := catalogProduct(t, "SLR-seller01")
	repo := &mockProductRepo{
		findByIDFn: func(ctx context.Context, productID string) (*domain.Product, error) {
			return product, nil
		},
	}
	service := NewCatalogApplicationService(repo, nil, testLogger())

	_, err := service.Reserve(context.Background(), []ReserveItem{
		{ProductID: product.ProductID, Size: "XXL", Color: "Green", Quantity: 1},
	})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.HTTPStatus)
}

func TestReserveUsesStoredVariantSpelling(t *testing.T) {
	product := catalogProduct(t, "SLR-seller01")
	var decrementedSize, decrementedColor string
	repo := &mockProductRepo{
		findByIDFn: func(ctx context.Context, productID string) (*domain.Product, error) {
			return product, nil
		},
		decrementFn: func(ctx context.Context, productID, size, color string, qty int64) (int64, error) {
			decrementedSize, decrementedColor = size, color
			return 3, nil
		},
	}
	service := NewCatalogApplicationService(repo, nil, testLogger())

	// The variant is stored as M/Blue; a lowercase request must still
	// hit it, both in the decrement and in the snapshot.
	reservation, err := service.Reserve(context.Background(), []ReserveItem{
		{ProductID: product.ProductID, Size: "m", Color: "blue", Quantity: 2},
	})
	require.NoError(t, err)

	assert.Equal(t, "M", decrementedSize)
	assert.Equal(t, "Blue", decrementedColor)
	require.Len(t, reservation.Lines, 1)
	assert.Equal(t, "M", reservation.Lines[0].Size)
	assert.Equal(t, "Blue", reservation.Lines[0].Color)
}

func TestReserveDefersDepletionUntilConfirm(t *testing.T) {
	product := catalogProduct(t, "SLR-seller01")
	notifier := &mockStockNotifier{}
	repo := &mockProductRepo{
		findByIDFn: func(ctx context.Context, productID string) (*domain.Product, error) {
			return product, nil
		},
		decrementFn: func(ctx context.Context, productID, size, color string, qty int64) (int64, error) {
			return 0, nil
		},
	}
	service := NewCatalogApplicationService(repo, notifier, testLogger())

	reservation, err := service.Reserve(context.Background(), []ReserveItem{
		{ProductID: product.ProductID, Size: "M", Color: "Blue", Quantity: 5},
	})
	require.NoError(t, err)

	require.Len(t, reservation.Depleted, 1)
	assert.Equal(t, product.ProductID, reservation.Depleted[0].ProductID)
	assert.Empty(t, notifier.depleted)

	service.ConfirmReservation(context.Background(), reservation)
	assert.Equal(t, []string{product.ProductID}, notifier.depleted)
}

func TestDeleteProduct(t *testing.T) {
	product := catalogProduct(t, "SLR-seller01")
	deleted := false
	repo := &mockProductRepo{
		findByIDFn: func(ctx context.Context, productID string) (*domain.Product, error) {
			return product, nil
		},
		softDeleteFn: func(ctx context.Context, productID string) error {
			deleted = true
			return nil
		},
	}
	service := NewCatalogApplicationService(repo, nil, testLogger())

	require.NoError(t, service.DeleteProduct(context.Background(), product.ProductID, "SLR-seller01"))
	assert.True(t, deleted)
}
