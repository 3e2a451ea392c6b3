package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testVariants() []Variant {
	return []Variant{
		{Size: "M", Color: "Blue", Stock: 10},
		{Size: "L", Color: "Blue", Stock: 0},
	}
}

func TestNewProduct(t *testing.T) {
	product, err := NewProduct("SLR-seller01", "Cotton Shirt", "Everyday cotton shirt", "Men", 499.0, nil, testVariants())
	require.NoError(t, err)

	assert.Equal(t, "PRD-", product.ProductID[:4])
	assert.True(t, product.IsActive)
	assert.Equal(t, int64(10), product.TotalStock())
	assert.NotNil(t, product.Images)
	assert.Empty(t, product.Images)
}

func TestNewProduct_Validation(t *testing.T) {
	_, err := NewProduct("SLR-seller01", "Shirt", "", "Men", 0, nil, testVariants())
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = NewProduct("SLR-seller01", "Shirt", "", "Men", 499.0, nil, nil)
	assert.ErrorIs(t, err, ErrNoVariants)

	_, err = NewProduct("SLR-seller01", "Shirt", "", "Men", 499.0, nil, []Variant{{Size: "M", Color: "Blue", Stock: -1}})
	assert.ErrorIs(t, err, ErrInvalidStock)
}

func TestProduct_Variant(t *testing.T) {
	product, err := NewProduct("SLR-seller01", "Shirt", "", "Men", 499.0, nil, testVariants())
	require.NoError(t, err)

	variant, ok := product.Variant("M", "Blue")
	require.True(t, ok)
	assert.Equal(t, int64(10), variant.Stock)

	// Lookup is case-insensitive
	_, ok = product.Variant("m", "blue")
	assert.True(t, ok)

	_, ok = product.Variant("XL", "Blue")
	assert.False(t, ok)
}

func TestProduct_Deactivate(t *testing.T) {
	product, err := NewProduct("SLR-seller01", "Shirt", "", "Men", 499.0, nil, testVariants())
	require.NoError(t, err)

	product.Deactivate()
	assert.False(t, product.IsActive)
}

func TestPagination_Validate(t *testing.T) {
	assert.NoError(t, Pagination{Page: 1, PageSize: 20}.Validate())
	assert.ErrorIs(t, Pagination{Page: -1, PageSize: 20}.Validate(), ErrInvalidPagination)
	assert.ErrorIs(t, Pagination{Page: 1, PageSize: 0}.Validate(), ErrInvalidPagination)
}

func TestPagination_Normalize(t *testing.T) {
	p := Pagination{Page: 1, PageSize: 500}.Normalize()
	assert.Equal(t, int64(100), p.PageSize)

	p = Pagination{Page: 3, PageSize: 10}.Normalize()
	assert.Equal(t, int64(20), p.Skip())
	assert.Equal(t, int64(10), p.Limit())
}
