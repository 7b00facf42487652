package repository

import (
	"context"
	"testing"
	"time"

	"markethub/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductRepository_CreateAndFindRoundTrip(t *testing.T) {
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	vendor := createTestUser(t, domain.RoleVendor)
	category := createTestCategory(t)

	product := &domain.Product{
		ID:          uuid.New(),
		Name:        "Cast Iron Pan",
		Description: "Pre-seasoned",
		Price:       42.50,
		CategoryID:  category.ID,
		ImageURL:    "/uploads/pan.jpg",
		Stock:       7,
		VendorID:    &vendor.ID,
		Approved:    false,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	require.NoError(t, repo.Create(ctx, product))

	got, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, product.Name, got.Name)
	assert.Equal(t, product.Description, got.Description)
	assert.InDelta(t, product.Price, got.Price, 0.001)
	assert.Equal(t, product.Stock, got.Stock)
	require.NotNil(t, got.VendorID)
	assert.Equal(t, vendor.ID, *got.VendorID)
	assert.False(t, got.Approved)
	assert.Equal(t, 0, got.NumReviews)
}

func TestProductRepository_ListFiltersApprovedOnly(t *testing.T) {
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	vendor := createTestUser(t, domain.RoleVendor)
	approved := createTestProduct(t, &vendor.ID, true)
	_ = createTestProduct(t, &vendor.ID, false)

	// Vendor filter isolates this test's rows from the shared database
	filter := ProductFilter{VendorID: &vendor.ID, ApprovedOnly: true}
	products, total, err := repo.List(ctx, filter, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, products, 1)
	assert.Equal(t, approved.ID, products[0].ID)

	filter.ApprovedOnly = false
	_, total, err = repo.List(ctx, filter, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}

func TestProductRepository_ListSearchesByName(t *testing.T) {
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	token := uuid.NewString()[:8]
	category := createTestCategory(t)

	needle := &domain.Product{
		ID:         uuid.New(),
		Name:       "Super " + token + " Widget",
		Price:      1,
		CategoryID: category.ID,
		Approved:   true,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	require.NoError(t, repo.Create(ctx, needle))

	// Case-insensitive substring match
	products, total, err := repo.List(ctx, ProductFilter{Search: token}, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, products, 1)
	assert.Equal(t, needle.ID, products[0].ID)
}

func TestProductRepository_ListFiltersByCategoryName(t *testing.T) {
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	product := createTestProduct(t, nil, true)
	category, err := NewCategoryRepository(testDB).FindByID(ctx, product.CategoryID)
	require.NoError(t, err)

	products, total, err := repo.List(ctx, ProductFilter{Category: category.Name}, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, products, 1)
	assert.Equal(t, product.ID, products[0].ID)
}

func TestProductRepository_SetApproved(t *testing.T) {
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	product := createTestProduct(t, nil, false)

	require.NoError(t, repo.SetApproved(ctx, product.ID, true))
	require.NoError(t, repo.SetApproved(ctx, product.ID, true)) // idempotent

	got, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.True(t, got.Approved)

	err = repo.SetApproved(ctx, uuid.New(), true)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductRepository_UpdateUnknownProduct(t *testing.T) {
	repo := NewProductRepository(testDB)
	category := createTestCategory(t)

	err := repo.Update(context.Background(), &domain.Product{
		ID:         uuid.New(),
		Name:       "Ghost",
		CategoryID: category.ID,
		UpdatedAt:  time.Now(),
	})
	assert.ErrorIs(t, err, ErrProductNotFound)
}
