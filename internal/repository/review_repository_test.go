package repository

import (
	"context"
	"testing"
	"time"

	"markethub/internal/domain"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Property: product aggregates always equal the count and mean of its reviews
func TestProperty_ReviewAggregatesMatchStoredReviews(t *testing.T) {
	reviewRepo := NewReviewRepository(testDB)
	productRepo := NewProductRepository(testDB)

	properties := gopter.NewProperties(nil)

	properties.Property("num_reviews and average_rating follow the review set", prop.ForAll(
		func(ratings []int) bool {
			ctx := context.Background()
			product := createTestProduct(t, nil, true)

			sum := 0
			for _, rating := range ratings {
				reviewer := createTestUser(t, domain.RoleCustomer)
				review := &domain.Review{
					ID:        uuid.New(),
					UserID:    reviewer.ID,
					ProductID: product.ID,
					Rating:    rating,
					Comment:   "generated",
					CreatedAt: time.Now(),
				}
				if err := reviewRepo.Create(ctx, review); err != nil {
					t.Logf("FAIL: Failed to create review: %v", err)
					return false
				}
				sum += rating
			}

			retrieved, err := productRepo.FindByID(ctx, product.ID)
			if err != nil {
				t.Logf("FAIL: Failed to retrieve product: %v", err)
				return false
			}

			if retrieved.NumReviews != len(ratings) {
				t.Logf("FAIL: num_reviews mismatch. Expected %d, got %d", len(ratings), retrieved.NumReviews)
				return false
			}

			expected := float64(sum) / float64(len(ratings))
			if retrieved.AverageRating < expected-0.0001 || retrieved.AverageRating > expected+0.0001 {
				t.Logf("FAIL: average_rating mismatch. Expected %f, got %f", expected, retrieved.AverageRating)
				return false
			}

			return true
		},
		gen.SliceOfN(3, gen.IntRange(1, 5)),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestReviewRepository_DuplicateReviewLeavesAggregatesUntouched(t *testing.T) {
	reviewRepo := NewReviewRepository(testDB)
	productRepo := NewProductRepository(testDB)
	ctx := context.Background()

	product := createTestProduct(t, nil, true)
	reviewer := createTestUser(t, domain.RoleCustomer)

	first := &domain.Review{
		ID:        uuid.New(),
		UserID:    reviewer.ID,
		ProductID: product.ID,
		Rating:    5,
		CreatedAt: time.Now(),
	}
	require.NoError(t, reviewRepo.Create(ctx, first))

	second := &domain.Review{
		ID:        uuid.New(),
		UserID:    reviewer.ID,
		ProductID: product.ID,
		Rating:    1,
		CreatedAt: time.Now(),
	}
	err := reviewRepo.Create(ctx, second)
	assert.ErrorIs(t, err, ErrReviewAlreadyExists)

	got, err := productRepo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.NumReviews)
	assert.InDelta(t, 5.0, got.AverageRating, 0.0001)

	reviews, err := reviewRepo.ListByProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Len(t, reviews, 1)
}

func TestReviewRepository_UnknownProductRejected(t *testing.T) {
	reviewRepo := NewReviewRepository(testDB)
	ctx := context.Background()

	reviewer := createTestUser(t, domain.RoleCustomer)
	review := &domain.Review{
		ID:        uuid.New(),
		UserID:    reviewer.ID,
		ProductID: uuid.New(),
		Rating:    4,
		CreatedAt: time.Now(),
	}

	err := reviewRepo.Create(ctx, review)
	assert.ErrorIs(t, err, ErrReviewProductGone)
}

func TestReviewRepository_ListCarriesReviewerName(t *testing.T) {
	reviewRepo := NewReviewRepository(testDB)
	ctx := context.Background()

	product := createTestProduct(t, nil, true)
	reviewer := createTestUser(t, domain.RoleCustomer)

	review := &domain.Review{
		ID:        uuid.New(),
		UserID:    reviewer.ID,
		ProductID: product.ID,
		Rating:    3,
		Comment:   "decent",
		CreatedAt: time.Now(),
	}
	require.NoError(t, reviewRepo.Create(ctx, review))

	reviews, err := reviewRepo.ListByProduct(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, reviewer.Name, reviews[0].UserName)
	assert.Equal(t, "decent", reviews[0].Comment)
}
