package service

import (
	"context"
	"fmt"
	"time"

	"markethub/internal/domain"
	"markethub/internal/repository"

	"github.com/google/uuid"
)

// ReviewService defines the interface for review business logic
type ReviewService interface {
	CreateReview(ctx context.Context, actor domain.Actor, productID uuid.UUID, rating int, comment string) (*domain.Review, error)
	ListReviewsByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.Review, error)
}

type reviewService struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
}

// NewReviewService creates a new instance of ReviewService
func NewReviewService(reviewRepo repository.ReviewRepository, productRepo repository.ProductRepository) ReviewService {
	return &reviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
	}
}

// CreateReview appends a review and updates the product's review count and
// mean rating. A second review from the same user for the same product is
// rejected without touching the aggregates.
func (s *reviewService) CreateReview(ctx context.Context, actor domain.Actor, productID uuid.UUID, rating int, comment string) (*domain.Review, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}

	review := &domain.Review{
		ID:        uuid.New(),
		UserID:    actor.ID,
		ProductID: productID,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: time.Now(),
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if err == repository.ErrReviewAlreadyExists {
			return nil, err
		}
		if err == repository.ErrReviewProductGone {
			return nil, repository.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	return review, nil
}

// ListReviewsByProduct retrieves all reviews for a product
func (s *reviewService) ListReviewsByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.Review, error) {
	return s.reviewRepo.ListByProduct(ctx, productID)
}
