package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"markethub/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrReviewAlreadyExists = errors.New("user has already reviewed this product")
	ErrReviewProductGone   = errors.New("reviewed product not found")
)

// productAggregatesQuery recomputes a product's review count and mean rating
// from whatever review rows currently exist. Every writer that adds or removes
// reviews runs it in the same transaction as the change.
const productAggregatesQuery = `
	UPDATE products
	SET num_reviews = agg.cnt, average_rating = agg.avg
	FROM (
		SELECT COUNT(*) AS cnt, COALESCE(AVG(rating), 0) AS avg
		FROM reviews
		WHERE product_id = $1
	) agg
	WHERE id = $1
`

// ReviewRepository defines the interface for review data access
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.Review, error)
}

type reviewRepository struct {
	db *sql.DB
}

// NewReviewRepository creates a new instance of ReviewRepository
func NewReviewRepository(db *sql.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// Create inserts a review and recomputes the product's review count and mean
// rating in the same transaction. The UNIQUE (user_id, product_id) constraint
// rejects a second review from the same user, so two concurrent submissions
// cannot both commit, and the aggregate recomputation can never observe a
// state the insert did not produce.
func (r *reviewRepository) Create(ctx context.Context, review *domain.Review) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	insertQuery := `
		INSERT INTO reviews (id, user_id, product_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err = tx.ExecContext(
		ctx,
		insertQuery,
		review.ID,
		review.UserID,
		review.ProductID,
		review.Rating,
		review.Comment,
		review.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "reviews_user_id_product_id_key") {
			return ErrReviewAlreadyExists
		}
		if isForeignKeyViolation(err, "reviews_product_id_fkey") {
			return ErrReviewProductGone
		}
		return fmt.Errorf("failed to create review: %w", err)
	}

	if _, err := tx.ExecContext(ctx, productAggregatesQuery, review.ProductID); err != nil {
		return fmt.Errorf("failed to update product rating: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit review: %w", err)
	}

	return nil
}

// ListByProduct retrieves all reviews for a product in insertion order, each
// with the reviewing user's display name expanded.
func (r *reviewRepository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.Review, error) {
	query := `
		SELECT rv.id, rv.user_id, rv.product_id, rv.rating, rv.comment, rv.created_at, u.name
		FROM reviews rv
		JOIN users u ON u.id = rv.user_id
		WHERE rv.product_id = $1
		ORDER BY rv.created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []*domain.Review{}
	for rows.Next() {
		review := &domain.Review{}
		err := rows.Scan(
			&review.ID,
			&review.UserID,
			&review.ProductID,
			&review.Rating,
			&review.Comment,
			&review.CreatedAt,
			&review.UserName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, review)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reviews: %w", err)
	}

	return reviews, nil
}
