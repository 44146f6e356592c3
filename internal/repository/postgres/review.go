package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Pesokrava/storefront/internal/domain"
)

// ReviewRepository implements domain.ReviewRepository for PostgreSQL
type ReviewRepository struct {
	db *sqlx.DB
}

// NewReviewRepository creates a new PostgreSQL review repository
func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create stores a review. A missing product surfaces as domain.ErrNotFound
// instead of the foreign key violation.
func (r *ReviewRepository) Create(ctx context.Context, productID uuid.UUID, review *domain.Review) error {
	query := `
		INSERT INTO reviews (id, product_id, user_id, rating, comment, date)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		review.ID,
		productID,
		review.UserID,
		review.Rating,
		review.Comment,
		review.Date,
	)
	if err != nil {
		switch pgCode(err) {
		case foreignKeyViolation:
			return domain.ErrNotFound
		case uniqueViolation:
			return domain.ErrDuplicateID
		}
		return err
	}

	return nil
}
