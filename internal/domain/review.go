package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Review is an immutable product review
type Review struct {
	ID      uuid.UUID `json:"id" db:"id" validate:"required"`
	UserID  uuid.UUID `json:"user_id" db:"user_id" validate:"required"`
	Rating  int       `json:"rating" db:"rating" validate:"min=1,max=5"`
	Comment string    `json:"comment" db:"comment" validate:"max=5000"`
	Date    time.Time `json:"date" db:"date"`
}

// ReviewRepository defines the interface for review persistence
type ReviewRepository interface {
	// Create stores a review for a product
	Create(ctx context.Context, productID uuid.UUID, review *Review) error
}
