package domain

import (
	"context"
	"slices"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status is the sales status of a product
type Status string

const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
)

// Product represents a catalog entry. Rating is derived from Reviews and is
// never accepted from callers.
type Product struct {
	ID          uuid.UUID       `json:"id" db:"id" validate:"required"`
	Name        string          `json:"name" db:"name" validate:"required,min=1,max=255"`
	Description string          `json:"description" db:"description" validate:"max=5000"`
	Image       string          `json:"image" db:"image"`
	Price       decimal.Decimal `json:"price" db:"price" validate:"gte=0"`
	Category    string          `json:"category" db:"category" validate:"max=100"`
	Stock       int             `json:"stock" db:"stock" validate:"gte=0"`
	Status      Status          `json:"status" db:"status" validate:"oneof=Active Inactive"`
	Rating      float64         `json:"rating" db:"-"`
	Reviews     []Review        `json:"reviews" db:"-" validate:"dive"`
}

// RecomputeRating rebuilds the rating from the full review list and returns
// the tally it was derived from.
func (p *Product) RecomputeRating() RatingTally {
	t := TallyOf(p.Reviews)
	p.Rating = t.Mean()
	return t
}

// HasReview reports whether a review with the given id is attached.
func (p *Product) HasReview(id uuid.UUID) bool {
	return slices.ContainsFunc(p.Reviews, func(r Review) bool { return r.ID == id })
}

// Clone returns a copy that shares no mutable state with p.
func (p Product) Clone() Product {
	p.Reviews = slices.Clone(p.Reviews)
	return p
}

// ProductRepository is the catalog source the stores are loaded from
type ProductRepository interface {
	// List returns every product in insertion order with its reviews attached
	List(ctx context.Context) ([]Product, error)

	// Create stores a new product
	Create(ctx context.Context, product *Product) error

	// Update updates the scalar fields of an existing product
	Update(ctx context.Context, product *Product) error

	// Delete removes a product and its reviews
	Delete(ctx context.Context, id uuid.UUID) error
}
