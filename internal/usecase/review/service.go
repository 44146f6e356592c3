package review

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Pesokrava/storefront/internal/domain"
	"github.com/Pesokrava/storefront/internal/pkg/logger"
	"github.com/Pesokrava/storefront/internal/pkg/validator"
	"github.com/Pesokrava/storefront/internal/store/catalog"
)

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// CacheInvalidator drops the cached catalog after a review changes it
type CacheInvalidator interface {
	InvalidateCatalog(ctx context.Context) error
}

// Service submits reviews to the catalog source and applies them to the
// catalog store
type Service struct {
	store     *catalog.Store
	repo      domain.ReviewRepository
	cache     CacheInvalidator
	publisher EventPublisher
	logger    *logger.Logger
	now       func() time.Time
}

// NewService creates a new review service
func NewService(
	store *catalog.Store,
	repo domain.ReviewRepository,
	cache CacheInvalidator,
	publisher EventPublisher,
	log *logger.Logger,
) *Service {
	return &Service{
		store:     store,
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		logger:    log,
		now:       time.Now,
	}
}

// Create stores a review and appends it to the product. It returns the
// product with its updated rating.
func (s *Service) Create(ctx context.Context, productID uuid.UUID, review *domain.Review) (domain.Product, error) {
	if _, ok := s.store.Product(productID); !ok {
		s.logger.Debugf("Review submitted for unknown product: %s", productID)
		return domain.Product{}, domain.ErrNotFound
	}

	if review.ID == uuid.Nil {
		review.ID = uuid.New()
	}
	if review.Date.IsZero() {
		review.Date = s.now().UTC()
	}

	if err := validator.Struct(review); err != nil {
		s.logger.Error("Review validation failed", err)
		return domain.Product{}, domain.ErrInvalidInput
	}

	if err := s.repo.Create(ctx, productID, review); err != nil {
		s.logger.Error("Failed to create review", err)
		return domain.Product{}, err
	}

	product, err := s.store.AddReview(productID, *review)
	if err != nil {
		s.logger.Error("Failed to apply review to catalog", err)
		return domain.Product{}, err
	}

	if err := s.cache.InvalidateCatalog(ctx); err != nil {
		s.logger.Warnf("Failed to invalidate catalog cache: %v", err)
	}

	s.publishEvent(productID, review)

	s.logger.WithFields(map[string]interface{}{
		"review_id":  review.ID,
		"product_id": productID,
		"rating":     review.Rating,
	}).Info("Review created successfully")

	return product, nil
}

// List returns a product's reviews in submission order
func (s *Service) List(productID uuid.UUID) ([]domain.Review, error) {
	product, ok := s.store.Product(productID)
	if !ok {
		return nil, domain.ErrNotFound
	}
	if product.Reviews == nil {
		return []domain.Review{}, nil
	}
	return product.Reviews, nil
}

// publishEvent publishes a review event (non-blocking)
func (s *Service) publishEvent(productID uuid.UUID, review *domain.Review) {
	if s.publisher == nil {
		return
	}

	event := domain.Event{
		Kind:      domain.EventReviewCreated,
		Timestamp: s.now().UTC(),
		ProductID: productID,
		Review:    review,
	}

	data, err := event.Encode()
	if err != nil {
		s.logger.Errorf(err, "Failed to marshal event for review %s", review.ID)
		return
	}

	go func() {
		if err := s.publisher.Publish(context.Background(), event.Subject(), data); err != nil {
			s.logger.Errorf(err, "Failed to publish event for review %s", review.ID)
		}
	}()
}
