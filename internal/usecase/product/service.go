package product

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/Pesokrava/storefront/internal/domain"
	"github.com/Pesokrava/storefront/internal/pkg/logger"
	"github.com/Pesokrava/storefront/internal/pkg/validator"
	"github.com/Pesokrava/storefront/internal/store/catalog"
)

// CatalogCache caches the product list read from the catalog source
type CatalogCache interface {
	GetCatalog(ctx context.Context) ([]domain.Product, error)
	SetCatalog(ctx context.Context, products []domain.Product) error
	InvalidateCatalog(ctx context.Context) error
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// Status reports the catalog source flags
type Status struct {
	Loading bool    `json:"loading"`
	Error   *string `json:"error"`
	Count   int     `json:"count"`
}

// Service keeps the catalog store in step with the catalog source
type Service struct {
	store     *catalog.Store
	repo      domain.ProductRepository
	cache     CatalogCache
	publisher EventPublisher
	logger    *logger.Logger
}

// NewService creates a new product service
func NewService(
	store *catalog.Store,
	repo domain.ProductRepository,
	cache CatalogCache,
	publisher EventPublisher,
	log *logger.Logger,
) *Service {
	return &Service{
		store:     store,
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		logger:    log,
	}
}

// Load fills the catalog store from the cache, falling back to the
// repository. Failures are reported through the store's error flag.
func (s *Service) Load(ctx context.Context) error {
	s.store.SetLoading(true)
	defer s.store.SetLoading(false)

	products, err := s.fetch(ctx)
	if err == nil {
		err = s.store.ReplaceAll(products)
	}
	if err != nil {
		msg := err.Error()
		s.store.SetError(&msg)
		s.logger.Error("Failed to load catalog", err)
		return err
	}

	s.store.SetError(nil)
	s.logger.Infof("Catalog loaded with %d products", len(products))
	s.publish(domain.Event{Kind: domain.EventCatalogReloaded, Count: len(products)})

	return nil
}

// Reload drops the cached catalog and loads it from the repository
func (s *Service) Reload(ctx context.Context) error {
	s.invalidate(ctx)
	return s.Load(ctx)
}

func (s *Service) fetch(ctx context.Context) ([]domain.Product, error) {
	products, err := s.cache.GetCatalog(ctx)
	if err == nil {
		s.logger.Debug("Cache hit for catalog")
		return products, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		s.logger.Warnf("Failed to read catalog cache: %v", err)
	}

	products, err = s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	if err := s.cache.SetCatalog(ctx, products); err != nil {
		s.logger.Warnf("Failed to cache catalog: %v", err)
	}

	return products, nil
}

// Create creates a new product. Reviews are attached later through the
// review service, so any supplied with the product are dropped.
func (s *Service) Create(ctx context.Context, product *domain.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	if product.Status == "" {
		product.Status = domain.StatusActive
	}
	product.Reviews = nil
	product.Rating = 0

	if err := validator.Struct(product); err != nil {
		s.logger.Error("Product validation failed", err)
		return domain.ErrInvalidInput
	}

	if _, exists := s.store.Product(product.ID); exists {
		return domain.ErrDuplicateID
	}

	if err := s.repo.Create(ctx, product); err != nil {
		s.logger.Error("Failed to create product", err)
		return err
	}

	if err := s.store.Add(*product); err != nil {
		s.logger.Error("Failed to add product to catalog", err)
		return err
	}

	s.invalidate(ctx)
	s.publish(domain.Event{Kind: domain.EventProductCreated, ProductID: product.ID, Product: product})

	s.logger.WithFields(map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	}).Info("Product created successfully")

	return nil
}

// Update replaces the scalar fields of an existing product. Its reviews and
// rating are kept.
func (s *Service) Update(ctx context.Context, product *domain.Product) error {
	existing, ok := s.store.Product(product.ID)
	if !ok {
		return domain.ErrNotFound
	}
	product.Reviews = existing.Reviews
	product.Rating = existing.Rating

	if err := validator.Struct(product); err != nil {
		s.logger.Error("Product validation failed", err)
		return domain.ErrInvalidInput
	}

	if err := s.repo.Update(ctx, product); err != nil {
		s.logger.Error("Failed to update product", err)
		return err
	}

	if err := s.store.Update(*product); err != nil {
		s.logger.Error("Failed to update product in catalog", err)
		return err
	}

	s.invalidate(ctx)
	s.publish(domain.Event{Kind: domain.EventProductUpdated, ProductID: product.ID, Product: product})

	s.logger.WithFields(map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	}).Info("Product updated successfully")

	return nil
}

// Delete removes a product. Removing an absent product succeeds.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Error("Failed to delete product", err)
			return err
		}
		s.logger.Debugf("Product already absent from source: %s", id)
	}

	_, existed := s.store.Product(id)
	s.store.Remove(id)

	if existed {
		s.invalidate(ctx)
		s.publish(domain.Event{Kind: domain.EventProductDeleted, ProductID: id})

		s.logger.WithFields(map[string]interface{}{
			"product_id": id,
		}).Info("Product deleted successfully")
	}

	return nil
}

// Get returns a product by id
func (s *Service) Get(id uuid.UUID) (domain.Product, error) {
	p, ok := s.store.Product(id)
	if !ok {
		s.logger.Debugf("Product not found: %s", id)
		return domain.Product{}, domain.ErrNotFound
	}
	return p, nil
}

// Visible returns the browse listing. A nil override uses the stored filters.
func (s *Service) Visible(override *domain.Filters) []domain.Product {
	return slices.Collect(s.store.Visible(override))
}

// Select marks a product as selected; uuid.Nil clears the selection
func (s *Service) Select(id uuid.UUID) {
	s.store.Select(id)
}

// Selected returns the selected product
func (s *Service) Selected() (domain.Product, bool) {
	return s.store.Selected()
}

// Filters returns the stored browse filters
func (s *Service) Filters() domain.Filters {
	return s.store.Filters()
}

// SetFilters merges a partial update into the stored filters
func (s *Service) SetFilters(patch domain.FilterPatch) (domain.Filters, error) {
	if err := s.store.SetFilters(patch); err != nil {
		return domain.Filters{}, err
	}
	return s.store.Filters(), nil
}

// ClearFilters restores the default filters
func (s *Service) ClearFilters() domain.Filters {
	s.store.ClearFilters()
	return s.store.Filters()
}

// Status returns the loading and error flags
func (s *Service) Status() Status {
	snap := s.store.Snapshot()
	return Status{
		Loading: snap.Loading,
		Error:   snap.Error,
		Count:   len(snap.Products),
	}
}

func (s *Service) invalidate(ctx context.Context) {
	if err := s.cache.InvalidateCatalog(ctx); err != nil {
		s.logger.Warnf("Failed to invalidate catalog cache: %v", err)
	}
}

// publish sends an event in the background
func (s *Service) publish(event domain.Event) {
	if s.publisher == nil {
		return
	}

	data, err := event.Encode()
	if err != nil {
		s.logger.Errorf(err, "Failed to marshal %s event", event.Kind)
		return
	}

	go func() {
		if err := s.publisher.Publish(context.Background(), event.Subject(), data); err != nil {
			s.logger.Errorf(err, "Failed to publish %s event", event.Kind)
		}
	}()
}
