// Package catalog owns the product catalog, the current selection, the
// browse filters and the loading/error flags reported by the catalog source.
//
// Every command takes the store lock for its whole duration, so readers never
// observe a partially applied mutation.
package catalog

import (
	"fmt"
	"iter"
	"sync"

	"github.com/google/uuid"

	"github.com/Pesokrava/storefront/internal/domain"
	"github.com/Pesokrava/storefront/internal/listing"
	"github.com/Pesokrava/storefront/internal/pkg/validator"
)

// Store is the authoritative catalog state
type Store struct {
	mu       sync.RWMutex
	products []domain.Product
	index    map[uuid.UUID]int
	tallies  map[uuid.UUID]domain.RatingTally
	selected uuid.UUID
	filters  domain.Filters
	loading  bool
	errMsg   *string
}

// New creates an empty catalog store
func New() *Store {
	return &Store{
		index:   make(map[uuid.UUID]int),
		tallies: make(map[uuid.UUID]domain.RatingTally),
		filters: domain.DefaultFilters(),
	}
}

// ReplaceAll replaces the whole product sequence. The batch is rejected as a
// unit when any product is invalid or two products share an id.
func (s *Store) ReplaceAll(products []domain.Product) error {
	next := make([]domain.Product, 0, len(products))
	index := make(map[uuid.UUID]int, len(products))
	tallies := make(map[uuid.UUID]domain.RatingTally, len(products))

	for _, p := range products {
		p, tally, err := prepare(p)
		if err != nil {
			return err
		}
		if _, dup := index[p.ID]; dup {
			return fmt.Errorf("product %s: %w", p.ID, domain.ErrDuplicateID)
		}
		index[p.ID] = len(next)
		tallies[p.ID] = tally
		next = append(next, p)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.products = next
	s.index = index
	s.tallies = tallies
	return nil
}

// Add appends a product to the catalog
func (s *Store) Add(product domain.Product) error {
	p, tally, err := prepare(product)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.index[p.ID]; exists {
		return fmt.Errorf("product %s: %w", p.ID, domain.ErrDuplicateID)
	}

	s.index[p.ID] = len(s.products)
	s.tallies[p.ID] = tally
	s.products = append(s.products, p)
	return nil
}

// Update replaces the product with the same id, keeping its position
func (s *Store) Update(product domain.Product) error {
	p, tally, err := prepare(product)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[p.ID]
	if !ok {
		return fmt.Errorf("product %s: %w", p.ID, domain.ErrNotFound)
	}

	s.products[i] = p
	s.tallies[p.ID] = tally
	return nil
}

// Remove deletes a product and clears the selection if it pointed at it.
// Removing an unknown id is a no-op.
func (s *Store) Remove(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return
	}

	s.products = append(s.products[:i:i], s.products[i+1:]...)
	delete(s.tallies, id)
	s.reindex()

	if s.selected == id {
		s.selected = uuid.Nil
	}
}

// Select sets the selected product id; uuid.Nil clears the selection.
// Existence is checked at read time.
func (s *Store) Select(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selected = id
}

// AddReview appends a review to a product and updates its rating. It returns
// the product as stored after the append.
func (s *Store) AddReview(productID uuid.UUID, review domain.Review) (domain.Product, error) {
	if err := validator.Struct(review); err != nil {
		return domain.Product{}, fmt.Errorf("review: %w: %v", domain.ErrInvalidInput, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[productID]
	if !ok {
		return domain.Product{}, fmt.Errorf("product %s: %w", productID, domain.ErrNotFound)
	}

	p := s.products[i].Clone()
	if p.HasReview(review.ID) {
		return domain.Product{}, fmt.Errorf("review %s: %w", review.ID, domain.ErrDuplicateID)
	}

	tally := s.tallies[productID]
	tally.Add(review.Rating)
	p.Reviews = append(p.Reviews, review)
	p.Rating = tally.Mean()

	s.products[i] = p
	s.tallies[productID] = tally
	return p.Clone(), nil
}

// SetFilters merges a partial update into the current filters
func (s *Store) SetFilters(patch domain.FilterPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.filters.Merge(patch)
	if !next.SortBy.Valid() {
		return fmt.Errorf("sort order %q: %w", next.SortBy, domain.ErrInvalidInput)
	}

	s.filters = next
	return nil
}

// ClearFilters resets the filters to their defaults
func (s *Store) ClearFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.filters = domain.DefaultFilters()
}

// SetLoading records whether the catalog source is fetching
func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loading = loading
}

// SetError records the last catalog source failure; nil clears it
func (s *Store) SetError(msg *string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if msg == nil {
		s.errMsg = nil
		return
	}
	m := *msg
	s.errMsg = &m
}

// Snapshot returns a copy of the whole state
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]domain.Product, len(s.products))
	for i, p := range s.products {
		products[i] = p.Clone()
	}

	index := make(map[uuid.UUID]int, len(s.index))
	for id, i := range s.index {
		index[id] = i
	}

	var errMsg *string
	if s.errMsg != nil {
		m := *s.errMsg
		errMsg = &m
	}

	return Snapshot{
		Products:   products,
		SelectedID: s.selected,
		Filters:    s.filters.Clone(),
		Loading:    s.loading,
		Error:      errMsg,
		index:      index,
	}
}

// Product returns a copy of the product with the given id
func (s *Store) Product(id uuid.UUID) (domain.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return domain.Product{}, false
	}
	return s.products[i].Clone(), true
}

// Selected returns the selected product. A selection naming a product that is
// no longer in the catalog reads as no selection.
func (s *Store) Selected() (domain.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.selected == uuid.Nil {
		return domain.Product{}, false
	}
	i, ok := s.index[s.selected]
	if !ok {
		return domain.Product{}, false
	}
	return s.products[i].Clone(), true
}

// Filters returns the current filters
func (s *Store) Filters() domain.Filters {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.filters.Clone()
}

// Visible returns the filtered and sorted products of the current catalog.
// A non-nil override replaces the stored filters for this call only.
func (s *Store) Visible(override *domain.Filters) iter.Seq[domain.Product] {
	snap := s.Snapshot()
	f := snap.Filters
	if override != nil {
		f = override.Clone()
	}
	return listing.Visible(snap.Products, f)
}

func (s *Store) reindex() {
	s.index = make(map[uuid.UUID]int, len(s.products))
	for i, p := range s.products {
		s.index[p.ID] = i
	}
}

// prepare validates an incoming product, detaches it from the caller and
// derives its rating from the attached reviews.
func prepare(product domain.Product) (domain.Product, domain.RatingTally, error) {
	if err := validator.Struct(product); err != nil {
		return domain.Product{}, domain.RatingTally{}, fmt.Errorf("product %s: %w: %v", product.ID, domain.ErrInvalidInput, err)
	}

	p := product.Clone()
	seen := make(map[uuid.UUID]struct{}, len(p.Reviews))
	for _, r := range p.Reviews {
		if _, dup := seen[r.ID]; dup {
			return domain.Product{}, domain.RatingTally{}, fmt.Errorf("review %s: %w", r.ID, domain.ErrDuplicateID)
		}
		seen[r.ID] = struct{}{}
	}

	tally := p.RecomputeRating()
	return p, tally, nil
}
