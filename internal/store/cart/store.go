// Package cart owns the shopping cart lines.
package cart

import (
	"bytes"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/Pesokrava/storefront/internal/domain"
)

// Store holds one line per product id
type Store struct {
	mu    sync.RWMutex
	lines map[uuid.UUID]domain.CartLine
}

// New creates an empty cart
func New() *Store {
	return &Store{lines: make(map[uuid.UUID]domain.CartLine)}
}

// AddOrIncrement creates a line with quantity max(1, delta) or moves an
// existing line to max(1, quantity+delta). Lines are only removed by Remove.
func (s *Store) AddOrIncrement(productID uuid.UUID, delta int) (domain.CartLine, error) {
	if productID == uuid.Nil {
		return domain.CartLine{}, fmt.Errorf("product id: %w", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	line, ok := s.lines[productID]
	if !ok {
		line = domain.CartLine{ProductID: productID, Quantity: max(1, delta)}
	} else {
		line.Quantity = max(1, line.Quantity+delta)
	}

	s.lines[productID] = line
	return line, nil
}

// Remove deletes the line for a product; absent lines are ignored
func (s *Store) Remove(productID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.lines, productID)
}

// Clear empties the cart
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	clear(s.lines)
}

// Line returns the line for a product
func (s *Store) Line(productID uuid.UUID) (domain.CartLine, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	line, ok := s.lines[productID]
	return line, ok
}

// Lines returns a copy of all lines ordered by product id
func (s *Store) Lines() []domain.CartLine {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.CartLine, 0, len(s.lines))
	for _, line := range s.lines {
		out = append(out, line)
	}
	slices.SortFunc(out, func(a, b domain.CartLine) int {
		return bytes.Compare(a.ProductID[:], b.ProductID[:])
	})
	return out
}

// Len returns the number of lines
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.lines)
}
