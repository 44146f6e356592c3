package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Pesokrava/storefront/internal/domain"
)

// Snapshot is an immutable copy of the catalog state
type Snapshot struct {
	Products   []domain.Product `json:"products"`
	SelectedID uuid.UUID        `json:"selected_id"`
	Filters    domain.Filters   `json:"filters"`
	Loading    bool             `json:"loading"`
	Error      *string          `json:"error"`

	index map[uuid.UUID]int
}

// Product looks a product up by id
func (s Snapshot) Product(id uuid.UUID) (domain.Product, bool) {
	if s.index == nil {
		for _, p := range s.Products {
			if p.ID == id {
				return p, true
			}
		}
		return domain.Product{}, false
	}
	i, ok := s.index[id]
	if !ok {
		return domain.Product{}, false
	}
	return s.Products[i], true
}

// Selected returns the selected product, treating a dangling id as none
func (s Snapshot) Selected() (domain.Product, bool) {
	if s.SelectedID == uuid.Nil {
		return domain.Product{}, false
	}
	return s.Product(s.SelectedID)
}

// PriceOf returns the unit price of a product in this snapshot
func (s Snapshot) PriceOf(id uuid.UUID) (decimal.Decimal, bool) {
	p, ok := s.Product(id)
	if !ok {
		return decimal.Zero, false
	}
	return p.Price, true
}
