package domain

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// SortOrder selects the ordering of the visible product list
type SortOrder string

const (
	SortFeatured  SortOrder = "featured"
	SortPriceAsc  SortOrder = "price-asc"
	SortPriceDesc SortOrder = "price-desc"
	SortNameAsc   SortOrder = "name-asc"
	SortNameDesc  SortOrder = "name-desc"
)

// Valid reports whether s is one of the known sort orders.
func (s SortOrder) Valid() bool {
	switch s {
	case SortFeatured, SortPriceAsc, SortPriceDesc, SortNameAsc, SortNameDesc:
		return true
	}
	return false
}

// Filters holds the browse criteria. Nil fields are unset.
type Filters struct {
	Category *string          `json:"category"`
	MinPrice *decimal.Decimal `json:"min_price"`
	MaxPrice *decimal.Decimal `json:"max_price"`
	SortBy   SortOrder        `json:"sort_by"`
}

// DefaultFilters returns the criteria the store starts with.
func DefaultFilters() Filters {
	return Filters{SortBy: SortFeatured}
}

// Clone returns a copy that shares no pointers with f.
func (f Filters) Clone() Filters {
	if f.Category != nil {
		c := *f.Category
		f.Category = &c
	}
	if f.MinPrice != nil {
		m := *f.MinPrice
		f.MinPrice = &m
	}
	if f.MaxPrice != nil {
		m := *f.MaxPrice
		f.MaxPrice = &m
	}
	return f
}

// Merge returns f with every field present in patch replaced.
func (f Filters) Merge(patch FilterPatch) Filters {
	out := f.Clone()
	if patch.Category.Set {
		out.Category = patch.Category.Value
	}
	if patch.MinPrice.Set {
		out.MinPrice = patch.MinPrice.Value
	}
	if patch.MaxPrice.Set {
		out.MaxPrice = patch.MaxPrice.Value
	}
	if patch.SortBy.Set {
		if patch.SortBy.Value == nil {
			out.SortBy = SortFeatured
		} else {
			out.SortBy = *patch.SortBy.Value
		}
	}
	return out.Clone()
}

// FilterPatch is a partial update of Filters
type FilterPatch struct {
	Category Optional[string]          `json:"category"`
	MinPrice Optional[decimal.Decimal] `json:"min_price"`
	MaxPrice Optional[decimal.Decimal] `json:"max_price"`
	SortBy   Optional[SortOrder]       `json:"sort_by"`
}

// Optional is a patch field that is either absent, explicitly null or a value.
type Optional[T any] struct {
	Set   bool
	Value *T
}

// Some returns a present field holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: &v}
}

// Null returns a present field that clears the value.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

// UnmarshalJSON is only invoked for keys present in the document.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// MarshalJSON writes the value or null.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}
