// Package listing derives the visible, ordered product list from a catalog
// snapshot and a set of filters.
package listing

import (
	"iter"
	"slices"
	"strings"

	"github.com/Pesokrava/storefront/internal/domain"
)

// Visible returns the products that pass f, ordered by f.SortBy. The sequence
// is recomputed from products on every iteration and products is never
// modified.
func Visible(products []domain.Product, f domain.Filters) iter.Seq[domain.Product] {
	return func(yield func(domain.Product) bool) {
		matched := Filter(products, f)
		Sort(matched, f.SortBy)
		for _, p := range matched {
			if !yield(p) {
				return
			}
		}
	}
}

// Filter returns a new slice with the products matching every set criterion,
// in catalog order.
func Filter(products []domain.Product, f domain.Filters) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if Matches(p, f) {
			out = append(out, p)
		}
	}
	return out
}

// Matches reports whether p passes the category and inclusive price bounds of f
func Matches(p domain.Product, f domain.Filters) bool {
	if f.Category != nil && p.Category != *f.Category {
		return false
	}
	if f.MinPrice != nil && p.Price.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && p.Price.GreaterThan(*f.MaxPrice) {
		return false
	}
	return true
}

// Sort orders products in place with a stable sort. Featured and unknown
// orders keep the existing order.
func Sort(products []domain.Product, order domain.SortOrder) {
	cmp := comparator(order)
	if cmp == nil {
		return
	}
	slices.SortStableFunc(products, cmp)
}

func comparator(order domain.SortOrder) func(a, b domain.Product) int {
	switch order {
	case domain.SortPriceAsc:
		return func(a, b domain.Product) int { return a.Price.Cmp(b.Price) }
	case domain.SortPriceDesc:
		return func(a, b domain.Product) int { return b.Price.Cmp(a.Price) }
	case domain.SortNameAsc:
		return func(a, b domain.Product) int { return strings.Compare(a.Name, b.Name) }
	case domain.SortNameDesc:
		return func(a, b domain.Product) int { return strings.Compare(b.Name, a.Name) }
	default:
		return nil
	}
}
