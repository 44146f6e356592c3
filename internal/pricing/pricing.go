// Package pricing computes cart totals with decimal arithmetic. Values are
// never rounded here; callers format them for display.
package pricing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Pesokrava/storefront/internal/domain"
)

// PriceLookup resolves the current unit price of a product
type PriceLookup interface {
	PriceOf(id uuid.UUID) (decimal.Decimal, bool)
}

// PriceMap is a PriceLookup backed by a map
type PriceMap map[uuid.UUID]decimal.Decimal

// PriceOf implements PriceLookup
func (m PriceMap) PriceOf(id uuid.UUID) (decimal.Decimal, bool) {
	p, ok := m[id]
	return p, ok
}

// Rules are the shipping and tax parameters
type Rules struct {
	// FreeShippingOver is the subtotal that must be strictly exceeded for free shipping
	FreeShippingOver decimal.Decimal
	FlatShipping     decimal.Decimal
	TaxRate          decimal.Decimal
}

// DefaultRules returns free shipping over 50, flat 5.99 otherwise, 10% tax.
func DefaultRules() Rules {
	return Rules{
		FreeShippingOver: decimal.NewFromInt(50),
		FlatShipping:     decimal.RequireFromString("5.99"),
		TaxRate:          decimal.RequireFromString("0.10"),
	}
}

// Shipping returns the shipping charge for a subtotal. An empty cart is
// charged the flat rate because 0 does not exceed the threshold.
func (r Rules) Shipping(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThan(r.FreeShippingOver) {
		return decimal.Zero
	}
	return r.FlatShipping
}

// Compute prices the cart lines. Lines whose product cannot be resolved are
// priced at zero and reported in Totals.Unpriced.
func Compute(lines []domain.CartLine, prices PriceLookup, rules Rules) domain.Totals {
	totals := domain.Totals{
		Lines:    make([]domain.LineTotal, 0, len(lines)),
		Subtotal: decimal.Zero,
	}

	for _, line := range lines {
		unit, ok := prices.PriceOf(line.ProductID)
		if !ok {
			unit = decimal.Zero
			totals.Unpriced = append(totals.Unpriced, line.ProductID)
		}

		lineTotal := unit.Mul(decimal.NewFromInt(int64(line.Quantity)))
		totals.Lines = append(totals.Lines, domain.LineTotal{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: unit,
			Total:     lineTotal,
		})
		totals.Subtotal = totals.Subtotal.Add(lineTotal)
	}

	totals.Shipping = rules.Shipping(totals.Subtotal)
	totals.Tax = totals.Subtotal.Mul(rules.TaxRate)
	totals.Total = totals.Subtotal.Add(totals.Shipping).Add(totals.Tax)
	return totals
}
