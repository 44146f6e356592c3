package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartLine is a purchase intent for one product. Quantity is at least 1.
type CartLine struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// LineTotal is a priced cart line
type LineTotal struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
}

// Totals is the result of pricing a cart
type Totals struct {
	Lines    []LineTotal     `json:"lines"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`

	// Unpriced lists cart lines whose product is no longer in the catalog.
	// They are priced at zero.
	Unpriced []uuid.UUID `json:"unpriced,omitempty"`
}
