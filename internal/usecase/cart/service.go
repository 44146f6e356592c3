package cart

import (
	"github.com/google/uuid"

	"github.com/Pesokrava/storefront/internal/domain"
	"github.com/Pesokrava/storefront/internal/pkg/logger"
	"github.com/Pesokrava/storefront/internal/pricing"
	cartstore "github.com/Pesokrava/storefront/internal/store/cart"
	"github.com/Pesokrava/storefront/internal/store/catalog"
)

// Service prices the cart against the current catalog
type Service struct {
	cart    *cartstore.Store
	catalog *catalog.Store
	rules   pricing.Rules
	logger  *logger.Logger
}

// NewService creates a new cart service
func NewService(cart *cartstore.Store, catalog *catalog.Store, rules pricing.Rules, log *logger.Logger) *Service {
	return &Service{
		cart:    cart,
		catalog: catalog,
		rules:   rules,
		logger:  log,
	}
}

// AddOrIncrement adds delta units of a product, keeping quantity at least 1
func (s *Service) AddOrIncrement(productID uuid.UUID, delta int) (domain.CartLine, error) {
	line, err := s.cart.AddOrIncrement(productID, delta)
	if err != nil {
		return domain.CartLine{}, err
	}

	s.logger.WithFields(map[string]interface{}{
		"product_id": productID,
		"quantity":   line.Quantity,
	}).Debug("Cart line updated")

	return line, nil
}

// Remove drops a product's line
func (s *Service) Remove(productID uuid.UUID) {
	s.cart.Remove(productID)
}

// Clear empties the cart
func (s *Service) Clear() {
	s.cart.Clear()
}

// Lines returns the cart lines ordered by product id
func (s *Service) Lines() []domain.CartLine {
	return s.cart.Lines()
}

// Totals prices the cart with the catalog's current prices
func (s *Service) Totals() domain.Totals {
	totals := pricing.Compute(s.cart.Lines(), s.catalog.Snapshot(), s.rules)
	if len(totals.Unpriced) > 0 {
		s.logger.Warnf("Cart has %d lines for products no longer in the catalog", len(totals.Unpriced))
	}
	return totals
}
