package request

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Pesokrava/storefront/internal/domain"
)

const maxRequestBodySize = 1 << 20 // 1MB

// DecodeJSON decodes JSON request body into the provided struct with size limit
func DecodeJSON(r *http.Request, v interface{}) error {
	defer r.Body.Close()

	limitedReader := io.LimitReader(r.Body, maxRequestBodySize)

	if err := json.NewDecoder(limitedReader).Decode(v); err != nil {
		return fmt.Errorf("failed to decode JSON: %w", err)
	}
	return nil
}

// GetUUIDParam extracts a UUID parameter from the URL
func GetUUIDParam(r *http.Request, key string) (uuid.UUID, error) {
	param := chi.URLParam(r, key)
	if param == "" {
		return uuid.Nil, fmt.Errorf("missing parameter: %s", key)
	}

	id, err := uuid.Parse(param)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid UUID: %w", err)
	}

	return id, nil
}

// GetFilterQuery builds a one-off filter override from the query string.
// It returns nil when no filter parameter is present.
func GetFilterQuery(r *http.Request) (*domain.Filters, error) {
	q := r.URL.Query()
	if !q.Has("category") && !q.Has("min_price") && !q.Has("max_price") && !q.Has("sort") {
		return nil, nil
	}

	f := domain.DefaultFilters()

	if q.Has("category") {
		category := q.Get("category")
		f.Category = &category
	}

	for key, dst := range map[string]**decimal.Decimal{
		"min_price": &f.MinPrice,
		"max_price": &f.MaxPrice,
	} {
		if !q.Has(key) {
			continue
		}
		value, err := decimal.NewFromString(q.Get(key))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, domain.ErrInvalidInput)
		}
		*dst = &value
	}

	if q.Has("sort") {
		order := domain.SortOrder(q.Get("sort"))
		if !order.Valid() {
			return nil, fmt.Errorf("sort %q: %w", order, domain.ErrInvalidInput)
		}
		f.SortBy = order
	}

	return &f, nil
}
