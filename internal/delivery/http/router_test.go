package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pesokrava/storefront/internal/config"
	"github.com/Pesokrava/storefront/internal/delivery/http/handler"
	"github.com/Pesokrava/storefront/internal/delivery/http/middleware"
	"github.com/Pesokrava/storefront/internal/domain"
	"github.com/Pesokrava/storefront/internal/pkg/logger"
	"github.com/Pesokrava/storefront/internal/pricing"
	cartstore "github.com/Pesokrava/storefront/internal/store/cart"
	"github.com/Pesokrava/storefront/internal/store/catalog"
	"github.com/Pesokrava/storefront/internal/usecase/cart"
	"github.com/Pesokrava/storefront/internal/usecase/product"
	"github.com/Pesokrava/storefront/internal/usecase/review"
)

// memorySource keeps the catalog source in memory
type memorySource struct {
	products []domain.Product
}

func (s *memorySource) List(context.Context) ([]domain.Product, error) {
	return s.products, nil
}

func (s *memorySource) Create(_ context.Context, p *domain.Product) error {
	s.products = append(s.products, *p)
	return nil
}

func (s *memorySource) Update(context.Context, *domain.Product) error { return nil }

func (s *memorySource) Delete(context.Context, uuid.UUID) error { return nil }

type memoryReviews struct{}

func (memoryReviews) Create(context.Context, uuid.UUID, *domain.Review) error { return nil }

type noCache struct{}

func (noCache) GetCatalog(context.Context) ([]domain.Product, error) { return nil, domain.ErrNotFound }

func (noCache) SetCatalog(context.Context, []domain.Product) error { return nil }

func (noCache) InvalidateCatalog(context.Context) error { return nil }

func newServer(t *testing.T, limiter *middleware.RateLimiter) *httptest.Server {
	t.Helper()

	log := logger.New("test")
	cfg := &config.Config{Server: config.ServerConfig{AllowedOrigins: []string{"*"}}}
	store := catalog.New()

	productService := product.NewService(store, &memorySource{}, noCache{}, nil, log)
	reviewService := review.NewService(store, memoryReviews{}, noCache{}, nil, log)
	cartService := cart.NewService(cartstore.New(), store, pricing.DefaultRules(), log)

	router := NewRouter(Handlers{
		Product: handler.NewProductHandler(productService, log),
		Review:  handler.NewReviewHandler(reviewService, log),
		Browse:  handler.NewBrowseHandler(productService, log),
		Cart:    handler.NewCartHandler(cartService, log),
	}, limiter, cfg, log)

	srv := httptest.NewServer(router.Setup())
	t.Cleanup(srv.Close)
	return srv
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Count int             `json:"count"`
}

func call(t *testing.T, srv *httptest.Server, method, path string, body interface{}) (int, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var e envelope
	if resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
	}
	return resp.StatusCode, e
}

func TestRouter_Health(t *testing.T) {
	srv := newServer(t, nil)

	resp, err := srv.Client().Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Content-Type"))
}

func TestRouter_StorefrontFlow(t *testing.T) {
	srv := newServer(t, nil)

	create := func(name, price string) domain.Product {
		code, e := call(t, srv, http.MethodPost, "/api/v1/products", map[string]interface{}{
			"name": name, "price": price, "category": "Electronics",
		})
		require.Equal(t, http.StatusCreated, code)
		var p domain.Product
		require.NoError(t, json.Unmarshal(e.Data, &p))
		return p
	}

	a := create("A", "99.99")
	b := create("B", "149.99")

	// select, review and check the selection sees the new rating
	code, _ := call(t, srv, http.MethodPut, "/api/v1/selection", map[string]interface{}{"product_id": a.ID})
	require.Equal(t, http.StatusOK, code)

	for _, rating := range []int{5, 4} {
		code, _ = call(t, srv, http.MethodPost, "/api/v1/products/"+a.ID.String()+"/reviews", map[string]interface{}{
			"user_id": uuid.New(), "rating": rating,
		})
		require.Equal(t, http.StatusCreated, code)
	}

	code, e := call(t, srv, http.MethodGet, "/api/v1/selection", nil)
	require.Equal(t, http.StatusOK, code)
	var selected domain.Product
	require.NoError(t, json.Unmarshal(e.Data, &selected))
	assert.Equal(t, 4.5, selected.Rating)

	// listing honours stored filters
	code, _ = call(t, srv, http.MethodPatch, "/api/v1/filters", map[string]interface{}{"sort_by": "price-desc"})
	require.Equal(t, http.StatusOK, code)

	code, e = call(t, srv, http.MethodGet, "/api/v1/products", nil)
	require.Equal(t, http.StatusOK, code)
	var listed []domain.Product
	require.NoError(t, json.Unmarshal(e.Data, &listed))
	require.Len(t, listed, 2)
	assert.Equal(t, b.ID, listed[0].ID)

	// cart pricing
	call(t, srv, http.MethodPost, "/api/v1/cart/items", map[string]interface{}{"product_id": a.ID, "delta": 2})
	call(t, srv, http.MethodPost, "/api/v1/cart/items", map[string]interface{}{"product_id": b.ID})

	code, e = call(t, srv, http.MethodGet, "/api/v1/cart", nil)
	require.Equal(t, http.StatusOK, code)
	var totals domain.Totals
	require.NoError(t, json.Unmarshal(e.Data, &totals))
	assert.Equal(t, "384.967", totals.Total.String())

	// removing the selected product clears the selection
	code, _ = call(t, srv, http.MethodDelete, "/api/v1/products/"+a.ID.String(), nil)
	require.Equal(t, http.StatusNoContent, code)

	_, e = call(t, srv, http.MethodGet, "/api/v1/selection", nil)
	assert.Equal(t, "null", string(e.Data))

	code, e = call(t, srv, http.MethodGet, "/api/v1/cart", nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(e.Data, &totals))
	assert.Equal(t, []uuid.UUID{a.ID}, totals.Unpriced)
}

func TestRouter_RateLimited(t *testing.T) {
	srv := newServer(t, middleware.NewRateLimiter(0.001, 1))

	code, _ := call(t, srv, http.MethodGet, "/api/v1/status", nil)
	assert.Equal(t, http.StatusOK, code)

	resp, err := srv.Client().Get(srv.URL + "/api/v1/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	health, err := srv.Client().Get(srv.URL + "/health")
	require.NoError(t, err)
	defer health.Body.Close()
	assert.Equal(t, http.StatusOK, health.StatusCode)
}
