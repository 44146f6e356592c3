package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Pesokrava/storefront/internal/domain"
	"github.com/Pesokrava/storefront/internal/pkg/logger"
	"github.com/Pesokrava/storefront/internal/pricing"
	cartstore "github.com/Pesokrava/storefront/internal/store/cart"
	"github.com/Pesokrava/storefront/internal/store/catalog"
	"github.com/Pesokrava/storefront/internal/usecase/cart"
	"github.com/Pesokrava/storefront/internal/usecase/product"
	"github.com/Pesokrava/storefront/internal/usecase/review"
)

// MockProductRepository is a mock implementation of domain.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, p *domain.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, p *domain.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockReviewRepository is a mock implementation of domain.ReviewRepository
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(ctx context.Context, productID uuid.UUID, r *domain.Review) error {
	args := m.Called(ctx, productID, r)
	return args.Error(0)
}

// memoryCache is an in-memory catalog cache
type memoryCache struct {
	products []domain.Product
}

func (c *memoryCache) GetCatalog(context.Context) ([]domain.Product, error) {
	if c.products == nil {
		return nil, domain.ErrNotFound
	}
	return c.products, nil
}

func (c *memoryCache) SetCatalog(_ context.Context, products []domain.Product) error {
	c.products = products
	return nil
}

func (c *memoryCache) InvalidateCatalog(context.Context) error {
	c.products = nil
	return nil
}

type env struct {
	store       *catalog.Store
	productRepo *MockProductRepository
	reviewRepo  *MockReviewRepository
	products    *ProductHandler
	reviews     *ReviewHandler
	browse      *BrowseHandler
	cart        *CartHandler
}

func newEnv(t *testing.T, seed ...domain.Product) *env {
	t.Helper()

	log := logger.New("test")
	store := catalog.New()
	require.NoError(t, store.ReplaceAll(seed))

	productRepo := new(MockProductRepository)
	reviewRepo := new(MockReviewRepository)
	cache := &memoryCache{}

	productService := product.NewService(store, productRepo, cache, nil, log)
	reviewService := review.NewService(store, reviewRepo, cache, nil, log)
	cartService := cart.NewService(cartstore.New(), store, pricing.DefaultRules(), log)

	return &env{
		store:       store,
		productRepo: productRepo,
		reviewRepo:  reviewRepo,
		products:    NewProductHandler(productService, log),
		reviews:     NewReviewHandler(reviewService, log),
		browse:      NewBrowseHandler(productService, log),
		cart:        NewCartHandler(cartService, log),
	}
}

func newProduct(name, price, category string) domain.Product {
	return domain.Product{
		ID:       uuid.New(),
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Category: category,
		Stock:    5,
		Status:   domain.StatusActive,
	}
}

func newRequest(t *testing.T, method, target string, body interface{}, params map[string]string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")

	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}
	return req
}

// envelope is the success response shape
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Count   int             `json:"count"`
	Error   string          `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var e envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))
	return e
}
