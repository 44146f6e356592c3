package review

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Pesokrava/storefront/internal/domain"
	"github.com/Pesokrava/storefront/internal/pkg/logger"
	"github.com/Pesokrava/storefront/internal/store/catalog"
)

// MockReviewRepository is a mock implementation of domain.ReviewRepository
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(ctx context.Context, productID uuid.UUID, review *domain.Review) error {
	args := m.Called(ctx, productID, review)
	return args.Error(0)
}

// MockCache is a mock implementation of CacheInvalidator
type MockCache struct {
	mock.Mock
}

func (m *MockCache) InvalidateCatalog(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, subject string, data []byte) error {
	args := m.Called(ctx, subject, data)
	return args.Error(0)
}

func setup(t *testing.T) (*Service, *catalog.Store, *MockReviewRepository, *MockCache, *MockEventPublisher, domain.Product) {
	t.Helper()

	store := catalog.New()
	product := domain.Product{
		ID:     uuid.New(),
		Name:   "Phone",
		Price:  decimal.RequireFromString("99.99"),
		Status: domain.StatusActive,
	}
	require.NoError(t, store.Add(product))

	repo := new(MockReviewRepository)
	cache := new(MockCache)
	publisher := new(MockEventPublisher)
	publisher.On("Publish", mock.Anything, "storefront.events.review.created", mock.Anything).Return(nil).Maybe()

	service := NewService(store, repo, cache, publisher, logger.New("test"))
	service.now = func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) }

	return service, store, repo, cache, publisher, product
}

func TestService_Create_Success(t *testing.T) {
	// Setup
	service, _, repo, cache, _, product := setup(t)
	review := &domain.Review{
		UserID:  uuid.New(),
		Rating:  5,
		Comment: "Great product!",
	}

	repo.On("Create", mock.Anything, product.ID, review).Return(nil)
	cache.On("InvalidateCatalog", mock.Anything).Return(nil)

	// Execute
	updated, err := service.Create(context.Background(), product.ID, review)

	// Assert
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, review.ID)
	assert.Equal(t, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC), review.Date)
	assert.Equal(t, 5.0, updated.Rating)
	require.Len(t, updated.Reviews, 1)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestService_Create_RatingIsMean(t *testing.T) {
	service, _, repo, cache, _, product := setup(t)

	repo.On("Create", mock.Anything, product.ID, mock.Anything).Return(nil)
	cache.On("InvalidateCatalog", mock.Anything).Return(nil)

	var updated domain.Product
	for _, rating := range []int{5, 4, 2} {
		var err error
		updated, err = service.Create(context.Background(), product.ID, &domain.Review{UserID: uuid.New(), Rating: rating})
		require.NoError(t, err)
	}

	assert.InDelta(t, 11.0/3.0, updated.Rating, 1e-9)
}

func TestService_Create_ProductNotFound(t *testing.T) {
	service, store, repo, _, _, _ := setup(t)
	before := store.Snapshot()

	_, err := service.Create(context.Background(), uuid.New(), &domain.Review{UserID: uuid.New(), Rating: 3})

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, before, store.Snapshot())
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Create_InvalidInput(t *testing.T) {
	service, _, repo, _, _, product := setup(t)

	_, err := service.Create(context.Background(), product.ID, &domain.Review{UserID: uuid.New(), Rating: 6})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Create_MissingUser(t *testing.T) {
	service, _, _, _, _, product := setup(t)

	_, err := service.Create(context.Background(), product.ID, &domain.Review{Rating: 4})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestService_Create_RepositoryError(t *testing.T) {
	service, store, repo, _, _, product := setup(t)

	repo.On("Create", mock.Anything, product.ID, mock.Anything).Return(assert.AnError)

	_, err := service.Create(context.Background(), product.ID, &domain.Review{UserID: uuid.New(), Rating: 4})

	assert.ErrorIs(t, err, assert.AnError)
	stored, _ := store.Product(product.ID)
	assert.Empty(t, stored.Reviews)
}

func TestService_Create_CacheFailureIsNotFatal(t *testing.T) {
	service, _, repo, cache, _, product := setup(t)

	repo.On("Create", mock.Anything, product.ID, mock.Anything).Return(nil)
	cache.On("InvalidateCatalog", mock.Anything).Return(assert.AnError)

	_, err := service.Create(context.Background(), product.ID, &domain.Review{UserID: uuid.New(), Rating: 4})

	assert.NoError(t, err)
}

func TestService_List(t *testing.T) {
	service, _, repo, cache, _, product := setup(t)

	repo.On("Create", mock.Anything, product.ID, mock.Anything).Return(nil)
	cache.On("InvalidateCatalog", mock.Anything).Return(nil)

	empty, err := service.List(product.ID)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	first := &domain.Review{UserID: uuid.New(), Rating: 2, Comment: "first"}
	second := &domain.Review{UserID: uuid.New(), Rating: 5, Comment: "second"}
	_, err = service.Create(context.Background(), product.ID, first)
	require.NoError(t, err)
	_, err = service.Create(context.Background(), product.ID, second)
	require.NoError(t, err)

	reviews, err := service.List(product.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, "first", reviews[0].Comment)
	assert.Equal(t, "second", reviews[1].Comment)
}

func TestService_List_NotFound(t *testing.T) {
	service, _, _, _, _, _ := setup(t)

	_, err := service.List(uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
