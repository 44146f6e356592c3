package catalog

import (
	"slices"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pesokrava/storefront/internal/domain"
)

func newProduct(name, price string) domain.Product {
	return domain.Product{
		ID:       uuid.New(),
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Category: "Electronics",
		Stock:    10,
		Status:   domain.StatusActive,
	}
}

func newReview(rating int) domain.Review {
	return domain.Review{
		ID:      uuid.New(),
		UserID:  uuid.New(),
		Rating:  rating,
		Comment: "ok",
		Date:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func names(ps []domain.Product) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name
	}
	return out
}

func seeded(t *testing.T, ps ...domain.Product) *Store {
	t.Helper()
	s := New()
	require.NoError(t, s.ReplaceAll(ps))
	return s
}

func TestStore_NewIsEmpty(t *testing.T) {
	snap := New().Snapshot()

	assert.Empty(t, snap.Products)
	assert.Equal(t, uuid.Nil, snap.SelectedID)
	assert.Equal(t, domain.DefaultFilters(), snap.Filters)
	assert.False(t, snap.Loading)
	assert.Nil(t, snap.Error)
}

func TestStore_ReplaceAll_DerivesRating(t *testing.T) {
	p := newProduct("Phone", "99.99")
	p.Rating = 1.0
	p.Reviews = []domain.Review{newReview(5), newReview(4)}

	s := seeded(t, p)

	got, ok := s.Product(p.ID)
	require.True(t, ok)
	assert.Equal(t, 4.5, got.Rating)
}

func TestStore_ReplaceAll_KeepsOtherState(t *testing.T) {
	a := newProduct("A", "1")
	s := seeded(t, a)
	s.Select(a.ID)
	s.SetLoading(true)
	require.NoError(t, s.SetFilters(domain.FilterPatch{SortBy: domain.Some(domain.SortNameAsc)}))

	require.NoError(t, s.ReplaceAll([]domain.Product{newProduct("B", "2")}))

	snap := s.Snapshot()
	assert.Equal(t, []string{"B"}, names(snap.Products))
	assert.Equal(t, a.ID, snap.SelectedID)
	assert.True(t, snap.Loading)
	assert.Equal(t, domain.SortNameAsc, snap.Filters.SortBy)
}

func TestStore_ReplaceAll_RejectsDuplicates(t *testing.T) {
	a := newProduct("A", "1")
	s := seeded(t, newProduct("Existing", "1"))
	before := s.Snapshot()

	err := s.ReplaceAll([]domain.Product{a, a})

	assert.ErrorIs(t, err, domain.ErrDuplicateID)
	assert.Equal(t, before, s.Snapshot())
}

func TestStore_ReplaceAll_RejectsInvalid(t *testing.T) {
	bad := newProduct("Bad", "1")
	bad.Price = decimal.NewFromInt(-1)

	err := New().ReplaceAll([]domain.Product{bad})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStore_Add_Appends(t *testing.T) {
	s := seeded(t, newProduct("A", "1"))

	require.NoError(t, s.Add(newProduct("B", "2")))

	assert.Equal(t, []string{"A", "B"}, names(s.Snapshot().Products))
}

func TestStore_Add_DuplicateID(t *testing.T) {
	a := newProduct("A", "1")
	s := seeded(t, a)
	dup := newProduct("Other", "3")
	dup.ID = a.ID

	err := s.Add(dup)

	assert.ErrorIs(t, err, domain.ErrDuplicateID)
	assert.Equal(t, []string{"A"}, names(s.Snapshot().Products))
}

func TestStore_Add_DetachedFromCaller(t *testing.T) {
	p := newProduct("A", "1")
	p.Reviews = []domain.Review{newReview(3)}
	s := New()
	require.NoError(t, s.Add(p))

	p.Reviews[0].Rating = 1

	got, _ := s.Product(p.ID)
	assert.Equal(t, 3, got.Reviews[0].Rating)
}

func TestStore_Update_PreservesPosition(t *testing.T) {
	a, b, c := newProduct("A", "1"), newProduct("B", "2"), newProduct("C", "3")
	s := seeded(t, a, b, c)

	b.Name = "B2"
	require.NoError(t, s.Update(b))

	assert.Equal(t, []string{"A", "B2", "C"}, names(s.Snapshot().Products))
}

func TestStore_Update_SelectionSeesNewValue(t *testing.T) {
	a := newProduct("A", "1")
	s := seeded(t, a)
	s.Select(a.ID)

	a.Price = decimal.RequireFromString("7.50")
	require.NoError(t, s.Update(a))

	sel, ok := s.Selected()
	require.True(t, ok)
	assert.True(t, decimal.RequireFromString("7.50").Equal(sel.Price))
}

func TestStore_Update_NotFound(t *testing.T) {
	s := seeded(t, newProduct("A", "1"))
	before := s.Snapshot()

	err := s.Update(newProduct("Ghost", "1"))

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, before, s.Snapshot())
}

func TestStore_Remove_ClearsSelection(t *testing.T) {
	a, b := newProduct("A", "1"), newProduct("B", "2")
	s := seeded(t, a, b)
	s.Select(a.ID)

	s.Remove(a.ID)

	_, ok := s.Selected()
	assert.False(t, ok)
	assert.Equal(t, uuid.Nil, s.Snapshot().SelectedID)
	assert.Equal(t, []string{"B"}, names(s.Snapshot().Products))
}

func TestStore_Remove_OtherSelectionUnaffected(t *testing.T) {
	a, b := newProduct("A", "1"), newProduct("B", "2")
	s := seeded(t, a, b)
	s.Select(b.ID)

	s.Remove(a.ID)

	sel, ok := s.Selected()
	require.True(t, ok)
	assert.Equal(t, b.ID, sel.ID)
}

func TestStore_Remove_AbsentIsNoop(t *testing.T) {
	s := seeded(t, newProduct("A", "1"))
	before := s.Snapshot()

	s.Remove(uuid.New())

	assert.Equal(t, before, s.Snapshot())
}

func TestStore_Remove_ReindexesLaterProducts(t *testing.T) {
	a, b, c := newProduct("A", "1"), newProduct("B", "2"), newProduct("C", "3")
	s := seeded(t, a, b, c)

	s.Remove(a.ID)
	c.Name = "C2"
	require.NoError(t, s.Update(c))

	assert.Equal(t, []string{"B", "C2"}, names(s.Snapshot().Products))
}

func TestStore_Select_DanglingReadsAsNone(t *testing.T) {
	s := seeded(t, newProduct("A", "1"))

	s.Select(uuid.New())

	_, ok := s.Selected()
	assert.False(t, ok)
	_, ok = s.Snapshot().Selected()
	assert.False(t, ok)
}

func TestStore_Select_Clear(t *testing.T) {
	a := newProduct("A", "1")
	s := seeded(t, a)
	s.Select(a.ID)

	s.Select(uuid.Nil)

	_, ok := s.Selected()
	assert.False(t, ok)
}

func TestStore_AddReview_UpdatesRating(t *testing.T) {
	a := newProduct("A", "1")
	s := seeded(t, a)

	got, err := s.AddReview(a.ID, newReview(5))
	require.NoError(t, err)
	assert.Equal(t, 5.0, got.Rating)

	got, err = s.AddReview(a.ID, newReview(2))
	require.NoError(t, err)
	assert.Equal(t, 3.5, got.Rating)
	assert.Len(t, got.Reviews, 2)
}

func TestStore_AddReview_KeepsSubmissionOrder(t *testing.T) {
	a := newProduct("A", "1")
	s := seeded(t, a)
	first, second := newReview(1), newReview(2)

	_, _ = s.AddReview(a.ID, first)
	_, _ = s.AddReview(a.ID, second)

	got, _ := s.Product(a.ID)
	require.Len(t, got.Reviews, 2)
	assert.Equal(t, first.ID, got.Reviews[0].ID)
	assert.Equal(t, second.ID, got.Reviews[1].ID)
}

func TestStore_AddReview_SelectionConsistent(t *testing.T) {
	a := newProduct("A", "1")
	s := seeded(t, a)
	s.Select(a.ID)

	_, err := s.AddReview(a.ID, newReview(4))
	require.NoError(t, err)

	sel, ok := s.Selected()
	require.True(t, ok)
	canonical, _ := s.Product(a.ID)
	assert.Equal(t, canonical, sel)
	assert.Equal(t, 4.0, sel.Rating)
}

func TestStore_AddReview_NotFoundLeavesStateUnchanged(t *testing.T) {
	a := newProduct("A", "1")
	a.Reviews = []domain.Review{newReview(3)}
	s := seeded(t, a)
	s.Select(a.ID)
	before := s.Snapshot()

	_, err := s.AddReview(uuid.New(), newReview(5))

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, before, s.Snapshot())
}

func TestStore_AddReview_InvalidRating(t *testing.T) {
	a := newProduct("A", "1")
	s := seeded(t, a)

	_, err := s.AddReview(a.ID, newReview(6))

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	got, _ := s.Product(a.ID)
	assert.Empty(t, got.Reviews)
}

func TestStore_AddReview_DuplicateReviewID(t *testing.T) {
	a := newProduct("A", "1")
	s := seeded(t, a)
	r := newReview(4)
	_, err := s.AddReview(a.ID, r)
	require.NoError(t, err)

	_, err = s.AddReview(a.ID, r)

	assert.ErrorIs(t, err, domain.ErrDuplicateID)
	got, _ := s.Product(a.ID)
	assert.Len(t, got.Reviews, 1)
}

func TestStore_AddReview_AfterUpdateUsesNewReviews(t *testing.T) {
	a := newProduct("A", "1")
	a.Reviews = []domain.Review{newReview(1)}
	s := seeded(t, a)

	a.Reviews = []domain.Review{newReview(5), newReview(5)}
	require.NoError(t, s.Update(a))
	got, err := s.AddReview(a.ID, newReview(2))

	require.NoError(t, err)
	assert.Equal(t, 4.0, got.Rating)
}

func TestStore_AddReview_MeanProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("rating is the mean of appended ratings", prop.ForAll(
		func(ratings []int) bool {
			a := newProduct("A", "1")
			s := New()
			if err := s.Add(a); err != nil {
				return false
			}
			if p, _ := s.Product(a.ID); p.Rating != 0 {
				return false
			}

			sum := 0
			for i, r := range ratings {
				got, err := s.AddReview(a.ID, newReview(r))
				if err != nil {
					return false
				}
				sum += r
				if got.Rating != float64(sum)/float64(i+1) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(1, 5)),
	))

	properties.TestingRun(t)
}

func TestStore_SetFilters_Merges(t *testing.T) {
	s := New()

	require.NoError(t, s.SetFilters(domain.FilterPatch{Category: domain.Some("Books")}))
	require.NoError(t, s.SetFilters(domain.FilterPatch{SortBy: domain.Some(domain.SortPriceAsc)}))

	f := s.Filters()
	require.NotNil(t, f.Category)
	assert.Equal(t, "Books", *f.Category)
	assert.Equal(t, domain.SortPriceAsc, f.SortBy)
}

func TestStore_SetFilters_InvalidSort(t *testing.T) {
	s := New()

	err := s.SetFilters(domain.FilterPatch{SortBy: domain.Some(domain.SortOrder("newest"))})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, domain.DefaultFilters(), s.Filters())
}

func TestStore_ClearFilters(t *testing.T) {
	s := New()
	require.NoError(t, s.SetFilters(domain.FilterPatch{
		Category: domain.Some("Books"),
		SortBy:   domain.Some(domain.SortNameDesc),
	}))

	s.ClearFilters()

	assert.Equal(t, domain.DefaultFilters(), s.Filters())
}

func TestStore_SetFilters_DoesNotTouchCatalog(t *testing.T) {
	s := seeded(t, newProduct("B", "2"), newProduct("A", "1"))

	require.NoError(t, s.SetFilters(domain.FilterPatch{SortBy: domain.Some(domain.SortNameAsc)}))

	assert.Equal(t, []string{"B", "A"}, names(s.Snapshot().Products))
}

func TestStore_LoadingAndError(t *testing.T) {
	s := New()
	msg := "catalog source unavailable"

	s.SetLoading(true)
	s.SetError(&msg)
	msg = "changed by caller"

	snap := s.Snapshot()
	assert.True(t, snap.Loading)
	require.NotNil(t, snap.Error)
	assert.Equal(t, "catalog source unavailable", *snap.Error)

	s.SetLoading(false)
	s.SetError(nil)
	snap = s.Snapshot()
	assert.False(t, snap.Loading)
	assert.Nil(t, snap.Error)
}

func TestStore_Visible_UsesStoredFilters(t *testing.T) {
	s := seeded(t, newProduct("B", "20"), newProduct("A", "10"))
	require.NoError(t, s.SetFilters(domain.FilterPatch{SortBy: domain.Some(domain.SortPriceAsc)}))

	assert.Equal(t, []string{"A", "B"}, names(slices.Collect(s.Visible(nil))))
}

func TestStore_Visible_Override(t *testing.T) {
	s := seeded(t, newProduct("B", "20"), newProduct("A", "10"))
	require.NoError(t, s.SetFilters(domain.FilterPatch{SortBy: domain.Some(domain.SortPriceAsc)}))

	override := domain.Filters{SortBy: domain.SortFeatured}
	assert.Equal(t, []string{"B", "A"}, names(slices.Collect(s.Visible(&override))))
	assert.Equal(t, domain.SortPriceAsc, s.Filters().SortBy)
}

func TestStore_Snapshot_IsDetached(t *testing.T) {
	a := newProduct("A", "1")
	a.Reviews = []domain.Review{newReview(5)}
	s := seeded(t, a)

	snap := s.Snapshot()
	snap.Products[0].Name = "mutated"
	snap.Products[0].Reviews[0].Rating = 1

	got, _ := s.Product(a.ID)
	assert.Equal(t, "A", got.Name)
	assert.Equal(t, 5, got.Reviews[0].Rating)
}

func TestSnapshot_PriceOf(t *testing.T) {
	a := newProduct("A", "99.99")
	snap := seeded(t, a).Snapshot()

	price, ok := snap.PriceOf(a.ID)
	assert.True(t, ok)
	assert.True(t, decimal.RequireFromString("99.99").Equal(price))

	_, ok = snap.PriceOf(uuid.New())
	assert.False(t, ok)
}
