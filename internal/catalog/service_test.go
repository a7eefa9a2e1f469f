package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, o *Offering) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*Offering, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Offering), args.Error(1)
}

func (m *MockRepository) GetBySlug(ctx context.Context, slug string) (*Offering, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Offering), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, filter Filter) ([]*Offering, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*Offering), args.Int(1), args.Error(2)
}

func (m *MockRepository) Update(ctx context.Context, o *Offering) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockRepository) Categories(ctx context.Context) ([]Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]Category), args.Error(1)
}

var fixedNow = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

func newTestService(repo Repository) *service {
	logger, _ := test.NewNullLogger()
	s := NewService(repo, logger).(*service)
	s.now = func() time.Time { return fixedNow }
	return s
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "oil-change", Slugify("Oil Change"))
	assert.Equal(t, "full-car-detailing", Slugify("  Full   Car\tDetailing "))
	assert.Equal(t, "ac-repair", Slugify("AC Repair"))
}

func TestSortSpec(t *testing.T) {
	tests := []struct {
		in     string
		column string
		desc   bool
		ok     bool
	}{
		{"", "name", false, true},
		{"price", "price", false, true},
		{"-price", "price", true, true},
		{"newest", "created_at", true, true},
		{"rating", "", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			column, desc, ok := sortSpec(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.column, column)
				assert.Equal(t, tt.desc, desc)
			}
		})
	}
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("derives slug and defaults", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("Create", ctx, mock.MatchedBy(func(o *Offering) bool {
			return o.Slug == "oil-change" && o.IsActive && o.ID != "" &&
				o.Features != nil && o.Requirements != nil && o.CreatedAt.Equal(fixedNow)
		})).Return(nil)

		s := newTestService(repo)
		o, err := s.Create(ctx, CreateRequest{
			Name:        " Oil Change ",
			Description: "Synthetic oil and filter",
			Category:    CategoryMaintenance,
			Price:       2999,
			Duration:    30,
		})
		require.NoError(t, err)
		assert.Equal(t, "Oil Change", o.Name)
		repo.AssertExpectations(t)
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		s := newTestService(new(MockRepository))
		base := CreateRequest{Name: "Wash", Description: "d", Category: CategoryCleaning, Price: 100, Duration: 10}

		req := base
		req.Name = "  "
		_, err := s.Create(ctx, req)
		assert.ErrorIs(t, err, ErrEmptyName)

		req = base
		req.Category = "tuning"
		_, err = s.Create(ctx, req)
		assert.ErrorIs(t, err, ErrInvalidCategory)

		req = base
		req.Price = -1
		_, err = s.Create(ctx, req)
		assert.ErrorIs(t, err, ErrInvalidPrice)

		req = base
		req.Duration = 0
		_, err = s.Create(ctx, req)
		assert.ErrorIs(t, err, ErrInvalidDuration)
	})

	t.Run("propagates duplicate name", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("Create", ctx, mock.Anything).Return(ErrNameTaken)

		s := newTestService(repo)
		_, err := s.Create(ctx, CreateRequest{Name: "Wash", Description: "d", Category: CategoryCleaning, Duration: 10})
		assert.ErrorIs(t, err, ErrNameTaken)
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("rename regenerates slug", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByID", ctx, "s1").Return(&Offering{
			ID: "s1", Name: "Wash", Slug: "wash", Description: "d", Category: CategoryCleaning, Duration: 10, IsActive: true,
		}, nil)
		repo.On("Update", ctx, mock.MatchedBy(func(o *Offering) bool {
			return o.Slug == "premium-wash" && o.UpdatedAt.Equal(fixedNow)
		})).Return(nil)

		s := newTestService(repo)
		name := "Premium Wash"
		o, err := s.Update(ctx, "s1", UpdateRequest{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, "Premium Wash", o.Name)
		repo.AssertExpectations(t)
	})

	t.Run("validates merged values", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByID", ctx, "s1").Return(&Offering{
			ID: "s1", Name: "Wash", Description: "d", Category: CategoryCleaning, Duration: 10,
		}, nil)

		s := newTestService(repo)
		price := int64(-5)
		_, err := s.Update(ctx, "s1", UpdateRequest{Price: &price})
		assert.ErrorIs(t, err, ErrInvalidPrice)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("missing service", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByID", ctx, "nope").Return(nil, ErrNotFound)

		s := newTestService(repo)
		_, err := s.Update(ctx, "nope", UpdateRequest{})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	repo.On("GetByID", ctx, "s1").Return(&Offering{ID: "s1", IsActive: true}, nil)
	repo.On("Update", ctx, mock.MatchedBy(func(o *Offering) bool { return !o.IsActive })).Return(nil)

	s := newTestService(repo)
	require.NoError(t, s.Delete(ctx, "s1"))
	repo.AssertExpectations(t)
}

func TestList(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects unknown category and sort", func(t *testing.T) {
		s := newTestService(new(MockRepository))
		_, _, err := s.List(ctx, Filter{Category: "tuning"})
		assert.ErrorIs(t, err, ErrInvalidCategory)
		_, _, err = s.List(ctx, Filter{Sort: "rating"})
		assert.ErrorIs(t, err, ErrInvalidSort)
	})

	t.Run("passes trimmed search through", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("List", ctx, Filter{Search: "oil", Page: 1, PageSize: 10}).
			Return([]*Offering{{ID: "s1"}}, 1, nil)

		s := newTestService(repo)
		items, total, err := s.List(ctx, Filter{Search: " oil ", Page: 1, PageSize: 10})
		require.NoError(t, err)
		assert.Len(t, items, 1)
		assert.Equal(t, 1, total)
	})
}
