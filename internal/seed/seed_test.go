package seed

import (
	"context"
	"sync"
	"testing"

	"github.com/nekogravitycat/vehicle-service-backend/internal/auth"
	"github.com/nekogravitycat/vehicle-service-backend/internal/catalog"
	"github.com/nekogravitycat/vehicle-service-backend/internal/user"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type memCatalog struct {
	mu    sync.Mutex
	items map[string]*catalog.Offering
}

func newMemCatalog() *memCatalog {
	return &memCatalog{items: make(map[string]*catalog.Offering)}
}

func (r *memCatalog) Create(_ context.Context, o *catalog.Offering) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *o
	r.items[o.ID] = &copied
	return nil
}

func (r *memCatalog) GetByID(_ context.Context, id string) (*catalog.Offering, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.items[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	copied := *o
	return &copied, nil
}

func (r *memCatalog) GetBySlug(_ context.Context, slug string) (*catalog.Offering, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.items {
		if o.Slug == slug {
			copied := *o
			return &copied, nil
		}
	}
	return nil, catalog.ErrNotFound
}

func (r *memCatalog) List(_ context.Context, _ catalog.Filter) ([]*catalog.Offering, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*catalog.Offering
	for _, o := range r.items {
		out = append(out, o)
	}
	return out, len(out), nil
}

func (r *memCatalog) Update(_ context.Context, o *catalog.Offering) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *o
	r.items[o.ID] = &copied
	return nil
}

func (r *memCatalog) Categories(context.Context) ([]catalog.Category, error) {
	return nil, nil
}

type mockUsers struct {
	user.Service
	mock.Mock
}

func (m *mockUsers) Register(ctx context.Context, req user.RegisterRequest) (*user.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func TestCatalogIsIdempotent(t *testing.T) {
	ctx := context.Background()
	logger, _ := test.NewNullLogger()
	repo := newMemCatalog()
	s := New(catalog.NewService(repo, logger), nil, logger)

	created, updated, err := s.Catalog(ctx, Services)
	require.NoError(t, err)
	assert.Equal(t, 9, created)
	assert.Zero(t, updated)

	oil, err := repo.GetBySlug(ctx, "oil-change")
	require.NoError(t, err)
	oil.Price = 1
	oil.IsActive = false
	require.NoError(t, repo.Update(ctx, oil))

	created, updated, err = s.Catalog(ctx, Services)
	require.NoError(t, err)
	assert.Zero(t, created)
	assert.Equal(t, 9, updated)
	assert.Len(t, repo.items, 9)

	oil, err = repo.GetBySlug(ctx, "oil-change")
	require.NoError(t, err)
	assert.Equal(t, int64(2999), oil.Price)
	assert.True(t, oil.IsActive)
}

func TestAdmin(t *testing.T) {
	ctx := context.Background()
	logger, _ := test.NewNullLogger()
	admin := Admin{Name: "Admin User", Email: "admin@vbd.com", Password: "s3cret-pass"}

	t.Run("creates", func(t *testing.T) {
		users := new(mockUsers)
		users.On("Register", ctx, mock.MatchedBy(func(r user.RegisterRequest) bool {
			return r.Role == auth.RoleAdmin && r.Email == "admin@vbd.com"
		})).Return(&user.User{ID: "a1"}, nil)

		created, err := New(nil, users, logger).Admin(ctx, admin)
		require.NoError(t, err)
		assert.True(t, created)
	})

	t.Run("existing email is skipped", func(t *testing.T) {
		users := new(mockUsers)
		users.On("Register", ctx, mock.Anything).Return(nil, user.ErrEmailAlreadyUsed)

		created, err := New(nil, users, logger).Admin(ctx, admin)
		require.NoError(t, err)
		assert.False(t, created)
	})

	t.Run("password required", func(t *testing.T) {
		_, err := New(nil, new(mockUsers), logger).Admin(ctx, Admin{Email: "admin@vbd.com"})
		assert.Error(t, err)
	})
}
