package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nekogravitycat/vehicle-service-backend/internal/auth"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRepository is a mock implementation of Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) Create(ctx context.Context, u *User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockRepository) UpdateLastLogin(ctx context.Context, id string, t time.Time) error {
	return m.Called(ctx, id, t).Error(0)
}

func (m *MockRepository) List(ctx context.Context, filter Filter) ([]*User, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*User), args.Int(1), args.Error(2)
}

func (m *MockRepository) Count(ctx context.Context, filter Filter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, u *User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// plainHasher avoids bcrypt cost in tests.
type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) { return "hashed:" + p, nil }
func (plainHasher) Compare(h, p string) error {
	if h != "hashed:"+p {
		return errors.New("mismatch")
	}
	return nil
}

func newTestService(repo Repository) (*service, *test.Hook) {
	logger, hook := test.NewNullLogger()
	s := NewService(repo, plainHasher{}, logger).(*service)
	s.now = func() time.Time { return time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC) }
	return s, hook
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a normalized user account", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByEmail", ctx, "jane@example.com").Return(nil, ErrNotFound)
		repo.On("Create", ctx, mock.MatchedBy(func(u *User) bool {
			return u.Email == "jane@example.com" && u.Role == auth.RoleUser &&
				u.PasswordHash == "hashed:supersecret" && u.IsActive && u.ID != ""
		})).Return(nil)

		s, _ := newTestService(repo)
		u, err := s.Register(ctx, RegisterRequest{Name: " Jane ", Email: " Jane@Example.com ", Password: "supersecret"})
		require.NoError(t, err)
		assert.Equal(t, "Jane", u.Name)
		repo.AssertExpectations(t)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByEmail", ctx, "jane@example.com").Return(&User{ID: "u1"}, nil)

		s, _ := newTestService(repo)
		_, err := s.Register(ctx, RegisterRequest{Name: "Jane", Email: "jane@example.com", Password: "supersecret"})
		assert.ErrorIs(t, err, ErrEmailAlreadyUsed)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("validates input", func(t *testing.T) {
		s, _ := newTestService(new(MockRepository))

		_, err := s.Register(ctx, RegisterRequest{Name: "Jane", Email: "", Password: "supersecret"})
		assert.ErrorIs(t, err, ErrEmailRequired)

		_, err = s.Register(ctx, RegisterRequest{Name: "", Email: "a@b.c", Password: "supersecret"})
		assert.ErrorIs(t, err, ErrNameRequired)

		_, err = s.Register(ctx, RegisterRequest{Name: "Jane", Email: "a@b.c", Password: "short"})
		assert.ErrorIs(t, err, ErrPasswordTooShort)

		_, err = s.Register(ctx, RegisterRequest{Name: "Jane", Email: "a@b.c", Password: "supersecret", Role: "root"})
		assert.ErrorIs(t, err, ErrInvalidRole)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	active := &User{ID: "u1", Email: "jane@example.com", PasswordHash: "hashed:supersecret", IsActive: true, Role: auth.RoleUser}

	t.Run("success records last login", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByEmail", ctx, "jane@example.com").Return(active, nil)
		repo.On("UpdateLastLogin", ctx, "u1", mock.Anything).Return(nil)

		s, _ := newTestService(repo)
		u, err := s.Login(ctx, "JANE@example.com", "supersecret")
		require.NoError(t, err)
		require.NotNil(t, u.LastLoginAt)
	})

	t.Run("last login failure is logged not returned", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByEmail", ctx, "jane@example.com").Return(&User{ID: "u1", PasswordHash: "hashed:supersecret", IsActive: true}, nil)
		repo.On("UpdateLastLogin", ctx, "u1", mock.Anything).Return(errors.New("timeout"))

		s, hook := newTestService(repo)
		_, err := s.Login(ctx, "jane@example.com", "supersecret")
		require.NoError(t, err)
		require.NotNil(t, hook.LastEntry())
		assert.Equal(t, log.WarnLevel, hook.LastEntry().Level)
	})

	t.Run("wrong password", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByEmail", ctx, "jane@example.com").Return(active, nil)

		s, _ := newTestService(repo)
		_, err := s.Login(ctx, "jane@example.com", "nope")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByEmail", ctx, "ghost@example.com").Return(nil, ErrNotFound)

		s, _ := newTestService(repo)
		_, err := s.Login(ctx, "ghost@example.com", "whatever1")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("inactive account", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByEmail", ctx, "old@example.com").Return(&User{ID: "u2", PasswordHash: "hashed:supersecret"}, nil)

		s, _ := newTestService(repo)
		_, err := s.Login(ctx, "old@example.com", "supersecret")
		assert.ErrorIs(t, err, ErrInactiveUser)
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	repo.On("GetByID", ctx, "u1").Return(&User{ID: "u1", Name: "Jane", Role: auth.RoleUser, IsActive: true}, nil)
	repo.On("Update", ctx, mock.Anything).Return(nil)

	s, _ := newTestService(repo)

	admin := auth.RoleAdmin
	inactive := false
	u, err := s.Update(ctx, "u1", UpdateUserRequest{Role: &admin, IsActive: &inactive})
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, u.Role)
	assert.False(t, u.IsActive)

	bad := auth.Role("owner")
	_, err = s.Update(ctx, "u1", UpdateUserRequest{Role: &bad})
	assert.ErrorIs(t, err, ErrInvalidRole)

	blank := "  "
	_, err = s.UpdateProfile(ctx, "u1", UpdateProfileRequest{Name: &blank})
	assert.ErrorIs(t, err, ErrNameRequired)
}

func TestLookupPrincipal(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	repo.On("GetByID", ctx, "admin").Return(&User{ID: "admin", Role: auth.RoleAdmin, IsActive: true}, nil)
	repo.On("GetByID", ctx, "gone").Return(&User{ID: "gone", Role: auth.RoleUser, IsActive: false}, nil)
	repo.On("GetByID", ctx, "missing").Return(nil, ErrNotFound)

	s, _ := newTestService(repo)

	p, err := s.LookupPrincipal(ctx, "admin")
	require.NoError(t, err)
	assert.True(t, p.IsAdmin())

	_, err = s.LookupPrincipal(ctx, "gone")
	assert.ErrorIs(t, err, ErrInactiveUser)

	_, err = s.LookupPrincipal(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
