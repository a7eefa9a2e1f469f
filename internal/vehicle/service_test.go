package vehicle

import (
	"context"
	"testing"
	"time"

	"github.com/nekogravitycat/vehicle-service-backend/internal/auth"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, v *Vehicle) error {
	return m.Called(ctx, v).Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Vehicle), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, filter Filter) ([]*Vehicle, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*Vehicle), args.Int(1), args.Error(2)
}

func (m *MockRepository) Update(ctx context.Context, v *Vehicle) error {
	return m.Called(ctx, v).Error(0)
}

var fixedNow = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

func newTestService(repo Repository) *service {
	logger, _ := test.NewNullLogger()
	s := NewService(repo, logger).(*service)
	s.now = func() time.Time { return fixedNow }
	return s
}

func validCreate() CreateRequest {
	return CreateRequest{
		Name:               "Daily",
		Brand:              "Honda",
		Model:              "City",
		Year:               2022,
		RegistrationNumber: " mh12ab1234 ",
		Color:              "White",
		FuelType:           FuelPetrol,
		Transmission:       TransmissionManual,
		EngineCapacity:     1498,
		Mileage:            12000,
	}
}

var (
	owner    = auth.Principal{UserID: "u1", Role: auth.RoleUser}
	stranger = auth.Principal{UserID: "u2", Role: auth.RoleUser}
	admin    = auth.Principal{UserID: "a1", Role: auth.RoleAdmin}
)

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("normalizes registration", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("Create", ctx, mock.MatchedBy(func(v *Vehicle) bool {
			return v.RegistrationNumber == "MH12AB1234" && v.UserID == "u1" && v.IsActive
		})).Return(nil)

		s := newTestService(repo)
		v, err := s.Create(ctx, "u1", validCreate())
		require.NoError(t, err)
		assert.Equal(t, "MH12AB1234", v.RegistrationNumber)
		repo.AssertExpectations(t)
	})

	t.Run("year bounds follow the clock", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("Create", ctx, mock.Anything).Return(nil)
		s := newTestService(repo)

		req := validCreate()
		req.Year = 2027
		_, err := s.Create(ctx, "u1", req)
		assert.NoError(t, err)

		req.Year = 2028
		_, err = s.Create(ctx, "u1", req)
		assert.ErrorIs(t, err, ErrInvalidYear)

		req.Year = 1899
		_, err = s.Create(ctx, "u1", req)
		assert.ErrorIs(t, err, ErrInvalidYear)
	})

	t.Run("rejects bad enums and blanks", func(t *testing.T) {
		s := newTestService(new(MockRepository))

		req := validCreate()
		req.FuelType = "steam"
		_, err := s.Create(ctx, "u1", req)
		assert.ErrorIs(t, err, ErrInvalidFuelType)

		req = validCreate()
		req.Transmission = "dct"
		_, err = s.Create(ctx, "u1", req)
		assert.ErrorIs(t, err, ErrInvalidTransmission)

		req = validCreate()
		req.Color = " "
		_, err = s.Create(ctx, "u1", req)
		assert.ErrorIs(t, err, ErrMissingField)
	})

	t.Run("duplicate registration conflicts", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("Create", ctx, mock.Anything).Return(ErrRegistrationTaken)

		_, err := newTestService(repo).Create(ctx, "u1", validCreate())
		assert.ErrorIs(t, err, ErrRegistrationTaken)
	})
}

func TestAccess(t *testing.T) {
	ctx := context.Background()
	stored := func() *Vehicle {
		return &Vehicle{ID: "v1", UserID: "u1", Name: "Daily", Brand: "Honda", Model: "City", Year: 2022,
			RegistrationNumber: "MH12AB1234", Color: "White", FuelType: FuelPetrol, Transmission: TransmissionManual, IsActive: true}
	}

	t.Run("get by owner or admin", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByID", ctx, "v1").Return(stored(), nil)
		s := newTestService(repo)

		_, err := s.Get(ctx, "v1", owner)
		assert.NoError(t, err)
		_, err = s.Get(ctx, "v1", admin)
		assert.NoError(t, err)
		_, err = s.Get(ctx, "v1", stranger)
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("update is owner only", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByID", ctx, "v1").Return(stored(), nil)
		s := newTestService(repo)

		mileage := 15000
		_, err := s.Update(ctx, "v1", admin, UpdateRequest{Mileage: &mileage})
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("admin may retire", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByID", ctx, "v1").Return(stored(), nil)
		repo.On("Update", ctx, mock.MatchedBy(func(v *Vehicle) bool { return !v.IsActive })).Return(nil)

		require.NoError(t, newTestService(repo).Delete(ctx, "v1", admin))
		repo.AssertExpectations(t)
	})

	t.Run("retired vehicles cannot be edited", func(t *testing.T) {
		v := stored()
		v.IsActive = false
		repo := new(MockRepository)
		repo.On("GetByID", ctx, "v1").Return(v, nil)

		reg := "new"
		_, err := newTestService(repo).Update(ctx, "v1", owner, UpdateRequest{RegistrationNumber: &reg})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestRecordService(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2026, 4, 20, 0, 0, 0, 0, time.UTC)

	t.Run("stamps newer dates", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByID", ctx, "v1").Return(&Vehicle{ID: "v1"}, nil)
		repo.On("Update", ctx, mock.MatchedBy(func(v *Vehicle) bool {
			return v.LastServiceDate != nil && v.LastServiceDate.Equal(day)
		})).Return(nil)

		require.NoError(t, newTestService(repo).RecordService(ctx, "v1", day))
		repo.AssertExpectations(t)
	})

	t.Run("keeps a later date", func(t *testing.T) {
		later := day.AddDate(0, 0, 5)
		repo := new(MockRepository)
		repo.On("GetByID", ctx, "v1").Return(&Vehicle{ID: "v1", LastServiceDate: &later}, nil)

		require.NoError(t, newTestService(repo).RecordService(ctx, "v1", day))
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}
