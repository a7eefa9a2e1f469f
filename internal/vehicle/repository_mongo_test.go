package vehicle

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/vehicle-service-backend/internal/db/dbtest"
)

func storedVehicle(userID, registration string, created time.Time) *Vehicle {
	return &Vehicle{
		ID:                 uuid.NewString(),
		UserID:             userID,
		Name:               "Daily",
		Brand:              "Honda",
		Model:              "City",
		Year:               2022,
		RegistrationNumber: registration,
		Color:              "White",
		FuelType:           FuelPetrol,
		Transmission:       TransmissionManual,
		IsActive:           true,
		CreatedAt:          created,
		UpdatedAt:          created,
	}
}

func TestMongoRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMongoRepository(dbtest.Mongo(t, MongoIndexes))

	older := storedVehicle("u1", "MH12AB1234", fixedNow)
	newer := storedVehicle("u1", "MH12CD5678", fixedNow.Add(time.Hour))
	other := storedVehicle("u2", "KA01EF9012", fixedNow)
	for _, v := range []*Vehicle{older, newer, other} {
		require.NoError(t, repo.Create(ctx, v))
	}

	t.Run("registration numbers are unique", func(t *testing.T) {
		err := repo.Create(ctx, storedVehicle("u2", "MH12AB1234", fixedNow))
		assert.ErrorIs(t, err, ErrRegistrationTaken)
	})

	t.Run("owner list is newest first", func(t *testing.T) {
		items, total, err := repo.List(ctx, Filter{UserID: "u1"})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		require.Len(t, items, 2)
		assert.Equal(t, newer.ID, items[0].ID)
		assert.Equal(t, older.ID, items[1].ID)
	})

	t.Run("retired vehicles are hidden unless requested", func(t *testing.T) {
		older.IsActive = false
		require.NoError(t, repo.Update(ctx, older))

		_, total, err := repo.List(ctx, Filter{UserID: "u1"})
		require.NoError(t, err)
		assert.Equal(t, 1, total)

		_, total, err = repo.List(ctx, Filter{UserID: "u1", IncludeInactive: true})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
	})

	t.Run("page past the end keeps the total", func(t *testing.T) {
		items, total, err := repo.List(ctx, Filter{IncludeInactive: true, Page: 5, PageSize: 10})
		require.NoError(t, err)
		assert.Empty(t, items)
		assert.Equal(t, 3, total)
	})

	t.Run("service date round trips", func(t *testing.T) {
		serviced := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
		newer.LastServiceDate = &serviced
		require.NoError(t, repo.Update(ctx, newer))

		got, err := repo.GetByID(ctx, newer.ID)
		require.NoError(t, err)
		require.NotNil(t, got.LastServiceDate)
		assert.True(t, serviced.Equal(*got.LastServiceDate))
	})

	t.Run("update conflicts and misses", func(t *testing.T) {
		other.RegistrationNumber = "MH12CD5678"
		assert.ErrorIs(t, repo.Update(ctx, other), ErrRegistrationTaken)

		assert.ErrorIs(t, repo.Update(ctx, storedVehicle("u3", "DL01ZZ0001", fixedNow)), ErrNotFound)
		_, err := repo.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
