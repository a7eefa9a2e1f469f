package vehicle

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/vehicle-service-backend/internal/pkg/apperror"
)

var (
	ErrNotFound            = apperror.New(http.StatusNotFound, "vehicle not found")
	ErrPermissionDenied    = apperror.New(http.StatusForbidden, "not authorized to access this vehicle")
	ErrRegistrationTaken   = apperror.New(http.StatusConflict, "vehicle with this registration number already exists")
	ErrMissingField        = apperror.New(http.StatusBadRequest, "name, brand, model, registration number and color are required")
	ErrInvalidYear         = apperror.New(http.StatusBadRequest, "invalid year")
	ErrInvalidFuelType     = apperror.New(http.StatusBadRequest, "invalid fuel type")
	ErrInvalidTransmission = apperror.New(http.StatusBadRequest, "invalid transmission")
	ErrNegativeValue       = apperror.New(http.StatusBadRequest, "engine capacity and mileage cannot be negative")
	ErrDescriptionTooLong  = apperror.New(http.StatusBadRequest, "description cannot exceed 1000 characters")
)

const (
	MinYear              = 1900
	MaxDescriptionLength = 1000
)

type FuelType string

const (
	FuelPetrol   FuelType = "petrol"
	FuelDiesel   FuelType = "diesel"
	FuelElectric FuelType = "electric"
	FuelHybrid   FuelType = "hybrid"
	FuelCNG      FuelType = "cng"
)

func (f FuelType) IsValid() bool {
	switch f {
	case FuelPetrol, FuelDiesel, FuelElectric, FuelHybrid, FuelCNG:
		return true
	}
	return false
}

type Transmission string

const (
	TransmissionManual    Transmission = "manual"
	TransmissionAutomatic Transmission = "automatic"
	TransmissionCVT       Transmission = "cvt"
)

func (t Transmission) IsValid() bool {
	switch t {
	case TransmissionManual, TransmissionAutomatic, TransmissionCVT:
		return true
	}
	return false
}

// Vehicle belongs to exactly one user. EngineCapacity is in cc, Mileage in km.
type Vehicle struct {
	ID                 string       `bson:"_id"`
	UserID             string       `bson:"user_id"`
	Name               string       `bson:"name"`
	Brand              string       `bson:"brand"`
	Model              string       `bson:"model"`
	Year               int          `bson:"year"`
	RegistrationNumber string       `bson:"registration_number"`
	Color              string       `bson:"color"`
	FuelType           FuelType     `bson:"fuel_type"`
	Transmission       Transmission `bson:"transmission"`
	EngineCapacity     int          `bson:"engine_capacity"`
	Mileage            int          `bson:"mileage"`
	Image              string       `bson:"image"`
	Description        string       `bson:"description"`
	IsActive           bool         `bson:"is_active"`
	LastServiceDate    *time.Time   `bson:"last_service_date,omitempty"`
	NextServiceDue     *time.Time   `bson:"next_service_due,omitempty"`
	CreatedAt          time.Time    `bson:"created_at"`
	UpdatedAt          time.Time    `bson:"updated_at"`
}

// Filter defines parameters for listing vehicles. Results are newest first.
type Filter struct {
	UserID          string
	IncludeInactive bool
	Page            int
	PageSize        int
}
