package http

import (
	"time"

	"github.com/nekogravitycat/vehicle-service-backend/internal/pkg/request"
	"github.com/nekogravitycat/vehicle-service-backend/internal/pkg/validation"
	"github.com/nekogravitycat/vehicle-service-backend/internal/vehicle"
)

type VehicleResponse struct {
	ID                 string     `json:"id"`
	UserID             string     `json:"userId"`
	Name               string     `json:"name"`
	Brand              string     `json:"brand"`
	Model              string     `json:"model"`
	Year               int        `json:"year"`
	RegistrationNumber string     `json:"registrationNumber"`
	Color              string     `json:"color"`
	FuelType           string     `json:"fuelType"`
	Transmission       string     `json:"transmission"`
	EngineCapacity     int        `json:"engineCapacity"`
	Mileage            int        `json:"mileage"`
	Image              string     `json:"image"`
	Description        string     `json:"description"`
	IsActive           bool       `json:"isActive"`
	LastServiceDate    *time.Time `json:"lastServiceDate"`
	NextServiceDue     *time.Time `json:"nextServiceDue"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

func NewVehicleResponse(v *vehicle.Vehicle) VehicleResponse {
	return VehicleResponse{
		ID:                 v.ID,
		UserID:             v.UserID,
		Name:               v.Name,
		Brand:              v.Brand,
		Model:              v.Model,
		Year:               v.Year,
		RegistrationNumber: v.RegistrationNumber,
		Color:              v.Color,
		FuelType:           string(v.FuelType),
		Transmission:       string(v.Transmission),
		EngineCapacity:     v.EngineCapacity,
		Mileage:            v.Mileage,
		Image:              v.Image,
		Description:        v.Description,
		IsActive:           v.IsActive,
		LastServiceDate:    v.LastServiceDate,
		NextServiceDue:     v.NextServiceDue,
		CreatedAt:          v.CreatedAt,
		UpdatedAt:          v.UpdatedAt,
	}
}

func newVehicleResponses(vehicles []*vehicle.Vehicle) []VehicleResponse {
	items := make([]VehicleResponse, len(vehicles))
	for i, v := range vehicles {
		items[i] = NewVehicleResponse(v)
	}
	return items
}

// optionalDate converts a validated isodate string.
func optionalDate(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := validation.ParseISODate(*s)
	if err != nil {
		return nil
	}
	return &t
}

// CreateVehicleRequest is the body of POST /vehicles.
type CreateVehicleRequest struct {
	Name               string  `json:"name" binding:"required,max=100"`
	Brand              string  `json:"brand" binding:"required,max=100"`
	Model              string  `json:"model" binding:"required,max=100"`
	Year               int     `json:"year" binding:"required,min=1900"`
	RegistrationNumber string  `json:"registrationNumber" binding:"required,max=20"`
	Color              string  `json:"color" binding:"required,max=50"`
	FuelType           string  `json:"fuelType" binding:"required,oneof=petrol diesel electric hybrid cng"`
	Transmission       string  `json:"transmission" binding:"required,oneof=manual automatic cvt"`
	EngineCapacity     int     `json:"engineCapacity" binding:"min=0"`
	Mileage            int     `json:"mileage" binding:"min=0"`
	Image              string  `json:"image" binding:"omitempty,max=500"`
	Description        string  `json:"description" binding:"omitempty,max=1000"`
	LastServiceDate    *string `json:"lastServiceDate" binding:"omitempty,isodate"`
	NextServiceDue     *string `json:"nextServiceDue" binding:"omitempty,isodate"`
}

func (r *CreateVehicleRequest) ToDomain() vehicle.CreateRequest {
	return vehicle.CreateRequest{
		Name:               r.Name,
		Brand:              r.Brand,
		Model:              r.Model,
		Year:               r.Year,
		RegistrationNumber: r.RegistrationNumber,
		Color:              r.Color,
		FuelType:           vehicle.FuelType(r.FuelType),
		Transmission:       vehicle.Transmission(r.Transmission),
		EngineCapacity:     r.EngineCapacity,
		Mileage:            r.Mileage,
		Image:              r.Image,
		Description:        r.Description,
		LastServiceDate:    optionalDate(r.LastServiceDate),
		NextServiceDue:     optionalDate(r.NextServiceDue),
	}
}

// UpdateVehicleRequest is the body of PUT /vehicles/:id. Omitted fields are unchanged.
type UpdateVehicleRequest struct {
	Name               *string `json:"name" binding:"omitempty,max=100"`
	Brand              *string `json:"brand" binding:"omitempty,max=100"`
	Model              *string `json:"model" binding:"omitempty,max=100"`
	Year               *int    `json:"year" binding:"omitempty,min=1900"`
	RegistrationNumber *string `json:"registrationNumber" binding:"omitempty,max=20"`
	Color              *string `json:"color" binding:"omitempty,max=50"`
	FuelType           *string `json:"fuelType" binding:"omitempty,oneof=petrol diesel electric hybrid cng"`
	Transmission       *string `json:"transmission" binding:"omitempty,oneof=manual automatic cvt"`
	EngineCapacity     *int    `json:"engineCapacity" binding:"omitempty,min=0"`
	Mileage            *int    `json:"mileage" binding:"omitempty,min=0"`
	Image              *string `json:"image" binding:"omitempty,max=500"`
	Description        *string `json:"description" binding:"omitempty,max=1000"`
	LastServiceDate    *string `json:"lastServiceDate" binding:"omitempty,isodate"`
	NextServiceDue     *string `json:"nextServiceDue" binding:"omitempty,isodate"`
}

func (r *UpdateVehicleRequest) ToDomain() vehicle.UpdateRequest {
	req := vehicle.UpdateRequest{
		Name:               r.Name,
		Brand:              r.Brand,
		Model:              r.Model,
		Year:               r.Year,
		RegistrationNumber: r.RegistrationNumber,
		Color:              r.Color,
		EngineCapacity:     r.EngineCapacity,
		Mileage:            r.Mileage,
		Image:              r.Image,
		Description:        r.Description,
		LastServiceDate:    optionalDate(r.LastServiceDate),
		NextServiceDue:     optionalDate(r.NextServiceDue),
	}
	if r.FuelType != nil {
		f := vehicle.FuelType(*r.FuelType)
		req.FuelType = &f
	}
	if r.Transmission != nil {
		t := vehicle.Transmission(*r.Transmission)
		req.Transmission = &t
	}
	return req
}

// ListAllVehiclesRequest is the admin listing query.
type ListAllVehiclesRequest struct {
	request.ListParams
	UserID          string `form:"userId" binding:"omitempty,uuid"`
	IncludeInactive bool   `form:"includeInactive"`
}

func (r *ListAllVehiclesRequest) ToFilter() vehicle.Filter {
	r.Normalize(10)
	return vehicle.Filter{
		UserID:          r.UserID,
		IncludeInactive: r.IncludeInactive,
		Page:            r.Page,
		PageSize:        r.PageSize,
	}
}
