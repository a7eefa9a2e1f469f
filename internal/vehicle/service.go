package vehicle

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/nekogravitycat/vehicle-service-backend/internal/auth"
	log "github.com/sirupsen/logrus"
)

type CreateRequest struct {
	Name               string
	Brand              string
	Model              string
	Year               int
	RegistrationNumber string
	Color              string
	FuelType           FuelType
	Transmission       Transmission
	EngineCapacity     int
	Mileage            int
	Image              string
	Description        string
	LastServiceDate    *time.Time
	NextServiceDue     *time.Time
}

// UpdateRequest is a partial edit. Nil fields are left unchanged.
type UpdateRequest struct {
	Name               *string
	Brand              *string
	Model              *string
	Year               *int
	RegistrationNumber *string
	Color              *string
	FuelType           *FuelType
	Transmission       *Transmission
	EngineCapacity     *int
	Mileage            *int
	Image              *string
	Description        *string
	LastServiceDate    *time.Time
	NextServiceDue     *time.Time
}

type Service interface {
	Create(ctx context.Context, userID string, req CreateRequest) (*Vehicle, error)
	// Get returns the vehicle to its owner or an admin.
	Get(ctx context.Context, id string, p auth.Principal) (*Vehicle, error)
	// GetByID skips the ownership check. Used by collaborators that do their own.
	GetByID(ctx context.Context, id string) (*Vehicle, error)
	ListByUser(ctx context.Context, userID string) ([]*Vehicle, error)
	ListAll(ctx context.Context, filter Filter) ([]*Vehicle, int, error)
	Update(ctx context.Context, id string, p auth.Principal, req UpdateRequest) (*Vehicle, error)
	Delete(ctx context.Context, id string, p auth.Principal) error
	SetImage(ctx context.Context, id string, p auth.Principal, image string) (*Vehicle, error)
	// RecordService stamps the date of the latest completed service.
	RecordService(ctx context.Context, id string, servicedOn time.Time) error
}

type service struct {
	repo Repository
	log  log.FieldLogger
	now  func() time.Time
}

func NewService(repo Repository, logger log.FieldLogger) Service {
	return &service{
		repo: repo,
		log:  logger,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// NormalizeRegistration trims and uppercases a registration number.
func NormalizeRegistration(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func (s *service) validate(v *Vehicle) error {
	if v.Name == "" || v.Brand == "" || v.Model == "" || v.RegistrationNumber == "" || v.Color == "" {
		return ErrMissingField
	}
	if v.Year < MinYear || v.Year > s.now().Year()+1 {
		return ErrInvalidYear
	}
	if !v.FuelType.IsValid() {
		return ErrInvalidFuelType
	}
	if !v.Transmission.IsValid() {
		return ErrInvalidTransmission
	}
	if v.EngineCapacity < 0 || v.Mileage < 0 {
		return ErrNegativeValue
	}
	if utf8.RuneCountInString(v.Description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	return nil
}

func (s *service) Create(ctx context.Context, userID string, req CreateRequest) (*Vehicle, error) {
	now := s.now()
	v := &Vehicle{
		ID:                 uuid.NewString(),
		UserID:             userID,
		Name:               strings.TrimSpace(req.Name),
		Brand:              strings.TrimSpace(req.Brand),
		Model:              strings.TrimSpace(req.Model),
		Year:               req.Year,
		RegistrationNumber: NormalizeRegistration(req.RegistrationNumber),
		Color:              strings.TrimSpace(req.Color),
		FuelType:           req.FuelType,
		Transmission:       req.Transmission,
		EngineCapacity:     req.EngineCapacity,
		Mileage:            req.Mileage,
		Image:              strings.TrimSpace(req.Image),
		Description:        strings.TrimSpace(req.Description),
		IsActive:           true,
		LastServiceDate:    req.LastServiceDate,
		NextServiceDue:     req.NextServiceDue,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.validate(v); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, v); err != nil {
		return nil, err
	}

	s.log.WithFields(log.Fields{"vehicle_id": v.ID, "user_id": userID}).Info("vehicle registered")
	return v, nil
}

func (s *service) Get(ctx context.Context, id string, p auth.Principal) (*Vehicle, error) {
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v.UserID != p.UserID && !p.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	return v, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Vehicle, error) {
	return s.repo.GetByID(ctx, id)
}

// ListByUser returns the user's active vehicles, newest first.
func (s *service) ListByUser(ctx context.Context, userID string) ([]*Vehicle, error) {
	// Garages are small; one large page avoids pagination on this endpoint.
	vehicles, _, err := s.repo.List(ctx, Filter{UserID: userID, Page: 1, PageSize: 500})
	return vehicles, err
}

func (s *service) ListAll(ctx context.Context, filter Filter) ([]*Vehicle, int, error) {
	return s.repo.List(ctx, filter)
}

// mutable loads a vehicle the principal may change. Retired vehicles are not found.
func (s *service) mutable(ctx context.Context, id string, p auth.Principal, allowAdmin bool) (*Vehicle, error) {
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !v.IsActive {
		return nil, ErrNotFound
	}
	if v.UserID != p.UserID && !(allowAdmin && p.IsAdmin()) {
		return nil, ErrPermissionDenied
	}
	return v, nil
}

func (s *service) Update(ctx context.Context, id string, p auth.Principal, req UpdateRequest) (*Vehicle, error) {
	v, err := s.mutable(ctx, id, p, false)
	if err != nil {
		return nil, err
	}

	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	setString(&v.Name, req.Name)
	setString(&v.Brand, req.Brand)
	setString(&v.Model, req.Model)
	setString(&v.Color, req.Color)
	setString(&v.Image, req.Image)
	setString(&v.Description, req.Description)
	if req.RegistrationNumber != nil {
		v.RegistrationNumber = NormalizeRegistration(*req.RegistrationNumber)
	}
	if req.Year != nil {
		v.Year = *req.Year
	}
	if req.FuelType != nil {
		v.FuelType = *req.FuelType
	}
	if req.Transmission != nil {
		v.Transmission = *req.Transmission
	}
	if req.EngineCapacity != nil {
		v.EngineCapacity = *req.EngineCapacity
	}
	if req.Mileage != nil {
		v.Mileage = *req.Mileage
	}
	if req.LastServiceDate != nil {
		v.LastServiceDate = req.LastServiceDate
	}
	if req.NextServiceDue != nil {
		v.NextServiceDue = req.NextServiceDue
	}
	if err := s.validate(v); err != nil {
		return nil, err
	}
	v.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// Delete retires the vehicle. Its bookings keep referencing it.
func (s *service) Delete(ctx context.Context, id string, p auth.Principal) error {
	v, err := s.mutable(ctx, id, p, true)
	if err != nil {
		return err
	}
	v.IsActive = false
	v.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, v); err != nil {
		return err
	}

	s.log.WithFields(log.Fields{"vehicle_id": id, "by": p.UserID}).Info("vehicle retired")
	return nil
}

func (s *service) SetImage(ctx context.Context, id string, p auth.Principal, image string) (*Vehicle, error) {
	return s.Update(ctx, id, p, UpdateRequest{Image: &image})
}

func (s *service) RecordService(ctx context.Context, id string, servicedOn time.Time) error {
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if v.LastServiceDate != nil && v.LastServiceDate.After(servicedOn) {
		return nil
	}
	v.LastServiceDate = &servicedOn
	v.UpdatedAt = s.now()
	return s.repo.Update(ctx, v)
}
