package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// CreateRequest carries the fields of a new offering.
type CreateRequest struct {
	Name         string
	Description  string
	Category     Category
	Price        int64
	Duration     int
	Image        string
	Features     []string
	Requirements []string
	Warranty     int
}

// UpdateRequest is a partial edit. Nil fields are left unchanged.
type UpdateRequest struct {
	Name         *string
	Description  *string
	Category     *Category
	Price        *int64
	Duration     *int
	Image        *string
	IsActive     *bool
	Features     *[]string
	Requirements *[]string
	Warranty     *int
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Offering, error)
	GetByID(ctx context.Context, id string) (*Offering, error)
	GetBySlug(ctx context.Context, slug string) (*Offering, error)
	List(ctx context.Context, filter Filter) ([]*Offering, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Offering, error)
	Delete(ctx context.Context, id string) error
	Categories(ctx context.Context) ([]Category, error)
	SetImage(ctx context.Context, id, image string) (*Offering, error)
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

func (s *service) Create(ctx context.Context, req CreateRequest) (*Offering, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrEmptyName
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, ErrEmptyDescription
	}
	if err := validateNumbers(req.Category, req.Price, req.Duration, req.Warranty); err != nil {
		return nil, err
	}

	now := s.now()
	o := &Offering{
		ID:           uuid.NewString(),
		Name:         name,
		Slug:         Slugify(name),
		Description:  description,
		Category:     req.Category,
		Price:        req.Price,
		Duration:     req.Duration,
		Image:        strings.TrimSpace(req.Image),
		IsActive:     true,
		Features:     nonNil(req.Features),
		Requirements: nonNil(req.Requirements),
		Warranty:     req.Warranty,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}

	s.log.WithFields(log.Fields{"service_id": o.ID, "slug": o.Slug}).Info("service created")
	return o, nil
}

func validateNumbers(category Category, price int64, duration, warranty int) error {
	if !category.IsValid() {
		return ErrInvalidCategory
	}
	if price < 0 {
		return ErrInvalidPrice
	}
	if duration <= 0 {
		return ErrInvalidDuration
	}
	if warranty < 0 {
		return ErrInvalidWarranty
	}
	return nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Offering, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*Offering, error) {
	return s.repo.GetBySlug(ctx, strings.ToLower(strings.TrimSpace(slug)))
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Offering, int, error) {
	if filter.Category != "" && !filter.Category.IsValid() {
		return nil, 0, ErrInvalidCategory
	}
	if _, _, ok := sortSpec(filter.Sort); !ok {
		return nil, 0, ErrInvalidSort
	}
	filter.Search = strings.TrimSpace(filter.Search)
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Offering, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrEmptyName
		}
		o.Name = name
		o.Slug = Slugify(name)
	}
	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if description == "" {
			return nil, ErrEmptyDescription
		}
		o.Description = description
	}
	if req.Category != nil {
		o.Category = *req.Category
	}
	if req.Price != nil {
		o.Price = *req.Price
	}
	if req.Duration != nil {
		o.Duration = *req.Duration
	}
	if req.Warranty != nil {
		o.Warranty = *req.Warranty
	}
	if err := validateNumbers(o.Category, o.Price, o.Duration, o.Warranty); err != nil {
		return nil, err
	}
	if req.Image != nil {
		o.Image = strings.TrimSpace(*req.Image)
	}
	if req.IsActive != nil {
		o.IsActive = *req.IsActive
	}
	if req.Features != nil {
		o.Features = nonNil(*req.Features)
	}
	if req.Requirements != nil {
		o.Requirements = nonNil(*req.Requirements)
	}
	o.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// Delete deactivates the offering. Existing bookings keep referencing it.
func (s *service) Delete(ctx context.Context, id string) error {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	o.IsActive = false
	o.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, o); err != nil {
		return err
	}

	s.log.WithField("service_id", id).Info("service deactivated")
	return nil
}

func (s *service) Categories(ctx context.Context) ([]Category, error) {
	return s.repo.Categories(ctx)
}

func (s *service) SetImage(ctx context.Context, id, image string) (*Offering, error) {
	return s.Update(ctx, id, UpdateRequest{Image: &image})
}
