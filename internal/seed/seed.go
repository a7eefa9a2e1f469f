// Package seed loads the starter catalog and the first admin account.
// Running it again updates the catalog in place and leaves an existing admin untouched.
package seed

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/nekogravitycat/vehicle-service-backend/internal/auth"
	"github.com/nekogravitycat/vehicle-service-backend/internal/catalog"
	"github.com/nekogravitycat/vehicle-service-backend/internal/user"
)

type Admin struct {
	Name     string
	Email    string
	Password string
	Phone    string
}

type Seeder struct {
	catalog catalog.Service
	users   user.Service
	log     log.FieldLogger
}

func New(catalogService catalog.Service, userService user.Service, logger log.FieldLogger) *Seeder {
	return &Seeder{catalog: catalogService, users: userService, log: logger}
}

// Catalog upserts services by slug.
func (s *Seeder) Catalog(ctx context.Context, services []catalog.CreateRequest) (created, updated int, err error) {
	for _, req := range services {
		existing, err := s.catalog.GetBySlug(ctx, catalog.Slugify(req.Name))
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			if _, err := s.catalog.Create(ctx, req); err != nil {
				return created, updated, fmt.Errorf("create %q: %w", req.Name, err)
			}
			created++
		case err != nil:
			return created, updated, fmt.Errorf("look up %q: %w", req.Name, err)
		default:
			active := true
			features, requirements := req.Features, req.Requirements
			if _, err := s.catalog.Update(ctx, existing.ID, catalog.UpdateRequest{
				Description:  &req.Description,
				Category:     &req.Category,
				Price:        &req.Price,
				Duration:     &req.Duration,
				IsActive:     &active,
				Features:     &features,
				Requirements: &requirements,
				Warranty:     &req.Warranty,
			}); err != nil {
				return created, updated, fmt.Errorf("update %q: %w", req.Name, err)
			}
			updated++
		}
	}

	s.log.WithFields(log.Fields{"created": created, "updated": updated}).Info("catalog seeded")
	return created, updated, nil
}

// Admin registers the admin account unless the email is already taken.
func (s *Seeder) Admin(ctx context.Context, a Admin) (bool, error) {
	if a.Password == "" {
		return false, errors.New("admin password is required")
	}

	_, err := s.users.Register(ctx, user.RegisterRequest{
		Name:     a.Name,
		Email:    a.Email,
		Password: a.Password,
		Phone:    a.Phone,
		Role:     auth.RoleAdmin,
	})
	if errors.Is(err, user.ErrEmailAlreadyUsed) {
		s.log.WithField("email", a.Email).Info("admin already exists")
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("register admin: %w", err)
	}

	s.log.WithField("email", a.Email).Info("admin created")
	return true, nil
}
