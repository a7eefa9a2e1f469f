package booking

import (
	"context"
	"errors"

	"github.com/nekogravitycat/vehicle-service-backend/internal/catalog"
	"github.com/nekogravitycat/vehicle-service-backend/internal/user"
	"github.com/nekogravitycat/vehicle-service-backend/internal/vehicle"
)

func serviceSummary(o *catalog.Offering) *ServiceSummary {
	return &ServiceSummary{ID: o.ID, Name: o.Name, Price: o.Price, Duration: o.Duration}
}

func vehicleSummary(v *vehicle.Vehicle) *VehicleSummary {
	return &VehicleSummary{ID: v.ID, Name: v.Name, Brand: v.Brand, Model: v.Model, RegistrationNumber: v.RegistrationNumber}
}

func userSummary(u *user.User) *UserSummary {
	return &UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone}
}

// resolver fills booking summaries, loading each referenced record once.
// A record that no longer exists leaves its summary nil.
type resolver struct {
	s        *service
	services map[string]*ServiceSummary
	vehicles map[string]*VehicleSummary
	users    map[string]*UserSummary
}

func newResolver(s *service) *resolver {
	return &resolver{
		s:        s,
		services: make(map[string]*ServiceSummary),
		vehicles: make(map[string]*VehicleSummary),
		users:    make(map[string]*UserSummary),
	}
}

func (r *resolver) enrich(ctx context.Context, b *Booking, withUser bool) error {
	var err error
	if b.Service, err = r.service(ctx, b.ServiceID); err != nil {
		return err
	}
	if b.Vehicle, err = r.vehicle(ctx, b.VehicleID); err != nil {
		return err
	}
	if withUser {
		if b.User, err = r.user(ctx, b.UserID); err != nil {
			return err
		}
	}
	return nil
}

func (r *resolver) service(ctx context.Context, id string) (*ServiceSummary, error) {
	if sum, ok := r.services[id]; ok {
		return sum, nil
	}
	o, err := r.s.catalog.GetByID(ctx, id)
	if err != nil && !errors.Is(err, catalog.ErrNotFound) {
		return nil, err
	}
	var sum *ServiceSummary
	if o != nil {
		sum = serviceSummary(o)
	}
	r.services[id] = sum
	return sum, nil
}

func (r *resolver) vehicle(ctx context.Context, id string) (*VehicleSummary, error) {
	if sum, ok := r.vehicles[id]; ok {
		return sum, nil
	}
	v, err := r.s.fleet.GetByID(ctx, id)
	if err != nil && !errors.Is(err, vehicle.ErrNotFound) {
		return nil, err
	}
	var sum *VehicleSummary
	if v != nil {
		sum = vehicleSummary(v)
	}
	r.vehicles[id] = sum
	return sum, nil
}

func (r *resolver) user(ctx context.Context, id string) (*UserSummary, error) {
	if sum, ok := r.users[id]; ok {
		return sum, nil
	}
	u, err := r.s.users.GetByID(ctx, id)
	if err != nil && !errors.Is(err, user.ErrNotFound) {
		return nil, err
	}
	var sum *UserSummary
	if u != nil {
		sum = userSummary(u)
	}
	r.users[id] = sum
	return sum, nil
}
