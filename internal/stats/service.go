// Package stats computes the admin dashboard overview.
package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/jinzhu/now"
	"github.com/nekogravitycat/vehicle-service-backend/internal/booking"
	"github.com/nekogravitycat/vehicle-service-backend/internal/catalog"
	"github.com/nekogravitycat/vehicle-service-backend/internal/user"
)

type Overview struct {
	TotalUsers        int
	RecentUsers       int
	TotalBookings     int
	PendingBookings   int
	CompletedBookings int
	Revenue           int64
	TotalServices     int
}

type UserCounter interface {
	Count(ctx context.Context, filter user.Filter) (int, error)
}

type BookingTotals interface {
	Totals(ctx context.Context) (booking.Totals, error)
}

type CatalogLister interface {
	List(ctx context.Context, filter catalog.Filter) ([]*catalog.Offering, int, error)
}

type Service interface {
	Overview(ctx context.Context) (*Overview, error)
}

type service struct {
	users    UserCounter
	bookings BookingTotals
	catalog  CatalogLister
	loc      *time.Location
	now      func() time.Time
}

// NewService creates the stats service. Months are counted in loc.
func NewService(users UserCounter, bookings BookingTotals, catalog CatalogLister, loc *time.Location) Service {
	if loc == nil {
		loc = time.Local
	}
	return &service{users: users, bookings: bookings, catalog: catalog, loc: loc, now: time.Now}
}

func (s *service) Overview(ctx context.Context) (*Overview, error) {
	totalUsers, err := s.users.Count(ctx, user.Filter{})
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	monthStart := now.With(s.now().In(s.loc)).BeginningOfMonth()
	recentUsers, err := s.users.Count(ctx, user.Filter{CreatedSince: &monthStart})
	if err != nil {
		return nil, fmt.Errorf("count recent users: %w", err)
	}

	totals, err := s.bookings.Totals(ctx)
	if err != nil {
		return nil, fmt.Errorf("booking totals: %w", err)
	}

	_, services, err := s.catalog.List(ctx, catalog.Filter{Page: 1, PageSize: 1})
	if err != nil {
		return nil, fmt.Errorf("count services: %w", err)
	}

	return &Overview{
		TotalUsers:        totalUsers,
		RecentUsers:       recentUsers,
		TotalBookings:     totals.Total,
		PendingBookings:   totals.Pending,
		CompletedBookings: totals.Completed,
		Revenue:           totals.Revenue,
		TotalServices:     services,
	}, nil
}
