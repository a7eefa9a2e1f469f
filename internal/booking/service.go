package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/nekogravitycat/vehicle-service-backend/internal/auth"
	"github.com/nekogravitycat/vehicle-service-backend/internal/catalog"
	"github.com/nekogravitycat/vehicle-service-backend/internal/events"
	"github.com/nekogravitycat/vehicle-service-backend/internal/pkg/validation"
	"github.com/nekogravitycat/vehicle-service-backend/internal/user"
	"github.com/nekogravitycat/vehicle-service-backend/internal/vehicle"
	log "github.com/sirupsen/logrus"
)

// CatalogReader resolves catalog services.
type CatalogReader interface {
	GetByID(ctx context.Context, id string) (*catalog.Offering, error)
}

// FleetReader resolves vehicles and records completed work on them.
type FleetReader interface {
	GetByID(ctx context.Context, id string) (*vehicle.Vehicle, error)
	RecordService(ctx context.Context, id string, servicedOn time.Time) error
}

// UserReader resolves booking owners.
type UserReader interface {
	GetByID(ctx context.Context, id string) (*user.User, error)
}

type CreateRequest struct {
	ServiceID           string
	VehicleID           string
	ScheduledDate       time.Time // calendar date; the clock part is ignored
	ScheduledTime       string    // "HH:MM"
	PaymentMethod       PaymentMethod
	SpecialInstructions string
}

// StatusUpdate is the admin edit. Empty notes leave the stored notes unchanged.
type StatusUpdate struct {
	Status          Status
	TechnicianNotes string
	CompletionNotes string
}

type ListQuery struct {
	Status   Status
	Page     int
	PageSize int
}

type ReviewPage struct {
	Items   []*Booking
	Total   int
	Summary RatingSummary
}

type Service interface {
	Create(ctx context.Context, userID string, req CreateRequest) (*Booking, error)
	// Get returns the booking to its owner or an admin.
	Get(ctx context.Context, id string, p auth.Principal) (*Booking, error)
	UpdateStatus(ctx context.Context, id string, req StatusUpdate) (*Booking, error)
	Cancel(ctx context.Context, id, userID, reason string) (*Booking, error)
	AddReview(ctx context.Context, id, userID string, rating int, review *string) (*Booking, error)
	ListForUser(ctx context.Context, userID string, q ListQuery) ([]*Booking, int, error)
	ListAll(ctx context.Context, q ListQuery) ([]*Booking, int, error)
	Delete(ctx context.Context, id string) error
	ServiceReviews(ctx context.Context, serviceID string, page, pageSize int) (*ReviewPage, error)
	Totals(ctx context.Context) (Totals, error)
}

type service struct {
	repo      Repository
	catalog   CatalogReader
	fleet     FleetReader
	users     UserReader
	publisher events.Publisher
	loc       *time.Location
	log       log.FieldLogger
	now       func() time.Time
}

// NewService creates the booking service. Schedules are interpreted in loc.
func NewService(
	repo Repository,
	catalog CatalogReader,
	fleet FleetReader,
	users UserReader,
	publisher events.Publisher,
	loc *time.Location,
	logger log.FieldLogger,
) Service {
	if loc == nil {
		loc = time.Local
	}
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &service{
		repo:      repo,
		catalog:   catalog,
		fleet:     fleet,
		users:     users,
		publisher: publisher,
		loc:       loc,
		log:       logger,
		now:       time.Now,
	}
}

// calendarDate drops the clock and zone of t, keeping its calendar date.
func calendarDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// StartsAt is the instant the booking's slot begins in loc.
func StartsAt(date time.Time, clock string, loc *time.Location) (time.Time, error) {
	if !validation.IsClock(clock) {
		return time.Time{}, ErrInvalidTime
	}
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, ErrInvalidTime
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, loc), nil
}

func (s *service) Create(ctx context.Context, userID string, req CreateRequest) (*Booking, error) {
	if !req.PaymentMethod.IsValid() {
		return nil, ErrInvalidPaymentMethod
	}
	instructions := strings.TrimSpace(req.SpecialInstructions)
	if utf8.RuneCountInString(instructions) > MaxInstructionsLength {
		return nil, ErrInstructionsTooLong
	}
	date := calendarDate(req.ScheduledDate)
	startsAt, err := StartsAt(date, req.ScheduledTime, s.loc)
	if err != nil {
		return nil, err
	}

	offering, err := s.catalog.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("failed to load service: %w", err)
	}
	if !offering.IsActive {
		return nil, ErrServiceNotFound
	}

	// Another user's vehicle is reported exactly like a missing one.
	v, err := s.fleet.GetByID(ctx, req.VehicleID)
	if err != nil {
		if errors.Is(err, vehicle.ErrNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, fmt.Errorf("failed to load vehicle: %w", err)
	}
	if v.UserID != userID || !v.IsActive {
		return nil, ErrVehicleNotFound
	}

	if !startsAt.After(s.now()) {
		return nil, ErrScheduleInPast
	}

	taken, err := s.repo.HasActiveSlot(ctx, v.ID, date, req.ScheduledTime, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrSlotConflict
	}

	now := s.now().UTC()
	b := &Booking{
		ID:                  uuid.NewString(),
		UserID:              userID,
		ServiceID:           offering.ID,
		VehicleID:           v.ID,
		ScheduledDate:       date,
		ScheduledTime:       req.ScheduledTime,
		Status:              StatusPending,
		TotalAmount:         offering.Price,
		PaymentStatus:       PaymentPending,
		PaymentMethod:       req.PaymentMethod,
		SpecialInstructions: instructions,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	// The storage layer rejects a concurrent booking of the same slot.
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	b.Service = serviceSummary(offering)
	b.Vehicle = vehicleSummary(v)

	s.log.WithFields(log.Fields{
		"booking_id": b.ID,
		"user_id":    userID,
		"vehicle_id": v.ID,
		"starts_at":  startsAt,
	}).Info("booking created")
	s.publish(ctx, events.SubjectBookingCreated, b)

	return b, nil
}

func (s *service) Get(ctx context.Context, id string, p auth.Principal) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.UserID != p.UserID && !p.IsAdmin() {
		return nil, ErrForbidden
	}

	if err := newResolver(s).enrich(ctx, b, true); err != nil {
		return nil, err
	}
	return b, nil
}

// UpdateStatus sets any valid status. Transitions are not restricted.
func (s *service) UpdateStatus(ctx context.Context, id string, req StatusUpdate) (*Booking, error) {
	if !req.Status.IsValid() {
		return nil, ErrInvalidStatus
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := b.Status

	if req.Status.IsActive() && !previous.IsActive() {
		taken, err := s.repo.HasActiveSlot(ctx, b.VehicleID, b.ScheduledDate, b.ScheduledTime, b.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrSlotConflict
		}
	}

	b.Status = req.Status
	if notes := strings.TrimSpace(req.TechnicianNotes); notes != "" {
		b.TechnicianNotes = notes
	}
	if notes := strings.TrimSpace(req.CompletionNotes); notes != "" {
		b.CompletionNotes = notes
	}
	switch {
	case req.Status != StatusCancelled:
		b.CancelledBy = ""
		b.CancellationReason = ""
	case previous != StatusCancelled:
		b.CancelledBy = CancelledByAdmin
	}
	b.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}

	if req.Status == StatusCompleted && previous != StatusCompleted {
		if err := s.fleet.RecordService(ctx, b.VehicleID, b.ScheduledDate); err != nil {
			s.log.WithError(err).WithField("vehicle_id", b.VehicleID).Warn("failed to record vehicle service date")
		}
	}

	s.log.WithFields(log.Fields{"booking_id": id, "from": previous, "to": b.Status}).Info("booking status changed")
	if previous != b.Status {
		s.publish(ctx, events.SubjectBookingStatusChanged, b)
	}

	if err := newResolver(s).enrich(ctx, b, true); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) Cancel(ctx context.Context, id, userID, reason string) (*Booking, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrReasonRequired
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, ErrForbidden
	}
	if b.Status.IsTerminal() {
		return nil, ErrNotCancellable
	}

	b.Status = StatusCancelled
	b.CancellationReason = reason
	b.CancelledBy = CancelledByUser
	b.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}

	s.log.WithField("booking_id", id).Info("booking cancelled by owner")
	s.publish(ctx, events.SubjectBookingCancelled, b)

	if err := newResolver(s).enrich(ctx, b, false); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) AddReview(ctx context.Context, id, userID string, rating int, review *string) (*Booking, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}
	var text string
	if review != nil {
		text = strings.TrimSpace(*review)
		if utf8.RuneCountInString(text) > MaxReviewLength {
			return nil, ErrReviewTooLong
		}
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, ErrForbidden
	}
	if b.Status != StatusCompleted {
		return nil, ErrNotCompleted
	}

	b.Rating = &rating
	if text != "" {
		b.Review = text
	}
	b.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}

	s.publish(ctx, events.SubjectBookingReviewed, b)

	if err := newResolver(s).enrich(ctx, b, false); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) list(ctx context.Context, filter Filter, withUser bool) ([]*Booking, int, error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, 0, ErrInvalidStatus
	}

	bookings, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	r := newResolver(s)
	for _, b := range bookings {
		if err := r.enrich(ctx, b, withUser); err != nil {
			return nil, 0, err
		}
	}
	return bookings, total, nil
}

// ListForUser returns the user's bookings, newest first.
func (s *service) ListForUser(ctx context.Context, userID string, q ListQuery) ([]*Booking, int, error) {
	return s.list(ctx, Filter{UserID: userID, Status: q.Status, Page: q.Page, PageSize: q.PageSize}, false)
}

// ListAll returns every user's bookings, newest first.
func (s *service) ListAll(ctx context.Context, q ListQuery) ([]*Booking, int, error) {
	return s.list(ctx, Filter{Status: q.Status, Page: q.Page, PageSize: q.PageSize}, true)
}

func (s *service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.WithField("booking_id", id).Info("booking deleted")
	return nil
}

// ServiceReviews lists rated, completed bookings of a service with reviewer names.
func (s *service) ServiceReviews(ctx context.Context, serviceID string, page, pageSize int) (*ReviewPage, error) {
	if _, err := s.catalog.GetByID(ctx, serviceID); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}

	items, total, err := s.list(ctx, Filter{
		ServiceID: serviceID,
		Status:    StatusCompleted,
		RatedOnly: true,
		Page:      page,
		PageSize:  pageSize,
	}, true)
	if err != nil {
		return nil, err
	}

	summary, err := s.repo.RatingSummary(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	return &ReviewPage{Items: items, Total: total, Summary: summary}, nil
}

func (s *service) Totals(ctx context.Context) (Totals, error) {
	return s.repo.Totals(ctx)
}

// Event is the payload of booking lifecycle events.
type Event struct {
	BookingID     string    `json:"bookingId"`
	UserID        string    `json:"userId"`
	ServiceID     string    `json:"serviceId"`
	VehicleID     string    `json:"vehicleId"`
	Status        Status    `json:"status"`
	ScheduledDate string    `json:"scheduledDate"`
	ScheduledTime string    `json:"scheduledTime"`
	TotalAmount   int64     `json:"totalAmount"`
	Rating        *int      `json:"rating,omitempty"`
	CancelledBy   string    `json:"cancelledBy,omitempty"`
	OccurredAt    time.Time `json:"occurredAt"`
}

func (s *service) publish(ctx context.Context, subject string, b *Booking) {
	evt := Event{
		BookingID:     b.ID,
		UserID:        b.UserID,
		ServiceID:     b.ServiceID,
		VehicleID:     b.VehicleID,
		Status:        b.Status,
		ScheduledDate: b.ScheduledDate.Format(validation.DateLayout),
		ScheduledTime: b.ScheduledTime,
		TotalAmount:   b.TotalAmount,
		Rating:        b.Rating,
		CancelledBy:   string(b.CancelledBy),
		OccurredAt:    b.UpdatedAt,
	}
	if err := s.publisher.Publish(ctx, subject, evt); err != nil {
		s.log.WithError(err).WithFields(log.Fields{"subject": subject, "booking_id": b.ID}).Warn("failed to publish booking event")
	}
}
