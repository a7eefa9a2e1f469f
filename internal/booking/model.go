package booking

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/vehicle-service-backend/internal/pkg/apperror"
)

var (
	ErrNotFound             = apperror.New(http.StatusNotFound, "booking not found")
	ErrServiceNotFound      = apperror.New(http.StatusNotFound, "service not found or inactive")
	ErrVehicleNotFound      = apperror.New(http.StatusNotFound, "vehicle not found")
	ErrForbidden            = apperror.New(http.StatusForbidden, "not authorized to access this booking")
	ErrSlotConflict         = apperror.New(http.StatusConflict, "vehicle already has a booking at this date and time")
	ErrScheduleInPast       = apperror.New(http.StatusBadRequest, "scheduled date and time must be in the future")
	ErrInvalidTime          = apperror.New(http.StatusBadRequest, "scheduled time must be HH:MM")
	ErrInvalidStatus        = apperror.New(http.StatusBadRequest, "invalid booking status")
	ErrInvalidPaymentMethod = apperror.New(http.StatusBadRequest, "invalid payment method")
	ErrInstructionsTooLong  = apperror.New(http.StatusBadRequest, "special instructions cannot exceed 500 characters")
	ErrNotCancellable       = apperror.New(http.StatusBadRequest, "cannot cancel a completed or cancelled booking")
	ErrReasonRequired       = apperror.New(http.StatusBadRequest, "cancellation reason is required")
	ErrNotCompleted         = apperror.New(http.StatusBadRequest, "only completed bookings can be reviewed")
	ErrInvalidRating        = apperror.New(http.StatusBadRequest, "rating must be between 1 and 5")
	ErrReviewTooLong        = apperror.New(http.StatusBadRequest, "review cannot exceed 1000 characters")
)

const (
	MaxInstructionsLength = 500
	MaxReviewLength       = 1000
)

// Booking is a scheduled appointment of one vehicle for one catalog service.
//
// ScheduledDate is midnight UTC of the calendar date; ScheduledTime is the
// "HH:MM" wall clock in the workshop's time zone.
type Booking struct {
	ID                  string        `bson:"_id"`
	UserID              string        `bson:"user_id"`
	ServiceID           string        `bson:"service_id"`
	VehicleID           string        `bson:"vehicle_id"`
	ScheduledDate       time.Time     `bson:"scheduled_date"`
	ScheduledTime       string        `bson:"scheduled_time"`
	Status              Status        `bson:"status"`
	TotalAmount         int64         `bson:"total_amount"`
	PaymentStatus       PaymentStatus `bson:"payment_status"`
	PaymentMethod       PaymentMethod `bson:"payment_method"`
	SpecialInstructions string        `bson:"special_instructions"`
	TechnicianNotes     string        `bson:"technician_notes"`
	CompletionNotes     string        `bson:"completion_notes"`
	Rating              *int          `bson:"rating,omitempty"`
	Review              string        `bson:"review"`
	CancellationReason  string        `bson:"cancellation_reason"`
	CancelledBy         CancelledBy   `bson:"cancelled_by"`
	CreatedAt           time.Time     `bson:"created_at"`
	UpdatedAt           time.Time     `bson:"updated_at"`

	// Resolved on read, never stored.
	Service *ServiceSummary `bson:"-"`
	Vehicle *VehicleSummary `bson:"-"`
	User    *UserSummary    `bson:"-"`
}

type ServiceSummary struct {
	ID       string
	Name     string
	Price    int64
	Duration int
}

type VehicleSummary struct {
	ID                 string
	Name               string
	Brand              string
	Model              string
	RegistrationNumber string
}

type UserSummary struct {
	ID    string
	Name  string
	Email string
	Phone string
}

// Filter defines parameters for listing bookings. Results are newest first.
type Filter struct {
	UserID    string
	ServiceID string
	Status    Status
	RatedOnly bool
	Page      int
	PageSize  int
}

// Totals aggregates bookings for the admin dashboard. Revenue sums completed bookings.
type Totals struct {
	Total     int
	Pending   int
	Completed int
	Revenue   int64
}

// RatingSummary describes the reviews of one service.
type RatingSummary struct {
	Average float64
	Count   int
}
