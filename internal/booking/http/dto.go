package http

import (
	"time"

	"github.com/nekogravitycat/vehicle-service-backend/internal/booking"
	"github.com/nekogravitycat/vehicle-service-backend/internal/pkg/request"
	"github.com/nekogravitycat/vehicle-service-backend/internal/pkg/validation"
)

const defaultPageSize = 10

// ListBookingsRequest defines query parameters for listing bookings.
type ListBookingsRequest struct {
	request.ListParams
	Status string `form:"status" binding:"omitempty,oneof=pending confirmed in-progress completed cancelled"`
}

func (r *ListBookingsRequest) ToQuery() booking.ListQuery {
	r.Normalize(defaultPageSize)
	return booking.ListQuery{Status: booking.Status(r.Status), Page: r.Page, PageSize: r.PageSize}
}

type CreateBookingRequest struct {
	ServiceID           string `json:"serviceId" binding:"required,uuid"`
	VehicleID           string `json:"vehicleId" binding:"required,uuid"`
	ScheduledDate       string `json:"scheduledDate" binding:"required,isodate"`
	ScheduledTime       string `json:"scheduledTime" binding:"required,clock"`
	PaymentMethod       string `json:"paymentMethod" binding:"required,oneof=cash card upi netbanking"`
	SpecialInstructions string `json:"specialInstructions" binding:"max=500"`
}

func (r CreateBookingRequest) ToDomain() (booking.CreateRequest, error) {
	date, err := validation.ParseISODate(r.ScheduledDate)
	if err != nil {
		return booking.CreateRequest{}, err
	}
	return booking.CreateRequest{
		ServiceID:           r.ServiceID,
		VehicleID:           r.VehicleID,
		ScheduledDate:       date,
		ScheduledTime:       r.ScheduledTime,
		PaymentMethod:       booking.PaymentMethod(r.PaymentMethod),
		SpecialInstructions: r.SpecialInstructions,
	}, nil
}

type UpdateStatusRequest struct {
	Status          string `json:"status" binding:"required,oneof=pending confirmed in-progress completed cancelled"`
	TechnicianNotes string `json:"technicianNotes" binding:"max=2000"`
	CompletionNotes string `json:"completionNotes" binding:"max=2000"`
}

func (r UpdateStatusRequest) ToDomain() booking.StatusUpdate {
	return booking.StatusUpdate{
		Status:          booking.Status(r.Status),
		TechnicianNotes: r.TechnicianNotes,
		CompletionNotes: r.CompletionNotes,
	}
}

type CancelBookingRequest struct {
	CancellationReason string `json:"cancellationReason" binding:"required,max=500"`
}

type ReviewBookingRequest struct {
	Rating int     `json:"rating" binding:"required,min=1,max=5"`
	Review *string `json:"review" binding:"omitempty,max=1000"`
}

type ServiceTag struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Duration int    `json:"duration"`
}

type VehicleTag struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Brand              string `json:"brand"`
	Model              string `json:"model"`
	RegistrationNumber string `json:"registrationNumber"`
}

type UserTag struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type BookingResponse struct {
	ID                  string      `json:"id"`
	UserID              string      `json:"userId"`
	ServiceID           string      `json:"serviceId"`
	VehicleID           string      `json:"vehicleId"`
	Service             *ServiceTag `json:"service"`
	Vehicle             *VehicleTag `json:"vehicle"`
	User                *UserTag    `json:"user,omitempty"`
	ScheduledDate       string      `json:"scheduledDate"`
	ScheduledTime       string      `json:"scheduledTime"`
	Status              string      `json:"status"`
	TotalAmount         int64       `json:"totalAmount"`
	PaymentStatus       string      `json:"paymentStatus"`
	PaymentMethod       string      `json:"paymentMethod"`
	SpecialInstructions string      `json:"specialInstructions"`
	TechnicianNotes     string      `json:"technicianNotes"`
	CompletionNotes     string      `json:"completionNotes"`
	Rating              *int        `json:"rating"`
	Review              string      `json:"review"`
	CancellationReason  string      `json:"cancellationReason"`
	CancelledBy         string      `json:"cancelledBy"`
	CreatedAt           time.Time   `json:"createdAt"`
	UpdatedAt           time.Time   `json:"updatedAt"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	resp := BookingResponse{
		ID:                  b.ID,
		UserID:              b.UserID,
		ServiceID:           b.ServiceID,
		VehicleID:           b.VehicleID,
		ScheduledDate:       b.ScheduledDate.Format(validation.DateLayout),
		ScheduledTime:       b.ScheduledTime,
		Status:              string(b.Status),
		TotalAmount:         b.TotalAmount,
		PaymentStatus:       string(b.PaymentStatus),
		PaymentMethod:       string(b.PaymentMethod),
		SpecialInstructions: b.SpecialInstructions,
		TechnicianNotes:     b.TechnicianNotes,
		CompletionNotes:     b.CompletionNotes,
		Rating:              b.Rating,
		Review:              b.Review,
		CancellationReason:  b.CancellationReason,
		CancelledBy:         string(b.CancelledBy),
		CreatedAt:           b.CreatedAt,
		UpdatedAt:           b.UpdatedAt,
	}
	if s := b.Service; s != nil {
		resp.Service = &ServiceTag{ID: s.ID, Name: s.Name, Price: s.Price, Duration: s.Duration}
	}
	if v := b.Vehicle; v != nil {
		resp.Vehicle = &VehicleTag{ID: v.ID, Name: v.Name, Brand: v.Brand, Model: v.Model, RegistrationNumber: v.RegistrationNumber}
	}
	if u := b.User; u != nil {
		resp.User = &UserTag{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone}
	}
	return resp
}

func newBookingResponses(bookings []*booking.Booking) []BookingResponse {
	items := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = NewBookingResponse(b)
	}
	return items
}

// ReviewResponse is the public view of a review; only the reviewer's name is shown.
type ReviewResponse struct {
	BookingID    string    `json:"bookingId"`
	Rating       int       `json:"rating"`
	Review       string    `json:"review"`
	ReviewerName string    `json:"reviewerName"`
	ServicedOn   string    `json:"servicedOn"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type ServiceReviewsResponse struct {
	Items         []ReviewResponse `json:"items"`
	Page          int              `json:"page"`
	PageSize      int              `json:"pageSize"`
	Total         int              `json:"total"`
	TotalPages    int              `json:"totalPages"`
	AverageRating float64          `json:"averageRating"`
	ReviewCount   int              `json:"reviewCount"`
}

func newReviewResponses(bookings []*booking.Booking) []ReviewResponse {
	items := make([]ReviewResponse, 0, len(bookings))
	for _, b := range bookings {
		r := ReviewResponse{
			BookingID:  b.ID,
			Review:     b.Review,
			ServicedOn: b.ScheduledDate.Format(validation.DateLayout),
			UpdatedAt:  b.UpdatedAt,
		}
		if b.Rating != nil {
			r.Rating = *b.Rating
		}
		if b.User != nil {
			r.ReviewerName = b.User.Name
		}
		items = append(items, r)
	}
	return items
}
