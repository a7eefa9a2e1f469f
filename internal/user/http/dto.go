package http

import (
	"strings"
	"time"

	"github.com/nekogravitycat/vehicle-service-backend/internal/auth"
	"github.com/nekogravitycat/vehicle-service-backend/internal/pkg/request"
	"github.com/nekogravitycat/vehicle-service-backend/internal/user"
)

// ListUsersRequest defines query parameters for listing users.
type ListUsersRequest struct {
	request.ListParams
	Email     string `form:"email"`
	Name      string `form:"name"`
	Role      string `form:"role" binding:"omitempty,oneof=user admin"`
	IsActive  *bool  `form:"isActive"`
	SortBy    string `form:"sortBy" binding:"omitempty,oneof=name email created_at"`
	SortOrder string `form:"sortOrder" binding:"omitempty,oneof=asc desc ASC DESC"`
}

func (r *ListUsersRequest) ToFilter() user.Filter {
	r.Normalize(20)
	return user.Filter{
		Email:     r.Email,
		Name:      r.Name,
		Role:      auth.Role(r.Role),
		IsActive:  r.IsActive,
		Page:      r.Page,
		PageSize:  r.PageSize,
		SortBy:    r.SortBy,
		SortOrder: strings.ToUpper(r.SortOrder),
	}
}

// UserResponse is the shape of user data returned in API responses.
type UserResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone"`
	Role        string     `json:"role"`
	IsActive    bool       `json:"isActive"`
	CreatedAt   time.Time  `json:"createdAt"`
	LastLoginAt *time.Time `json:"lastLoginAt"`
}

// NewUserResponse converts domain user.User to UserResponse used by the API.
func NewUserResponse(u *user.User) UserResponse {
	var lastLoginAt *time.Time
	if u.LastLoginAt != nil {
		ll := *u.LastLoginAt
		lastLoginAt = &ll
	}

	return UserResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Phone:       u.Phone,
		Role:        string(u.Role),
		IsActive:    u.IsActive,
		CreatedAt:   u.CreatedAt,
		LastLoginAt: lastLoginAt,
	}
}

// RegisterRequest defines the payload for user registration.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Phone    string `json:"phone" binding:"omitempty,max=20"`
}

// LoginRequest defines the payload for user login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest is the body of PUT /auth/profile.
type UpdateProfileRequest struct {
	Name  *string `json:"name" binding:"omitempty,max=100"`
	Phone *string `json:"phone" binding:"omitempty,max=20"`
}

// UpdateUserRequest defines fields an admin may change via PUT /users/:id.
// Pointers distinguish "field not sent" from "field sent as false/empty".
type UpdateUserRequest struct {
	Name     *string `json:"name" binding:"omitempty,max=100"`
	Phone    *string `json:"phone" binding:"omitempty,max=20"`
	Role     *string `json:"role" binding:"omitempty,oneof=user admin"`
	IsActive *bool   `json:"isActive"`
}

func (r *UpdateUserRequest) ToDomain() user.UpdateUserRequest {
	req := user.UpdateUserRequest{Name: r.Name, Phone: r.Phone, IsActive: r.IsActive}
	if r.Role != nil {
		role := auth.Role(*r.Role)
		req.Role = &role
	}
	return req
}

// LoginResponse returns the token and user info.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresIn int64        `json:"expiresIn"`
	User      UserResponse `json:"user"`
}

// MeResponse returns a single user.
type MeResponse struct {
	User UserResponse `json:"user"`
}
