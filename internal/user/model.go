package user

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/vehicle-service-backend/internal/auth"
	"github.com/nekogravitycat/vehicle-service-backend/internal/pkg/apperror"
)

var (
	ErrNotFound           = apperror.New(http.StatusNotFound, "user not found")
	ErrEmailAlreadyUsed   = apperror.New(http.StatusConflict, "email already used")
	ErrInvalidCredentials = apperror.New(http.StatusUnauthorized, "invalid email or password")
	ErrInactiveUser       = apperror.New(http.StatusUnauthorized, "user is inactive")
	ErrEmailRequired      = apperror.New(http.StatusBadRequest, "email is required")
	ErrNameRequired       = apperror.New(http.StatusBadRequest, "name is required")
	ErrPasswordTooShort   = apperror.New(http.StatusBadRequest, "password must be at least 8 characters")
	ErrInvalidRole        = apperror.New(http.StatusBadRequest, "invalid role")
)

// User represents an account. Passwords are stored only as bcrypt hashes.
type User struct {
	ID           string     `bson:"_id"`
	Name         string     `bson:"name"`
	Email        string     `bson:"email"`
	Phone        string     `bson:"phone"`
	PasswordHash string     `bson:"password_hash"`
	Role         auth.Role  `bson:"role"`
	IsActive     bool       `bson:"is_active"`
	CreatedAt    time.Time  `bson:"created_at"`
	UpdatedAt    time.Time  `bson:"updated_at"`
	LastLoginAt  *time.Time `bson:"last_login_at,omitempty"`
}

// Filter defines filter options for listing and counting users.
type Filter struct {
	Email        string
	Name         string
	Role         auth.Role
	IsActive     *bool      // nil means any
	CreatedSince *time.Time // inclusive

	Page      int
	PageSize  int
	SortBy    string // name, email or created_at
	SortOrder string // ASC or DESC
}
