package http

import (
	"time"

	"github.com/nekogravitycat/vehicle-service-backend/internal/catalog"
	"github.com/nekogravitycat/vehicle-service-backend/internal/pkg/request"
)

// ListServicesRequest defines the query of GET /services.
type ListServicesRequest struct {
	request.ListParams
	Category string `form:"category" binding:"omitempty,oneof=maintenance repair cleaning inspection emergency"`
	Search   string `form:"search" binding:"omitempty,max=100"`
	Sort     string `form:"sort" binding:"omitempty,oneof=name -name price -price duration -duration newest"`
}

func (r *ListServicesRequest) ToFilter() catalog.Filter {
	r.Normalize(10)
	return catalog.Filter{
		Category: catalog.Category(r.Category),
		Search:   r.Search,
		Sort:     r.Sort,
		Page:     r.Page,
		PageSize: r.PageSize,
	}
}

type BySlugRequest struct {
	Slug string `uri:"slug" binding:"required,max=200"`
}

type ServiceResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	Price        int64     `json:"price"`
	Duration     int       `json:"duration"`
	Image        string    `json:"image"`
	IsActive     bool      `json:"isActive"`
	Features     []string  `json:"features"`
	Requirements []string  `json:"requirements"`
	Warranty     int       `json:"warranty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func NewServiceResponse(o *catalog.Offering) ServiceResponse {
	features, requirements := o.Features, o.Requirements
	if features == nil {
		features = []string{}
	}
	if requirements == nil {
		requirements = []string{}
	}
	return ServiceResponse{
		ID:           o.ID,
		Name:         o.Name,
		Slug:         o.Slug,
		Description:  o.Description,
		Category:     string(o.Category),
		Price:        o.Price,
		Duration:     o.Duration,
		Image:        o.Image,
		IsActive:     o.IsActive,
		Features:     features,
		Requirements: requirements,
		Warranty:     o.Warranty,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

// CreateServiceRequest is the body of POST /services.
type CreateServiceRequest struct {
	Name         string   `json:"name" binding:"required,max=100"`
	Description  string   `json:"description" binding:"required,max=1000"`
	Category     string   `json:"category" binding:"required,oneof=maintenance repair cleaning inspection emergency"`
	Price        *int64   `json:"price" binding:"required,min=0"`
	Duration     int      `json:"duration" binding:"required,min=1"`
	Image        string   `json:"image" binding:"omitempty,max=500"`
	Features     []string `json:"features" binding:"omitempty,max=50,dive,max=200"`
	Requirements []string `json:"requirements" binding:"omitempty,max=50,dive,max=200"`
	Warranty     int      `json:"warranty" binding:"omitempty,min=0"`
}

func (r *CreateServiceRequest) ToDomain() catalog.CreateRequest {
	return catalog.CreateRequest{
		Name:         r.Name,
		Description:  r.Description,
		Category:     catalog.Category(r.Category),
		Price:        *r.Price,
		Duration:     r.Duration,
		Image:        r.Image,
		Features:     r.Features,
		Requirements: r.Requirements,
		Warranty:     r.Warranty,
	}
}

// UpdateServiceRequest is the body of PUT /services/:id. Omitted fields are unchanged.
type UpdateServiceRequest struct {
	Name         *string   `json:"name" binding:"omitempty,max=100"`
	Description  *string   `json:"description" binding:"omitempty,max=1000"`
	Category     *string   `json:"category" binding:"omitempty,oneof=maintenance repair cleaning inspection emergency"`
	Price        *int64    `json:"price" binding:"omitempty,min=0"`
	Duration     *int      `json:"duration" binding:"omitempty,min=1"`
	Image        *string   `json:"image" binding:"omitempty,max=500"`
	IsActive     *bool     `json:"isActive"`
	Features     *[]string `json:"features" binding:"omitempty,max=50,dive,max=200"`
	Requirements *[]string `json:"requirements" binding:"omitempty,max=50,dive,max=200"`
	Warranty     *int      `json:"warranty" binding:"omitempty,min=0"`
}

func (r *UpdateServiceRequest) ToDomain() catalog.UpdateRequest {
	req := catalog.UpdateRequest{
		Name:         r.Name,
		Description:  r.Description,
		Price:        r.Price,
		Duration:     r.Duration,
		Image:        r.Image,
		IsActive:     r.IsActive,
		Features:     r.Features,
		Requirements: r.Requirements,
		Warranty:     r.Warranty,
	}
	if r.Category != nil {
		category := catalog.Category(*r.Category)
		req.Category = &category
	}
	return req
}
