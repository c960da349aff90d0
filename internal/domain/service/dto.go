package service

import "time"

// CreateServiceRequest for creating a new service
type CreateServiceRequest struct {
	Name               string `json:"name" validate:"required,min=2,max=255"`
	BasePrice          int64  `json:"basePrice" validate:"gte=0"`
	DiscountPercentage int    `json:"discountPercentage" validate:"gte=0,lte=100"`
	HasTimeSlots       bool   `json:"hasTimeSlots"`
	RequiresFaculty    bool   `json:"requiresFaculty"`
}

// UpdateServiceRequest is a patch: only present fields are applied.
type UpdateServiceRequest struct {
	Name               *string `json:"name" validate:"omitempty,min=2,max=255"`
	BasePrice          *int64  `json:"basePrice" validate:"omitempty,gte=0"`
	DiscountPercentage *int    `json:"discountPercentage" validate:"omitempty,gte=0,lte=100"`
	HasTimeSlots       *bool   `json:"hasTimeSlots"`
	RequiresFaculty    *bool   `json:"requiresFaculty"`
}

// CreatePackageRequest for adding a package to a service
type CreatePackageRequest struct {
	PackageName string `json:"packageName" validate:"required,min=2,max=255"`
	Price       int64  `json:"price" validate:"required,gt=0"`
	Description string `json:"description" validate:"max=2000"`
}

// UpdatePackageRequest is a patch: only present fields are applied.
type UpdatePackageRequest struct {
	PackageName *string `json:"packageName" validate:"omitempty,min=2,max=255"`
	Price       *int64  `json:"price" validate:"omitempty,gt=0"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

// PackageResponse for API responses
type PackageResponse struct {
	ID          string `json:"id"`
	ServiceID   string `json:"serviceId"`
	PackageName string `json:"packageName"`
	Price       int64  `json:"price"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"createdAt"`
}

// ServiceResponse for API responses
type ServiceResponse struct {
	ID                 string            `json:"id"`
	Name               string            `json:"name"`
	BasePrice          int64             `json:"basePrice"`
	DiscountPercentage int               `json:"discountPercentage"`
	HasTimeSlots       bool              `json:"hasTimeSlots"`
	RequiresFaculty    bool              `json:"requiresFaculty"`
	Packages           []PackageResponse `json:"packages,omitempty"`
	CreatedAt          string            `json:"createdAt"`
	UpdatedAt          string            `json:"updatedAt"`
}

// ToResponse converts entity to response
func (p *Package) ToResponse() PackageResponse {
	resp := PackageResponse{
		ID:          p.ID.String(),
		ServiceID:   p.ServiceID.String(),
		PackageName: p.PackageName,
		Price:       p.Price,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
	}
	if p.Description.Valid {
		resp.Description = p.Description.String
	}
	return resp
}

// ToResponse converts entity to response
func (s *Service) ToResponse(packages []Package) *ServiceResponse {
	resp := &ServiceResponse{
		ID:                 s.ID.String(),
		Name:               s.Name,
		BasePrice:          s.BasePrice,
		DiscountPercentage: s.DiscountPercentage,
		HasTimeSlots:       s.HasTimeSlots,
		RequiresFaculty:    s.RequiresFaculty,
		CreatedAt:          s.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          s.UpdatedAt.Format(time.RFC3339),
	}
	for i := range packages {
		resp.Packages = append(resp.Packages, packages[i].ToResponse())
	}
	return resp
}
