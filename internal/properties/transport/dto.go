// Package transport defines request/response DTOs for the property catalog.
package transport

import (
	"estate_assistant_backend/internal/properties/repository"
)

// CreatePropertyRequest is the admin payload for adding a listing.
type CreatePropertyRequest struct {
	ID              string   `json:"id"`
	Name            string   `json:"name" validate:"required"`
	Location        string   `json:"location" validate:"required"`
	City            string   `json:"city"`
	Type            string   `json:"type" validate:"required"`
	Tenure          string   `json:"tenure" validate:"required,oneof=purchase rent"`
	Price           *float64 `json:"price"`
	Rent            *float64 `json:"rent"`
	RentalFrequency *string  `json:"rentalFrequency"`
	Bedrooms        *int     `json:"bedrooms"`
	Bathrooms       *int     `json:"bathrooms"`
	Amenities       []string `json:"amenities"`
	Availability    string   `json:"availability"`
	VirtualTour     *string  `json:"virtualTour"`
	Images          []string `json:"images"`
	Description     string   `json:"description"`
	Status          string   `json:"status" validate:"omitempty,oneof=active archived"`
}

// UpdatePropertyRequest carries a partial update; nil fields are untouched.
type UpdatePropertyRequest struct {
	Name            *string  `json:"name"`
	Location        *string  `json:"location"`
	City            *string  `json:"city"`
	Type            *string  `json:"type"`
	Tenure          *string  `json:"tenure" validate:"omitempty,oneof=purchase rent"`
	Price           *float64 `json:"price"`
	Rent            *float64 `json:"rent"`
	RentalFrequency *string  `json:"rentalFrequency"`
	Bedrooms        *int     `json:"bedrooms"`
	Bathrooms       *int     `json:"bathrooms"`
	Amenities       []string `json:"amenities"`
	Availability    *string  `json:"availability"`
	VirtualTour     *string  `json:"virtualTour"`
	Images          []string `json:"images"`
	Description     *string  `json:"description"`
	Status          *string  `json:"status" validate:"omitempty,oneof=active archived"`
}

// ListPropertiesRequest captures listing filters from query params.
type ListPropertiesRequest struct {
	Status string `form:"status" validate:"omitempty,oneof=active archived"`
	City   string `form:"city"`
	Type   string `form:"type"`
}

// ListPropertiesResponse wraps the filtered collection.
type ListPropertiesResponse struct {
	Properties []repository.Listing `json:"properties"`
	Total      int                  `json:"total"`
}
