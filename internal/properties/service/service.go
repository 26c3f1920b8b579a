// Package service implements catalog business rules: id generation, status
// normalization, field defaults, and partial updates.
package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"estate_assistant_backend/internal/properties/repository"
	"estate_assistant_backend/internal/properties/transport"
	"estate_assistant_backend/platform/logger"
)

// Service wraps the property repository with catalog rules.
type Service struct {
	repo *repository.Repository
	log  *logger.Logger
}

// New creates a new property service.
func New(repo *repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// List returns listings matching the filters.
func (s *Service) List(filters repository.ListFilters) ([]repository.Listing, error) {
	return s.repo.List(filters)
}

// ActiveInventory returns every active listing, the read-only input the
// conversation pipeline matches against.
func (s *Service) ActiveInventory() ([]repository.Listing, error) {
	return s.repo.List(repository.ListFilters{Status: repository.StatusActive})
}

// GetByID returns the listing with the given id.
func (s *Service) GetByID(id string) (repository.Listing, error) {
	return s.repo.GetByID(id)
}

// Add creates a listing from the request, generating an id when absent and
// defaulting optional fields the way the catalog expects them.
func (s *Service) Add(req transport.CreatePropertyRequest) (repository.Listing, error) {
	now := time.Now().UTC()

	id := req.ID
	if id == "" {
		id = generateID(req.City, req.Type)
	}

	listing := repository.Listing{
		ID:              id,
		Name:            req.Name,
		Location:        req.Location,
		City:            req.City,
		Type:            req.Type,
		Tenure:          req.Tenure,
		Price:           req.Price,
		Rent:            req.Rent,
		RentalFrequency: req.RentalFrequency,
		Bedrooms:        req.Bedrooms,
		Bathrooms:       req.Bathrooms,
		Amenities:       req.Amenities,
		Availability:    req.Availability,
		VirtualTour:     req.VirtualTour,
		Images:          req.Images,
		Description:     req.Description,
		Status:          normalizeStatus(req.Status),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if listing.Amenities == nil {
		listing.Amenities = []string{}
	}
	if listing.Images == nil {
		listing.Images = []string{}
	}
	if listing.Availability == "" {
		listing.Availability = "TBD"
	}

	if err := s.repo.Add(listing); err != nil {
		return repository.Listing{}, err
	}
	return listing, nil
}

// Update applies a partial update to the listing with the given id.
func (s *Service) Update(id string, req transport.UpdatePropertyRequest) (repository.Listing, error) {
	return s.repo.Update(id, func(listing repository.Listing) repository.Listing {
		applyString(&listing.Name, req.Name)
		applyString(&listing.Location, req.Location)
		applyString(&listing.City, req.City)
		applyString(&listing.Type, req.Type)
		applyString(&listing.Tenure, req.Tenure)
		applyString(&listing.Availability, req.Availability)
		applyString(&listing.Description, req.Description)
		if req.Price != nil {
			listing.Price = req.Price
		}
		if req.Rent != nil {
			listing.Rent = req.Rent
		}
		if req.RentalFrequency != nil {
			listing.RentalFrequency = req.RentalFrequency
		}
		if req.Bedrooms != nil {
			listing.Bedrooms = req.Bedrooms
		}
		if req.Bathrooms != nil {
			listing.Bathrooms = req.Bathrooms
		}
		if req.Amenities != nil {
			listing.Amenities = req.Amenities
		}
		if req.Images != nil {
			listing.Images = req.Images
		}
		if req.VirtualTour != nil {
			listing.VirtualTour = req.VirtualTour
		}
		if req.Status != nil {
			listing.Status = normalizeStatus(*req.Status)
		}
		listing.UpdatedAt = time.Now().UTC()
		return listing
	})
}

// Archive marks the listing archived, removing it from matching.
func (s *Service) Archive(id string) (repository.Listing, error) {
	archived := repository.StatusArchived
	return s.Update(id, transport.UpdatePropertyRequest{Status: &archived})
}

func applyString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func normalizeStatus(status string) string {
	if status == "" {
		return repository.StatusActive
	}
	return strings.ToLower(status)
}

// generateID builds a catalog id like ACC-APA-4821-B3F0 from the city and
// type codes, the timestamp tail, and a short random suffix.
func generateID(city, propertyType string) string {
	cityCode := codeOf(city, "PRP")
	typeCode := codeOf(propertyType, "GEN")
	tail := fmt.Sprintf("%d", time.Now().UnixMilli())
	tail = tail[len(tail)-4:]
	random := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:4])
	return fmt.Sprintf("%s-%s-%s-%s", cityCode, typeCode, tail, random)
}

func codeOf(value, fallback string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	code := strings.ToUpper(trimmed)
	if len(code) > 3 {
		code = code[:3]
	}
	return code
}
