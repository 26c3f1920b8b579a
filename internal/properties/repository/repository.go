// Package repository persists property listings in a file-backed JSON collection.
package repository

import (
	"strings"
	"time"

	"estate_assistant_backend/platform/apperr"
	"estate_assistant_backend/platform/jsonstore"
	"estate_assistant_backend/platform/logger"
)

// Tenure values for a listing.
const (
	TenurePurchase = "purchase"
	TenureRent     = "rent"
)

// Listing statuses. Anything other than active is excluded from matching.
const (
	StatusActive   = "active"
	StatusArchived = "archived"
)

// Listing is a property in the agency's inventory.
type Listing struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Location        string    `json:"location"`
	City            string    `json:"city"`
	Type            string    `json:"type"`
	Tenure          string    `json:"tenure"`
	Price           *float64  `json:"price"`
	Rent            *float64  `json:"rent"`
	RentalFrequency *string   `json:"rentalFrequency"`
	Bedrooms        *int      `json:"bedrooms"`
	Bathrooms       *int      `json:"bathrooms"`
	Amenities       []string  `json:"amenities"`
	Availability    string    `json:"availability"`
	VirtualTour     *string   `json:"virtualTour"`
	Images          []string  `json:"images"`
	Description     string    `json:"description"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// BudgetField returns the tenure-appropriate price field: rent for rentals,
// purchase price otherwise. Nil means the price is unknown.
func (l Listing) BudgetField() *float64 {
	if l.Tenure == TenureRent {
		return l.Rent
	}
	return l.Price
}

// ListFilters narrows List results. Empty fields mean no constraint.
type ListFilters struct {
	Status string
	City   string
	Type   string
}

// Repository owns the property collection.
type Repository struct {
	col *jsonstore.Collection[Listing]
	log *logger.Logger
}

// New creates a property repository backed by the JSON file at path.
func New(path string, log *logger.Logger) *Repository {
	return &Repository{
		col: jsonstore.New[Listing](path, "properties", log),
		log: log,
	}
}

// List returns listings matching the filters, in stored order.
func (r *Repository) List(filters ListFilters) ([]Listing, error) {
	items, err := r.col.ReadAll()
	if err != nil {
		r.log.StoreError("properties", "list", err)
		return nil, apperr.Wrap(apperr.KindInternal, "failed to read properties", err)
	}

	results := make([]Listing, 0, len(items))
	for _, listing := range items {
		if filters.Status != "" && !strings.EqualFold(listing.Status, filters.Status) {
			continue
		}
		if filters.City != "" && !strings.EqualFold(listing.City, filters.City) {
			continue
		}
		if filters.Type != "" && !strings.EqualFold(listing.Type, filters.Type) {
			continue
		}
		results = append(results, listing)
	}

	return results, nil
}

// GetByID returns the listing with the given id.
func (r *Repository) GetByID(id string) (Listing, error) {
	items, err := r.col.ReadAll()
	if err != nil {
		r.log.StoreError("properties", "get", err)
		return Listing{}, apperr.Wrap(apperr.KindInternal, "failed to read properties", err)
	}

	for _, listing := range items {
		if listing.ID == id {
			return listing, nil
		}
	}
	return Listing{}, apperr.NotFound("property not found")
}

// Add appends a listing to the collection.
func (r *Repository) Add(listing Listing) error {
	err := r.col.Mutate(func(items []Listing) ([]Listing, error) {
		return append(items, listing), nil
	})
	if err != nil {
		r.log.StoreError("properties", "add", err)
		return apperr.Wrap(apperr.KindInternal, "failed to persist property", err)
	}
	return nil
}

// Update applies fn to the listing with the given id and persists the result.
func (r *Repository) Update(id string, fn func(Listing) Listing) (Listing, error) {
	var updated Listing

	err := r.col.Mutate(func(items []Listing) ([]Listing, error) {
		for i := range items {
			if items[i].ID == id {
				items[i] = fn(items[i])
				updated = items[i]
				return items, nil
			}
		}
		return nil, apperr.NotFound("property not found")
	})
	if err != nil {
		if apperr.GetKind(err) == apperr.KindUnknown {
			r.log.StoreError("properties", "update", err)
			return Listing{}, apperr.Wrap(apperr.KindInternal, "failed to update property", err)
		}
		return Listing{}, err
	}

	return updated, nil
}

// Count returns the number of stored listings.
func (r *Repository) Count() (int, error) {
	items, err := r.col.ReadAll()
	if err != nil {
		return 0, apperr.Wrap(apperr.KindInternal, "failed to read properties", err)
	}
	return len(items), nil
}
