package service

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"estate_assistant_backend/internal/properties/transport"
)

type seedFile struct {
	Properties []seedListing `yaml:"properties"`
}

type seedListing struct {
	ID              string   `yaml:"id"`
	Name            string   `yaml:"name"`
	Location        string   `yaml:"location"`
	City            string   `yaml:"city"`
	Type            string   `yaml:"type"`
	Tenure          string   `yaml:"tenure"`
	Price           *float64 `yaml:"price"`
	Rent            *float64 `yaml:"rent"`
	RentalFrequency *string  `yaml:"rentalFrequency"`
	Bedrooms        *int     `yaml:"bedrooms"`
	Bathrooms       *int     `yaml:"bathrooms"`
	Amenities       []string `yaml:"amenities"`
	Availability    string   `yaml:"availability"`
	VirtualTour     *string  `yaml:"virtualTour"`
	Images          []string `yaml:"images"`
	Description     string   `yaml:"description"`
	Status          string   `yaml:"status"`
}

// SeedFromFile imports listings from a YAML file into an empty store.
// A non-empty store is left untouched so restarts never duplicate the catalog.
func (s *Service) SeedFromFile(path string) error {
	count, err := s.repo.Count()
	if err != nil {
		return err
	}
	if count > 0 {
		s.log.Info("property store not empty, skipping seed", "count", count)
		return nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}

	var seed seedFile
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return fmt.Errorf("parse seed file: %w", err)
	}

	for _, item := range seed.Properties {
		_, err := s.Add(transport.CreatePropertyRequest{
			ID:              item.ID,
			Name:            item.Name,
			Location:        item.Location,
			City:            item.City,
			Type:            item.Type,
			Tenure:          item.Tenure,
			Price:           item.Price,
			Rent:            item.Rent,
			RentalFrequency: item.RentalFrequency,
			Bedrooms:        item.Bedrooms,
			Bathrooms:       item.Bathrooms,
			Amenities:       item.Amenities,
			Availability:    item.Availability,
			VirtualTour:     item.VirtualTour,
			Images:          item.Images,
			Description:     item.Description,
			Status:          item.Status,
		})
		if err != nil {
			return fmt.Errorf("seed listing %q: %w", item.Name, err)
		}
	}

	s.log.Info("property store seeded", "count", len(seed.Properties), "file", path)
	return nil
}
