package service

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"estate_assistant_backend/internal/properties/repository"
	"estate_assistant_backend/internal/properties/transport"
	"estate_assistant_backend/platform/apperr"
	"estate_assistant_backend/platform/logger"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	log := logger.New("test")
	path := filepath.Join(t.TempDir(), "properties.json")
	return New(repository.New(path, log), log)
}

func floatPtr(v float64) *float64 { return &v }
func strPtr(s string) *string     { return &s }

func TestAddDefaultsAndID(t *testing.T) {
	svc := newTestService(t)

	listing, err := svc.Add(transport.CreatePropertyRequest{
		Name:     "Legon Heights",
		Location: "East Legon, Accra",
		City:     "Accra",
		Type:     "apartment",
		Tenure:   repository.TenurePurchase,
		Price:    floatPtr(450_000),
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	parts := strings.Split(listing.ID, "-")
	if len(parts) != 4 || parts[0] != "ACC" || parts[1] != "APA" {
		t.Fatalf("unexpected id shape %q", listing.ID)
	}
	if len(parts[2]) != 4 || len(parts[3]) != 4 {
		t.Fatalf("unexpected id segment lengths in %q", listing.ID)
	}
	if listing.Status != repository.StatusActive {
		t.Fatalf("expected default status active, got %q", listing.Status)
	}
	if listing.Availability != "TBD" {
		t.Fatalf("expected default availability TBD, got %q", listing.Availability)
	}
	if listing.Amenities == nil || listing.Images == nil {
		t.Fatal("expected empty slices, not nil")
	}
}

func TestAddKeepsExplicitID(t *testing.T) {
	svc := newTestService(t)

	listing, err := svc.Add(transport.CreatePropertyRequest{
		ID:       "ACC-APA-0001-TEST",
		Name:     "Fixed",
		Location: "Accra",
		Type:     "apartment",
		Tenure:   repository.TenurePurchase,
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if listing.ID != "ACC-APA-0001-TEST" {
		t.Fatalf("expected explicit id preserved, got %q", listing.ID)
	}
}

func TestGenerateIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id := generateID("Accra", "apartment")
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestUpdatePartial(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.Add(transport.CreatePropertyRequest{
		Name:     "Original",
		Location: "Tema",
		Type:     "house",
		Tenure:   repository.TenurePurchase,
		Price:    floatPtr(300_000),
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	updated, err := svc.Update(created.ID, transport.UpdatePropertyRequest{
		Price:  floatPtr(280_000),
		Status: strPtr("ACTIVE"),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if updated.Name != "Original" || updated.Location != "Tema" {
		t.Fatalf("untouched fields changed: %+v", updated)
	}
	if updated.Price == nil || *updated.Price != 280_000 {
		t.Fatalf("expected updated price, got %v", updated.Price)
	}
	if updated.Status != repository.StatusActive {
		t.Fatalf("expected status lowercased to active, got %q", updated.Status)
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) && !updated.UpdatedAt.Equal(created.UpdatedAt) {
		t.Fatal("expected UpdatedAt to move forward")
	}
}

func TestUpdateUnknownID(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Update("missing", transport.UpdatePropertyRequest{Name: strPtr("x")})
	if apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestArchiveRemovesFromInventory(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.Add(transport.CreatePropertyRequest{
		Name:     "Short Stay",
		Location: "Osu, Accra",
		Type:     "apartment",
		Tenure:   repository.TenureRent,
		Rent:     floatPtr(3_000),
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	archived, err := svc.Archive(created.ID)
	if err != nil {
		t.Fatalf("Archive: %v", err)
	}
	if archived.Status != repository.StatusArchived {
		t.Fatalf("expected archived status, got %q", archived.Status)
	}

	inventory, err := svc.ActiveInventory()
	if err != nil {
		t.Fatalf("ActiveInventory: %v", err)
	}
	if len(inventory) != 0 {
		t.Fatalf("archived listing still in inventory: %+v", inventory)
	}
}

const seedYAML = `properties:
  - name: Legon Heights
    location: East Legon, Accra
    city: Accra
    type: apartment
    tenure: purchase
    price: 450000
    bedrooms: 2
    amenities: [pool, gym]
    images: [https://cdn.example.com/a.jpg]
  - name: Tema Townhouse
    location: Community 25, Tema
    city: Tema
    type: townhouse
    tenure: rent
    rent: 4500
    rentalFrequency: month
`

func TestSeedFromFile(t *testing.T) {
	svc := newTestService(t)

	seedPath := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(seedPath, []byte(seedYAML), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	if err := svc.SeedFromFile(seedPath); err != nil {
		t.Fatalf("SeedFromFile: %v", err)
	}

	inventory, err := svc.ActiveInventory()
	if err != nil {
		t.Fatalf("ActiveInventory: %v", err)
	}
	if len(inventory) != 2 {
		t.Fatalf("expected 2 seeded listings, got %d", len(inventory))
	}
	if inventory[0].Name != "Legon Heights" || inventory[1].Name != "Tema Townhouse" {
		t.Fatalf("unexpected seed order: %s, %s", inventory[0].Name, inventory[1].Name)
	}
	if inventory[1].Rent == nil || *inventory[1].Rent != 4_500 {
		t.Fatalf("expected rent 4500, got %v", inventory[1].Rent)
	}

	// A second run against the now non-empty store is a no-op.
	if err := svc.SeedFromFile(seedPath); err != nil {
		t.Fatalf("repeat SeedFromFile: %v", err)
	}
	inventory, _ = svc.ActiveInventory()
	if len(inventory) != 2 {
		t.Fatalf("repeat seed duplicated the catalog: %d listings", len(inventory))
	}
}

func TestSeedFromFileMissing(t *testing.T) {
	svc := newTestService(t)

	if err := svc.SeedFromFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing seed file")
	}
}
