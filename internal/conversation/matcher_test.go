package conversation

import (
	"testing"

	"estate_assistant_backend/internal/properties/repository"
)

func strPtr(s string) *string { return &s }

func sampleInventory() []repository.Listing {
	return []repository.Listing{
		{ID: "A", Location: "East Legon, Accra", Type: "apartment", Tenure: repository.TenurePurchase, Price: floatPtr(250_000), Status: repository.StatusActive},
		{ID: "B", Location: "Kumasi", Type: "house", Tenure: repository.TenurePurchase, Price: floatPtr(400_000), Status: repository.StatusActive},
		{ID: "C", Location: "Accra", Type: "apartment", Tenure: repository.TenurePurchase, Price: nil, Status: repository.StatusActive},
		{ID: "D", Location: "Accra", Type: "apartment", Tenure: repository.TenurePurchase, Price: floatPtr(100_000), Status: repository.StatusArchived},
		{ID: "E", Location: "Tema", Type: "townhouse", Tenure: repository.TenureRent, Rent: floatPtr(2_500), Status: repository.StatusActive},
	}
}

func matchIDs(matches []repository.Listing) []string {
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.ID)
	}
	return ids
}

func TestMatchNeverReturnsInactive(t *testing.T) {
	matches := Match(sampleInventory(), PreferenceSet{})
	for _, m := range matches {
		if m.Status != repository.StatusActive {
			t.Fatalf("non-active listing %s returned", m.ID)
		}
	}
	if len(matches) != 4 {
		t.Fatalf("expected 4 active listings, got %v", matchIDs(matches))
	}
}

func TestMatchBudgetExcludesAboveKeepsUnknown(t *testing.T) {
	prefs := PreferenceSet{BudgetMax: floatPtr(300_000)}
	matches := Match(sampleInventory(), prefs)

	ids := matchIDs(matches)
	want := []string{"A", "C", "E"}
	if len(ids) != len(want) {
		t.Fatalf("expected %v, got %v", want, ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, ids)
		}
	}
}

func TestMatchRentTenureUsesRentField(t *testing.T) {
	prefs := PreferenceSet{BudgetMax: floatPtr(2_000)}
	matches := Match(sampleInventory(), prefs)

	for _, m := range matches {
		if m.ID == "E" {
			t.Fatal("rental above budget should be excluded on rent, not price")
		}
	}
}

func TestMatchLocationSubstringAndTypeExact(t *testing.T) {
	prefs := PreferenceSet{Location: strPtr("accra"), PropertyType: strPtr("apartment")}
	matches := Match(sampleInventory(), prefs)

	ids := matchIDs(matches)
	if len(ids) != 2 || ids[0] != "A" || ids[1] != "C" {
		t.Fatalf("expected [A C], got %v", ids)
	}
}

func TestMatchConditionsAreANDed(t *testing.T) {
	prefs := PreferenceSet{Location: strPtr("kumasi"), PropertyType: strPtr("apartment")}
	if matches := Match(sampleInventory(), prefs); len(matches) != 0 {
		t.Fatalf("expected no matches, got %v", matchIDs(matches))
	}
}

func TestGroundingInventoryFallback(t *testing.T) {
	inventory := sampleInventory()

	matches := []repository.Listing{inventory[0]}
	grounded := GroundingInventory(inventory, matches)
	if len(grounded) != 1 || grounded[0].ID != "A" {
		t.Fatalf("expected true matches to pass through, got %v", matchIDs(grounded))
	}

	grounded = GroundingInventory(inventory, nil)
	for _, g := range grounded {
		if g.Status != repository.StatusActive {
			t.Fatalf("fallback included non-active listing %s", g.ID)
		}
	}
	if len(grounded) != 4 {
		t.Fatalf("expected 4 fallback listings, got %v", matchIDs(grounded))
	}
}

func TestGroundingInventoryCap(t *testing.T) {
	inventory := make([]repository.Listing, 0, 8)
	for _, id := range []string{"1", "2", "3", "4", "5", "6", "7", "8"} {
		inventory = append(inventory, repository.Listing{ID: id, Status: repository.StatusActive})
	}

	grounded := GroundingInventory(inventory, nil)
	if len(grounded) != groundingCap {
		t.Fatalf("expected %d grounding listings, got %d", groundingCap, len(grounded))
	}
}
