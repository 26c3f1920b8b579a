package conversation

import (
	"strings"

	"estate_assistant_backend/internal/properties/repository"
)

// groundingCap limits how many listings feed the reply-grounding context
// when no true match exists.
const groundingCap = 5

// Match filters the inventory against the preferences. All conditions are
// AND-ed; input order is preserved; it never fails. A listing with an
// unknown (nil) price is never excluded on budget.
func Match(inventory []repository.Listing, prefs PreferenceSet) []repository.Listing {
	matches := make([]repository.Listing, 0, len(inventory))

	for _, listing := range inventory {
		if !strings.EqualFold(listing.Status, repository.StatusActive) {
			continue
		}
		if prefs.Location != nil &&
			!strings.Contains(strings.ToLower(listing.Location), strings.ToLower(*prefs.Location)) {
			continue
		}
		if prefs.PropertyType != nil && !strings.EqualFold(listing.Type, *prefs.PropertyType) {
			continue
		}
		if prefs.BudgetMax != nil {
			if price := listing.BudgetField(); price != nil && *price > *prefs.BudgetMax {
				continue
			}
		}
		matches = append(matches, listing)
	}

	return matches
}

// GroundingInventory picks the listings used to ground the generated reply.
// When matching found nothing it falls back to the first active listings so
// the reply is never unhelpfully silent. The fallback is only for grounding;
// explicit suggestions fire on true matches alone.
func GroundingInventory(inventory, matches []repository.Listing) []repository.Listing {
	if len(matches) > 0 {
		return matches
	}

	fallback := make([]repository.Listing, 0, groundingCap)
	for _, listing := range inventory {
		if !strings.EqualFold(listing.Status, repository.StatusActive) {
			continue
		}
		fallback = append(fallback, listing)
		if len(fallback) == groundingCap {
			break
		}
	}
	return fallback
}
