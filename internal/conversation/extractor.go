// Package conversation implements the inbound message pipeline: preference
// extraction, inventory matching, session history, reply generation, and
// lead synthesis hand-off.
package conversation

import (
	"regexp"
	"strconv"
	"strings"

	"estate_assistant_backend/internal/properties/repository"
)

// Intent tags recognized in inbound text. Multiple intents may co-occur.
const (
	IntentPropertySearch = "property_search"
	IntentPricing        = "pricing"
	IntentAvailability   = "availability"
	IntentVirtualTour    = "virtual_tour"
	IntentViewing        = "viewing"
)

// PreferenceSet is the heuristic read of one inbound message. It is
// recomputed per message and has no persistent identity. Absent signals are
// nil or false, never errors.
type PreferenceSet struct {
	Intents          []string
	Location         *string
	PropertyType     *string
	BudgetMax        *float64
	Timeline         *string
	WantsVirtualTour bool
	WantsViewing     bool
	EscalateRequest  bool
	WantsImage       bool
	UrgentRequest    bool
}

// HasIntent reports whether the tag was recognized.
func (p PreferenceSet) HasIntent(tag string) bool {
	for _, intent := range p.Intents {
		if intent == tag {
			return true
		}
	}
	return false
}

var intentKeywords = []struct {
	tag      string
	keywords []string
}{
	{IntentPropertySearch, []string{"looking for", "searching", "find me", "apartment", "house", "property", "home", "bedroom", "bed ", "buy", "rent", "land", "townhouse", "office"}},
	{IntentPricing, []string{"price", "cost", "how much", "budget", "afford", "under ", "below ", "ghs", "cedis"}},
	{IntentAvailability, []string{"available", "availability", "still there", "vacant", "when can i move"}},
	{IntentVirtualTour, []string{"virtual tour", "video tour", "virtual viewing", "video walkthrough"}},
	{IntentViewing, []string{"viewing", "view the", "visit", "inspect", "come and see", "schedule", "appointment", "book a"}},
}

// baseLocations is the fixed location vocabulary; inventory locations extend it.
var baseLocations = []string{
	"accra", "kumasi", "tema", "takoradi", "east legon", "cantonments",
	"airport residential", "osu", "labone", "spintex", "dzorwulu",
	"adenta", "kasoa", "west hills",
}

// propertyTypeAliases maps canonical types to their fixed alias lists, in
// evaluation order. Inventory type names are unioned in at extraction time.
var propertyTypeAliases = []struct {
	canonical string
	aliases   []string
}{
	{"apartment", []string{"apartment", "flat", "condo"}},
	{"house", []string{"house", "bungalow", "duplex", "mansion"}},
	{"townhouse", []string{"townhouse", "town house"}},
	{"land", []string{"land", "plot", "acre"}},
	{"office", []string{"office", "commercial space"}},
	{"shop", []string{"shop", "store front"}},
}

var (
	// budgetRE matches a decimal number optionally followed by a unit token.
	// The pattern is unanchored, so unrelated digits in a message can still
	// be misread as a budget.
	budgetRE    = regexp.MustCompile(`(?i)(\d+(?:,\d{3})*(?:\.\d+)?)\s*(k\b|thousand\b|m\b|million\b)?`)
	escalateRE  = regexp.MustCompile(`(?i)\b(agent|human|someone|representative|speak to|talk to|customer (?:care|service))\b`)
	wantImageRE = regexp.MustCompile(`(?i)\b(photo|photos|picture|pictures|image|images|show me)\b`)
	urgentRE    = regexp.MustCompile(`(?i)\b(urgent|urgently|emergency|right away|asap)\b`)
)

// timelineRules are evaluated in order; the last matching rule wins.
var timelineRules = []struct {
	phrases []string
	value   string
}{
	{[]string{"immediately", "asap"}, "immediate"},
	{[]string{"next month"}, "next month"},
	{[]string{"next week"}, "next week"},
}

// Extract derives a PreferenceSet from raw inbound text and the current
// inventory vocabulary. Deterministic and side-effect free; a text with no
// recognizable signals yields an empty set, never an error.
func Extract(text string, inventory []repository.Listing) PreferenceSet {
	lowered := strings.ToLower(text)
	prefs := PreferenceSet{}

	for _, group := range intentKeywords {
		for _, keyword := range group.keywords {
			if strings.Contains(lowered, keyword) {
				prefs.Intents = append(prefs.Intents, group.tag)
				break
			}
		}
	}

	prefs.Location = extractLocation(lowered, inventory)
	prefs.PropertyType = extractPropertyType(lowered, inventory)
	prefs.BudgetMax = extractBudget(lowered)
	prefs.Timeline = extractTimeline(lowered)

	prefs.WantsVirtualTour = prefs.HasIntent(IntentVirtualTour)
	prefs.WantsViewing = prefs.HasIntent(IntentViewing)
	prefs.EscalateRequest = escalateRE.MatchString(lowered)
	prefs.WantsImage = wantImageRE.MatchString(lowered)
	prefs.UrgentRequest = urgentRE.MatchString(lowered)

	return prefs
}

// extractLocation returns the first vocabulary entry found as a substring of
// the lowered text. The vocabulary is the fixed base list followed by every
// location token split out of the inventory, in inventory order.
func extractLocation(lowered string, inventory []repository.Listing) *string {
	vocabulary := make([]string, 0, len(baseLocations)+len(inventory)*2)
	vocabulary = append(vocabulary, baseLocations...)
	for _, listing := range inventory {
		for _, token := range strings.Split(listing.Location, ",") {
			token = strings.ToLower(strings.TrimSpace(token))
			if token != "" {
				vocabulary = append(vocabulary, token)
			}
		}
	}

	for _, candidate := range vocabulary {
		if strings.Contains(lowered, candidate) {
			return &candidate
		}
	}
	return nil
}

// extractPropertyType returns the first canonical type whose alias list,
// unioned with literal inventory type names, matches as a substring.
func extractPropertyType(lowered string, inventory []repository.Listing) *string {
	seen := make(map[string]bool, len(propertyTypeAliases))
	groups := make([]struct {
		canonical string
		aliases   []string
	}, 0, len(propertyTypeAliases)+len(inventory))
	for _, group := range propertyTypeAliases {
		groups = append(groups, group)
		seen[group.canonical] = true
	}
	for _, listing := range inventory {
		name := strings.ToLower(strings.TrimSpace(listing.Type))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		groups = append(groups, struct {
			canonical string
			aliases   []string
		}{name, []string{name}})
	}

	for _, group := range groups {
		for _, alias := range group.aliases {
			if strings.Contains(lowered, alias) {
				canonical := group.canonical
				return &canonical
			}
		}
	}
	return nil
}

// extractBudget finds the first number that reads like a budget: either
// carrying a unit token (500k, 1.2 million) or large enough to be a price on
// its own. Smaller bare numbers (bedroom counts and the like) are skipped,
// but any large unrelated digits are still misread as a budget.
func extractBudget(lowered string) *float64 {
	for _, match := range budgetRE.FindAllStringSubmatch(lowered, -1) {
		raw := strings.ReplaceAll(match[1], ",", "")
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}

		unit := strings.TrimSpace(strings.ToLower(match[2]))
		switch unit {
		case "k", "thousand":
			value *= 1_000
		case "m", "million":
			value *= 1_000_000
		default:
			if value < 1_000 {
				continue
			}
		}
		return &value
	}
	return nil
}

func extractTimeline(lowered string) *string {
	var result *string
	for _, rule := range timelineRules {
		for _, phrase := range rule.phrases {
			if strings.Contains(lowered, phrase) {
				value := rule.value
				result = &value
				break
			}
		}
	}
	return result
}
