package catalog

import (
	"strings"

	"github.com/octobees/marketplace-catalog/internal/entity"
)

// FilterState is the query state owned by the client. SelectedCategory and
// SelectedLocation are raw values and at most one of them is set.
type FilterState struct {
	SearchTerm       string  `json:"search_term" msgpack:"search_term"`
	InputText        string  `json:"input_text,omitempty" msgpack:"input_text,omitempty"`
	SelectedCategory *string `json:"selected_category" msgpack:"selected_category"`
	SelectedLocation *string `json:"selected_location" msgpack:"selected_location"`
}

// Matches reports whether the listing passes the category, location and text
// predicates. An unset filter always passes.
func Matches(listing entity.Listing, state FilterState) bool {
	return matchesScope(listing, state) && matchesText(listing, state.SearchTerm)
}

// Filter keeps the listings that match state, preserving input order.
func Filter(listings []entity.Listing, state FilterState) []entity.Listing {
	filtered := make([]entity.Listing, 0, len(listings))
	for _, listing := range listings {
		if Matches(listing, state) {
			filtered = append(filtered, listing)
		}
	}
	return filtered
}

// matchesScope applies only the category and location predicates.
func matchesScope(listing entity.Listing, state FilterState) bool {
	if state.SelectedCategory != nil && listing.Category != *state.SelectedCategory {
		return false
	}
	if state.SelectedLocation != nil && listing.Area != *state.SelectedLocation {
		return false
	}
	return true
}

// matchesText checks the term against the name and the display labels.
// Blank category or area values never match a term.
func matchesText(listing entity.Listing, term string) bool {
	if strings.TrimSpace(term) == "" {
		return true
	}
	if containsFold(listing.Name, term) {
		return true
	}
	if listing.HasArea() && containsFold(LocationDisplayName(listing.Area), term) {
		return true
	}
	if listing.HasCategory() && containsFold(CategoryDisplayName(listing.Category), term) {
		return true
	}
	return false
}

func scoped(listings []entity.Listing, state FilterState) []entity.Listing {
	out := make([]entity.Listing, 0, len(listings))
	for _, listing := range listings {
		if matchesScope(listing, state) {
			out = append(out, listing)
		}
	}
	return out
}
