package dto

import (
	"errors"
	"math"

	"github.com/octobees/marketplace-catalog/internal/catalog"
	"github.com/octobees/marketplace-catalog/internal/entity"
)

// Paging defaults for the "view all" listing pages.
const (
	DefaultPage    = 1
	DefaultPerPage = 20
	MaxPerPage     = 100
	// MaxOffset keeps the skipped row count inside a Postgres int4 OFFSET.
	MaxOffset = math.MaxInt32
)

// ErrPageOutOfRange reports a page whose offset exceeds MaxOffset.
var ErrPageOutOfRange = errors.New("page out of range")

// ListingQuery selects one page of stored listings. Category and Area are raw
// values; empty means unfiltered.
type ListingQuery struct {
	Category string
	Area     string
	Page     int
	PerPage  int
}

// Normalize applies the paging defaults and caps. Page is clamped to MaxPage.
func (q ListingQuery) Normalize() ListingQuery {
	if q.PerPage <= 0 {
		q.PerPage = DefaultPerPage
	}
	if q.PerPage > MaxPerPage {
		q.PerPage = MaxPerPage
	}
	if q.Page <= 0 {
		q.Page = DefaultPage
	}
	if limit := q.MaxPage(); q.Page > limit {
		q.Page = limit
	}
	return q
}

// MaxPage is the last page whose offset stays within MaxOffset for the
// query's (normalized) page size.
func (q ListingQuery) MaxPage() int {
	per := q.PerPage
	if per <= 0 {
		per = DefaultPerPage
	}
	if per > MaxPerPage {
		per = MaxPerPage
	}
	return MaxOffset/per + 1
}

// Validate rejects pages that Normalize would have to clamp.
func (q ListingQuery) Validate() error {
	if q.Page > q.MaxPage() {
		return ErrPageOutOfRange
	}
	return nil
}

// Offset is the number of rows skipped for the current page.
func (q ListingQuery) Offset() int {
	q = q.Normalize()
	return (q.Page - 1) * q.PerPage
}

// CatalogResponse is the grouped catalogue view.
type CatalogResponse struct {
	Groups []catalog.CategoryGroup `json:"groups" msgpack:"groups"`
	Total  int                     `json:"total" msgpack:"total"`
	State  catalog.FilterState     `json:"state" msgpack:"state"`
}

// SuggestionsResponse carries ranked autocomplete entries.
type SuggestionsResponse struct {
	Term        string               `json:"term" msgpack:"term"`
	Suggestions []catalog.Suggestion `json:"suggestions" msgpack:"suggestions"`
}

// StateTransitionRequest applies one selection action to a client state.
type StateTransitionRequest struct {
	State  catalog.FilterState `json:"state"`
	Action string              `json:"action"`
	Value  string              `json:"value"`
}

// StateTransitionResponse returns the new state and its mode.
type StateTransitionResponse struct {
	State catalog.FilterState `json:"state"`
	Mode  catalog.Mode        `json:"mode"`
}

// ListingPage is one page of stored listings.
type ListingPage struct {
	Category    string           `json:"category"`
	DisplayName string           `json:"display_name"`
	Page        int              `json:"page"`
	PerPage     int              `json:"per_page"`
	Total       int              `json:"total"`
	Items       []entity.Listing `json:"items"`
}

// ImportResult summarises a CSV import.
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
	Replaced int `json:"replaced"`
}
