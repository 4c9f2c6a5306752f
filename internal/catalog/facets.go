package catalog

import "github.com/octobees/marketplace-catalog/internal/entity"

// Facet is a distinct raw value with its derived labels and listing count.
type Facet struct {
	Value       string `json:"value" msgpack:"value"`
	DisplayName string `json:"display_name" msgpack:"display_name"`
	Slug        string `json:"slug,omitempty" msgpack:"slug,omitempty"`
	Count       int    `json:"count" msgpack:"count"`
}

// DistinctCategories lists non-blank raw categories in first-seen order.
func DistinctCategories(listings []entity.Listing) []string {
	values := make([]string, 0)
	for _, f := range CategoryFacets(listings) {
		values = append(values, f.Value)
	}
	return values
}

// DistinctAreas lists non-blank raw areas in first-seen order.
func DistinctAreas(listings []entity.Listing) []string {
	values := make([]string, 0)
	for _, f := range LocationFacets(listings) {
		values = append(values, f.Value)
	}
	return values
}

// CategoryFacets counts listings per non-blank raw category.
func CategoryFacets(listings []entity.Listing) []Facet {
	facets := make([]Facet, 0)
	index := make(map[string]int)
	for _, listing := range listings {
		if !listing.HasCategory() {
			continue
		}
		if pos, ok := index[listing.Category]; ok {
			facets[pos].Count++
			continue
		}
		index[listing.Category] = len(facets)
		facets = append(facets, Facet{
			Value:       listing.Category,
			DisplayName: CategoryDisplayName(listing.Category),
			Slug:        Slug(listing.Category),
			Count:       1,
		})
	}
	return facets
}

// LocationFacets counts listings per non-blank raw area.
func LocationFacets(listings []entity.Listing) []Facet {
	facets := make([]Facet, 0)
	index := make(map[string]int)
	for _, listing := range listings {
		if !listing.HasArea() {
			continue
		}
		if pos, ok := index[listing.Area]; ok {
			facets[pos].Count++
			continue
		}
		index[listing.Area] = len(facets)
		facets = append(facets, Facet{
			Value:       listing.Area,
			DisplayName: LocationDisplayName(listing.Area),
			Count:       1,
		})
	}
	return facets
}
