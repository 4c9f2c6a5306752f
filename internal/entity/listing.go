package entity

import (
	"strings"

	"github.com/google/uuid"
)

// FallbackCategoryKey buckets listings whose category is missing or blank.
const FallbackCategoryKey = "other.other"

// Listing is a flat vendor record as published by the catalogue spreadsheet.
// Every field is optional; readers must tolerate empty values.
type Listing struct {
	ID          *uuid.UUID        `json:"id,omitempty" msgpack:"id,omitempty"`
	Name        string            `json:"name" msgpack:"name"`
	Category    string            `json:"category" msgpack:"category"`
	Area        string            `json:"area" msgpack:"area"`
	PriceFrom   string            `json:"price_from,omitempty" msgpack:"price_from,omitempty"`
	Rating      string            `json:"rating,omitempty" msgpack:"rating,omitempty"`
	ImageURL    string            `json:"image url,omitempty" msgpack:"image url,omitempty"`
	Images      []string          `json:"images,omitempty" msgpack:"images,omitempty"`
	Phone       string            `json:"phone,omitempty" msgpack:"phone,omitempty"`
	PhoneE164   string            `json:"phone_e164,omitempty" msgpack:"phone_e164,omitempty"`
	Address     string            `json:"address,omitempty" msgpack:"address,omitempty"`
	Description string            `json:"description,omitempty" msgpack:"description,omitempty"`
	Extra       map[string]string `json:"extra,omitempty" msgpack:"extra,omitempty"`
}

// CategoryKey returns the raw category, or FallbackCategoryKey when it is blank.
func (l Listing) CategoryKey() string {
	if strings.TrimSpace(l.Category) == "" {
		return FallbackCategoryKey
	}
	return l.Category
}

// HasCategory reports whether the listing carries a non-blank category.
func (l Listing) HasCategory() bool {
	return strings.TrimSpace(l.Category) != ""
}

// HasArea reports whether the listing carries a non-blank area.
func (l Listing) HasArea() bool {
	return strings.TrimSpace(l.Area) != ""
}

// ImageURLs returns the validated image list when present, otherwise the
// comma separated "image url" field split and trimmed.
func (l Listing) ImageURLs() []string {
	if len(l.Images) > 0 {
		return l.Images
	}
	urls := make([]string, 0)
	for _, part := range strings.Split(l.ImageURL, ",") {
		if part = strings.TrimSpace(part); part != "" {
			urls = append(urls, part)
		}
	}
	return urls
}
