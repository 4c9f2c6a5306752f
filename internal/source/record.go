package source

import (
	"maps"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/octobees/marketplace-catalog/internal/entity"
)

// Canonical record keys.
const (
	KeyID          = "id"
	KeyName        = "name"
	KeyCategory    = "category"
	KeyArea        = "area"
	KeyPriceFrom   = "price_from"
	KeyRating      = "rating"
	KeyImageURL    = "image url"
	KeyPhone       = "phone"
	KeyAddress     = "address"
	KeyDescription = "description"
)

var keyAliases = map[string]string{
	"image_url":    KeyImageURL,
	"imageurl":     KeyImageURL,
	"image":        KeyImageURL,
	"images":       KeyImageURL,
	"location":     KeyArea,
	"price from":   KeyPriceFrom,
	"pricefrom":    KeyPriceFrom,
	"price":        KeyPriceFrom,
	"phone number": KeyPhone,
	"telephone":    KeyPhone,
}

// NormalizeKey lower-cases and trims a column name, collapses inner
// whitespace and resolves known aliases.
func NormalizeKey(key string) string {
	key = strings.ToLower(strings.Join(strings.Fields(key), " "))
	if canonical, ok := keyAliases[key]; ok {
		return canonical
	}
	return key
}

// RecordDecoder maps flat string records onto listings.
type RecordDecoder struct {
	// PhoneRegion is the ISO region used for numbers without a country code.
	PhoneRegion string
}

// DecodeRecord decodes with the default phone region.
func DecodeRecord(record map[string]string) entity.Listing {
	return RecordDecoder{}.Decode(record)
}

// Decode never fails. Unknown keys land in Extra, a phone number that cannot
// be parsed leaves PhoneE164 empty and invalid image URLs are dropped.
func (d RecordDecoder) Decode(record map[string]string) entity.Listing {
	var listing entity.Listing
	for _, rawKey := range slices.Sorted(maps.Keys(record)) {
		value := strings.TrimSpace(record[rawKey])
		switch key := NormalizeKey(rawKey); key {
		case KeyID:
			if id, err := uuid.Parse(value); err == nil {
				listing.ID = &id
			}
		case KeyName:
			listing.Name = value
		case KeyCategory:
			listing.Category = value
		case KeyArea:
			listing.Area = value
		case KeyPriceFrom:
			listing.PriceFrom = value
		case KeyRating:
			listing.Rating = value
		case KeyImageURL:
			listing.ImageURL = joinNonEmpty(listing.ImageURL, value)
		case KeyPhone:
			listing.Phone = value
		case KeyAddress:
			listing.Address = value
		case KeyDescription:
			listing.Description = value
		case "":
		default:
			if value == "" {
				continue
			}
			if listing.Extra == nil {
				listing.Extra = make(map[string]string)
			}
			listing.Extra[key] = value
		}
	}

	listing.PhoneE164 = normalizePhone(listing.Phone, d.PhoneRegion)
	listing.Images = splitImageURLs(listing.ImageURL)
	return listing
}

func joinNonEmpty(current, next string) string {
	switch {
	case next == "":
		return current
	case current == "":
		return next
	default:
		return current + "," + next
	}
}
