package source

import (
	"reflect"
	"testing"
)

func TestNormalizeKey(t *testing.T) {
	tests := map[string]string{
		" Image URL ":   KeyImageURL,
		"image_url":     KeyImageURL,
		"Images":        KeyImageURL,
		"Location":      KeyArea,
		"Price  From":   KeyPriceFrom,
		"NAME":          KeyName,
		"Opening Hours": "opening hours",
	}
	for input, want := range tests {
		if got := NormalizeKey(input); got != want {
			t.Fatalf("NormalizeKey(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestRecordDecoder_Decode(t *testing.T) {
	decoder := RecordDecoder{PhoneRegion: "US"}
	listing := decoder.Decode(map[string]string{
		"Name":          " Sunset Hotel ",
		"Category":      "1.Hotels",
		"Location":      "2.Bodija",
		"price_from":    "25000",
		"rating":        "4.5",
		"Image URL":     "https://img.example/a.jpg, ftp://img.example/b.jpg",
		"phone":         "650-253-0000",
		"address":       "12 Ring Road",
		"description":   "Pool and bar",
		"Opening Hours": "24/7",
		"empty extra":   "  ",
		"id":            "not-a-uuid",
	})

	if listing.Name != "Sunset Hotel" || listing.Category != "1.Hotels" || listing.Area != "2.Bodija" {
		t.Fatalf("unexpected core fields: %+v", listing)
	}
	if listing.PriceFrom != "25000" || listing.Rating != "4.5" {
		t.Fatalf("unexpected display fields: %+v", listing)
	}
	if listing.Phone != "650-253-0000" || listing.PhoneE164 != "+16502530000" {
		t.Fatalf("unexpected phone fields: %q %q", listing.Phone, listing.PhoneE164)
	}
	if !reflect.DeepEqual(listing.Images, []string{"https://img.example/a.jpg"}) {
		t.Fatalf("unexpected images: %v", listing.Images)
	}
	if !reflect.DeepEqual(listing.Extra, map[string]string{"opening hours": "24/7"}) {
		t.Fatalf("unexpected extra: %v", listing.Extra)
	}
	if listing.ID != nil {
		t.Fatalf("expected invalid id to be ignored")
	}
}

func TestDecodeRecord_ToleratesEmptyRecord(t *testing.T) {
	listing := DecodeRecord(map[string]string{})
	if listing.Name != "" || listing.Extra != nil || listing.Images != nil || listing.PhoneE164 != "" {
		t.Fatalf("expected zero listing, got %+v", listing)
	}
	if listing.CategoryKey() != "other.other" {
		t.Fatalf("expected fallback category key, got %q", listing.CategoryKey())
	}
}

func TestDecodeRecord_ParsesID(t *testing.T) {
	listing := DecodeRecord(map[string]string{"id": "6f1c1e3a-3f5e-4d6b-9a51-2b1f0c9d8e7a"})
	if listing.ID == nil || listing.ID.String() != "6f1c1e3a-3f5e-4d6b-9a51-2b1f0c9d8e7a" {
		t.Fatalf("expected parsed id, got %v", listing.ID)
	}
}
